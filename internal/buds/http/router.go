package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pairingbuds/buds/internal/buds/service"
	"github.com/pairingbuds/buds/internal/buds/session"
	"github.com/pairingbuds/buds/internal/buds/store"
	"github.com/pairingbuds/buds/pkg/httpx"
	"github.com/pairingbuds/buds/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	logger    *slog.Logger
	startTime time.Time

	store         store.Store
	sessions      *session.Store
	secureCookies bool

	AuthService     *service.AuthService
	UserService     *service.UserService
	LetterService   *service.LetterService
	DiaryService    *service.DiaryService
	CalendarService *service.CalendarService
	QuoteService    *service.QuoteService
	QuestionService *service.QuestionService
}

// NewRouter wires the middleware chain: request logging outermost, then the
// authentication gateway guarding every route not on the public allow-list.
func NewRouter(
	st store.Store,
	sessions *session.Store,
	auth *service.AuthService,
	publicPaths []string,
	secureCookies bool,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		logger:        logger,
		startTime:     time.Now(),
		store:         st,
		sessions:      sessions,
		secureCookies: secureCookies,
		AuthService:   auth,
	}

	gateway := &Gateway{
		Auth:          auth,
		PublicPaths:   newPathSet(publicPaths),
		SecureCookies: secureCookies,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(logger),
		gateway.Middleware(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerLetters()
	r.registerDiaries()
	r.registerCalendars()
	r.registerQuotes()
	r.registerQuestions()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	login := &LoginHandler{AuthService: r.AuthService, Secure: r.secureCookies}
	refresh := &RefreshHandler{AuthService: r.AuthService, Secure: r.secureCookies}
	logout := &LogoutHandler{AuthService: r.AuthService, Secure: r.secureCookies}

	r.Mux.Handle("POST /login", login)
	r.Mux.Handle("POST /refresh", refresh)
	r.Mux.Handle("POST /logout", logout)
}

func (r *Router) registerUsers() {
	signup := &SignupHandler{UserService: r.UserService}
	me := &MeHandler{UserService: r.UserService}
	admin := &AdminUsersHandler{UserService: r.UserService}

	r.Mux.Handle("POST /signup", signup)
	r.Mux.Handle("GET /me", me)
	r.Mux.HandleFunc("GET /admin/users", admin.HandleList)
	r.Mux.HandleFunc("PATCH /admin/users/{id}/active", admin.HandleSetActive)
}

func (r *Router) registerLetters() {
	h := &LettersHandler{LetterService: r.LetterService}

	r.Mux.HandleFunc("POST /letters", h.HandleSend)
	r.Mux.HandleFunc("GET /letters/received", h.HandleListReceived)
	r.Mux.HandleFunc("GET /letters/sent", h.HandleListSent)
	r.Mux.HandleFunc("GET /letters/favorites", h.HandleListFavorites)
	r.Mux.HandleFunc("GET /letters/{id}", h.HandleGet)
	r.Mux.HandleFunc("POST /letters/{id}/favorite", h.HandleFavorite)
	r.Mux.HandleFunc("DELETE /letters/{id}/favorite", h.HandleUnfavorite)
}

func (r *Router) registerDiaries() {
	h := &DiariesHandler{DiaryService: r.DiaryService}

	r.Mux.HandleFunc("POST /diaries", h.HandleCreate)
	r.Mux.HandleFunc("GET /diaries", h.HandleList)
	r.Mux.HandleFunc("GET /diaries/{id}", h.HandleGet)
	r.Mux.HandleFunc("PUT /diaries/{id}", h.HandleUpdate)
	r.Mux.HandleFunc("DELETE /diaries/{id}", h.HandleDelete)
}

func (r *Router) registerCalendars() {
	h := &CalendarsHandler{CalendarService: r.CalendarService}

	r.Mux.HandleFunc("GET /calendars/{year}/{month}", h.HandleMonth)
	r.Mux.HandleFunc("POST /admin/badges", h.HandleAwardBadge)
}

func (r *Router) registerQuotes() {
	h := &QuotesHandler{QuoteService: r.QuoteService}

	r.Mux.HandleFunc("GET /quotes/today", h.HandleToday)
	r.Mux.HandleFunc("POST /quotes", h.HandleCreate)
	r.Mux.HandleFunc("DELETE /quotes/{id}", h.HandleDelete)
}

func (r *Router) registerQuestions() {
	h := &QuestionsHandler{QuestionService: r.QuestionService}

	r.Mux.HandleFunc("POST /cs/questions", h.HandleCreate)
	r.Mux.HandleFunc("GET /cs/questions", h.HandleListMine)
	r.Mux.HandleFunc("GET /cs/questions/{id}", h.HandleGet)
	r.Mux.HandleFunc("GET /admin/cs/questions", h.HandleListOpen)
	r.Mux.HandleFunc("POST /cs/questions/{id}/answer", h.HandleAnswer)
}

func (r *Router) registerSystem() {
	r.Mux.HandleFunc("GET /livez", r.handleLivez)
	r.Mux.HandleFunc("GET /readyz", r.handleReadyz)
}
