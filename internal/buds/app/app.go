package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	budshttp "github.com/pairingbuds/buds/internal/buds/http"
	"github.com/pairingbuds/buds/internal/buds/service"
	"github.com/pairingbuds/buds/internal/buds/session"
	"github.com/pairingbuds/buds/internal/buds/store"
	"github.com/pairingbuds/buds/internal/buds/store/drivers/sqlite"
	"github.com/pairingbuds/buds/pkg/cryptox"
	"github.com/pairingbuds/buds/pkg/jwtx"
	"github.com/pairingbuds/buds/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the pen-pal service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	rdb      *redis.Client
	sessions *session.Store

	authService     *service.AuthService
	userService     *service.UserService
	letterService   *service.LetterService
	diaryService    *service.DiaryService
	calendarService *service.CalendarService
	quoteService    *service.QuoteService
	questionService *service.QuestionService

	server *http.Server
	router *budshttp.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "buds",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	app.initSessions()
	app.initServices()
	app.initHTTP()

	return app, nil
}

func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(app.cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	app.db = db
	return nil
}

func (app *Application) initSessions() {
	app.rdb = redis.NewClient(&redis.Options{Addr: app.cfg.RedisAddr})
	app.sessions = session.NewStore(app.rdb, app.cfg.RedisPrefix)
}

func (app *Application) initServices() {
	codec := jwtx.NewCodec([]byte(app.cfg.SigningSecret), app.cfg.Issuer)

	app.authService = &service.AuthService{
		Codec:      codec,
		Store:      app.db,
		Sessions:   app.sessions,
		AccessTTL:  app.cfg.AccessTTL,
		RefreshTTL: app.cfg.RefreshTTL,
	}
	app.userService = &service.UserService{Store: app.db, Sessions: app.sessions}
	app.letterService = &service.LetterService{Store: app.db}
	app.diaryService = &service.DiaryService{Store: app.db}
	app.calendarService = &service.CalendarService{Store: app.db}
	app.quoteService = &service.QuoteService{Store: app.db}
	app.questionService = &service.QuestionService{Store: app.db}
}

func (app *Application) initHTTP() {
	router := budshttp.NewRouter(
		app.db,
		app.sessions,
		app.authService,
		app.cfg.PublicPaths,
		app.cfg.SecureCookies,
		app.logger,
	)
	router.UserService = app.userService
	router.LetterService = app.letterService
	router.DiaryService = app.diaryService
	router.CalendarService = app.calendarService
	router.QuoteService = app.quoteService
	router.QuestionService = app.questionService
	router.ApplyRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("buds service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down buds service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.rdb.Close(); err != nil {
		app.logger.Error("error closing session store client", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
	}

	app.logger.Info("buds service stopped")
	return nil
}
