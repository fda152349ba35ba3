package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/pairingbuds/buds/internal/buds/domain"
	budshttp "github.com/pairingbuds/buds/internal/buds/http"
	"github.com/pairingbuds/buds/internal/buds/service"
	"github.com/pairingbuds/buds/internal/buds/session"
	"github.com/pairingbuds/buds/internal/buds/store"
	"github.com/pairingbuds/buds/internal/buds/store/drivers/sqlite"
	"github.com/pairingbuds/buds/pkg/cryptox"
	"github.com/pairingbuds/buds/pkg/httpx"
	"github.com/pairingbuds/buds/pkg/jwtx"
	"github.com/pairingbuds/buds/pkg/slogx"
)

var publicPaths = []string{"/login", "/refresh", "/signup", "/quotes/today", "/livez", "/readyz"}

type serverFixture struct {
	Server   *httptest.Server
	Store    store.Store
	Sessions *session.Store
	Codec    *jwtx.Codec
	Redis    *miniredis.Miniredis
	Auth     *service.AuthService
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	sessions := session.NewStore(rdb, "buds")

	db, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "buds.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.ApplyMigrations())

	codec := jwtx.NewCodec([]byte("0123456789abcdef0123456789abcdef"), "buds-test")
	auth := &service.AuthService{
		Codec:      codec,
		Store:      db,
		Sessions:   sessions,
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 14 * 24 * time.Hour,
	}

	logger := slogx.New(slogx.Config{Level: "error", Format: "text"})
	router := budshttp.NewRouter(db, sessions, auth, publicPaths, false, logger)
	router.UserService = &service.UserService{Store: db, Sessions: sessions}
	router.LetterService = &service.LetterService{Store: db}
	router.DiaryService = &service.DiaryService{Store: db}
	router.CalendarService = &service.CalendarService{Store: db}
	router.QuoteService = &service.QuoteService{Store: db}
	router.QuestionService = &service.QuestionService{Store: db}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &serverFixture{
		Server:   srv,
		Store:    db,
		Sessions: sessions,
		Codec:    codec,
		Redis:    mr,
		Auth:     auth,
	}
}

func (f *serverFixture) createUser(t *testing.T, email, password, role string) int {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	id, err := f.Store.Users().CreateUser(context.Background(), domain.User{
		Email:        email,
		Name:         "Test",
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	})
	require.NoError(t, err)
	return id
}

func (f *serverFixture) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, f.Server.URL+path, reader)
	require.NoError(t, err)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := f.Server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (f *serverFixture) loginCookies(t *testing.T, email, password string) (access, refresh *http.Cookie) {
	t.Helper()

	resp := f.do(t, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	access = cookieByName(resp, httpx.CookieAccessToken)
	refresh = cookieByName(resp, httpx.CookieRefreshToken)
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	return access, refresh
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	f := newServerFixture(t)
	f.createUser(t, "mina@example.com", "long enough secret", domain.RoleUser)

	t.Run("success sets both cookies", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/login", map[string]string{
			"email":    "mina@example.com",
			"password": "long enough secret",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		access := cookieByName(resp, httpx.CookieAccessToken)
		require.NotNil(t, access)
		require.True(t, access.HttpOnly)
		require.Equal(t, "/", access.Path)
		require.Equal(t, int((30 * time.Minute).Seconds()), access.MaxAge)

		refresh := cookieByName(resp, httpx.CookieRefreshToken)
		require.NotNil(t, refresh)
		require.True(t, refresh.HttpOnly)
		require.Equal(t, int((14 * 24 * time.Hour).Seconds()), refresh.MaxAge)
	})

	t.Run("bad credentials set no cookies", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/login", map[string]string{
			"email":    "mina@example.com",
			"password": "wrong",
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Empty(t, resp.Cookies())
	})

	t.Run("malformed body", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, f.Server.URL+"/login", bytes.NewReader([]byte("{")))
		require.NoError(t, err)
		resp, err := f.Server.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGatewayAdmitsValidAccess(t *testing.T) {
	t.Parallel()

	f := newServerFixture(t)
	userID := f.createUser(t, "mina@example.com", "long enough secret", domain.RoleUser)
	access, _ := f.loginCookies(t, "mina@example.com", "long enough secret")

	resp := f.do(t, http.MethodGet, "/me", nil, access)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me struct {
		ID    int    `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	require.Equal(t, userID, me.ID)
	require.Equal(t, "mina@example.com", me.Email)
}

func TestGatewaySilentRotation(t *testing.T) {
	t.Parallel()

	f := newServerFixture(t)
	userID := f.createUser(t, "mina@example.com", "long enough secret", domain.RoleUser)
	_, refresh := f.loginCookies(t, "mina@example.com", "long enough secret")

	expired, err := f.Codec.IssueAccess(userID, 1, domain.RoleUser, -time.Minute)
	require.NoError(t, err)
	expiredCookie := &http.Cookie{Name: httpx.CookieAccessToken, Value: expired}

	resp := f.do(t, http.MethodGet, "/me", nil, expiredCookie, refresh)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The replacement access cookie rides the same response.
	rotated := cookieByName(resp, httpx.CookieAccessToken)
	require.NotNil(t, rotated)
	require.NotEqual(t, expired, rotated.Value)

	claims, err := f.Codec.Verify(rotated.Value)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, userID, id)
}

func TestGatewayRejections(t *testing.T) {
	t.Parallel()

	f := newServerFixture(t)
	f.createUser(t, "mina@example.com", "long enough secret", domain.RoleUser)

	t.Run("no tokens", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/me", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var body struct {
			Error string `json:"error"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Equal(t, "unauthenticated", body.Error)
	})

	t.Run("garbage access token", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/me", nil,
			&http.Cookie{Name: httpx.CookieAccessToken, Value: "garbage"})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("superseded session", func(t *testing.T) {
		firstAccess, firstRefresh := f.loginCookies(t, "mina@example.com", "long enough secret")
		f.loginCookies(t, "mina@example.com", "long enough secret")

		resp := f.do(t, http.MethodGet, "/me", nil, firstAccess, firstRefresh)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var body struct {
			Error string `json:"error"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Equal(t, "session_invalidated", body.Error)
	})

	t.Run("session store down fails closed", func(t *testing.T) {
		access, _ := f.loginCookies(t, "mina@example.com", "long enough secret")
		f.Redis.Close()

		resp := f.do(t, http.MethodGet, "/me", nil, access)
		require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestPublicPathBypass(t *testing.T) {
	t.Parallel()

	f := newServerFixture(t)

	t.Run("livez needs no tokens", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/livez", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("signup needs no tokens", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/signup", map[string]string{
			"email":    "fresh@example.com",
			"name":     "Fresh",
			"password": "long enough secret",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("near-miss paths stay protected", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/livez/extra", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRefreshEndpoint(t *testing.T) {
	t.Parallel()

	f := newServerFixture(t)
	f.createUser(t, "mina@example.com", "long enough secret", domain.RoleUser)
	_, refresh := f.loginCookies(t, "mina@example.com", "long enough secret")

	t.Run("live refresh token", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/refresh", nil, refresh)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		access := cookieByName(resp, httpx.CookieAccessToken)
		require.NotNil(t, access)
		_, err := f.Codec.Verify(access.Value)
		require.NoError(t, err)

		// Refresh cookie is reissued with the same token value.
		reissued := cookieByName(resp, httpx.CookieRefreshToken)
		require.NotNil(t, reissued)
		require.Equal(t, refresh.Value, reissued.Value)
	})

	t.Run("replay after second login", func(t *testing.T) {
		f.loginCookies(t, "mina@example.com", "long enough secret")

		resp := f.do(t, http.MethodPost, "/refresh", nil, refresh)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("no cookie at all", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/refresh", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLogoutEndpoint(t *testing.T) {
	t.Parallel()

	f := newServerFixture(t)
	f.createUser(t, "mina@example.com", "long enough secret", domain.RoleUser)
	access, refresh := f.loginCookies(t, "mina@example.com", "long enough secret")

	resp := f.do(t, http.MethodPost, "/logout", nil, access)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	t.Run("cookies are expired", func(t *testing.T) {
		for _, name := range []string{httpx.CookieAccessToken, httpx.CookieRefreshToken} {
			c := cookieByName(resp, name)
			require.NotNil(t, c)
			require.Less(t, c.MaxAge, 0)
		}
	})

	t.Run("refresh token replay rejected", func(t *testing.T) {
		replay := f.do(t, http.MethodPost, "/refresh", nil, refresh)
		require.Equal(t, http.StatusUnauthorized, replay.StatusCode)
	})
}

func TestAdminRoutes(t *testing.T) {
	t.Parallel()

	f := newServerFixture(t)
	f.createUser(t, "user@example.com", "long enough secret", domain.RoleUser)
	f.createUser(t, "admin@example.com", "long enough secret", domain.RoleAdmin)

	userAccess, _ := f.loginCookies(t, "user@example.com", "long enough secret")
	adminAccess, _ := f.loginCookies(t, "admin@example.com", "long enough secret")

	t.Run("non-admin is forbidden", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/admin/users", nil, userAccess)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin lists users", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/admin/users", nil, adminAccess)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var users []json.RawMessage
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&users))
		require.Len(t, users, 2)
	})

	t.Run("deactivation kills the session", func(t *testing.T) {
		var target struct {
			ID int `json:"id"`
		}
		resp := f.do(t, http.MethodGet, "/me", nil, userAccess)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&target))

		resp = f.do(t, http.MethodPatch, "/admin/users/"+strconv.Itoa(target.ID)+"/active",
			map[string]bool{"active": false}, adminAccess)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = f.do(t, http.MethodGet, "/me", nil, userAccess)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLetterFlow(t *testing.T) {
	t.Parallel()

	f := newServerFixture(t)
	aliceID := f.createUser(t, "alice@example.com", "long enough secret", domain.RoleUser)
	bobID := f.createUser(t, "bob@example.com", "long enough secret", domain.RoleUser)
	_, err := f.Store.Matches().CreateMatch(context.Background(), aliceID, bobID)
	require.NoError(t, err)

	aliceAccess, _ := f.loginCookies(t, "alice@example.com", "long enough secret")
	bobAccess, _ := f.loginCookies(t, "bob@example.com", "long enough secret")

	resp := f.do(t, http.MethodPost, "/letters", map[string]string{"content": "dear bob"}, aliceAccess)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var letter struct {
		ID         int    `json:"id"`
		ReceiverID int    `json:"receiver_id"`
		Status     string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&letter))
	require.Equal(t, bobID, letter.ReceiverID)
	require.Equal(t, domain.LetterSent, letter.Status)

	t.Run("receiver reads and it turns READ", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/letters/"+strconv.Itoa(letter.ID), nil, bobAccess)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		require.Equal(t, domain.LetterRead, got.Status)
	})

	t.Run("favorite round trip", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/letters/"+strconv.Itoa(letter.ID)+"/favorite", nil, bobAccess)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = f.do(t, http.MethodGet, "/letters/favorites", nil, bobAccess)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var favs []json.RawMessage
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&favs))
		require.Len(t, favs, 1)
	})
}
