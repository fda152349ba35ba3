package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/pairingbuds/buds/internal/buds/domain"
	"github.com/pairingbuds/buds/internal/buds/service"
	"github.com/pairingbuds/buds/internal/buds/session"
	"github.com/pairingbuds/buds/internal/buds/store"
	"github.com/pairingbuds/buds/internal/buds/store/drivers/sqlite"
	"github.com/pairingbuds/buds/pkg/jwtx"
)

const (
	testEmail    = "mina@example.com"
	testPassword = "correct horse battery"
)

type authFixture struct {
	Auth     *service.AuthService
	Users    *service.UserService
	Store    store.Store
	Sessions *session.Store
	Codec    *jwtx.Codec
	Redis    *miniredis.Miniredis
	UserID   int
}

func newAuthFixture(t *testing.T) *authFixture {
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

	f := &authFixture{
		Auth: &service.AuthService{
			Codec:      codec,
			Store:      db,
			Sessions:   sessions,
			AccessTTL:  30 * time.Minute,
			RefreshTTL: 14 * 24 * time.Hour,
		},
		Users:    &service.UserService{Store: db, Sessions: sessions},
		Store:    db,
		Sessions: sessions,
		Codec:    codec,
		Redis:    mr,
	}

	user, err := f.Users.Register(context.Background(), service.RegisterParams{
		Email:    testEmail,
		Name:     "Mina",
		Password: testPassword,
	})
	require.NoError(t, err)
	f.UserID = user.ID
	return f
}

func (f *authFixture) login(t *testing.T) domain.TokenPair {
	t.Helper()
	_, pair, err := f.Auth.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)
	return pair
}

func TestLogin(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	t.Run("success establishes session", func(t *testing.T) {
		user, pair, err := f.Auth.Login(ctx, testEmail, testPassword)
		require.NoError(t, err)
		require.Equal(t, f.UserID, user.ID)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)

		version, err := f.Sessions.GetVersion(ctx, f.UserID)
		require.NoError(t, err)
		require.Equal(t, int64(1), version)

		stored, err := f.Sessions.GetRefreshToken(ctx, f.UserID)
		require.NoError(t, err)
		require.Equal(t, pair.RefreshToken, stored)

		claims, err := f.Codec.Verify(pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, int64(1), claims.Version)
		require.Equal(t, domain.RoleUser, claims.Role)
	})

	t.Run("each login bumps the version", func(t *testing.T) {
		before, err := f.Sessions.GetVersion(ctx, f.UserID)
		require.NoError(t, err)

		f.login(t)

		after, err := f.Sessions.GetVersion(ctx, f.UserID)
		require.NoError(t, err)
		require.Equal(t, before+1, after)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := f.Auth.Login(ctx, testEmail, "wrong")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown identifier looks identical", func(t *testing.T) {
		_, _, err := f.Auth.Login(ctx, "nobody@example.com", testPassword)
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		require.NoError(t, f.Store.Users().SetUserActive(ctx, f.UserID, false))
		defer func() {
			require.NoError(t, f.Store.Users().SetUserActive(ctx, f.UserID, true))
		}()

		_, _, err := f.Auth.Login(ctx, testEmail, testPassword)
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()
	pair := f.login(t)

	t.Run("valid access token admits", func(t *testing.T) {
		res, err := f.Auth.Authenticate(ctx, pair.AccessToken, "")
		require.NoError(t, err)
		require.Equal(t, f.UserID, res.UserID)
		require.Equal(t, domain.RoleUser, res.Role)
		require.Nil(t, res.Rotated)
	})

	t.Run("no tokens at all", func(t *testing.T) {
		_, err := f.Auth.Authenticate(ctx, "", "")
		require.ErrorIs(t, err, service.ErrUnauthenticated)
	})

	t.Run("garbage access token", func(t *testing.T) {
		_, err := f.Auth.Authenticate(ctx, "not-a-token", pair.RefreshToken)
		require.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("forged access token", func(t *testing.T) {
		forged, err := jwtx.NewCodec([]byte("another-secret-another-secret!!!"), "buds-test").
			IssueAccess(f.UserID, 1, domain.RoleUser, time.Minute)
		require.NoError(t, err)

		_, err = f.Auth.Authenticate(ctx, forged, pair.RefreshToken)
		require.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("refresh token in the access slot", func(t *testing.T) {
		_, err := f.Auth.Authenticate(ctx, pair.RefreshToken, "")
		require.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("missing access falls through to refresh", func(t *testing.T) {
		res, err := f.Auth.Authenticate(ctx, "", pair.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, f.UserID, res.UserID)
		require.NotNil(t, res.Rotated)
	})
}

func TestAuthenticateVersionInvalidation(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	first := f.login(t)
	f.login(t) // second device

	// The first session's access token is unexpired and well signed, yet it
	// must be rejected, and the refresh token must not rescue it.
	_, err := f.Auth.Authenticate(ctx, first.AccessToken, first.RefreshToken)
	require.ErrorIs(t, err, service.ErrSessionInvalidated)
}

func TestAuthenticateExpiredAccessRotates(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()
	pair := f.login(t)

	expired, err := f.Codec.IssueAccess(f.UserID, 1, domain.RoleUser, -time.Minute)
	require.NoError(t, err)

	res, err := f.Auth.Authenticate(ctx, expired, pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, f.UserID, res.UserID)
	require.NotNil(t, res.Rotated)

	// Refresh token is reused unrotated.
	require.Equal(t, pair.RefreshToken, res.Rotated.RefreshToken)
	require.NotEqual(t, pair.AccessToken, res.Rotated.AccessToken)

	oldClaims, err := f.Codec.Verify(pair.AccessToken)
	require.NoError(t, err)
	newClaims, err := f.Codec.Verify(res.Rotated.AccessToken)
	require.NoError(t, err)
	require.NotEqual(t, oldClaims.ID, newClaims.ID)
	require.Equal(t, int64(1), newClaims.Version)

	t.Run("expired access with no refresh", func(t *testing.T) {
		_, err := f.Auth.Authenticate(ctx, expired, "")
		require.ErrorIs(t, err, service.ErrUnauthenticated)
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()
	pair := f.login(t)

	t.Run("live refresh token mints a new access token", func(t *testing.T) {
		res, err := f.Auth.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		require.NotNil(t, res.Rotated)

		claims, err := f.Codec.Verify(res.Rotated.AccessToken)
		require.NoError(t, err)
		version, err := f.Sessions.GetVersion(ctx, f.UserID)
		require.NoError(t, err)
		require.Equal(t, version, claims.Version)
	})

	t.Run("superseded refresh token", func(t *testing.T) {
		f.login(t)
		_, err := f.Auth.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, service.ErrSessionInvalidated)
	})

	t.Run("expired refresh token is fatal", func(t *testing.T) {
		stale, err := f.Codec.IssueRefresh(f.UserID, -time.Minute)
		require.NoError(t, err)

		_, err = f.Auth.Refresh(ctx, stale)
		require.ErrorIs(t, err, service.ErrSessionExpired)
	})

	t.Run("access token in the refresh slot", func(t *testing.T) {
		fresh := f.login(t)
		_, err := f.Auth.Refresh(ctx, fresh.AccessToken)
		require.ErrorIs(t, err, service.ErrInvalidToken)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()
	pair := f.login(t)

	require.NoError(t, f.Auth.Logout(ctx, f.UserID))

	t.Run("idempotent", func(t *testing.T) {
		require.NoError(t, f.Auth.Logout(ctx, f.UserID))
	})

	t.Run("refresh token replay fails", func(t *testing.T) {
		_, err := f.Auth.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, service.ErrSessionInvalidated)
	})

	t.Run("unexpired access token still admits until it expires", func(t *testing.T) {
		res, err := f.Auth.Authenticate(ctx, pair.AccessToken, "")
		require.NoError(t, err)
		require.Equal(t, f.UserID, res.UserID)
	})
}

func TestAuthenticateStoreUnavailable(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()
	pair := f.login(t)

	f.Redis.Close()

	_, err := f.Auth.Authenticate(ctx, pair.AccessToken, pair.RefreshToken)
	require.ErrorIs(t, err, session.ErrUnavailable)
}

func TestRefreshRaceWithLogin(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	first := f.login(t)
	expired, err := f.Codec.IssueAccess(f.UserID, 1, domain.RoleUser, -time.Minute)
	require.NoError(t, err)

	// A login lands between the expiry and the refresh comparison. The
	// comparison observes the new stored value and rejects the stale token.
	f.login(t)

	_, err = f.Auth.Authenticate(ctx, expired, first.RefreshToken)
	require.ErrorIs(t, err, service.ErrSessionInvalidated)
}
