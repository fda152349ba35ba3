package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/pairingbuds/buds/internal/buds/domain"
	"github.com/pairingbuds/buds/internal/buds/session"
	"github.com/pairingbuds/buds/internal/buds/store"
	"github.com/pairingbuds/buds/pkg/cryptox"
	"github.com/pairingbuds/buds/pkg/jwtx"
	"github.com/pairingbuds/buds/pkg/slogx"
)

// dummyHash is verified against on unknown-identifier logins so the failure
// path costs the same as a real password check.
const dummyHash = "$argon2id$v=19$m=19456,t=2,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// AuthService owns the session lifecycle: credential login, per-request
// token authentication with silent access-token rotation, and logout.
type AuthService struct {
	Codec      *jwtx.Codec
	Store      store.Store
	Sessions   *session.Store
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// AuthResult is the outcome of admitting a request. Rotated is non-nil when
// an expired access token was replaced; the transport layer must re-set the
// cookies from it.
type AuthResult struct {
	UserID  int
	Role    string
	Rotated *domain.TokenPair
}

// Login verifies the credentials and establishes a fresh session.
//
// The version bump invalidates every access token issued under previous
// logins, and the refresh-token overwrite invalidates the previous
// session's refresh token. Logging in on a second device logs the first
// one out.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = cryptox.VerifyPassword(password, dummyHash)
			return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		l.Info("login password mismatch", slog.Int("user_id", user.ID))
		return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
	}

	if !user.Active {
		l.Info("login rejected for deactivated user", slog.Int("user_id", user.ID))
		return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
	}

	version, err := s.Sessions.BumpVersion(ctx, user.ID)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	access, err := s.Codec.IssueAccess(user.ID, version, user.Role, s.AccessTTL)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}
	refresh, err := s.Codec.IssueRefresh(user.ID, s.RefreshTTL)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	if err := s.Sessions.SetRefreshToken(ctx, user.ID, refresh, s.RefreshTTL); err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	l.Info("login succeeded",
		slog.Int("user_id", user.ID),
		slog.Int64("session_version", version),
	)

	return user, domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessTTL:    s.AccessTTL,
		RefreshTTL:   s.RefreshTTL,
	}, nil
}

// Authenticate classifies a request's tokens and resolves an identity.
//
// A valid access token whose version matches the session counter admits
// directly. An expired access token falls through to the refresh path,
// which mints a replacement access token under the current version. Every
// other failure rejects. Session store errors propagate unwrapped so the
// caller fails closed on them.
func (s *AuthService) Authenticate(ctx context.Context, accessRaw, refreshRaw string) (AuthResult, error) {
	if accessRaw == "" && refreshRaw == "" {
		return AuthResult{}, ErrUnauthenticated
	}

	if accessRaw == "" {
		return s.refreshCheck(ctx, refreshRaw)
	}

	claims, err := s.Codec.Verify(accessRaw)
	switch {
	case err == nil:
		// handled below
	case errors.Is(err, jwtx.ErrExpired):
		// Expiry is the one recoverable access-token failure.
		return s.refreshCheck(ctx, refreshRaw)
	default:
		return AuthResult{}, ErrInvalidToken
	}

	if claims.Kind != jwtx.KindAccess {
		return AuthResult{}, ErrInvalidToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return AuthResult{}, ErrInvalidToken
	}

	current, err := s.Sessions.GetVersion(ctx, userID)
	if err != nil {
		return AuthResult{}, err
	}
	if claims.Version != current {
		// Superseded by a newer login. Deliberately no refresh fallback:
		// honoring the old refresh token would resurrect a killed session.
		return AuthResult{}, ErrSessionInvalidated
	}

	return AuthResult{UserID: userID, Role: claims.Role}, nil
}

// Refresh mints a new access token from a live refresh token. The refresh
// token itself is reused unrotated; its own TTL bounds session lifetime.
func (s *AuthService) Refresh(ctx context.Context, refreshRaw string) (AuthResult, error) {
	return s.refreshCheck(ctx, refreshRaw)
}

func (s *AuthService) refreshCheck(ctx context.Context, refreshRaw string) (AuthResult, error) {
	l := slogx.FromContext(ctx)

	if refreshRaw == "" {
		return AuthResult{}, ErrUnauthenticated
	}

	claims, err := s.Codec.Verify(refreshRaw)
	switch {
	case err == nil:
	case errors.Is(err, jwtx.ErrExpired):
		return AuthResult{}, ErrSessionExpired
	default:
		return AuthResult{}, ErrInvalidToken
	}

	if claims.Kind != jwtx.KindRefresh {
		return AuthResult{}, ErrInvalidToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return AuthResult{}, ErrInvalidToken
	}

	stored, err := s.Sessions.GetRefreshToken(ctx, userID)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return AuthResult{}, ErrSessionInvalidated
		}
		return AuthResult{}, err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(refreshRaw)) != 1 {
		l.Info("refresh token superseded", slog.Int("user_id", userID))
		return AuthResult{}, ErrSessionInvalidated
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return AuthResult{}, ErrSessionInvalidated
		}
		return AuthResult{}, err
	}
	if !user.Active {
		return AuthResult{}, ErrSessionInvalidated
	}

	version, err := s.Sessions.GetVersion(ctx, userID)
	if err != nil {
		return AuthResult{}, err
	}

	access, err := s.Codec.IssueAccess(userID, version, user.Role, s.AccessTTL)
	if err != nil {
		return AuthResult{}, err
	}

	l.Debug("access token rotated", slog.Int("user_id", userID))

	// The refresh cookie is reissued unchanged; its Max-Age shrinks to the
	// remaining lifetime so the cookie and the token expire together.
	remaining := s.RefreshTTL
	if claims.ExpiresAt != nil {
		remaining = time.Until(claims.ExpiresAt.Time)
	}

	return AuthResult{
		UserID: userID,
		Role:   user.Role,
		Rotated: &domain.TokenPair{
			AccessToken:  access,
			RefreshToken: refreshRaw,
			AccessTTL:    s.AccessTTL,
			RefreshTTL:   remaining,
		},
	}, nil
}

// Logout revokes the session's refresh token. Idempotent; logging out an
// already-absent session succeeds.
func (s *AuthService) Logout(ctx context.Context, userID int) error {
	if err := s.Sessions.DeleteRefreshToken(ctx, userID); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("logout", slog.Int("user_id", userID))
	return nil
}
