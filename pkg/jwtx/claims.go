package jwtx

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pairingbuds/buds/pkg/idx"
)

// Token kinds carried in the "typ" claim. Refresh tokens are never
// version-checked, only store-matched, so they omit role and version.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Default token TTLs. Short access tokens bound the window in which a
// superseded session can still be used; the refresh TTL bounds total
// session lifetime.
const (
	DefaultAccessTokenTTL  = 30 * time.Minute
	DefaultRefreshTokenTTL = 14 * 24 * time.Hour
)

// Claims is the decoded, verified payload of a token. It is returned by a
// single Verify call so callers never re-parse the token per field.
type Claims struct {
	jwt.RegisteredClaims

	// Kind distinguishes access from refresh tokens.
	Kind string `json:"typ,omitempty"`

	// Role is the caller's authorization label. Access tokens only.
	Role string `json:"role,omitempty"`

	// Version is the session epoch the token was minted under. An access
	// token is live only while this equals the server-side counter.
	// Access tokens only.
	Version int64 `json:"ver,omitempty"`
}

// newRegisteredClaims builds the shared registered-claim set for both token kinds.
func newRegisteredClaims(userID int, ttl time.Duration, issuer string, now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        idx.New().String(),
	}
}

// UserID parses the subject claim into the integer user identifier.
func (c *Claims) UserID() (int, error) {
	id, err := strconv.Atoi(c.Subject)
	if err != nil || id <= 0 {
		return 0, ErrInvalidClaim
	}
	return id, nil
}

// TTL reports the issued lifetime (exp - iat), zero when either is missing.
func (c *Claims) TTL() time.Duration {
	if c.ExpiresAt == nil || c.IssuedAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(c.IssuedAt.Time)
}
