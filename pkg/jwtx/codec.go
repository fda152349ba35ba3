package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification failures. Callers branch on these: an expired access
// token falls through to the refresh path, everything else is terminal.
var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// Codec issues and verifies signed tokens. The signing secret is injected
// once at construction; the codec itself performs no I/O.
type Codec struct {
	secret []byte
	issuer string
}

// NewCodec returns a Codec signing with HS256 over the given secret.
func NewCodec(secret []byte, issuer string) *Codec {
	return &Codec{secret: secret, issuer: issuer}
}

// IssueAccess mints an access token carrying role and session version.
func (c *Codec) IssueAccess(userID int, version int64, role string, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: newRegisteredClaims(userID, ttl, c.issuer, time.Now().UTC()),
		Kind:             KindAccess,
		Role:             role,
		Version:          version,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// IssueRefresh mints a refresh token. It carries no role or version; its
// validity is decided by byte-comparison against the session store.
func (c *Codec) IssueRefresh(userID int, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: newRegisteredClaims(userID, ttl, c.issuer, time.Now().UTC()),
		Kind:             KindRefresh,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify parses and validates a token string.
//
// On ErrExpired the decoded claims are still returned so the caller can
// inspect the subject; every other failure returns zero claims.
func (c *Codec) Verify(raw string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
	)

	token, err := parser.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, ErrMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid),
			errors.Is(err, jwt.ErrTokenUnverifiable):
			return Claims{}, ErrInvalidSig
		case errors.Is(err, jwt.ErrTokenInvalidIssuer),
			errors.Is(err, jwt.ErrTokenUsedBeforeIssued),
			errors.Is(err, jwt.ErrTokenNotValidYet):
			return Claims{}, ErrInvalidClaim
		case errors.Is(err, jwt.ErrTokenExpired):
			if token != nil {
				if claims, ok := token.Claims.(*Claims); ok {
					return *claims, ErrExpired
				}
			}
			return Claims{}, ErrExpired
		default:
			return Claims{}, ErrMalformed
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidClaim
	}

	if _, err := claims.UserID(); err != nil {
		return Claims{}, ErrInvalidClaim
	}

	return *claims, nil
}
