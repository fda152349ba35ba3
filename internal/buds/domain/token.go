package domain

import "time"

// TokenPair is what a successful login or refresh produces. Both tokens
// travel as HttpOnly cookies; the TTLs size the cookie Max-Age values.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}
