package http

import (
	"net/http"

	"github.com/pairingbuds/buds/internal/buds/service"
	"github.com/pairingbuds/buds/pkg/httpx"
)

// pathSet is the exact-match public-route allow-list. Configuration, not
// logic: no prefixes, no wildcards.
type pathSet map[string]struct{}

func newPathSet(paths []string) pathSet {
	s := make(pathSet, len(paths))
	for _, p := range paths {
		s[p] = struct{}{}
	}
	return s
}

func (s pathSet) contains(path string) bool {
	_, ok := s[path]
	return ok
}

// Gateway intercepts every request and classifies it: public routes pass
// through untouched, everything else must present a live token pair. An
// expired access token is silently replaced using the refresh token; the
// replacement cookies ride the same response.
type Gateway struct {
	Auth          *service.AuthService
	PublicPaths   pathSet
	SecureCookies bool
}

func (g *Gateway) Middleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g.PublicPaths.contains(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			access := httpx.CookieValue(r, httpx.CookieAccessToken)
			refresh := httpx.CookieValue(r, httpx.CookieRefreshToken)

			res, err := g.Auth.Authenticate(r.Context(), access, refresh)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}

			if res.Rotated != nil {
				httpx.SetTokenCookie(w, httpx.CookieAccessToken,
					res.Rotated.AccessToken, res.Rotated.AccessTTL, g.SecureCookies)
				httpx.SetTokenCookie(w, httpx.CookieRefreshToken,
					res.Rotated.RefreshToken, res.Rotated.RefreshTTL, g.SecureCookies)
			}

			ctx := httpx.WithIdentity(r.Context(), httpx.Identity{
				UserID: res.UserID,
				Role:   res.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
