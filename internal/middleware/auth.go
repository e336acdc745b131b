package middleware

import (
	"net/http"
	"strings"

	"verbum/internal/auth"
	"verbum/internal/httputil"
)

// AuthMiddleware resolves the authenticated user id for each request.
//
// With a verifier, it requires a Bearer token and takes the user id from
// the verified subject claim. Without one (verifier == nil), it trusts the
// X-User-ID header, for deployments where authentication terminates at an
// upstream gateway.
func AuthMiddleware(verifier auth.JWTVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				userID := r.Header.Get("X-User-ID")
				if userID == "" {
					httputil.RespondError(w, http.StatusUnauthorized, "missing X-User-ID header")
					return
				}
				next.ServeHTTP(w, httputil.WithUserID(r, userID))
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.GetUserID()))
		})
	}
}

// SkipAuth exempts specific routes (health, webhooks with their own
// signature verification) from the auth middleware.
func SkipAuth(authMw func(http.Handler) http.Handler, skip map[string]bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		authed := authMw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			authed.ServeHTTP(w, r)
		})
	}
}
