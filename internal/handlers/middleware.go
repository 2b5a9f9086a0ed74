package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/ivanjaven/extension/internal/services"
)

const loginPath = "/log-in"

// RequireSession gates protected routes on the auth cookies. The token must
// always verify; with strict enabled the session row must also validate, so a
// deleted session revokes a token that is still cryptographically valid. Any
// failure clears both cookies before responding, so stale cookies are never
// retried against a fresh session.
func RequireSession(tokens *services.TokenService, sessions *services.SessionService, strict bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenCookie, err := r.Cookie(cookieToken)
			if err != nil {
				rejectRequest(w, r)
				return
			}

			claims := tokens.Verify(tokenCookie.Value)
			if claims == nil {
				rejectRequest(w, r)
				return
			}

			if strict {
				sessionCookie, err := r.Cookie(cookieSession)
				if err != nil || !sessions.Validate(r.Context(), sessionCookie.Value, claims.AuthID) {
					rejectRequest(w, r)
					return
				}
			}

			ctx := context.WithValue(r.Context(), contextClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// rejectRequest clears the auth cookies, then redirects browser navigations
// to the login page and answers API clients with a 401.
func rejectRequest(w http.ResponseWriter, r *http.Request) {
	clearAuthCookies(w)
	if wantsHTML(r) {
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}
	writeError(w, http.StatusUnauthorized, "invalid session")
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// Home answers the application root. It is registered behind the strict
// variant of RequireSession, so reaching it means both the token and the
// session row checked out.
func Home(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromContext(r.Context())
	if err != nil {
		rejectRequest(w, r)
		return
	}
	writeJSON(w, http.StatusOK, SessionStatus{
		Valid:         true,
		Authenticated: true,
		Role:          claims.Role,
	})
}

// requireRole allows the request through only when the authenticated role is
// one of the given roles.
func requireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := claimsFromContext(r.Context())
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			for _, role := range roles {
				if strings.EqualFold(claims.Role, role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "insufficient role")
		})
	}
}
