package authn

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

// contextKey is a value for use with context.WithValue. It's used as a
// pointer so it fits in an interface{} without allocation.
type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "authn context value " + k.name
}

var principalKey = &contextKey{"AuthPrincipal"}

// Middleware resolves the AuthPrincipal from the verified token claims placed
// in the request context by jwtauth and stores it for downstream handlers.
// Requests without verifiable claims are rejected with 401.
func (c *Converter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			http.Error(w, "missing or invalid bearer token", http.StatusUnauthorized)
			return
		}

		principal, err := c.Convert(claims)
		if err != nil {
			slog.Error("failed to resolve principal from token", "err", err)
			http.Error(w, "unresolvable token principal", http.StatusUnauthorized)
			return
		}

		slog.Debug("authenticated request", "auth", principal)

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PrincipalFromContext returns the AuthPrincipal stored by Middleware.
func PrincipalFromContext(ctx context.Context) (AuthPrincipal, bool) {
	principal, ok := ctx.Value(principalKey).(AuthPrincipal)
	return principal, ok
}

// RequireAnyAuthority rejects with 403 any request whose principal holds none
// of the given authorities.
func RequireAnyAuthority(authorities ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				http.Error(w, "missing authenticated principal", http.StatusUnauthorized)
				return
			}
			if !principal.HasAnyAuthority(authorities...) {
				slog.Warn("access denied", "auth", principal, "required", authorities)
				http.Error(w, "insufficient role", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
