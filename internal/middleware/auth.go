package middleware

import (
	"context"
	"net/http"

	"github.com/gincana/placar/internal/domain"
	"github.com/gincana/placar/internal/service"
)

type contextKey string

const userKey contextKey = "user"

// Redirect targets used by the guard
const (
	LoginPath     = "/"
	DashboardPath = "/dashboard"
)

// Authorizer resolves a session token into an authorization decision
type Authorizer interface {
	Authorize(ctx context.Context, token string, requiredRoles ...domain.Role) service.Authorization
}

// RequireRoles guards a page. Requests without a valid session are sent to
// the login page, users outside roles to the dashboard. With no roles any
// logged in user passes.
func RequireRoles(auth Authorizer, roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, _ := ReadSession(r)

			res := auth.Authorize(r.Context(), token, roles...)
			switch res.Status {
			case service.Authorized:
				next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), res.User)))
			case service.Forbidden:
				http.Redirect(w, r, DashboardPath, http.StatusFound)
			default:
				http.Redirect(w, r, LoginPath, http.StatusFound)
			}
		})
	}
}

// WithUser stores the authorized user in ctx
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the user set by RequireRoles, or nil
func UserFromContext(ctx context.Context) *domain.User {
	user, ok := ctx.Value(userKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
