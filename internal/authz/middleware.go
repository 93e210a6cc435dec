package authz

import (
	"log/slog"
	"net/http"

	"github.com/meridian-shop/meridian-shop/internal/platform/httpx"
	"github.com/meridian-shop/meridian-shop/internal/shared"
)

// Middleware gates protected routes. Every request re-runs the full chain:
// session resolution first, then the permission decision, with no caching of
// decisions between requests.
type Middleware struct {
	Engine *Engine
	Logger *slog.Logger
}

// RequireAuthenticated passes the request through only when a non-anonymous
// session is present. This is the "logged in, any role" gate.
func (m Middleware) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := shared.CurrentUserID(r.Context()); !ok {
			httpx.Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission ensures the caller is authenticated and that their
// current role satisfies the required grant set. Unauthenticated callers get
// 401 even when required is empty; only the decision engine itself treats an
// empty requirement as vacuously granted.
func (m Middleware) RequirePermission(required GrantSet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := shared.CurrentUserID(r.Context())
			if !ok {
				httpx.Unauthorized(w)
				return
			}
			granted, err := m.Engine.UserHasPermission(r.Context(), userID, required)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("authz require permission", slog.Int64("user_id", userID), slog.Any("error", err))
				}
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			if !granted {
				httpx.Forbidden(w, httpx.PermissionDeniedDetail)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
