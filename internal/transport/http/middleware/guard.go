package middleware

import (
	"net/http"

	"civitec/internal/domain/access"
	"civitec/internal/transport/http/api"
)

// LoginRoute is where unauthenticated clients are sent.
const LoginRoute = "/login"

// HomeRoute is the default authenticated landing page, offered as the
// single action on an access-denied response.
const HomeRoute = "/dashboard"

// RequireModule gates a route subtree on the authoritative module
// check. The two failure modes stay distinct: no identity gets a 401
// with a redirect hint (the client navigates away), a denied identity
// gets a 403 rendered in place with a link home. A denial is a normal
// outcome, not an error.
func RequireModule(module access.Module) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.FailWithDetails(w, http.StatusUnauthorized, "unauthorized", "authentication required",
					map[string]string{"redirect": LoginRoute}, GetRequestID(r.Context()))
				return
			}

			if !access.CanAccessModule(user.Snapshot(), module) {
				api.FailWithDetails(w, http.StatusForbidden, "access_denied", "você não tem permissão para acessar este módulo",
					map[string]string{"module": string(module), "home": HomeRoute}, GetRequestID(r.Context()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthenticated gates routes that any signed-in user may reach,
// such as the identity snapshot and menu endpoints.
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); !ok {
			api.FailWithDetails(w, http.StatusUnauthorized, "unauthorized", "authentication required",
				map[string]string{"redirect": LoginRoute}, GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}
