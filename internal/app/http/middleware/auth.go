package middleware

import (
	"net/http"

	"escher-cotizador/go_backend/internal/infra/identity"
)

// InternalAuth gates the API on the shared internal token and stores the
// acting user from X-User-Id on the request context, where the identity
// provider reads it.
func InternalAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Internal-Token") != token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if uid := r.Header.Get("X-User-Id"); uid != "" {
				r = r.WithContext(identity.WithUserID(r.Context(), uid))
			}
			next.ServeHTTP(w, r)
		})
	}
}
