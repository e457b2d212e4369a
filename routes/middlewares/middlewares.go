package middlewares

import (
	"net/http"

	"github.com/avetra/committee-portal/auth"
)

// AdminAuth gates a subrouter behind the shared admin secret. The secret is
// taken from the X-Admin-Secret header, falling back to the password half
// of basic auth so the admin pages work from a browser prompt.
func AdminAuth(gate *auth.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			secret := r.Header.Get("X-Admin-Secret")
			if secret == "" {
				if _, pass, ok := r.BasicAuth(); ok {
					secret = pass
				}
			}
			if !gate.Authorize(secret) {
				w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
