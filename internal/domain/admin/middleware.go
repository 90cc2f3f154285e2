package admin

import (
	"net/http"
	"time"

	"github.com/cinebook/cinebook-gateway/internal/pkg/logger"
	"github.com/cinebook/cinebook-gateway/internal/pkg/response"
	"github.com/cinebook/cinebook-gateway/internal/pkg/session"
)

// LoginPath is where the client goes when the admin token is gone.
const LoginPath = "/admin/login"

// RequireAdmin rejects requests whose session holds no usable admin token.
// An expired token is purged before answering.
func RequireAdmin(store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromContext(r.Context())
			if sess == nil {
				response.Unauthorized(w, "Session required")
				return
			}
			if sess.HasAdmin(time.Now()) {
				next.ServeHTTP(w, r)
				return
			}

			if sess.Admin != nil {
				sess.Admin = nil
				if err := store.Set(r.Context(), sess); err != nil {
					logger.LogError(r.Context(), err, "failed to purge expired admin token")
				}
				response.Redirect(w, ErrSessionExpired.Error(), LoginPath)
				return
			}
			response.Redirect(w, "Please log in", LoginPath)
		})
	}
}
