package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/cinebook/cinebook-gateway/internal/pkg/logger"
	"github.com/cinebook/cinebook-gateway/internal/pkg/response"
	"github.com/cinebook/cinebook-gateway/internal/pkg/session"
)

// SessionCookie names the cookie holding the gateway session id.
const SessionCookie = "cinebook_session"

// SessionOptions configures the session cookie.
type SessionOptions struct {
	TTL    time.Duration
	Secure bool
}

// Session loads the browser's session by cookie, creating one when the
// cookie is missing, malformed or points at an expired session. The session
// is available to handlers through session.FromContext.
func Session(store session.Store, opts SessionOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var sess *session.Session
			if c, err := r.Cookie(SessionCookie); err == nil {
				if _, perr := uuid.Parse(c.Value); perr == nil {
					sess, err = store.Get(ctx, c.Value)
					if err != nil && !errors.Is(err, session.ErrNotFound) {
						logger.LogError(ctx, err, "session store unavailable")
						response.Error(w, http.StatusServiceUnavailable, "SESSION_UNAVAILABLE", "Session storage is unavailable, please try again")
						return
					}
				}
			}

			if sess == nil {
				sess = session.New(uuid.New().String(), time.Now())
				if err := store.Set(ctx, sess); err != nil {
					logger.LogError(ctx, err, "failed to create session")
					response.Error(w, http.StatusServiceUnavailable, "SESSION_UNAVAILABLE", "Session storage is unavailable, please try again")
					return
				}
				logger.LogDebug(ctx, "session created", "session_id", sess.ID)
			}

			// refresh the cookie so its lifetime follows the store TTL
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID,
				Path:     "/",
				MaxAge:   int(opts.TTL.Seconds()),
				HttpOnly: true,
				Secure:   opts.Secure,
				SameSite: http.SameSiteLaxMode,
			})

			next.ServeHTTP(w, r.WithContext(session.WithContext(ctx, sess)))
		})
	}
}
