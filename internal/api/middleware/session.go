package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
)

// LoginPath is where requests without a live session are sent
const LoginPath = "/login"

// SessionValidator checks session tokens
type SessionValidator interface {
	Enabled() bool
	Validate(ctx context.Context, token string) (bool, error)
}

// SessionMiddleware redirects requests without a live session to the login
// page. It passes everything through when the gate is disabled.
func SessionMiddleware(sessions SessionValidator, cookieName string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sessions.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			var token string
			if cookie, err := r.Cookie(cookieName); err == nil {
				token = cookie.Value
			}

			ok, err := sessions.Validate(r.Context(), token)
			if err != nil {
				logger.Error().Err(err).Msg("session lookup failed")
				http.Error(w, "session store unavailable", http.StatusServiceUnavailable)
				return
			}
			if !ok {
				target := LoginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
