package handlers

import (
	"context"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	apperrors "github.com/spinecare/fracture-dashboard/pkg/errors"
)

const defaultLandingPath = "/api/dashboard"

// SessionService defines the session operations used by the handler.
type SessionService interface {
	Enabled() bool
	TTL() time.Duration
	Login(ctx context.Context, passcode string) (string, error)
	Logout(ctx context.Context, token string) error
}

// CookieSettings controls the session cookie
type CookieSettings struct {
	Name   string
	Secure bool
}

// AuthHandler handles the passcode login and logout
type AuthHandler struct {
	sessions SessionService
	cookie   CookieSettings
	logger   zerolog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions SessionService, cookie CookieSettings, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		cookie:   cookie,
		logger:   logger,
	}
}

var loginPage = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Sign in</title></head>
<body>
<form method="post" action="/login">
<input type="hidden" name="next" value="{{.Next}}">
<label>Passcode <input type="password" name="passcode" autofocus></label>
<button type="submit">Sign in</button>
</form>
{{if .Error}}<p role="alert">{{.Error}}</p>{{end}}
</body>
</html>
`))

type loginView struct {
	Next  string
	Error string
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, statusCode int, view loginView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := loginPage.Execute(w, view); err != nil {
		h.logger.Warn().Err(err).Msg("failed to render login page")
	}
}

// safeNext only accepts local absolute paths as redirect targets
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return defaultLandingPath
	}
	return next
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Enabled() {
		http.Redirect(w, r, defaultLandingPath, http.StatusSeeOther)
		return
	}
	h.renderLogin(w, http.StatusOK, loginView{Next: safeNext(r.URL.Query().Get("next"))})
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, http.StatusBadRequest, loginView{Next: defaultLandingPath, Error: "invalid form"})
		return
	}
	next := safeNext(r.PostFormValue("next"))

	token, err := h.sessions.Login(r.Context(), r.PostFormValue("passcode"))
	if err != nil {
		switch apperrors.TypeOf(err) {
		case apperrors.ErrorTypeUnauthorized:
			h.logger.Info().Str("remote_addr", r.RemoteAddr).Msg("rejected login attempt")
			h.renderLogin(w, http.StatusUnauthorized, loginView{Next: next, Error: "Incorrect passcode"})
		case apperrors.ErrorTypeValidation:
			h.renderLogin(w, http.StatusBadRequest, loginView{Next: next, Error: "Passcode is required"})
		default:
			h.logger.Error().Err(err).Msg("login failed")
			h.renderLogin(w, http.StatusInternalServerError, loginView{Next: next, Error: "Sign in is unavailable"})
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessions.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookie.Name); err == nil {
		if err := h.sessions.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Warn().Err(err).Msg("failed to end session")
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
