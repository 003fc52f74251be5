package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spinecare/fracture-dashboard/internal/api/middleware"
	"github.com/stretchr/testify/assert"
)

func corsResponse(allowed []string, method, origin string) *httptest.ResponseRecorder {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middleware.CORSMiddleware(allowed)(next)

	req := httptest.NewRequest(method, "/api/dashboard", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCORSMiddleware_Origins(t *testing.T) {
	tests := []struct {
		name            string
		allowed         []string
		origin          string
		wantOrigin      string
		wantCredentials string
	}{
		{
			name:       "no configuration allows any origin without credentials",
			allowed:    nil,
			origin:     "https://evil.example",
			wantOrigin: "*",
		},
		{
			name:       "wildcard first",
			allowed:    []string{"*", "https://dash.example.org"},
			origin:     "https://evil.example",
			wantOrigin: "*",
		},
		{
			name:       "wildcard after an explicit origin",
			allowed:    []string{"https://dash.example.org", "*"},
			origin:     "https://evil.example",
			wantOrigin: "*",
		},
		{
			name:       "wildcard after an explicit origin, listed origin",
			allowed:    []string{"https://dash.example.org", "*"},
			origin:     "https://dash.example.org",
			wantOrigin: "*",
		},
		{
			name:            "explicit list echoes a listed origin with credentials",
			allowed:         []string{"https://dash.example.org", "https://ops.example.org"},
			origin:          "https://ops.example.org",
			wantOrigin:      "https://ops.example.org",
			wantCredentials: "true",
		},
		{
			name:    "explicit list ignores other origins",
			allowed: []string{"https://dash.example.org"},
			origin:  "https://evil.example",
		},
		{
			name:    "no origin header",
			allowed: []string{"https://dash.example.org"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := corsResponse(tt.allowed, http.MethodGet, tt.origin)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCredentials, rec.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	rec := corsResponse([]string{"https://dash.example.org"}, http.MethodOptions, "https://dash.example.org")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://dash.example.org", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, rec.Header().Values("Vary"), "Origin")
}
