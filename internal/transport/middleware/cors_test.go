package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heartmarshall/swapmatch-backend/internal/config"
)

func corsConfig(origins string, credentials bool) config.CORSConfig {
	return config.CORSConfig{
		AllowedOrigins:   origins,
		AllowedMethods:   "GET,POST,OPTIONS",
		AllowedHeaders:   "Authorization,Content-Type",
		AllowCredentials: credentials,
		MaxAge:           86400,
	}
}

func preflight(origin string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, "/swipes", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	return req
}

func TestCORS_Preflight(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called for preflight")
	})

	rec := httptest.NewRecorder()
	CORS(corsConfig("https://app.example.com", true))(handler).ServeHTTP(rec, preflight("https://app.example.com"))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	h := rec.Header()
	assert.Equal(t, "https://app.example.com", h.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,POST,OPTIONS", h.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Authorization,Content-Type", h.Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "true", h.Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "86400", h.Get("Access-Control-Max-Age"))
	assert.Equal(t, "Origin", h.Get("Vary"))
}

func TestCORS_PreflightDisallowedOrigin(t *testing.T) {
	rec := httptest.NewRecorder()
	CORS(corsConfig("https://app.example.com", true))(okHandler()).ServeHTTP(rec, preflight("https://evil.example"))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORS_SimpleRequests(t *testing.T) {
	tests := []struct {
		name        string
		origins     string
		credentials bool
		origin      string
		wantOrigin  string
		wantCreds   string
	}{
		{"listed origin", "https://a.example, https://b.example", true, "https://b.example", "https://b.example", "true"},
		{"unlisted origin", "https://a.example", true, "https://evil.example", "", ""},
		{"wildcard", "*", false, "https://any.example", "https://any.example", ""},
		{"empty list", "", true, "https://a.example", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/opportunities", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			CORS(corsConfig(tt.origins, tt.credentials))(handler).ServeHTTP(rec, req)

			assert.True(t, called)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCreds, rec.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestCORS_NoOriginPassesThrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/opportunities", nil)
	rec := httptest.NewRecorder()

	CORS(corsConfig("*", true))(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Vary"))
}
