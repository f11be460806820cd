package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/briancappello/starter/internal/config"
)

func corsConfig(origins string, credentials bool) config.CORSConfig {
	return config.CORSConfig{
		AllowedOrigins:   origins,
		AllowedMethods:   "GET,POST,PATCH,OPTIONS",
		AllowedHeaders:   "Authorization,Content-Type",
		AllowCredentials: credentials,
		MaxAge:           86400,
	}
}

func TestCORS_Preflight(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called for preflight")
	})

	req := httptest.NewRequest(http.MethodOptions, "/auth/v1/login", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()

	CORS(corsConfig("https://example.com", true))(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	h := rec.Header()
	assert.Equal(t, "https://example.com", h.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,POST,PATCH,OPTIONS", h.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Authorization,Content-Type", h.Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "true", h.Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "86400", h.Get("Access-Control-Max-Age"))
	assert.Equal(t, "Origin", h.Get("Vary"))
}

func TestCORS_PreflightDisallowedOrigin(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called for preflight")
	})

	req := httptest.NewRequest(http.MethodOptions, "/auth/v1/login", nil)
	req.Header.Set("Origin", "https://evil.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()

	CORS(corsConfig("https://example.com", true))(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `{"detail":"disallowed CORS origin"}`, rec.Body.String())
}

func TestCORS_SimpleRequests(t *testing.T) {
	tests := []struct {
		name        string
		origins     string
		credentials bool
		method      string
		origin      string
		wantOrigin  string
		wantCreds   string
	}{
		{"allowed origin", "https://example.com, https://other.com", true, http.MethodGet, "https://other.com", "https://other.com", "true"},
		{"disallowed origin", "https://example.com", true, http.MethodGet, "https://evil.com", "", ""},
		{"wildcard", "*", false, http.MethodGet, "https://any-origin.com", "https://any-origin.com", ""},
		{"no origin header", "*", true, http.MethodGet, "", "", ""},
		{"options without request method", "*", false, http.MethodOptions, "https://example.com", "https://example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(tt.method, "/api/v1/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()

			CORS(corsConfig(tt.origins, tt.credentials))(handler).ServeHTTP(rec, req)

			assert.True(t, called, "handler should be called")
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCreds, rec.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestParseOrigins(t *testing.T) {
	set, any := parseOrigins(" https://a.com ,, https://b.com")
	assert.False(t, any)
	assert.Equal(t, map[string]bool{"https://a.com": true, "https://b.com": true}, set)

	_, any = parseOrigins("https://a.com,*")
	assert.True(t, any)
}
