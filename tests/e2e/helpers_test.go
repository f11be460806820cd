//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/briancappello/starter/internal/adapter/postgres/testhelper"
	"github.com/briancappello/starter/internal/app"
	"github.com/briancappello/starter/internal/auth"
	"github.com/briancappello/starter/internal/config"
	"github.com/briancappello/starter/internal/domain"
	usersvc "github.com/briancappello/starter/internal/service/user"
)

const (
	testSecret   = "test-secret-at-least-32-chars-long!!"
	testPassword = "securepassword123"
	authPrefix   = "/auth/v1"
)

// testServer wraps the full-stack HTTP server for E2E tests.
type testServer struct {
	URL    string
	Client *http.Client
	App    *app.App
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

func testConfig(dsn string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{WriteTimeout: 30 * time.Second},
		Database: config.DatabaseConfig{
			DSN:             dsn,
			MaxConns:        5,
			MinConns:        1,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
			Autoflush:       true,
		},
		Auth: config.AuthConfig{
			SecretKey:       testSecret,
			URLPrefix:       authPrefix,
			RequireVerified: true,
			TokenLifetime:   time.Hour,
			VerifyTokenTTL:  time.Hour,
			ResetTokenTTL:   time.Hour,
			BcryptCost:      4,
			MinPasswordLen:  8,
		},
		Mail: config.MailConfig{Backend: config.MailBackendLog, From: "noreply@example.com", Concurrency: 1, QueueSize: 10},
		CORS: config.CORSConfig{
			AllowedOrigins:   "*",
			AllowedMethods:   "GET,POST,PATCH,OPTIONS",
			AllowedHeaders:   "Authorization,Content-Type",
			AllowCredentials: true,
			MaxAge:           600,
		},
		Site: config.SiteConfig{Name: "Starter", BaseURL: "http://localhost:8000"},
	}
}

// setupTestServer bootstraps the full application stack backed by
// a real PostgreSQL container (shared via testhelper).
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := testConfig(testhelper.DSN(t))
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))

	a, err := app.New(context.Background(), cfg, logger, app.WithSyncMail())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	srv := httptest.NewServer(a.Router(nil))
	t.Cleanup(srv.Close)

	return &testServer{URL: srv.URL, Client: srv.Client(), App: a}
}

// restRequest sends a JSON request and returns the raw response.
func restRequest(t *testing.T, ts *testServer, method, path, token string, body any) *http.Response {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, ts.URL+path, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	return resp
}

// restJSON sends a request and decodes the JSON body.
func restJSON(t *testing.T, ts *testServer, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	resp := restRequest(t, ts, method, path, token, body)
	defer resp.Body.Close()

	var out map[string]any
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func uniqueEmail(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8] + "@example.com"
}

// createUser creates a user through the admin service.
func createUser(t *testing.T, ts *testServer, email string, verified, superuser bool) *domain.User {
	t.Helper()

	u, err := ts.App.UserAdmin.Create(context.Background(), usersvc.CreateInput{
		Email:       email,
		Password:    testPassword,
		FirstName:   "Test",
		LastName:    "User",
		IsVerified:  verified,
		IsSuperuser: superuser,
	}, false)
	require.NoError(t, err)
	return u
}

// login returns a bearer token for email.
func login(t *testing.T, ts *testServer, email, password string) string {
	t.Helper()

	status, body := restJSON(t, ts, http.MethodPost, authPrefix+"/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, status, "login failed: %v", body)
	tok, ok := body["access_token"].(string)
	require.True(t, ok, "expected access_token string")
	return tok
}

// createTestUserAndGetToken creates a verified user and logs it in.
func createTestUserAndGetToken(t *testing.T, ts *testServer) (string, *domain.User) {
	t.Helper()

	u := createUser(t, ts, uniqueEmail("e2e"), true, false)
	return login(t, ts, u.Email, testPassword), u
}

// purposeToken issues a token the way the mail flows do.
func purposeToken(t *testing.T, audience string, u *domain.User) string {
	t.Helper()

	fp := ""
	if audience == auth.AudienceResetPassword {
		fp = auth.Fingerprint(u.HashedPassword)
	}
	tok, err := auth.NewTokenManager(testSecret, "Starter").Issue(audience, u.ID, u.Email, fp, time.Hour)
	require.NoError(t, err)
	return tok
}
