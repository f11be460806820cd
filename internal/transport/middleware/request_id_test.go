package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briancappello/starter/pkg/ctxutil"
)

func TestRequestID(t *testing.T) {
	incoming := uuid.New().String()

	tests := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{"reuses incoming", incoming, true},
		{"reuses opaque token", "req-42.abc", true},
		{"generates when missing", "", false},
		{"replaces too long", strings.Repeat("a", maxRequestIDLen+1), false},
		{"replaces non printable", "bad id\x01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotCtx string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotCtx = ctxutil.RequestIDFromCtx(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			gotHeader := rec.Header().Get(RequestIDHeader)
			require.NotEmpty(t, gotHeader)
			assert.Equal(t, gotHeader, gotCtx, "context and header must agree")

			if tt.wantSame {
				assert.Equal(t, tt.header, gotHeader)
				return
			}
			_, err := uuid.Parse(gotHeader)
			assert.NoError(t, err, "generated id should be a UUID")
		})
	}
}
