package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/briancappello/starter/internal/domain"
	"github.com/briancappello/starter/pkg/ctxutil"
)

type accessLogKey struct{}

// accessLog collects fields that handlers further down the chain learn,
// such as the authenticated user, for the single access log line.
type accessLog struct {
	userID int64
	err    error
}

// noteUser records user on the request's access log entry, if any.
func noteUser(ctx context.Context, user *domain.User) {
	if e, ok := ctx.Value(accessLogKey{}).(*accessLog); ok && user != nil {
		e.userID = user.ID
	}
}

// noteError attaches err to the request's access log entry, if any.
func noteError(ctx context.Context, err error) {
	if e, ok := ctx.Value(accessLogKey{}).(*accessLog); ok {
		e.err = err
	}
}

// Logger logs one line per request with method, path, status, size,
// duration, request_id and, when known, user_id and error. 5xx responses log
// at error level and 4xx at warn.
func Logger(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			entry := &accessLog{}
			if u, ok := ctxutil.UserFromCtx(r.Context()); ok {
				entry.userID = u.ID
			}
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), accessLogKey{}, entry)))

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Int("bytes", sw.written),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", ctxutil.RequestIDFromCtx(r.Context())),
			}
			if entry.userID != 0 {
				attrs = append(attrs, slog.Int64("user_id", entry.userID))
			}
			if entry.err != nil {
				attrs = append(attrs, slog.String("error", entry.err.Error()))
			}

			level := slog.LevelInfo
			switch {
			case sw.status >= 500:
				level = slog.LevelError
			case sw.status >= 400:
				level = slog.LevelWarn
			}
			logger.LogAttrs(r.Context(), level, "http.request", attrs...)
		})
	}
}

// statusWriter captures the response status code and body size.
type statusWriter struct {
	http.ResponseWriter
	status      int
	written     int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(b)
	w.written += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
