// Package middleware holds the HTTP middleware for the import API: bearer
// token checks, role gates, CORS, rate limiting, proxy-aware client IPs and
// request logging.
package middleware

import (
	"net/http"
	"time"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/logging"
)

// Logger logs one line per request with status, duration and client IP.
// Requests from an authenticated caller also carry user_id. The logger comes
// from the context, so chi's RequestID must run first.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		// Authenticate runs deeper in the chain; it reports the user back here.
		slot := &userSlot{}
		next.ServeHTTP(ww, r.WithContext(withUserSlot(r.Context(), slot)))

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"bytes", ww.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		}
		if slot.user.ID != "" {
			attrs = append(attrs, "user_id", slot.user.ID)
		}
		logging.FromContext(r.Context()).Info("request", attrs...)
	})
}

// responseWriter records the status code and body size.
type responseWriter struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.status = status
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
