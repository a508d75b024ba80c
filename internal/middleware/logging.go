package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/carepledge/internal/ctxkeys"
)

const RequestIDHeader = "X-Request-ID"

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Paths to skip logging (probes)
var skipLoggingPaths = []string{
	"/health",
}

// RequestLogging logs HTTP requests with method, path, status, and duration
// Skips logging for paths defined in skipLoggingPaths
//
// Every request gets a request id (the caller's X-Request-ID if present),
// echoed in the response and stored in the context for handler logs.
func RequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)
		r = r.WithContext(ctxkeys.WithRequestID(r.Context(), requestID))

		// Skip logging for configured paths
		for _, prefix := range skipLoggingPaths {
			if strings.HasPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}
		}

		start := time.Now()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			written:        false,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		level := slog.LevelInfo
		if rw.statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(r.Context(), level, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"remote_addr", getClientIP(r),
			"request_id", requestID,
		)
	})
}
