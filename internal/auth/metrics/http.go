package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aussiebroadwan/reelgate/pkg/httpx"
)

const (
	resultSuccess = "success"
	resultError   = "error"
)

// HTTPMiddleware records request count, latency and in-flight requests.
// It must wrap the ServeMux directly so the matched route pattern is
// visible after the call. Label values use the pattern, never the raw
// path, to keep cardinality bounded.
func HTTPMiddleware(m Recorder) httpx.Middleware {
	metrics, ok := m.(*Metrics)
	if !ok {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			path := r.Pattern
			if path == "" {
				path = "unmatched"
			}
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(sw.status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
