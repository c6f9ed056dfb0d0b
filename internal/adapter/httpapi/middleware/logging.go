package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/muhammadegaa/easyhome/internal/platform/logger"
	"github.com/muhammadegaa/easyhome/internal/platform/metrics"
	"go.uber.org/zap"
)

// RequestLogger logs every request and records latency and error metrics.
// The metrics are labeled with the chi route pattern so path parameters do
// not explode the label space.
func RequestLogger(log *logger.Logger, m *metrics.Manager) func(http.Handler) http.Handler {
	requestLog := log.Named("http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			route := r.Method + " " + routePattern(r)

			m.HTTPRequestLatency.WithLabelValues(route).Observe(elapsed.Seconds())
			if ww.Status() >= 400 {
				m.HTTPErrorsTotal.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
			}

			requestLog.Info("request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", elapsed),
				zap.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
