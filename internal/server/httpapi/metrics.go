package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/studiosite/internal/common"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	authFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_auth_failures_total",
			Help: "Rejected authentication attempts by reason",
		},
		[]string{"reason"},
	)
	uploadedBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_uploaded_bytes_total",
			Help: "Bytes accepted by the upload endpoint by media type",
		},
		[]string{"mime_type"},
	)
)

// PrometheusMiddleware records request duration labelled by route pattern.
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpRequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}

func recordAuthFailure(err error) {
	reason := "invalid_token"
	switch {
	case errors.Is(err, common.ErrMissingToken):
		reason = "missing_token"
	case errors.Is(err, common.ErrExpiredToken):
		reason = "expired_token"
	case errors.Is(err, common.ErrInvalidCredentials):
		reason = "invalid_credentials"
	}
	authFailures.WithLabelValues(reason).Inc()
}
