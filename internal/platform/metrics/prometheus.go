package metrics

import (
	"net/http"

	"github.com/muhammadegaa/easyhome/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Manager holds the service's custom Prometheus metrics.
type Manager struct {
	Registry                *prometheus.Registry
	PropertiesCreatedTotal  prometheus.Counter
	PropertyUpdatesTotal    prometheus.Counter
	PropertyDeletesTotal    prometheus.Counter
	UsersRegisteredTotal    prometheus.Counter
	FavoriteTogglesTotal    prometheus.Counter
	ImageUploadsTotal       prometheus.Counter
	HTTPErrorsTotal         *prometheus.CounterVec
	HTTPRequestLatency      *prometheus.HistogramVec
}

// NewManager initializes and registers the custom metrics on a private
// registry so nothing else in the process can collide with it.
func NewManager(serviceName string) *Manager {
	registry := prometheus.NewRegistry()

	propertiesCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "properties_created_total",
		Help:      "Total number of property listings created.",
	})
	propertyUpdatesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "property_updates_total",
		Help:      "Total number of property listings updated.",
	})
	propertyDeletesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "property_deletes_total",
		Help:      "Total number of property listings deleted.",
	})
	usersRegisteredTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "users_registered_total",
		Help:      "Total number of user registrations.",
	})
	favoriteTogglesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "favorite_toggles_total",
		Help:      "Total number of favorite toggle operations.",
	})
	imageUploadsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "image_uploads_total",
		Help:      "Total number of property images uploaded.",
	})
	httpErrorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "http_errors_total",
		Help:      "Total number of HTTP errors by route and status.",
	}, []string{"route", "status"})
	httpRequestLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "http_request_latency_seconds",
		Help:      "Latency of HTTP requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	registry.MustRegister(
		propertiesCreatedTotal,
		propertyUpdatesTotal,
		propertyDeletesTotal,
		usersRegisteredTotal,
		favoriteTogglesTotal,
		imageUploadsTotal,
		httpErrorsTotal,
		httpRequestLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:               registry,
		PropertiesCreatedTotal: propertiesCreatedTotal,
		PropertyUpdatesTotal:   propertyUpdatesTotal,
		PropertyDeletesTotal:   propertyDeletesTotal,
		UsersRegisteredTotal:   usersRegisteredTotal,
		FavoriteTogglesTotal:   favoriteTogglesTotal,
		ImageUploadsTotal:      imageUploadsTotal,
		HTTPErrorsTotal:        httpErrorsTotal,
		HTTPRequestLatency:     httpRequestLatency,
	}
}

// StartMetricsServer exposes the registry on its own port at /metrics.
func StartMetricsServer(port string, appLogger *logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	appLogger.Info("Prometheus metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
	return server.ListenAndServe()
}
