package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Metrics are the application counters exported on the metrics port.
type Metrics struct {
	SessionsCreated *prometheus.CounterVec
	Reveals         *prometheus.CounterVec
	ActiveSessions  prometheus.Gauge
	Vouchers        *prometheus.CounterVec
	RenderSeconds   prometheus.Histogram
	MusicToggles    prometheus.Counter
}

// NewMetrics creates the application metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SessionsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "giftreveal_sessions_created_total",
			Help: "Reveal sessions created, by variant",
		}, []string{"variant"}),
		Reveals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "giftreveal_reveals_total",
			Help: "Reveal sessions started or triggered, by variant",
		}, []string{"variant"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "giftreveal_active_sessions",
			Help: "Sessions not yet torn down",
		}),
		Vouchers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "giftreveal_vouchers_total",
			Help: "Voucher downloads, by result",
		}, []string{"result"}),
		RenderSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "giftreveal_voucher_render_seconds",
			Help:    "Time spent rendering a voucher",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		}),
		MusicToggles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "giftreveal_music_toggles_total",
			Help: "Music preference toggles",
		}),
	}
	reg.MustRegister(m.SessionsCreated, m.Reveals, m.ActiveSessions, m.Vouchers, m.RenderSeconds, m.MusicToggles)
	return m
}

// MetricsServer manages the Prometheus metrics HTTP server.
type MetricsServer struct {
	server   *http.Server
	port     int
	endpoint string
	registry *prometheus.Registry
}

// NewMetricsServer creates a metrics server with Go runtime and process
// collectors registered.
func NewMetricsServer(port int, endpoint string) *MetricsServer {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mux := http.NewServeMux()
	mux.Handle(endpoint, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &MetricsServer{
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
		port:     port,
		endpoint: endpoint,
		registry: registry,
	}
}

// Registry is where application metrics are registered.
func (m *MetricsServer) Registry() *prometheus.Registry { return m.registry }

// Handler serves the metrics endpoint.
func (m *MetricsServer) Handler() http.Handler { return m.server.Handler }

// ListenAndServe blocks until the server stops. A graceful shutdown is not
// an error.
func (m *MetricsServer) ListenAndServe() error {
	logrus.Infof("metrics server listening on port %d%s", m.port, m.endpoint)
	if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("metrics server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the metrics server.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down metrics server...")
	if err := m.server.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("metrics server stopped")
	return nil
}
