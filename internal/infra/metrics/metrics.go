// Package metrics holds the Prometheus instruments shared by all three
// services. Collectors register with the default registry on import.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	JobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "publish_jobs_total",
			Help: "Publish and rollback jobs handled, by type and result.",
		}, []string{"type", "result"})

	JobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "publish_job_duration_seconds",
			Help:    "Time spent handling a single job.",
			Buckets: prometheus.DefBuckets,
		}, []string{"type"})

	ArtifactsWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "publish_artifacts_written_total",
			Help: "Page documents written to the artifact store.",
		})

	RuntimeResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runtime_responses_total",
			Help: "Runtime page responses, by HTTP status.",
		}, []string{"status"})

	DomainCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runtime_domain_cache_lookups_total",
			Help: "Hostname cache lookups, by result (hit, miss, error).",
		}, []string{"result"})

	OutboxForwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_outbox_events_total",
			Help: "Outbox events forwarded to the queue, by final status.",
		}, []string{"status"})
)

func init() {
	prometheus.MustRegister(
		JobsTotal,
		JobDuration,
		ArtifactsWritten,
		RuntimeResponses,
		DomainCacheLookups,
		OutboxForwarded,
	)
}

// Server exposes /metrics on its own listener.
type Server struct {
	srv *http.Server
}

func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &Server{srv: &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}}
}

func (s *Server) Start() {
	if s.srv.Addr == "" {
		return
	}
	go func() {
		slog.Info("metrics listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server stopped", "err", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv.Addr == "" {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
