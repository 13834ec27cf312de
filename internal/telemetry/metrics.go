package telemetry

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cosplot/internal/logging"
)

var (
	PointsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cosplot",
		Name:      "points_emitted_total",
		Help:      "Points pushed to a sink.",
	}, []string{"sink"})

	TransformCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cosplot",
		Name:      "transform_calls_total",
		Help:      "Transform stage invocations by outcome (ok|retry|error).",
	}, []string{"stage", "outcome"})

	TransformLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cosplot",
		Name:      "transform_duration_seconds",
		Help:      "Latency of one transform stage call.",
		Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
	}, []string{"stage"})

	RPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cosplot",
		Name:      "rpc_requests_total",
		Help:      "Transform service requests by method and gRPC code.",
	}, []string{"method", "code"})
)

func Handler() http.Handler { return promhttp.Handler() }

// Expose serves /metrics on port in the background. The returned server can
// be shut down by the caller.
func Expose(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.L().Error("telemetry: metrics endpoint stopped", "port", port, "err", err)
		}
	}()
	return srv
}
