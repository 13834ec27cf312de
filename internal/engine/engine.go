package engine

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"cosplot/internal/logging"
	"cosplot/internal/pipeline"
	"cosplot/internal/transport"
)

type Config struct {
	GRPCPort    int
	MetricsPort int    // 0 disables /metrics
	PipelineYml string // optional; run once at startup
}

type Engine struct {
	transport *transport.Server
	metrics   *http.Server
	runner    *pipeline.Runner
}

// Run serves the transform service (and runs the optional pipeline once)
// until ctx is cancelled. The pipeline goroutine owns the runner and closes
// it when Run returns.
func (e *Engine) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(e.transport.Serve)

	if e.runner != nil {
		g.Go(func() error {
			if err := e.runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			logging.L().Info("engine: pipeline finished")
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		e.transport.Stop()
		if e.metrics != nil {
			sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = e.metrics.Shutdown(sctx)
		}
		return nil
	})

	return g.Wait()
}
