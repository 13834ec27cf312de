package engine

import (
	"context"
	"fmt"

	"cosplot/internal/logging"
	"cosplot/internal/pipeline"
	"cosplot/internal/telemetry"
	"cosplot/internal/transport"
)

func Bootstrap(_ context.Context, cfg Config) (*Engine, error) {
	// 1. transport server
	srv, err := transport.StartServer(cfg.GRPCPort)
	if err != nil {
		return nil, fmt.Errorf("transport: %w", err)
	}
	e := &Engine{transport: srv}

	// 2. pipeline runner
	if cfg.PipelineYml != "" {
		e.runner, err = pipeline.Compile(cfg.PipelineYml)
		if err != nil {
			srv.Stop()
			return nil, fmt.Errorf("pipeline: %w", err)
		}
	}

	// 3. metrics
	if cfg.MetricsPort > 0 {
		e.metrics = telemetry.Expose(cfg.MetricsPort)
	}

	logging.L().Info("engine: ready", "grpc", srv.Addr().String(), "metrics_port", cfg.MetricsPort, "pipeline", cfg.PipelineYml)
	return e, nil
}
