package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"cosplot/internal/engine"
	"cosplot/internal/logging"
)

func main() {
	cfg := engine.Config{}
	flag.IntVar(&cfg.GRPCPort, "grpc-port", 7070, "transform service port")
	flag.IntVar(&cfg.MetricsPort, "metrics-port", 9100, "prometheus /metrics port (0 disables)")
	flag.StringVar(&cfg.PipelineYml, "pipeline", "", "optional pipeline YAML run once at startup")
	flag.Parse()

	logging.InitFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e, err := engine.Bootstrap(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	if err := e.Run(ctx); err != nil {
		log.Fatalf("engine: %v", err)
	}
}
