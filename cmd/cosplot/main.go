package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"cosplot/internal/logging"
	"cosplot/internal/pipeline"
	"cosplot/internal/plot"
)

func main() {
	pipelineYml := flag.String("pipeline", "", "pipeline YAML (default: built-in 1..16 run to stdout)")
	variant := flag.String("variant", string(plot.Single), "plot variant for the built-in run: single|dual")
	flag.Parse()

	logging.InitFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r, err := build(*pipelineYml, *variant)
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}
	if err := r.Run(ctx); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func build(path, variant string) (*pipeline.Runner, error) {
	if path != "" {
		return pipeline.Compile(path)
	}
	v, err := plot.ParseVariant(variant)
	if err != nil {
		return nil, err
	}
	return pipeline.Default(v)
}
