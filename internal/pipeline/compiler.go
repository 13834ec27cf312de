package pipeline

import (
	"errors"
	"fmt"
	"time"

	"cosplot/internal/config"
	"cosplot/internal/plot"
	"cosplot/internal/spec"
	"cosplot/internal/transform"
	"cosplot/sink"
	"cosplot/source/index"
)

// Compile builds a runner from a pipeline YAML file.
func Compile(path string) (*Runner, error) {
	cfg, confPath, err := config.LoadPipelineSpec(path)
	if err != nil {
		return nil, err
	}
	sc, err := config.LoadSourceConfig(confPath)
	if err != nil {
		return nil, fmt.Errorf("source config: %w", err)
	}
	return Build(cfg, sc)
}

// Default is the zero-configuration pipeline: indices 1..16, one in-process
// cosine stage, and the stdout sink in the given variant.
func Default(v plot.Variant) (*Runner, error) {
	var cfg spec.File
	config.ApplyDefaults(&cfg)
	cfg.SinkConfigs.Stdout.Variant = string(v)
	return Build(cfg, index.DefaultConfig())
}

func Build(cfg spec.File, sc index.Config) (r *Runner, err error) {
	r = NewRunner()
	defer func() {
		if err != nil {
			err = errors.Join(err, r.Close())
			r = nil
		}
	}()

	/*──────── source ───────*/
	if cfg.Source.Kind != "index" {
		return r, fmt.Errorf("unsupported source %q", cfg.Source.Kind)
	}
	src, err := index.NewAdapter(cfg.Source.Driver)
	if err != nil {
		return r, err
	}
	if err = src.Configure(sc); err != nil {
		return r, err
	}
	r.SetSource(src)

	/*──────── transformers ───────*/
	for _, t := range cfg.Transformers {
		var cli transform.Client
		switch t.Type {
		case "", "inproc":
			cli = transform.NewInProcessClient(nil)
		case "grpc":
			if t.Address == "" {
				return r, fmt.Errorf("transform %s: grpc stage needs an address", t.Name)
			}
			g, err := transform.NewGRPCClient(t.Address)
			if err != nil {
				return r, fmt.Errorf("transform %s: dial %s: %w", t.Name, t.Address, err)
			}
			cli = g
		default:
			return r, fmt.Errorf("unsupported transformer type %q for %s", t.Type, t.Name)
		}
		name := t.Name
		if name == "" {
			name = fmt.Sprintf("stage%d", len(r.stages))
		}
		to := time.Duration(t.TimeoutMS) * time.Millisecond
		backoff := time.Duration(t.RetryPolicy.BackoffMS) * time.Millisecond
		r.AddTransformer(name, cli, to, t.RetryPolicy.Attempts, backoff)
	}

	/*──────── sinks ───────*/
	for _, name := range cfg.Sinks {
		sDrv, err := sink.NewAdapter(name)
		if err != nil {
			return r, err
		}

		switch name {
		case "stdout":
			err = sDrv.Configure(cfg.SinkConfigs.Stdout)
		case "kafka":
			err = sDrv.Configure(cfg.SinkConfigs.Kafka)
		default:
			err = fmt.Errorf("no config block for sink %q", name)
		}
		if err != nil {
			return r, err
		}
		r.AddSink(name, sDrv)
	}
	return r, nil
}
