package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cosplot/internal/cosine"
	"cosplot/internal/logging"
	"cosplot/internal/telemetry"
	"cosplot/internal/transform"
	"cosplot/sink"
	"cosplot/source/index"
)

type stage struct {
	name     string
	client   transform.Client
	timeout  time.Duration
	attempts int // extra attempts after the first call
	backoff  time.Duration
}

type namedSink struct {
	name string
	sink.Adapter
}

// Runner drives source → transform chain → sinks, one index at a time.
type Runner struct {
	source index.Adapter
	stages []stage
	sinks  []namedSink

	closeOnce sync.Once
	closeErr  error
}

func NewRunner() *Runner { return &Runner{} }

func (r *Runner) SetSource(s index.Adapter)           { r.source = s }
func (r *Runner) AddSink(name string, s sink.Adapter) { r.sinks = append(r.sinks, namedSink{name, s}) }

func (r *Runner) AddTransformer(name string, c transform.Client, timeout time.Duration, attempts int, backoff time.Duration) {
	if attempts < 0 {
		attempts = 0
	}
	r.stages = append(r.stages, stage{name: name, client: c, timeout: timeout, attempts: attempts, backoff: backoff})
}

/*──────── transform chain ───────*/

func (r *Runner) apply(ctx context.Context, v float64) (float64, error) {
	for _, s := range r.stages {
		out, err := s.call(ctx, v)
		if err != nil {
			return 0, fmt.Errorf("transform %s: %w", s.name, err)
		}
		v = out
	}
	return v, nil
}

func (s stage) call(ctx context.Context, v float64) (float64, error) {
	var err error
	for attempt := 0; attempt <= s.attempts; attempt++ {
		if attempt > 0 {
			telemetry.TransformCalls.WithLabelValues(s.name, "retry").Inc()
			logging.L().Debug("transform retry", "stage", s.name, "attempt", attempt, "err", err)
			if s.backoff > 0 {
				select {
				case <-ctx.Done():
					return 0, ctx.Err()
				case <-time.After(s.backoff):
				}
			}
		}
		var out float64
		out, err = s.once(ctx, v)
		if err == nil {
			telemetry.TransformCalls.WithLabelValues(s.name, "ok").Inc()
			return out, nil
		}
		if ctx.Err() != nil {
			break
		}
	}
	telemetry.TransformCalls.WithLabelValues(s.name, "error").Inc()
	return 0, err
}

func (s stage) once(ctx context.Context, v float64) (float64, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := time.Now()
	out, err := s.client.Apply(ctx, v)
	telemetry.TransformLatency.WithLabelValues(s.name).Observe(time.Since(start).Seconds())
	return out, err
}

/*──────── point routing ───────*/

func (r *Runner) pushIndex(ctx context.Context, i int) error {
	x, err := r.apply(ctx, float64(i))
	if err != nil {
		return fmt.Errorf("index %d: %w", i, err)
	}
	y, err := r.apply(ctx, x)
	if err != nil {
		return fmt.Errorf("index %d: %w", i, err)
	}
	p := cosine.Point{I: i, X: x, Y: y}
	logging.L().Debug("point", "i", p.I, "x", p.X, "y", p.Y)

	for _, s := range r.sinks {
		if err := s.Push(p); err != nil {
			return fmt.Errorf("sink %s: %w", s.name, err)
		}
		telemetry.PointsEmitted.WithLabelValues(s.name).Inc()
	}
	return nil
}

// Run emits every index of the source through the chain and then closes
// the sinks, which prints their buffers. Sinks and stages are closed even
// when the run fails.
func (r *Runner) Run(ctx context.Context) error {
	if r.source == nil {
		return errors.New("runner: no source configured")
	}
	if len(r.sinks) == 0 {
		return errors.New("runner: no sinks configured")
	}
	runErr := r.source.Run(ctx, func(i int) error { return r.pushIndex(ctx, i) })
	if runErr != nil {
		runErr = fmt.Errorf("runner: %w", runErr)
	}
	return errors.Join(runErr, r.Close())
}

// Close releases source, stages and sinks in order; safe to call twice.
func (r *Runner) Close() error {
	r.closeOnce.Do(func() { r.closeErr = r.close() })
	return r.closeErr
}

func (r *Runner) close() error {
	var errs []error
	for _, s := range r.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("sink %s: %w", s.name, err))
		}
	}
	for _, s := range r.stages {
		if err := s.client.Close(); err != nil {
			errs = append(errs, fmt.Errorf("transform %s: %w", s.name, err))
		}
	}
	if r.source != nil {
		if err := r.source.Close(); err != nil {
			errs = append(errs, fmt.Errorf("source: %w", err))
		}
	}
	return errors.Join(errs...)
}
