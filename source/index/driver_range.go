package index

import (
	"context"
	"errors"

	"golang.org/x/time/rate"

	"cosplot/internal/cosine"
	"cosplot/internal/logging"
)

// RangeDriver emits First..Last in ascending order, optionally paced.
type RangeDriver struct {
	r       cosine.Range
	limiter *rate.Limiter // nil when unpaced
}

func (d *RangeDriver) Configure(c Config) error {
	d.r = c.Range()
	if err := d.r.Validate(); err != nil {
		return err
	}
	if c.Pacing.RatePerSec > 0 {
		burst := c.Pacing.Burst
		if burst <= 0 {
			burst = 1
		}
		d.limiter = rate.NewLimiter(rate.Limit(c.Pacing.RatePerSec), burst)
	}
	return nil
}

func (d *RangeDriver) Run(ctx context.Context, emit EmitFunc) error {
	if emit == nil {
		return errors.New("range-driver: nil emit func")
	}
	logging.L().Debug("range-driver: start", "first", d.r.First, "last", d.r.Last, "paced", d.limiter != nil)
	for i := d.r.First; i <= d.r.Last; i++ {
		if d.limiter != nil {
			if err := d.limiter.Wait(ctx); err != nil {
				return err
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(i); err != nil {
			return err
		}
	}
	return nil
}

func (d *RangeDriver) Close() error { return nil }

func init() { Register("range", func() Adapter { return &RangeDriver{} }) }
