// cosplot/sink/stdout/driver.go
package stdout

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"cosplot/internal/cosine"
	"cosplot/internal/plot"
	"cosplot/sink"
)

/* ────────── public YAML config ────────── */
type Config struct {
	Variant string `yaml:"variant"` // single|dual
	// Diagnostics prints "i: .., x: .., y: .." per point; nil means on.
	Diagnostics *bool `yaml:"diagnostics"`
}

func (c Config) diagnostics() bool { return c.Diagnostics == nil || *c.Diagnostics }

/* ────────── driver ────────── */
type driver struct {
	out  io.Writer
	diag bool

	mu     sync.Mutex // guards plot+pushed+closed
	plot   *plot.Plotter
	pushed int
	closed bool
}

// New returns a stdout sink writing to w instead of os.Stdout.
func New(w io.Writer) sink.Adapter {
	return &driver{out: w}
}

/* ────────── sink.Adapter ────────── */
func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("stdout-sink: expected Config, got %T", raw)
	}
	v, err := plot.ParseVariant(c.Variant)
	if err != nil {
		return fmt.Errorf("stdout-sink: %w", err)
	}
	d.diag = c.diagnostics()
	d.plot = plot.NewPlotter(v)
	return nil
}

func (d *driver) Push(p cosine.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return fmt.Errorf("stdout-sink: push after close")
	}
	if d.plot == nil {
		d.plot = plot.NewPlotter(plot.Single)
		d.diag = true
	}
	if d.diag {
		if _, err := fmt.Fprintln(d.out, plot.Diagnostic(p)); err != nil {
			return fmt.Errorf("stdout-sink: %w", err)
		}
	}
	d.plot.Add(p)
	d.pushed++
	return nil
}

// Close prints the accumulated plot buffers once; a sink that never saw a
// point prints nothing.
func (d *driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || d.pushed == 0 {
		d.closed = true
		return nil
	}
	d.closed = true

	bw := bufio.NewWriter(d.out)
	if err := d.plot.Flush(bw); err != nil {
		return fmt.Errorf("stdout-sink: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("stdout-sink: %w", err)
	}
	return nil
}

/* ────────── auto-register ────────── */
func init() {
	sink.Register("stdout", func() sink.Adapter { return New(os.Stdout) })
}
