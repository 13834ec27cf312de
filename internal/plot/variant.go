package plot

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"cosplot/internal/cosine"
)

type Variant string

const (
	// Single keeps one unlabelled (x, y) buffer.
	Single Variant = "single"
	// Dual keeps an "Ints" (i, x) buffer and a "Doubles" (x, y) buffer.
	Dual Variant = "dual"
)

const (
	IntsLabel    = "Ints"
	DoublesLabel = "Doubles"
)

func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return Single, nil
	case Single, Dual:
		return v, nil
	default:
		return "", fmt.Errorf("plot: unknown variant %q (want %q or %q)", s, Single, Dual)
	}
}

// Plotter accumulates points into the buffers of its variant.
type Plotter struct {
	variant Variant
	ints    *Buffer
	doubles *Buffer
}

func NewPlotter(v Variant) *Plotter {
	p := &Plotter{variant: v, doubles: &Buffer{}}
	if v == Dual {
		p.ints = &Buffer{Label: IntsLabel}
		p.doubles.Label = DoublesLabel
	}
	return p
}

func (p *Plotter) Variant() Variant { return p.variant }

func (p *Plotter) Add(pt cosine.Point) {
	x, y := FormatFloat(pt.X), FormatFloat(pt.Y)
	if p.ints != nil {
		p.ints.Append(strconv.Itoa(pt.I), x)
	}
	p.doubles.Append(x, y)
}

// Buffers returns the buffers in print order.
func (p *Plotter) Buffers() []*Buffer {
	if p.ints != nil {
		return []*Buffer{p.ints, p.doubles}
	}
	return []*Buffer{p.doubles}
}

func (p *Plotter) Flush(w io.Writer) error {
	for _, b := range p.Buffers() {
		if _, err := b.WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}
