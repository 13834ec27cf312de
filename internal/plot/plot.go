// Package plot formats cosine series points as "(a, b)" text records and
// accumulates them into labelled buffers for later plotting.
package plot

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"cosplot/internal/cosine"
)

// FormatFloat renders v in its shortest round-trip form.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Record formats one point record.
func Record(a, b string) string {
	return "(" + a + ", " + b + ")"
}

// Diagnostic is the per-iteration report line.
func Diagnostic(p cosine.Point) string {
	return fmt.Sprintf("i: %d, x: %s, y: %s", p.I, FormatFloat(p.X), FormatFloat(p.Y))
}

// Buffer is an ordered list of point records with an optional label line.
type Buffer struct {
	Label string
	lines []string
}

func (b *Buffer) Append(a, c string) { b.lines = append(b.lines, Record(a, c)) }
func (b *Buffer) Len() int           { return len(b.lines) }

func (b *Buffer) Lines() []string {
	return append([]string(nil), b.lines...)
}

func (b *Buffer) String() string {
	var sb strings.Builder
	for _, l := range b.lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteTo prints the label (if any), every record on its own line and a
// closing blank line.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	if b.Label != "" {
		sb.WriteString(b.Label)
		sb.WriteByte('\n')
	}
	sb.WriteString(b.String())
	sb.WriteByte('\n')
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}
