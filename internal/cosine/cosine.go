package cosine

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Transform maps v, read as radians, onto [0, 1].
func Transform(v float64) float64 {
	return (math.Cos(v) + 1) * 0.5
}

// TransformAll applies Transform to every element of vs in place.
func TransformAll(vs []float64) {
	for i, v := range vs {
		vs[i] = math.Cos(v)
	}
	floats.AddConst(1, vs)
	floats.Scale(0.5, vs)
}

// Point is one step of the series: x = f(i), y = f(x).
type Point struct {
	I int     `json:"i"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func At(i int) Point {
	x := Transform(float64(i))
	return Point{I: i, X: x, Y: Transform(x)}
}

// Range is an inclusive, ascending index range with step 1.
type Range struct {
	First int
	Last  int
}

var DefaultRange = Range{First: 1, Last: 16}

// MaxIndex bounds |First| and |Last| so that Len fits in an int32 and every
// index is exact as a float64.
const MaxIndex = 1<<30 - 1

func (r Range) Validate() error {
	if r.First < -MaxIndex || r.First > MaxIndex || r.Last < -MaxIndex || r.Last > MaxIndex {
		return fmt.Errorf("cosine: range %d..%d outside ±%d", r.First, r.Last, MaxIndex)
	}
	if r.Last < r.First {
		return fmt.Errorf("cosine: range last %d before first %d", r.Last, r.First)
	}
	return nil
}

// Len is 0 for a range that does not validate.
func (r Range) Len() int {
	if r.Validate() != nil {
		return 0
	}
	return r.Last - r.First + 1
}

// Indices is nil for a range that does not validate.
func (r Range) Indices() []int {
	n := r.Len()
	if n == 0 {
		return nil
	}
	out := make([]int, 0, n)
	for i := r.First; i <= r.Last; i++ {
		out = append(out, i)
	}
	return out
}

// Iterate returns the points of r in ascending index order.
func Iterate(r Range) ([]Point, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	idx := r.Indices()
	xs := make([]float64, len(idx))
	for n, i := range idx {
		xs[n] = float64(i)
	}
	TransformAll(xs)

	ys := make([]float64, len(xs))
	copy(ys, xs)
	TransformAll(ys)

	pts := make([]Point, len(idx))
	for n, i := range idx {
		pts[n] = Point{I: i, X: xs[n], Y: ys[n]}
	}
	return pts, nil
}
