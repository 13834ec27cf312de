package transport

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"cosplot/internal/cosine"
)

func PointToStruct(p cosine.Point) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"i": structpb.NewNumberValue(float64(p.I)),
		"x": structpb.NewNumberValue(p.X),
		"y": structpb.NewNumberValue(p.Y),
	}}
}

func PointFromStruct(s *structpb.Struct) (cosine.Point, error) {
	f := s.GetFields()
	i, ok1 := f["i"]
	x, ok2 := f["x"]
	y, ok3 := f["y"]
	if !ok1 || !ok2 || !ok3 {
		return cosine.Point{}, fmt.Errorf("transport: point needs i, x and y, got %v", s)
	}
	return cosine.Point{I: int(i.GetNumberValue()), X: x.GetNumberValue(), Y: y.GetNumberValue()}, nil
}

func RangeToStruct(r cosine.Range) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"first": structpb.NewNumberValue(float64(r.First)),
		"last":  structpb.NewNumberValue(float64(r.Last)),
	}}
}

// RangeFromStruct reads {first, last}; missing bounds fall back to the
// default 1..16 range. Bounds must be finite integers within
// ±cosine.MaxIndex.
func RangeFromStruct(s *structpb.Struct) (cosine.Range, error) {
	r := cosine.DefaultRange
	var err error
	if v, ok := s.GetFields()["first"]; ok {
		if r.First, err = indexValue("first", v); err != nil {
			return r, err
		}
	}
	if v, ok := s.GetFields()["last"]; ok {
		if r.Last, err = indexValue("last", v); err != nil {
			return r, err
		}
	}
	return r, r.Validate()
}

func indexValue(name string, v *structpb.Value) (int, error) {
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("transport: %s must be a number", name)
	}
	f := n.NumberValue
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("transport: %s %v is not an integer", name, f)
	}
	if math.Abs(f) > cosine.MaxIndex {
		return 0, fmt.Errorf("transport: %s %v outside ±%d", name, f, cosine.MaxIndex)
	}
	return int(f), nil
}
