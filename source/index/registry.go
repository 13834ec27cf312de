package index

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// Factory builds an Adapter (e.g. RangeDriver).
type Factory func() Adapter

var registry = map[string]Factory{}

// Register is called from main (or tests) for each available driver.
func Register(name string, f Factory) {
	registry[name] = f
}

// NewAdapter returns a driver by name ("range", …).
func NewAdapter(name string) (Adapter, error) {
	if f, ok := registry[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("index: unsupported driver %q (have %v)", name, Drivers())
}

func Drivers() []string {
	names := lo.Keys(registry)
	sort.Strings(names)
	return names
}
