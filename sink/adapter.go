package sink

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"cosplot/internal/cosine"
)

// Adapter is the common behaviour every sink exposes.
type Adapter interface {
	Configure(any) error     // driver-specific YAML ⇒ struct
	Push(cosine.Point) error // consume one point, in index order
	Close() error            // flush; idempotent
}

/*──────── registry ───────*/

type factory = func() Adapter

var reg = map[string]factory{}

func Register(name string, f factory) { reg[name] = f }

func NewAdapter(name string) (Adapter, error) {
	if f, ok := reg[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("unknown sink %q (have %v)", name, Names())
}

func Names() []string {
	names := lo.Keys(reg)
	sort.Strings(names)
	return names
}
