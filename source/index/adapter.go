package index

import "context"

// EmitFunc receives each index in order; a non-nil error stops the source.
type EmitFunc func(int) error

type Adapter interface {
	Configure(Config) error
	Run(context.Context, EmitFunc) error
	Close() error
}
