package config

import (
	"cosplot/source/index"
)

// LoadSourceConfig delegates to the index source loader while centralizing
// loader entrypoints under internal/config.
func LoadSourceConfig(path string) (index.Config, error) {
	return index.LoadConfig(path)
}
