package index

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"cosplot/internal/cosine"
)

const envPrefix = "COSPLOT_SOURCE__"

type PacingCfg struct {
	RatePerSec float64 `koanf:"rate_per_sec"` // 0 = unlimited
	Burst      int     `koanf:"burst"`
}

type Config struct {
	First  int       `koanf:"first"`
	Last   int       `koanf:"last"`
	Pacing PacingCfg `koanf:"pacing"`
}

func (c Config) Range() cosine.Range {
	return cosine.Range{First: c.First, Last: c.Last}
}

// ---------------------------------------------------------------------------
// Loader
// ---------------------------------------------------------------------------

// LoadConfig merges YAML (if present) with env-vars
// (prefix `COSPLOT_SOURCE__`, delimiter `__`).
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	sv := k.String("schema_version")
	if sv != "" && sv != "v1" {
		return Config{}, fmt.Errorf("source schema_version %q not supported (want v1)", sv)
	}

	err := k.Load(env.Provider(envPrefix, "__", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(k, &cfg)
	if err := cfg.Range().Validate(); err != nil {
		return cfg, err
	}
	if cfg.Pacing.RatePerSec < 0 {
		return cfg, fmt.Errorf("source pacing rate_per_sec %v must not be negative", cfg.Pacing.RatePerSec)
	}
	return cfg, nil
}

// DefaultConfig is the fixed 1..16 range, unpaced.
func DefaultConfig() Config {
	return Config{First: cosine.DefaultRange.First, Last: cosine.DefaultRange.Last}
}

// ---------------------------------------------------------------------------
// defaults
// ---------------------------------------------------------------------------

func applyDefaults(k *koanf.Koanf, c *Config) {
	if !k.Exists("first") {
		c.First = cosine.DefaultRange.First
	}
	if !k.Exists("last") {
		c.Last = cosine.DefaultRange.Last
	}
	if c.Pacing.RatePerSec > 0 && c.Pacing.Burst <= 0 {
		c.Pacing.Burst = 1
	}
}
