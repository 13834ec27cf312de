package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"cosplot/internal/spec"
)

const SupportedSchema = "v1"

// LoadPipelineSpec parses a pipeline YAML, validates schema_version, fills
// the implicit defaults and returns the parsed spec and an absolute path to
// the source config (if set).
func LoadPipelineSpec(path string) (spec.File, string, error) {
	var cfg spec.File
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, "", err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, "", fmt.Errorf("pipeline %s: %w", path, err)
	}
	if cfg.SchemaVersion == "" {
		cfg.SchemaVersion = SupportedSchema
	}
	if cfg.SchemaVersion != SupportedSchema {
		return cfg, "", fmt.Errorf("pipeline schema_version %q not supported (want %q)", cfg.SchemaVersion, SupportedSchema)
	}
	ApplyDefaults(&cfg)

	confPath := cfg.Source.Config
	if confPath != "" && !filepath.IsAbs(confPath) {
		confPath = filepath.Join(filepath.Dir(path), confPath)
	}
	return cfg, confPath, nil
}

// ApplyDefaults fills what an empty pipeline file leaves out: the range
// source, one in-process cosine stage and the stdout sink.
func ApplyDefaults(cfg *spec.File) {
	if cfg.Source.Kind == "" {
		cfg.Source.Kind = "index"
	}
	if cfg.Source.Driver == "" {
		cfg.Source.Driver = "range"
	}
	if len(cfg.Transformers) == 0 {
		cfg.Transformers = []spec.TransformerSpec{{Name: "cosine", Type: "inproc"}}
	}
	if len(cfg.Sinks) == 0 {
		cfg.Sinks = []string{"stdout"}
	}
}
