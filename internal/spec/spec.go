package spec

import (
	"cosplot/sink/kafka"
	"cosplot/sink/stdout"
)

type sinkConfigs struct {
	Kafka  kafka.Config  `yaml:"kafka"`
	Stdout stdout.Config `yaml:"stdout"`
}

type TransformerSpec struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`    // "inproc" or "grpc"
	Address     string `yaml:"address"` // e.g. "localhost:7070"
	TimeoutMS   int    `yaml:"timeout_ms"`
	RetryPolicy struct {
		Attempts  int `yaml:"attempts"`
		BackoffMS int `yaml:"backoff_ms"`
	} `yaml:"retry_policy"`
}

type File struct {
	SchemaVersion string `yaml:"schema_version"`

	Source struct {
		Kind   string `yaml:"kind"`
		Driver string `yaml:"driver"`
		Config string `yaml:"config"`
	} `yaml:"source"`

	// Ordered chain applied to the index (x) and again to x (y).
	Transformers []TransformerSpec `yaml:"transformers"`

	Sinks       []string    `yaml:"sinks"`
	SinkConfigs sinkConfigs `yaml:"sink_configs"`
}
