package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"market-replay-go/infrastructure/logger"
	"market-replay-go/infrastructure/objectstore"
	"market-replay-go/metrics"
	"market-replay-go/sim"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env        string               `yaml:"env" env:"OBSEQ_ENV"`
	Log        logger.Config        `yaml:"log"`
	Feed       sim.SourceConfig     `yaml:"feed"`
	Artificial sim.ArtificialConfig `yaml:"artificial"`
	Sampling   SamplingConfig       `yaml:"sampling"`
	Storage    StorageConfig        `yaml:"storage"`
	Metrics    MetricsConfig        `yaml:"metrics"`
}

// SamplingConfig 抽样参数，时间单位均为秒。
type SamplingConfig struct {
	Runtime   float64 `yaml:"runtime" env:"OBSEQ_SAMPLING_RUNTIME"`       // 每个 episode 的最短时长
	OffsetMax float64 `yaml:"offset_max" env:"OBSEQ_SAMPLING_OFFSET_MAX"` // 序列开头保留的时长
	Seed      int64   `yaml:"seed" env:"OBSEQ_SAMPLING_SEED"`
	Episodes  int     `yaml:"episodes" env:"OBSEQ_SAMPLING_EPISODES"`
}

type StorageConfig struct {
	S3 objectstore.S3Config `yaml:"s3"`
}

type MetricsConfig struct {
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`
	Textfile  string `yaml:"textfile" env:"OBSEQ_METRICS_TEXTFILE"` // 为空则不写 textfile
}

// Recorder returns the metrics naming config.
func (m MetricsConfig) Recorder() metrics.Config {
	cfg := metrics.DefaultConfig()
	if m.Namespace != "" {
		cfg.Namespace = m.Namespace
	}
	if m.Subsystem != "" {
		cfg.Subsystem = m.Subsystem
	}
	return cfg
}

// Default 返回默认配置，YAML 中出现的字段会覆盖这些值。
func Default() AppConfig {
	return AppConfig{
		Env: "dev",
		Log: logger.DefaultConfig(),
		Feed: sim.SourceConfig{
			Kind:          sim.KindFlat,
			ExtraFeatures: true,
		},
		Sampling: SamplingConfig{
			Runtime:   60,
			OffsetMax: 60,
			Seed:      1,
			Episodes:  10,
		},
	}
}

// Load reads YAML config from path and applies basic validation.
func Load(path string) (AppConfig, error) {
	cfg, err := read(path)
	if err != nil {
		return cfg, err
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides fields from OBSEQ_* env vars if present.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := read(path)
	if err != nil {
		return cfg, err
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, Validate(cfg)
}

func read(path string) (AppConfig, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}
