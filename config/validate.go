package config

import (
	"fmt"

	"market-replay-go/sim"
)

// ErrInvalid 用于参数验证错误。
type ErrInvalid string

func (e ErrInvalid) Error() string { return string(e) }

// Validate ensures required fields are present.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return ErrInvalid("env is required")
	}
	switch cfg.Feed.Kind {
	case sim.KindFlat, sim.KindLevels, sim.KindEvents:
		if cfg.Feed.URI == "" {
			return ErrInvalid(fmt.Sprintf("feed.uri is required for %s feeds", cfg.Feed.Kind))
		}
	case sim.KindArtificial:
		if err := cfg.Artificial.Validate(); err != nil {
			return ErrInvalid("artificial: " + err.Error())
		}
	default:
		return ErrInvalid(fmt.Sprintf("feed.kind %q must be one of flat, levels, events, artificial", cfg.Feed.Kind))
	}
	switch cfg.Feed.Format {
	case "", "tsv", "parquet":
	default:
		return ErrInvalid(fmt.Sprintf("feed.format %q must be tsv or parquet", cfg.Feed.Format))
	}
	if cfg.Feed.FlatLayout != nil {
		if err := cfg.Feed.FlatLayout.Validate(); err != nil {
			return ErrInvalid(err.Error())
		}
	}
	f := cfg.Feed.Features
	if f.RelativeVolumeBuckets < 0 || f.ImbalanceLevels < 0 || f.RealizedVolWindow < 0 {
		return ErrInvalid("feed.features values must be >= 0")
	}
	s := cfg.Sampling
	if s.Runtime < 0 {
		return ErrInvalid("sampling.runtime must be >= 0")
	}
	if s.OffsetMax < 0 {
		return ErrInvalid("sampling.offset_max must be >= 0")
	}
	if s.Episodes < 0 {
		return ErrInvalid("sampling.episodes must be >= 0")
	}
	return nil
}
