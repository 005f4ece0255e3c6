package sim

import (
	"errors"
	"fmt"
	"time"

	"market-replay-go/history"
	"market-replay-go/market"
)

// ErrInvalidArtificial is returned for generator configs that cannot produce a sequence.
var ErrInvalidArtificial = errors.New("invalid artificial config")

// ArtificialConfig 描述一条线性价格路径的合成行情。
type ArtificialConfig struct {
	StartPrice  float64       `yaml:"start_price"`
	EndPrice    float64       `yaml:"end_price"`
	Levels      int           `yaml:"levels"`
	QtyPosition float64       `yaml:"qty_position"`
	StartTime   time.Time     `yaml:"start_time"`
	Duration    time.Duration `yaml:"duration"`
	Interval    time.Duration `yaml:"interval"`
}

func (c ArtificialConfig) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("interval %s must be positive: %w", c.Interval, ErrInvalidArtificial)
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration %s must not be negative: %w", c.Duration, ErrInvalidArtificial)
	}
	if c.Levels < 0 {
		return fmt.Errorf("levels %d must not be negative: %w", c.Levels, ErrInvalidArtificial)
	}
	return nil
}

// Generate 生成 duration/interval+1 个等间隔快照，价格从 StartPrice 线性变化到 EndPrice。
// 每个快照有 Levels 档卖盘 p+i·bp 和 Levels 档买盘 p-(i+1)·bp，bp 为当前价的 1 个基点。
// 步数不是整数时按向下取整生成，梯度仍按实际比例计算。
func Generate(cfg ArtificialConfig) ([]*market.Snapshot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	steps := float64(cfg.Duration) / float64(cfg.Interval)
	gradient := 0.0
	if steps > 0 {
		gradient = (cfg.EndPrice - cfg.StartPrice) / steps
	}
	n := int(steps + 1)
	out := make([]*market.Snapshot, 0, n)
	for i := 0; i < n; i++ {
		p := cfg.StartPrice + float64(i)*gradient
		bp := market.BasisPoint * p
		asks := make([]market.Entry, 0, cfg.Levels)
		bids := make([]market.Entry, 0, cfg.Levels)
		for lv := 0; lv < cfg.Levels; lv++ {
			asks = append(asks, market.NewEntry(p+float64(lv)*bp, cfg.QtyPosition))
			bids = append(bids, market.NewEntry(p-float64(lv+1)*bp, cfg.QtyPosition))
		}
		ts := cfg.StartTime.Add(time.Duration(i) * cfg.Interval)
		out = append(out, market.NewSnapshot(ts, p, 0, bids, asks))
	}
	return out, nil
}

// Populate appends a generated path to seq.
func Populate(seq *history.Sequence, cfg ArtificialConfig) (int, error) {
	states, err := Generate(cfg)
	if err != nil {
		return 0, err
	}
	seq.AddAll(states)
	return len(states), nil
}
