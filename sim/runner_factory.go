package sim

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"market-replay-go/feed"
	"market-replay-go/history"
	"market-replay-go/infrastructure/objectstore"
	"market-replay-go/metrics"
)

// 数据源类型
const (
	KindFlat       = "flat"
	KindLevels     = "levels"
	KindEvents     = "events"
	KindArtificial = "artificial"
)

// SourceConfig 描述序列的数据来源及加载后的特征计算。
type SourceConfig struct {
	Kind          string            `yaml:"kind" env:"OBSEQ_FEED_KIND"`
	URI           string            `yaml:"uri" env:"OBSEQ_FEED_URI"`
	Format        string            `yaml:"format" env:"OBSEQ_FEED_FORMAT"` // events only: tsv or parquet, empty picks by extension
	TimeLayout    string            `yaml:"time_layout"`
	Timezone      string            `yaml:"timezone"`
	SkipHeader    bool              `yaml:"skip_header"`
	ExtraFeatures bool              `yaml:"extra_features"`
	FlatLayout    *feed.FlatLayout  `yaml:"flat_layout"`
	LevelLayout   *feed.LevelLayout `yaml:"level_layout"`
	EventLayout   *feed.EventLayout `yaml:"event_layout"`
	Features      FeatureConfig     `yaml:"features"`
}

// FeatureConfig enables the feature passes run after loading. Zero disables a pass.
type FeatureConfig struct {
	RelativeVolumeBuckets float64 `yaml:"relative_volume_buckets"`
	ImbalanceLevels       int     `yaml:"imbalance_levels"`
	RealizedVolWindow     int     `yaml:"realized_vol_window"`
}

// Deps are the shared components used while building a sequence.
type Deps struct {
	Store   *objectstore.Store
	Logger  *zap.Logger
	Metrics *metrics.Recorder
}

// BuildSequence 根据配置组装快照序列。
func BuildSequence(ctx context.Context, src SourceConfig, art ArtificialConfig, deps Deps) (*history.Sequence, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Store == nil {
		deps.Store = objectstore.New(objectstore.S3Config{}, deps.Logger)
	}
	seq := history.NewSequence()
	started := time.Now()

	var (
		n   int
		err error
	)
	if src.Kind == KindArtificial {
		n, err = Populate(seq, art)
		if err == nil {
			deps.Metrics.SnapshotsAppended(KindArtificial, n)
		}
	} else {
		n, err = loadFeed(ctx, src, deps, seq)
	}
	if err != nil {
		return nil, err
	}
	applyFeatures(seq, src.Features)

	deps.Logger.Info("sequence built",
		zap.String("kind", src.Kind),
		zap.String("uri", src.URI),
		zap.Int("states", n),
		zap.Duration("elapsed", time.Since(started)),
	)
	return seq, nil
}

func loadFeed(ctx context.Context, src SourceConfig, deps Deps, seq *history.Sequence) (int, error) {
	opts := feed.Options{
		TimeLayout: src.TimeLayout,
		SkipHeader: src.SkipHeader,
		Logger:     deps.Logger,
		Metrics:    deps.Metrics,
	}
	if src.Timezone != "" {
		loc, err := time.LoadLocation(src.Timezone)
		if err != nil {
			return 0, fmt.Errorf("timezone %q: %w", src.Timezone, err)
		}
		opts.Location = loc
	}

	if src.Kind == KindEvents && eventFormat(src) == "parquet" {
		path, cleanup, err := deps.Store.LocalPath(ctx, src.URI)
		if err != nil {
			return 0, err
		}
		defer cleanup()
		ef := feed.EventFeed{Layout: src.EventLayout, Options: opts}
		events, err := ef.ReadParquet(path)
		if err != nil {
			return 0, err
		}
		return ef.LoadEvents(seq, events), nil
	}

	rc, err := deps.Store.Open(ctx, src.URI)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	switch src.Kind {
	case KindFlat:
		return feed.FlatFeed{Layout: src.FlatLayout, ExtraFeatures: src.ExtraFeatures, Options: opts}.Load(rc, seq)
	case KindLevels:
		return feed.LevelFeed{Layout: src.LevelLayout, Options: opts}.Load(rc, seq)
	case KindEvents:
		return feed.EventFeed{Layout: src.EventLayout, Options: opts}.Load(rc, seq)
	default:
		return 0, fmt.Errorf("unknown feed kind %q", src.Kind)
	}
}

func eventFormat(src SourceConfig) string {
	if src.Format != "" {
		return strings.ToLower(src.Format)
	}
	if strings.EqualFold(filepath.Ext(src.URI), ".parquet") {
		return "parquet"
	}
	return "tsv"
}

func applyFeatures(seq *history.Sequence, cfg FeatureConfig) {
	if cfg.RelativeVolumeBuckets > 0 {
		seq.AddRelativeVolume(cfg.RelativeVolumeBuckets)
	}
	if cfg.ImbalanceLevels > 0 {
		seq.AddImbalance(cfg.ImbalanceLevels)
	}
	if cfg.RealizedVolWindow > 0 {
		seq.AddRealizedVol(cfg.RealizedVolWindow)
	}
}
