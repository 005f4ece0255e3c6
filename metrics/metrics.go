// Package metrics provides Prometheus metrics for feed ingestion and episode sampling
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder 收集数据加载、订单簿重建与抽样相关指标。nil Recorder 的所有方法均为空操作。
type Recorder struct {
	registry *prometheus.Registry

	feedRows       *prometheus.CounterVec
	bookEvents     *prometheus.CounterVec
	snapshots      *prometheus.CounterVec
	episodes       prometheus.Counter
	episodeSeconds prometheus.Histogram
}

// Config 指标命名配置
type Config struct {
	Namespace string
	Subsystem string
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Namespace: "obseq",
		Subsystem: "replay",
	}
}

// New 创建使用独立 registry 的 Recorder
func New(cfg Config) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		feedRows: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "feed_rows_total",
			Help:      "已解析的数据源行数",
		}, []string{"feed"}),
		bookEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "book_events_total",
			Help:      "订单簿重建处理的事件数（按类型）",
		}, []string{"kind"}),
		snapshots: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "snapshots_appended_total",
			Help:      "追加到序列中的快照数",
		}, []string{"source"}),
		episodes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "episodes_sampled_total",
			Help:      "抽样得到的 episode 数",
		}),
		episodeSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "episode_duration_seconds",
			Help:      "episode 窗口时长分布（秒）",
			Buckets:   []float64{10, 30, 60, 120, 300, 600, 1800, 3600},
		}),
	}
}

// Registry exposes the underlying registry as a gatherer.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) FeedRow(feed string) {
	if r == nil {
		return
	}
	r.feedRows.WithLabelValues(feed).Inc()
}

func (r *Recorder) BookEvent(kind string) {
	if r == nil {
		return
	}
	r.bookEvents.WithLabelValues(kind).Inc()
}

func (r *Recorder) SnapshotsAppended(source string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.snapshots.WithLabelValues(source).Add(float64(n))
}

func (r *Recorder) Episode(durationSeconds float64) {
	if r == nil {
		return
	}
	r.episodes.Inc()
	r.episodeSeconds.Observe(durationSeconds)
}

// WriteTextfile 以 node_exporter textfile 格式写出全部指标。
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
