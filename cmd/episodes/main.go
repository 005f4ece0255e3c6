package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"market-replay-go/config"
	"market-replay-go/history"
	"market-replay-go/infrastructure/logger"
	"market-replay-go/infrastructure/objectstore"
	"market-replay-go/metrics"
	"market-replay-go/sim"
)

type summary struct {
	ID             string
	Start          int
	End            int
	StartTime      time.Time
	EndTime        time.Time
	Duration       float64
	Ticks          int
	Skipped        int
	Min            float64
	Max            float64
	Mean           float64
	ReturnPct      float64
	MaxDrawdownPct float64
}

// 从配置的数据源构建快照序列，抽样若干 episode 并回放，输出每个 episode 的中间价统计。
// 用法：
//
//	go run ./cmd/episodes -config configs/episodes.yaml -out episodes.csv
func main() {
	cfgPath := flag.String("config", "configs/episodes.yaml", "配置文件路径")
	outPath := flag.String("out", "", "若指定则写入 CSV 汇总，否则输出到 stdout")
	episodes := flag.Int("n", 0, "覆盖 sampling.episodes")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("加载 .env 失败: %v", err)
	}

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if *episodes > 0 {
		cfg.Sampling.Episodes = *episodes
	}

	lg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer lg.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec := metrics.New(cfg.Metrics.Recorder())
	sums, err := run(ctx, cfg, lg, rec)
	if err == nil {
		err = emit(lg, *outPath, sums)
	}
	if err == nil && cfg.Metrics.Textfile != "" {
		if err = rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			err = fmt.Errorf("write textfile %s: %w", cfg.Metrics.Textfile, err)
		}
	}
	if err != nil {
		lg.LogError(err, map[string]interface{}{"config": *cfgPath})
		lg.Close()
		stop()
		os.Exit(1)
	}
}

// emit 写出 CSV 汇总，outPath 为空时写到 stdout。
func emit(lg *logger.Logger, outPath string, sums []summary) error {
	if outPath == "" {
		return writeSummaryCSV(os.Stdout, sums)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create summary: %w", err)
	}
	if err := writeSummaryCSV(f, sums); err != nil {
		f.Close()
		return fmt.Errorf("write summary %s: %w", outPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close summary %s: %w", outPath, err)
	}
	lg.Info("summary written", zap.String("path", outPath), zap.Int("episodes", len(sums)))
	return nil
}

func run(ctx context.Context, cfg config.AppConfig, lg *logger.Logger, rec *metrics.Recorder) ([]summary, error) {
	started := time.Now()
	seq, err := sim.BuildSequence(ctx, cfg.Feed, cfg.Artificial, sim.Deps{
		Store:   objectstore.New(cfg.Storage.S3, lg.Logger),
		Logger:  lg.Logger,
		Metrics: rec,
	})
	if err != nil {
		return nil, fmt.Errorf("build sequence: %w", err)
	}
	lg.LogLoad(cfg.Feed.Kind, seq.Len(), time.Since(started), map[string]interface{}{"uri": cfg.Feed.URI})

	sc := cfg.Sampling
	sampler := history.NewSampler(seq, sc.Seed)
	sums := make([]summary, 0, sc.Episodes)
	for i := 0; i < sc.Episodes; i++ {
		ep, err := sampler.Sample(sc.Runtime, sc.OffsetMax)
		if err != nil {
			return sums, fmt.Errorf("episode %d: %w", i, err)
		}
		rec.Episode(ep.Duration)
		lg.LogEpisode(ep.ID, ep.Start, ep.End, ep.Duration, map[string]interface{}{"tail_offset": ep.TailOffset})

		stats := &sim.MidStats{}
		runner := sim.Runner{Seq: seq, Handler: stats, Logger: lg.Logger}
		if _, err := runner.Run(ctx, ep); err != nil {
			return sums, err
		}
		sums = append(sums, summary{
			ID:             ep.ID,
			Start:          ep.Start,
			End:            ep.End,
			StartTime:      ep.StartTime,
			EndTime:        ep.EndTime,
			Duration:       ep.Duration,
			Ticks:          stats.Ticks,
			Skipped:        stats.Skipped,
			Min:            stats.Min,
			Max:            stats.Max,
			Mean:           stats.Mean(),
			ReturnPct:      stats.Return() * 100,
			MaxDrawdownPct: stats.MaxDrawdown * 100,
		})
	}
	return sums, nil
}

func writeSummaryCSV(out io.Writer, sums []summary) error {
	w := csv.NewWriter(out)
	_ = w.Write([]string{"episode_id", "start", "end", "start_time", "end_time", "duration_s", "ticks", "skipped",
		"min_mid", "max_mid", "mean_mid", "return_pct", "max_drawdown_pct"})
	for _, s := range sums {
		_ = w.Write([]string{
			s.ID,
			strconv.Itoa(s.Start),
			strconv.Itoa(s.End),
			s.StartTime.UTC().Format(time.RFC3339Nano),
			s.EndTime.UTC().Format(time.RFC3339Nano),
			fmt.Sprintf("%.3f", s.Duration),
			strconv.Itoa(s.Ticks),
			strconv.Itoa(s.Skipped),
			fmt.Sprintf("%.6f", s.Min),
			fmt.Sprintf("%.6f", s.Max),
			fmt.Sprintf("%.6f", s.Mean),
			fmt.Sprintf("%.4f", s.ReturnPct),
			fmt.Sprintf("%.4f", s.MaxDrawdownPct),
		})
	}
	w.Flush()
	return w.Error()
}
