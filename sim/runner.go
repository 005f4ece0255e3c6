package sim

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"market-replay-go/history"
	"market-replay-go/market"
)

// TickHandler 接收 episode 窗口中的每个快照。idx 是快照在序列中的下标。
type TickHandler interface {
	OnTick(ctx context.Context, idx int, s *market.Snapshot) error
}

// TickFunc adapts a function to TickHandler.
type TickFunc func(ctx context.Context, idx int, s *market.Snapshot) error

func (f TickFunc) OnTick(ctx context.Context, idx int, s *market.Snapshot) error {
	return f(ctx, idx, s)
}

// Fanout calls every handler in order and stops at the first error.
type Fanout []TickHandler

func (f Fanout) OnTick(ctx context.Context, idx int, s *market.Snapshot) error {
	for _, h := range f {
		if err := h.OnTick(ctx, idx, s); err != nil {
			return err
		}
	}
	return nil
}

// Runner 按时间顺序把 episode 窗口内的快照逐个回放给 Handler。
type Runner struct {
	Seq     *history.Sequence
	Handler TickHandler
	Logger  *zap.Logger
}

// Run replays ep and returns the number of snapshots delivered.
func (r *Runner) Run(ctx context.Context, ep history.Episode) (int, error) {
	if r.Seq == nil || r.Handler == nil {
		return 0, errors.New("runner not initialized")
	}
	window, err := r.Seq.Window(ep.Start, ep.End)
	if err != nil {
		return 0, fmt.Errorf("episode %s: %w", ep.ID, err)
	}
	for i, st := range window {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := r.Handler.OnTick(ctx, ep.Start+i, st); err != nil {
			return i, fmt.Errorf("episode %s tick %d: %w", ep.ID, ep.Start+i, err)
		}
	}
	if r.Logger != nil {
		r.Logger.Debug("episode replayed",
			zap.String("episode_id", ep.ID),
			zap.Int("ticks", len(window)),
		)
	}
	return len(window), nil
}
