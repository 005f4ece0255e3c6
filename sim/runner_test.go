package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-replay-go/history"
	"market-replay-go/market"
)

func TestRunnerReplaysWindow(t *testing.T) {
	seq := history.NewSequence()
	_, err := Populate(seq, linearConfig())
	require.NoError(t, err)

	var seen []int
	stats := &MidStats{}
	r := Runner{
		Seq: seq,
		Handler: Fanout{
			TickFunc(func(_ context.Context, idx int, _ *market.Snapshot) error {
				seen = append(seen, idx)
				return nil
			}),
			stats,
		},
	}
	n, err := r.Run(context.Background(), history.Episode{ID: "ep", Start: 2, End: 5})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []int{2, 3, 4, 5}, seen)
	assert.Equal(t, 4, stats.Ticks)
	assert.Greater(t, stats.Last, stats.First)
	assert.Equal(t, 0.0, stats.MaxDrawdown)
}

func TestRunnerErrors(t *testing.T) {
	var empty Runner
	_, err := empty.Run(context.Background(), history.Episode{})
	assert.Error(t, err)

	seq := history.NewSequence()
	_, _ = Populate(seq, linearConfig())

	boom := errors.New("boom")
	r := Runner{Seq: seq, Handler: TickFunc(func(_ context.Context, idx int, _ *market.Snapshot) error {
		if idx == 3 {
			return boom
		}
		return nil
	})}
	n, err := r.Run(context.Background(), history.Episode{Start: 0, End: 10})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, n)

	_, err = r.Run(context.Background(), history.Episode{Start: 5, End: 20})
	assert.ErrorIs(t, err, history.ErrOutOfRange)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err = r.Run(ctx, history.Episode{Start: 0, End: 2})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, n)
}

func TestMidStats(t *testing.T) {
	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	snap := func(bid, ask float64) *market.Snapshot {
		return market.NewSnapshot(ts, ask, 0,
			[]market.Entry{market.NewEntry(bid, 1)},
			[]market.Entry{market.NewEntry(ask, 1)},
		)
	}
	var m MidStats
	ctx := context.Background()
	for _, s := range []*market.Snapshot{
		snap(99, 101),  // 100
		snap(109, 111), // 110
		snap(98, 100),  // 99
		market.NewSnapshot(ts, 0, 0, nil, nil),
		snap(104, 106), // 105
	} {
		require.NoError(t, m.OnTick(ctx, 0, s))
	}
	assert.Equal(t, 4, m.Ticks)
	assert.Equal(t, 1, m.Skipped)
	assert.Equal(t, 99.0, m.Min)
	assert.Equal(t, 110.0, m.Max)
	assert.InDelta(t, 103.5, m.Mean(), 1e-9)
	assert.InDelta(t, 0.1, m.MaxDrawdown, 1e-9)
	assert.InDelta(t, 0.05, m.Return(), 1e-9)

	m.Reset()
	assert.Equal(t, 0.0, m.Mean())
	assert.Equal(t, 0.0, m.Return())
}
