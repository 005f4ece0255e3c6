package sim

import (
	"context"
	"errors"
	"math"

	"market-replay-go/market"
)

// MidStats 统计回放过程中的中间价：极值、均值、首尾收益与最大回撤。
// 任一侧为空的快照计入 Skipped，不参与统计。
type MidStats struct {
	Ticks       int
	Skipped     int
	First       float64
	Last        float64
	Min         float64
	Max         float64
	MaxDrawdown float64 // fraction of the running peak

	sum  float64
	peak float64
}

func (m *MidStats) OnTick(_ context.Context, _ int, s *market.Snapshot) error {
	mid, err := s.BidAskMid()
	if err != nil {
		if errors.Is(err, market.ErrEmptySide) {
			m.Skipped++
			return nil
		}
		return err
	}
	if m.Ticks == 0 {
		m.First, m.Min, m.Max, m.peak = mid, mid, mid, mid
	}
	m.Ticks++
	m.Last = mid
	m.sum += mid
	m.Min = math.Min(m.Min, mid)
	m.Max = math.Max(m.Max, mid)
	if mid > m.peak {
		m.peak = mid
	}
	if m.peak > 0 {
		if dd := (m.peak - mid) / m.peak; dd > m.MaxDrawdown {
			m.MaxDrawdown = dd
		}
	}
	return nil
}

// Mean is the average mid, 0 before the first tick.
func (m *MidStats) Mean() float64 {
	if m.Ticks == 0 {
		return 0
	}
	return m.sum / float64(m.Ticks)
}

// Return is Last/First - 1.
func (m *MidStats) Return() float64 {
	if m.Ticks == 0 || m.First == 0 {
		return 0
	}
	return m.Last/m.First - 1
}

func (m *MidStats) Reset() { *m = MidStats{} }
