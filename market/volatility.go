package market

import (
	"math"
	"time"
)

// VolatilityCalculator calculates realized volatility based on mid prices
type VolatilityCalculator struct {
	windowSize int
	prices     []float64
	times      []time.Time
}

// NewVolatilityCalculator creates a new volatility calculator
func NewVolatilityCalculator(windowSize int) *VolatilityCalculator {
	if windowSize < 2 {
		windowSize = 2
	}
	return &VolatilityCalculator{
		windowSize: windowSize,
		prices:     make([]float64, 0, windowSize),
		times:      make([]time.Time, 0, windowSize),
	}
}

// AddSnapshot 以快照中间价入窗；任一侧为空时忽略并返回 false。
func (v *VolatilityCalculator) AddSnapshot(s *Snapshot) bool {
	mid, err := s.BidAskMid()
	if err != nil {
		return false
	}
	v.AddPrice(mid, s.timestamp)
	return true
}

// AddPrice adds a new mid price to the calculator
func (v *VolatilityCalculator) AddPrice(mid float64, ts time.Time) {
	v.prices = append(v.prices, mid)
	v.times = append(v.times, ts)

	if len(v.prices) > v.windowSize {
		v.prices = v.prices[1:]
		v.times = v.times[1:]
	}
}

// RealizedVol is the standard deviation of log returns in the window scaled by
// the square root of the number of returns.
func (v *VolatilityCalculator) RealizedVol() float64 {
	if len(v.prices) < 2 {
		return 0
	}

	logReturns := make([]float64, 0, len(v.prices)-1)
	for i := 1; i < len(v.prices); i++ {
		if v.prices[i-1] > 0 && v.prices[i] > 0 {
			logReturns = append(logReturns, math.Log(v.prices[i]/v.prices[i-1]))
		}
	}
	if len(logReturns) < 1 {
		return 0
	}

	sum := 0.0
	for _, r := range logReturns {
		sum += r
	}
	mean := sum / float64(len(logReturns))

	sumSquaredDiff := 0.0
	for _, r := range logReturns {
		diff := r - mean
		sumSquaredDiff += diff * diff
	}
	variance := sumSquaredDiff / float64(len(logReturns))
	return math.Sqrt(variance) * math.Sqrt(float64(len(logReturns)))
}

// IsReady checks if we have enough data to calculate volatility
func (v *VolatilityCalculator) IsReady() bool {
	return len(v.prices) >= 2
}

// Span returns the time covered by the window.
func (v *VolatilityCalculator) Span() time.Duration {
	if len(v.times) < 2 {
		return 0
	}
	return v.times[len(v.times)-1].Sub(v.times[0])
}
