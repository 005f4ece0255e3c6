package history

import (
	"math"

	"market-replay-go/market"
)

// AddRelativeVolume min-max scales every volume into [0, maxBucket], rounds half
// to even and stores the bucket as volumeRelativeTotal. Constant volume maps to 0.
func (s *Sequence) AddRelativeVolume(maxBucket float64) {
	if len(s.states) == 0 {
		return
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, st := range s.states {
		lo = math.Min(lo, st.Volume())
		hi = math.Max(hi, st.Volume())
	}
	span := hi - lo
	for _, st := range s.states {
		scaled := 0.0
		if span > 0 {
			scaled = (st.Volume() - lo) / span * maxBucket
		}
		st.SetMarketVar(market.KeyVolumeRelativeTotal, math.RoundToEven(scaled))
	}
}

// AddImbalance 在每个快照上写入前 levels 档的买卖失衡度。
func (s *Sequence) AddImbalance(levels int) {
	for _, st := range s.states {
		st.SetMarketVar(market.KeyImbalance, market.SnapshotImbalance(st, levels))
	}
}

// AddRealizedVol writes the trailing realized volatility of mid prices over the
// last window snapshots. Snapshots with an empty side keep the previous value.
func (s *Sequence) AddRealizedVol(window int) {
	calc := market.NewVolatilityCalculator(window)
	for _, st := range s.states {
		calc.AddSnapshot(st)
		st.SetMarketVar(market.KeyRealizedVol, calc.RealizedVol())
	}
}
