package market

import "fmt"

// BasisPoint 0.0001 of a reference price.
const BasisPoint = 0.0001

// LevelPricer estimates the price at an arbitrary depth of a snapshot.
type LevelPricer interface {
	PriceAtLevel(s *Snapshot, side Side, level int) (float64, error)
}

// DefaultLevelPricer is used by Snapshot.PriceAtLevel.
var DefaultLevelPricer LevelPricer = BestAskBps{}

// BestAskBps 以最优卖价为锚点、每档固定 Step（默认 1bp）线性估算：
// BUY 为 bestAsk + level*delta，SELL 为 bestAsk - level*delta。两侧都锚定 best ask，不读取本侧深度。
type BestAskBps struct {
	Step float64
}

func (p BestAskBps) PriceAtLevel(s *Snapshot, side Side, level int) (float64, error) {
	step := p.Step
	if step == 0 {
		step = BasisPoint
	}
	ask, err := s.BestAsk()
	if err != nil {
		return 0, err
	}
	delta := step * ask
	switch side {
	case SideBuy:
		return ask + float64(level)*delta, nil
	case SideSell:
		return ask - float64(level)*delta, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSide, string(side))
	}
}

// SideGradient reads the actual price when |level| is inside the side's depth and otherwise
// extrapolates from the last level with the mean numerical gradient of the side's prices.
// A single-level side extrapolates flat. Steps are counted from the last entry,
// level-(n-1), so level n lands exactly one gradient past it.
type SideGradient struct{}

func (SideGradient) PriceAtLevel(s *Snapshot, side Side, level int) (float64, error) {
	positions, err := s.SidePositions(side)
	if err != nil {
		return 0, err
	}
	if len(positions) == 0 {
		return 0, fmt.Errorf("price at level %s[%d]: %w", side, level, ErrEmptySide)
	}
	if level < 0 {
		level = -level
	}
	n := len(positions)
	if level < n {
		return positions[level].price, nil
	}
	last := positions[n-1].price
	return last + float64(level-(n-1))*meanGradient(positions), nil
}

// meanGradient 与 numpy.gradient 一致：两端用一阶差分，中间用中心差分，然后取均值。
func meanGradient(positions []Entry) float64 {
	n := len(positions)
	if n < 2 {
		return 0
	}
	sum := positions[1].price - positions[0].price
	sum += positions[n-1].price - positions[n-2].price
	for i := 1; i < n-1; i++ {
		sum += (positions[i+1].price - positions[i-1].price) / 2
	}
	return sum / float64(n)
}
