package market

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Snapshot represents one point-in-time order book.
// Buyers are expected best (highest) first, sellers best (lowest) first;
// best bid <= best ask is expected but not checked.
type Snapshot struct {
	timestamp  time.Time
	tradePrice float64
	volume     float64
	buyers     []Entry
	sellers    []Entry
	market     Features
}

// NewSnapshot 构造快照；buyers/sellers 的顺序由调用方保证。
func NewSnapshot(ts time.Time, tradePrice, volume float64, buyers, sellers []Entry) *Snapshot {
	return &Snapshot{
		timestamp:  ts,
		tradePrice: tradePrice,
		volume:     volume,
		buyers:     buyers,
		sellers:    sellers,
		market:     make(Features),
	}
}

func (s *Snapshot) Timestamp() time.Time { return s.timestamp }
func (s *Snapshot) TradePrice() float64  { return s.tradePrice }
func (s *Snapshot) Volume() float64      { return s.volume }

// Buyers returns the buy side. The slice is shared and must not be modified.
func (s *Snapshot) Buyers() []Entry { return s.buyers }

// Sellers returns the sell side. The slice is shared and must not be modified.
func (s *Snapshot) Sellers() []Entry { return s.sellers }

// Market 返回特征表，下游特征计算可以直接写入。
func (s *Snapshot) Market() Features { return s.market }

// MarketVar returns a feature value and whether it exists.
func (s *Snapshot) MarketVar(key string) (float64, bool) {
	return s.market.Get(key)
}

func (s *Snapshot) SetMarketVar(key string, value float64) {
	s.market[key] = value
}

// BestBid 返回最优买价；买盘为空时返回 ErrEmptySide。
func (s *Snapshot) BestBid() (float64, error) {
	if len(s.buyers) == 0 {
		return 0, fmt.Errorf("best bid: %w", ErrEmptySide)
	}
	return s.buyers[0].price, nil
}

// BestAsk 返回最优卖价；卖盘为空时返回 ErrEmptySide。
func (s *Snapshot) BestAsk() (float64, error) {
	if len(s.sellers) == 0 {
		return 0, fmt.Errorf("best ask: %w", ErrEmptySide)
	}
	return s.sellers[0].price, nil
}

// BidAskMid 返回 (best bid + best ask) / 2。
func (s *Snapshot) BidAskMid() (float64, error) {
	bid, err := s.BestBid()
	if err != nil {
		return 0, err
	}
	ask, err := s.BestAsk()
	if err != nil {
		return 0, err
	}
	return (bid + ask) / 2.0, nil
}

// SidePositions returns the entries of the requested side.
func (s *Snapshot) SidePositions(side Side) ([]Entry, error) {
	switch side {
	case SideBuy:
		return s.buyers, nil
	case SideSell:
		return s.sellers, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSide, string(side))
	}
}

// BasePrice is the price of the best entry on side.
func (s *Snapshot) BasePrice(side Side) (float64, error) {
	positions, err := s.SidePositions(side)
	if err != nil {
		return 0, err
	}
	if len(positions) == 0 {
		return 0, fmt.Errorf("base price %s: %w", side, ErrEmptySide)
	}
	return positions[0].price, nil
}

// EntryAt returns the entry at depth on side; negative depth counts from the worst level.
func (s *Snapshot) EntryAt(side Side, depth int) (Entry, error) {
	positions, err := s.SidePositions(side)
	if err != nil {
		return Entry{}, err
	}
	if len(positions) == 0 {
		return Entry{}, fmt.Errorf("entry at %s[%d]: %w", side, depth, ErrEmptySide)
	}
	idx := depth
	if idx < 0 {
		idx += len(positions)
	}
	if idx < 0 || idx >= len(positions) {
		return Entry{}, fmt.Errorf("entry at %s[%d] with %d levels: %w", side, depth, len(positions), ErrDepthOutOfRange)
	}
	return positions[idx], nil
}

// PriceAtLevel 估算指定档位的价格，使用 DefaultLevelPricer。
func (s *Snapshot) PriceAtLevel(side Side, level int) (float64, error) {
	return s.PriceAtLevelWith(DefaultLevelPricer, side, level)
}

// PriceAtLevelWith estimates the level price with an explicit policy.
func (s *Snapshot) PriceAtLevelWith(p LevelPricer, side Side, level int) (float64, error) {
	if p == nil {
		p = DefaultLevelPricer
	}
	return p.PriceAtLevel(s, side, level)
}

func (s *Snapshot) String() string {
	var b strings.Builder
	b.WriteString("----------ORDERBOOK STATE----------\n")
	fmt.Fprintf(&b, "DateTime: %s\n", s.timestamp.Format(time.RFC3339Nano))
	fmt.Fprintf(&b, "Price: %v\n", s.tradePrice)
	fmt.Fprintf(&b, "Buyers: %v\n", s.buyers)
	fmt.Fprintf(&b, "Sellers: %v\n", s.sellers)
	keys := make([]string, 0, len(s.market))
	for k := range s.market {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.WriteString("Market Vars: {")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", k, s.market[k])
	}
	b.WriteString("}\n")
	b.WriteString("----------ORDERBOOK STATE----------\n")
	return b.String()
}
