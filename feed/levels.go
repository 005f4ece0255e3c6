package feed

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"market-replay-go/history"
	"market-replay-go/market"
)

const sourceLevels = "levels"

// ladderLevel 是 JSON 档位中的一项，price/amount 可以是字符串或数字。
type ladderLevel struct {
	Price  decimal.Decimal `json:"price"`
	Amount decimal.Decimal `json:"amount"`
}

// LevelFeed reads snapshots whose ladders are JSON arrays of {price, amount}.
// Nil Layout means DefaultLevelLayout.
type LevelFeed struct {
	Layout *LevelLayout
	Options
}

// Load appends one snapshot per row. The trade price is the ask price column and
// the side volumes go into the market map as volumeBid and volumeAsk.
func (f LevelFeed) Load(r io.Reader, seq *history.Sequence) (int, error) {
	layout := DefaultLevelLayout()
	if f.Layout != nil {
		layout = *f.Layout
	}
	started := time.Now()
	var states []*market.Snapshot
	_, err := f.rows(sourceLevels, r, func(rec record) error {
		st, err := parseLevelRow(layout, rec)
		if err != nil {
			return err
		}
		states = append(states, st)
		return nil
	})
	if err != nil {
		return 0, err
	}
	seq.AddAll(states)
	f.Metrics.SnapshotsAppended(sourceLevels, len(states))
	f.log().Debug("level feed loaded",
		zap.Int("states", len(states)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return len(states), nil
}

func parseLevelRow(l LevelLayout, rec record) (*market.Snapshot, error) {
	// 买价列只做校验，成交价取卖价列
	if _, err := rec.float(l.BidPrice, "bidPrice"); err != nil {
		return nil, err
	}
	askPrice, err := rec.float(l.AskPrice, "askPrice")
	if err != nil {
		return nil, err
	}
	bidVolume, err := rec.float(l.BidVolume, "bidVolume")
	if err != nil {
		return nil, err
	}
	askVolume, err := rec.float(l.AskVolume, "askVolume")
	if err != nil {
		return nil, err
	}
	volume, err := rec.float(l.Volume, "volume")
	if err != nil {
		return nil, err
	}
	buyers, err := ladder(rec, l.Bids, "bids")
	if err != nil {
		return nil, err
	}
	sellers, err := ladder(rec, l.Asks, "asks")
	if err != nil {
		return nil, err
	}
	ts, err := rec.stamp(l.Timestamp, "timestamp")
	if err != nil {
		return nil, err
	}
	st := market.NewSnapshot(ts, askPrice, volume, buyers, sellers)
	st.SetMarketVar(market.KeyVolumeBid, bidVolume)
	st.SetMarketVar(market.KeyVolumeAsk, askVolume)
	return st, nil
}

func ladder(rec record, col int, name string) ([]market.Entry, error) {
	raw, err := rec.field(col, name)
	if err != nil {
		return nil, err
	}
	var levels []ladderLevel
	if err := json.Unmarshal([]byte(raw), &levels); err != nil {
		return nil, rec.fail(name, fmt.Errorf("decode ladder: %w", err))
	}
	out := make([]market.Entry, 0, len(levels))
	for _, lv := range levels {
		out = append(out, market.NewEntry(lv.Price.InexactFloat64(), lv.Amount.InexactFloat64()))
	}
	return out, nil
}
