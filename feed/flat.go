package feed

import (
	"fmt"
	"io"
	"sort"
	"time"

	"go.uber.org/zap"

	"market-replay-go/history"
	"market-replay-go/market"
)

const sourceFlat = "flat"

// FlatFeed reads one five-level snapshot per row. Nil Layout means DefaultFlatLayout.
type FlatFeed struct {
	Layout *FlatLayout
	// ExtraFeatures copies Layout.Extra columns into the market map.
	ExtraFeatures bool
	Options
}

// Load parses every row and appends the snapshots to seq in file order.
// Nothing is appended when any row fails.
func (f FlatFeed) Load(r io.Reader, seq *history.Sequence) (int, error) {
	layout := DefaultFlatLayout()
	if f.Layout != nil {
		layout = *f.Layout
	}
	if err := layout.Validate(); err != nil {
		return 0, err
	}
	started := time.Now()
	var states []*market.Snapshot
	_, err := f.rows(sourceFlat, r, func(rec record) error {
		st, err := f.parse(layout, rec)
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
	f.Metrics.SnapshotsAppended(sourceFlat, len(states))
	f.log().Debug("flat feed loaded",
		zap.Int("states", len(states)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return len(states), nil
}

func (f FlatFeed) parse(l FlatLayout, rec record) (*market.Snapshot, error) {
	price, err := rec.float(l.TradePrice, "tradePrice")
	if err != nil {
		return nil, err
	}
	volume, err := rec.float(l.Volume, "volume")
	if err != nil {
		return nil, err
	}
	buyers, err := entries(rec, l.BidPrices, l.BidQtys, "bid")
	if err != nil {
		return nil, err
	}
	sellers, err := entries(rec, l.AskPrices, l.AskQtys, "ask")
	if err != nil {
		return nil, err
	}
	ts, err := rec.stamp(l.Timestamp, "timestamp")
	if err != nil {
		return nil, err
	}
	st := market.NewSnapshot(ts, price, volume, buyers, sellers)
	if f.ExtraFeatures {
		keys := make([]string, 0, len(l.Extra))
		for key := range l.Extra {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			v, err := rec.float(l.Extra[key], key)
			if err != nil {
				return nil, err
			}
			st.SetMarketVar(key, v)
		}
	}
	return st, nil
}

func entries(rec record, prices, qtys []int, side string) ([]market.Entry, error) {
	out := make([]market.Entry, 0, len(prices))
	for i := range prices {
		p, err := rec.float(prices[i], fmt.Sprintf("%sPrice%d", side, i+1))
		if err != nil {
			return nil, err
		}
		q, err := rec.float(qtys[i], fmt.Sprintf("%sQty%d", side, i+1))
		if err != nil {
			return nil, err
		}
		out = append(out, market.NewEntry(p, q))
	}
	return out, nil
}
