package feed

import (
	"io"
	"time"

	"go.uber.org/zap"

	"market-replay-go/history"
	"market-replay-go/market"
)

const sourceEvents = "events"

// Event 是一条逐笔订单簿变更。Size 为 0 表示撤掉该价位。
type Event struct {
	Timestamp time.Time
	Sequence  int64
	Size      float64
	Price     float64
	IsBid     bool
	IsTrade   bool
}

// Side returns the book side the event touches.
func (e Event) Side() market.Side {
	if e.IsBid {
		return market.SideBuy
	}
	return market.SideSell
}

// EventFeed reads an event stream and rebuilds snapshots from it.
// Nil Layout means DefaultEventLayout.
type EventFeed struct {
	Layout *EventLayout
	Options
}

// Read parses every row into an Event, keeping file order.
func (f EventFeed) Read(r io.Reader) ([]Event, error) {
	layout := DefaultEventLayout()
	if f.Layout != nil {
		layout = *f.Layout
	}
	var events []Event
	_, err := f.rows(sourceEvents, r, func(rec record) error {
		ev, err := parseEventRow(layout, rec)
		if err != nil {
			return err
		}
		events = append(events, ev)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Load reads the stream, reconstructs the book and appends the resulting snapshots.
func (f EventFeed) Load(r io.Reader, seq *history.Sequence) (int, error) {
	started := time.Now()
	events, err := f.Read(r)
	if err != nil {
		return 0, err
	}
	n := f.LoadEvents(seq, events)
	f.log().Debug("event feed loaded",
		zap.Int("events", len(events)),
		zap.Int("states", n),
		zap.Duration("elapsed", time.Since(started)),
	)
	return n, nil
}

// LoadEvents reconstructs frames from already decoded events and appends them.
func (f EventFeed) LoadEvents(seq *history.Sequence, events []Event) int {
	rc := NewReconstructor(f.Metrics)
	for _, ev := range events {
		rc.Apply(ev)
	}
	frames := rc.Frames()
	crossed := 0
	for _, fr := range frames {
		bid, ask := fr.Book.Best()
		if bid > 0 && ask > 0 && bid >= ask {
			crossed++
		}
	}
	if crossed > 0 {
		f.log().Debug("crossed frames in event stream", zap.Int("frames", crossed))
	}
	n := LoadFrames(seq, frames)
	f.Metrics.SnapshotsAppended(sourceEvents, n)
	return n
}

func parseEventRow(l EventLayout, rec record) (Event, error) {
	var (
		ev  Event
		err error
	)
	if ev.Timestamp, err = rec.stamp(l.Timestamp, "ts"); err != nil {
		return ev, err
	}
	if ev.Sequence, err = rec.integer(l.Sequence, "seq"); err != nil {
		return ev, err
	}
	if ev.Size, err = rec.float(l.Size, "size"); err != nil {
		return ev, err
	}
	if ev.Price, err = rec.float(l.Price, "price"); err != nil {
		return ev, err
	}
	if ev.IsBid, err = rec.flag(l.IsBid, "is_bid"); err != nil {
		return ev, err
	}
	if ev.IsTrade, err = rec.flag(l.IsTrade, "is_trade"); err != nil {
		return ev, err
	}
	return ev, nil
}
