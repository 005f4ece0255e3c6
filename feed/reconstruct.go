package feed

import (
	"time"

	"market-replay-go/history"
	"market-replay-go/market"
	"market-replay-go/metrics"
)

// 订单簿事件种类，对应 book_events_total 的 kind 标签
const (
	KindAdd          = "add"
	KindCancel       = "cancel"
	KindCancelNoop   = "cancel_noop"
	KindTradeSkipped = "trade_skipped"
)

// Frame is the book as of one distinct event timestamp.
type Frame struct {
	Timestamp time.Time
	Book      *market.OrderBook
}

// Reconstructor 逐条应用事件，并在每个时间戳记录一份订单簿的持久化副本。
// 同一时间戳的后续事件覆盖该帧，帧顺序保持首次出现的顺序。
type Reconstructor struct {
	book    *market.OrderBook
	frames  []Frame
	index   map[int64]int
	metrics *metrics.Recorder
}

// NewReconstructor starts from an empty book. rec may be nil.
func NewReconstructor(rec *metrics.Recorder) *Reconstructor {
	return &Reconstructor{
		book:    market.NewOrderBook(),
		index:   make(map[int64]int),
		metrics: rec,
	}
}

// Apply folds one event into the book. Trades are ignored and cancelling an
// absent price changes nothing, so neither records a frame.
func (r *Reconstructor) Apply(ev Event) {
	if ev.IsTrade {
		r.metrics.BookEvent(KindTradeSkipped)
		return
	}
	side := ev.Side()
	if ev.Size == 0 {
		if !r.book.Remove(side, ev.Price) {
			r.metrics.BookEvent(KindCancelNoop)
			return
		}
		r.metrics.BookEvent(KindCancel)
	} else {
		r.book.Add(side, ev.Price, ev.Size)
		r.metrics.BookEvent(KindAdd)
	}
	r.snapshotAt(ev.Timestamp)
}

func (r *Reconstructor) snapshotAt(ts time.Time) {
	snap := r.book.Clone()
	key := ts.UnixNano()
	if i, ok := r.index[key]; ok {
		r.frames[i].Book = snap
		return
	}
	r.index[key] = len(r.frames)
	r.frames = append(r.frames, Frame{Timestamp: ts, Book: snap})
}

// Frames returns the recorded frames in first-seen timestamp order.
func (r *Reconstructor) Frames() []Frame { return r.frames }

// Reconstruct applies every event from an empty book.
func Reconstruct(events []Event) []Frame {
	r := NewReconstructor(nil)
	for _, ev := range events {
		r.Apply(ev)
	}
	return r.Frames()
}

// LoadFrames 丢弃开头单边或空的帧；此后每个至少有一档卖盘的帧都转成快照追加到 seq。
// 成交价取最高卖价，成交量为 0。返回追加数量。
func LoadFrames(seq *history.Sequence, frames []Frame) int {
	first := 0
	for first < len(frames) {
		bids, asks := frames[first].Book.Depth()
		if bids > 0 && asks > 0 {
			break
		}
		first++
	}
	states := make([]*market.Snapshot, 0, len(frames)-first)
	for _, fr := range frames[first:] {
		maxAsk, ok := fr.Book.MaxAsk()
		if !ok {
			continue
		}
		states = append(states, market.NewSnapshot(fr.Timestamp, maxAsk, 0, fr.Book.Bids(), fr.Book.Asks()))
	}
	seq.AddAll(states)
	return len(states)
}
