package market

import "github.com/google/btree"

const bookDegree = 16

type level struct {
	price float64
	size  float64
}

func levelLess(a, b level) bool { return a.price < b.price }

// OrderBook 维护价格->数量的有序映射，两侧都按价格升序存储在 B 树中。
// Clone 是惰性写时复制，副本与原簿共享未修改的节点。
type OrderBook struct {
	bids *btree.BTreeG[level]
	asks *btree.BTreeG[level]
}

func NewOrderBook() *OrderBook {
	return &OrderBook{
		bids: btree.NewG(bookDegree, levelLess),
		asks: btree.NewG(bookDegree, levelLess),
	}
}

func (ob *OrderBook) tree(side Side) *btree.BTreeG[level] {
	if side == SideBuy {
		return ob.bids
	}
	return ob.asks
}

// Add 在 price 上累加 size（不是覆盖），返回累加后的数量。
func (ob *OrderBook) Add(side Side, price, size float64) float64 {
	t := ob.tree(side)
	cur, _ := t.Get(level{price: price})
	next := level{price: price, size: cur.size + size}
	t.ReplaceOrInsert(next)
	return next.size
}

// Remove 删除 price 档位；不存在时返回 false。
func (ob *OrderBook) Remove(side Side, price float64) bool {
	_, ok := ob.tree(side).Delete(level{price: price})
	return ok
}

// Size returns the resting size at price.
func (ob *OrderBook) Size(side Side, price float64) (float64, bool) {
	lv, ok := ob.tree(side).Get(level{price: price})
	return lv.size, ok
}

// Clone returns a copy-on-write snapshot of the book.
func (ob *OrderBook) Clone() *OrderBook {
	return &OrderBook{
		bids: ob.bids.Clone(),
		asks: ob.asks.Clone(),
	}
}

// Depth returns the number of bid and ask levels.
func (ob *OrderBook) Depth() (bids int, asks int) {
	return ob.bids.Len(), ob.asks.Len()
}

// Bids 按价格降序返回买盘。
func (ob *OrderBook) Bids() []Entry {
	out := make([]Entry, 0, ob.bids.Len())
	ob.bids.Descend(func(lv level) bool {
		out = append(out, NewEntry(lv.price, lv.size))
		return true
	})
	return out
}

// Asks 按价格升序返回卖盘。
func (ob *OrderBook) Asks() []Entry {
	out := make([]Entry, 0, ob.asks.Len())
	ob.asks.Ascend(func(lv level) bool {
		out = append(out, NewEntry(lv.price, lv.size))
		return true
	})
	return out
}

// Best 返回最好买/卖价；若不存在则为 0。
func (ob *OrderBook) Best() (bestBid float64, bestAsk float64) {
	if lv, ok := ob.bids.Max(); ok {
		bestBid = lv.price
	}
	if lv, ok := ob.asks.Min(); ok {
		bestAsk = lv.price
	}
	return bestBid, bestAsk
}

// MaxAsk returns the highest ask price.
func (ob *OrderBook) MaxAsk() (float64, bool) {
	lv, ok := ob.asks.Max()
	return lv.price, ok
}
