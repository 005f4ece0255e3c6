package market

import "testing"

func TestOrderBookAddAccumulates(t *testing.T) {
	ob := NewOrderBook()
	ob.Add(SideBuy, 100, 1)
	if got := ob.Add(SideBuy, 100, 2); got != 3 {
		t.Fatalf("expected accumulated size 3 got %f", got)
	}
	if sz, ok := ob.Size(SideBuy, 100); !ok || sz != 3 {
		t.Fatalf("unexpected size %f/%v", sz, ok)
	}
}

func TestOrderBookBestAndOrdering(t *testing.T) {
	ob := NewOrderBook()
	ob.Add(SideBuy, 99.5, 2)
	ob.Add(SideBuy, 100, 1)
	ob.Add(SideSell, 102, 3)
	ob.Add(SideSell, 101, 1.5)
	bid, ask := ob.Best()
	if bid != 100 || ask != 101 {
		t.Fatalf("unexpected best bid/ask: %f/%f", bid, ask)
	}
	bids := ob.Bids()
	if len(bids) != 2 || bids[0].Price() != 100 || bids[1].Price() != 99.5 {
		t.Fatalf("bids should be descending: %v", bids)
	}
	asks := ob.Asks()
	if len(asks) != 2 || asks[0].Price() != 101 || asks[1].Price() != 102 {
		t.Fatalf("asks should be ascending: %v", asks)
	}
	if mx, ok := ob.MaxAsk(); !ok || mx != 102 {
		t.Fatalf("unexpected max ask %f", mx)
	}
	// 删除一档
	if !ob.Remove(SideBuy, 100) {
		t.Fatalf("expected level removed")
	}
	if ob.Remove(SideBuy, 100) {
		t.Fatalf("second remove should be a no-op")
	}
	bid, _ = ob.Best()
	if bid != 99.5 {
		t.Fatalf("expected best bid 99.5 got %f", bid)
	}
}

func TestOrderBookEmptyBest(t *testing.T) {
	ob := NewOrderBook()
	bid, ask := ob.Best()
	if bid != 0 || ask != 0 {
		t.Fatalf("empty book should report zeros")
	}
	if _, ok := ob.MaxAsk(); ok {
		t.Fatalf("empty book has no max ask")
	}
}

func TestOrderBookCloneIsIsolated(t *testing.T) {
	ob := NewOrderBook()
	ob.Add(SideBuy, 100, 1)
	ob.Add(SideSell, 101, 1)
	snap := ob.Clone()

	ob.Add(SideBuy, 100, 5)
	ob.Remove(SideSell, 101)
	ob.Add(SideSell, 103, 2)

	if sz, _ := snap.Size(SideBuy, 100); sz != 1 {
		t.Fatalf("clone saw later add: %f", sz)
	}
	if asks := snap.Asks(); len(asks) != 1 || asks[0].Price() != 101 {
		t.Fatalf("clone saw later ask changes: %v", asks)
	}
	if b, a := ob.Depth(); b != 1 || a != 1 {
		t.Fatalf("unexpected live depth %d/%d", b, a)
	}
}
