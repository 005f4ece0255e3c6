package feed

import "fmt"

// FlatLayout maps flat feed fields to zero-based column positions.
// Bid and ask columns are listed best level first.
type FlatLayout struct {
	TradePrice int            `yaml:"tradePrice"`
	Volume     int            `yaml:"volume"`
	BidPrices  []int          `yaml:"bidPrices"`
	AskPrices  []int          `yaml:"askPrices"`
	BidQtys    []int          `yaml:"bidQtys"`
	AskQtys    []int          `yaml:"askQtys"`
	Timestamp  int            `yaml:"timestamp"`
	Extra      map[string]int `yaml:"extra"` // feature key -> column, read only in extra features mode
}

// DefaultFlatLayout 五档快照文件的默认列位置：成交价 1，成交量 2，买价 3-7，卖价 8-12，
// 买量 13-17，卖量 18-22，成交时间 24，滚动统计 26-28。
func DefaultFlatLayout() FlatLayout {
	return FlatLayout{
		TradePrice: 1,
		Volume:     2,
		BidPrices:  []int{3, 4, 5, 6, 7},
		AskPrices:  []int{8, 9, 10, 11, 12},
		BidQtys:    []int{13, 14, 15, 16, 17},
		AskQtys:    []int{18, 19, 20, 21, 22},
		Timestamp:  24,
		Extra: map[string]int{
			"mean60": 26,
			"vol60":  27,
			"std60":  28,
		},
	}
}

func (l FlatLayout) Validate() error {
	if len(l.BidPrices) != len(l.BidQtys) {
		return fmt.Errorf("flat layout: %d bid price columns but %d bid qty columns", len(l.BidPrices), len(l.BidQtys))
	}
	if len(l.AskPrices) != len(l.AskQtys) {
		return fmt.Errorf("flat layout: %d ask price columns but %d ask qty columns", len(l.AskPrices), len(l.AskQtys))
	}
	return nil
}

// LevelLayout maps the JSON-level feed columns.
type LevelLayout struct {
	BidPrice  int `yaml:"bidPrice"`
	AskPrice  int `yaml:"askPrice"`
	BidVolume int `yaml:"bidVolume"`
	AskVolume int `yaml:"askVolume"`
	Volume    int `yaml:"volume"`
	Bids      int `yaml:"bids"`
	Asks      int `yaml:"asks"`
	Timestamp int `yaml:"timestamp"`
}

func DefaultLevelLayout() LevelLayout {
	return LevelLayout{
		BidPrice:  1,
		AskPrice:  2,
		BidVolume: 3,
		AskVolume: 4,
		Volume:    5,
		Bids:      6,
		Asks:      7,
		Timestamp: 8,
	}
}

// EventLayout maps the event stream columns.
type EventLayout struct {
	Timestamp int `yaml:"timestamp"`
	Sequence  int `yaml:"sequence"`
	Size      int `yaml:"size"`
	Price     int `yaml:"price"`
	IsBid     int `yaml:"isBid"`
	IsTrade   int `yaml:"isTrade"`
}

func DefaultEventLayout() EventLayout {
	return EventLayout{
		Timestamp: 0,
		Sequence:  1,
		Size:      2,
		Price:     3,
		IsBid:     4,
		IsTrade:   5,
	}
}
