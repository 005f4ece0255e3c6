package market

import "strconv"

// Entry 表示订单簿中的一个价位（价格 + 数量），构造后不可修改。
type Entry struct {
	price float64
	qty   float64
}

// NewEntry 构造一个价位。
func NewEntry(price, qty float64) Entry {
	return Entry{price: price, qty: qty}
}

func (e Entry) Price() float64 { return e.price }
func (e Entry) Qty() float64   { return e.qty }

func (e Entry) String() string {
	return strconv.FormatFloat(e.price, 'f', -1, 64) + ": " + strconv.FormatFloat(e.qty, 'f', -1, 64)
}
