package market

// Side 订单簿方向。
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

func (s Side) String() string { return string(s) }

// Valid reports whether s is one of the two book sides.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}
