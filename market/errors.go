package market

import "errors"

var (
	ErrEmptySide       = errors.New("order book side is empty")
	ErrUnknownSide     = errors.New("unknown order book side")
	ErrDepthOutOfRange = errors.New("depth out of range")
)
