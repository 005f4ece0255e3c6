package history

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange        = errors.New("index out of orderbook state")
	ErrEmptySequence     = errors.New("order book does not contain states")
	ErrInsufficientData  = errors.New("not enough data")
	ErrInvalidParameters = errors.New("invalid parameters")
)

// InsufficientDataError 报告实际找到的时长与要求的时长（秒）。
type InsufficientDataError struct {
	Found    float64
	Required float64
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("not enough data: found states for %g seconds, required %g", e.Found, e.Required)
}

func (e *InsufficientDataError) Unwrap() error { return ErrInsufficientData }

func insufficient(found, required float64) error {
	return &InsufficientDataError{Found: found, Required: required}
}
