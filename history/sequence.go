// Package history holds an append-only, time-ordered sequence of order book
// snapshots and the offset/window arithmetic used to cut episodes out of it.
//
// All offsets and durations are in seconds; all indices are zero based.
// Every walk is a linear scan and a threshold is crossed with >=, so the first
// index reaching the target span is selected and nothing is interpolated.
package history

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"market-replay-go/market"
)

// RandSource is the random source used by the sampling operations.
// *rand.Rand satisfies it.
type RandSource interface {
	Intn(n int) int
}

// Sequence 按时间顺序保存快照。时间戳非递减由调用方保证，这里不做校验。
type Sequence struct {
	states []*market.Snapshot
}

func NewSequence() *Sequence {
	return &Sequence{}
}

// Add appends one snapshot.
func (s *Sequence) Add(state *market.Snapshot) {
	s.states = append(s.states, state)
}

// AddAll appends snapshots in order.
func (s *Sequence) AddAll(states []*market.Snapshot) {
	s.states = append(s.states, states...)
}

func (s *Sequence) Len() int { return len(s.states) }

// States returns the backing slice; callers must not modify it.
func (s *Sequence) States() []*market.Snapshot { return s.states }

// State 返回第 i 个快照，越界返回 ErrOutOfRange。
func (s *Sequence) State(i int) (*market.Snapshot, error) {
	if i < 0 || i >= len(s.states) {
		return nil, fmt.Errorf("state %d of %d: %w", i, len(s.states), ErrOutOfRange)
	}
	return s.states[i], nil
}

func elapsed(from, to *market.Snapshot) float64 {
	return to.Timestamp().Sub(from.Timestamp()).Seconds()
}

// OffsetHead returns the first index whose elapsed time from the first state is
// at least offset seconds.
//
//	offset=3, 1s spacing: |x|x|x|i|_|_|_|_|_|_|
func (s *Sequence) OffsetHead(offset float64) (int, error) {
	if len(s.states) == 0 {
		return 0, ErrEmptySequence
	}
	if offset == 0 {
		return 0, nil
	}
	start := s.states[0]
	idx := 0
	consumed := 0.0
	for consumed < offset && idx < len(s.states)-1 {
		idx++
		consumed = elapsed(start, s.states[idx])
	}
	if consumed < offset {
		return 0, insufficient(consumed, offset)
	}
	return idx, nil
}

// OffsetTail returns the last index whose elapsed time to the last state is at
// least offset seconds.
//
//	offset=3, 1s spacing: |_|_|_|_|_|_|i|x|x|x|
func (s *Sequence) OffsetTail(offset float64) (int, error) {
	if len(s.states) == 0 {
		return 0, ErrEmptySequence
	}
	last := len(s.states) - 1
	if offset == 0 {
		return last, nil
	}
	end := s.states[last]
	idx := last
	consumed := 0.0
	for consumed < offset && idx > 0 {
		idx--
		consumed = elapsed(s.states[idx], end)
	}
	if consumed < offset {
		return 0, insufficient(consumed, offset)
	}
	return idx, nil
}

// IndexWithTimeRemain 以 OffsetTail(offset) 为终点向前回溯，返回覆盖至少 seconds 秒窗口的起点下标。
//
//	seconds=3, offset=1, 1s spacing: |_|_|_|_|_|_|i>|>|>|x|
func (s *Sequence) IndexWithTimeRemain(seconds, offset float64) (int, error) {
	if len(s.states) == 0 {
		return 0, ErrEmptySequence
	}
	idx, err := s.OffsetTail(offset)
	if err != nil {
		return 0, err
	}
	end := s.states[idx]
	consumed := 0.0
	for consumed < seconds && idx > 0 {
		idx--
		consumed = elapsed(s.states[idx], end)
	}
	if consumed < seconds {
		return 0, insufficient(consumed, seconds)
	}
	return idx, nil
}

// TotalDuration is the span in seconds from the first state to OffsetTail(offset).
func (s *Sequence) TotalDuration(offset float64) (float64, error) {
	idx, err := s.OffsetTail(offset)
	if err != nil {
		return 0, err
	}
	return elapsed(s.states[0], s.states[idx]), nil
}

// RandomOffset draws a tail offset in whole seconds. The first offsetMax seconds
// of the sequence are reserved, so a window ending at the drawn offset always
// has that much history before it.
//
//	offsetMax=3, 1s spacing, candidates marked o: |_|_|_|o|o|o|o|o|o|o|
func (s *Sequence) RandomOffset(rng RandSource, offsetMax float64) (int, error) {
	head, err := s.OffsetHead(offsetMax)
	if err != nil {
		return 0, err
	}
	remaining := int(math.Floor(elapsed(s.states[head], s.states[len(s.states)-1])))
	if remaining <= 0 {
		return 0, nil
	}
	if rng == nil {
		return 0, fmt.Errorf("random offset: nil random source: %w", ErrInvalidParameters)
	}
	return rng.Intn(remaining), nil
}

// RandomState 随机选取尾部偏移，返回一个时长至少 runtime 秒的窗口起点快照及其下标。
func (s *Sequence) RandomState(rng RandSource, runtime, offsetMax float64) (*market.Snapshot, int, error) {
	tail, err := s.RandomOffset(rng, offsetMax)
	if err != nil {
		return nil, 0, err
	}
	idx, err := s.IndexWithTimeRemain(runtime, float64(tail))
	if err != nil {
		return nil, 0, err
	}
	state, err := s.State(idx)
	if err != nil {
		return nil, 0, err
	}
	return state, idx, nil
}

// Window returns states[start..end] inclusive.
func (s *Sequence) Window(start, end int) ([]*market.Snapshot, error) {
	if start < 0 || end >= len(s.states) || start > end {
		return nil, fmt.Errorf("window [%d, %d] of %d: %w", start, end, len(s.states), ErrOutOfRange)
	}
	return s.states[start : end+1], nil
}

// Span is the wall-clock range covered by the sequence.
func (s *Sequence) Span() (time.Time, time.Time, error) {
	if len(s.states) == 0 {
		return time.Time{}, time.Time{}, ErrEmptySequence
	}
	return s.states[0].Timestamp(), s.states[len(s.states)-1].Timestamp(), nil
}

func (s *Sequence) String() string {
	var b strings.Builder
	for i, st := range s.states {
		b.WriteString("State " + strconv.Itoa(i+1) + "\n")
		b.WriteString("-------\n")
		b.WriteString(st.String())
		b.WriteString("\n\n")
	}
	return b.String()
}
