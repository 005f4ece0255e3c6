package history

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Episode 描述一次随机抽样得到的连续窗口 [Start, End]。
type Episode struct {
	ID         string
	Start      int
	End        int
	StartTime  time.Time
	EndTime    time.Time
	Duration   float64 // seconds
	TailOffset int     // seconds reserved after End
}

// Sampler draws reproducible episodes from a sequence. The same seed yields the
// same windows and the same episode IDs.
type Sampler struct {
	seq *Sequence
	rng *rand.Rand
}

func NewSampler(seq *Sequence, seed int64) *Sampler {
	return &Sampler{seq: seq, rng: rand.New(rand.NewSource(seed))}
}

// NewSamplerWithRand uses an existing random source.
func NewSamplerWithRand(seq *Sequence, rng *rand.Rand) *Sampler {
	return &Sampler{seq: seq, rng: rng}
}

// Sample draws one episode of at least runtime seconds that ends no closer
// than the drawn tail offset to the end, keeping offsetMax seconds of head room.
func (sp *Sampler) Sample(runtime, offsetMax float64) (Episode, error) {
	if sp.seq == nil || sp.rng == nil {
		return Episode{}, fmt.Errorf("sampler not initialized: %w", ErrInvalidParameters)
	}
	if runtime < 0 || offsetMax < 0 {
		return Episode{}, fmt.Errorf("runtime=%g offsetMax=%g: %w", runtime, offsetMax, ErrInvalidParameters)
	}
	tail, err := sp.seq.RandomOffset(sp.rng, offsetMax)
	if err != nil {
		return Episode{}, fmt.Errorf("random offset: %w", err)
	}
	end, err := sp.seq.OffsetTail(float64(tail))
	if err != nil {
		return Episode{}, fmt.Errorf("tail offset %d: %w", tail, err)
	}
	start, err := sp.seq.IndexWithTimeRemain(runtime, float64(tail))
	if err != nil {
		return Episode{}, fmt.Errorf("window of %gs: %w", runtime, err)
	}
	id, err := uuid.NewRandomFromReader(sp.rng)
	if err != nil {
		return Episode{}, fmt.Errorf("episode id: %w", err)
	}
	first, last := sp.seq.states[start], sp.seq.states[end]
	return Episode{
		ID:         id.String(),
		Start:      start,
		End:        end,
		StartTime:  first.Timestamp(),
		EndTime:    last.Timestamp(),
		Duration:   elapsed(first, last),
		TailOffset: tail,
	}, nil
}

// SampleN draws n episodes in order.
func (sp *Sampler) SampleN(n int, runtime, offsetMax float64) ([]Episode, error) {
	out := make([]Episode, 0, n)
	for i := 0; i < n; i++ {
		ep, err := sp.Sample(runtime, offsetMax)
		if err != nil {
			return out, fmt.Errorf("episode %d: %w", i, err)
		}
		out = append(out, ep)
	}
	return out, nil
}
