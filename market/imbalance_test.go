package market

import (
	"testing"
	"time"
)

func TestCalculateImbalance(t *testing.T) {
	tests := []struct {
		name      string
		bidVolume float64
		askVolume float64
		expected  float64
	}{
		{
			name:      "Equal volumes",
			bidVolume: 100,
			askVolume: 100,
			expected:  0,
		},
		{
			name:      "More bid volume",
			bidVolume: 150,
			askVolume: 100,
			expected:  0.2,
		},
		{
			name:      "More ask volume",
			bidVolume: 100,
			askVolume: 150,
			expected:  -0.2,
		},
		{
			name:      "Zero volumes",
			bidVolume: 0,
			askVolume: 0,
			expected:  0,
		},
		{
			name:      "One zero volume",
			bidVolume: 100,
			askVolume: 0,
			expected:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateImbalance(tt.bidVolume, tt.askVolume)
			if result != tt.expected {
				t.Errorf("CalculateImbalance(%f, %f) = %f, want %f",
					tt.bidVolume, tt.askVolume, result, tt.expected)
			}
		})
	}
}

func TestSnapshotImbalance(t *testing.T) {
	book := NewSnapshot(time.Unix(0, 0), 0, 0,
		[]Entry{NewEntry(100.0, 2), NewEntry(99.9, 3), NewEntry(99.8, 1)},
		[]Entry{NewEntry(100.1, 1), NewEntry(100.2, 2), NewEntry(100.3, 3)},
	)

	imbalance1 := SnapshotImbalance(book, 1)
	expected1 := CalculateImbalance(2, 1)
	if imbalance1 != expected1 {
		t.Errorf("SnapshotImbalance(1 level) = %f, want %f", imbalance1, expected1)
	}

	imbalance2 := SnapshotImbalance(book, 2)
	expected2 := CalculateImbalance(2+3, 1+2)
	if imbalance2 != expected2 {
		t.Errorf("SnapshotImbalance(2 levels) = %f, want %f", imbalance2, expected2)
	}

	// more levels than available, and levels <= 0, both use the whole book
	expectedAll := CalculateImbalance(2+3+1, 1+2+3)
	if got := SnapshotImbalance(book, 10); got != expectedAll {
		t.Errorf("SnapshotImbalance(10 levels) = %f, want %f", got, expectedAll)
	}
	if got := SnapshotImbalance(book, 0); got != expectedAll {
		t.Errorf("SnapshotImbalance(0 levels) = %f, want %f", got, expectedAll)
	}

	if got := SnapshotImbalance(nil, 1); got != 0 {
		t.Errorf("SnapshotImbalance(nil) = %f, want 0", got)
	}
}
