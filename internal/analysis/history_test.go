package analysis

import (
	"math"
	"testing"
)

func TestHistorySettledAt(t *testing.T) {
	tests := []struct {
		name     string
		speeds   []float32
		expected int
	}{
		{"never settles", []float32{1, 1, 1}, -1},
		{"settles midway", []float32{1, 1e-7, 1e-8}, 1},
		{"settles then wakes", []float32{1e-7, 1, 1e-7}, 2},
		{"settled from start", []float32{1e-7, 1e-8}, 0},
		{"empty", nil, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistory(len(tt.speeds))
			for i, s := range tt.speeds {
				h.Record(Sample{Age: uint64(i), MaxSpeed: s})
			}
			if got := h.SettledAt(3e-6); got != tt.expected {
				t.Errorf("SettledAt() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestPadToPow2(t *testing.T) {
	padded := PadToPow2([]float64{1, 2, 3, 4, 5})
	if len(padded) != 8 {
		t.Errorf("expected length 8, got %d", len(padded))
	}
	if padded[4] != 5 || padded[5] != 0 {
		t.Errorf("padding wrong: %v", padded)
	}

	exact := []float64{1, 2, 3, 4}
	if got := PadToPow2(exact); len(got) != 4 {
		t.Errorf("power-of-two input should be unchanged, got length %d", len(got))
	}
}

func TestPowerSpectrumPicksDominantFrequency(t *testing.T) {
	// 64 samples of a pure 8-cycle sine: bin 8 must dominate.
	n := 64
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 8 * float64(i) / float64(n))
	}
	ps := PowerSpectrum(data)

	maxBin := 0
	for i := range ps {
		if ps[i] > ps[maxBin] {
			maxBin = i
		}
	}
	if maxBin != 8 {
		t.Errorf("expected dominant bin 8, got %d", maxBin)
	}
}
