// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestFloat32ToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input float32
		want  int16
	}{
		{
			name:  "zero",
			input: 0.0,
			want:  0,
		},
		{
			name:  "max positive",
			input: 1.0,
			want:  math.MaxInt16,
		},
		{
			name:  "max negative",
			input: -1.0,
			want:  math.MinInt16,
		},
		{
			name:  "half positive",
			input: 0.5,
			want:  16383, // math.MaxInt16 * 0.5 ≈ 16383.5
		},
		{
			name:  "half negative",
			input: -0.5,
			want:  -16383,
		},
		{
			name:  "clamp over max",
			input: 1.5,
			want:  math.MaxInt16,
		},
		{
			name:  "clamp over min",
			input: -1.5,
			want:  math.MinInt16,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Float32ToInt16(tt.input)
			// Allow for rounding differences of ±1
			diff := int16(math.Abs(float64(got - tt.want)))

			if diff > 1 {
				t.Errorf("Float32ToInt16(%v) = %v, want %v (diff %v)",
					tt.input, got, tt.want, diff)
			}
		})
	}
}

// TestFloat32ToInt16Symmetry tests that conversion is symmetric
func TestFloat32ToInt16Symmetry(t *testing.T) {
	t.Parallel()

	testVals := []float32{0.1, 0.25, 0.5, 0.75, 0.9, 0.99, 1.0}

	for _, val := range testVals {
		pos := Float32ToInt16(val)
		neg := Float32ToInt16(-val)

		// Absolute values should be equal (within rounding)
		if math.Abs(float64(pos+neg)) > 1 {
			t.Errorf("Float32ToInt16 not symmetric: +%v=%v, -%v=%v",
				val, pos, val, neg)
		}
	}
}

func TestClampInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input int
		want  int16
	}{
		{"zero", 0, 0},
		{"in range positive", 1000, 1000},
		{"in range negative", -1000, -1000},
		{"max", 32767, 32767},
		{"min", -32768, -32768},
		{"over max", 32768, 32767},
		{"under min", -32769, -32768},
		{"way over", 1 << 20, 32767},
		{"way under", -(1 << 20), -32768},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ClampInt16(tt.input); got != tt.want {
				t.Errorf("ClampInt16(%d) = %d, want %d", tt.input, got, tt.want)
			}
			if got := ClampInt32ToInt16(int32(tt.input)); got != tt.want {
				t.Errorf("ClampInt32ToInt16(%d) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

// TestFloat32ToInt16_ZeroAllocs verifies no heap allocations
func TestFloat32ToInt16_ZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	allocs := testing.AllocsPerRun(1000, func() {
		_ = Float32ToInt16(0.5)
	})

	if allocs > 0 {
		t.Errorf("Float32ToInt16 allocated %v times, want 0", allocs)
	}
}

// BenchmarkClampInt16 tests performance and allocations
func BenchmarkClampInt16(b *testing.B) {
	var result int16
	inputs := []int{-40000, -1000, 0, 1000, 40000}

	b.ResetTimer()
	b.ReportAllocs()

	for i := range b.N {
		result = ClampInt16(inputs[i%len(inputs)])
	}

	_ = result
}
