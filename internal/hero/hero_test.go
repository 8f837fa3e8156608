package hero

import (
	"math"
	"math/rand"
	"testing"

	"github.com/killallgit/herotrend/internal/loudness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		data loudness.Series
		want Series
	}{
		{name: "empty", data: loudness.Series{}, want: Series{}},
		{name: "nil", data: nil, want: Series{}},
		{name: "single value", data: loudness.Series{42}, want: Series{0}},
		{name: "mixed moves", data: loudness.Series{1, 2, 2, 5, 4, 4, 4}, want: Series{0, 1, 1, 2, 1, 1, 1}},
		{name: "saturates upward", data: loudness.Series{1, 2, 3, 4, 5, 6}, want: Series{0, 1, 2, 3, 3, 3}},
		{name: "saturates downward", data: loudness.Series{6, 5, 4, 3, 2, 1}, want: Series{0, -1, -2, -3, -3, -3}},
		{name: "recovers from floor", data: loudness.Series{9, 8, 7, 6, 5, 6, 7}, want: Series{0, -1, -2, -3, -3, -2, -1}},
		{name: "flat", data: loudness.Series{3, 3, 3}, want: Series{0, 0, 0}},
		{name: "fractional medians", data: loudness.Series{0.5, 0.25, 0.25, 1.5}, want: Series{0, -1, -1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.data)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, len(tt.data))
		})
	}
}

func TestGenerateBoundsOnRandomInput(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 50; run++ {
		data := make(loudness.Series, 1+rng.Intn(200))
		for i := range data {
			// Small value range so ties are common
			data[i] = float64(rng.Intn(5))
		}

		series := Generate(data)
		require.Len(t, series, len(data))
		assert.Equal(t, 0, series[0])

		for i, v := range series {
			assert.GreaterOrEqual(t, v, -Limit, "index %d", i)
			assert.LessOrEqual(t, v, Limit, "index %d", i)
			if i > 0 {
				assert.LessOrEqual(t, int(math.Abs(float64(v-series[i-1]))), 1, "index %d moves by more than one", i)
			}
		}
	}
}

func TestGenerateMonotonicRun(t *testing.T) {
	// A strictly rising run of length k starting at j with value v ends at min(v+k-1, Limit)
	prefixes := []loudness.Series{
		{5},          // v = 0
		{1, 2},       // v = 1
		{3, 2, 1, 0}, // v = -3
		{1, 2, 3, 4}, // v = 3
	}

	for _, prefix := range prefixes {
		for k := 1; k <= 6; k++ {
			data := append(loudness.Series{}, prefix...)
			j := len(data) - 1
			for step := 1; step < k; step++ {
				data = append(data, data[len(data)-1]+1)
			}

			series := Generate(data)
			v := series[j]
			assert.Equal(t, min(v+k-1, Limit), series[j+k-1], "prefix %v, k %d", prefix, k)
		}
	}
}
