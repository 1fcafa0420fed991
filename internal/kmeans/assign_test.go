package kmeans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRandom(t *testing.T) {
	samples := []Sample{{1, 1, 1}, {2, 2, 2}, {3, 3, 3}}

	got, err := InitRandom(samples, 4, &scriptedRand{ints: []int{2, 0, 2, 1}})
	require.NoError(t, err)
	assert.Equal(t, []Centroid{{3, 3, 3}, {1, 1, 1}, {3, 3, 3}, {2, 2, 2}}, got)

	_, err = InitRandom(nil, 2, &scriptedRand{})
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestInitPlusPlus(t *testing.T) {
	samples := []Sample{{0, 0, 0}, {0, 0, 0}, {100, 0, 0}, {0, 100, 0}}

	// First seed is sample 0. Remaining weight sits on samples 2 and 3
	// (10000 each); a draw of 0.75 lands in the second half.
	got, err := InitPlusPlus(samples, 2, &scriptedRand{ints: []int{0}, floats: []float64{0.75}})
	require.NoError(t, err)
	assert.Equal(t, []Centroid{{0, 0, 0}, {0, 100, 0}}, got)

	_, err = InitPlusPlus(nil, 2, &scriptedRand{})
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestInitPlusPlus_NoDistinctColoursLeft(t *testing.T) {
	samples := []Sample{{5, 5, 5}, {5, 5, 5}}

	got, err := InitPlusPlus(samples, 3, &scriptedRand{ints: []int{0, 1, 0}})
	require.NoError(t, err)
	assert.Equal(t, []Centroid{{5, 5, 5}, {5, 5, 5}, {5, 5, 5}}, got)
}

func TestParseInit(t *testing.T) {
	tests := []struct {
		in      string
		want    Init
		wantErr bool
	}{
		{in: "naive", want: InitNaive},
		{in: "random", want: InitNaive},
		{in: "", want: InitNaive},
		{in: "kmeans++", want: InitKMeansPlusPlus},
		{in: "KMeansPP", want: InitKMeansPlusPlus},
		{in: "median", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInit(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNearest_TieGoesToLowestIndex(t *testing.T) {
	centroids := []Centroid{{10, 0, 0}, {0, 10, 0}, {0, 0, 10}}

	assert.Equal(t, 0, Nearest(Sample{0, 0, 0}, centroids))
	assert.Equal(t, 1, Nearest(Sample{0, 9, 0}, centroids))

	// Both are exactly 5 away.
	tied := []Centroid{{3, 4, 0}, {0, 4, 3}}
	assert.Equal(t, 0, Nearest(Sample{0, 0, 0}, tied))
}

func TestAssign(t *testing.T) {
	samples := []Sample{{0, 0, 0}, {250, 250, 250}, {5, 5, 5}}
	centroids := []Centroid{{0, 0, 0}, {255, 255, 255}}

	got, changed := Assign(samples, centroids, nil)
	assert.True(t, changed)
	assert.Equal(t, []int{0, 1, 0}, got)

	again, changed := Assign(samples, centroids, got)
	assert.False(t, changed)
	assert.Equal(t, got, again)

	_, changed = Assign(samples, centroids, []int{0, 0, 0})
	assert.True(t, changed)
}

func TestAssignInto_ParallelChunks(t *testing.T) {
	samples := randomSamples(9, minParallelSamples+17)
	centroids := []Centroid{{0, 0, 0}, {128, 128, 128}, {255, 0, 0}, {0, 0, 255}}

	prev := make([]int, len(samples))
	for i := range prev {
		prev[i] = Unassigned
	}

	serial := make([]int, len(samples))
	parallel := make([]int, len(samples))
	assert.Equal(t, len(samples), assignInto(serial, samples, centroids, prev, 1))
	assert.Equal(t, len(samples), assignInto(parallel, samples, centroids, prev, 5))
	assert.Equal(t, serial, parallel)
}
