package alignment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandWindow(t *testing.T) {
	var b bandIndex
	b.reset(100, 100, BandConfig{InitialHalfWidth: 5, MaxPathLenDiff: 0.1})

	tests := []struct {
		p          int
		start, end int
	}{
		{0, 0, 5},
		{50, 45, 55},
		{99, 89, 99},
	}

	for _, tt := range tests {
		start, end := b.window(tt.p)
		assert.Equal(t, tt.start, start, "column %d", tt.p)
		assert.Equal(t, tt.end, end, "column %d", tt.p)
	}

	t.Run("short target is clamped", func(t *testing.T) {
		var b bandIndex
		b.reset(100, 10, BandConfig{InitialHalfWidth: 5, MaxPathLenDiff: 1.0})
		start, end := b.window(99)
		assert.Equal(t, 0, start)
		assert.Equal(t, 9, end)
	})
}

func TestBandAlloc(t *testing.T) {
	var b bandIndex
	b.reset(3, 10, BandConfig{InitialHalfWidth: 5, MaxPathLenDiff: 0.1})

	off, err := b.alloc(0, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, off)
	off, err = b.alloc(0, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, off)

	t.Run("hole in column", func(t *testing.T) {
		_, err := b.alloc(0, 5)
		assert.ErrorIs(t, err, errCellUnavailable)
	})

	t.Run("skipped column", func(t *testing.T) {
		_, err := b.alloc(2, 0)
		assert.ErrorIs(t, err, errCellUnavailable)
	})

	off, err = b.alloc(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, off)

	t.Run("previous column is closed", func(t *testing.T) {
		_, err := b.alloc(0, 4)
		assert.ErrorIs(t, err, errCellUnavailable)
	})

	t.Run("locate", func(t *testing.T) {
		got, ok := b.locate(0, 3)
		assert.True(t, ok)
		assert.Equal(t, 1, got)

		_, ok = b.locate(0, 1)
		assert.False(t, ok, "before band start")
		_, ok = b.locate(0, 4)
		assert.False(t, ok, "after band end")
		_, ok = b.locate(2, 0)
		assert.False(t, ok, "column not started")
		_, ok = b.locate(-1, 0)
		assert.False(t, ok)
	})
}

func TestNeedsRealloc(t *testing.T) {
	tests := []struct {
		have, need int
		want       bool
	}{
		{0, 10, true},
		{110, 10, false},
		{150, 10, false},
		{151, 10, true},
		{1000, 1000, false},
		{5100, 1000, false},
		{5101, 1000, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, needsRealloc(tt.have, tt.need), "have %d need %d", tt.have, tt.need)
	}
}

func TestStoreReuse(t *testing.T) {
	e := NewNeedlemanWunsch()
	long := strings.Repeat("ACGT", 25)

	require.NoError(t, e.SetProbe(enc(t, long)))
	require.NoError(t, e.SetTarget(enc(t, long)))
	_, err := e.Align()
	require.NoError(t, err)
	require.Len(t, e.mat.store.cells, 100*100+cellSlack)
	first := &e.mat.store.cells[0]

	half := long[:50]
	require.NoError(t, e.SetProbe(enc(t, half)))
	require.NoError(t, e.SetTarget(enc(t, half)))
	_, err = e.Align()
	require.NoError(t, err)
	assert.Same(t, first, &e.mat.store.cells[0], "store reused for a smaller matrix")

	short := long[:10]
	require.NoError(t, e.SetProbe(enc(t, short)))
	require.NoError(t, e.SetTarget(enc(t, short)))
	score, err := e.Align()
	require.NoError(t, err)
	assert.Equal(t, 10, score)
	assert.Len(t, e.mat.store.cells, 10*10+cellSlack, "oversized store replaced")
}

func TestMappedStore(t *testing.T) {
	saved := mapThreshold
	mapThreshold = 0
	defer func() { mapThreshold = saved }()

	e := NewSmithWaterman()
	seq := strings.Repeat("GATTACA", 10)
	require.NoError(t, e.SetProbe(enc(t, seq)))
	require.NoError(t, e.SetTarget(enc(t, seq)))

	score, err := e.Align()
	require.NoError(t, err)
	assert.Equal(t, len(seq), score)
	assert.NotNil(t, e.mat.store.mapped)

	require.NoError(t, e.Close())
	assert.Nil(t, e.mat.store.mapped)
	assert.Nil(t, e.mat.store.cells)

	_, err = e.AlignStats()
	assert.ErrorIs(t, err, ErrNotAligned)

	score, err = e.Align()
	require.NoError(t, err)
	assert.Equal(t, len(seq), score)
	require.NoError(t, e.Close())
}

func TestBandedMatchesDense(t *testing.T) {
	pairs := []struct{ probe, target string }{
		{"ACGTACGTACGT", "ACGTACGTACGT"},
		{"GATCCAGTACTTTGGCATCAGAC", "GATCCAGTACGGCATCAGAC"},
		{"TTTTACGTACGTTTTT", "GGACGTACGTGG"},
		{"ACGGT", "TACGT"},
	}
	sc := ScoreConfig{MatchScore: 2, MismatchPenalty: -1, GapOpenPenalty: -3, GapExtnPenalty: -1, DelayedGapExtension: 2, ProgressivePenaltyThreshold: 4}

	for _, tt := range pairs {
		t.Run(tt.probe, func(t *testing.T) {
			dense := newEngine(t, Local, sc, tt.probe, tt.target)
			want, err := dense.Align()
			require.NoError(t, err)
			wantStats, err := dense.AlignStats()
			require.NoError(t, err)

			wide := sc
			wide.Band = &BandConfig{InitialHalfWidth: 50, MaxPathLenDiff: 0.1}
			banded := newEngine(t, Local, wide, tt.probe, tt.target)
			got, err := banded.Align()
			require.NoError(t, err)
			gotStats, err := banded.AlignStats()
			require.NoError(t, err)

			assert.Equal(t, want, got)
			assert.Equal(t, wantStats, gotStats)
		})
	}
}

func TestBandedArenaGrowth(t *testing.T) {
	seq := strings.Repeat("GATTACACGT", 20)
	sc := DefaultScores()
	sc.Band = &BandConfig{InitialHalfWidth: 5, MaxPathLenDiff: 1.0}

	e := NewSmithWaterman()
	require.NoError(t, e.SetScores(sc))
	require.NoError(t, e.SetProbe(enc(t, seq)))
	require.NoError(t, e.SetTarget(enc(t, seq)))

	estimate := bandEstimate(200, 200, *sc.Band)
	assert.Equal(t, int64(4000), estimate)

	score, err := e.Align()
	require.NoError(t, err)
	assert.Equal(t, 200, score)
	assert.Greater(t, e.mat.bands.used, int(estimate))

	st, err := e.AlignStats()
	require.NoError(t, err)
	assert.Equal(t, 200, st.NumExactMatches)

	t.Run("growth past ceiling", func(t *testing.T) {
		e.SetMaxCells(5000)
		_, err := e.Align()
		require.ErrorIs(t, err, ErrOutOfMemory)

		_, err = e.AlignStats()
		assert.ErrorIs(t, err, ErrNotAligned)
	})
}

func TestBandedNarrow(t *testing.T) {
	probe := strings.Repeat("ACGTTGCA", 8)
	sc := DefaultScores()
	sc.Band = &BandConfig{InitialHalfWidth: 5, MaxPathLenDiff: 0.05}

	e := newEngine(t, Local, sc, probe, probe)
	score, err := e.Align()
	require.NoError(t, err)
	assert.Equal(t, len(probe), score)

	// Cells far off the diagonal are never materialized.
	_, ok := e.(*SmithWaterman).mat.at(60, 2)
	assert.False(t, ok)
	_, ok = e.(*SmithWaterman).mat.at(30, 30)
	assert.True(t, ok)
}
