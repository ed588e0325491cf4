package bioflow

import (
	"context"
	"strings"
	"testing"

	"github.com/aria-lang/bioflow-align/internal/alignment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchPairs(t testing.TB, n int) []Pair {
	pairs := make([]Pair, n)
	for i := range pairs {
		// Pair i shares i+1 leading bases.
		probe := strings.Repeat("A", i+1) + "CCCC"
		pairs[i] = Pair{Probe: mustSeq(t, probe), Target: mustSeq(t, strings.Repeat("A", i+1)+"GGGG")}
	}
	return pairs
}

func TestAlignBatch(t *testing.T) {
	pairs := batchPairs(t, 25)

	for _, workers := range []int{0, 1, 4, 100} {
		results, err := AlignBatch(context.Background(), pairs, BatchOptions{Type: Local, Workers: workers})
		require.NoError(t, err)
		require.Len(t, results, len(pairs))

		for i, a := range results {
			assert.Equal(t, i+1, a.Score, "workers %d pair %d", workers, i)
		}
	}
}

func TestAlignBatchGlobal(t *testing.T) {
	sc := ScoreConfig{MatchScore: 2, MismatchPenalty: -1, GapOpenPenalty: -3, GapExtnPenalty: -1, DelayedGapExtension: 1}
	pairs := []Pair{
		{Probe: mustSeq(t, "ACGT"), Target: mustSeq(t, "ACAT")},
		{Probe: mustSeq(t, "ACGT"), Target: mustSeq(t, "ACGT")},
	}

	results, err := AlignBatch(context.Background(), pairs, BatchOptions{Type: Global, Scores: &sc, Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, results[0].Score)
	assert.Equal(t, 8, results[1].Score)
}

func TestAlignBatchErrors(t *testing.T) {
	t.Run("empty batch", func(t *testing.T) {
		results, err := AlignBatch(context.Background(), nil, BatchOptions{})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("invalid scores", func(t *testing.T) {
		sc := DefaultScores()
		sc.MatchScore = 0
		_, err := AlignBatch(context.Background(), batchPairs(t, 2), BatchOptions{Scores: &sc})
		assert.ErrorIs(t, err, alignment.ErrInvalidParameter)
	})

	t.Run("cell ceiling", func(t *testing.T) {
		_, err := AlignBatch(context.Background(), batchPairs(t, 8), BatchOptions{Workers: 2, MaxCells: 30})
		assert.ErrorIs(t, err, alignment.ErrOutOfMemory)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := AlignBatch(ctx, batchPairs(t, 8), BatchOptions{Workers: 2})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func BenchmarkAlignBatch(b *testing.B) {
	pairs := batchPairs(b, 64)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = AlignBatch(context.Background(), pairs, BatchOptions{Workers: 4})
	}
}
