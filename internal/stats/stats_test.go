package stats

import (
	"strings"
	"testing"

	"github.com/aria-lang/bioflow-align/internal/alignment"
	"github.com/aria-lang/bioflow-align/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAlignments(t *testing.T) {
	alignments := []*alignment.Alignment{
		{AlignedSeq1: "ACGT", AlignedSeq2: "A-GT", Score: 1, Identity: 0.75, AlignmentType: alignment.Global,
			Stats: alignment.Stats{NumAlignedBases: 3, NumExactMatches: 3, NumProbeInserts: 1}},
		{AlignedSeq1: "ACGT", AlignedSeq2: "ACAT", Score: 5, Identity: 0.75, AlignmentType: alignment.Global,
			Stats: alignment.Stats{NumAlignedBases: 4, NumExactMatches: 3}},
		nil,
		{AlignmentType: alignment.Local},
	}

	s, err := FromAlignments(alignments)
	require.NoError(t, err)

	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 8, s.TotalColumns)
	assert.Equal(t, 0, s.MinScore)
	assert.Equal(t, 5, s.MaxScore)
	assert.InDelta(t, 2.0, s.MeanScore, 0.0001)
	assert.InDelta(t, 1.0, s.MedianScore, 0.0001)
	assert.InDelta(t, 0.5, s.MeanIdentity, 0.0001)
	assert.Equal(t, 6, s.ExactMatches)
	assert.Equal(t, 1, s.Mismatches)
	assert.Equal(t, 1, s.TotalGaps)
	assert.Equal(t, 1, s.GapOpenings)
	assert.Equal(t, 1, s.NoHits)
	assert.Contains(t, s.String(), "score range: 0 - 5")
}

func TestFromAlignmentsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		input []*alignment.Alignment
	}{
		{"nil slice", nil},
		{"only nil entries", []*alignment.Alignment{nil, nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromAlignments(tt.input)
			assert.ErrorIs(t, err, ErrEmpty)
		})
	}
}

func TestFromSequences(t *testing.T) {
	s1, err := sequence.New("ATGC")
	require.NoError(t, err)
	s2, err := sequence.New("ATGCatgc")
	require.NoError(t, err)
	s3, err := sequence.New("GGNC")
	require.NoError(t, err)

	s, err := FromSequences([]*sequence.Sequence{s1, s2, s3})
	require.NoError(t, err)

	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 16, s.TotalBases)
	assert.Equal(t, 4, s.MinLength)
	assert.Equal(t, 8, s.MaxLength)
	assert.InDelta(t, 16.0/3.0, s.MeanLength, 0.0001)
	assert.Equal(t, 4, s.MedianLength)
	assert.Equal(t, 1, s.TotalAmbiguous)
	assert.Equal(t, 4, s.TotalMasked)
}

func TestFromSequencesEmpty(t *testing.T) {
	_, err := FromSequences(nil)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestN50Calculation(t *testing.T) {
	// Total = 300, half = 150; 100 + 80 >= 150.
	var sequences []*sequence.Sequence
	for _, n := range []int{20, 100, 40, 80, 60} {
		seq, err := sequence.New(generateSeq(n))
		require.NoError(t, err)
		sequences = append(sequences, seq)
	}

	s, err := FromSequences(sequences)
	require.NoError(t, err)
	assert.Equal(t, 80, s.N50)
	assert.Equal(t, 60, s.MedianLength)
}

func generateSeq(length int) string {
	return strings.Repeat("ATGC", length/4+1)[:length]
}

func TestIdentityHistogram(t *testing.T) {
	alignments := []*alignment.Alignment{
		{Identity: 0.05},
		{Identity: 0.95},
		{Identity: 0.92},
		{Identity: 1.0},
		{Identity: 0.55},
	}

	h, err := NewIdentityHistogram(alignments, 10)
	require.NoError(t, err)

	assert.Equal(t, 1, h.Bins[0])
	assert.Equal(t, 1, h.Bins[5])
	assert.Equal(t, 3, h.Bins[9], "identity 1.0 lands in the last bin")

	start, end := h.ModeBin()
	assert.InDelta(t, 0.9, start, 0.0001)
	assert.InDelta(t, 1.0, end, 0.0001)
	assert.Contains(t, h.String(), "90-100%: ### (3)")

	t.Run("invalid bins", func(t *testing.T) {
		_, err := NewIdentityHistogram(alignments, 0)
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := NewIdentityHistogram(nil, 10)
		assert.ErrorIs(t, err, ErrEmpty)
	})
}
