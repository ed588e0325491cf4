// Package stats summarizes sets of alignments and the sequences fed to them.
package stats

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aria-lang/bioflow-align/internal/alignment"
	"github.com/aria-lang/bioflow-align/internal/sequence"
)

// ErrEmpty is returned when a summary is requested over no items.
var ErrEmpty = errors.New("stats: empty input")

// AlignmentSetStats aggregates the results of a batch of alignments.
type AlignmentSetStats struct {
	Count        int
	TotalColumns int
	MinScore     int
	MaxScore     int
	MeanScore    float64
	MedianScore  float64
	MeanIdentity float64
	ExactMatches int
	Mismatches   int
	TotalGaps    int
	GapOpenings  int
	// NoHits counts local alignments that found nothing scoring above zero.
	NoHits int
}

// FromAlignments summarizes alignments. Nil entries are skipped.
func FromAlignments(alignments []*alignment.Alignment) (*AlignmentSetStats, error) {
	scores := make([]int, 0, len(alignments))
	s := &AlignmentSetStats{}
	identitySum := 0.0

	for _, a := range alignments {
		if a == nil {
			continue
		}
		scores = append(scores, a.Score)
		s.TotalColumns += a.Length()
		s.ExactMatches += a.MatchCount()
		s.Mismatches += a.MismatchCount()
		s.TotalGaps += a.TotalGaps()
		s.GapOpenings += a.GapOpenings()
		identitySum += a.Identity
		if a.AlignmentType == alignment.Local && a.Length() == 0 {
			s.NoHits++
		}
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("summarizing alignments: %w", ErrEmpty)
	}

	sort.Ints(scores)
	s.Count = len(scores)
	s.MinScore = scores[0]
	s.MaxScore = scores[len(scores)-1]

	total := 0
	for _, sc := range scores {
		total += sc
	}
	s.MeanScore = float64(total) / float64(s.Count)

	mid := s.Count / 2
	if s.Count%2 == 0 {
		s.MedianScore = float64(scores[mid-1]+scores[mid]) / 2
	} else {
		s.MedianScore = float64(scores[mid])
	}
	s.MeanIdentity = identitySum / float64(s.Count)

	return s, nil
}

func (s *AlignmentSetStats) String() string {
	return fmt.Sprintf(`AlignmentSetStats {
  count: %d
  columns: %d
  score range: %d - %d
  mean score: %.1f
  median score: %.1f
  mean identity: %.1f%%
  matches: %d, mismatches: %d
  gaps: %d (%d openings)
}`, s.Count, s.TotalColumns, s.MinScore, s.MaxScore,
		s.MeanScore, s.MedianScore, s.MeanIdentity*100,
		s.ExactMatches, s.Mismatches, s.TotalGaps, s.GapOpenings)
}

// SequenceSetStats describes the sequences of a batch input.
type SequenceSetStats struct {
	Count          int
	TotalBases     int
	MinLength      int
	MaxLength      int
	MeanLength     float64
	MedianLength   int
	N50            int
	TotalAmbiguous int
	TotalMasked    int
}

// FromSequences calculates statistics for a collection of sequences.
func FromSequences(sequences []*sequence.Sequence) (*SequenceSetStats, error) {
	if len(sequences) == 0 {
		return nil, fmt.Errorf("summarizing sequences: %w", ErrEmpty)
	}

	count := len(sequences)
	lengths := make([]int, count)
	s := &SequenceSetStats{Count: count}

	for i, seq := range sequences {
		lengths[i] = seq.Len()
		s.TotalBases += seq.Len()
		s.TotalAmbiguous += seq.CountAmbiguous()
		s.TotalMasked += seq.CountMasked()
	}

	sort.Sort(sort.Reverse(sort.IntSlice(lengths)))
	s.MaxLength = lengths[0]
	s.MinLength = lengths[count-1]
	s.MeanLength = float64(s.TotalBases) / float64(count)

	mid := count / 2
	if count%2 == 0 {
		s.MedianLength = (lengths[mid-1] + lengths[mid]) / 2
	} else {
		s.MedianLength = lengths[mid]
	}

	// N50: the length at which half the bases sit in sequences at least
	// that long.
	halfTotal := s.TotalBases / 2
	runningSum := 0
	s.N50 = lengths[0]
	for _, length := range lengths {
		runningSum += length
		if runningSum >= halfTotal {
			s.N50 = length
			break
		}
	}

	return s, nil
}

func (s *SequenceSetStats) String() string {
	return fmt.Sprintf(`SequenceSetStats {
  count: %d
  total_bases: %d
  length range: %d - %d
  mean length: %.1f
  median length: %d
  N50: %d
  ambiguous bases: %d
  masked bases: %d
}`, s.Count, s.TotalBases, s.MinLength, s.MaxLength,
		s.MeanLength, s.MedianLength, s.N50, s.TotalAmbiguous, s.TotalMasked)
}

// IdentityHistogram bins alignments by identity.
type IdentityHistogram struct {
	Bins    []int
	BinSize float64
	NumBins int
}

// NewIdentityHistogram creates an identity histogram with numBins equal
// bins over [0, 1].
func NewIdentityHistogram(alignments []*alignment.Alignment, numBins int) (*IdentityHistogram, error) {
	if len(alignments) == 0 {
		return nil, fmt.Errorf("identity histogram: %w", ErrEmpty)
	}
	if numBins <= 0 {
		return nil, fmt.Errorf("numBins must be positive, got %d", numBins)
	}

	binSize := 1.0 / float64(numBins)
	bins := make([]int, numBins)

	for _, a := range alignments {
		if a == nil {
			continue
		}
		i := int(a.Identity / binSize)
		if i >= numBins {
			i = numBins - 1
		}
		bins[i]++
	}

	return &IdentityHistogram{Bins: bins, BinSize: binSize, NumBins: numBins}, nil
}

// ModeBin returns the most populated identity range.
func (h *IdentityHistogram) ModeBin() (float64, float64) {
	maxBin := 0
	for i, count := range h.Bins {
		if count > h.Bins[maxBin] {
			maxBin = i
		}
	}

	start := float64(maxBin) * h.BinSize
	return start, start + h.BinSize
}

func (h *IdentityHistogram) String() string {
	var b strings.Builder
	b.WriteString("Identity Histogram:\n")
	for i := 0; i < h.NumBins; i++ {
		start := int(float64(i) * h.BinSize * 100)
		end := start + int(h.BinSize*100)
		fmt.Fprintf(&b, "%3d-%3d%%: %s (%d)\n", start, end, strings.Repeat("#", h.Bins[i]), h.Bins[i])
	}
	return b.String()
}
