package alignment

import (
	"fmt"
	"strings"

	"github.com/aria-lang/bioflow-align/internal/sequence"
	"github.com/biogo/hts/sam"
)

// Alignment is the decoded result of an engine run. Seq1 is the probe and
// Seq2 the target; Start/End are 0-based half-open ranges into each.
type Alignment struct {
	AlignedSeq1   string
	AlignedSeq2   string
	Score         int
	Start1        int
	End1          int
	Start2        int
	End2          int
	Len1          int
	Len2          int
	AlignmentType AlignmentType
	Identity      float64
	Stats         Stats
}

// Collect reads the traceback of an aligned engine into an Alignment.
func Collect(e Engine, alignType AlignmentType) (*Alignment, error) {
	st, err := e.AlignStats()
	if err != nil {
		return nil, err
	}

	probe := make([]sequence.Symbol, st.Span())
	target := make([]sequence.Symbol, st.Span())
	if _, err := e.ProbeAlign(probe); err != nil {
		return nil, fmt.Errorf("reconstructing probe: %w", err)
	}
	if _, err := e.TargetAlign(target); err != nil {
		return nil, fmt.Errorf("reconstructing target: %w", err)
	}

	score := st.TerminalScore
	if alignType == Local {
		score = st.PeakScore
	}

	a := &Alignment{
		AlignedSeq1:   sequence.Decode(probe),
		AlignedSeq2:   sequence.Decode(target),
		Score:         score,
		Start1:        st.ProbeStartOffset,
		End1:          st.ProbeStartOffset + st.NumAlignedBases + st.NumProbeInserts,
		Start2:        st.TargetStartOffset,
		End2:          st.TargetStartOffset + st.NumAlignedBases + st.NumTargetInserts,
		Len1:          e.ProbeLen(),
		Len2:          e.TargetLen(),
		AlignmentType: alignType,
		Stats:         st,
	}
	if span := st.Span(); span > 0 {
		a.Identity = float64(st.NumExactMatches) / float64(span)
	}
	return a, nil
}

// Length returns the number of alignment columns.
func (a *Alignment) Length() int {
	return len(a.AlignedSeq1)
}

// MatchCount returns the number of exact matches.
func (a *Alignment) MatchCount() int {
	return a.Stats.NumExactMatches
}

// MismatchCount returns the number of aligned pairs that differ.
func (a *Alignment) MismatchCount() int {
	return a.Stats.NumAlignedBases - a.Stats.NumExactMatches
}

// GapsSeq1 returns the number of gaps in the probe.
func (a *Alignment) GapsSeq1() int {
	return a.Stats.NumTargetInserts
}

// GapsSeq2 returns the number of gaps in the target.
func (a *Alignment) GapsSeq2() int {
	return a.Stats.NumProbeInserts
}

// TotalGaps returns the total number of gaps.
func (a *Alignment) TotalGaps() int {
	return a.GapsSeq1() + a.GapsSeq2()
}

// GapOpenings counts the number of gap openings.
func (a *Alignment) GapOpenings() int {
	openings := 0
	inGap1, inGap2 := false, false

	for i := 0; i < len(a.AlignedSeq1); i++ {
		gap1, gap2 := a.AlignedSeq1[i] == '-', a.AlignedSeq2[i] == '-'
		if gap1 && !inGap1 {
			openings++
		}
		if gap2 && !inGap2 {
			openings++
		}
		inGap1, inGap2 = gap1, gap2
	}

	return openings
}

// columnMatches reports whether column i pairs two identical determinate
// bases, ignoring case.
func (a *Alignment) columnMatches(i int) bool {
	p, t := upper(a.AlignedSeq1[i]), upper(a.AlignedSeq2[i])
	return p == t && p != 'N' && p != '-' && p != '?'
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// Cigar returns the alignment as SAM CIGAR operations with the probe as the
// query. Local alignments soft-clip the unaligned probe flanks.
func (a *Alignment) Cigar() sam.Cigar {
	var cigar sam.Cigar
	add := func(op sam.CigarOpType, n int) {
		if n <= 0 {
			return
		}
		if last := len(cigar) - 1; last >= 0 && cigar[last].Type() == op {
			cigar[last] = sam.NewCigarOp(op, cigar[last].Len()+n)
			return
		}
		cigar = append(cigar, sam.NewCigarOp(op, n))
	}

	if a.AlignmentType == Local {
		add(sam.CigarSoftClipped, a.Start1)
	}
	for i := 0; i < len(a.AlignedSeq1); i++ {
		switch {
		case a.AlignedSeq2[i] == '-':
			add(sam.CigarInsertion, 1)
		case a.AlignedSeq1[i] == '-':
			add(sam.CigarDeletion, 1)
		case a.columnMatches(i):
			add(sam.CigarEqual, 1)
		default:
			add(sam.CigarMismatch, 1)
		}
	}
	if a.AlignmentType == Local {
		add(sam.CigarSoftClipped, a.Len1-a.End1)
	}

	return cigar
}

// ToCIGAR generates a CIGAR string representation.
func (a *Alignment) ToCIGAR() string {
	if len(a.AlignedSeq1) == 0 {
		return ""
	}
	return a.Cigar().String()
}

// Format returns a formatted string representation of the alignment.
func (a *Alignment) Format() string {
	var matchLine strings.Builder
	for i := 0; i < len(a.AlignedSeq1); i++ {
		if a.columnMatches(i) {
			matchLine.WriteByte('|')
		} else if a.AlignedSeq1[i] == '-' || a.AlignedSeq2[i] == '-' {
			matchLine.WriteByte(' ')
		} else {
			matchLine.WriteByte('.')
		}
	}

	return fmt.Sprintf("Seq1: %s\n      %s\nSeq2: %s\nScore: %d\nIdentity: %.1f%%\nRange1: %d-%d\nRange2: %d-%d\nCIGAR: %s",
		a.AlignedSeq1, matchLine.String(), a.AlignedSeq2,
		a.Score, a.Identity*100, a.Start1, a.End1, a.Start2, a.End2, a.ToCIGAR())
}

func (a *Alignment) String() string {
	return fmt.Sprintf("Alignment { type: %s, score: %d, identity: %.1f%%, length: %d }",
		a.AlignmentType, a.Score, a.Identity*100, a.Length())
}
