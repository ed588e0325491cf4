// Package bioflow provides a high-level API for pairwise DNA alignment.
//
// This package wraps the alignment engines behind a few calls that take
// sequences and return decoded alignments.
//
// Example usage:
//
//	seq1, err := bioflow.NewSequence("GATTACAGATTACA")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	seq2, _ := bioflow.NewSequence("GATTTACA")
//
//	alignment, err := bioflow.Align(seq1, seq2)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(alignment.Format())
package bioflow

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aria-lang/bioflow-align/internal/alignment"
	"github.com/aria-lang/bioflow-align/internal/config"
	"github.com/aria-lang/bioflow-align/internal/sequence"
	"github.com/aria-lang/bioflow-align/internal/stats"
)

// Re-export types for convenience
type (
	Sequence      = sequence.Sequence
	Symbol        = sequence.Symbol
	Alignment     = alignment.Alignment
	AlignmentType = alignment.AlignmentType
	ScoreConfig   = alignment.ScoreConfig
	BandConfig    = alignment.BandConfig
	Stats         = alignment.Stats
	Anchors       = alignment.Anchors
	Profile       = config.Profile
	DumpGlyphs    = alignment.DumpGlyphs
)

// Constants
const (
	Local  = alignment.Local
	Global = alignment.Global
)

// Aligner is an alignment engine with configurable scoring. Engines are not
// safe for concurrent use.
type Aligner interface {
	alignment.Engine
	SetScores(ScoreConfig) error
	SetMaxCells(n int64)
	DumpScores(out io.Writer, glyphs DumpGlyphs) error
}

// NewEngine returns a configured engine of the given type.
func NewEngine(alignType AlignmentType, scores ScoreConfig) (Aligner, error) {
	var e Aligner
	switch alignType {
	case Local:
		e = alignment.NewSmithWaterman()
	case Global:
		e = alignment.NewNeedlemanWunsch()
	default:
		return nil, fmt.Errorf("unknown alignment type %d", alignType)
	}

	if err := e.SetScores(scores); err != nil {
		return nil, fmt.Errorf("configuring %s aligner: %w", alignType, err)
	}
	return e, nil
}

// NewSequence creates a new DNA sequence.
func NewSequence(bases string) (*Sequence, error) {
	return sequence.New(bases)
}

// NewSequenceWithID creates a new sequence with an identifier.
func NewSequenceWithID(bases, id string) (*Sequence, error) {
	return sequence.WithID(bases, id)
}

// DefaultScores returns the engine's default scoring parameters.
func DefaultScores() ScoreConfig {
	return alignment.DefaultScores()
}

// DefaultBand returns the default band configuration.
func DefaultBand() *BandConfig {
	return alignment.DefaultBand()
}

// DefaultGlyphs returns the default score dump glyphs.
func DefaultGlyphs() DumpGlyphs {
	return alignment.DefaultGlyphs()
}

// LoadProfile reads a YAML scoring profile.
func LoadProfile(path string) (*Profile, error) {
	return config.Load(path)
}

// Align performs local alignment between two sequences.
func Align(seq1, seq2 *Sequence) (*Alignment, error) {
	return AlignWithScores(seq1, seq2, Local, DefaultScores())
}

// AlignGlobal performs global alignment between two sequences.
func AlignGlobal(seq1, seq2 *Sequence) (*Alignment, error) {
	return AlignWithScores(seq1, seq2, Global, DefaultScores())
}

// AlignBanded performs banded local alignment. A nil band uses DefaultBand.
func AlignBanded(seq1, seq2 *Sequence, band *BandConfig) (*Alignment, error) {
	if band == nil {
		band = DefaultBand()
	}
	sc := DefaultScores()
	sc.Band = band
	return AlignWithScores(seq1, seq2, Local, sc)
}

// AlignWithScores aligns seq1 (the probe) against seq2 (the target) with
// custom scoring.
func AlignWithScores(seq1, seq2 *Sequence, alignType AlignmentType, scores ScoreConfig) (*Alignment, error) {
	return AlignWithLimit(seq1, seq2, alignType, scores, 0)
}

// AlignWithLimit is AlignWithScores with a traceback cell ceiling. A
// non-positive maxCells keeps the engine default.
func AlignWithLimit(seq1, seq2 *Sequence, alignType AlignmentType, scores ScoreConfig, maxCells int64) (*Alignment, error) {
	e, err := NewEngine(alignType, scores)
	if err != nil {
		return nil, err
	}
	defer e.Close()
	if maxCells > 0 {
		e.SetMaxCells(maxCells)
	}

	if err := e.SetProbe(seq1.Symbols()); err != nil {
		return nil, err
	}
	return alignTarget(e, seq2, alignType)
}

// alignTarget aligns the engine's current probe against seq.
func alignTarget(e Aligner, seq *Sequence, alignType AlignmentType) (*Alignment, error) {
	if err := e.SetTarget(seq.Symbols()); err != nil {
		return nil, err
	}
	if _, err := e.Align(); err != nil {
		return nil, err
	}
	return alignment.Collect(e, alignType)
}

// FindAnchors runs a local alignment and reports the outermost exact runs
// of at least minLen bases.
func FindAnchors(seq1, seq2 *Sequence, scores ScoreConfig, minLen int) (*Alignment, Anchors, bool, error) {
	sw := alignment.NewSmithWaterman()
	defer sw.Close()

	if err := sw.SetScores(scores); err != nil {
		return nil, Anchors{}, false, err
	}
	if err := sw.SetProbe(seq1.Symbols()); err != nil {
		return nil, Anchors{}, false, err
	}
	a, err := alignTarget(sw, seq2, Local)
	if err != nil {
		return nil, Anchors{}, false, err
	}

	anchors, ok, err := sw.Anchors(minLen)
	if err != nil {
		return nil, Anchors{}, false, err
	}
	return a, anchors, ok, nil
}

// AlignAgainstMultiple aligns query against every target with one engine.
func AlignAgainstMultiple(query *Sequence, targets []*Sequence, alignType AlignmentType, scores ScoreConfig) ([]*Alignment, error) {
	e, err := NewEngine(alignType, scores)
	if err != nil {
		return nil, err
	}
	defer e.Close()

	if err := e.SetProbe(query.Symbols()); err != nil {
		return nil, err
	}

	results := make([]*Alignment, len(targets))
	for i, target := range targets {
		a, err := alignTarget(e, target, alignType)
		if err != nil {
			return nil, fmt.Errorf("target %d (%s): %w", i, target.Name(), err)
		}
		results[i] = a
	}
	return results, nil
}

// FindBestAlignment returns the index and alignment of the highest-scoring
// target. Ties keep the earliest target.
func FindBestAlignment(query *Sequence, targets []*Sequence, alignType AlignmentType, scores ScoreConfig) (int, *Alignment, error) {
	if len(targets) == 0 {
		return -1, nil, fmt.Errorf("target list cannot be empty")
	}

	results, err := AlignAgainstMultiple(query, targets, alignType, scores)
	if err != nil {
		return -1, nil, err
	}

	best := 0
	for i, a := range results {
		if a.Score > results[best].Score {
			best = i
		}
	}
	return best, results[best], nil
}

// SequenceSetStats calculates statistics for multiple sequences.
func SequenceSetStats(sequences []*Sequence) (*stats.SequenceSetStats, error) {
	return stats.FromSequences(sequences)
}

// AlignmentSetStats summarizes a set of alignments.
func AlignmentSetStats(alignments []*Alignment) (*stats.AlignmentSetStats, error) {
	return stats.FromAlignments(alignments)
}

// IdentityHistogram bins alignments by identity into numBins equal ranges.
func IdentityHistogram(alignments []*Alignment, numBins int) (*stats.IdentityHistogram, error) {
	return stats.NewIdentityHistogram(alignments, numBins)
}

// ReadFASTA reads sequences from a FASTA file.
func ReadFASTA(filename string) ([]*Sequence, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	return ParseFASTA(file)
}

// ParseFASTA parses FASTA format from a reader.
func ParseFASTA(r io.Reader) ([]*Sequence, error) {
	sequences := make([]*Sequence, 0)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var currentID, currentDesc string
	var currentBases strings.Builder
	lineNum := 0
	inRecord := false

	flushSequence := func() error {
		if currentBases.Len() > 0 {
			seq, err := sequence.WithMetadata(currentBases.String(), currentID, currentDesc)
			if err != nil {
				return fmt.Errorf("record %q: %w", currentID, err)
			}
			sequences = append(sequences, seq)
			currentBases.Reset()
		}
		return nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lineNum++

		if len(line) == 0 || line[0] == ';' {
			continue
		}

		if line[0] == '>' {
			if err := flushSequence(); err != nil {
				return nil, err
			}

			inRecord = true
			parts := strings.SplitN(line[1:], " ", 2)
			currentID = parts[0]
			if len(parts) > 1 {
				currentDesc = parts[1]
			} else {
				currentDesc = ""
			}
		} else {
			if !inRecord {
				return nil, fmt.Errorf("line %d: sequence data before first header", lineNum)
			}
			currentBases.WriteString(line)
		}
	}

	if err := flushSequence(); err != nil {
		return nil, err
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	return sequences, nil
}

// WriteFASTA writes sequences to a FASTA file.
func WriteFASTA(filename string, sequences []*Sequence) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	for _, seq := range sequences {
		if _, err := file.WriteString(seq.ToFASTA()); err != nil {
			return fmt.Errorf("writing sequence: %w", err)
		}
	}

	return file.Close()
}

// Version returns the bioflow-align version.
func Version() string {
	return "1.0.0"
}

// Info returns information about bioflow-align.
func Info() string {
	return fmt.Sprintf(`bioflow-align v%s - Pairwise DNA Alignment

Features:
  - Needleman-Wunsch global alignment
  - Smith-Waterman local alignment, dense or banded
  - Delayed and progressive gap extension
  - Soft-masked and ambiguous base handling
  - Exact-match anchors and CIGAR output
  - Parallel batch alignment
  - YAML scoring profiles

For more information, see: https://github.com/aria-lang/bioflow-align
`, Version())
}
