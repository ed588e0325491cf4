// Package alignment implements pairwise DNA alignment engines: dense
// Needleman-Wunsch global alignment and dense or banded Smith-Waterman local
// alignment, with traceback reconstruction, anchors and a diagnostic dump.
//
// An engine owns its probe, target and traceback buffers and reuses them
// across calls; it is not safe for concurrent use. Run one engine per worker.
package alignment

import (
	"fmt"

	"github.com/aria-lang/bioflow-align/internal/sequence"
)

// AlignmentType represents the type of alignment.
type AlignmentType int

const (
	// Local alignment (Smith-Waterman)
	Local AlignmentType = iota
	// Global alignment (Needleman-Wunsch)
	Global
)

func (t AlignmentType) String() string {
	switch t {
	case Local:
		return "Local"
	case Global:
		return "Global"
	default:
		return "Unknown"
	}
}

const (
	// MaxGapRun bounds DelayedGapExtension and ProgressivePenaltyThreshold.
	MaxGapRun = maxRun
	// MinBandHalfWidth is the smallest accepted BandConfig.InitialHalfWidth.
	MinBandHalfWidth = 5
	MinPathLenDiff   = 0.05
	MaxPathLenDiff   = 1.0
)

// BandConfig restricts a local alignment to a corridor around the main
// diagonal.
type BandConfig struct {
	// InitialHalfWidth is the minimum number of target positions either side
	// of the diagonal that every probe column keeps.
	InitialHalfWidth int `json:"initial_half_width" yaml:"initial_half_width"`
	// MaxPathLenDiff widens the corridor in proportion to the distance along
	// the probe.
	MaxPathLenDiff float64 `json:"max_path_len_diff" yaml:"max_path_len_diff"`
}

// ScoreConfig holds alignment scoring parameters.
type ScoreConfig struct {
	MatchScore      int `json:"match" yaml:"match"`
	MismatchPenalty int `json:"mismatch" yaml:"mismatch"`
	GapOpenPenalty  int `json:"gap_open" yaml:"gap_open"`
	GapExtnPenalty  int `json:"gap_extn" yaml:"gap_extn"`

	// DelayedGapExtension is the gap length at which GapExtnPenalty starts to
	// apply. Local alignment only.
	DelayedGapExtension int `json:"delayed_gap_extension" yaml:"delayed_gap_extension"`
	// ProgressivePenaltyThreshold is the gap length at which GapExtnPenalty
	// doubles; 0 disables. Local alignment only.
	ProgressivePenaltyThreshold int `json:"progressive_threshold" yaml:"progressive_threshold"`

	// Band selects the banded local fill when non-nil.
	Band *BandConfig `json:"band,omitempty" yaml:"band,omitempty"`
}

// DefaultScores returns the engine defaults.
func DefaultScores() ScoreConfig {
	return ScoreConfig{
		MatchScore:          1,
		MismatchPenalty:     -1,
		GapOpenPenalty:      -3,
		GapExtnPenalty:      -1,
		DelayedGapExtension: 2,
	}
}

// DefaultDNA returns a typical scoring scheme for DNA alignment.
func DefaultDNA() ScoreConfig {
	return ScoreConfig{
		MatchScore:          2,
		MismatchPenalty:     -1,
		GapOpenPenalty:      -2,
		GapExtnPenalty:      -1,
		DelayedGapExtension: 1,
	}
}

// BLASTLike returns BLAST-like scoring parameters.
func BLASTLike() ScoreConfig {
	return ScoreConfig{
		MatchScore:          1,
		MismatchPenalty:     -3,
		GapOpenPenalty:      -5,
		GapExtnPenalty:      -2,
		DelayedGapExtension: 1,
	}
}

// DefaultBand returns a corridor suited to closely related sequences.
func DefaultBand() *BandConfig {
	return &BandConfig{InitialHalfWidth: 20, MaxPathLenDiff: 0.1}
}

// Banded reports whether the config selects the banded local fill.
func (s ScoreConfig) Banded() bool {
	return s.Band != nil
}

// Validate checks every parameter, including the local-only gap thresholds
// and the band.
func (s ScoreConfig) Validate() error {
	if err := s.validateSubstitution(); err != nil {
		return err
	}

	if s.DelayedGapExtension < 1 || s.DelayedGapExtension > MaxGapRun {
		return &ParameterError{Name: "delayed_gap_extension", Value: s.DelayedGapExtension,
			Reason: fmt.Sprintf("must be in [1, %d]", MaxGapRun)}
	}
	if p := s.ProgressivePenaltyThreshold; p != 0 && (p < s.DelayedGapExtension || p > MaxGapRun) {
		return &ParameterError{Name: "progressive_threshold", Value: p,
			Reason: fmt.Sprintf("must be 0 or in [%d, %d]", s.DelayedGapExtension, MaxGapRun)}
	}

	if s.Band != nil {
		return s.Band.Validate()
	}
	return nil
}

func (s ScoreConfig) validateSubstitution() error {
	if s.MatchScore <= 0 {
		return &ParameterError{Name: "match", Value: s.MatchScore, Reason: "must be positive"}
	}
	if s.MismatchPenalty > 0 {
		return &ParameterError{Name: "mismatch", Value: s.MismatchPenalty, Reason: "must be non-positive"}
	}
	if s.GapOpenPenalty > 0 {
		return &ParameterError{Name: "gap_open", Value: s.GapOpenPenalty, Reason: "must be non-positive"}
	}
	if s.GapExtnPenalty > 0 {
		return &ParameterError{Name: "gap_extn", Value: s.GapExtnPenalty, Reason: "must be non-positive"}
	}
	return nil
}

// Validate checks the band parameters.
func (b *BandConfig) Validate() error {
	if b.InitialHalfWidth < MinBandHalfWidth {
		return &ParameterError{Name: "initial_half_width", Value: b.InitialHalfWidth,
			Reason: fmt.Sprintf("must be at least %d", MinBandHalfWidth)}
	}
	if b.MaxPathLenDiff < MinPathLenDiff || b.MaxPathLenDiff > MaxPathLenDiff {
		return &ParameterError{Name: "max_path_len_diff", Value: b.MaxPathLenDiff,
			Reason: fmt.Sprintf("must be in [%.2f, %.2f]", MinPathLenDiff, MaxPathLenDiff)}
	}
	return nil
}

// Score returns the substitution score for two symbols. Mask bits are
// ignored and indeterminate symbols always score as a mismatch.
func (s ScoreConfig) Score(a, b sequence.Symbol) int {
	if sequence.Matches(a, b) {
		return s.MatchScore
	}
	return s.MismatchPenalty
}

// gapExtnCost is the extension charge for a gap that has reached run length
// n.
func (s ScoreConfig) gapExtnCost(n int) int64 {
	if n < s.DelayedGapExtension {
		return 0
	}
	cost := int64(s.GapExtnPenalty)
	if s.ProgressivePenaltyThreshold > 0 && n >= s.ProgressivePenaltyThreshold {
		cost *= 2
	}
	return cost
}

func (s ScoreConfig) String() string {
	str := fmt.Sprintf("ScoreConfig { match: %d, mismatch: %d, gap_open: %d, gap_extn: %d, delay: %d, progressive: %d",
		s.MatchScore, s.MismatchPenalty, s.GapOpenPenalty, s.GapExtnPenalty,
		s.DelayedGapExtension, s.ProgressivePenaltyThreshold)
	if s.Band != nil {
		str += fmt.Sprintf(", band: %d/%.2f", s.Band.InitialHalfWidth, s.Band.MaxPathLenDiff)
	}
	return str + " }"
}
