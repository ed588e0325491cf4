package alignment

import (
	"fmt"

	"github.com/aria-lang/bioflow-align/internal/sequence"
)

// NeedlemanWunsch is a dense global aligner. The traceback always runs from
// the last probe and target positions back to the first, so the alignment
// spans both sequences end to end.
type NeedlemanWunsch struct {
	core
}

// NewNeedlemanWunsch returns a global aligner using DefaultScores.
func NewNeedlemanWunsch() *NeedlemanWunsch {
	return &NeedlemanWunsch{core: newCore(DefaultScores())}
}

// SetScores validates and installs substitution and gap penalties. The
// delayed and progressive gap thresholds are not used by the global fill,
// and a band is rejected.
func (g *NeedlemanWunsch) SetScores(s ScoreConfig) error {
	if err := s.validateSubstitution(); err != nil {
		return err
	}
	if s.Band != nil {
		return &ParameterError{Name: "band", Value: *s.Band, Reason: "global alignment is dense only"}
	}
	g.scores = s
	g.invalidate()
	return nil
}

// Align fills the matrix and returns the highest score seen during the
// fill. Cells are visited probe-major; on equal scores the diagonal is
// preferred over Up, and Up over Left.
func (g *NeedlemanWunsch) Align() (int, error) {
	if err := g.begin(); err != nil {
		return 0, err
	}

	P, T := len(g.probe), len(g.target)
	if err := g.mat.prepareDense(P, T, g.maxCells); err != nil {
		return 0, fmt.Errorf("global alignment %dx%d: %w", P, T, err)
	}

	sc := g.scores
	match, mismatch := int64(sc.MatchScore), int64(sc.MismatchPenalty)
	open, extn := int64(sc.GapOpenPenalty), int64(sc.GapExtnPenalty)
	gapCost := func(prev Cell) int64 {
		if prev.GapOpen {
			return extn
		}
		return open
	}

	var peak int32
	var peakP, peakT int

	for p := 0; p < P; p++ {
		ps := g.probe[p]
		for t := 0; t < T; t++ {
			exact := sequence.Matches(ps, g.target[t])
			subst := mismatch
			if exact {
				subst = match
			}

			var c Cell
			switch {
			case p == 0 && t == 0:
				c = Cell{Score: clampScore(subst), Dir: None, Exact: exact}
			case p == 0:
				up, _ := g.mat.at(0, t-1)
				c = Cell{Score: clampScore(int64(up.Score) + open), Dir: Up, Exact: exact}
			case t == 0:
				left, _ := g.mat.at(p-1, 0)
				c = Cell{Score: clampScore(int64(left.Score) + open), Dir: Left, Exact: exact}
			default:
				diagCell, _ := g.mat.at(p-1, t-1)
				leftCell, _ := g.mat.at(p-1, t)
				upCell, _ := g.mat.at(p, t-1)

				best, dir := int64(diagCell.Score)+subst, Diagonal
				if up := int64(upCell.Score) + gapCost(upCell); up > best {
					best, dir = up, Up
				}
				if left := int64(leftCell.Score) + gapCost(leftCell); left > best {
					best, dir = left, Left
				}
				c = Cell{Score: clampScore(best), Dir: dir, Exact: exact, GapOpen: dir != Diagonal && !exact}
			}
			g.mat.set(p, t, c)

			if (p == 0 && t == 0) || c.Score > peak {
				peak, peakP, peakT = c.Score, p, t
			}
		}
	}

	g.finish(int(peak), peakP, peakT, P-1, T-1, false)
	return int(peak), nil
}
