package alignment

import (
	"fmt"

	"github.com/aria-lang/bioflow-align/internal/sequence"
)

// SmithWaterman is a local aligner. With ScoreConfig.Band set it fills only
// a corridor around the main diagonal.
type SmithWaterman struct {
	core
}

// NewSmithWaterman returns a dense local aligner using DefaultScores.
func NewSmithWaterman() *SmithWaterman {
	return &SmithWaterman{core: newCore(DefaultScores())}
}

// SetScores validates and installs the full scoring configuration.
func (l *SmithWaterman) SetScores(s ScoreConfig) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.Band != nil {
		band := *s.Band
		s.Band = &band
	}
	l.scores = s
	l.invalidate()
	return nil
}

// neighbor is a predecessor cell; ok is false when it is absent.
type neighbor struct {
	Cell
	ok bool
}

// Align fills the matrix and returns the peak score, or 0 when no pair of
// positions scores above zero.
func (l *SmithWaterman) Align() (int, error) {
	if err := l.begin(); err != nil {
		return 0, err
	}

	P, T := len(l.probe), len(l.target)
	var err error
	if l.scores.Band != nil {
		err = l.fillBanded(P, T)
	} else {
		err = l.fillDense(P, T)
	}
	if err != nil {
		l.invalidate()
		return 0, fmt.Errorf("local alignment %dx%d: %w", P, T, err)
	}

	l.finish(l.peakScore, l.peakP, l.peakT, l.peakP, l.peakT, l.peakScore == 0)
	return l.peakScore, nil
}

func (l *SmithWaterman) fillDense(P, T int) error {
	if err := l.mat.prepareDense(P, T, l.maxCells); err != nil {
		return err
	}
	l.peakScore, l.peakP, l.peakT = 0, 0, 0

	for p := 0; p < P; p++ {
		for t := 0; t < T; t++ {
			c := l.relax(p, t)
			l.mat.set(p, t, c)
			l.track(c, p, t)
		}
	}
	return nil
}

func (l *SmithWaterman) fillBanded(P, T int) error {
	if err := l.mat.prepareBanded(P, T, *l.scores.Band, l.maxCells); err != nil {
		return err
	}
	l.peakScore, l.peakP, l.peakT = 0, 0, 0

	for p := 0; p < P; p++ {
		start, end := l.mat.bands.window(p)
		for t := start; t <= end; t++ {
			c := l.relax(p, t)
			if err := l.mat.allocBanded(p, t, c, l.maxCells); err != nil {
				return err
			}
			l.track(c, p, t)
		}
	}
	return nil
}

func (l *SmithWaterman) track(c Cell, p, t int) {
	if int(c.Score) > l.peakScore {
		l.peakScore, l.peakP, l.peakT = int(c.Score), p, t
	}
}

func (l *SmithWaterman) neighbor(p, t int) neighbor {
	c, ok := l.mat.at(p, t)
	return neighbor{Cell: c, ok: ok}
}

// relax computes cell (p, t) from its materialized predecessors.
func (l *SmithWaterman) relax(p, t int) Cell {
	sc := &l.scores
	exact := sequence.Matches(l.probe[p], l.target[t])
	best := int64(sc.MismatchPenalty)
	if exact {
		best = int64(sc.MatchScore)
	}

	// A diagonal from an absent or zero cell starts a new path.
	origin := true
	if diag := l.neighbor(p-1, t-1); diag.ok && diag.Score > 0 {
		best += int64(diag.Score)
		origin = false
	}
	dir := Diagonal
	var run uint8

	if up := l.neighbor(p, t-1); up.ok {
		if s, r := l.gapStep(up.Cell); s > best {
			best, dir, run = s, Up, r
		}
	}
	if left := l.neighbor(p-1, t); left.ok {
		if s, r := l.gapStep(left.Cell); s > best {
			best, dir, run = s, Left, r
		}
	}

	if best <= 0 {
		return Cell{Exact: exact}
	}

	// A gap only stays open across a mismatching pair; a gap reaching a
	// matching pair is charged as newly opened by its successor.
	c := Cell{Score: clampScore(best), Dir: dir, Exact: exact}
	switch {
	case dir != Diagonal:
		if !exact {
			c.GapOpen, c.Run = true, run
		}
	case origin:
		c.Dir = None
	}
	return c
}

// gapStep scores a gap continuing from prev and returns the new run length.
func (l *SmithWaterman) gapStep(prev Cell) (int64, uint8) {
	if prev.GapOpen {
		run := prev.Run
		if run < maxRun {
			run++
		}
		return int64(prev.Score) + l.scores.gapExtnCost(int(run)), run
	}
	return int64(prev.Score) + int64(l.scores.GapOpenPenalty) + l.scores.gapExtnCost(1), 1
}

// Anchors marks the ungapped flanks of a local alignment. ProbeStart5 and
// TargetStart5 are the first pair of the 5' anchor; ProbeEnd3 and
// TargetEnd3 the last pair of the 3' anchor. All are 0-based.
type Anchors struct {
	ProbeStart5  int
	TargetStart5 int
	ProbeEnd3    int
	TargetEnd3   int
}

// Anchors walks back from the peak looking for ungapped runs of at least
// minLen aligned pairs. The first such run is the 3' anchor and the last
// one the 5' anchor. ok is false when no run qualifies.
func (l *SmithWaterman) Anchors(minLen int) (anchors Anchors, ok bool, err error) {
	if minLen < 1 {
		return Anchors{}, false, &ParameterError{Name: "min_anchor_len", Value: minLen, Reason: "must be positive"}
	}
	if err := l.traceback(); err != nil {
		return Anchors{}, false, err
	}
	if l.empty || l.stats.NumAlignedBases < minLen {
		return Anchors{}, false, nil
	}

	p, t := l.termP, l.termT
	run := 0
	for i := len(l.path) - 1; i >= 0; i-- {
		switch l.path[i] {
		case Diagonal, None:
			run++
			if run >= minLen {
				anchors.ProbeStart5, anchors.TargetStart5 = p, t
				if !ok {
					anchors.ProbeEnd3, anchors.TargetEnd3 = p+run-1, t+run-1
					ok = true
				}
			}
			p, t = p-1, t-1
		case Left:
			run = 0
			p--
		case Up:
			run = 0
			t--
		}
	}
	return anchors, ok, nil
}
