package alignment

import (
	"fmt"
	"math"

	"github.com/aria-lang/bioflow-align/internal/sequence"
)

const (
	MinSequenceLen = 1
	MaxSequenceLen = math.MaxInt32 - 1

	// DefaultMaxCells is the traceback cell ceiling of a new engine.
	DefaultMaxCells int64 = 2_000_000_000
)

type state int

const (
	unconfigured state = iota
	sequencesSet
	aligned
	tracebackComputed
)

// Engine is the common surface of the global and local aligners.
type Engine interface {
	SetProbe(seq []sequence.Symbol) error
	SetTarget(seq []sequence.Symbol) error
	Align() (int, error)
	NumAlignedBases() (int, error)
	AlignStats() (Stats, error)
	ProbeAlign(buf []sequence.Symbol) (int, error)
	TargetAlign(buf []sequence.Symbol) (int, error)
	ProbeLen() int
	TargetLen() int
	Close() error
}

// Stats summarizes a traceback path. Offsets and indexes are 0-based.
type Stats struct {
	// PeakScore is the value returned by Align.
	PeakScore int
	// TerminalScore is the score of the cell the traceback starts from: the
	// bottom-right cell for global alignment, the peak for local.
	TerminalScore int

	ProbeStartOffset  int
	TargetStartOffset int
	NumAlignedBases   int
	NumExactMatches   int
	NumProbeInserts   int
	NumTargetInserts  int

	PeakProbeIndex  int
	PeakTargetIndex int
}

// Span is the number of alignment columns.
func (s Stats) Span() int {
	return s.NumAlignedBases + s.NumProbeInserts + s.NumTargetInserts
}

// core holds the state shared by both aligners.
type core struct {
	scores   ScoreConfig
	maxCells int64

	probe, target         []sequence.Symbol
	haveProbe, haveTarget bool

	mat   matrix
	state state

	peakScore    int
	peakP, peakT int
	termP, termT int
	// empty is set when no cell scored above zero.
	empty bool

	stats Stats
	// path holds the traceback steps in forward order; path[0] is the origin.
	path []Direction
}

func newCore(scores ScoreConfig) core {
	return core{scores: scores, maxCells: DefaultMaxCells}
}

// SetMaxCells sets the traceback cell ceiling. Align fails with
// ErrOutOfMemory when a fill would need more.
func (c *core) SetMaxCells(n int64) {
	c.maxCells = n
}

// Scores returns the active scoring parameters.
func (c *core) Scores() ScoreConfig {
	return c.scores
}

// SetProbe copies seq in as the probe, discarding any alignment.
func (c *core) SetProbe(seq []sequence.Symbol) error {
	if err := checkLength("probe", len(seq)); err != nil {
		return err
	}
	c.probe = copySymbols(c.probe, seq)
	c.haveProbe = true
	c.invalidate()
	return nil
}

// SetTarget copies seq in as the target, discarding any alignment.
func (c *core) SetTarget(seq []sequence.Symbol) error {
	if err := checkLength("target", len(seq)); err != nil {
		return err
	}
	c.target = copySymbols(c.target, seq)
	c.haveTarget = true
	c.invalidate()
	return nil
}

// ProbeLen returns the length of the current probe.
func (c *core) ProbeLen() int { return len(c.probe) }

// TargetLen returns the length of the current target.
func (c *core) TargetLen() int { return len(c.target) }

func checkLength(which string, n int) error {
	if n < MinSequenceLen || n > MaxSequenceLen {
		return &LengthError{Which: which, Len: n, Min: MinSequenceLen, Max: MaxSequenceLen}
	}
	return nil
}

func copySymbols(dst, src []sequence.Symbol) []sequence.Symbol {
	if needsRealloc(cap(dst), len(src)) {
		dst = make([]sequence.Symbol, len(src), len(src)+cellSlack)
	} else {
		dst = dst[:len(src)]
	}
	copy(dst, src)
	return dst
}

func (c *core) invalidate() {
	c.mat.clear()
	c.path = c.path[:0]
	c.stats = Stats{}
	if c.haveProbe && c.haveTarget {
		c.state = sequencesSet
	} else {
		c.state = unconfigured
	}
}

// begin moves the engine back to sequencesSet ahead of a fill.
func (c *core) begin() error {
	if !c.haveProbe || !c.haveTarget {
		return fmt.Errorf("probe and target must be set: %w", ErrNotAligned)
	}
	c.invalidate()
	return nil
}

// finish records a completed fill.
func (c *core) finish(peak, peakP, peakT, termP, termT int, empty bool) {
	c.peakScore, c.peakP, c.peakT = peak, peakP, peakT
	c.termP, c.termT = termP, termT
	c.empty = empty
	c.state = aligned
}

// traceback walks the path once and caches the result.
func (c *core) traceback() error {
	switch c.state {
	case tracebackComputed:
		return nil
	case aligned:
	default:
		return ErrNotAligned
	}

	s := Stats{
		PeakScore:       c.peakScore,
		PeakProbeIndex:  c.peakP,
		PeakTargetIndex: c.peakT,
	}
	c.path = c.path[:0]

	if !c.empty {
		p, t := c.termP, c.termT
		if cell, ok := c.mat.at(p, t); ok {
			s.TerminalScore = int(cell.Score)
		}

	walk:
		for {
			cell, ok := c.mat.at(p, t)
			if !ok {
				break
			}
			c.path = append(c.path, cell.Dir)

			switch cell.Dir {
			case Diagonal:
				s.NumAlignedBases++
				if cell.Exact {
					s.NumExactMatches++
				}
				p, t = p-1, t-1
			case Left:
				s.NumProbeInserts++
				p--
			case Up:
				s.NumTargetInserts++
				t--
			default:
				s.NumAlignedBases++
				if cell.Exact {
					s.NumExactMatches++
				}
				break walk
			}
		}
		s.ProbeStartOffset, s.TargetStartOffset = p, t

		for i, j := 0, len(c.path)-1; i < j; i, j = i+1, j-1 {
			c.path[i], c.path[j] = c.path[j], c.path[i]
		}
	}

	c.stats = s
	c.state = tracebackComputed
	return nil
}

// NumAlignedBases returns the number of aligned probe/target pairs on the
// traceback path.
func (c *core) NumAlignedBases() (int, error) {
	if err := c.traceback(); err != nil {
		return 0, err
	}
	return c.stats.NumAlignedBases, nil
}

// AlignStats returns the cached traceback statistics.
func (c *core) AlignStats() (Stats, error) {
	if err := c.traceback(); err != nil {
		return Stats{}, err
	}
	return c.stats, nil
}

// ProbeStartOffset returns the probe index where the alignment starts.
func (c *core) ProbeStartOffset() (int, error) {
	if err := c.traceback(); err != nil {
		return 0, err
	}
	return c.stats.ProbeStartOffset, nil
}

// TargetStartOffset returns the target index where the alignment starts.
func (c *core) TargetStartOffset() (int, error) {
	if err := c.traceback(); err != nil {
		return 0, err
	}
	return c.stats.TargetStartOffset, nil
}

// replay visits the cached path from its origin, passing each step's
// direction and the cell it lands on.
func (c *core) replay(fn func(i int, d Direction, p, t int)) {
	p, t := c.stats.ProbeStartOffset, c.stats.TargetStartOffset
	for i, d := range c.path {
		if i > 0 {
			switch d {
			case Diagonal:
				p, t = p+1, t+1
			case Left:
				p++
			case Up:
				t++
			}
		}
		fn(i, d, p, t)
	}
}

// ProbeAlign writes the aligned probe into buf, with sequence.Gap opposite
// target inserts, and returns the number of symbols written.
func (c *core) ProbeAlign(buf []sequence.Symbol) (int, error) {
	if err := c.traceback(); err != nil {
		return 0, err
	}
	if len(buf) < len(c.path) {
		return 0, &BufferError{Need: len(c.path), Have: len(buf)}
	}
	c.replay(func(i int, d Direction, p, _ int) {
		if d == Up {
			buf[i] = sequence.Gap
		} else {
			buf[i] = c.probe[p]
		}
	})
	return len(c.path), nil
}

// TargetAlign writes the aligned target into buf, with sequence.Gap
// opposite probe inserts, and returns the number of symbols written.
func (c *core) TargetAlign(buf []sequence.Symbol) (int, error) {
	if err := c.traceback(); err != nil {
		return 0, err
	}
	if len(buf) < len(c.path) {
		return 0, &BufferError{Need: len(c.path), Have: len(buf)}
	}
	c.replay(func(i int, d Direction, _, t int) {
		if d == Left {
			buf[i] = sequence.Gap
		} else {
			buf[i] = c.target[t]
		}
	})
	return len(c.path), nil
}

// Close releases the traceback store. The engine stays usable; the next
// Align allocates again.
func (c *core) Close() error {
	c.invalidate()
	return c.mat.store.release()
}
