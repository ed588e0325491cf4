package alignment

import "math"

// Direction records which neighbour a traceback cell was reached from.
type Direction uint8

const (
	// None marks a path origin, or in local alignment a restart cell.
	None Direction = iota
	// Diagonal: reached from (p-1, t-1), probe and target bases aligned.
	Diagonal
	// Left: reached from (p-1, t), a probe base against a gap.
	Left
	// Up: reached from (p, t-1), a target base against a gap.
	Up
)

func (d Direction) String() string {
	switch d {
	case Diagonal:
		return "Diagonal"
	case Left:
		return "Left"
	case Up:
		return "Up"
	default:
		return "None"
	}
}

// maxRun caps the gap run length carried by a cell.
const maxRun = 63

// Cell is one traceback matrix entry.
type Cell struct {
	Score   int32
	Dir     Direction
	Exact   bool
	// GapOpen is set on Left or Up cells over a mismatching pair. Run is the
	// gap length such a cell carries; the global aligner leaves it zero.
	GapOpen bool
	Run     uint8
}

func clampScore(v int64) int32 {
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	}
	return int32(v)
}
