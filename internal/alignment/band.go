package alignment

import "math"

// band is the materialized target window [start, end] of one probe column.
// base is the store offset of the cell at start.
type band struct {
	start, end int
	base       int
}

// bandIndex hands out arena offsets for a banded fill. Columns are
// allocated in increasing probe order and, within a column, in strictly
// increasing target order with no holes.
type bandIndex struct {
	probeLen, targetLen int
	halfWidth           int
	frac                float64

	bands []band
	cur   int // column currently being allocated; -1 before the first cell
	used  int // cells handed out so far
}

func (b *bandIndex) reset(probeLen, targetLen int, cfg BandConfig) {
	b.probeLen, b.targetLen = probeLen, targetLen
	b.halfWidth, b.frac = cfg.InitialHalfWidth, cfg.MaxPathLenDiff

	if needsRealloc(cap(b.bands), probeLen) {
		b.bands = make([]band, probeLen)
	} else {
		b.bands = b.bands[:probeLen]
	}
	for i := range b.bands {
		b.bands[i] = band{end: -1}
	}
	b.cur = -1
	b.used = 0
}

// clear forgets every band while keeping the descriptor buffer.
func (b *bandIndex) clear() {
	b.bands = b.bands[:0]
	b.cur = -1
	b.used = 0
}

// window returns the inclusive target range admitted for probe column p.
func (b *bandIndex) window(p int) (start, end int) {
	P, T := int64(b.probeLen), int64(b.targetLen)
	center := (2*T*int64(p) + P) / (2 * P)

	delta := int64(math.Round(float64(T) * float64(p) * b.frac / float64(P)))
	if delta < int64(b.halfWidth) {
		delta = int64(b.halfWidth)
	}
	if delta > T {
		delta = T
	}

	lo, hi := center-delta, center+delta
	if lo < 0 {
		lo = 0
	}
	if hi > T-1 {
		hi = T - 1
	}
	return int(lo), int(hi)
}

// alloc claims the next arena offset for cell (p, t).
func (b *bandIndex) alloc(p, t int) (int, error) {
	switch {
	case p == b.cur:
		bd := &b.bands[p]
		if t != bd.end+1 {
			return 0, errCellUnavailable
		}
		bd.end = t
	case p == b.cur+1 && p < b.probeLen:
		b.cur = p
		b.bands[p] = band{start: t, end: t, base: b.used}
	default:
		return 0, errCellUnavailable
	}

	off := b.used
	b.used++
	return off, nil
}

// locate maps (p, t) to its arena offset; ok is false for any cell that has
// not been materialized.
func (b *bandIndex) locate(p, t int) (int, bool) {
	if p < 0 || p > b.cur {
		return 0, false
	}
	bd := b.bands[p]
	if t < bd.start || t > bd.end {
		return 0, false
	}
	return bd.base + t - bd.start, true
}
