package alignment

// matrix is the traceback store addressed by (probe, target) pairs. Every
// cell access goes through locate; dense and banded layouts differ only
// there.
type matrix struct {
	probeLen, targetLen int
	banded              bool

	store cellStore
	bands bandIndex
}

// locate maps (p, t) to a store offset. ok is false outside the matrix or,
// when banded, outside the materialized bands.
func (m *matrix) locate(p, t int) (int, bool) {
	if p < 0 || t < 0 || p >= m.probeLen || t >= m.targetLen {
		return 0, false
	}
	if m.banded {
		return m.bands.locate(p, t)
	}
	return p*m.targetLen + t, true
}

// at returns a copy of cell (p, t).
func (m *matrix) at(p, t int) (Cell, bool) {
	off, ok := m.locate(p, t)
	if !ok {
		return Cell{}, false
	}
	return m.store.cells[off], true
}

// set writes a dense cell.
func (m *matrix) set(p, t int, c Cell) {
	m.store.cells[p*m.targetLen+t] = c
}

// clear discards the current layout so no stale cell can be located.
func (m *matrix) clear() {
	m.probeLen, m.targetLen = 0, 0
	m.banded = false
	m.bands.clear()
}

func (m *matrix) prepareDense(probeLen, targetLen int, limit int64) error {
	m.clear()
	cells := int64(probeLen) * int64(targetLen)
	if cells > limit {
		return &MemoryError{Cells: cells, Limit: limit}
	}
	if err := m.store.reserve(int(cells)); err != nil {
		return err
	}
	m.probeLen, m.targetLen = probeLen, targetLen
	return nil
}

func (m *matrix) prepareBanded(probeLen, targetLen int, cfg BandConfig, limit int64) error {
	m.clear()
	estimate := bandEstimate(probeLen, targetLen, cfg)
	if estimate > limit {
		return &MemoryError{Cells: estimate, Limit: limit}
	}
	if err := m.store.reserve(int(estimate)); err != nil {
		return err
	}
	m.bands.reset(probeLen, targetLen, cfg)
	m.probeLen, m.targetLen = probeLen, targetLen
	m.banded = true
	return nil
}

// bandEstimate sizes the initial arena: a tenth of the full matrix, but
// never less than the minimum corridor and never more than the matrix.
func bandEstimate(probeLen, targetLen int, cfg BandConfig) int64 {
	full := int64(probeLen) * int64(targetLen)
	width := int64(2*cfg.InitialHalfWidth + 1)
	if width > int64(targetLen) {
		width = int64(targetLen)
	}
	estimate := full / 10
	if corridor := int64(probeLen) * width; estimate < corridor {
		estimate = corridor
	}
	if estimate > full {
		estimate = full
	}
	return estimate
}

// allocBanded materializes cell (p, t) and stores c in it, growing the arena
// when it is full.
func (m *matrix) allocBanded(p, t int, c Cell, limit int64) error {
	if m.bands.used == len(m.store.cells) {
		if err := m.growArena(p, limit); err != nil {
			return err
		}
	}
	off, err := m.bands.alloc(p, t)
	if err != nil {
		return err
	}
	m.store.cells[off] = c
	return nil
}

// growArena projects the final arena size from the columns filled so far.
func (m *matrix) growArena(p int, limit int64) error {
	used := int64(m.bands.used)
	next := used*int64(m.probeLen)/int64(p+1) + cellSlack
	if full := int64(m.probeLen) * int64(m.targetLen); next > full {
		next = full
	}
	if next > limit {
		return &MemoryError{Cells: next, Limit: limit}
	}
	return m.store.grow(int(next), int(used))
}
