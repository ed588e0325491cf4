package alignment

import (
	"unsafe"

	mmap "github.com/edsrzf/mmap-go"
)

const (
	cellSize = int(unsafe.Sizeof(Cell{}))

	// cellSlack is added to every allocation so that small size changes
	// between calls do not force a reallocation.
	cellSlack = 100

	// oversizeFactor is how many times larger than required a buffer may
	// be before it is released and replaced.
	oversizeFactor = 5
)

// mapThreshold is the store size in bytes from which cells are placed in an
// anonymous memory mapping instead of the Go heap.
var mapThreshold = 64 << 20

// needsRealloc applies the grow-only reuse policy to a buffer holding have
// elements that must now hold need.
func needsRealloc(have, need int) bool {
	return have < need || have > need*oversizeFactor+cellSlack
}

// cellStore is the flat backing array for traceback cells.
type cellStore struct {
	cells  []Cell
	mapped mmap.MMap
}

// reserve ensures room for n cells. Existing contents are not preserved.
func (s *cellStore) reserve(n int) error {
	if !needsRealloc(len(s.cells), n) {
		return nil
	}
	return s.replace(n+cellSlack, 0)
}

// grow enlarges the store to at least n cells, keeping the first keep.
func (s *cellStore) grow(n, keep int) error {
	if n <= len(s.cells) {
		return nil
	}
	return s.replace(n, keep)
}

func (s *cellStore) replace(n, keep int) error {
	next, mapped, err := allocCells(n)
	if err != nil {
		return err
	}
	copy(next, s.cells[:keep])
	if err := s.release(); err != nil {
		if mapped != nil {
			_ = mapped.Unmap()
		}
		return &MemoryError{Cells: int64(n), Err: err}
	}
	s.cells, s.mapped = next, mapped
	return nil
}

func allocCells(n int) ([]Cell, mmap.MMap, error) {
	if n*cellSize < mapThreshold {
		return make([]Cell, n), nil, nil
	}

	m, err := mmap.MapRegion(nil, n*cellSize, mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, nil, &MemoryError{Cells: int64(n), Err: err}
	}
	// Cell holds no pointers, so the mapping can back it directly.
	cells := unsafe.Slice((*Cell)(unsafe.Pointer(&m[0])), n)
	return cells, m, nil
}

// release drops the backing array, unmapping it if needed.
func (s *cellStore) release() error {
	var err error
	if s.mapped != nil {
		err = s.mapped.Unmap()
		s.mapped = nil
	}
	s.cells = nil
	return err
}
