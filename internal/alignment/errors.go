package alignment

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter reports an illegal scoring or band parameter.
	ErrInvalidParameter = errors.New("invalid alignment parameter")
	// ErrInvalidLength reports a probe or target outside the supported bounds.
	ErrInvalidLength = errors.New("sequence length out of range")
	// ErrOutOfMemory reports a traceback allocation that failed or would
	// exceed the engine's cell ceiling.
	ErrOutOfMemory = errors.New("traceback allocation failed")
	// ErrBufferTooSmall reports a reconstruction buffer shorter than the
	// alignment span.
	ErrBufferTooSmall = errors.New("alignment buffer too small")
	// ErrNotAligned is returned by result accessors before a successful Align.
	ErrNotAligned = errors.New("no alignment available")

	// errCellUnavailable is raised by the band index when a cell is requested
	// out of fill order. It never leaves the package.
	errCellUnavailable = errors.New("band cell unavailable")
)

// ParameterError describes a rejected scoring parameter.
type ParameterError struct {
	Name   string
	Value  interface{}
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s=%v: %s", e.Name, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error { return ErrInvalidParameter }

// LengthError describes a sequence rejected by SetProbe or SetTarget.
type LengthError struct {
	Which string
	Len   int
	Min   int
	Max   int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("%s length %d outside [%d, %d]", e.Which, e.Len, e.Min, e.Max)
}

func (e *LengthError) Unwrap() error { return ErrInvalidLength }

// MemoryError describes a traceback store that could not be provided.
type MemoryError struct {
	Cells int64
	Limit int64
	Err   error
}

func (e *MemoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("allocating %d cells: %v", e.Cells, e.Err)
	}
	return fmt.Sprintf("%d cells exceeds limit of %d", e.Cells, e.Limit)
}

func (e *MemoryError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrOutOfMemory, e.Err}
	}
	return []error{ErrOutOfMemory}
}

// BufferError describes a reconstruction buffer that is too short.
type BufferError struct {
	Need int
	Have int
}

func (e *BufferError) Error() string {
	return fmt.Sprintf("need %d symbols, buffer holds %d", e.Need, e.Have)
}

func (e *BufferError) Unwrap() error { return ErrBufferTooSmall }
