// Package sequence provides the symbol alphabet and validated DNA sequences
// consumed by the alignment engines.
//
// Bases are kept as written: lowercase marks repeat-masked positions, which
// encode to symbols carrying MaskBit.
package sequence

import (
	"fmt"
	"strings"
)

// Sequence represents a validated DNA sequence.
type Sequence struct {
	Bases       string
	ID          string
	Description string
}

// New creates a new DNA sequence with validation.
//
// Case is preserved so that soft-masked regions survive encoding.
func New(bases string) (*Sequence, error) {
	if len(bases) == 0 {
		return nil, &EmptySequenceError{}
	}

	if err := ValidateDNA(bases); err != nil {
		return nil, err
	}

	return &Sequence{Bases: bases}, nil
}

// WithID creates a new sequence with an identifier.
func WithID(bases, id string) (*Sequence, error) {
	if len(id) == 0 {
		return nil, fmt.Errorf("ID cannot be empty")
	}

	seq, err := New(bases)
	if err != nil {
		return nil, err
	}

	seq.ID = id
	return seq, nil
}

// WithMetadata creates a new sequence with full metadata.
func WithMetadata(bases, id, description string) (*Sequence, error) {
	seq, err := New(bases)
	if err != nil {
		return nil, err
	}

	seq.ID = id
	seq.Description = description
	return seq, nil
}

// Len returns the length of the sequence.
func (s *Sequence) Len() int {
	return len(s.Bases)
}

// Symbols encodes the sequence for the alignment engines.
func (s *Sequence) Symbols() []Symbol {
	out := make([]Symbol, len(s.Bases))
	for i := 0; i < len(s.Bases); i++ {
		// Bases were validated on construction.
		out[i], _ = EncodeBase(s.Bases[i])
	}
	return out
}

// Name returns the ID, or "sequence" when none was given.
func (s *Sequence) Name() string {
	if s.ID == "" {
		return "sequence"
	}
	return s.ID
}

// CountAmbiguous counts the number of N calls, masked or not.
func (s *Sequence) CountAmbiguous() int {
	count := 0
	for i := 0; i < len(s.Bases); i++ {
		if s.Bases[i] == 'N' || s.Bases[i] == 'n' {
			count++
		}
	}
	return count
}

// CountMasked counts lowercase (repeat-masked) positions.
func (s *Sequence) CountMasked() int {
	count := 0
	for i := 0; i < len(s.Bases); i++ {
		if s.Bases[i] >= 'a' && s.Bases[i] <= 'z' {
			count++
		}
	}
	return count
}

// Unmask returns a copy with all bases uppercased.
func (s *Sequence) Unmask() *Sequence {
	return &Sequence{
		Bases:       strings.ToUpper(s.Bases),
		ID:          s.ID,
		Description: s.Description,
	}
}

// complementBase returns the complement of a DNA base, keeping its case.
func complementBase(c byte) byte {
	switch c {
	case 'A':
		return 'T'
	case 'T', 'U':
		return 'A'
	case 'C':
		return 'G'
	case 'G':
		return 'C'
	case 'a':
		return 't'
	case 't', 'u':
		return 'a'
	case 'c':
		return 'g'
	case 'g':
		return 'c'
	case 'n':
		return 'n'
	default:
		return 'N'
	}
}

// Complement returns the complement of the sequence (A<->T, C<->G).
func (s *Sequence) Complement() *Sequence {
	comp := make([]byte, len(s.Bases))
	for i := 0; i < len(s.Bases); i++ {
		comp[i] = complementBase(s.Bases[i])
	}

	return &Sequence{
		Bases:       string(comp),
		ID:          s.ID,
		Description: s.Description,
	}
}

// Reverse returns the reverse of the sequence.
func (s *Sequence) Reverse() *Sequence {
	b := []byte(s.Bases)
	n := len(b)
	for i := 0; i < n/2; i++ {
		b[i], b[n-1-i] = b[n-1-i], b[i]
	}

	return &Sequence{
		Bases:       string(b),
		ID:          s.ID,
		Description: s.Description,
	}
}

// ReverseComplement returns the reverse complement of the sequence.
func (s *Sequence) ReverseComplement() *Sequence {
	return s.Complement().Reverse()
}

// ToFASTA returns the sequence in FASTA format.
func (s *Sequence) ToFASTA() string {
	var header string
	if s.ID != "" {
		header = ">" + s.ID
		if s.Description != "" {
			header += " " + s.Description
		}
	} else {
		header = ">sequence"
	}

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteRune('\n')

	// Split sequence into 80-character lines
	for i := 0; i < len(s.Bases); i += 80 {
		end := i + 80
		if end > len(s.Bases) {
			end = len(s.Bases)
		}
		sb.WriteString(s.Bases[i:end])
		sb.WriteRune('\n')
	}

	return sb.String()
}

// String returns a string representation of the sequence.
func (s *Sequence) String() string {
	if s.ID != "" {
		return fmt.Sprintf(">%s\n%s", s.ID, s.Bases)
	}
	return s.Bases
}
