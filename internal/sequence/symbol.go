package sequence

import "strings"

// Symbol is a single encoded sequence position.
//
// The low three bits carry the base code; MaskBit marks repeat-masked
// (lowercase) positions and must be cleared before any comparison.
type Symbol uint8

const (
	A Symbol = iota
	C
	G
	T
	// Indeterminate is an N call. It never matches any symbol, itself included.
	Indeterminate
	// Undefined marks a position with no usable call.
	Undefined
	// Gap is emitted into reconstructed alignments for insertions.
	Gap
)

// MaskBit flags a repeat-masked position.
const MaskBit Symbol = 0x08

// Unmasked returns s with the mask bit cleared.
func (s Symbol) Unmasked() Symbol {
	return s &^ MaskBit
}

// Masked reports whether the mask bit is set.
func (s Symbol) Masked() bool {
	return s&MaskBit != 0
}

// WithMask returns s with the mask bit set.
func (s Symbol) WithMask() Symbol {
	return s | MaskBit
}

// IsBase reports whether s (mask ignored) is one of A, C, G or T.
func (s Symbol) IsBase() bool {
	return s.Unmasked() < Indeterminate
}

// Matches reports whether a and b are the same determinate base.
func Matches(a, b Symbol) bool {
	a, b = a.Unmasked(), b.Unmasked()
	return a < Indeterminate && a == b
}

// Byte returns the display character for s. Masked bases are lowercase.
func (s Symbol) Byte() byte {
	var c byte
	switch s.Unmasked() {
	case A:
		c = 'A'
	case C:
		c = 'C'
	case G:
		c = 'G'
	case T:
		c = 'T'
	case Indeterminate:
		c = 'N'
	case Gap:
		return '-'
	default:
		return '?'
	}
	if s.Masked() {
		c += 'a' - 'A'
	}
	return c
}

func (s Symbol) String() string {
	return string(s.Byte())
}

// EncodeBase maps a single character to its Symbol.
func EncodeBase(c byte) (Symbol, bool) {
	var masked bool
	if c >= 'a' && c <= 'z' {
		masked = true
		c -= 'a' - 'A'
	}

	var s Symbol
	switch c {
	case 'A':
		s = A
	case 'C':
		s = C
	case 'G':
		s = G
	case 'T', 'U':
		s = T
	case 'N':
		s = Indeterminate
	case '-':
		return Gap, true
	default:
		return Undefined, false
	}
	if masked {
		s = s.WithMask()
	}
	return s, true
}

// Encode converts bases into symbols. Lowercase bases are encoded masked.
func Encode(bases string) ([]Symbol, error) {
	out := make([]Symbol, len(bases))
	for i := 0; i < len(bases); i++ {
		s, ok := EncodeBase(bases[i])
		if !ok {
			return nil, &InvalidBaseError{Position: i, Found: rune(bases[i])}
		}
		out[i] = s
	}
	return out, nil
}

// Decode is the inverse of Encode.
func Decode(symbols []Symbol) string {
	var sb strings.Builder
	sb.Grow(len(symbols))
	for _, s := range symbols {
		sb.WriteByte(s.Byte())
	}
	return sb.String()
}
