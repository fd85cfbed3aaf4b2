package ir

import (
	"fmt"
	"go/constant"
	"go/token"
	"math"
	"strconv"
)

// Repr is the fixed-width integer type an open enum is stored as.
type Repr struct {
	// Signed selects intN over uintN.
	Signed bool

	// Bits is the width: 8, 16, 32 or 64.
	Bits int
}

// Convenience constructors for each supported width.

// Int returns the signed repr of the given width.
func Int(bits int) Repr { return Repr{Signed: true, Bits: bits} }

// Uint returns the unsigned repr of the given width.
func Uint(bits int) Repr { return Repr{Bits: bits} }

// ParseRepr parses a Go integer type name. Only fixed-width types are
// accepted; byte and rune are read as uint8 and int32.
func ParseRepr(s string) (Repr, error) {
	switch s {
	case "byte":
		return Uint(8), nil
	case "rune":
		return Int(32), nil
	case "int", "uint", "uintptr":
		return Repr{}, fmt.Errorf("%s has a platform-dependent width; use a sized integer type", s)
	}

	var r Repr
	rest := s
	switch {
	case len(s) > 4 && s[:4] == "uint":
		rest = s[4:]
	case len(s) > 3 && s[:3] == "int":
		r.Signed = true
		rest = s[3:]
	default:
		return Repr{}, fmt.Errorf("unknown integer type %q", s)
	}
	bits, err := strconv.Atoi(rest)
	if err != nil {
		return Repr{}, fmt.Errorf("unknown integer type %q", s)
	}
	r.Bits = bits
	if !r.Valid() {
		return Repr{}, fmt.Errorf("unsupported integer width in %q", s)
	}
	return r, nil
}

// Valid reports whether r names one of the eight supported integer types.
func (r Repr) Valid() bool {
	switch r.Bits {
	case 8, 16, 32, 64:
		return true
	default:
		return false
	}
}

// String returns the Go type name, e.g. "uint16".
func (r Repr) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Repr(%d)", r.Bits)
	}
	if r.Signed {
		return "int" + strconv.Itoa(r.Bits)
	}
	return "uint" + strconv.Itoa(r.Bits)
}

// Min returns the smallest value representable in r.
func (r Repr) Min() constant.Value {
	if !r.Signed {
		return constant.MakeInt64(0)
	}
	return constant.MakeInt64(math.MinInt64 >> (64 - r.Bits))
}

// Max returns the largest value representable in r.
func (r Repr) Max() constant.Value {
	if r.Signed {
		return constant.MakeInt64(math.MaxInt64 >> (64 - r.Bits))
	}
	return constant.MakeUint64(math.MaxUint64 >> (64 - r.Bits))
}

// Fits reports whether the integer constant v is representable in r without
// truncation.
func (r Repr) Fits(v constant.Value) bool {
	if v.Kind() != constant.Int {
		return false
	}
	return constant.Compare(v, token.GEQ, r.Min()) && constant.Compare(v, token.LEQ, r.Max())
}
