// Package enumtest checks the properties every generated open enumeration
// must have. It is meant to be called from the tests of packages that hold
// generated code:
//
//	func TestElfType(t *testing.T) {
//	    enumtest.RoundTrip(t, elf.ElfTypeFromBits, elf.ElfType.Bits)
//	    enumtest.Names(t, "ElfType", []openenum.Name[elf.ElfType]{
//	        {Name: "ET_NONE", Value: elf.ET_NONE},
//	        {Name: "ET_REL", Value: elf.ET_REL},
//	    })
//	}
package enumtest

import (
	"math/rand/v2"
	"strconv"
	"testing"
	"unsafe"

	"github.com/broady/openenum"
)

// Value is a generated open enumeration.
type Value interface {
	openenum.Integer
	String() string
}

// samples is the number of pseudo-random values Values adds for 32 and 64
// bit types.
const samples = 4096

// Values returns the values of R a property check should visit: every value
// for 8 and 16 bit types; for wider types the boundaries, every power of two
// with its neighbours, and a fixed pseudo-random sample.
func Values[R openenum.Integer]() []R {
	bits := int(unsafe.Sizeof(R(0))) * 8
	if bits <= 16 {
		n := 1 << bits
		out := make([]R, n)
		for i := range n {
			out[i] = R(i)
		}
		return out
	}

	var zero R
	out := []R{zero, ^zero, zero + 1, ^zero - 1}
	for i := range bits {
		p := R(1) << i
		out = append(out, p, p-1, p+1, -p, ^p)
	}
	r := rand.New(rand.NewPCG(1, uint64(bits)))
	for range samples {
		out = append(out, R(r.Uint64()))
	}
	return out
}

// RoundTrip checks that converting every value of Values[R] into T and back
// is lossless, that fromBits agrees with a plain conversion, and that T has
// the size of R.
func RoundTrip[T, R openenum.Integer](t testing.TB, fromBits func(R) T, bits func(T) R) {
	t.Helper()
	var tv T
	var rv R
	if unsafe.Sizeof(tv) != unsafe.Sizeof(rv) {
		t.Fatalf("size of %T is %d, want %d", tv, unsafe.Sizeof(tv), unsafe.Sizeof(rv))
	}
	failures := 0
	for _, r := range Values[R]() {
		v := fromBits(r)
		if got := bits(v); got != r || v != T(r) {
			t.Errorf("round trip of %d: fromBits gave %d, bits gave %d", r, v, got)
			failures++
			if failures >= 10 {
				t.Fatal("too many round-trip failures")
			}
		}
	}
}

// Names checks that each value in names formats as the first name declared
// for it, in order.
func Names[T Value](t testing.TB, names []openenum.Name[T]) {
	t.Helper()
	first := make(map[T]string, len(names))
	for _, n := range names {
		if _, ok := first[n.Value]; !ok {
			first[n.Value] = n.Name
		}
	}
	for _, n := range names {
		want := first[n.Value]
		if got := n.Value.String(); got != want {
			t.Errorf("%s.String() = %q, want %q", n.Name, got, want)
		}
	}
}

// Unnamed checks that every value of Values that no name in names declares
// formats as typeName(n) in base 10.
func Unnamed[T Value](t testing.TB, typeName string, names []openenum.Name[T]) {
	t.Helper()
	declared := make(map[T]bool, len(names))
	for _, n := range names {
		declared[n.Value] = true
	}
	failures := 0
	for _, v := range Values[T]() {
		if declared[v] {
			continue
		}
		if got, want := v.String(), Decimal(typeName, v); got != want {
			t.Errorf("String() = %q, want %q", got, want)
			failures++
			if failures >= 10 {
				t.Fatal("too many formatting failures")
			}
		}
	}
}

// Decimal is the expected text of an unnamed value, computed independently of
// the openenum runtime.
func Decimal[T openenum.Integer](typeName string, v T) string {
	var zero T
	if ^zero < zero {
		return typeName + "(" + strconv.FormatInt(int64(v), 10) + ")"
	}
	return typeName + "(" + strconv.FormatUint(uint64(v), 10) + ")"
}
