// Package openenum is the runtime support for generated open enumerations.
//
// An open enumeration is a named integer type where every bit pattern of the
// underlying integer is a valid value. Declared values print by name; any other
// value prints as TypeName(n). Code generated by cmd/openenum references the
// helpers in this package from its String methods.
//
// The zero value of an open enumeration is numeric zero, whether or not a name
// is declared for it.
package openenum

import "strconv"

// Integer is the set of fixed-width integer types an open enumeration can be
// built on. Platform-width int, uint and uintptr are deliberately absent.
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Name associates a declared name with its value.
type Name[T Integer] struct {
	Name  string
	Value T
}

// Format returns the first name in names whose value equals v, in declaration
// order. When no name matches it returns typeName(v) with v in base 10.
func Format[T Integer](typeName string, names []Name[T], v T) string {
	for _, n := range names {
		if n.Value == v {
			return n.Name
		}
	}
	return Unnamed(typeName, v)
}

// Unnamed formats v as typeName(v), the representation of a value with no
// declared name.
func Unnamed[T Integer](typeName string, v T) string {
	buf := make([]byte, 0, len(typeName)+22)
	buf = append(buf, typeName...)
	buf = append(buf, '(')
	buf = AppendInt(buf, v)
	buf = append(buf, ')')
	return string(buf)
}

// AppendInt appends the base 10 form of v to dst.
func AppendInt[T Integer](dst []byte, v T) []byte {
	if Signed[T]() {
		return strconv.AppendInt(dst, int64(v), 10)
	}
	return strconv.AppendUint(dst, uint64(v), 10)
}

// Signed reports whether T is a signed integer type.
func Signed[T Integer]() bool {
	var zero T
	return ^zero < zero
}
