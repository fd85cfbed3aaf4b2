package openenum

// Table is an open enumeration built at runtime from a list of names. It is
// the fallback for callers that cannot run the generator: the names are
// ordinary values instead of package-level constants, but formatting follows
// the same rules as generated String methods.
//
// A Table is immutable after construction and safe for concurrent use.
type Table[T Integer] struct {
	typeName string
	names    []Name[T]
	byName   map[string]T
}

// NewTable returns a table for typeName. The order of names is significant:
// when several names share a value, the first one is used for formatting.
func NewTable[T Integer](typeName string, names ...Name[T]) *Table[T] {
	t := &Table[T]{
		typeName: typeName,
		names:    make([]Name[T], len(names)),
		byName:   make(map[string]T, len(names)),
	}
	copy(t.names, names)
	for _, n := range names {
		if _, ok := t.byName[n.Name]; !ok {
			t.byName[n.Name] = n.Value
		}
	}
	return t
}

// TypeName returns the name used for unnamed values.
func (t *Table[T]) TypeName() string {
	return t.typeName
}

// Format returns the name of v, or TypeName(v) if v has no name.
func (t *Table[T]) Format(v T) string {
	return Format(t.typeName, t.names, v)
}

// Lookup returns the value declared for name.
func (t *Table[T]) Lookup(name string) (T, bool) {
	v, ok := t.byName[name]
	return v, ok
}

// Known reports whether v has at least one declared name.
func (t *Table[T]) Known(v T) bool {
	for _, n := range t.names {
		if n.Value == v {
			return true
		}
	}
	return false
}

// Names returns a copy of the declared names in declaration order.
func (t *Table[T]) Names() []Name[T] {
	out := make([]Name[T], len(t.names))
	copy(out, t.names)
	return out
}
