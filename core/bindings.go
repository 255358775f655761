package core

import (
	"sort"
	"strings"
)

// Bindings maps variable names to values.
type Bindings map[string]Value

// NewBindings makes empty Bindings.
func NewBindings() Bindings {
	return make(Bindings, 8)
}

// Copy makes a shallow copy of the Bindings.  Values are immutable,
// so the copy is independent of the original.
func (bs Bindings) Copy() Bindings {
	acc := make(Bindings, len(bs))
	for p, v := range bs {
		acc[p] = v
	}
	return acc
}

// Keys returns the bound names in sorted order.
func (bs Bindings) Keys() []string {
	acc := make([]string, 0, len(bs))
	for p := range bs {
		acc = append(acc, p)
	}
	sort.Strings(acc)
	return acc
}

// Equal reports whether both Bindings have the same names bound to
// equal values.
func (bs Bindings) Equal(other Bindings) bool {
	if len(bs) != len(other) {
		return false
	}
	for p, v := range bs {
		w, have := other[p]
		if !have || !v.Equal(w) {
			return false
		}
	}
	return true
}

// Key returns a canonical string for the Bindings.  Equal Bindings
// have the same Key.
func (bs Bindings) Key() string {
	var b strings.Builder
	for i, p := range bs.Keys() {
		if i > 0 {
			b.WriteByte(',')
		}
		v := bs[p]
		b.WriteString(p)
		b.WriteByte('=')
		switch v.Tag() {
		case IntTag:
			b.WriteByte('i')
		case DoubleTag:
			b.WriteByte('d')
		case BoolTag:
			b.WriteByte('b')
		}
		b.WriteString(v.String())
	}
	return b.String()
}

// Extend binds p to v, modifying and returning the Bindings.
func (bs Bindings) Extend(p string, v Value) Bindings {
	bs[p] = v
	return bs
}

// Native returns the Bindings as plain Go values.
func (bs Bindings) Native() map[string]interface{} {
	acc := make(map[string]interface{}, len(bs))
	for p, v := range bs {
		acc[p] = v.Interface()
	}
	return acc
}
