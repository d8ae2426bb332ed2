package rete

import (
	"fmt"
	"sort"
)

// Value is a sealed interface over the closed set of value kinds a
// binding environment may hold. Only the types in this file implement
// it. Floats are deliberately excluded: accumulator reductions and
// content-addressed hashing both depend on bit-exact equality, which
// float64 cannot give across architectures.
type Value interface {
	reteValue()
}

// String is a string-valued binding.
type String string

func (String) reteValue() {}

// Int is an integer-valued binding. Always int64.
type Int int64

func (Int) reteValue() {}

// Bool is a boolean-valued binding.
type Bool bool

func (Bool) reteValue() {}

// List is an ordered sequence of Values.
type List []Value

func (List) reteValue() {}

// Object is a nested string-keyed map of Values, used when a fact field
// is itself structured. Iterate via SortedKeys for determinism.
type Object map[string]Value

func (Object) reteValue() {}

// SortedKeys returns the object's keys in sorted order.
func (o Object) SortedKeys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Opaque wraps an arbitrary user value that participates in bindings by
// reference identity rather than structural value (e.g. the fact itself,
// bound via a result-binding on an AccumulateNode). Opaque values compare
// equal only to themselves and must not be used as a hash map key by
// structural content — callers needing hashable identity should bind a
// derived String/Int instead.
type Opaque struct {
	Value any
}

func (Opaque) reteValue() {}

// Equal reports whether two Values are deeply equal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Object:
		bv, ok := b.(Object)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			other, exists := bv[k]
			if !exists || !Equal(v, other) {
				return false
			}
		}
		return true
	case Opaque:
		bv, ok := b.(Opaque)
		return ok && av.Value == bv.Value
	default:
		return false
	}
}

// String formatting is used by error messages and listener traces; it is
// not part of the hashing contract (see hash.go for that).
func formatValue(v Value) string {
	switch vv := v.(type) {
	case String:
		return fmt.Sprintf("%q", string(vv))
	case Int:
		return fmt.Sprintf("%d", int64(vv))
	case Bool:
		return fmt.Sprintf("%t", bool(vv))
	case List:
		out := "["
		for i, e := range vv {
			if i > 0 {
				out += " "
			}
			out += formatValue(e)
		}
		return out + "]"
	case Object:
		out := "{"
		for i, k := range vv.SortedKeys() {
			if i > 0 {
				out += " "
			}
			out += k + ":" + formatValue(vv[k])
		}
		return out + "}"
	case Opaque:
		return fmt.Sprintf("%v", vv.Value)
	default:
		return "<nil>"
	}
}
