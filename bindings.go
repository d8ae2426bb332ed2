package rete

import (
	"fmt"
	"sort"
	"strings"
)

// Var is an interned binding-environment variable name. By convention
// every Var is written with a leading "?" (e.g. "?name"), but nothing in
// this package enforces the prefix beyond NewVar's validation — the
// convention is documentation, not a type guarantee.
type Var string

// NewVar validates and returns a Var. A Var must be non-empty.
func NewVar(name string) (Var, error) {
	if name == "" {
		return "", fmt.Errorf("rete: variable name must not be empty")
	}
	return Var(name), nil
}

// Bindings is a binding environment: a mapping from Var to Value. The
// empty Bindings{} is the root environment beta roots are seeded with.
type Bindings map[Var]Value

// EmptyBindings is the root binding environment.
func EmptyBindings() Bindings {
	return Bindings{}
}

// Merge returns a new Bindings containing every entry of b and other.
// Callers are expected to merge only compatible environments (same
// variable bound to the same value on both sides, which join-key
// matching guarantees); Merge does not itself check for conflicts.
func (b Bindings) Merge(other Bindings) Bindings {
	out := make(Bindings, len(b)+len(other))
	for k, v := range b {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// With returns a new Bindings with one additional entry set.
func (b Bindings) With(v Var, val Value) Bindings {
	out := make(Bindings, len(b)+1)
	for k, vv := range b {
		out[k] = vv
	}
	out[v] = val
	return out
}

// Project returns the subset of b restricted to the given keys, in the
// same shape used by Transport to group elements/tokens by a node's
// join-keys. Keys absent from b are omitted from the result rather than
// erroring — callers that need completeness should check with HasAll.
func (b Bindings) Project(keys []Var) Bindings {
	out := make(Bindings, len(keys))
	for _, k := range keys {
		if v, ok := b[k]; ok {
			out[k] = v
		}
	}
	return out
}

// HasAll reports whether every key is bound in b.
func (b Bindings) HasAll(keys []Var) bool {
	for _, k := range keys {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// Equal reports whether two Bindings hold the same variables bound to
// equal values.
func (b Bindings) Equal(other Bindings) bool {
	if len(b) != len(other) {
		return false
	}
	for k, v := range b {
		ov, ok := other[k]
		if !ok || !Equal(v, ov) {
			return false
		}
	}
	return true
}

// String renders Bindings deterministically (sorted by variable name),
// used for listener trace output and debugging.
func (b Bindings) String() string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + formatValue(b[Var(k)])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
