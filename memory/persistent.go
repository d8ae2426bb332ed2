package memory

import "github.com/latticeforge/rete"

// Persistent is an immutable working-memory snapshot, freely shareable
// across goroutines and across Session values. It is never mutated in
// place; ToPersistent always produces a new one.
type Persistent struct {
	tokens     map[scopeKey][]tokenEntry
	elements   map[scopeKey][]elementEntry
	accum      map[scopeKey][]rete.AccumGroup
	agenda     []rete.Activation
	insertions map[insertionKey][]rete.Fact
}

// Empty returns a Persistent snapshot with no stored state, the
// starting point for a new Session before its beta-roots are seeded.
func Empty() *Persistent {
	return &Persistent{}
}

// ToTransient produces a mutable view seeded from this snapshot. The
// snapshot itself is untouched and remains valid to pass to ToTransient
// again from another caller.
func ToTransient(p *Persistent) *Transient {
	return newTransient(p)
}

// ToPersistent captures t's current contents into a new Persistent
// snapshot and invalidates t: any further method call on t panics with
// an EngineError(ErrInvalidatedTransient). This mirrors the teacher's
// move-semantics recommendation (spec.md §9) via a runtime sentinel,
// the idiomatic Go substitute for linear types.
func ToPersistent(t *Transient) *Persistent {
	t.mustBeValid()
	p := &Persistent{
		tokens:     make(map[scopeKey][]tokenEntry, len(t.tokens)),
		elements:   make(map[scopeKey][]elementEntry, len(t.elements)),
		accum:      make(map[scopeKey][]rete.AccumGroup, len(t.accum)),
		agenda:     append([]rete.Activation(nil), t.agenda...),
		insertions: make(map[insertionKey][]rete.Fact, len(t.insertions)),
	}
	for k, v := range t.tokens {
		p.tokens[k] = append([]tokenEntry(nil), v...)
	}
	for k, v := range t.elements {
		p.elements[k] = append([]elementEntry(nil), v...)
	}
	for k, v := range t.accum {
		p.accum[k] = append([]rete.AccumGroup(nil), v...)
	}
	for k, v := range t.insertions {
		p.insertions[k] = append([]rete.Fact(nil), v...)
	}
	t.valid = false
	return p
}

// AgendaLen reports how many activations are pending, used by
// fire-rules's "until agenda empty" termination check and by tests
// asserting the post-fire-rules agenda-empty invariant (spec.md §8).
func (p *Persistent) AgendaLen() int {
	return len(p.agenda)
}

// Equal reports whether two snapshots hold the same tokens, elements,
// accumulator groups, agenda, and insertion-log keys, independent of map
// iteration order. Accumulator groups are compared by fact-bindings only
// (their folded State is not compared), and insertion-log entries by key
// and fact count only (the facts themselves are not compared).
func (p *Persistent) Equal(other *Persistent) bool {
	if p == nil || other == nil {
		return p == other
	}
	return scopedTokensEqual(p.tokens, other.tokens) &&
		scopedElementsEqual(p.elements, other.elements) &&
		scopedAccumEqual(p.accum, other.accum) &&
		activationsEqual(p.agenda, other.agenda) &&
		insertionsEqual(p.insertions, other.insertions)
}

func scopedTokensEqual(a, b map[scopeKey][]tokenEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || len(av) != len(bv) {
			return false
		}
		for _, e := range av {
			if !containsTokenHash(bv, e.hash) {
				return false
			}
		}
	}
	return true
}

func scopedElementsEqual(a, b map[scopeKey][]elementEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || len(av) != len(bv) {
			return false
		}
		for _, e := range av {
			if !containsElementHash(bv, e.hash) {
				return false
			}
		}
	}
	return true
}

func scopedAccumEqual(a, b map[scopeKey][]rete.AccumGroup) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || len(av) != len(bv) {
			return false
		}
		for _, g := range av {
			found := false
			for _, og := range bv {
				if g.FactBindings.Equal(og.FactBindings) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

func activationsEqual(a, b []rete.Activation) bool {
	if len(a) != len(b) {
		return false
	}
	for _, x := range a {
		found := false
		for _, y := range b {
			if x.Key() == y.Key() {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func insertionsEqual(a, b map[insertionKey][]rete.Fact) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || len(av) != len(bv) {
			return false
		}
	}
	return true
}
