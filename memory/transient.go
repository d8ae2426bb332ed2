package memory

import (
	"github.com/latticeforge/rete"
)

type scopeKey struct {
	nodeID string
	scope  rete.Hash
}

type tokenEntry struct {
	hash  rete.Hash
	token rete.Token
}

type elementEntry struct {
	hash    rete.Hash
	element rete.Element
}

type insertionKey struct {
	nodeID    string
	tokenHash rete.Hash
}

// Transient is the mutable, single-threaded working-memory view used
// during one insert/retract/fire call. It must not be shared across
// goroutines and must not be touched after ToPersistent consumes it
// (see valid below).
type Transient struct {
	valid bool

	tokens   map[scopeKey][]tokenEntry
	elements map[scopeKey][]elementEntry
	accum    map[scopeKey][]rete.AccumGroup
	accumIdx map[scopeKey]map[rete.Hash]int

	agenda     []rete.Activation
	insertions map[insertionKey][]rete.Fact

	firing       bool
	firingRuleID string
}

// SetFiring marks ruleID as the production currently executing its RHS.
// Called by the firing loop (package session) before invoking a
// production's RHS; not part of the rete.TransientMemory interface
// since only the firing loop needs to set it — ProductionNode only
// reads it via CurrentlyFiring.
func (t *Transient) SetFiring(ruleID string) {
	t.mustBeValid()
	t.firing = true
	t.firingRuleID = ruleID
}

// ClearFiring clears the currently-firing marker once an RHS returns.
func (t *Transient) ClearFiring() {
	t.mustBeValid()
	t.firing = false
	t.firingRuleID = ""
}

// CurrentlyFiring implements rete.TransientMemory.
func (t *Transient) CurrentlyFiring() (string, bool) {
	t.mustBeValid()
	return t.firingRuleID, t.firing
}

func newTransient(src *Persistent) *Transient {
	t := &Transient{
		valid:      true,
		tokens:     make(map[scopeKey][]tokenEntry),
		elements:   make(map[scopeKey][]elementEntry),
		accum:      make(map[scopeKey][]rete.AccumGroup),
		accumIdx:   make(map[scopeKey]map[rete.Hash]int),
		insertions: make(map[insertionKey][]rete.Fact),
	}
	if src == nil {
		return t
	}
	for k, v := range src.tokens {
		t.tokens[k] = append([]tokenEntry(nil), v...)
	}
	for k, v := range src.elements {
		t.elements[k] = append([]elementEntry(nil), v...)
	}
	for k, v := range src.accum {
		t.accum[k] = append([]rete.AccumGroup(nil), v...)
		idx := make(map[rete.Hash]int, len(v))
		for i, g := range v {
			idx[rete.AccumGroupHash(g.FactBindings)] = i
		}
		t.accumIdx[k] = idx
	}
	t.agenda = append([]rete.Activation(nil), src.agenda...)
	for k, v := range src.insertions {
		t.insertions[k] = append([]rete.Fact(nil), v...)
	}
	return t
}

func (t *Transient) mustBeValid() {
	if !t.valid {
		panic(rete.NewEngineError(rete.ErrInvalidatedTransient,
			"transient memory used after ToPersistent", nil))
	}
}

// AddTokens appends tokens to the (node, join-bindings) token-set,
// deduplicating by content hash — re-adding a token already present is
// a no-op for that token.
func (t *Transient) AddTokens(nodeID string, joinBindings rete.Bindings, tokens []rete.Token) {
	t.mustBeValid()
	key := scopeKey{nodeID, rete.ScopeHash(joinBindings)}
	existing := t.tokens[key]
	for _, tok := range tokens {
		h := tok.Hash()
		if containsTokenHash(existing, h) {
			continue
		}
		existing = append(existing, tokenEntry{hash: h, token: tok})
	}
	t.tokens[key] = existing
}

func containsTokenHash(entries []tokenEntry, h rete.Hash) bool {
	for _, e := range entries {
		if e.hash == h {
			return true
		}
	}
	return false
}

// RemoveTokens removes the given tokens from the (node, join-bindings)
// token-set and returns exactly the subset that was actually present.
func (t *Transient) RemoveTokens(nodeID string, joinBindings rete.Bindings, tokens []rete.Token) []rete.Token {
	t.mustBeValid()
	key := scopeKey{nodeID, rete.ScopeHash(joinBindings)}
	existing := t.tokens[key]
	var removed []rete.Token
	for _, tok := range tokens {
		h := tok.Hash()
		for i, e := range existing {
			if e.hash == h {
				removed = append(removed, e.token)
				existing = append(existing[:i], existing[i+1:]...)
				break
			}
		}
	}
	t.tokens[key] = existing
	return removed
}

// GetTokens returns the stored tokens for (node, join-bindings) in
// insertion order.
func (t *Transient) GetTokens(nodeID string, joinBindings rete.Bindings) []rete.Token {
	t.mustBeValid()
	key := scopeKey{nodeID, rete.ScopeHash(joinBindings)}
	entries := t.tokens[key]
	out := make([]rete.Token, len(entries))
	for i, e := range entries {
		out[i] = e.token
	}
	return out
}

// CountTokens reports how many tokens are stored for (node,
// join-bindings) without copying them, the fast path QueryNode.Count
// uses in place of GetTokens when a caller only needs a row count.
func (t *Transient) CountTokens(nodeID string, joinBindings rete.Bindings) int {
	t.mustBeValid()
	key := scopeKey{nodeID, rete.ScopeHash(joinBindings)}
	return len(t.tokens[key])
}

// AddElements appends elements to the (node, join-bindings) element-set,
// deduplicating by content hash.
func (t *Transient) AddElements(nodeID string, joinBindings rete.Bindings, elements []rete.Element) {
	t.mustBeValid()
	key := scopeKey{nodeID, rete.ScopeHash(joinBindings)}
	existing := t.elements[key]
	for _, el := range elements {
		h := el.Hash()
		if containsElementHash(existing, h) {
			continue
		}
		existing = append(existing, elementEntry{hash: h, element: el})
	}
	t.elements[key] = existing
}

func containsElementHash(entries []elementEntry, h rete.Hash) bool {
	for _, e := range entries {
		if e.hash == h {
			return true
		}
	}
	return false
}

// RemoveElements removes the given elements from the (node,
// join-bindings) element-set and returns exactly the subset actually
// removed.
func (t *Transient) RemoveElements(nodeID string, joinBindings rete.Bindings, elements []rete.Element) []rete.Element {
	t.mustBeValid()
	key := scopeKey{nodeID, rete.ScopeHash(joinBindings)}
	existing := t.elements[key]
	var removed []rete.Element
	for _, el := range elements {
		h := el.Hash()
		for i, e := range existing {
			if e.hash == h {
				removed = append(removed, e.element)
				existing = append(existing[:i], existing[i+1:]...)
				break
			}
		}
	}
	t.elements[key] = existing
	return removed
}

// GetElements returns the stored elements for (node, join-bindings) in
// insertion order.
func (t *Transient) GetElements(nodeID string, joinBindings rete.Bindings) []rete.Element {
	t.mustBeValid()
	key := scopeKey{nodeID, rete.ScopeHash(joinBindings)}
	entries := t.elements[key]
	out := make([]rete.Element, len(entries))
	for i, e := range entries {
		out[i] = e.element
	}
	return out
}

// AddAccumReduced stores (or overwrites) the reduced state for a
// (node, join-bindings, fact-bindings) group.
func (t *Transient) AddAccumReduced(nodeID string, joinBindings, factBindings rete.Bindings, state rete.AccumState) {
	t.mustBeValid()
	key := scopeKey{nodeID, rete.ScopeHash(joinBindings)}
	h := rete.AccumGroupHash(factBindings)
	idx, ok := t.accumIdx[key]
	if !ok {
		idx = make(map[rete.Hash]int)
		t.accumIdx[key] = idx
	}
	if i, ok := idx[h]; ok {
		t.accum[key][i].State = state
		return
	}
	idx[h] = len(t.accum[key])
	t.accum[key] = append(t.accum[key], rete.AccumGroup{FactBindings: factBindings, State: state})
}

// GetAccumReduced looks up the reduced state for a group.
func (t *Transient) GetAccumReduced(nodeID string, joinBindings, factBindings rete.Bindings) (rete.AccumState, bool) {
	t.mustBeValid()
	key := scopeKey{nodeID, rete.ScopeHash(joinBindings)}
	h := rete.AccumGroupHash(factBindings)
	idx, ok := t.accumIdx[key]
	if !ok {
		return nil, false
	}
	i, ok := idx[h]
	if !ok {
		return nil, false
	}
	return t.accum[key][i].State, true
}

// RemoveAccumReduced deletes a group's stored state entirely.
func (t *Transient) RemoveAccumReduced(nodeID string, joinBindings, factBindings rete.Bindings) {
	t.mustBeValid()
	key := scopeKey{nodeID, rete.ScopeHash(joinBindings)}
	h := rete.AccumGroupHash(factBindings)
	idx, ok := t.accumIdx[key]
	if !ok {
		return
	}
	i, ok := idx[h]
	if !ok {
		return
	}
	groups := t.accum[key]
	t.accum[key] = append(groups[:i], groups[i+1:]...)
	delete(idx, h)
	for hh, ii := range idx {
		if ii > i {
			idx[hh] = ii - 1
		}
	}
}

// AllAccumReduced returns every stored group for (node, join-bindings)
// in insertion order, for pre-reduce / right-activate-reduced.
func (t *Transient) AllAccumReduced(nodeID string, joinBindings rete.Bindings) []rete.AccumGroup {
	t.mustBeValid()
	key := scopeKey{nodeID, rete.ScopeHash(joinBindings)}
	return append([]rete.AccumGroup(nil), t.accum[key]...)
}

// AddActivations appends activations to the agenda, skipping any
// activation already present (same node + token identity).
func (t *Transient) AddActivations(activations []rete.Activation) {
	t.mustBeValid()
	for _, a := range activations {
		if t.agendaIndex(a.Key()) >= 0 {
			continue
		}
		t.agenda = append(t.agenda, a)
	}
}

// RemoveActivations removes the given activations from the agenda.
func (t *Transient) RemoveActivations(activations []rete.Activation) {
	t.mustBeValid()
	for _, a := range activations {
		if i := t.agendaIndex(a.Key()); i >= 0 {
			t.agenda = append(t.agenda[:i], t.agenda[i+1:]...)
		}
	}
}

// PopActivation removes and returns the first pending activation in
// agenda order. ok is false when the agenda is empty.
func (t *Transient) PopActivation() (rete.Activation, bool) {
	t.mustBeValid()
	if len(t.agenda) == 0 {
		return rete.Activation{}, false
	}
	a := t.agenda[0]
	t.agenda = t.agenda[1:]
	return a, true
}

func (t *Transient) agendaIndex(key rete.ActivationKey) int {
	for i, a := range t.agenda {
		if a.Key() == key {
			return i
		}
	}
	return -1
}

// RecordInsertions appends the facts a production's RHS inserted while
// the given token was active, for later cascade-retraction.
func (t *Transient) RecordInsertions(prodNodeID string, token rete.Token, facts []rete.Fact) {
	t.mustBeValid()
	key := insertionKey{prodNodeID, token.Hash()}
	t.insertions[key] = append(t.insertions[key], facts...)
}

// RemoveInsertions deletes and returns every fact recorded for
// (prodNodeID, token), used to cascade-retract them when the token is
// revoked.
func (t *Transient) RemoveInsertions(prodNodeID string, token rete.Token) []rete.Fact {
	t.mustBeValid()
	key := insertionKey{prodNodeID, token.Hash()}
	facts := t.insertions[key]
	delete(t.insertions, key)
	return facts
}

var _ rete.TransientMemory = (*Transient)(nil)
