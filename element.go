package rete

// Element is a single-fact match entering the beta network from an
// alpha node: the fact together with the bindings its condition
// produced. Elements flow into the right side of beta nodes.
type Element struct {
	Fact     Fact
	Bindings Bindings
}

// Hash returns the element's content-addressed identity, used as the
// working-memory key for this element within a (node, join-bindings)
// scope.
func (e Element) Hash() Hash {
	return ElementHash(e.Bindings)
}

// NewElement constructs an Element.
func NewElement(fact Fact, bindings Bindings) Element {
	return Element{Fact: fact, Bindings: bindings}
}
