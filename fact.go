package rete

// FactType is the type tag used to index alpha roots. A fact presented
// to Session.Insert is routed to every alpha root registered under its
// FactType — nothing else about the fact's shape is inspected by the
// core.
type FactType string

// Fact is an opaque user-supplied value carrying an inspectable type
// tag. The core never looks inside Value; only alpha-node activation
// functions, which are supplied by the compiler, do.
type Fact struct {
	Type  FactType
	Value any
}

// NewFact wraps a value with its type tag.
func NewFact(t FactType, v any) Fact {
	return Fact{Type: t, Value: v}
}
