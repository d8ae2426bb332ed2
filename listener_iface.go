package rete

// TransientListener is the mutable, single-call observer surface every
// propagation event is reported to (spec.md §4.G / §6 "Listener
// surface"). Implementations must not mutate memory or the session —
// they are strictly observers. A concrete implementation lives in
// package listener.
type TransientListener interface {
	LeftActivate(node Node, tokens []Token)
	LeftRetract(node Node, tokens []Token)
	RightActivate(node Node, elements []Element)
	RightRetract(node Node, elements []Element)
	InsertFacts(facts []Fact)
	RetractFacts(facts []Fact)
	AddAccumReduced(node Node, joinBindings Bindings, reduced Value, factBindings Bindings)
	AddActivations(node Node, activations []ActivationRecord)
	RemoveActivations(node Node, activations []ActivationRecord)
	FireRules(node Node)
	SendMessage(message string)
}
