package rete

// AlphaNode is the compiler-supplied per-fact-type condition evaluator.
// Env is an opaque per-node configuration value supplied at compile
// time (e.g. the literal a condition tests a fact field against);
// Activate evaluates one fact against it and returns the bindings
// produced by a successful match, or ok=false on no match. Alpha nodes
// are purely functional over memory — they hold no state of their own;
// the element-set they feed lives on the beta side.
type AlphaNode struct {
	ID        string
	Type      FactType
	Condition Condition
	Env       any
	Activate  func(fact Fact, env any) (Bindings, bool)
	Children  []ActivatableNode
}

// Rulebase is the opaque compiler output a Session is constructed from
// (spec.md §6). The core never mutates it; it walks AlphaRoots at
// insert/retract time, seeds BetaRoots at session construction, and
// looks up ProductionNodes/QueryNodes by name.
type Rulebase struct {
	// AlphaRoots maps a fact type to every alpha node registered for
	// it. A fact insertion presents the fact to every alpha root under
	// its type.
	AlphaRoots map[FactType][]*AlphaNode

	// BetaRoots is the set of nodes left-activated with the empty token
	// at working-memory construction. For a RootJoinNode this is a
	// no-op (its left side is forever the empty token); other node
	// kinds occupying the root position of a rule honor the seed
	// normally.
	BetaRoots []ActivatableNode

	// ProductionNodes is every production node whose agenda entries
	// fire-rules drains.
	ProductionNodes []ProductionRef

	// QueryNodes maps a query name to its node.
	QueryNodes map[string]QueryNodeRef
}
