package rete

// NodeKind tags which beta/terminal node variant a Node is. The network
// package implements each kind as its own concrete type; NodeKind lets
// listener traces and memory keys refer to "a node" generically without
// a type switch over concrete network types.
type NodeKind string

const (
	KindRootJoin   NodeKind = "root-join"
	KindJoin       NodeKind = "join"
	KindNegation   NodeKind = "negation"
	KindTest       NodeKind = "test"
	KindAccumulate NodeKind = "accumulate"
	KindProduction NodeKind = "production"
	KindQuery      NodeKind = "query"
)

// Node is the minimal identity every beta/terminal node exposes: an ID
// unique within a rulebase, a kind tag, and the join-keys used for
// grouping elements/tokens at this node.
type Node interface {
	NodeID() string
	Kind() NodeKind
	JoinKeys() []Var
	Description() string
}

// ActivatableNode is the left/right activation interface shared by every
// beta node (spec.md §4.D's "all beta nodes share the left/right
// activation interface plus get-join-keys and description"). Transport
// calls these; concrete implementations live in package network.
type ActivatableNode interface {
	Node
	LeftActivate(tx TransientMemory, lp TransientListener, joinBindings Bindings, tokens []Token)
	LeftRetract(tx TransientMemory, lp TransientListener, joinBindings Bindings, tokens []Token)
	RightActivate(tx TransientMemory, lp TransientListener, joinBindings Bindings, elements []Element)
	RightRetract(tx TransientMemory, lp TransientListener, joinBindings Bindings, elements []Element)
}

// ProductionRef is the terminal-node identity the agenda and insertion
// log depend on.
type ProductionRef interface {
	ActivatableNode
	RuleID() string
	NoLoop() bool
	RHS() RHS
}

// QueryNodeRef is the minimal interface Session.Query needs to look up
// stored bindings for a registered query.
type QueryNodeRef interface {
	ActivatableNode
	ParamKeys() []Var

	// Count reports how many tokens are stored for params without
	// copying their bindings, the fast path Session.Count uses.
	Count(tx TransientMemory, params Bindings) int
}
