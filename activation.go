package rete

// Activation is a pending execution of a production's RHS against a
// specific token. Activations are queued on the agenda by
// ProductionNode.LeftActivate and drained by the firing loop.
type Activation struct {
	Node  ProductionRef
	Token Token
}

// ActivationRecord is the listener-facing read-only view of an
// Activation, used where a concrete ProductionRef would over-expose the
// node's activation methods to an observer.
type ActivationRecord struct {
	NodeID string
	RuleID string
	Token  Token
}

// Key identifies an activation for agenda membership and for the
// insertion log. Two activations for the same production node and the
// same token bindings are the same activation.
func (a Activation) Key() ActivationKey {
	return ActivationKey{NodeID: a.Node.NodeID(), TokenHash: a.Token.Hash()}
}

// ActivationKey is the hashable identity of an Activation.
type ActivationKey struct {
	NodeID    string
	TokenHash Hash
}
