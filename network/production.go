package network

import "github.com/latticeforge/rete"

// AlphaRetractFunc cascade-retracts facts a production's RHS previously
// inserted, by re-entering the alpha network the way Session.Retract
// would. It is supplied at construction time by whatever builds the
// Rulebase, since ProductionNode itself holds no reference to the
// alpha roots (spec.md §4.H step 3, "cascade retraction").
type AlphaRetractFunc func(tx rete.TransientMemory, lp rete.TransientListener, facts []rete.Fact)

// ProductionNode is a terminal node: every left token it receives
// becomes a pending agenda activation rather than propagating further
// (spec.md §4.D "production"). It has no right side.
type ProductionNode struct {
	base
	ruleID       string
	noLoop       bool
	rhs          rete.RHS
	AlphaRetract AlphaRetractFunc
}

// NewProductionNode constructs a ProductionNode for ruleID. noLoop
// enables the no-loop gate (spec.md §4.E): while ruleID's own RHS is
// executing, tokens that would reactivate this same production are
// dropped rather than enqueued. rhs is the compiler-supplied action the
// firing loop invokes for each of this production's activations.
func NewProductionNode(id, ruleID string, noLoop bool, rhs rete.RHS, alphaRetract AlphaRetractFunc) *ProductionNode {
	return &ProductionNode{
		base:         base{id: id, kind: rete.KindProduction, description: "production:" + ruleID},
		ruleID:       ruleID,
		noLoop:       noLoop,
		rhs:          rhs,
		AlphaRetract: alphaRetract,
	}
}

// RuleID implements rete.ProductionRef.
func (n *ProductionNode) RuleID() string { return n.ruleID }

// NoLoop implements rete.ProductionRef.
func (n *ProductionNode) NoLoop() bool { return n.noLoop }

// RHS implements rete.ProductionRef.
func (n *ProductionNode) RHS() rete.RHS { return n.rhs }

// LeftActivate enqueues one activation per token, unless the no-loop
// gate is engaged for this production's own rule.
func (n *ProductionNode) LeftActivate(tx rete.TransientMemory, lp rete.TransientListener, joinBindings rete.Bindings, tokens []rete.Token) {
	lp.LeftActivate(n, tokens)
	if len(tokens) == 0 {
		return
	}
	firingRuleID, firing := tx.CurrentlyFiring()
	gated := n.noLoop && firing && firingRuleID == n.ruleID

	var activations []rete.Activation
	var records []rete.ActivationRecord
	for _, t := range tokens {
		if gated {
			continue
		}
		activations = append(activations, rete.Activation{Node: n, Token: t})
		records = append(records, rete.ActivationRecord{NodeID: n.id, RuleID: n.ruleID, Token: t})
	}
	if len(activations) == 0 {
		return
	}
	tx.AddActivations(activations)
	lp.AddActivations(n, records)
}

// LeftRetract withdraws any pending activation for the retracted tokens
// and cascade-retracts whatever facts this production's RHS inserted
// while each token was active.
func (n *ProductionNode) LeftRetract(tx rete.TransientMemory, lp rete.TransientListener, joinBindings rete.Bindings, tokens []rete.Token) {
	lp.LeftRetract(n, tokens)
	if len(tokens) == 0 {
		return
	}
	activations := make([]rete.Activation, len(tokens))
	records := make([]rete.ActivationRecord, len(tokens))
	for i, t := range tokens {
		activations[i] = rete.Activation{Node: n, Token: t}
		records[i] = rete.ActivationRecord{NodeID: n.id, RuleID: n.ruleID, Token: t}
	}
	tx.RemoveActivations(activations)
	lp.RemoveActivations(n, records)

	for _, t := range tokens {
		facts := tx.RemoveInsertions(n.id, t)
		if len(facts) > 0 && n.AlphaRetract != nil {
			n.AlphaRetract(tx, lp, facts)
		}
	}
}

// RightActivate is a no-op: ProductionNode has no right input.
func (n *ProductionNode) RightActivate(rete.TransientMemory, rete.TransientListener, rete.Bindings, []rete.Element) {
}

// RightRetract is a no-op for the same reason.
func (n *ProductionNode) RightRetract(rete.TransientMemory, rete.TransientListener, rete.Bindings, []rete.Element) {
}

var _ rete.ProductionRef = (*ProductionNode)(nil)
