package network

import (
	"github.com/latticeforge/rete"
	"github.com/latticeforge/rete/transport"
)

// RootJoinNode is the beta root that turns a single alpha node's
// elements directly into child tokens. Its left side is forever the
// empty token, so LeftActivate/LeftRetract are no-ops (spec.md §4.D).
type RootJoinNode struct {
	base
	Condition rete.Condition
	Children  []rete.ActivatableNode
}

// NewRootJoinNode constructs a RootJoinNode. joinKeys are the variables
// this node's single condition binds that downstream joins key on.
func NewRootJoinNode(id string, joinKeys []rete.Var, condition rete.Condition, children ...rete.ActivatableNode) *RootJoinNode {
	return &RootJoinNode{
		base:      base{id: id, kind: rete.KindRootJoin, description: "root-join:" + id, joinKeys: joinKeys},
		Condition: condition,
		Children:  children,
	}
}

// LeftActivate is a no-op: RootJoinNode's left side is always the
// implicit empty token.
func (n *RootJoinNode) LeftActivate(rete.TransientMemory, rete.TransientListener, rete.Bindings, []rete.Token) {
}

// LeftRetract is a no-op for the same reason.
func (n *RootJoinNode) LeftRetract(rete.TransientMemory, rete.TransientListener, rete.Bindings, []rete.Token) {
}

// RightActivate adds the elements to memory and propagates one child
// token per element.
func (n *RootJoinNode) RightActivate(tx rete.TransientMemory, lp rete.TransientListener, joinBindings rete.Bindings, elements []rete.Element) {
	tx.AddElements(n.id, joinBindings, elements)
	lp.RightActivate(n, elements)
	tokens := make([]rete.Token, len(elements))
	for i, e := range elements {
		tokens[i] = rete.RootToken().Extend(e.Fact, n.Condition, e.Bindings)
	}
	transport.SendTokens(tx, lp, n.Children, tokens)
}

// RightRetract removes the elements actually stored and propagates
// token retractions built from that removed set only.
func (n *RootJoinNode) RightRetract(tx rete.TransientMemory, lp rete.TransientListener, joinBindings rete.Bindings, elements []rete.Element) {
	removed := tx.RemoveElements(n.id, joinBindings, elements)
	if len(removed) == 0 {
		return
	}
	lp.RightRetract(n, removed)
	tokens := make([]rete.Token, len(removed))
	for i, e := range removed {
		tokens[i] = rete.RootToken().Extend(e.Fact, n.Condition, e.Bindings)
	}
	transport.RetractTokens(tx, lp, n.Children, tokens)
}

var _ rete.ActivatableNode = (*RootJoinNode)(nil)
