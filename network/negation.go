package network

import (
	"github.com/latticeforge/rete"
	"github.com/latticeforge/rete/transport"
)

// NegationNode propagates a left token only while zero elements are
// stored for its join-bindings (spec.md §4.D "negation"). A token that
// arrives while elements are already present is withheld rather than
// propagated-then-retracted, and only crosses to children once the last
// blocking element is retracted.
type NegationNode struct {
	base
	Children []rete.ActivatableNode
}

// NewNegationNode constructs a NegationNode.
func NewNegationNode(id string, joinKeys []rete.Var, children ...rete.ActivatableNode) *NegationNode {
	return &NegationNode{
		base:     base{id: id, kind: rete.KindNegation, description: "negation:" + id, joinKeys: joinKeys},
		Children: children,
	}
}

// LeftActivate stores the tokens and propagates only those for which no
// blocking element is currently stored.
func (n *NegationNode) LeftActivate(tx rete.TransientMemory, lp rete.TransientListener, joinBindings rete.Bindings, tokens []rete.Token) {
	tx.AddTokens(n.id, joinBindings, tokens)
	lp.LeftActivate(n, tokens)
	if len(tx.GetElements(n.id, joinBindings)) > 0 {
		return
	}
	transport.SendTokens(tx, lp, n.Children, tokens)
}

// LeftRetract removes the tokens actually stored and retracts them
// downstream only if they were not being withheld.
func (n *NegationNode) LeftRetract(tx rete.TransientMemory, lp rete.TransientListener, joinBindings rete.Bindings, tokens []rete.Token) {
	removed := tx.RemoveTokens(n.id, joinBindings, tokens)
	if len(removed) == 0 {
		return
	}
	lp.LeftRetract(n, removed)
	if len(tx.GetElements(n.id, joinBindings)) > 0 {
		return
	}
	transport.RetractTokens(tx, lp, n.Children, removed)
}

// RightActivate stores the elements; if this is the first element for
// the join-bindings, every previously propagated token is retracted.
func (n *NegationNode) RightActivate(tx rete.TransientMemory, lp rete.TransientListener, joinBindings rete.Bindings, elements []rete.Element) {
	wasUnblocked := len(tx.GetElements(n.id, joinBindings)) == 0
	tx.AddElements(n.id, joinBindings, elements)
	lp.RightActivate(n, elements)
	if !wasUnblocked {
		return
	}
	tokens := tx.GetTokens(n.id, joinBindings)
	if len(tokens) == 0 {
		return
	}
	transport.RetractTokens(tx, lp, n.Children, tokens)
}

// RightRetract removes the elements actually stored; if none remain,
// every stored token is now propagated.
func (n *NegationNode) RightRetract(tx rete.TransientMemory, lp rete.TransientListener, joinBindings rete.Bindings, elements []rete.Element) {
	removed := tx.RemoveElements(n.id, joinBindings, elements)
	if len(removed) == 0 {
		return
	}
	lp.RightRetract(n, removed)
	if len(tx.GetElements(n.id, joinBindings)) > 0 {
		return
	}
	tokens := tx.GetTokens(n.id, joinBindings)
	if len(tokens) == 0 {
		return
	}
	transport.SendTokens(tx, lp, n.Children, tokens)
}

var _ rete.ActivatableNode = (*NegationNode)(nil)
