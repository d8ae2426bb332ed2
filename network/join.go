package network

import (
	"github.com/latticeforge/rete"
	"github.com/latticeforge/rete/transport"
)

// JoinNode combines tokens arriving on its left side with elements
// arriving on its right side, keyed by their shared join-bindings
// (spec.md §4.D). Each side stores its own half of the join in memory
// so a later arrival on either side can be crossed against everything
// already stored on the other.
type JoinNode struct {
	base
	Condition rete.Condition
	Children  []rete.ActivatableNode
}

// NewJoinNode constructs a JoinNode for the given condition and
// join-keys.
func NewJoinNode(id string, joinKeys []rete.Var, condition rete.Condition, children ...rete.ActivatableNode) *JoinNode {
	return &JoinNode{
		base:      base{id: id, kind: rete.KindJoin, description: "join:" + id, joinKeys: joinKeys},
		Condition: condition,
		Children:  children,
	}
}

// LeftActivate stores the tokens and crosses them against every element
// already stored under the same join-bindings.
func (n *JoinNode) LeftActivate(tx rete.TransientMemory, lp rete.TransientListener, joinBindings rete.Bindings, tokens []rete.Token) {
	tx.AddTokens(n.id, joinBindings, tokens)
	lp.LeftActivate(n, tokens)
	elements := tx.GetElements(n.id, joinBindings)
	if len(elements) == 0 {
		return
	}
	out := n.cross(tokens, elements)
	transport.SendTokens(tx, lp, n.Children, out)
}

// RightActivate stores the elements and crosses them against every
// token already stored under the same join-bindings.
func (n *JoinNode) RightActivate(tx rete.TransientMemory, lp rete.TransientListener, joinBindings rete.Bindings, elements []rete.Element) {
	tx.AddElements(n.id, joinBindings, elements)
	lp.RightActivate(n, elements)
	tokens := tx.GetTokens(n.id, joinBindings)
	if len(tokens) == 0 {
		return
	}
	out := n.cross(tokens, elements)
	transport.SendTokens(tx, lp, n.Children, out)
}

// LeftRetract removes the tokens actually stored and retracts their
// cross-product with every currently stored element.
func (n *JoinNode) LeftRetract(tx rete.TransientMemory, lp rete.TransientListener, joinBindings rete.Bindings, tokens []rete.Token) {
	removed := tx.RemoveTokens(n.id, joinBindings, tokens)
	if len(removed) == 0 {
		return
	}
	lp.LeftRetract(n, removed)
	elements := tx.GetElements(n.id, joinBindings)
	if len(elements) == 0 {
		return
	}
	out := n.cross(removed, elements)
	transport.RetractTokens(tx, lp, n.Children, out)
}

// RightRetract removes the elements actually stored and retracts their
// cross-product with every currently stored token.
func (n *JoinNode) RightRetract(tx rete.TransientMemory, lp rete.TransientListener, joinBindings rete.Bindings, elements []rete.Element) {
	removed := tx.RemoveElements(n.id, joinBindings, elements)
	if len(removed) == 0 {
		return
	}
	lp.RightRetract(n, removed)
	tokens := tx.GetTokens(n.id, joinBindings)
	if len(tokens) == 0 {
		return
	}
	out := n.cross(tokens, removed)
	transport.RetractTokens(tx, lp, n.Children, out)
}

func (n *JoinNode) cross(tokens []rete.Token, elements []rete.Element) []rete.Token {
	out := make([]rete.Token, 0, len(tokens)*len(elements))
	for _, t := range tokens {
		for _, e := range elements {
			out = append(out, t.Extend(e.Fact, n.Condition, e.Bindings))
		}
	}
	return out
}

var _ rete.ActivatableNode = (*JoinNode)(nil)
