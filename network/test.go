package network

import (
	"github.com/latticeforge/rete"
	"github.com/latticeforge/rete/transport"
)

// TestNode filters tokens by a predicate over bindings (spec.md §4.D
// "test"). It holds no memory of its own. LeftActivate filters by
// Predicate before forwarding; LeftRetract forwards every token without
// re-testing it, which relies on Predicate being a pure function of a
// token's bindings.
type TestNode struct {
	base
	Predicate func(bindings rete.Bindings) bool
	Children  []rete.ActivatableNode
}

// NewTestNode constructs a TestNode.
func NewTestNode(id string, joinKeys []rete.Var, predicate func(rete.Bindings) bool, children ...rete.ActivatableNode) *TestNode {
	return &TestNode{
		base:      base{id: id, kind: rete.KindTest, description: "test:" + id, joinKeys: joinKeys},
		Predicate: predicate,
		Children:  children,
	}
}

// LeftActivate forwards only the tokens whose bindings satisfy Predicate.
func (n *TestNode) LeftActivate(tx rete.TransientMemory, lp rete.TransientListener, joinBindings rete.Bindings, tokens []rete.Token) {
	lp.LeftActivate(n, tokens)
	passing := n.filter(tokens)
	if len(passing) == 0 {
		return
	}
	transport.SendTokens(tx, lp, n.Children, passing)
}

// LeftRetract forwards every retracted token unconditionally, without
// re-evaluating Predicate. TestNode keeps no memory of which tokens it
// passed, and re-testing here would be redundant: a child's own
// LeftRetract only acts on tokens it actually has stored, so forwarding
// a token that never passed Predicate is a harmless no-op downstream.
func (n *TestNode) LeftRetract(tx rete.TransientMemory, lp rete.TransientListener, joinBindings rete.Bindings, tokens []rete.Token) {
	lp.LeftRetract(n, tokens)
	if len(tokens) == 0 {
		return
	}
	transport.RetractTokens(tx, lp, n.Children, tokens)
}

// RightActivate is a no-op: TestNode has no right input.
func (n *TestNode) RightActivate(rete.TransientMemory, rete.TransientListener, rete.Bindings, []rete.Element) {
}

// RightRetract is a no-op for the same reason.
func (n *TestNode) RightRetract(rete.TransientMemory, rete.TransientListener, rete.Bindings, []rete.Element) {
}

func (n *TestNode) filter(tokens []rete.Token) []rete.Token {
	out := make([]rete.Token, 0, len(tokens))
	for _, t := range tokens {
		if n.Predicate(t.Bindings) {
			out = append(out, t)
		}
	}
	return out
}

var _ rete.ActivatableNode = (*TestNode)(nil)
