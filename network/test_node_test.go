package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticeforge/rete"
)

func adultPredicate(b rete.Bindings) bool {
	age, ok := b["?age"].(rete.Int)
	return ok && age >= 21
}

func TestTestNode_FiltersByPredicate(t *testing.T) {
	out := newSink("sink")
	node := NewTestNode("test", nil, adultPredicate, out)

	tx := freshTx()
	lp := freshLP()

	adult := rete.RootToken().Extend(rete.NewFact("Person", nil), rete.Condition{ID: "person"}, rete.Bindings{"?name": rete.String("alice"), "?age": rete.Int(34)})
	minor := rete.RootToken().Extend(rete.NewFact("Person", nil), rete.Condition{ID: "person"}, rete.Bindings{"?name": rete.String("bob"), "?age": rete.Int(17)})

	node.LeftActivate(tx, lp, rete.EmptyBindings(), []rete.Token{adult, minor})

	activated := out.leftActivated()
	require.Len(t, activated, 1, "only the passing token should reach the child")
	assert.Equal(t, rete.String("alice"), activated[0].Bindings["?name"])
}

func TestTestNode_RetractForwardsUnconditionally(t *testing.T) {
	out := newSink("sink")
	node := NewTestNode("test", nil, adultPredicate, out)

	tx := freshTx()
	lp := freshLP()

	minor := rete.RootToken().Extend(rete.NewFact("Person", nil), rete.Condition{ID: "person"}, rete.Bindings{"?name": rete.String("bob"), "?age": rete.Int(17)})

	// Never passed the predicate, so never stored by any real child -
	// but TestNode itself keeps no memory and must forward retracts
	// unconditionally regardless.
	node.LeftRetract(tx, lp, rete.EmptyBindings(), []rete.Token{minor})

	retracted := out.leftRetracted()
	require.Len(t, retracted, 1, "LeftRetract forwards every token without re-testing the predicate")
	assert.Equal(t, rete.String("bob"), retracted[0].Bindings["?name"])
}

func TestTestNode_RightSideIsNoOp(t *testing.T) {
	out := newSink("sink")
	node := NewTestNode("test", nil, adultPredicate, out)

	tx := freshTx()
	lp := freshLP()

	node.RightActivate(tx, lp, rete.EmptyBindings(), []rete.Element{rete.NewElement(rete.NewFact("Person", nil), rete.EmptyBindings())})
	node.RightRetract(tx, lp, rete.EmptyBindings(), []rete.Element{rete.NewElement(rete.NewFact("Person", nil), rete.EmptyBindings())})

	assert.Empty(t, out.calls, "TestNode has no right input and must propagate nothing for it")
}
