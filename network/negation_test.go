package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticeforge/rete"
)

// TestNegationNode_WithholdThenRelease exercises the withhold/release
// life cycle: a token propagates while unblocked, is withdrawn the
// moment a blocking element arrives, and is re-propagated once the last
// blocking element is gone.
func TestNegationNode_WithholdThenRelease(t *testing.T) {
	out := newSink("sink")
	node := NewNegationNode("negation", []rete.Var{"?name"}, out)

	tx := freshTx()
	lp := freshLP()

	token := rete.RootToken().Extend(rete.NewFact("Person", nil), rete.Condition{ID: "person"}, rete.Bindings{"?name": rete.String("bob")})
	node.LeftActivate(tx, lp, rete.Bindings{"?name": rete.String("bob")}, []rete.Token{token})
	require.Len(t, out.leftActivated(), 1, "an unblocked token propagates immediately")

	blocker := rete.NewElement(rete.NewFact("Suspension", nil), rete.Bindings{"?name": rete.String("bob")})
	node.RightActivate(tx, lp, rete.Bindings{"?name": rete.String("bob")}, []rete.Element{blocker})
	require.Len(t, out.leftRetracted(), 1, "the first blocking element withdraws the previously propagated token")

	node.RightRetract(tx, lp, rete.Bindings{"?name": rete.String("bob")}, []rete.Element{blocker})
	activated := out.leftActivated()
	require.Len(t, activated, 2, "removing the last blocking element re-propagates the stored token")
	assert.Equal(t, rete.String("bob"), activated[1].Bindings["?name"])
}

// TestNegationNode_TokenArrivingWhileBlockedIsWithheld covers the
// reverse ordering: the blocker arrives first, so a later token must
// never reach the child.
func TestNegationNode_TokenArrivingWhileBlockedIsWithheld(t *testing.T) {
	out := newSink("sink")
	node := NewNegationNode("negation", []rete.Var{"?name"}, out)

	tx := freshTx()
	lp := freshLP()

	blocker := rete.NewElement(rete.NewFact("Suspension", nil), rete.Bindings{"?name": rete.String("bob")})
	node.RightActivate(tx, lp, rete.Bindings{"?name": rete.String("bob")}, []rete.Element{blocker})

	token := rete.RootToken().Extend(rete.NewFact("Person", nil), rete.Condition{ID: "person"}, rete.Bindings{"?name": rete.String("bob")})
	node.LeftActivate(tx, lp, rete.Bindings{"?name": rete.String("bob")}, []rete.Token{token})

	assert.Empty(t, out.leftActivated(), "a token arriving while blocked must be withheld, not propagated")

	node.RightRetract(tx, lp, rete.Bindings{"?name": rete.String("bob")}, []rete.Element{blocker})
	assert.Len(t, out.leftActivated(), 1, "releasing the block propagates the withheld token")
}

func TestNegationNode_RetractingWithheldTokenStaysSilent(t *testing.T) {
	out := newSink("sink")
	node := NewNegationNode("negation", []rete.Var{"?name"}, out)

	tx := freshTx()
	lp := freshLP()

	blocker := rete.NewElement(rete.NewFact("Suspension", nil), rete.Bindings{"?name": rete.String("bob")})
	node.RightActivate(tx, lp, rete.Bindings{"?name": rete.String("bob")}, []rete.Element{blocker})

	token := rete.RootToken().Extend(rete.NewFact("Person", nil), rete.Condition{ID: "person"}, rete.Bindings{"?name": rete.String("bob")})
	node.LeftActivate(tx, lp, rete.Bindings{"?name": rete.String("bob")}, []rete.Token{token})
	node.LeftRetract(tx, lp, rete.Bindings{"?name": rete.String("bob")}, []rete.Token{token})

	assert.Empty(t, out.leftRetracted(), "a token that was never propagated downstream must not be retracted downstream either")
}
