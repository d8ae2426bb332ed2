package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticeforge/rete"
)

func noopRHS(rete.RuleContext, rete.Bindings) error { return nil }

func TestProductionNode_EnqueuesOneActivationPerToken(t *testing.T) {
	node := NewProductionNode("production:p1", "p1", false, noopRHS, nil)

	tx := freshTx()
	lp := freshLP()

	tokens := []rete.Token{
		rete.RootToken().Extend(rete.NewFact("Person", nil), rete.Condition{ID: "person"}, rete.Bindings{"?name": rete.String("alice")}),
		rete.RootToken().Extend(rete.NewFact("Person", nil), rete.Condition{ID: "person"}, rete.Bindings{"?name": rete.String("carol")}),
	}
	node.LeftActivate(tx, lp, rete.EmptyBindings(), tokens)

	a, ok := tx.PopActivation()
	require.True(t, ok)
	assert.Equal(t, rete.String("alice"), a.Token.Bindings["?name"])
	a, ok = tx.PopActivation()
	require.True(t, ok)
	assert.Equal(t, rete.String("carol"), a.Token.Bindings["?name"])
	_, ok = tx.PopActivation()
	assert.False(t, ok, "only the two enqueued activations should be present")
}

// TestProductionNode_NoLoopGateDropsSelfReactivation covers spec.md's
// no-loop scenario: while a no-loop production's own RHS is executing,
// tokens that would reactivate it are dropped instead of enqueued.
func TestProductionNode_NoLoopGateDropsSelfReactivation(t *testing.T) {
	node := NewProductionNode("production:p1", "p1", true, noopRHS, nil)

	tx := freshTx()
	lp := freshLP()

	token := rete.RootToken().Extend(rete.NewFact("Person", nil), rete.Condition{ID: "person"}, rete.Bindings{"?name": rete.String("alice")})

	tx.SetFiring("p1")
	node.LeftActivate(tx, lp, rete.EmptyBindings(), []rete.Token{token})
	_, ok := tx.PopActivation()
	assert.False(t, ok, "a no-loop production must not reactivate itself while its own RHS is running")

	tx.ClearFiring()
	node.LeftActivate(tx, lp, rete.EmptyBindings(), []rete.Token{token})
	_, ok = tx.PopActivation()
	assert.True(t, ok, "once the gate clears, the same token activates normally")
}

func TestProductionNode_NoLoopGateIgnoresOtherRules(t *testing.T) {
	node := NewProductionNode("production:p2", "p2", true, noopRHS, nil)

	tx := freshTx()
	lp := freshLP()
	tx.SetFiring("p1")

	token := rete.RootToken().Extend(rete.NewFact("Person", nil), rete.Condition{ID: "person"}, rete.Bindings{"?name": rete.String("alice")})
	node.LeftActivate(tx, lp, rete.EmptyBindings(), []rete.Token{token})

	_, ok := tx.PopActivation()
	assert.True(t, ok, "the no-loop gate only withholds a production's own rule, not an unrelated one that is firing")
}

// TestProductionNode_RetractCascadesAlphaRetract verifies that
// retracting an activated token both withdraws the pending activation
// and invokes AlphaRetract with whatever facts the RHS had inserted
// while that token was active.
func TestProductionNode_RetractCascadesAlphaRetract(t *testing.T) {
	var retracted []rete.Fact
	alphaRetract := func(_ rete.TransientMemory, _ rete.TransientListener, facts []rete.Fact) {
		retracted = append(retracted, facts...)
	}
	node := NewProductionNode("production:p1", "p1", false, noopRHS, alphaRetract)

	tx := freshTx()
	lp := freshLP()

	token := rete.RootToken().Extend(rete.NewFact("Person", nil), rete.Condition{ID: "person"}, rete.Bindings{"?name": rete.String("alice")})
	node.LeftActivate(tx, lp, rete.EmptyBindings(), []rete.Token{token})

	inserted := rete.NewFact("Adult", rete.Object{"name": rete.String("alice")})
	tx.RecordInsertions(node.NodeID(), token, []rete.Fact{inserted})

	node.LeftRetract(tx, lp, rete.EmptyBindings(), []rete.Token{token})

	require.Len(t, retracted, 1, "the fact the RHS inserted for this token must be cascade-retracted")
	assert.Equal(t, rete.FactType("Adult"), retracted[0].Type)

	_, ok := tx.PopActivation()
	assert.False(t, ok, "the pending activation for the retracted token must be withdrawn")
}
