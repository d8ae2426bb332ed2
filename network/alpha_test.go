package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticeforge/rete"
	"github.com/latticeforge/rete/retetest/fixture"
)

func TestAlphaActivate_MatchingFactsReachChildren(t *testing.T) {
	out := newSink("sink")
	alpha := fixture.NewAlphaNode("alpha:person", "Person", fixture.BindFields(map[string]rete.Var{"name": "?name", "age": "?age"}), out)

	tx := freshTx()
	lp := freshLP()

	alice := rete.NewFact("Person", rete.Object{"name": rete.String("alice"), "age": rete.Int(34)})
	other := rete.NewFact("Order", rete.Object{"customer": rete.String("alice")})

	AlphaActivate(tx, lp, []*rete.AlphaNode{alpha}, []rete.Fact{alice, other})

	require.Len(t, out.calls, 1, "only the one matching alpha node should fire")
	elements := out.calls[0].elements
	require.Len(t, elements, 1)
	assert.Equal(t, rete.String("alice"), elements[0].Bindings["?name"])
}

func TestAlphaActivate_UnmatchedFieldsSkip(t *testing.T) {
	out := newSink("sink")
	alpha := fixture.NewAlphaNode("alpha:person", "Person", fixture.BindFields(map[string]rete.Var{"name": "?name", "age": "?age"}), out)

	tx := freshTx()
	lp := freshLP()

	incomplete := rete.NewFact("Person", rete.Object{"name": rete.String("alice")})

	AlphaActivate(tx, lp, []*rete.AlphaNode{alpha}, []rete.Fact{incomplete})

	assert.Empty(t, out.calls, "a fact missing a bound field must not match the alpha node")
}

func TestAlphaRetract_MirrorsActivate(t *testing.T) {
	out := newSink("sink")
	alpha := fixture.NewAlphaNode("alpha:person", "Person", fixture.BindFields(map[string]rete.Var{"name": "?name"}), out)

	tx := freshTx()
	lp := freshLP()

	alice := rete.NewFact("Person", rete.Object{"name": rete.String("alice")})
	AlphaActivate(tx, lp, []*rete.AlphaNode{alpha}, []rete.Fact{alice})
	AlphaRetract(tx, lp, []*rete.AlphaNode{alpha}, []rete.Fact{alice})

	require.Len(t, out.calls, 2)
	assert.Equal(t, "right-activate", out.calls[0].kind)
	assert.Equal(t, "right-retract", out.calls[1].kind)
}
