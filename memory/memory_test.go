package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticeforge/rete"
)

func TestTransient_TokensDeduplicateByHash(t *testing.T) {
	tx := ToTransient(Empty())
	tok := rete.RootToken().Extend(rete.NewFact("Person", nil), rete.Condition{ID: "person"}, rete.Bindings{"?name": rete.String("alice")})

	tx.AddTokens("n1", rete.EmptyBindings(), []rete.Token{tok, tok})
	assert.Len(t, tx.GetTokens("n1", rete.EmptyBindings()), 1, "adding the same token twice must not duplicate it")

	removed := tx.RemoveTokens("n1", rete.EmptyBindings(), []rete.Token{tok})
	assert.Len(t, removed, 1)
	assert.Empty(t, tx.GetTokens("n1", rete.EmptyBindings()))
}

func TestTransient_CountTokensMatchesGetTokensLength(t *testing.T) {
	tx := ToTransient(Empty())
	alice := rete.RootToken().Extend(rete.NewFact("Person", nil), rete.Condition{ID: "person"}, rete.Bindings{"?name": rete.String("alice")})
	bob := rete.RootToken().Extend(rete.NewFact("Person", nil), rete.Condition{ID: "person"}, rete.Bindings{"?name": rete.String("bob")})

	assert.Equal(t, 0, tx.CountTokens("n1", rete.EmptyBindings()), "nothing stored yet means a count of zero, not a panic or error")

	tx.AddTokens("n1", rete.EmptyBindings(), []rete.Token{alice, bob})
	assert.Equal(t, len(tx.GetTokens("n1", rete.EmptyBindings())), tx.CountTokens("n1", rete.EmptyBindings()))
	assert.Equal(t, 2, tx.CountTokens("n1", rete.EmptyBindings()))

	tx.RemoveTokens("n1", rete.EmptyBindings(), []rete.Token{alice})
	assert.Equal(t, 1, tx.CountTokens("n1", rete.EmptyBindings()))
}

func TestTransient_RemoveTokensReturnsOnlyWhatWasPresent(t *testing.T) {
	tx := ToTransient(Empty())
	present := rete.RootToken().Extend(rete.NewFact("Person", nil), rete.Condition{ID: "person"}, rete.Bindings{"?name": rete.String("alice")})
	absent := rete.RootToken().Extend(rete.NewFact("Person", nil), rete.Condition{ID: "person"}, rete.Bindings{"?name": rete.String("bob")})

	tx.AddTokens("n1", rete.EmptyBindings(), []rete.Token{present})
	removed := tx.RemoveTokens("n1", rete.EmptyBindings(), []rete.Token{present, absent})
	require.Len(t, removed, 1, "removal reports exactly what was actually present")
	assert.Equal(t, rete.String("alice"), removed[0].Bindings["?name"])
}

func TestTransient_AccumReducedLifecycle(t *testing.T) {
	tx := ToTransient(Empty())
	group := rete.Bindings{"?customer": rete.String("alice")}

	_, ok := tx.GetAccumReduced("accum", rete.EmptyBindings(), group)
	assert.False(t, ok, "a group never added has no stored state")

	tx.AddAccumReduced("accum", rete.EmptyBindings(), group, rete.Int(10))
	state, ok := tx.GetAccumReduced("accum", rete.EmptyBindings(), group)
	require.True(t, ok)
	assert.Equal(t, rete.Int(10), state)

	tx.AddAccumReduced("accum", rete.EmptyBindings(), group, rete.Int(15))
	state, ok = tx.GetAccumReduced("accum", rete.EmptyBindings(), group)
	require.True(t, ok)
	assert.Equal(t, rete.Int(15), state, "re-adding an existing group overwrites its state in place")

	all := tx.AllAccumReduced("accum", rete.EmptyBindings())
	require.Len(t, all, 1)

	tx.RemoveAccumReduced("accum", rete.EmptyBindings(), group)
	assert.Empty(t, tx.AllAccumReduced("accum", rete.EmptyBindings()))
}

func TestTransient_AgendaFIFOAndDeduplication(t *testing.T) {
	tx := ToTransient(Empty())
	prod := &stubProd{id: "production:p1", ruleID: "p1"}
	t1 := rete.RootToken().Extend(rete.NewFact("Person", nil), rete.Condition{ID: "person"}, rete.Bindings{"?name": rete.String("alice")})
	t2 := rete.RootToken().Extend(rete.NewFact("Person", nil), rete.Condition{ID: "person"}, rete.Bindings{"?name": rete.String("bob")})

	tx.AddActivations([]rete.Activation{{Node: prod, Token: t1}, {Node: prod, Token: t2}})
	tx.AddActivations([]rete.Activation{{Node: prod, Token: t1}})

	a, ok := tx.PopActivation()
	require.True(t, ok)
	assert.Equal(t, rete.String("alice"), a.Token.Bindings["?name"], "activations pop in FIFO order")

	a, ok = tx.PopActivation()
	require.True(t, ok)
	assert.Equal(t, rete.String("bob"), a.Token.Bindings["?name"])

	_, ok = tx.PopActivation()
	assert.False(t, ok, "the duplicate add of t1 must not have grown the agenda")
}

func TestTransient_InsertionLogRoundTrip(t *testing.T) {
	tx := ToTransient(Empty())
	tok := rete.RootToken().Extend(rete.NewFact("Person", nil), rete.Condition{ID: "person"}, rete.Bindings{"?name": rete.String("alice")})
	fact := rete.NewFact("Adult", rete.Object{"name": rete.String("alice")})

	assert.Empty(t, tx.RemoveInsertions("production:p1", tok))

	tx.RecordInsertions("production:p1", tok, []rete.Fact{fact})
	facts := tx.RemoveInsertions("production:p1", tok)
	require.Len(t, facts, 1)
	assert.Equal(t, rete.FactType("Adult"), facts[0].Type)

	assert.Empty(t, tx.RemoveInsertions("production:p1", tok), "RemoveInsertions must delete the log entry, not just read it")
}

func TestTransient_FiringMarker(t *testing.T) {
	tx := ToTransient(Empty())
	_, firing := tx.CurrentlyFiring()
	assert.False(t, firing)

	tx.SetFiring("p1")
	ruleID, firing := tx.CurrentlyFiring()
	assert.True(t, firing)
	assert.Equal(t, "p1", ruleID)

	tx.ClearFiring()
	_, firing = tx.CurrentlyFiring()
	assert.False(t, firing)
}

func TestPersistent_ToTransientToPersistentRoundTrip(t *testing.T) {
	tx := ToTransient(Empty())
	tok := rete.RootToken().Extend(rete.NewFact("Person", nil), rete.Condition{ID: "person"}, rete.Bindings{"?name": rete.String("alice")})
	tx.AddTokens("n1", rete.EmptyBindings(), []rete.Token{tok})

	p1 := ToPersistent(tx)
	p2 := ToPersistent(ToTransient(p1))

	assert.True(t, p1.Equal(p2), "round-tripping a snapshot through ToTransient/ToPersistent must preserve its contents")
}

func TestTransient_InvalidatedAfterToPersistentPanics(t *testing.T) {
	tx := ToTransient(Empty())
	ToPersistent(tx)

	assert.Panics(t, func() {
		tx.AddTokens("n1", rete.EmptyBindings(), nil)
	}, "using a transient after it has been consumed by ToPersistent must panic, not silently corrupt state")
}

func TestPersistent_EqualIsOrderIndependentOverMapIteration(t *testing.T) {
	txA := ToTransient(Empty())
	txA.AddAccumReduced("accum", rete.EmptyBindings(), rete.Bindings{"?c": rete.String("alice")}, rete.Int(1))
	txA.AddAccumReduced("accum", rete.EmptyBindings(), rete.Bindings{"?c": rete.String("bob")}, rete.Int(2))

	txB := ToTransient(Empty())
	txB.AddAccumReduced("accum", rete.EmptyBindings(), rete.Bindings{"?c": rete.String("bob")}, rete.Int(2))
	txB.AddAccumReduced("accum", rete.EmptyBindings(), rete.Bindings{"?c": rete.String("alice")}, rete.Int(1))

	assert.True(t, ToPersistent(txA).Equal(ToPersistent(txB)), "Equal must not depend on insertion order")
}

// stubProd is a minimal rete.ProductionRef used only to exercise the
// agenda, without pulling in package network (which would create an
// import cycle back into memory's own test package).
type stubProd struct {
	id     string
	ruleID string
}

func (p *stubProd) NodeID() string       { return p.id }
func (p *stubProd) Kind() rete.NodeKind  { return rete.KindProduction }
func (p *stubProd) JoinKeys() []rete.Var { return nil }
func (p *stubProd) Description() string  { return p.id }
func (p *stubProd) RuleID() string       { return p.ruleID }
func (p *stubProd) NoLoop() bool         { return false }
func (p *stubProd) RHS() rete.RHS        { return nil }

func (p *stubProd) LeftActivate(rete.TransientMemory, rete.TransientListener, rete.Bindings, []rete.Token)    {}
func (p *stubProd) LeftRetract(rete.TransientMemory, rete.TransientListener, rete.Bindings, []rete.Token)     {}
func (p *stubProd) RightActivate(rete.TransientMemory, rete.TransientListener, rete.Bindings, []rete.Element) {}
func (p *stubProd) RightRetract(rete.TransientMemory, rete.TransientListener, rete.Bindings, []rete.Element)  {}

var _ rete.ProductionRef = (*stubProd)(nil)
