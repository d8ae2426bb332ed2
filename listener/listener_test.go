package listener

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticeforge/rete"
)

type stubNode struct{ id string }

func (n stubNode) NodeID() string       { return n.id }
func (n stubNode) Kind() rete.NodeKind  { return rete.KindTest }
func (n stubNode) JoinKeys() []rete.Var { return nil }
func (n stubNode) Description() string  { return n.id }

func TestRecorder_CapturesEventsInOrder(t *testing.T) {
	r := NewRecorder()
	lp := r.ToTransient()

	lp.InsertFacts([]rete.Fact{rete.NewFact("Person", nil)})
	lp.RightActivate(stubNode{"alpha"}, []rete.Element{rete.NewElement(rete.NewFact("Person", nil), rete.EmptyBindings())})
	lp.LeftActivate(stubNode{"test"}, []rete.Token{rete.RootToken()})
	lp.FireRules(stubNode{"production:p1"})

	persisted := lp.ToPersistent().(*Recorder)
	events := persisted.Events()
	require.Len(t, events, 4)
	assert.Equal(t, EventInsertFacts, events[0].Type)
	assert.Equal(t, EventRightActivate, events[1].Type)
	assert.Equal(t, EventLeftActivate, events[2].Type)
	assert.Equal(t, EventFireRules, events[3].Type)
}

func TestRecorder_ToTransientStartsFromCommittedTrace(t *testing.T) {
	r := NewRecorder()
	first := r.ToTransient()
	first.SendMessage("one")
	r = first.ToPersistent().(*Recorder)

	second := r.ToTransient()
	second.SendMessage("two")
	final := second.ToPersistent().(*Recorder)

	events := final.Events()
	require.Len(t, events, 2, "a later ToTransient call must build on the previously committed trace, not start empty")
	assert.Equal(t, "one", events[0].Message)
	assert.Equal(t, "two", events[1].Message)
}

func TestNull_RecordsNothing(t *testing.T) {
	lp := Null{}.ToTransient()
	lp.InsertFacts([]rete.Fact{rete.NewFact("Person", nil)})
	lp.FireRules(stubNode{"production:p1"})
	persisted := lp.ToPersistent()
	assert.Equal(t, Null{}, persisted, "NullListener always round-trips to itself")
}

// msgSink is a minimal PersistentListener/TransientListener that only
// records SendMessage calls, used to check Delegating's fan-out without
// depending on Recorder's own trace shape.
type msgSink struct{ msgs *[]string }

func (s msgSink) ToTransient() TransientListener { return s }
func (s msgSink) ToPersistent() PersistentListener { return s }

func (msgSink) LeftActivate(rete.Node, []rete.Token)                               {}
func (msgSink) LeftRetract(rete.Node, []rete.Token)                                {}
func (msgSink) RightActivate(rete.Node, []rete.Element)                            {}
func (msgSink) RightRetract(rete.Node, []rete.Element)                             {}
func (msgSink) InsertFacts([]rete.Fact)                                            {}
func (msgSink) RetractFacts([]rete.Fact)                                           {}
func (msgSink) AddAccumReduced(rete.Node, rete.Bindings, rete.Value, rete.Bindings) {}
func (msgSink) AddActivations(rete.Node, []rete.ActivationRecord)                  {}
func (msgSink) RemoveActivations(rete.Node, []rete.ActivationRecord)               {}
func (msgSink) FireRules(rete.Node)                                                {}
func (s msgSink) SendMessage(message string)                                       { *s.msgs = append(*s.msgs, message) }

func TestDelegating_FansOutToEveryChildInOrder(t *testing.T) {
	var aMsgs, bMsgs []string
	a := msgSink{msgs: &aMsgs}
	b := msgSink{msgs: &bMsgs}
	d := NewDelegating(a, b)

	lp := d.ToTransient()
	lp.SendMessage("hello")
	lp.ToPersistent()

	assert.Equal(t, []string{"hello"}, aMsgs, "every Delegating child must receive each event")
	assert.Equal(t, []string{"hello"}, bMsgs, "every Delegating child must receive each event")
}

func TestDelegating_NilReceiverBehavesAsNull(t *testing.T) {
	var d *Delegating
	lp := d.ToTransient()
	lp.SendMessage("hello")
	assert.NotPanics(t, func() { lp.ToPersistent() })
}
