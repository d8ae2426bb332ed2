// Package listener implements the observable propagation event stream
// (spec.md §4.G): a transient/persistent discipline mirroring working
// memory, a DelegatingListener that fans every event out to an ordered
// list of children, and a NullListener the session treats as "no
// listeners." Grounded on the teacher's harness.Harness trace-observer
// role and golden.go's TraceSnapshot — retargeted from invocation
// traces to node-propagation traces.
package listener

import "github.com/latticeforge/rete"

// Event is one recorded propagation event, the listener-pipeline
// equivalent of the teacher's TraceEvent. Only the fields relevant to
// EventType are populated.
type Event struct {
	Type         EventType
	Node         rete.Node
	Tokens       []rete.Token
	Elements     []rete.Element
	Facts        []rete.Fact
	JoinBindings rete.Bindings
	Reduced      rete.Value
	FactBindings rete.Bindings
	Activations  []rete.ActivationRecord
	Message      string
}

// EventType tags which listener method produced an Event.
type EventType string

const (
	EventLeftActivate     EventType = "left-activate"
	EventLeftRetract      EventType = "left-retract"
	EventRightActivate    EventType = "right-activate"
	EventRightRetract     EventType = "right-retract"
	EventInsertFacts      EventType = "insert-facts"
	EventRetractFacts     EventType = "retract-facts"
	EventAddAccumReduced  EventType = "add-accum-reduced"
	EventAddActivations   EventType = "add-activations"
	EventRemoveActivation EventType = "remove-activations"
	EventFireRules        EventType = "fire-rules"
	EventMessage          EventType = "message"
)

// Sink receives Events one at a time, in propagation order. None of the
// listeners in this package take a Sink: Recorder, Null and Delegating
// implement PersistentListener/TransientListener directly.
type Sink interface {
	Record(Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Event)

// Record implements Sink.
func (f SinkFunc) Record(e Event) { f(e) }

// PersistentListener is the immutable, freely-shareable form of a
// listener — the listener-pipeline equivalent of memory.Persistent.
type PersistentListener interface {
	ToTransient() TransientListener
}

// TransientListener is the mutable, single-call form of a listener. It
// satisfies rete.TransientListener (so the network/session packages can
// use it directly) plus ToPersistent to snapshot back.
type TransientListener interface {
	rete.TransientListener
	ToPersistent() PersistentListener
}
