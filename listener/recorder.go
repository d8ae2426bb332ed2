package listener

import "github.com/latticeforge/rete"

// Recorder is a PersistentListener that appends every event it sees, in
// order, to an in-memory trace held in its own slice (no Sink is
// involved). Its Events output is the input package golden renders, and
// any caller can use it to inspect exactly what a session cycle did.
type Recorder struct {
	events []Event
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Events returns the recorded trace in propagation order.
func (r *Recorder) Events() []Event {
	if r == nil {
		return nil
	}
	return append([]Event(nil), r.events...)
}

// ToTransient returns a transient view that appends into a private copy
// of the trace, committed back on ToPersistent.
func (r *Recorder) ToTransient() TransientListener {
	base := r.Events()
	return &recorderTransient{events: base}
}

type recorderTransient struct {
	events []Event
}

func (r *recorderTransient) record(e Event) { r.events = append(r.events, e) }

func (r *recorderTransient) LeftActivate(node rete.Node, tokens []rete.Token) {
	r.record(Event{Type: EventLeftActivate, Node: node, Tokens: tokens})
}

func (r *recorderTransient) LeftRetract(node rete.Node, tokens []rete.Token) {
	r.record(Event{Type: EventLeftRetract, Node: node, Tokens: tokens})
}

func (r *recorderTransient) RightActivate(node rete.Node, elements []rete.Element) {
	r.record(Event{Type: EventRightActivate, Node: node, Elements: elements})
}

func (r *recorderTransient) RightRetract(node rete.Node, elements []rete.Element) {
	r.record(Event{Type: EventRightRetract, Node: node, Elements: elements})
}

func (r *recorderTransient) InsertFacts(facts []rete.Fact) {
	r.record(Event{Type: EventInsertFacts, Facts: facts})
}

func (r *recorderTransient) RetractFacts(facts []rete.Fact) {
	r.record(Event{Type: EventRetractFacts, Facts: facts})
}

func (r *recorderTransient) AddAccumReduced(node rete.Node, joinBindings rete.Bindings, reduced rete.Value, factBindings rete.Bindings) {
	r.record(Event{Type: EventAddAccumReduced, Node: node, JoinBindings: joinBindings, Reduced: reduced, FactBindings: factBindings})
}

func (r *recorderTransient) AddActivations(node rete.Node, activations []rete.ActivationRecord) {
	r.record(Event{Type: EventAddActivations, Node: node, Activations: activations})
}

func (r *recorderTransient) RemoveActivations(node rete.Node, activations []rete.ActivationRecord) {
	r.record(Event{Type: EventRemoveActivation, Node: node, Activations: activations})
}

func (r *recorderTransient) FireRules(node rete.Node) {
	r.record(Event{Type: EventFireRules, Node: node})
}

func (r *recorderTransient) SendMessage(message string) {
	r.record(Event{Type: EventMessage, Message: message})
}

func (r *recorderTransient) ToPersistent() PersistentListener {
	return &Recorder{events: r.events}
}

var (
	_ PersistentListener = (*Recorder)(nil)
	_ TransientListener  = (*recorderTransient)(nil)
)
