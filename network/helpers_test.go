package network

import "github.com/latticeforge/rete"

// call records one left/right activate/retract invocation a sink node
// received, in order, for assertions that care about propagation
// sequence rather than just final state.
type call struct {
	kind     string
	tokens   []rete.Token
	elements []rete.Element
}

// sink is a minimal terminal ActivatableNode used across network tests
// to observe what a node under test propagates downstream, without
// pulling in a full ProductionNode/QueryNode.
type sink struct {
	id   string
	keys []rete.Var

	calls []call
}

func newSink(id string, keys ...rete.Var) *sink {
	return &sink{id: id, keys: keys}
}

func (s *sink) NodeID() string        { return s.id }
func (s *sink) Kind() rete.NodeKind   { return rete.NodeKind("sink") }
func (s *sink) JoinKeys() []rete.Var  { return s.keys }
func (s *sink) Description() string   { return "sink:" + s.id }

func (s *sink) LeftActivate(_ rete.TransientMemory, _ rete.TransientListener, _ rete.Bindings, tokens []rete.Token) {
	s.calls = append(s.calls, call{kind: "left-activate", tokens: tokens})
}

func (s *sink) LeftRetract(_ rete.TransientMemory, _ rete.TransientListener, _ rete.Bindings, tokens []rete.Token) {
	s.calls = append(s.calls, call{kind: "left-retract", tokens: tokens})
}

func (s *sink) RightActivate(_ rete.TransientMemory, _ rete.TransientListener, _ rete.Bindings, elements []rete.Element) {
	s.calls = append(s.calls, call{kind: "right-activate", elements: elements})
}

func (s *sink) RightRetract(_ rete.TransientMemory, _ rete.TransientListener, _ rete.Bindings, elements []rete.Element) {
	s.calls = append(s.calls, call{kind: "right-retract", elements: elements})
}

// leftActivated flattens every token passed across all left-activate
// calls, in call order.
func (s *sink) leftActivated() []rete.Token {
	var out []rete.Token
	for _, c := range s.calls {
		if c.kind == "left-activate" {
			out = append(out, c.tokens...)
		}
	}
	return out
}

func (s *sink) leftRetracted() []rete.Token {
	var out []rete.Token
	for _, c := range s.calls {
		if c.kind == "left-retract" {
			out = append(out, c.tokens...)
		}
	}
	return out
}

var _ rete.ActivatableNode = (*sink)(nil)
