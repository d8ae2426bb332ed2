package listener

import "github.com/latticeforge/rete"

// Delegating is the persistent DelegatingListener: an ordered list of
// child listeners every event is forwarded to, in order, during one
// session cycle.
type Delegating struct {
	children []PersistentListener
}

// NewDelegating builds a Delegating listener forwarding to children in
// the given order.
func NewDelegating(children ...PersistentListener) *Delegating {
	return &Delegating{children: append([]PersistentListener(nil), children...)}
}

// ToTransient converts every child to its transient form.
func (d *Delegating) ToTransient() TransientListener {
	if d == nil {
		return Null{}.ToTransient()
	}
	ts := make([]TransientListener, len(d.children))
	for i, c := range d.children {
		ts[i] = c.ToTransient()
	}
	return &delegatingTransient{children: ts}
}

type delegatingTransient struct {
	children []TransientListener
}

func (d *delegatingTransient) LeftActivate(node rete.Node, tokens []rete.Token) {
	for _, c := range d.children {
		c.LeftActivate(node, tokens)
	}
}

func (d *delegatingTransient) LeftRetract(node rete.Node, tokens []rete.Token) {
	for _, c := range d.children {
		c.LeftRetract(node, tokens)
	}
}

func (d *delegatingTransient) RightActivate(node rete.Node, elements []rete.Element) {
	for _, c := range d.children {
		c.RightActivate(node, elements)
	}
}

func (d *delegatingTransient) RightRetract(node rete.Node, elements []rete.Element) {
	for _, c := range d.children {
		c.RightRetract(node, elements)
	}
}

func (d *delegatingTransient) InsertFacts(facts []rete.Fact) {
	for _, c := range d.children {
		c.InsertFacts(facts)
	}
}

func (d *delegatingTransient) RetractFacts(facts []rete.Fact) {
	for _, c := range d.children {
		c.RetractFacts(facts)
	}
}

func (d *delegatingTransient) AddAccumReduced(node rete.Node, joinBindings rete.Bindings, reduced rete.Value, factBindings rete.Bindings) {
	for _, c := range d.children {
		c.AddAccumReduced(node, joinBindings, reduced, factBindings)
	}
}

func (d *delegatingTransient) AddActivations(node rete.Node, activations []rete.ActivationRecord) {
	for _, c := range d.children {
		c.AddActivations(node, activations)
	}
}

func (d *delegatingTransient) RemoveActivations(node rete.Node, activations []rete.ActivationRecord) {
	for _, c := range d.children {
		c.RemoveActivations(node, activations)
	}
}

func (d *delegatingTransient) FireRules(node rete.Node) {
	for _, c := range d.children {
		c.FireRules(node)
	}
}

func (d *delegatingTransient) SendMessage(message string) {
	for _, c := range d.children {
		c.SendMessage(message)
	}
}

func (d *delegatingTransient) ToPersistent() PersistentListener {
	ps := make([]PersistentListener, len(d.children))
	for i, c := range d.children {
		ps[i] = c.ToPersistent()
	}
	return &Delegating{children: ps}
}

var (
	_ PersistentListener = (*Delegating)(nil)
	_ TransientListener  = (*delegatingTransient)(nil)
)
