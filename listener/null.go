package listener

import "github.com/latticeforge/rete"

// Null is the persistent NullListener: the session treats it as "no
// listeners" and its transient form performs no work for any event.
type Null struct{}

// ToTransient returns the transient NullListener.
func (Null) ToTransient() TransientListener { return nullTransient{} }

type nullTransient struct{}

func (nullTransient) LeftActivate(rete.Node, []rete.Token)                               {}
func (nullTransient) LeftRetract(rete.Node, []rete.Token)                                {}
func (nullTransient) RightActivate(rete.Node, []rete.Element)                            {}
func (nullTransient) RightRetract(rete.Node, []rete.Element)                             {}
func (nullTransient) InsertFacts([]rete.Fact)                                            {}
func (nullTransient) RetractFacts([]rete.Fact)                                           {}
func (nullTransient) AddAccumReduced(rete.Node, rete.Bindings, rete.Value, rete.Bindings) {}
func (nullTransient) AddActivations(rete.Node, []rete.ActivationRecord)                  {}
func (nullTransient) RemoveActivations(rete.Node, []rete.ActivationRecord)               {}
func (nullTransient) FireRules(rete.Node)                                                {}
func (nullTransient) SendMessage(string)                                                 {}
func (nullTransient) ToPersistent() PersistentListener                                  { return Null{} }

var (
	_ PersistentListener     = Null{}
	_ TransientListener      = nullTransient{}
	_ rete.TransientListener = nullTransient{}
)
