package network

import (
	"github.com/latticeforge/rete"
	"github.com/latticeforge/rete/transport"
)

// AlphaActivate evaluates each fact against every alpha node in roots,
// turning each successful Activate into an Element and handing the batch
// produced per alpha node to Transport for its children (spec.md §4.C).
// The caller (typically Session.Insert) passes a whole type-grouped
// batch of facts in one call.
func AlphaActivate(tx rete.TransientMemory, lp rete.TransientListener, roots []*rete.AlphaNode, facts []rete.Fact) {
	for _, root := range roots {
		var elements []rete.Element
		for _, fact := range facts {
			bindings, ok := root.Activate(fact, root.Env)
			if !ok {
				continue
			}
			elements = append(elements, rete.NewElement(fact, bindings))
		}
		if len(elements) == 0 {
			continue
		}
		transport.SendElements(tx, lp, root.Children, elements)
	}
}

// AlphaRetract mirrors AlphaActivate for retraction: it recomputes the
// same Elements the matching facts would have produced and asks
// Transport to retract them from the alpha node's children.
func AlphaRetract(tx rete.TransientMemory, lp rete.TransientListener, roots []*rete.AlphaNode, facts []rete.Fact) {
	for _, root := range roots {
		var elements []rete.Element
		for _, fact := range facts {
			bindings, ok := root.Activate(fact, root.Env)
			if !ok {
				continue
			}
			elements = append(elements, rete.NewElement(fact, bindings))
		}
		if len(elements) == 0 {
			continue
		}
		transport.RetractElements(tx, lp, root.Children, elements)
	}
}
