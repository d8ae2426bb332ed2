package fixture

import "github.com/latticeforge/rete"

// NewAlphaNode builds a rete.AlphaNode whose Activate ignores the
// opaque Env slot (test fixtures have no compiler-assigned per-node
// config) and defers directly to activate.
func NewAlphaNode(id string, factType rete.FactType, activate func(fact rete.Fact) (rete.Bindings, bool), children ...rete.ActivatableNode) *rete.AlphaNode {
	return &rete.AlphaNode{
		ID:        id,
		Type:      factType,
		Condition: rete.Condition{ID: id},
		Activate:  func(fact rete.Fact, _ any) (rete.Bindings, bool) { return activate(fact) },
		Children:  children,
	}
}

// Field extracts a named field from a fact whose Value is a
// rete.Object, returning ok=false if the fact's Value is not an Object
// or the field is absent.
func Field(fact rete.Fact, name string) (rete.Value, bool) {
	obj, ok := fact.Value.(rete.Object)
	if !ok {
		return nil, false
	}
	v, ok := obj[name]
	return v, ok
}

// BindFields builds an Activate function that binds each named field to
// the given Var. It reports no match if any named field is absent from
// the fact (or the fact's Value is not an Object).
func BindFields(fields map[string]rete.Var) func(rete.Fact) (rete.Bindings, bool) {
	return func(fact rete.Fact) (rete.Bindings, bool) {
		out := rete.EmptyBindings()
		for field, v := range fields {
			val, ok := Field(fact, field)
			if !ok {
				return nil, false
			}
			out = out.With(v, val)
		}
		return out, true
	}
}
