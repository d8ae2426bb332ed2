// Package transport routes tokens and elements to children, grouping
// by join bindings (spec.md §4.B). Transport owns no state of its own;
// batching here is purely a fan-out discipline shared by alpha-node
// propagation and every beta node's left/right activation.
//
// Grouping is order-preserving: elements/tokens are grouped by the
// projection of their bindings onto a node's join-keys in first-seen
// order, so the listener trace produced for a given input order is
// reproducible across runs (spec.md §4.B, §9 "group-by grouping").
package transport

import "github.com/latticeforge/rete"

// SendElements fans right-activate out to nodes, grouping elements by
// the projection of each element's bindings onto the node's join-keys.
// A node with no join-keys receives all elements in a single
// right-activate call (and is skipped entirely if elements is empty).
func SendElements(tx rete.TransientMemory, lp rete.TransientListener, nodes []rete.ActivatableNode, elements []rete.Element) {
	for _, node := range nodes {
		keys := node.JoinKeys()
		if len(keys) == 0 {
			if len(elements) > 0 {
				node.RightActivate(tx, lp, rete.EmptyBindings(), elements)
			}
			continue
		}
		for _, group := range groupElements(elements, keys) {
			node.RightActivate(tx, lp, group.bindings, group.elements)
		}
	}
}

// SendTokens mirrors SendElements for left-activate.
func SendTokens(tx rete.TransientMemory, lp rete.TransientListener, nodes []rete.ActivatableNode, tokens []rete.Token) {
	for _, node := range nodes {
		keys := node.JoinKeys()
		if len(keys) == 0 {
			if len(tokens) > 0 {
				node.LeftActivate(tx, lp, rete.EmptyBindings(), tokens)
			}
			continue
		}
		for _, group := range groupTokens(tokens, keys) {
			node.LeftActivate(tx, lp, group.bindings, group.tokens)
		}
	}
}

// RetractElements fans right-retract out to nodes. Per spec.md §4.B,
// retraction groups by an element's FULL bindings first (so distinct
// elements that merely happen to project to the same join-bindings stay
// in separate batches) and only then restricts the group's key to the
// node's join-keys for the right-retract call.
func RetractElements(tx rete.TransientMemory, lp rete.TransientListener, nodes []rete.ActivatableNode, elements []rete.Element) {
	for _, node := range nodes {
		keys := node.JoinKeys()
		if len(keys) == 0 {
			if len(elements) > 0 {
				node.RightRetract(tx, lp, rete.EmptyBindings(), elements)
			}
			continue
		}
		for _, group := range groupElementsByFullBindings(elements, keys) {
			node.RightRetract(tx, lp, group.bindings, group.elements)
		}
	}
}

// RetractTokens mirrors RetractElements for left-retract.
func RetractTokens(tx rete.TransientMemory, lp rete.TransientListener, nodes []rete.ActivatableNode, tokens []rete.Token) {
	for _, node := range nodes {
		keys := node.JoinKeys()
		if len(keys) == 0 {
			if len(tokens) > 0 {
				node.LeftRetract(tx, lp, rete.EmptyBindings(), tokens)
			}
			continue
		}
		for _, group := range groupTokensByFullBindings(tokens, keys) {
			node.LeftRetract(tx, lp, group.bindings, group.tokens)
		}
	}
}

type elementGroup struct {
	bindings rete.Bindings
	elements []rete.Element
}

type tokenGroup struct {
	bindings rete.Bindings
	tokens   []rete.Token
}

// groupElements groups elements by the projection of their bindings
// onto keys, preserving first-seen group order so the resulting
// right-activate call sequence is deterministic for a given input
// order (an order-preserving multimap, per spec.md §9).
func groupElements(elements []rete.Element, keys []rete.Var) []elementGroup {
	order := make([]rete.Hash, 0, len(elements))
	groups := make(map[rete.Hash]*elementGroup, len(elements))
	for _, e := range elements {
		proj := e.Bindings.Project(keys)
		h := rete.ScopeHash(proj)
		g, ok := groups[h]
		if !ok {
			g = &elementGroup{bindings: proj}
			groups[h] = g
			order = append(order, h)
		}
		g.elements = append(g.elements, e)
	}
	out := make([]elementGroup, len(order))
	for i, h := range order {
		out[i] = *groups[h]
	}
	return out
}

// groupTokens mirrors groupElements for tokens.
func groupTokens(tokens []rete.Token, keys []rete.Var) []tokenGroup {
	order := make([]rete.Hash, 0, len(tokens))
	groups := make(map[rete.Hash]*tokenGroup, len(tokens))
	for _, t := range tokens {
		proj := t.Bindings.Project(keys)
		h := rete.ScopeHash(proj)
		g, ok := groups[h]
		if !ok {
			g = &tokenGroup{bindings: proj}
			groups[h] = g
			order = append(order, h)
		}
		g.tokens = append(g.tokens, t)
	}
	out := make([]tokenGroup, len(order))
	for i, h := range order {
		out[i] = *groups[h]
	}
	return out
}

// groupElementsByFullBindings groups elements whose complete bindings
// are identical (ordinarily a singleton group per distinct element),
// then restricts each group's reported bindings to keys.
func groupElementsByFullBindings(elements []rete.Element, keys []rete.Var) []elementGroup {
	order := make([]rete.Hash, 0, len(elements))
	groups := make(map[rete.Hash]*elementGroup, len(elements))
	for _, e := range elements {
		h := e.Hash()
		g, ok := groups[h]
		if !ok {
			g = &elementGroup{bindings: e.Bindings.Project(keys)}
			groups[h] = g
			order = append(order, h)
		}
		g.elements = append(g.elements, e)
	}
	out := make([]elementGroup, len(order))
	for i, h := range order {
		out[i] = *groups[h]
	}
	return out
}

// groupTokensByFullBindings mirrors groupElementsByFullBindings for
// tokens.
func groupTokensByFullBindings(tokens []rete.Token, keys []rete.Var) []tokenGroup {
	order := make([]rete.Hash, 0, len(tokens))
	groups := make(map[rete.Hash]*tokenGroup, len(tokens))
	for _, t := range tokens {
		h := t.Hash()
		g, ok := groups[h]
		if !ok {
			g = &tokenGroup{bindings: t.Bindings.Project(keys)}
			groups[h] = g
			order = append(order, h)
		}
		g.tokens = append(g.tokens, t)
	}
	out := make([]tokenGroup, len(order))
	for i, h := range order {
		out[i] = *groups[h]
	}
	return out
}
