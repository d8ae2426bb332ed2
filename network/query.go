package network

import "github.com/latticeforge/rete"

// QueryNode is a terminal node that stores every token it receives,
// keyed by the projection of its bindings onto ParamKeys, for later
// retrieval by Session.Query (spec.md §4.D "query", §6 "Query"). It has
// no right side and propagates nothing further.
type QueryNode struct {
	base
	paramKeys []rete.Var
}

// NewQueryNode constructs a QueryNode for the given query name, keyed
// by paramKeys.
func NewQueryNode(id string, paramKeys []rete.Var) *QueryNode {
	return &QueryNode{
		base:      base{id: id, kind: rete.KindQuery, description: "query:" + id, joinKeys: paramKeys},
		paramKeys: paramKeys,
	}
}

// ParamKeys implements rete.QueryNodeRef.
func (n *QueryNode) ParamKeys() []rete.Var { return n.paramKeys }

// Count reports how many tokens are stored for params without copying
// their bindings, a fast path for callers (e.g. an accumulator's
// count-only query) that only need a row count.
func (n *QueryNode) Count(tx rete.TransientMemory, params rete.Bindings) int {
	return tx.CountTokens(n.id, params.Project(n.paramKeys))
}

// LeftActivate stores the tokens under their ParamKeys projection.
func (n *QueryNode) LeftActivate(tx rete.TransientMemory, lp rete.TransientListener, joinBindings rete.Bindings, tokens []rete.Token) {
	tx.AddTokens(n.id, joinBindings, tokens)
	lp.LeftActivate(n, tokens)
}

// LeftRetract removes the tokens actually stored.
func (n *QueryNode) LeftRetract(tx rete.TransientMemory, lp rete.TransientListener, joinBindings rete.Bindings, tokens []rete.Token) {
	removed := tx.RemoveTokens(n.id, joinBindings, tokens)
	if len(removed) == 0 {
		return
	}
	lp.LeftRetract(n, removed)
}

// RightActivate is a no-op: QueryNode has no right input.
func (n *QueryNode) RightActivate(rete.TransientMemory, rete.TransientListener, rete.Bindings, []rete.Element) {
}

// RightRetract is a no-op for the same reason.
func (n *QueryNode) RightRetract(rete.TransientMemory, rete.TransientListener, rete.Bindings, []rete.Element) {
}

var _ rete.QueryNodeRef = (*QueryNode)(nil)
