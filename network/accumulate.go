package network

import (
	"github.com/latticeforge/rete"
	"github.com/latticeforge/rete/transport"
)

// AccumulateNode folds the elements of each fact-bindings group into a
// single value via Accumulator, and crosses that value against every
// left token sharing the node's join-bindings (spec.md §4.D
// "accumulate"). GroupBy names the variables that distinguish one group
// from another within a join-bindings scope; a node with no GroupBy
// folds every element under the join-bindings into one group.
type AccumulateNode struct {
	base
	Condition   rete.Condition
	ResultType  rete.FactType
	GroupBy     []rete.Var
	Accumulator rete.Accumulator
	Children    []rete.ActivatableNode
}

// NewAccumulateNode constructs an AccumulateNode.
func NewAccumulateNode(id string, joinKeys, groupBy []rete.Var, condition rete.Condition, resultType rete.FactType, accumulator rete.Accumulator, children ...rete.ActivatableNode) *AccumulateNode {
	return &AccumulateNode{
		base:        base{id: id, kind: rete.KindAccumulate, description: "accumulate:" + id, joinKeys: joinKeys},
		Condition:   condition,
		ResultType:  resultType,
		GroupBy:     groupBy,
		Accumulator: accumulator,
		Children:    children,
	}
}

// LeftActivate stores the tokens, then crosses each against every group
// already reduced for this join-bindings scope. If no group has been
// reduced yet but a token already binds every GroupBy key and the
// accumulator has an initial value, the initial value is seeded and
// emitted for that token's group immediately (spec.md §4.D, §8
// scenario 6): a query joined straight to an accumulator must see a
// count=0 row even when no fact has arrived yet, not just after a
// group empties out.
func (n *AccumulateNode) LeftActivate(tx rete.TransientMemory, lp rete.TransientListener, joinBindings rete.Bindings, tokens []rete.Token) {
	tx.AddTokens(n.id, joinBindings, tokens)
	lp.LeftActivate(n, tokens)

	groups := tx.AllAccumReduced(n.id, joinBindings)
	var out []rete.Token
	if len(groups) == 0 {
		out = n.seedInitialGroups(tx, lp, joinBindings, tokens)
	} else {
		for _, g := range groups {
			value := n.Accumulator.Convert(g.State)
			out = append(out, n.accumulatedTokens(tokens, g.FactBindings, value)...)
		}
	}
	if len(out) > 0 {
		transport.SendTokens(tx, lp, n.Children, out)
	}
}

// seedInitialGroups handles the empty-reductions-map half of
// LeftActivate: for every token that already binds all of GroupBy and
// has no group recorded yet, record and emit the accumulator's initial
// value.
func (n *AccumulateNode) seedInitialGroups(tx rete.TransientMemory, lp rete.TransientListener, joinBindings rete.Bindings, tokens []rete.Token) []rete.Token {
	if !n.Accumulator.HasInitial {
		return nil
	}
	value := n.Accumulator.Convert(n.Accumulator.Initial)
	var out []rete.Token
	seeded := make(map[rete.Hash]bool)
	for _, t := range tokens {
		if !t.Bindings.HasAll(n.GroupBy) {
			continue
		}
		g := t.Bindings.Project(n.GroupBy)
		h := rete.ScopeHash(g)
		if !seeded[h] {
			tx.AddAccumReduced(n.id, joinBindings, g, n.Accumulator.Initial)
			lp.AddAccumReduced(n, joinBindings, value, g)
			seeded[h] = true
		}
		out = append(out, n.accumulatedTokens([]rete.Token{t}, g, value)...)
	}
	return out
}

// LeftRetract removes the tokens actually stored and retracts their
// cross-product with every currently reduced group.
func (n *AccumulateNode) LeftRetract(tx rete.TransientMemory, lp rete.TransientListener, joinBindings rete.Bindings, tokens []rete.Token) {
	removed := tx.RemoveTokens(n.id, joinBindings, tokens)
	if len(removed) == 0 {
		return
	}
	lp.LeftRetract(n, removed)
	groups := tx.AllAccumReduced(n.id, joinBindings)
	if len(groups) == 0 {
		return
	}
	var out []rete.Token
	for _, g := range groups {
		value := n.Accumulator.Convert(g.State)
		out = append(out, n.accumulatedTokens(removed, g.FactBindings, value)...)
	}
	if len(out) > 0 {
		transport.RetractTokens(tx, lp, n.Children, out)
	}
}

// RightActivate stores the elements, then for each affected group
// combines the newly arrived batch into the group's existing reduced
// state via Accumulator.Combine (spec.md §4.D right-activate-reduced):
// any token previously emitted for the group is retracted first, the
// combined state is recorded, and a new accumulated token is emitted
// against every left token sharing joinBindings.
func (n *AccumulateNode) RightActivate(tx rete.TransientMemory, lp rete.TransientListener, joinBindings rete.Bindings, elements []rete.Element) {
	tx.AddElements(n.id, joinBindings, elements)
	lp.RightActivate(n, elements)

	tokens := tx.GetTokens(n.id, joinBindings)
	for _, batch := range n.batchByGroup(elements) {
		batchState, _ := n.Accumulator.Fold(batch.elements)
		old, hadOld := tx.GetAccumReduced(n.id, joinBindings, batch.bindings)

		newState := batchState
		if hadOld {
			newState = n.Accumulator.Combine(old, batchState)
			n.retractGroup(tx, lp, joinBindings, tokens, batch.bindings, old)
		}

		n.storeAndEmit(tx, lp, joinBindings, tokens, batch.bindings, newState)
	}
}

// RightRetract removes the elements actually stored, then for each
// touched group undoes each removed element's contribution one at a
// time via Accumulator.Retract (spec.md §4.D right-retract). If the
// group becomes empty, its reduced state is dropped and, per HasInitial,
// either the initial value is re-seeded or the group is abandoned
// entirely.
func (n *AccumulateNode) RightRetract(tx rete.TransientMemory, lp rete.TransientListener, joinBindings rete.Bindings, elements []rete.Element) {
	removed := tx.RemoveElements(n.id, joinBindings, elements)
	if len(removed) == 0 {
		return
	}
	lp.RightRetract(n, removed)

	tokens := tx.GetTokens(n.id, joinBindings)
	for _, batch := range n.batchByGroup(removed) {
		old, hadOld := tx.GetAccumReduced(n.id, joinBindings, batch.bindings)
		if !hadOld {
			continue
		}
		n.retractGroup(tx, lp, joinBindings, tokens, batch.bindings, old)

		state := old
		isEmpty := false
		for _, e := range batch.elements {
			state, isEmpty = n.Accumulator.Retract(state, e.Fact, e.Bindings)
		}

		if isEmpty {
			tx.RemoveAccumReduced(n.id, joinBindings, batch.bindings)
			if !n.Accumulator.HasInitial {
				continue
			}
			state = n.Accumulator.Initial
		}

		n.storeAndEmit(tx, lp, joinBindings, tokens, batch.bindings, state)
	}
}

// retractGroup retracts the accumulated token previously emitted for
// group against every currently matched left token.
func (n *AccumulateNode) retractGroup(tx rete.TransientMemory, lp rete.TransientListener, joinBindings rete.Bindings, tokens []rete.Token, group rete.Bindings, state rete.AccumState) {
	if len(tokens) == 0 {
		return
	}
	oldValue := n.Accumulator.Convert(state)
	retract := n.accumulatedTokens(tokens, group, oldValue)
	if len(retract) > 0 {
		transport.RetractTokens(tx, lp, n.Children, retract)
	}
}

// storeAndEmit records state as group's reduced value and emits a
// fresh accumulated token against every currently matched left token.
func (n *AccumulateNode) storeAndEmit(tx rete.TransientMemory, lp rete.TransientListener, joinBindings rete.Bindings, tokens []rete.Token, group rete.Bindings, state rete.AccumState) {
	tx.AddAccumReduced(n.id, joinBindings, group, state)
	value := n.Accumulator.Convert(state)
	lp.AddAccumReduced(n, joinBindings, value, group)
	if len(tokens) == 0 {
		return
	}
	send := n.accumulatedTokens(tokens, group, value)
	if len(send) > 0 {
		transport.SendTokens(tx, lp, n.Children, send)
	}
}

// elementBatch pairs a GroupBy projection with the elements that
// project onto it, preserving first-seen group order.
type elementBatch struct {
	bindings rete.Bindings
	elements []rete.Element
}

// batchByGroup groups elements by their GroupBy projection, in
// first-seen order, for folding one batch per group.
func (n *AccumulateNode) batchByGroup(elements []rete.Element) []elementBatch {
	order := make([]rete.Hash, 0, len(elements))
	groups := make(map[rete.Hash]*elementBatch, len(elements))
	for _, e := range elements {
		g := e.Bindings.Project(n.GroupBy)
		h := rete.ScopeHash(g)
		gb, ok := groups[h]
		if !ok {
			gb = &elementBatch{bindings: g}
			groups[h] = gb
			order = append(order, h)
		}
		gb.elements = append(gb.elements, e)
	}
	out := make([]elementBatch, len(order))
	for i, h := range order {
		out[i] = *groups[h]
	}
	return out
}

// accumulatedTokens extends every token with a synthetic match wrapping
// value, bound to the accumulator's ResultBinding (if set) alongside
// the group's own bindings.
func (n *AccumulateNode) accumulatedTokens(tokens []rete.Token, groupBindings rete.Bindings, value rete.Value) []rete.Token {
	fact := rete.NewFact(n.ResultType, value)
	extra := groupBindings
	if n.Accumulator.ResultBinding != "" {
		extra = extra.With(n.Accumulator.ResultBinding, value)
	}
	out := make([]rete.Token, len(tokens))
	for i, t := range tokens {
		out[i] = t.Extend(fact, n.Condition, extra)
	}
	return out
}

var _ rete.ActivatableNode = (*AccumulateNode)(nil)
