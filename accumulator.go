package rete

// AccumState is the opaque intermediate state an Accumulator folds
// facts into. The core never inspects it; only the accumulator's own
// functions do.
type AccumState any

// Accumulator is a mini fold interface — input-condition, initial
// value, reduce-fn, combine-fn, retract-fn, convert-fn — matching the
// six-part definition AccumulateNode implements in package network.
// Reduce folds one fact into state; Combine merges the previously
// stored state with a freshly folded batch of newly arrived elements
// (right-activate-reduced); Retract undoes a single fact's contribution
// from state, one fact at a time (right-retract); Convert maps final
// state to the value exposed downstream. Combine and Retract are both
// required — AccumulateNode calls them directly, never falling back to
// a full re-fold. HasInitial, not the nil-ness of Initial, decides
// whether there is an initial value; without one the accumulator
// contributes nothing for empty groups (see AccumulateNode's edge-case
// handling in package network).
type Accumulator struct {
	// Initial is the seed state for a fresh group. It is used only when
	// HasInitial is true; otherwise groups with no elements emit nothing.
	Initial AccumState

	// HasInitial distinguishes "Initial is the zero value on purpose"
	// (e.g. a sum starting at Int(0)) from "there is no initial value."
	HasInitial bool

	Reduce func(state AccumState, fact Fact, bindings Bindings) AccumState

	// Combine merges state (the group's previously stored reduction)
	// with batch (Reduce folded over only the newly arrived elements in
	// this call), associatively, into the group's next stored state.
	Combine func(state, batch AccumState) AccumState

	// Retract undoes one fact's contribution to state, reporting
	// isEmpty when the group has no elements left to account for.
	Retract func(state AccumState, fact Fact, bindings Bindings) (next AccumState, isEmpty bool)

	Convert func(state AccumState) Value

	// ResultBinding, if set, is the variable the converted result is
	// bound to on every accumulated token emitted downstream.
	ResultBinding Var
}

// Fold reduces a sequence of elements into a single state using Reduce,
// starting from Initial (or the first element's reduction if there is
// no initial value). It reports ok=false if elements is empty and the
// accumulator has no initial value, meaning the group contributes
// nothing.
func (a Accumulator) Fold(elements []Element) (state AccumState, ok bool) {
	if len(elements) == 0 {
		if a.HasInitial {
			return a.Initial, true
		}
		return nil, false
	}
	state = a.Initial
	start := 0
	if !a.HasInitial {
		state = a.Reduce(nil, elements[0].Fact, elements[0].Bindings)
		start = 1
	}
	for _, e := range elements[start:] {
		state = a.Reduce(state, e.Fact, e.Bindings)
	}
	return state, true
}
