package rete

// RuleContext is the explicit, mutable session handle passed to a
// production's RHS. spec.md §9's design note recommends exactly this in
// place of a thread-local *current-session*: "a systems-language
// implementation should pass an explicit mutable session handle to each
// RHS invocation rather than use thread-locals." Facts inserted or
// retracted through it are applied to the transient memory in place,
// within the same fire-rules call. Inserted facts are also recorded in
// the insertion log keyed by the firing production and token so they
// can be cascade-retracted later (spec.md §4.H step 3); retractions are
// not recorded.
type RuleContext interface {
	// Insert re-enters the session with new facts, as if Session.Insert
	// had been called, without leaving the current fire-rules call.
	Insert(facts ...Fact)

	// Retract re-enters the session with facts to remove.
	Retract(facts ...Fact)

	// Bindings returns the firing token's binding environment.
	Bindings() Bindings
}

// RHS is a production's right-hand side: given the context for re-
// entering the session and the firing token's bindings, it performs
// whatever side effects the rule specifies. An error returned here
// propagates out of fire-rules per spec.md §7 ("RHS failure").
type RHS func(ctx RuleContext, bindings Bindings) error
