// Package network implements the beta and terminal node variants of the
// discrimination network (spec.md §4.D, §4.E): RootJoinNode, JoinNode,
// NegationNode, TestNode, AccumulateNode, ProductionNode, and
// QueryNode. Every node kind is its own concrete type implementing
// rete.ActivatableNode — a tagged-variant design per spec.md §9's first
// design note, using Go interfaces rather than a type-switch dispatcher.
//
// The teacher has no beta network of its own (its sync rules match
// flat, without an incremental join graph); the node *shapes* here are
// grounded on generalizing the teacher's single dispatch point
// (Engine.processEvent routing both invocation and completion events
// through one switch) to a graph of several node kinds, and on
// matcher.go's match-then-extract-bindings idiom for AlphaNode.
package network
