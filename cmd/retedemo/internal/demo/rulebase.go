// Package demo builds a small, fixed Rulebase the retedemo CLI runs
// facts through, standing in for the out-of-scope DSL compiler the same
// way retetest/fixture does for package tests (spec.md §1, "external
// collaborators"). It wires three rules that between them exercise
// every beta-node kind: a root-join/test/production/query chain for
// adulthood, a root-seeded accumulate chain for per-customer order
// totals, and a negation chain for unsuspended VIP candidates.
package demo

import (
	"fmt"
	"io"

	"github.com/latticeforge/rete"
	"github.com/latticeforge/rete/network"
	"github.com/latticeforge/rete/retetest/fixture"
)

// Fact type and variable names the demo rulebase's three rules bind.
const (
	factPerson     rete.FactType = "Person"
	factOrder      rete.FactType = "Order"
	factSuspension rete.FactType = "Suspension"
	factAdult      rete.FactType = "Adult"
	factVIP        rete.FactType = "VipCandidate"

	varName     rete.Var = "?name"
	varAge      rete.Var = "?age"
	varCustomer rete.Var = "?customer"
	varAmount   rete.Var = "?amount"
	varTotal    rete.Var = "?total"
)

// New builds the demo Rulebase. w receives one line of output per rule
// firing, standing in for whatever side effect a real RHS would have
// (paging, notification, write to another system).
func New(w io.Writer) *rete.Rulebase {
	adultsQuery := network.NewQueryNode("query:adults", []rete.Var{varName})
	adultProd := network.NewProductionNode("production:adult-rule", "adult-rule", false,
		adultRHS(w), alphaRetract(nil))
	adultTest := network.NewTestNode("test:adult-age", nil, isAdult, adultProd, adultsQuery)
	personRoot := network.NewRootJoinNode("root:person", nil, rete.Condition{ID: "person"}, adultTest)

	vipQuery := network.NewQueryNode("query:vip-candidates", []rete.Var{varName})
	vipProd := network.NewProductionNode("production:vip-candidate", "vip-candidate", false,
		vipRHS(w), alphaRetract(nil))
	vipNegation := network.NewNegationNode("negation:unsuspended", []rete.Var{varName}, vipProd, vipQuery)

	personAlpha := fixture.NewAlphaNode("alpha:person", factPerson,
		fixture.BindFields(map[string]rete.Var{"name": varName, "age": varAge}),
		personRoot)
	suspensionAlpha := fixture.NewAlphaNode("alpha:suspension", factSuspension,
		fixture.BindFields(map[string]rete.Var{"name": varName}),
		vipNegation)

	// adultTest's passing tokens feed the negation's left side directly;
	// a token bound to ?name, ?age qualifies for VIP consideration on
	// the same "adult" condition as the Adult rule.
	adultTest.Children = append(adultTest.Children, vipNegation)

	totalsQuery := network.NewQueryNode("query:order-totals", []rete.Var{varCustomer})
	totalProd := network.NewProductionNode("production:log-order-total", "log-order-total", false,
		logTotalRHS(w), alphaRetract(nil))
	orderAccum := network.NewAccumulateNode("accumulate:order-total",
		nil, []rete.Var{varCustomer}, rete.Condition{ID: "order-total"}, factOrder,
		sumAmounts(), totalProd, totalsQuery)

	orderAlpha := fixture.NewAlphaNode("alpha:order", factOrder,
		fixture.BindFields(map[string]rete.Var{"customer": varCustomer, "amount": varAmount}),
		orderAccum)

	return &rete.Rulebase{
		AlphaRoots: map[rete.FactType][]*rete.AlphaNode{
			factPerson:     {personAlpha},
			factOrder:      {orderAlpha},
			factSuspension: {suspensionAlpha},
		},
		BetaRoots: []rete.ActivatableNode{personRoot, orderAccum},
		ProductionNodes: []rete.ProductionRef{adultProd, vipProd, totalProd},
		QueryNodes: map[string]rete.QueryNodeRef{
			"adults":         adultsQuery,
			"vip-candidates": vipQuery,
			"order-totals":   totalsQuery,
		},
	}
}

func isAdult(b rete.Bindings) bool {
	age, ok := b[varAge].(rete.Int)
	return ok && age >= 21
}

func adultRHS(w io.Writer) rete.RHS {
	return func(ctx rete.RuleContext, b rete.Bindings) error {
		name := b[varName]
		fmt.Fprintf(w, "adult-rule fired: %s is an adult\n", formatValue(name))
		ctx.Insert(rete.NewFact(factAdult, rete.Object{"name": name}))
		return nil
	}
}

func vipRHS(w io.Writer) rete.RHS {
	return func(_ rete.RuleContext, b rete.Bindings) error {
		fmt.Fprintf(w, "vip-candidate fired: %s has no suspension on file\n", formatValue(b[varName]))
		return nil
	}
}

func logTotalRHS(w io.Writer) rete.RHS {
	return func(_ rete.RuleContext, b rete.Bindings) error {
		fmt.Fprintf(w, "order total updated: %s now totals %s\n", formatValue(b[varCustomer]), formatValue(b[varTotal]))
		return nil
	}
}

// orderTotal is the accumulator state sumAmounts folds Order elements
// into: the running sum plus how many orders contributed to it, the
// latter needed to tell "total is zero" apart from "no orders left."
type orderTotal struct {
	sum   rete.Int
	count int
}

// sumAmounts folds Order elements' ?amount bindings into a running
// rete.Int total, starting from zero so a customer's first order
// already produces a defined total rather than waiting for a second.
func sumAmounts() rete.Accumulator {
	amountOf := func(bindings rete.Bindings) rete.Int {
		amount, _ := bindings[varAmount].(rete.Int)
		return amount
	}
	return rete.Accumulator{
		Initial:    orderTotal{},
		HasInitial: true,
		Reduce: func(state rete.AccumState, _ rete.Fact, bindings rete.Bindings) rete.AccumState {
			s := state.(orderTotal)
			return orderTotal{sum: s.sum + amountOf(bindings), count: s.count + 1}
		},
		Combine: func(state, batch rete.AccumState) rete.AccumState {
			s, b := state.(orderTotal), batch.(orderTotal)
			return orderTotal{sum: s.sum + b.sum, count: s.count + b.count}
		},
		Retract: func(state rete.AccumState, _ rete.Fact, bindings rete.Bindings) (rete.AccumState, bool) {
			s := state.(orderTotal)
			next := orderTotal{sum: s.sum - amountOf(bindings), count: s.count - 1}
			return next, next.count <= 0
		},
		Convert:       func(state rete.AccumState) rete.Value { return state.(orderTotal).sum },
		ResultBinding: varTotal,
	}
}

// alphaRetract builds an AlphaRetractFunc that cascade-retracts
// production-inserted facts through roots, one fact at a time. The
// demo's productions insert facts no alpha root consumes (Adult has no
// registered alpha node), so roots is nil for every production here;
// the helper still exists to match the shape a real rulebase builder
// would use once a production's inserted type does have consumers.
func alphaRetract(roots map[rete.FactType][]*rete.AlphaNode) network.AlphaRetractFunc {
	return func(tx rete.TransientMemory, lp rete.TransientListener, facts []rete.Fact) {
		for _, f := range facts {
			network.AlphaRetract(tx, lp, roots[f.Type], []rete.Fact{f})
		}
	}
}

func formatValue(v rete.Value) string {
	switch vv := v.(type) {
	case rete.String:
		return string(vv)
	case rete.Int:
		return fmt.Sprintf("%d", int64(vv))
	default:
		return fmt.Sprintf("%v", v)
	}
}
