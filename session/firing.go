package session

import (
	"github.com/latticeforge/rete"
	"github.com/latticeforge/rete/memory"
	"github.com/latticeforge/rete/network"
)

// FireRules drains the agenda, invoking each pending activation's
// production RHS in turn (spec.md §4.H). An RHS failure is wrapped as
// an EngineError(ErrRHSFailure) and returned alongside the Session as
// it stood at the point of failure — per spec.md §7, memory is left in
// whatever partial state the transient received, and callers are
// expected to discard the returned Session rather than continue
// working from it.
func (s Session) FireRules() (Session, error) {
	cycleID := s.activationIDs.Generate()
	s.logger.Info("fire-rules cycle starting", "cycle", cycleID)

	tx := memory.ToTransient(s.memory)
	lp := s.listener.ToTransient()

	var fireErr error
	fired := 0
loop:
	for {
		activation, ok := tx.PopActivation()
		if !ok {
			break
		}
		if s.maxActivations > 0 && fired >= s.maxActivations {
			s.logger.Error("max activations exceeded", "cycle", cycleID, "limit", s.maxActivations)
			fireErr = rete.NewEngineError(rete.ErrRHSFailure,
				"fire-rules exceeded max-activations without quiescing", nil)
			break loop
		}
		fired++

		prod := activation.Node
		activationID := s.activationIDs.Generate()
		lp.FireRules(prod)

		rhs := prod.RHS()
		if rhs == nil {
			s.logger.Debug("activation fired with no RHS", "cycle", cycleID, "activation", activationID, "rule", prod.RuleID())
			continue
		}

		s.logger.Debug("activation firing", "cycle", cycleID, "activation", activationID, "rule", prod.RuleID())
		tx.SetFiring(prod.RuleID())
		ctx := &ruleContext{
			rulebase: s.rulebase,
			tx:       tx,
			lp:       lp,
			node:     prod,
			token:    activation.Token,
		}
		err := rhs(ctx, activation.Token.Bindings)
		tx.ClearFiring()
		if err != nil {
			s.logger.Error("rule RHS failed", "cycle", cycleID, "activation", activationID, "rule", prod.RuleID(), "error", err)
			fireErr = rete.NewEngineError(rete.ErrRHSFailure,
				"rule "+prod.RuleID()+" RHS failed", err)
			break loop
		}
	}

	if fireErr == nil {
		s.logger.Info("fire-rules quiesced", "cycle", cycleID, "fired", fired)
	}
	return s.snapshot(tx, lp), fireErr
}

// ruleContext implements rete.RuleContext (spec.md §4.H step 3): the
// explicit mutable session handle a production's RHS uses to re-enter
// the session mid-fire, in place of the thread-local *current-session*
// / *rule-context* the spec describes (spec.md §9's Go-specific design
// note).
type ruleContext struct {
	rulebase *rete.Rulebase
	tx       *memory.Transient
	lp       rete.TransientListener
	node     rete.ProductionRef
	token    rete.Token
}

// Bindings implements rete.RuleContext.
func (c *ruleContext) Bindings() rete.Bindings { return c.token.Bindings }

// Insert implements rete.RuleContext. Facts are alpha-activated
// in-place on the firing loop's transient memory and recorded in the
// insertion log keyed by (production node, firing token), so they can
// be cascade-retracted if that token is later revoked.
func (c *ruleContext) Insert(facts ...rete.Fact) {
	if len(facts) == 0 {
		return
	}
	c.lp.InsertFacts(facts)
	c.tx.RecordInsertions(c.node.NodeID(), c.token, facts)
	for _, g := range groupFactsByType(facts) {
		network.AlphaActivate(c.tx, c.lp, c.rulebase.AlphaRoots[g.factType], g.facts)
	}
}

// Retract implements rete.RuleContext.
func (c *ruleContext) Retract(facts ...rete.Fact) {
	if len(facts) == 0 {
		return
	}
	c.lp.RetractFacts(facts)
	for _, g := range groupFactsByType(facts) {
		network.AlphaRetract(c.tx, c.lp, c.rulebase.AlphaRoots[g.factType], g.facts)
	}
}

var _ rete.RuleContext = (*ruleContext)(nil)
