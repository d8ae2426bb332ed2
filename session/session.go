// Package session implements Session (spec.md §4.F): the immutable
// value holding (rulebase, memory, listener) that insert, retract, and
// fire-rules each transform into a new Session, leaving the receiver a
// valid unchanged snapshot. It wires together packages rete, memory,
// listener, and network the way the teacher's internal/engine wires its
// own evaluator, store, and harness packages.
package session

import (
	"io"
	"log/slog"

	"github.com/latticeforge/rete"
	"github.com/latticeforge/rete/listener"
	"github.com/latticeforge/rete/memory"
	"github.com/latticeforge/rete/network"
)

// Session holds an immutable (rulebase, memory, listener) triple, per
// spec.md §4.F. Every mutating method returns a new Session; the
// receiver is never modified in place.
type Session struct {
	rulebase       *rete.Rulebase
	memory         *memory.Persistent
	listener       listener.PersistentListener
	maxActivations int
	logger         *slog.Logger
	activationIDs  ActivationIDGenerator
}

// Option configures a Session at construction time.
type Option func(*Session)

// WithListener attaches a persistent listener pipeline. The default is
// listener.Null{}, i.e. no listeners (spec.md §4.G).
func WithListener(l listener.PersistentListener) Option {
	return func(s *Session) { s.listener = l }
}

// WithMaxActivations bounds how many activations FireRules will drain
// before returning an error, guarding against a rule set that never
// quiesces (spec.md §4.H notes the engine "does not detect general
// non-termination" beyond the no-loop flag; this is the caller's escape
// hatch). Zero, the default, means unbounded.
func WithMaxActivations(n int) Option {
	return func(s *Session) { s.maxActivations = n }
}

// WithLogger attaches a structured logger, passed as a field on Session
// rather than a package-global, so separate sessions in the same
// process can log independently. The default discards every line.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithActivationIDGenerator overrides how FireRules mints the
// correlation ID attached to each activation's log lines. The default
// is UUIDv7Generator; tests wanting deterministic log output supply a
// FixedGenerator instead.
func WithActivationIDGenerator(g ActivationIDGenerator) Option {
	return func(s *Session) { s.activationIDs = g }
}

// New constructs a Session from a compiled Rulebase, seeding memory by
// left-activating every beta root with the empty token.
func New(rulebase *rete.Rulebase, opts ...Option) Session {
	s := Session{
		rulebase:      rulebase,
		memory:        memory.Empty(),
		listener:      listener.Null{},
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		activationIDs: UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(&s)
	}

	tx := memory.ToTransient(s.memory)
	lp := s.listener.ToTransient()
	root := rete.RootToken()
	for _, b := range rulebase.BetaRoots {
		b.LeftActivate(tx, lp, rete.EmptyBindings(), []rete.Token{root})
	}
	s.memory = memory.ToPersistent(tx)
	s.listener = lp.ToPersistent()
	s.logger.Info("session created", "beta_roots", len(rulebase.BetaRoots), "query_nodes", len(rulebase.QueryNodes))
	return s
}

// Components is the read-only view Session.Components returns
// (spec.md §6).
type Components struct {
	Rulebase *rete.Rulebase
	Memory   *memory.Persistent
	Listener listener.PersistentListener
}

// Components implements spec.md §6's components() accessor.
func (s Session) Components() Components {
	return Components{Rulebase: s.rulebase, Memory: s.memory, Listener: s.listener}
}

// Insert alpha-activates facts, grouped by fact type in first-seen
// order, against the rulebase's alpha roots.
func (s Session) Insert(facts ...rete.Fact) Session {
	s.logger.Debug("inserting facts", "count", len(facts))
	tx := memory.ToTransient(s.memory)
	lp := s.listener.ToTransient()
	lp.InsertFacts(facts)
	for _, g := range groupFactsByType(facts) {
		network.AlphaActivate(tx, lp, s.rulebase.AlphaRoots[g.factType], g.facts)
	}
	return s.snapshot(tx, lp)
}

// Retract mirrors Insert using alpha-retract.
func (s Session) Retract(facts ...rete.Fact) Session {
	s.logger.Debug("retracting facts", "count", len(facts))
	tx := memory.ToTransient(s.memory)
	lp := s.listener.ToTransient()
	lp.RetractFacts(facts)
	for _, g := range groupFactsByType(facts) {
		network.AlphaRetract(tx, lp, s.rulebase.AlphaRoots[g.factType], g.facts)
	}
	return s.snapshot(tx, lp)
}

// Query locates the named QueryNode and returns the bindings of every
// token currently stored under it for the given parameter bindings. It
// fails with an EngineError(ErrUnknownQuery) if name was never
// registered (spec.md §6).
func (s Session) Query(name string, params rete.Bindings) ([]rete.Bindings, error) {
	node, ok := s.rulebase.QueryNodes[name]
	if !ok {
		s.logger.Error("unknown query", "query", name)
		return nil, rete.NewEngineError(rete.ErrUnknownQuery, "unknown query: "+name, nil)
	}
	tx := memory.ToTransient(s.memory)
	tokens := tx.GetTokens(node.NodeID(), params.Project(node.ParamKeys()))
	s.logger.Debug("query executed", "query", name, "rows", len(tokens))
	out := make([]rete.Bindings, len(tokens))
	for i, t := range tokens {
		out[i] = t.Bindings
	}
	return out, nil
}

// Count mirrors Query but returns only the matching row count, without
// copying each token's bindings — the fast path spec.md §8 scenario 6
// exercises for an accumulator-backed query.
func (s Session) Count(name string, params rete.Bindings) (int, error) {
	node, ok := s.rulebase.QueryNodes[name]
	if !ok {
		s.logger.Error("unknown query", "query", name)
		return 0, rete.NewEngineError(rete.ErrUnknownQuery, "unknown query: "+name, nil)
	}
	tx := memory.ToTransient(s.memory)
	n := node.Count(tx, params)
	s.logger.Debug("count query executed", "query", name, "count", n)
	return n, nil
}

func (s Session) snapshot(tx *memory.Transient, lp rete.TransientListener) Session {
	next := s
	next.memory = memory.ToPersistent(tx)
	next.listener = lp.(listener.TransientListener).ToPersistent()
	return next
}

type factGroup struct {
	factType rete.FactType
	facts    []rete.Fact
}

// groupFactsByType groups facts by type in first-seen order, matching
// the deterministic grouping discipline package transport uses for
// elements and tokens.
func groupFactsByType(facts []rete.Fact) []factGroup {
	order := make([]rete.FactType, 0, len(facts))
	groups := make(map[rete.FactType]*factGroup, len(facts))
	for _, f := range facts {
		g, ok := groups[f.Type]
		if !ok {
			g = &factGroup{factType: f.Type}
			groups[f.Type] = g
			order = append(order, f.Type)
		}
		g.facts = append(g.facts, f)
	}
	out := make([]factGroup, len(order))
	for i, t := range order {
		out[i] = *groups[t]
	}
	return out
}
