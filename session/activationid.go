package session

import (
	"sync"

	"github.com/google/uuid"
)

// ActivationIDGenerator produces the correlation ID FireRules attaches
// to each activation's log lines, letting a reader follow one
// conflict-set pop through its RHS in an otherwise interleaved log.
type ActivationIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 activation IDs, so log
// lines for the same firing session sort chronologically by ID alone.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined activation IDs for tests,
// enabling deterministic log/golden-trace comparison.
//
// Thread-safety: FixedGenerator is safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedGenerator creates a generator that returns tokens in order.
//
// Example:
//
//	gen := NewFixedGenerator("act-1", "act-2")
//	gen.Generate() // "act-1"
//	gen.Generate() // "act-2"
//	gen.Generate() // panic: all tokens exhausted
func NewFixedGenerator(tokens ...string) *FixedGenerator {
	return &FixedGenerator{tokens: tokens}
}

// Generate returns the next predetermined token.
// Panics if all tokens have been consumed, a fail-fast signal that a
// test fired more activations than it accounted for.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.tokens) {
		panic("FixedGenerator: all tokens exhausted")
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}

var (
	_ ActivationIDGenerator = UUIDv7Generator{}
	_ ActivationIDGenerator = (*FixedGenerator)(nil)
)
