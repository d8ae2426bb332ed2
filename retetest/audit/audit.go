// Package audit implements a sqlite3-backed, append-only listener for
// recording every propagation event a session cycle produces, grounded
// on the teacher's store.Store write discipline (internal/store/store.go,
// write.go): WAL mode, a single writer connection, and append-only
// inserts rather than updates.
package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/latticeforge/rete"
	"github.com/latticeforge/rete/listener"
)

// Listener is the persistent form: a handle on the open database.
type Listener struct {
	db    *sql.DB
	runID string
}

const schema = `
CREATE TABLE IF NOT EXISTS events (
	seq       INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id    TEXT NOT NULL,
	type      TEXT NOT NULL,
	node_id   TEXT,
	node_kind TEXT,
	payload   TEXT NOT NULL
);`

// newRunID generates a time-sortable UUIDv7 identifying one Open call,
// so multiple runs appended to the same audit file stay distinguishable
// by run_id without needing a separate file per run. Grounded on the
// teacher's UUIDv7Generator (internal/engine/flow.go).
func newRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Open creates or opens a sqlite3 database at path and ensures the
// events table exists. Safe to call repeatedly against the same file;
// each call stamps its own events with a fresh run_id.
func Open(path string) (*Listener, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("audit: connect %s: %w", path, err)
	}
	// A single writer, matching the teacher's SQLite connection-pool
	// sizing: SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("audit: apply %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("audit: create schema: %w", err)
	}
	return &Listener{db: db, runID: newRunID()}, nil
}

// Close closes the underlying database connection.
func (l *Listener) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// ToTransient implements listener.PersistentListener.
func (l *Listener) ToTransient() listener.TransientListener {
	return &transient{db: l.db, runID: l.runID}
}

type transient struct {
	db    *sql.DB
	runID string
	err   error
}

func nodeFields(n rete.Node) (id, kind string) {
	if n == nil {
		return "", ""
	}
	return n.NodeID(), string(n.Kind())
}

func (t *transient) write(eventType string, node rete.Node, payload any) {
	if t.err != nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.err = fmt.Errorf("audit: marshal %s payload: %w", eventType, err)
		return
	}
	id, kind := nodeFields(node)
	if _, err := t.db.Exec(
		`INSERT INTO events (run_id, type, node_id, node_kind, payload) VALUES (?, ?, ?, ?, ?)`,
		t.runID, eventType, id, kind, string(data),
	); err != nil {
		t.err = fmt.Errorf("audit: insert %s event: %w", eventType, err)
	}
}

func (t *transient) LeftActivate(node rete.Node, tokens []rete.Token) {
	t.write("left-activate", node, tokenPayload(tokens))
}

func (t *transient) LeftRetract(node rete.Node, tokens []rete.Token) {
	t.write("left-retract", node, tokenPayload(tokens))
}

func (t *transient) RightActivate(node rete.Node, elements []rete.Element) {
	t.write("right-activate", node, elementPayload(elements))
}

func (t *transient) RightRetract(node rete.Node, elements []rete.Element) {
	t.write("right-retract", node, elementPayload(elements))
}

func (t *transient) InsertFacts(facts []rete.Fact) {
	t.write("insert-facts", nil, factPayload(facts))
}

func (t *transient) RetractFacts(facts []rete.Fact) {
	t.write("retract-facts", nil, factPayload(facts))
}

func (t *transient) AddAccumReduced(node rete.Node, joinBindings rete.Bindings, reduced rete.Value, factBindings rete.Bindings) {
	t.write("add-accum-reduced", node, map[string]string{
		"join_bindings": joinBindings.String(),
		"fact_bindings": factBindings.String(),
	})
}

func (t *transient) AddActivations(node rete.Node, activations []rete.ActivationRecord) {
	t.write("add-activations", node, activationPayload(activations))
}

func (t *transient) RemoveActivations(node rete.Node, activations []rete.ActivationRecord) {
	t.write("remove-activations", node, activationPayload(activations))
}

func (t *transient) FireRules(node rete.Node) {
	t.write("fire-rules", node, struct{}{})
}

func (t *transient) SendMessage(message string) {
	t.write("message", nil, map[string]string{"message": message})
}

// ToPersistent implements listener.TransientListener. A listener is
// trusted code per spec.md §7 ("listener failures propagate likewise");
// a write failure surfaces as a panic here rather than a silently
// dropped audit row.
func (t *transient) ToPersistent() listener.PersistentListener {
	if t.err != nil {
		panic(rete.NewEngineError(rete.ErrRHSFailure, "audit listener write failed", t.err))
	}
	return &Listener{db: t.db, runID: t.runID}
}

func tokenPayload(tokens []rete.Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Bindings.String()
	}
	return out
}

func elementPayload(elements []rete.Element) []string {
	out := make([]string, len(elements))
	for i, e := range elements {
		out[i] = e.Bindings.String()
	}
	return out
}

func factPayload(facts []rete.Fact) []string {
	out := make([]string, len(facts))
	for i, f := range facts {
		out[i] = string(f.Type)
	}
	return out
}

func activationPayload(activations []rete.ActivationRecord) []string {
	out := make([]string, len(activations))
	for i, a := range activations {
		out[i] = a.RuleID + ":" + a.Token.Bindings.String()
	}
	return out
}

var (
	_ listener.PersistentListener = (*Listener)(nil)
	_ listener.TransientListener  = (*transient)(nil)
)
