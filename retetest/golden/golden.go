// Package golden renders a listener.Recorder's event trace into a
// deterministic JSON snapshot and compares it against a golden file,
// grounded on the teacher's harness.TraceSnapshot / RunWithGolden
// (internal/harness/golden.go), retargeted from action-invocation
// traces to Rete propagation traces.
package golden

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/latticeforge/rete"
	"github.com/latticeforge/rete/listener"
)

// Snapshot is the JSON-serializable rendering compared across test
// runs.
type Snapshot struct {
	Name   string      `json:"name"`
	Events []EventView `json:"events"`
}

// EventView flattens one listener.Event into a shape independent of
// the concrete node type backing it, so golden files never depend on
// the in-memory Go representation of a Node.
type EventView struct {
	Type     string   `json:"type"`
	NodeID   string   `json:"node_id,omitempty"`
	NodeKind string   `json:"node_kind,omitempty"`
	Bindings []string `json:"bindings,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// BuildSnapshot converts a recorded event trace into a Snapshot.
func BuildSnapshot(name string, events []listener.Event) Snapshot {
	views := make([]EventView, len(events))
	for i, e := range events {
		views[i] = toView(e)
	}
	return Snapshot{Name: name, Events: views}
}

func toView(e listener.Event) EventView {
	v := EventView{Type: string(e.Type), Message: e.Message}
	if e.Node != nil {
		v.NodeID = e.Node.NodeID()
		v.NodeKind = string(e.Node.Kind())
	}
	for _, t := range e.Tokens {
		v.Bindings = append(v.Bindings, t.Bindings.String())
	}
	for _, el := range e.Elements {
		v.Bindings = append(v.Bindings, el.Bindings.String())
	}
	for _, f := range e.Facts {
		v.Bindings = append(v.Bindings, string(f.Type))
	}
	for _, a := range e.Activations {
		v.Bindings = append(v.Bindings, a.RuleID+":"+a.Token.Bindings.String())
	}
	if e.Reduced != nil {
		v.Bindings = append(v.Bindings, formatReduced(e.Reduced))
	}
	return v
}

func formatReduced(v rete.Value) string {
	switch vv := v.(type) {
	case rete.String:
		return fmt.Sprintf("%q", string(vv))
	case rete.Int:
		return fmt.Sprintf("%d", int64(vv))
	case rete.Bool:
		return fmt.Sprintf("%t", bool(vv))
	default:
		return fmt.Sprintf("%v", v)
	}
}

// AssertSnapshot builds a Snapshot from events and compares it against
// testdata/golden/<name>.golden via goldie, failing t on mismatch.
// Regenerate golden files with `go test ./... -update`.
func AssertSnapshot(t *testing.T, name string, events []listener.Event) {
	t.Helper()
	snap := BuildSnapshot(name, events)
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		t.Fatalf("golden: marshal snapshot: %v", err)
	}
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, name, data)
}
