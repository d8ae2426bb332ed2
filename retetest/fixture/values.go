// Package fixture builds test Rulebases and fact sets for the network
// and session packages' tests, standing in for the out-of-scope DSL
// compiler (spec.md §1, "external collaborators"). Grounded on the
// teacher's harness.Scenario YAML loader, retargeted from
// action-invocation scenarios to fact/rule fixtures.
package fixture

import (
	"fmt"

	"github.com/latticeforge/rete"
)

// ToValue converts a decoded YAML scalar/slice/map into a rete.Value.
// Integers decode as rete.Int; yaml.v3 decodes untyped numeric scalars
// into Go int, so this does not need to handle float64 — callers that
// need a float-shaped field should model it as a rete.String and
// convert downstream, since rete.Value deliberately excludes floats
// (see value.go).
func ToValue(v any) (rete.Value, error) {
	switch vv := v.(type) {
	case nil:
		return rete.Object{}, nil
	case string:
		return rete.String(vv), nil
	case int:
		return rete.Int(vv), nil
	case int64:
		return rete.Int(vv), nil
	case bool:
		return rete.Bool(vv), nil
	case []any:
		out := make(rete.List, len(vv))
		for i, e := range vv {
			cv, err := ToValue(e)
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		return out, nil
	case map[string]any:
		out := make(rete.Object, len(vv))
		for k, e := range vv {
			cv, err := ToValue(e)
			if err != nil {
				return nil, err
			}
			out[k] = cv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("fixture: unsupported value type %T", v)
	}
}

// MustValue panics on error; used by fixture builders constructing
// literal bindings in test setup.
func MustValue(v any) rete.Value {
	val, err := ToValue(v)
	if err != nil {
		panic(err)
	}
	return val
}
