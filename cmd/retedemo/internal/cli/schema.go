package cli

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// defaultSchema constrains a fact fixture document the way the demo
// expects it shaped: a list of {type, fields} entries, each with a
// required fields map. The names inside fields are not constrained.
// Grounded on the teacher's CUE-schema validation step
// (internal/cli/validate.go), retargeted from concept/sync specs to fact
// fixtures.
const defaultSchema = `
facts: [...{
	type: "Person" | "Order" | "Suspension" | string
	fields!: {...}
}]
`

// ValidateFactDoc unifies a decoded fact fixture document against a CUE
// schema (schemaSrc, or defaultSchema if empty) and reports every
// constraint violation found. doc is the same shape fixture.LoadFacts
// parses: a map with a top-level "facts" list.
func ValidateFactDoc(doc map[string]any, schemaSrc string) error {
	if schemaSrc == "" {
		schemaSrc = defaultSchema
	}
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSrc)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("cli: compile schema: %w", err)
	}
	data := ctx.Encode(doc)
	if err := data.Err(); err != nil {
		return fmt.Errorf("cli: encode fact document: %w", err)
	}
	unified := schema.Unify(data)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("cli: fact document does not satisfy schema: %w", err)
	}
	return nil
}
