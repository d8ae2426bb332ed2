package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFactDoc_AcceptsWellShapedDocument(t *testing.T) {
	doc := map[string]any{
		"facts": []any{
			map[string]any{"type": "Person", "fields": map[string]any{"name": "alice", "age": 34}},
		},
	}
	assert.NoError(t, ValidateFactDoc(doc, ""))
}

func TestValidateFactDoc_RejectsMissingFields(t *testing.T) {
	doc := map[string]any{
		"facts": []any{
			map[string]any{"type": "Person"},
		},
	}
	assert.Error(t, ValidateFactDoc(doc, ""), "a fact entry missing the required fields map must fail schema validation")
}

func TestValidateFactDoc_RejectsWrongTopLevelShape(t *testing.T) {
	doc := map[string]any{"facts": "not-a-list"}
	assert.Error(t, ValidateFactDoc(doc, ""))
}

func TestValidateFactDoc_CustomSchemaOverridesDefault(t *testing.T) {
	doc := map[string]any{"facts": []any{map[string]any{"type": "Widget", "fields": map[string]any{}}}}

	narrowSchema := `facts: [...{type: "Person", fields: {...}}]`
	assert.Error(t, ValidateFactDoc(doc, narrowSchema), "a custom schema that only allows Person must reject a Widget fact")

	assert.NoError(t, ValidateFactDoc(doc, ""), "the default schema allows any string type")
}
