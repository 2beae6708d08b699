package model

import (
	"fmt"
	"sync"

	"github.com/kaptinlin/jsonschema"
)

// schemaDefs holds the definitions shared by the layer view and raw layer
// schemas. Only the shape the graph builder depends on is constrained;
// unknown attributes are allowed so newer platform fields pass through.
const schemaDefs = `{
  "money": {
    "type": "object",
    "required": ["value"],
    "properties": {
      "value": {"type": "number"},
      "currency": {"type": ["string", "null"]}
    }
  },
  "optional_money": {
    "anyOf": [{"$ref": "#/$defs/money"}, {"type": "null"}]
  },
  "date": {"type": ["string", "null"]},
  "loss_set": {
    "type": "object",
    "properties": {
      "_type": {"type": "string"},
      "id": {"type": "string"},
      "description": {"type": ["string", "null"]}
    }
  },
  "layer": {
    "type": "object",
    "required": ["_type"],
    "properties": {
      "_type": {"type": "string", "minLength": 1},
      "id": {"type": ["string", "null"]},
      "description": {"type": ["string", "null"]},
      "inception_date": {"$ref": "#/$defs/date"},
      "expiry_date": {"$ref": "#/$defs/date"},
      "payout_date": {"$ref": "#/$defs/date"},
      "participation": {"type": ["number", "null"]},
      "criterion": {"type": ["string", "null"]},
      "count": {"type": ["integer", "null"]},
      "invert": {"type": ["boolean", "null"]},
      "nth": {"type": ["integer", "null"]},
      "aggregate_period": {"type": ["number", "null"]},
      "aggregate_reset": {"type": ["integer", "null"]},
      "number_of_lines": {"type": ["number", "null"]},
      "attachment": {"$ref": "#/$defs/optional_money"},
      "limit": {"$ref": "#/$defs/optional_money"},
      "franchise": {"$ref": "#/$defs/optional_money"},
      "event_limit": {"$ref": "#/$defs/optional_money"},
      "aggregate_attachment": {"$ref": "#/$defs/optional_money"},
      "aggregate_limit": {"$ref": "#/$defs/optional_money"},
      "sums_insured": {"$ref": "#/$defs/optional_money"},
      "retained_line": {"$ref": "#/$defs/optional_money"},
      "trigger": {"$ref": "#/$defs/optional_money"},
      "payout": {"$ref": "#/$defs/optional_money"},
      "payout_amount": {"$ref": "#/$defs/optional_money"},
      "premium": {"$ref": "#/$defs/optional_money"},
      "filters": {
        "type": ["array", "null"],
        "items": {"type": "object", "properties": {"name": {"type": "string"}}}
      },
      "reinstatements": {
        "type": ["array", "null"],
        "items": {
          "type": "object",
          "properties": {
            "premium": {"type": "number"},
            "brokerage": {"type": "number"}
          }
        }
      },
      "loss_sets": {"type": ["array", "null"], "items": {"$ref": "#/$defs/loss_set"}},
      "sink": {"$ref": "#/$defs/layer"},
      "sources": {"type": ["array", "null"], "items": {"$ref": "#/$defs/layer"}}
    }
  }
}`

const layerViewSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://schemas.analyzere.net/extras/layer_view.json",
  "type": "object",
  "required": ["layer"],
  "properties": {
    "id": {"type": ["string", "null"]},
    "layer": {"$ref": "#/$defs/layer"}
  },
  "$defs": %s
}`

const layerSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://schemas.analyzere.net/extras/layer.json",
  "$ref": "#/$defs/layer",
  "$defs": %s
}`

type compiledSchemas struct {
	layerView *jsonschema.Schema
	layer     *jsonschema.Schema
}

var loadSchemas = sync.OnceValues(func() (compiledSchemas, error) {
	compiler := jsonschema.NewCompiler()
	lv, err := compiler.Compile([]byte(fmt.Sprintf(layerViewSchema, schemaDefs)))
	if err != nil {
		return compiledSchemas{}, fmt.Errorf("compile layer view schema: %w", err)
	}
	l, err := compiler.Compile([]byte(fmt.Sprintf(layerSchema, schemaDefs)))
	if err != nil {
		return compiledSchemas{}, fmt.Errorf("compile layer schema: %w", err)
	}
	return compiledSchemas{layerView: lv, layer: l}, nil
})

func validateAgainst(schema *jsonschema.Schema, data []byte) error {
	result := schema.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}
	return fmt.Errorf("schema validation failed: %v", result.Errors)
}
