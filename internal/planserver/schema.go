package planserver

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// planSchema describes the object the model must return. Field-level
// fallbacks are resolved by the client's normalizer, so only the shape that
// every chunk depends on is enforced here.
const planSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["calendar"],
  "properties": {
    "calendar": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["day"],
        "properties": {
          "day": {"type": ["integer", "string"]},
          "phaseNumber": {"type": ["integer", "string"]},
          "taskName": {"type": "string"},
          "timeCommitment": {"type": "string"},
          "taskDescription": {"type": "string"},
          "resources": {"type": "array"}
        }
      }
    },
    "introduction": {
      "type": "object",
      "properties": {
        "title": {"type": "string"},
        "overview": {"type": "string"},
        "goals": {"type": "array", "items": {"type": "string"}}
      }
    },
    "plan": {
      "type": "array",
      "items": {"type": "object"}
    }
  }
}`

func compilePlanSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.CompileString("plan.schema.json", planSchema)
	if err != nil {
		return nil, fmt.Errorf("compiling plan schema: %w", err)
	}
	return schema, nil
}
