package fs

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/aretw0/animio/pkg/core"
)

// actionSchemaURL - the document schema is registered as this resource.
const actionSchemaURL = "file:///action.schema.json"

// actionSchemaTemplate describes the structure of an action document. The
// numeric type is filled in per mode: lenient mode also accepts strings and
// leaves their parsing to the decoder.
const actionSchemaTemplate = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name", "keyframes"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "name": {"type": "string"},
    "keyframes": {"type": "array", "items": {"$ref": "#/$defs/keyframe"}}
  },
  "$defs": {
    "number": {"type": %[1]s},
    "index": {"type": %[2]s},
    "vec2": {
      "type": "array",
      "minItems": 2,
      "maxItems": 2,
      "items": {"$ref": "#/$defs/number"}
    },
    "keyframe": {
      "type": "object",
      "required": [
        "data_path", "array_index", "co",
        "handle_left", "handle_left_type", "handle_right", "handle_right_type",
        "interpolation", "easing", "amplitude", "back", "period", "type"
      ],
      "properties": {
        "data_path": {"type": "string", "minLength": 1},
        "group": {"type": "string"},
        "array_index": {"$ref": "#/$defs/index"},
        "co": {"$ref": "#/$defs/vec2"},
        "handle_left": {"$ref": "#/$defs/vec2"},
        "handle_left_type": {"type": "string"},
        "handle_right": {"$ref": "#/$defs/vec2"},
        "handle_right_type": {"type": "string"},
        "interpolation": {"type": "string"},
        "easing": {"type": "string"},
        "amplitude": {"$ref": "#/$defs/number"},
        "back": {"$ref": "#/$defs/number"},
        "period": {"$ref": "#/$defs/number"},
        "type": {"type": "string"}
      }
    }
  }
}`

var (
	lenientSchema = mustCompileSchema(false)
	strictSchema  = mustCompileSchema(true)
)

func mustCompileSchema(strict bool) *jsonschema.Schema {
	number, index := `["number", "string"]`, `["integer", "string"]`
	if strict {
		number, index = `"number"`, `"integer"`
	}
	return jsonschema.MustCompileString(actionSchemaURL, fmt.Sprintf(actionSchemaTemplate, number, index))
}

// validateStructure checks the raw payload against the document schema and
// returns every violation found.
func validateStructure(payload any, strict bool) ([]core.Problem, error) {
	schema := lenientSchema
	if strict {
		schema = strictSchema
	}

	err := schema.Validate(payload)
	if err == nil {
		return nil, nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return nil, err
	}
	return schemaProblems(validationErr), nil
}

// schemaProblems flattens the cause tree into leaf problems sorted by location.
func schemaProblems(root *jsonschema.ValidationError) []core.Problem {
	var problems []core.Problem
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			problems = append(problems, core.Problem{
				Location: instancePath(e.InstanceLocation),
				Message:  strings.ReplaceAll(e.Message, `'`, `"`),
			})
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(root)

	sort.SliceStable(problems, func(i, j int) bool {
		return problems[i].Location < problems[j].Location
	})
	return problems
}

// instancePath turns a JSON pointer ("/keyframes/3/co") into "keyframes.3.co".
func instancePath(pointer string) string {
	return strings.ReplaceAll(strings.TrimLeft(pointer, "/"), "/", ".")
}
