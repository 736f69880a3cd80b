package command

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compileSchema compiles a JSON-Schema-shaped map under a synthetic
// resource URL unique to this definition and type name, so multiple
// command definitions never collide in the compiler's resource cache.
func compileSchema(resourceURL string, schema map[string]any) (*jsonschema.Schema, error) {
	if schema == nil {
		return nil, nil
	}

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("command: marshaling schema for %s: %w", resourceURL, err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(resourceURL, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("command: registering schema for %s: %w", resourceURL, err)
	}
	sch, err := c.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("command: compiling schema for %s: %w", resourceURL, err)
	}
	return sch, nil
}

// validateAgainst validates value (already decoded into plain JSON types:
// map[string]any, []any, string, float64, bool, nil) against sch. A nil
// schema always passes. Returns the schema validator's own error messages.
func validateAgainst(sch *jsonschema.Schema, value any) []string {
	if sch == nil {
		return nil
	}
	if err := sch.Validate(value); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			return flattenErrors(ve)
		}
		return []string{err.Error()}
	}
	return nil
}

func flattenErrors(ve *jsonschema.ValidationError) []string {
	if ve == nil {
		return nil
	}
	out := []string{ve.Error()}
	for _, cause := range ve.Causes {
		out = append(out, flattenErrors(cause)...)
	}
	return out
}
