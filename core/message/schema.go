package message

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaSource holds one JSON Schema document per tag, keyed by the
// resource URL the compiler registers it under. Kept intentionally
// permissive (structural shape, not exhaustive business rules) since the
// command-level validators in core/command own input/output/config-profile
// payload validation; this layer only needs to catch malformed envelopes.
var schemaSource = map[Tag]string{
	TagInvoke: `{
		"type": "object",
		"required": ["tag", "configProfiles", "inputs"],
		"properties": {
			"tag": {"const": "Invoke"},
			"configProfiles": {"type": "object"},
			"inputs": {"type": "array", "items": {"$ref": "inputItem.json"}},
			"userConfirmation": {
				"type": "object",
				"required": ["confirmedBy"],
				"properties": {"confirmedBy": {"type": "string"}}
			}
		}
	}`,
	TagRequestInput: `{
		"type": "object",
		"required": ["tag", "inputs"],
		"properties": {
			"tag": {"const": "RequestInput"},
			"inputs": {"type": "object"}
		}
	}`,
	TagProvideInput: `{
		"type": "object",
		"required": ["tag", "inputs"],
		"properties": {
			"tag": {"const": "ProvideInput"},
			"inputs": {"type": "array", "items": {"$ref": "inputItem.json"}},
			"seq": {"type": "integer"}
		}
	}`,
	TagReturn: `{
		"type": "object",
		"required": ["tag", "items", "close"],
		"properties": {
			"tag": {"const": "Return"},
			"items": {"type": "array"},
			"close": {"type": "boolean"},
			"seq": {"type": "integer"}
		}
	}`,
	TagCancel: `{
		"type": "object",
		"required": ["tag"],
		"properties": {"tag": {"const": "Cancel"}}
	}`,
	TagRequestUserConfirmation: `{
		"type": "object",
		"required": ["tag", "reqId"],
		"properties": {
			"tag": {"const": "RequestUserConfirmation"},
			"reqId": {"type": "string"},
			"reason": {"type": "string"}
		}
	}`,
	TagProvideUserConfirmation: `{
		"type": "object",
		"required": ["tag", "reqId", "confirmedBy"],
		"properties": {
			"tag": {"const": "ProvideUserConfirmation"},
			"reqId": {"type": "string"},
			"confirmedBy": {"type": "string"}
		}
	}`,
	TagRequestPayment: `{
		"type": "object",
		"required": ["tag", "reqId", "acceptedPaymentSchemas", "amount", "currency", "description"],
		"properties": {
			"tag": {"const": "RequestPayment"},
			"reqId": {"type": "string"},
			"acceptedPaymentSchemas": {"type": "array", "items": {"type": "string"}},
			"amount": {"type": "number"},
			"currency": {"type": "string"},
			"description": {"type": "string"}
		}
	}`,
	TagAuthorizePayment: `{
		"type": "object",
		"required": ["tag", "reqId", "paymentId", "paymentSchema", "amount", "currency", "token"],
		"properties": {
			"tag": {"const": "AuthorizePayment"},
			"reqId": {"type": "string"},
			"paymentId": {"type": "string"},
			"paymentSchema": {"type": "string"},
			"amount": {"type": "number"},
			"currency": {"type": "string"},
			"token": {"type": "string"}
		}
	}`,
	TagRejectPayment: `{
		"type": "object",
		"required": ["tag", "reqId"],
		"properties": {
			"tag": {"const": "RejectPayment"},
			"reqId": {"type": "string"},
			"reason": {"type": "string"}
		}
	}`,
}

const inputItemSchema = `{
	"type": "object",
	"required": ["inputType", "value"],
	"properties": {
		"inputType": {"type": "string"}
	}
}`

var (
	compileOnce sync.Once
	compiled    map[Tag]*jsonschema.Schema
	compileErr  error
)

func compiledSchemas() (map[Tag]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("inputItem.json", strings.NewReader(inputItemSchema)); err != nil {
			compileErr = fmt.Errorf("message: compiling inputItem schema: %w", err)
			return
		}

		schemas := make(map[Tag]*jsonschema.Schema, len(schemaSource))
		for tag, src := range schemaSource {
			url := string(tag) + ".json"
			if err := c.AddResource(url, strings.NewReader(src)); err != nil {
				compileErr = fmt.Errorf("message: adding schema for %s: %w", tag, err)
				return
			}
			sch, err := c.Compile(url)
			if err != nil {
				compileErr = fmt.Errorf("message: compiling schema for %s: %w", tag, err)
				return
			}
			schemas[tag] = sch
		}
		compiled = schemas
	})
	return compiled, compileErr
}

// ValidateTag validates raw (a full tagged-envelope JSON document) against
// the compiled schema for tag. It returns an *InvalidMessageError carrying
// the schema's own error tree in ChildErrors on failure.
func ValidateTag(tag Tag, raw []byte) error {
	schemas, err := compiledSchemas()
	if err != nil {
		return err
	}
	sch, ok := schemas[tag]
	if !ok {
		return &InvalidMessageError{Reason: "invalid message type", Details: map[string]any{"tag": tag}}
	}

	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return &InvalidMessageError{Reason: "malformed JSON", Cause: err}
	}

	if err := sch.Validate(instance); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return &InvalidMessageError{Reason: err.Error(), Cause: err}
		}
		return &InvalidMessageError{
			Reason:      fmt.Sprintf("payload does not match %s schema", tag),
			ChildErrors: flattenValidationErrors(ve),
			Cause:       err,
		}
	}
	return nil
}

func flattenValidationErrors(ve *jsonschema.ValidationError) []string {
	var out []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if e == nil {
			return
		}
		out = append(out, e.Error())
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(ve)
	return out
}
