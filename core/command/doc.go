// Package command defines the registry of input/output types, config
// profiles, and compiled validators that make up a command's contract.
//
// A Definition is built once, via NewBuilder, and is immutable thereafter:
// every input and output type name must be unique within it, and once
// registered on a service it must not be mutated. Validation of inbound
// inputs and outbound outputs against their declared JSON Schemas is the
// definition's responsibility; core/servicectx calls into it on every
// Invoke, ProvideInput, and returnData.
//
// Example:
//
//	def, err := command.NewBuilder("greet").
//		AddInputType("name", command.TypeDescriptor{
//			Description: map[string]string{"en": "the name to greet"},
//			Schema:      map[string]any{"type": "string"},
//		}).
//		AddOutputType("Greetings", command.TypeDescriptor{
//			Schema: map[string]any{"type": "string"},
//		}).
//		Build()
package command
