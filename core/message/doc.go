// Package message defines the ten wire message variants exchanged over an
// ASIMOV channel and the schema machinery that validates them.
//
// Every message is a tagged variant: on the wire it is a JSON object with a
// "tag" field naming the variant and the variant's own fields flattened
// alongside it, mirroring the envelope-with-reflected-name pattern used
// elsewhere in this module for domain payloads, but over a fixed, closed
// vocabulary of ten tags rather than arbitrary reflected type names.
//
// Decode validates the raw payload against the compiled union schema before
// dispatch; a message that fails validation, or whose tag is not one of the
// ten known variants, is rejected with an InvalidMessage error carrying the
// schema's child errors.
//
// Example:
//
//	msg := message.Invoke{Inputs: []message.InputItem{{InputType: "name", Value: "John"}}}
//	raw, _ := message.Marshal(msg)
//	decoded, err := message.Decode(raw)
package message
