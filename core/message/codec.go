package message

import "encoding/json"

// Marshal renders msg as its tagged wire form: a JSON object with "tag" set
// to msg.Tag() and msg's own fields flattened alongside it.
func Marshal(msg Message) ([]byte, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	fields["tag"] = string(msg.Tag())

	return json.Marshal(fields)
}

// Decode reads the "tag" field from raw, validates raw against the union
// schema, and unmarshals it into the concrete Message type the tag names.
// An unrecognized or missing tag, or a schema validation failure, returns
// an *InvalidMessageError.
func Decode(raw []byte) (Message, error) {
	var probe struct {
		Tag Tag `json:"tag"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, &InvalidMessageError{Reason: "malformed JSON", Cause: err}
	}
	if probe.Tag == "" || !knownTags[probe.Tag] {
		return nil, &InvalidMessageError{Reason: "invalid message type", Details: map[string]any{"tag": probe.Tag}}
	}

	if err := ValidateTag(probe.Tag, raw); err != nil {
		return nil, err
	}

	var msg Message
	switch probe.Tag {
	case TagInvoke:
		msg = &Invoke{}
	case TagRequestInput:
		msg = &RequestInput{}
	case TagProvideInput:
		msg = &ProvideInput{}
	case TagReturn:
		msg = &Return{}
	case TagCancel:
		msg = &Cancel{}
	case TagRequestUserConfirmation:
		msg = &RequestUserConfirmation{}
	case TagProvideUserConfirmation:
		msg = &ProvideUserConfirmation{}
	case TagRequestPayment:
		msg = &RequestPayment{}
	case TagAuthorizePayment:
		msg = &AuthorizePayment{}
	case TagRejectPayment:
		msg = &RejectPayment{}
	}

	if err := json.Unmarshal(raw, msg); err != nil {
		return nil, &InvalidMessageError{Reason: "payload does not match " + string(probe.Tag), Cause: err}
	}

	// Unmarshal into a pointer above for settability; callers expect value
	// semantics matching the Tag() receiver set on the value types.
	switch v := msg.(type) {
	case *Invoke:
		return *v, nil
	case *RequestInput:
		return *v, nil
	case *ProvideInput:
		return *v, nil
	case *Return:
		return *v, nil
	case *Cancel:
		return *v, nil
	case *RequestUserConfirmation:
		return *v, nil
	case *ProvideUserConfirmation:
		return *v, nil
	case *RequestPayment:
		return *v, nil
	case *AuthorizePayment:
		return *v, nil
	case *RejectPayment:
		return *v, nil
	default:
		return msg, nil
	}
}
