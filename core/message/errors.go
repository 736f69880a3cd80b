package message

import (
	"errors"
	"fmt"
)

// ErrUnknownReturnItem is returned when a Return item's JSON has neither an
// outputType nor an errorName field.
var ErrUnknownReturnItem = errors.New("message: return item is neither an Output nor an Error")

// InvalidMessageError reports that an inbound message failed the union
// schema or carried an unrecognized tag. ChildErrors mirrors the schema
// validator's own error tree so transports can surface it verbatim in the
// wire error body's details.
type InvalidMessageError struct {
	Reason       string
	Details      map[string]any
	ChildErrors  []string
	Cause        error
}

func (e *InvalidMessageError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("message: invalid message: %s", e.Reason)
	}
	return "message: invalid message"
}

func (e *InvalidMessageError) Unwrap() error { return e.Cause }
