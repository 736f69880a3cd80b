package runner

import "errors"

// ErrAlreadyActive is returned by Manager.Add when a Service Context is
// already registered under the given channel ID.
var ErrAlreadyActive = errors.New("runner: a service context is already active for this channel")

// ErrNotFound is returned when a channel ID has no registered context.
var ErrNotFound = errors.New("runner: no active service context for this channel")

// NamedError lets a handler's returned error carry the errorName a
// returnError entry should use. Errors that don't implement it are
// reported under UnexpectedErrorName.
type NamedError interface {
	error
	ErrorName() string
}

// UnexpectedErrorName is the errorName used for handler errors that don't
// implement NamedError.
const UnexpectedErrorName = "UnexpectedError"

func errorName(err error) string {
	var named NamedError
	if errors.As(err, &named) {
		return named.ErrorName()
	}
	return UnexpectedErrorName
}
