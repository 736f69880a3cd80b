package command

import "errors"

var (
	// ErrDuplicateType is returned by the builder when an input or output
	// type name is registered more than once.
	ErrDuplicateType = errors.New("command: duplicate type name")

	// ErrUnknownInputType is returned by ValidateInput for a name the
	// definition never declared.
	ErrUnknownInputType = errors.New("command: unknown input type")

	// ErrUnknownOutputType is returned by ValidateOutput for a name the
	// definition never declared.
	ErrUnknownOutputType = errors.New("command: unknown output type")

	// ErrProfileNotRequired is returned when a handler asks for a config
	// profile the command does not declare.
	ErrProfileNotRequired = errors.New("command: config profile not required by this command")

	// ErrAlreadyBuilt is returned by Build when it is called again on a
	// Builder that has already produced a Definition. The builder's
	// mutation methods do not check for it.
	ErrAlreadyBuilt = errors.New("command: builder already built")
)
