package asyncqueue

import "errors"

var (
	// ErrEmpty is returned by WaitFor when no item accepted by the predicate
	// arrives within the requested timeout, or immediately for a negative
	// timeout.
	ErrEmpty = errors.New("asyncqueue: empty")

	// ErrClosed is a completion error callers may pass to Flush to mark a
	// closed queue; it is distinct from ErrEmpty so a closed queue is
	// distinguishable from a plain timeout via errors.Is. Flush(nil) does
	// not use it: waiters flushed without an error receive ErrEmpty.
	ErrClosed = errors.New("asyncqueue: queue closed")
)
