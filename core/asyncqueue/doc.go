// Package asyncqueue implements the rendezvous queue that backs every
// predicate-filtered wait in the protocol: getInputs waits on a per-input-type
// predicate, requestUserConfirmation and requestPayment wait on a per-reqId
// predicate, and a client context's getMessage waits on an always-true
// predicate. A single Queue type serves all of them.
//
// # Semantics
//
// Push hands an item to the earliest-registered waiting consumer whose
// predicate accepts it; if none accepts, the item is buffered. WaitFor scans
// buffered items front-to-back for one the predicate accepts before
// registering as a consumer, so a Push racing a WaitFor can never be missed.
// Flush drops everything pending and, if given an error, completes every
// waiting consumer with it.
//
// Example:
//
//	q := asyncqueue.New[int]()
//	q.Push(1)
//	v, err := q.WaitFor(ctx, func(v int) bool { return v == 1 }, 0)
package asyncqueue
