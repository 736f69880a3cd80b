// Package servicectx implements the service-side per-invocation state
// machine: the dispatch table that admits or rejects inbound messages, the
// handler-facing upcall surface (getInputs, requestUserConfirmation,
// requestPayment), the buffered return path, and suspend/resume
// serialization so a long-running command survives a process restart.
package servicectx
