// Package ctxstore persists servicectx.Snapshot values so a suspended
// invocation survives a process restart, keyed by the service half-channel
// ID. Backends: in-memory (development), Redis, PostgreSQL, MongoDB, and S3.
// There is no backend built on core/storage.Storage.
package ctxstore
