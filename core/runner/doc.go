// Package runner drives a command handler function against a Service
// Context to completion: normal finish, suspend-for-later-resume, or
// failure, tearing the context down and reconciling it with a
// core/ctxstore.Store afterward. It also holds the process-wide registry
// that guarantees at most one live Service Context exists per service
// channel ID at a time.
package runner
