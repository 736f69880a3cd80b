// Package transport binds the two half-channels of the ASIMOV protocol onto
// HTTP: a Service exposes the manifest, invoke, and channel endpoints a
// remote agent calls into, and a Client sends an Invoke and the subsequent
// agent-side messages a Service Context expects in reply. Wire errors are
// a JSON body a receiver decodes back into a typed Error.
package transport
