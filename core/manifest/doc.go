// Package manifest assembles the service manifest document returned by
// GET {baseUrl}/manifest.json: service identity, protocol version,
// multilingual description, configured profile descriptors, terms,
// accepted payment schemas, and per-command descriptors with their
// endpoint URIs.
//
// Authoring the manifest (the command-registration DSL that builds a
// Service from handler functions) is an external collaborator; this
// package only owns the wire shape and its assembly from already-built
// core/command Definitions, which core/transport's manifest endpoint
// calls directly.
package manifest
