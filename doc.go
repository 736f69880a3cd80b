// Package asimov provides a Go implementation of the ASIMOV protocol: a
// bidirectional, transport-agnostic RPC protocol that lets a long-running
// command on a service ask mid-execution questions of the agent that invoked
// it (free-form input, user confirmation, payment authorization) before
// returning its result. The library implements modern Go patterns including
// generics for type safety, functional options for configuration, and
// interface-based design for flexibility and testability.
//
// # LLM Assistant Note
//
// This file serves as a comprehensive index of all packages in this module,
// designed to help LLMs understand the complete codebase structure and
// functionality. Each package entry includes the full import path and a
// concise description of its purpose.
//
// # Package Organization
//
// The module is organized into four main categories:
//
//   - Core: the ASIMOV protocol components (queue, message, command, manifest,
//     client/service context, context store, runner, transport) plus the
//     ambient framework (config, logger, server, validator, cache, storage)
//   - Middleware: HTTP middleware for cross-cutting concerns
//   - Utilities: standalone packages for common functionality
//   - Integrations: database and object storage backends for the context store
//
// # Getting Documentation
//
// For detailed documentation on any package, use the go doc command:
//
//	go doc github.com/asimov-run/asimov/core/servicectx
//	go doc -all github.com/asimov-run/asimov/core/transport
//
// # Protocol Packages
//
// These packages implement the ASIMOV protocol components:
//
//	github.com/asimov-run/asimov/core/asyncqueue    - single-producer/single-consumer rendezvous queue
//	github.com/asimov-run/asimov/core/message       - wire message taxonomy and schema validation
//	github.com/asimov-run/asimov/core/command        - command/config-profile type registry and validation
//	github.com/asimov-run/asimov/core/manifest      - service manifest assembly
//	github.com/asimov-run/asimov/core/clientctx     - agent-side per-invocation context
//	github.com/asimov-run/asimov/core/servicectx    - service-side execution state machine
//	github.com/asimov-run/asimov/core/ctxstore      - service context persistence (memory, redis, postgres, mongo, s3)
//	github.com/asimov-run/asimov/core/runner        - drives a command handler against a service context
//	github.com/asimov-run/asimov/core/transport     - HTTP binding for the two half-channels
//
// # Core Framework Packages
//
// These packages provide the ambient building blocks shared across the
// protocol packages above:
//
//	github.com/asimov-run/asimov/core/binder        - HTTP request data binding with validation
//	github.com/asimov-run/asimov/core/cache         - thread-safe LRU cache implementation
//	github.com/asimov-run/asimov/core/config        - type-safe environment variable loading
//	github.com/asimov-run/asimov/handler            - the concrete request context (Router's C) transport binds to
//	github.com/asimov-run/asimov/core/health        - HTTP handlers for service health monitoring
//	github.com/asimov-run/asimov/core/letsencrypt   - Let's Encrypt certificate management with explicit control
//	github.com/asimov-run/asimov/core/logger        - structured logging built on slog
//	github.com/asimov-run/asimov/core/server        - HTTP server with graceful shutdown and optional autocert
//	github.com/asimov-run/asimov/core/storage       - local filesystem storage with security features
//	github.com/asimov-run/asimov/core/validator     - rule-based data validation system
//
// # HTTP Middleware Packages
//
// Pre-built middleware components for common cross-cutting concerns:
//
//	github.com/asimov-run/asimov/middleware         - CORS, bearer auth, rate limiting, security headers, logging
//
// # Utility Packages
//
// Standalone packages providing specific functionality:
//
//	github.com/asimov-run/asimov/pkg/async          - asynchronous programming utilities with Future pattern
//	github.com/asimov-run/asimov/pkg/broadcast      - generic pub/sub messaging system
//	github.com/asimov-run/asimov/pkg/clientip       - real client IP extraction from HTTP requests
//	github.com/asimov-run/asimov/pkg/feature        - feature flagging system with rollout strategies
//	github.com/asimov-run/asimov/pkg/jwt            - RFC 7519 JSON Web Token implementation
//	github.com/asimov-run/asimov/pkg/qrcode         - QR code rendering for payment requests
//	github.com/asimov-run/asimov/pkg/ratelimiter    - token bucket rate limiting with pluggable storage
//	github.com/asimov-run/asimov/pkg/secrets        - AES-256-GCM encryption with compound key derivation
//	github.com/asimov-run/asimov/pkg/token          - compact URL-safe token generation with HMAC signatures
//
// # Integration Packages
//
// Production-ready integrations backing the context store and payment tooling:
//
//	github.com/asimov-run/asimov/integration/database/mongo  - MongoDB client with health checking
//	github.com/asimov-run/asimov/integration/database/pg     - PostgreSQL with migrations and pooling
//	github.com/asimov-run/asimov/integration/database/redis  - Redis client with retry logic
//	github.com/asimov-run/asimov/integration/storage/s3      - S3-compatible storage implementation
//
// # Architecture Patterns
//
// This module follows these key architectural patterns:
//
//   - Generics for type safety with custom context types
//   - Functional options for flexible configuration
//   - Interface-based design for testability and modularity
//   - Explicit state machines for protocol-driven lifecycles
//
// # Example Usage
//
//	import (
//		"context"
//		"log"
//
//		"github.com/asimov-run/asimov"
//		"github.com/asimov-run/asimov/core/server"
//		"github.com/asimov-run/asimov/handler"
//		"github.com/asimov-run/asimov/middleware"
//	)
//
//	func main() {
//		// Create router with the package's generic context type
//		r := asimov.NewRouter[*handler.Context]()
//
//		// Add middleware
//		r.Use(middleware.CORS[*handler.Context]())
//		r.Use(middleware.RequestID[*handler.Context]())
//		r.Use(middleware.Logging[*handler.Context]())
//
//		// Create and run server
//		ctx := context.Background()
//		if err := server.Run(ctx, ":8080", r); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// For complete examples and detailed usage instructions, refer to the
// individual package documentation using the go doc command.
package asimov
