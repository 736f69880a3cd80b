// Package handler provides the concrete request context used by the HTTP
// endpoints in core/transport: request/response accessors, path params, and
// the bearer token presented on the wire, satisfying the root package's
// contexter constraint.
package handler

import (
	"context"
	"net/http"
)

// Context is the concrete request context passed to every route handler
// registered on an asimov.Router. It carries the raw request/response pair,
// path params, and the bearer token presented on the wire so handlers can
// authorize the half-channel the request claims to belong to.
type Context struct {
	context.Context
	w      http.ResponseWriter
	r      *http.Request
	params map[string]string
	token  string
}

// New builds a Context for an inbound request. params is typically supplied
// by the router's path matching; it may be nil.
func New(w http.ResponseWriter, r *http.Request, params map[string]string) *Context {
	return &Context{
		Context: r.Context(),
		w:       w,
		r:       r,
		params:  params,
	}
}

// Request returns the underlying *http.Request.
func (c *Context) Request() *http.Request { return c.r }

// ResponseWriter returns the underlying http.ResponseWriter.
func (c *Context) ResponseWriter() http.ResponseWriter { return c.w }

// Param returns a named path parameter, or the empty string if absent.
func (c *Context) Param(key string) string { return c.params[key] }

// reset reinitializes a pooled Context for a new request, satisfying the
// router's reset(http.ResponseWriter, *http.Request) contract so instances
// are recycled instead of left carrying the previous request.
func (c *Context) reset(w http.ResponseWriter, r *http.Request) {
	c.Context = r.Context()
	c.w = w
	c.r = r
	c.params = nil
	c.token = ""
}

// BearerToken returns the token from the Authorization: Bearer <token>
// header, or the empty string if the header is absent or malformed.
func (c *Context) BearerToken() string {
	if c.token != "" {
		return c.token
	}
	const prefix = "Bearer "
	h := c.r.Header.Get("Authorization")
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		c.token = h[len(prefix):]
	}
	return c.token
}
