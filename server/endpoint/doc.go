// Package endpoint provides the handlers behind the built-in routes of a
// service: the status page, the liveness and readiness probes and the
// favicon. Handlers answer plain text.
package endpoint
