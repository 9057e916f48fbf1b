// Package server runs an http.Handler on one of three strategies:
//
//   - SingleThreaded: requests are served one at a time.
//   - ThreadPooled: up to Threads requests are served at once.
//   - ReactorBased: an h2c server (HTTP/2 cleartext and HTTP/1.1) with a
//     Reactor worker pool sized by Threads for blocking work.
//
// StrategyFor resolves the strategy from a config.ServiceConfig once and
// Dispatch runs it until the context is cancelled or SIGINT/SIGTERM arrives.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: Panic recovery with structured logging
//   - RequestID: Request ID generation and propagation
//   - RequestLogger: Request logging with latency, probes skipped
//   - ConcurrencyLimit: Semaphore-bounded request concurrency
package server
