// Package errors provides the structured error type used across gourde.
// Every startup and request-time failure the bootstrap layer produces is an
// *AppError carrying a machine-readable code and the HTTP status it maps to.
package errors
