// Package logger provides structured logging for gourde services using
// zerolog.
//
// Setup installs the process-wide operator format used by every gourde
// service:
//
//	[2024-01-15 10:30:00] INFO billing [main.go:main.main:42] (4242): Logging initialized.
//
// Component loggers carry the module column:
//
//	log := logger.WithComponent("probes")
//	log.Error("liveness probe failed", logger.ErrorFields("liveness", err))
package logger
