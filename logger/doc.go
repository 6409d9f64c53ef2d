// Package logger provides structured logging for ssekit applications
// using zerolog.
//
// It supports JSON and console output formats, log level configuration,
// and component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("sse")
//	log.Warn("subscriber write failed", logger.Fields("subscriber_id", id))
package logger
