// Package errors provides the classified error primitives used across fsblog.
//
// Every failure that can reach a caller is classified by category (what went
// wrong) and severity (how bad it is). The CLI and HTTP adapters use the
// classification to pick exit codes, status codes and log levels.
//
// Key features:
//   - ErrorCategory: Broad error classification (config, template, plugin, filesystem, etc.)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - HTTP and CLI adapters for error presentation
//
// Example usage:
//
//	err := errors.TemplateError("incomplete template set").
//		WithContext("format", format).
//		WithContext("missing", missing).
//		Build()
package errors
