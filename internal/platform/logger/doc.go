// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels. Request-scoped loggers travel in a context.Context;
// use WithLogger to attach one and FromContextOrDefault to retrieve it.
package logger
