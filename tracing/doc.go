// Package tracing wraps OpenTelemetry span management so the rest of the
// code-base can instrument handlers without importing the upstream packages
// directly. Until Init installs an exporter every span is a no-op.
package tracing
