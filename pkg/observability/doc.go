/*
Package observability provides metrics and tracing for Lectern.

Metrics are Prometheus collectors fed by lifecycle hooks (fragments, published
locations) and by Instrument, a ports.SessionHost decorator that counts every
navigation command with its outcome. SetupTracing installs an OTLP/HTTP tracer
provider; the session manager creates its spans through the global provider.
*/
package observability
