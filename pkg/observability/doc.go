// Package observability provides structured JSON logging for the scheme
// client.
//
// The Logger wraps stdlib slog with leveled output and field chaining.
// A logger travels through context.Context alongside the outbound request
// ID and the logged-in username, so every layer logs with the same
// correlation fields without plumbing them explicitly.
package observability
