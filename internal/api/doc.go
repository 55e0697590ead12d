// Package api defines the wire-format types for the HTTP surface. It keeps
// request and response shapes in one place so the server and the CLI render
// the same JSON without coupling to store internals.
//
// # Envelopes
//
// Successful responses carry "status":"success". An empty rotation group is
// not an error: it answers 200 with "status":"empty". Failures answer with
// ErrorResponse, whose Retryable flag tells clients a collaborator was down.
//
// # Design Notes
//
// JSON tags are snake_case to match existing mobile clients. Activity payloads
// are passed through as the activity types themselves.
package api
