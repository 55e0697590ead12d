// Package services defines shared utilities consumed by the HTTP handlers and
// the external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp request IDs, routes, and rotation keys for
//     logging.
//   - Structured error markers plus the Wrap helper, and Classify which turns
//     a wrapped failure into the class the transport reports (validation,
//     collaborator unavailable, invariant violation).
//
// Use these helpers when wiring new handlers so error reporting and
// observability stay uniform across the service.
package services
