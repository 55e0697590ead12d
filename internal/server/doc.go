// Package server exposes the rotation selector, mastery checks and learning
// activities over HTTP.
//
// Requests pass through a fixed middleware chain: request ID and route are
// attached to the context, an optional token bucket rejects bursts with 429,
// and an optional bearer token guards every route. Handlers decode JSON,
// call one collaborator and map its error onto a status with
// services.Classify. An empty rotation group answers 200 with
// "status":"empty".
//
// Start holds a gofrs/flock lock next to the database so a second server
// cannot share the same cursor state.
package server
