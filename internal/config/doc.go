// Package config loads, normalizes, and validates service configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GCV_API_KEY and OPENROUTER_API_KEY. The Config type centralizes every knob the
// server and CLI need, so the database location and collaborator credentials
// are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
