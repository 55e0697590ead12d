// Package main hosts the alphamastery CLI entrypoint and command graph.
//
// The Cobra command tree runs the HTTP server, scaffolds and validates
// configuration, and manages the SQLite content store: importing seed files,
// listing rotation keys, serving the next item of a key by hand and resetting
// cursors. Configuration resolution is centralized in commandContext so
// subcommands only deal with presentation.
package main
