// Package app wires the command line to the engine: it turns a validated
// Config into a logger, a loaded catalog, an Engine and a recipe file codec.
package app
