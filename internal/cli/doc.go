// Package cli implements the recipectl command line: inspecting a catalog,
// analyzing a recipe file and rewriting one in canonical form.
package cli
