// Package data provides embedded map fixtures and utilities for loading them.
//
// Each fixture is an ASCII map together with the queries that exercise it
// and the answers they must produce, so the same file drives the test suite
// and the torchbench smoke run.
package data

import "embed"

// dataFS embeds all JSON files from the data directory at build time.
//
//go:embed *.json
var dataFS embed.FS

// FS returns the embedded filesystem containing the fixtures.
func FS() embed.FS {
	return dataFS
}
