//go:build mage

package main

import (
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Search builds the CLI and runs a catalog search, saving the results to
// results.yaml for a follow-up `citation-helper cite --from results.yaml`.
func Search(query string) error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "search", "--save", "results.yaml", strings.TrimSpace(query))
}

// Archive runs the same search against the national archive.
func Archive(query string) error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "search", "--mode", "archive", "--save", "results.yaml", strings.TrimSpace(query))
}
