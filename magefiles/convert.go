//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Convert builds the CLI and converts the documents in DOC2PDF_DIR
// (default: the current directory) without interactive prompts.
func Convert() error {
	mg.Deps(Build)

	dir := os.Getenv("DOC2PDF_DIR")
	if dir == "" {
		dir = "."
	}
	bin := fmt.Sprintf("./%s/%s", binDir, binName)
	return sh.RunV(bin, dir, "--confirm=false", "--pause=false")
}
