//go:build mage

// Package main contains Mage build targets for doc2pdf developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "doc2pdf"
	cmdPkg  = "./cmd/doc2pdf"
)

// Build compiles the CLI binary into bin/, stamping the version from
// DOC2PDF_VERSION (default "dev").
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if runtime.GOOS == "windows" {
		out += ".exe"
	}
	if err := sh.RunV("go", "build", "-ldflags", ldflags(), "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Windows cross-compiles the Word-capable binary for double-click use.
// The journal's SQLite driver needs cgo, so a MinGW cross compiler is
// required (DOC2PDF_WINDOWS_CC, default x86_64-w64-mingw32-gcc).
func Windows() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName+".exe")
	if err := sh.RunWithV(windowsEnv(), "go", "build", "-ldflags", ldflags(), "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build (windows): %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// ldflags stamps main.version from DOC2PDF_VERSION.
func ldflags() string {
	version := os.Getenv("DOC2PDF_VERSION")
	if version == "" {
		version = "dev"
	}
	return fmt.Sprintf("-X main.version=%s", version)
}

func windowsEnv() map[string]string {
	cc := os.Getenv("DOC2PDF_WINDOWS_CC")
	if cc == "" {
		cc = "x86_64-w64-mingw32-gcc"
	}
	return map[string]string{
		"GOOS":        "windows",
		"GOARCH":      "amd64",
		"CGO_ENABLED": "1",
		"CC":          cc,
	}
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Lint runs go vet over the module.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs Lint and Test.
func Check() {
	mg.SerialDeps(Lint, Test)
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}
