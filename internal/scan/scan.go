// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan selects the Word documents in a directory that can be
// converted to PDF.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/doc2pdf/pkg/types"
)

// lockPrefix marks the owner/lock files Word leaves next to open documents.
const lockPrefix = "~"

var extensions = []string{".doc", ".docx"}

// IsConvertible reports whether a file name looks like a Word document that
// is not an editor lock or temp file. The extension match is case-insensitive.
func IsConvertible(name string) bool {
	if strings.HasPrefix(name, lockPrefix) {
		return false
	}
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Documents lists dir and returns the convertible documents in listing
// order. Subdirectories are not descended into and are never selected.
func Documents(dir string) ([]types.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var docs []types.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !IsConvertible(name) {
			continue
		}
		docs = append(docs, types.Document{
			Name: name,
			Path: filepath.Join(dir, name),
			Base: strings.TrimSuffix(name, filepath.Ext(name)),
		})
	}
	return docs, nil
}
