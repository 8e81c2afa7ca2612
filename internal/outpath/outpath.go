// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package outpath picks a PDF file name that does not collide with an
// existing file.
package outpath

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	ext = ".pdf"

	// maxSuffixes bounds the search. Any suffix repeated this often exceeds
	// the 255 unit name limit of NTFS, ext4, and APFS, so a file system that
	// still reports every candidate as existing is misbehaving.
	maxSuffixes = 255
)

var (
	// ErrNoFreeName is returned when every candidate up to maxSuffixes
	// appended suffixes exists.
	ErrNoFreeName = errors.New("no free output name")

	// ErrEmptySuffix is returned when the suffix cannot make progress.
	ErrEmptySuffix = errors.New("collision suffix must not be empty")
)

// stat is replaced in tests to simulate file system errors.
var stat = os.Stat

// Unique returns dir/base.pdf, or dir/base<suffix>.pdf,
// dir/base<suffix><suffix>.pdf, ... whichever is the first that does not
// exist. A stat failure other than "not exist" is returned rather than
// treated as a collision; that includes a name the file system rejects as
// too long, which is how the name length limit surfaces.
//
// The result is only free at the moment of the check; nothing reserves it.
func Unique(dir, base, suffix string) (string, error) {
	if suffix == "" {
		return "", ErrEmptySuffix
	}

	name := base
	for i := 0; i <= maxSuffixes; i++ {
		path := filepath.Join(dir, name+ext)
		_, err := stat(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return path, nil
		case err != nil:
			return "", fmt.Errorf("checking %s: %w", path, err)
		}
		name += suffix
	}
	return "", fmt.Errorf("%w: %s.pdf and %d suffixed variants exist", ErrNoFreeName, base, maxSuffixes)
}
