// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outpath

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnique(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{name: "free name", want: "report.pdf"},
		{name: "one collision", existing: []string{"report.pdf"}, want: "report_.pdf"},
		{name: "two collisions", existing: []string{"report.pdf", "report_.pdf"}, want: "report__.pdf"},
		{name: "gap is not reused", existing: []string{"report.pdf", "report__.pdf"}, want: "report_.pdf"},
		{name: "other files ignored", existing: []string{"report.doc", "report.PDF.bak"}, want: "report.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, name := range tt.existing {
				touch(t, dir, name)
			}

			got, err := Unique(dir, "report", "_")
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.want), got)
		})
	}
}

func TestUnique_ManyCollisions(t *testing.T) {
	dir := t.TempDir()
	const n = 40
	for i := 0; i < n; i++ {
		touch(t, dir, "memo"+strings.Repeat("_", i)+".pdf")
	}

	got, err := Unique(dir, "memo", "_")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "memo"+strings.Repeat("_", n)+".pdf"), got)
	_, err = os.Stat(got)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestUnique_CustomSuffix(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf")
	touch(t, dir, "a-copy.pdf")

	got, err := Unique(dir, "a", "-copy")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a-copy-copy.pdf"), got)
}

func TestUnique_EmptySuffix(t *testing.T) {
	_, err := Unique(t.TempDir(), "a", "")
	assert.ErrorIs(t, err, ErrEmptySuffix)
}

func TestUnique_StatErrorIsNotACollision(t *testing.T) {
	orig := stat
	t.Cleanup(func() { stat = orig })
	stat = func(string) (os.FileInfo, error) { return nil, fs.ErrPermission }

	_, err := Unique(t.TempDir(), "secret", "_")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestUnique_LongMultibyteName(t *testing.T) {
	orig := stat
	t.Cleanup(func() { stat = orig })
	stat = func(string) (os.FileInfo, error) { return nil, fs.ErrNotExist }

	// 94 UTF-16 units, 274 bytes: valid on NTFS.
	base := strings.Repeat("报", 90)
	dir := t.TempDir()

	got, err := Unique(dir, base, "_")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, base+".pdf"), got)
}

func TestUnique_NameTooLongFromFileSystem(t *testing.T) {
	orig := stat
	t.Cleanup(func() { stat = orig })
	stat = func(string) (os.FileInfo, error) { return nil, syscall.ENAMETOOLONG }

	_, err := Unique(t.TempDir(), strings.Repeat("x", 300), "_")
	require.Error(t, err)
	assert.ErrorIs(t, err, syscall.ENAMETOOLONG)
	assert.NotErrorIs(t, err, ErrNoFreeName)
}

func TestUnique_Bounded(t *testing.T) {
	orig := stat
	t.Cleanup(func() { stat = orig })
	calls := 0
	stat = func(string) (os.FileInfo, error) {
		calls++
		return nil, nil
	}

	_, err := Unique(t.TempDir(), "always-taken", "_")
	assert.ErrorIs(t, err, ErrNoFreeName)
	assert.Equal(t, maxSuffixes+1, calls)
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
}
