// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doc2pdf/pkg/types"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "state", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpenCreatesSchema(t *testing.T) {
	j := openTestJournal(t)

	for _, table := range []string{"runs", "conversions"} {
		var n int
		err := j.db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "table %s", table)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	require.NoError(t, err)
	run, err := j.BeginRun("/docs", "word")
	require.NoError(t, err)
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()

	runs, err := j.Runs(0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID(), runs[0].ID)
}

func TestRunLifecycle(t *testing.T) {
	j := openTestJournal(t)

	run, err := j.BeginRun("/docs", "auto")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID())

	done := types.ConversionResult{
		Document:   types.Document{Name: "a.doc", Path: "/docs/a.doc", Base: "a"},
		Output:     "/docs/a.pdf",
		Status:     types.ConversionDone,
		Pages:      4,
		FinishedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	failed := types.ConversionResult{
		Document: types.Document{Name: "b.docx", Path: "/docs/b.docx", Base: "b"},
		Output:   "/docs/b.pdf",
		Status:   types.ConversionFailed,
		Err:      errors.New("opening: file is locked"),
	}
	require.NoError(t, run.Record(done))
	require.NoError(t, run.Record(failed))

	runs, err := j.Runs(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].FinishedAt.IsZero(), "open run has no finish time")

	require.NoError(t, run.Finish("libreoffice", 1, 1))

	runs, err = j.Runs(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	got := runs[0]
	assert.Equal(t, "/docs", got.Dir)
	assert.Equal(t, "libreoffice", got.Backend)
	assert.Equal(t, 1, got.Converted)
	assert.Equal(t, 1, got.Failed)
	assert.False(t, got.StartedAt.IsZero())
	assert.False(t, got.FinishedAt.IsZero())

	entries, err := j.Conversions(run.ID())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "/docs/a.doc", entries[0].Input)
	assert.Equal(t, "/docs/a.pdf", entries[0].Output)
	assert.Equal(t, types.ConversionDone, entries[0].Status)
	assert.Equal(t, 4, entries[0].Pages)
	assert.Empty(t, entries[0].Error)
	assert.True(t, entries[0].FinishedAt.Equal(done.FinishedAt))

	assert.Equal(t, types.ConversionFailed, entries[1].Status)
	assert.Equal(t, "opening: file is locked", entries[1].Error)
	assert.False(t, entries[1].FinishedAt.IsZero())
}

func TestRunsNewestFirstWithLimit(t *testing.T) {
	j := openTestJournal(t)

	var ids []string
	for i := 0; i < 3; i++ {
		run, err := j.BeginRun("/docs", "word")
		require.NoError(t, err)
		ids = append(ids, run.ID())
	}

	runs, err := j.Runs(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)
}

func TestConversionsUnknownRun(t *testing.T) {
	j := openTestJournal(t)
	entries, err := j.Conversions("missing")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunFail(t *testing.T) {
	j := openTestJournal(t)

	run, err := j.BeginRun("/docs", "auto")
	require.NoError(t, err)
	require.NoError(t, run.Fail("auto", errors.New("no conversion backend available")))

	runs, err := j.Runs(0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].FinishedAt.IsZero(), "an aborted run is not finished")
	assert.Equal(t, "no conversion backend available", runs[0].Error)
	assert.Zero(t, runs[0].Converted)
}

func TestOpenAddsErrorColumnToOldJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	j, err := Open(path)
	require.NoError(t, err)
	_, err = j.db.Exec(`ALTER TABLE runs DROP COLUMN error`)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()

	run, err := j.BeginRun("/docs", "word")
	require.NoError(t, err)
	require.NoError(t, run.Fail("word", errors.New("class not registered")))
	runs, err := j.Runs(0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "class not registered", runs[0].Error)
}
