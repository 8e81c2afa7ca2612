// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert drives an automation session through a batch of Word
// documents, exporting each one to a collision-free PDF path.
package convert

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/pdiddy/doc2pdf/internal/automation"
	"github.com/pdiddy/doc2pdf/internal/console"
	"github.com/pdiddy/doc2pdf/internal/outpath"
	"github.com/pdiddy/doc2pdf/pkg/types"
)

const defaultSuffix = "_"

// pageCount is replaced in tests so verification does not need real PDFs.
var pageCount = api.PageCountFile

// Recorder receives every per-document result, e.g. to journal it.
type Recorder interface {
	Record(types.ConversionResult) error
}

// Options controls how documents are converted.
type Options struct {
	// OutputDir receives the PDFs. Empty means the input's directory.
	OutputDir string

	// Suffix is appended to a colliding base name (default "_").
	Suffix string

	// Verify reads back each produced PDF and records its page count.
	Verify bool

	// Recorder, when set, is called with each result.
	Recorder Recorder

	Logger hclog.Logger
}

func (o Options) suffix() string {
	if o.Suffix == "" {
		return defaultSuffix
	}
	return o.Suffix
}

func (o Options) logger() hclog.Logger {
	if o.Logger == nil {
		return hclog.NewNullLogger()
	}
	return o.Logger
}

func (o Options) outputDir(doc types.Document) string {
	if o.OutputDir != "" {
		return o.OutputDir
	}
	return filepath.Dir(doc.Path)
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Failed    int
	Results   []types.ConversionResult
}

// Total returns the number of documents attempted.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any document failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// SessionError reports that the automation application could not be
// started. No document is touched when it occurs.
type SessionError struct {
	Backend string
	Err     error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("starting %s: %v", e.Backend, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

// ConvertDocument exports one document through s. Failures are printed to
// w and returned in the result; a half-written PDF is left in place.
func ConvertDocument(s automation.Session, doc types.Document, opts Options, w io.Writer) types.ConversionResult {
	res := types.ConversionResult{Document: doc, Status: types.ConversionPending}
	fail := func(err error) types.ConversionResult {
		res.Status = types.ConversionFailed
		res.Err = err
		res.FinishedAt = time.Now().UTC()
		console.Errorf(w, "failed: %s: %v", doc.Name, err)
		return res
	}

	out, err := outpath.Unique(opts.outputDir(doc), doc.Base, opts.suffix())
	if err != nil {
		return fail(err)
	}
	res.Output = out

	fmt.Fprintf(w, "converting: %s -> %s\n", doc.Name, filepath.Base(out))
	if err := export(s, doc.Path, out); err != nil {
		return fail(err)
	}

	if opts.Verify {
		pages, err := pageCount(out)
		if err != nil {
			return fail(fmt.Errorf("verifying %s: %w", filepath.Base(out), err))
		}
		res.Pages = pages
		opts.logger().Debug("verified", "output", out, "pages", pages)
	}

	res.Status = types.ConversionDone
	res.FinishedAt = time.Now().UTC()
	return res
}

// export opens in, saves it as PDF to out, and closes it. Close runs even
// when the export fails so the application does not accumulate open
// documents.
func export(s automation.Session, in, out string) (err error) {
	doc, err := s.Open(in)
	if err != nil {
		return fmt.Errorf("opening: %w", err)
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing: %w", cerr))
		}
	}()

	if err := doc.ExportPDF(out); err != nil {
		return fmt.Errorf("exporting: %w", err)
	}
	return nil
}

// ConvertBatch converts docs in order. A failed document never stops the
// ones after it.
func ConvertBatch(s automation.Session, docs []types.Document, opts Options, w io.Writer) BatchResult {
	log := opts.logger()
	result := BatchResult{Results: make([]types.ConversionResult, 0, len(docs))}

	for _, doc := range docs {
		res := ConvertDocument(s, doc, opts, w)
		switch res.Status {
		case types.ConversionDone:
			result.Converted++
		case types.ConversionFailed:
			result.Failed++
		}
		result.Results = append(result.Results, res)

		if opts.Recorder != nil {
			if err := opts.Recorder.Record(res); err != nil {
				console.Errorf(w, "journal: %v", err)
				log.Warn("recording result failed", "document", doc.Name, "error", err)
			}
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	return result
}

// Run starts one session of app, converts docs, and quits the session.
// Quit is deferred, so it runs exactly once even if a panic escapes the
// batch. A start failure is returned as *SessionError.
func Run(app automation.Application, visible bool, docs []types.Document, opts Options, w io.Writer) (BatchResult, error) {
	log := opts.logger()

	fmt.Fprintf(w, "Starting %s...\n", app.Name())
	s, err := app.Start(visible)
	if err != nil {
		return BatchResult{}, &SessionError{Backend: app.Name(), Err: err}
	}
	log.Info("session started", "backend", app.Name(), "documents", len(docs))

	defer func() {
		if err := s.Quit(); err != nil {
			console.Errorf(w, "closing %s: %v", app.Name(), err)
			log.Warn("quit failed", "backend", app.Name(), "error", err)
			return
		}
		log.Info("session closed", "backend", app.Name())
	}()

	return ConvertBatch(s, docs, opts, w), nil
}

// Plan computes the output path each document would get without starting
// a session. Paths claimed earlier in the plan count as taken, matching
// what a real run produces.
func Plan(docs []types.Document, opts Options) []types.ConversionResult {
	claimed := make(map[string]bool, len(docs))
	plan := make([]types.ConversionResult, 0, len(docs))

	for _, doc := range docs {
		res := types.ConversionResult{Document: doc, Status: types.ConversionPending}
		dir := opts.outputDir(doc)
		base := doc.Base
		for {
			out, err := outpath.Unique(dir, base, opts.suffix())
			if err != nil {
				res.Status = types.ConversionFailed
				res.Err = err
				break
			}
			if !claimed[out] {
				claimed[out] = true
				res.Output = out
				break
			}
			base += opts.suffix()
		}
		plan = append(plan, res)
	}
	return plan
}
