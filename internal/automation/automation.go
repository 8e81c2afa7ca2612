// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package automation drives an external word processor that opens Word
// documents and exports them as PDF. The application is reached through a
// small interface so the conversion driver never depends on an installed
// office suite; Word (COM) and LibreOffice (headless soffice) implement it.
package automation

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/pdiddy/doc2pdf/pkg/types"
)

// ErrUnsupported is returned by a backend that cannot run on this platform.
var ErrUnsupported = errors.New("backend not supported on this platform")

// Application starts instances of an office application.
type Application interface {
	// Name returns the backend name ("word" or "libreoffice").
	Name() string

	// Start launches one application instance. visible controls whether the
	// application window is shown.
	Start(visible bool) (Session, error)
}

// Session is one running application instance. It is not safe for
// concurrent use.
type Session interface {
	// Open loads the document at path.
	Open(path string) (Document, error)

	// Quit terminates the application instance. It must be called exactly
	// once per successful Start.
	Quit() error
}

// Document is a document opened in a Session.
type Document interface {
	// ExportPDF writes the document as PDF to path.
	ExportPDF(path string) error

	// Close discards the document without saving changes.
	Close() error
}

// Options configures the backends returned by Select.
type Options struct {
	// SofficePath is the LibreOffice binary (default "soffice").
	SofficePath string

	Logger hclog.Logger
}

// Select returns the Application for backend. BackendAuto yields an
// Application that tries Word first and falls back to LibreOffice.
func Select(backend types.Backend, opts Options) (Application, error) {
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}

	word := NewWord(opts.Logger.Named("word"))
	lo := NewLibreOffice(opts.SofficePath, opts.Logger.Named("libreoffice"))

	switch backend {
	case types.BackendWord:
		return word, nil
	case types.BackendLibreOffice:
		return lo, nil
	case types.BackendAuto, "":
		return &fallback{apps: []Application{word, lo}, log: opts.Logger}, nil
	default:
		return nil, fmt.Errorf("%w %q", types.ErrUnknownBackend, backend)
	}
}

// fallback starts the first Application in apps that succeeds.
type fallback struct {
	apps    []Application
	log     hclog.Logger
	started string
}

// Name returns the backend that started, or "auto" before Start.
func (f *fallback) Name() string {
	if f.started != "" {
		return f.started
	}
	return string(types.BackendAuto)
}

func (f *fallback) Start(visible bool) (Session, error) {
	var errs []error
	for _, app := range f.apps {
		s, err := app.Start(visible)
		if err == nil {
			f.started = app.Name()
			f.log.Debug("backend started", "backend", app.Name())
			return s, nil
		}
		f.log.Debug("backend unavailable", "backend", app.Name(), "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", app.Name(), err))
	}
	return nil, fmt.Errorf("no conversion backend available: %w", errors.Join(errs...))
}
