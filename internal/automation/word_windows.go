// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build windows

package automation

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"github.com/hashicorp/go-hclog"
)

// sFalse is returned by CoInitializeEx when the thread is already in an
// apartment; it still has to be balanced by CoUninitialize.
const sFalse = 0x00000001

// Start initializes a single-threaded COM apartment on a locked OS thread
// and creates a Word.Application instance. The calling goroutine must make
// every subsequent call on the session, which the sequential driver does.
func (w *Word) Start(visible bool) (Session, error) {
	runtime.LockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != sFalse {
			runtime.UnlockOSThread()
			return nil, fmt.Errorf("initializing COM: %w", err)
		}
	}

	app, err := w.create(visible)
	if err != nil {
		ole.CoUninitialize()
		runtime.UnlockOSThread()
		return nil, err
	}
	w.log.Debug("session started", "prog_id", wordProgID, "visible", visible)
	return &wordSession{app: app, log: w.log}, nil
}

func (w *Word) create(visible bool) (*ole.IDispatch, error) {
	unknown, err := oleutil.CreateObject(wordProgID)
	if err != nil {
		return nil, fmt.Errorf("creating %s (is Microsoft Word installed?): %w", wordProgID, err)
	}
	defer unknown.Release()

	app, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, fmt.Errorf("querying %s dispatch: %w", wordProgID, err)
	}

	if _, err := oleutil.PutProperty(app, "Visible", visible); err != nil {
		oleutil.CallMethod(app, "Quit")
		app.Release()
		return nil, fmt.Errorf("setting %s.Visible: %w", wordProgID, err)
	}
	// Suppress modal alerts that would block an invisible instance.
	if _, err := oleutil.PutProperty(app, "DisplayAlerts", 0); err != nil {
		w.log.Debug("could not disable alerts", "error", err)
	}
	return app, nil
}

type wordSession struct {
	app  *ole.IDispatch
	log  hclog.Logger
	quit bool
}

func (s *wordSession) Open(path string) (Document, error) {
	if s.quit {
		return nil, errSessionQuit
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	docsVar, err := oleutil.GetProperty(s.app, "Documents")
	if err != nil {
		return nil, fmt.Errorf("getting Documents: %w", err)
	}
	docs := docsVar.ToIDispatch()
	defer docs.Release()

	// Open(FileName, ConfirmConversions, ReadOnly)
	docVar, err := oleutil.CallMethod(docs, "Open", abs, false, true)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", abs, err)
	}
	return &wordDocument{doc: docVar.ToIDispatch()}, nil
}

func (s *wordSession) Quit() error {
	if s.quit {
		return errSessionQuit
	}
	s.quit = true
	defer runtime.UnlockOSThread()
	defer ole.CoUninitialize()
	defer s.app.Release()

	if _, err := oleutil.CallMethod(s.app, "Quit", wdDoNotSaveChanges); err != nil {
		return fmt.Errorf("quitting %s: %w", wordProgID, err)
	}
	s.log.Debug("session quit")
	return nil
}

type wordDocument struct {
	doc    *ole.IDispatch
	closed bool
}

func (d *wordDocument) ExportPDF(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	// SaveAs(FileName, FileFormat)
	if _, err := oleutil.CallMethod(d.doc, "SaveAs", abs, wdFormatPDF); err != nil {
		return fmt.Errorf("saving %s as PDF: %w", abs, err)
	}
	return nil
}

func (d *wordDocument) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	defer d.doc.Release()
	if _, err := oleutil.CallMethod(d.doc, "Close", wdDoNotSaveChanges); err != nil {
		return fmt.Errorf("closing document: %w", err)
	}
	return nil
}
