// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package automation

import (
	"github.com/hashicorp/go-hclog"

	"github.com/pdiddy/doc2pdf/pkg/types"
)

const (
	// wordProgID is the COM class registered by Microsoft Word.
	wordProgID = "Word.Application"

	// wdFormatPDF is the WdSaveFormat value for PDF.
	wdFormatPDF = 17

	// wdDoNotSaveChanges is the WdSaveOptions value for Document.Close.
	wdDoNotSaveChanges = 0
)

// Word converts documents with Microsoft Word over COM automation. It only
// works on Windows with Word installed; elsewhere Start returns
// ErrUnsupported.
type Word struct {
	log hclog.Logger
}

// NewWord returns the Word backend.
func NewWord(log hclog.Logger) *Word {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Word{log: log}
}

func (w *Word) Name() string { return string(types.BackendWord) }
