// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionStatus indicates the outcome of converting one document to PDF.
type ConversionStatus string

const (
	ConversionPending ConversionStatus = "pending"
	ConversionDone    ConversionStatus = "converted"
	ConversionFailed  ConversionStatus = "failed"
)

// Document is a Word document selected for conversion.
type Document struct {
	// Name is the file name as listed in the directory (e.g. "report.DOCX").
	Name string `json:"name" yaml:"name"`

	// Path is the absolute or directory-joined path to the file.
	Path string `json:"path" yaml:"path"`

	// Base is Name without its final extension (e.g. "report").
	Base string `json:"base" yaml:"base"`
}

// ConversionResult records what happened to a single document.
type ConversionResult struct {
	Document Document         `json:"document" yaml:"document"`
	Output   string           `json:"output,omitempty" yaml:"output,omitempty"`
	Status   ConversionStatus `json:"status" yaml:"status"`

	// Err is the failure cause when Status is ConversionFailed.
	Err error `json:"-" yaml:"-"`

	// Pages is the page count of the produced PDF, set only when
	// verification ran.
	Pages int `json:"pages,omitempty" yaml:"pages,omitempty"`

	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
}

// ErrorMessage returns the failure message, or "" when the conversion succeeded.
func (r ConversionResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
