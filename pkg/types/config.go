// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"strings"
)

// Backend identifies the application that performs the conversion.
type Backend string

const (
	BackendAuto        Backend = "auto"
	BackendWord        Backend = "word"
	BackendLibreOffice Backend = "libreoffice"
)

// ErrUnknownBackend is returned for a backend name outside the known set.
var ErrUnknownBackend = errors.New("unknown backend")

// ParseBackend maps a configuration string to a Backend. Matching is
// case-insensitive; the empty string means auto.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return BackendAuto, nil
	case BackendAuto, BackendWord, BackendLibreOffice:
		return b, nil
	default:
		return "", fmt.Errorf("%w %q (want auto, word, or libreoffice)", ErrUnknownBackend, s)
	}
}

// ConversionConfig holds settings for a batch conversion run.
type ConversionConfig struct {
	// Dir is the directory scanned for .doc and .docx files.
	Dir string `json:"dir" yaml:"dir"`

	// OutputDir receives the PDFs. Empty means alongside the inputs.
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`

	// Backend selects the automation application: auto, word, or libreoffice.
	Backend Backend `json:"backend" yaml:"backend"`

	// SofficePath is the LibreOffice binary name or path.
	SofficePath string `json:"soffice" yaml:"soffice"`

	// Suffix is appended to a colliding output base name until it is free.
	Suffix string `json:"suffix" yaml:"suffix"`

	// Visible shows the application window during conversion.
	Visible bool `json:"visible" yaml:"visible"`

	// Confirm waits for Enter before starting the application.
	Confirm bool `json:"confirm" yaml:"confirm"`

	// Pause waits for Enter before exiting.
	Pause bool `json:"pause" yaml:"pause"`

	// Verify opens each produced PDF and records its page count.
	Verify bool `json:"verify" yaml:"verify"`

	// JournalPath is the SQLite conversion journal. Empty disables it.
	JournalPath string `json:"journal,omitempty" yaml:"journal,omitempty"`

	// ReportPath is the YAML batch report. Empty disables it.
	ReportPath string `json:"report,omitempty" yaml:"report,omitempty"`

	// LogLevel is the diagnostic log level (trace, debug, info, warn, error).
	LogLevel string `json:"log_level" yaml:"log_level"`

	// DryRun lists planned conversions without starting the application.
	DryRun bool `json:"dry_run" yaml:"dry_run"`
}

// DefaultConversionConfig returns the settings used when nothing is configured.
func DefaultConversionConfig() ConversionConfig {
	return ConversionConfig{
		Backend:     BackendAuto,
		SofficePath: "soffice",
		Suffix:      "_",
		Confirm:     true,
		Pause:       true,
		LogLevel:    "warn",
	}
}

// Validate reports the first configuration problem found.
func (c ConversionConfig) Validate() error {
	if c.Suffix == "" {
		return errors.New("suffix must not be empty")
	}
	if strings.ContainsAny(c.Suffix, `/\`) {
		return fmt.Errorf("suffix %q must not contain a path separator", c.Suffix)
	}
	if _, err := ParseBackend(string(c.Backend)); err != nil {
		return err
	}
	if c.Backend == BackendLibreOffice && c.SofficePath == "" {
		return errors.New("soffice path must be set for the libreoffice backend")
	}
	return nil
}
