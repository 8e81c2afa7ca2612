// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes a YAML summary of a conversion run.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doc2pdf/pkg/types"
)

// Summary is the document written to the report file.
type Summary struct {
	Dir        string    `yaml:"dir"`
	Backend    string    `yaml:"backend"`
	StartedAt  time.Time `yaml:"started_at"`
	FinishedAt time.Time `yaml:"finished_at"`
	Converted  int       `yaml:"converted"`
	Failed     int       `yaml:"failed"`
	Documents  []Item    `yaml:"documents"`
}

// Item is one document line in the report.
type Item struct {
	Input  string                 `yaml:"input"`
	Output string                 `yaml:"output,omitempty"`
	Status types.ConversionStatus `yaml:"status"`
	Error  string                 `yaml:"error,omitempty"`
	Pages  int                    `yaml:"pages,omitempty"`
}

// Items converts per-document results into report items.
func Items(results []types.ConversionResult) []Item {
	items := make([]Item, 0, len(results))
	for _, r := range results {
		item := Item{
			Input:  r.Document.Name,
			Status: r.Status,
			Error:  r.ErrorMessage(),
			Pages:  r.Pages,
		}
		if r.Output != "" {
			item.Output = filepath.Base(r.Output)
		}
		items = append(items, item)
	}
	return items
}

// Write marshals s as YAML to path, replacing any existing file.
func Write(path string, s Summary) error {
	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
