// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package console writes the interactive text a user sees when running the
// converter from a terminal or by double-clicking the executable.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

const rule = 60

var errColor = color.New(color.FgRed)

// Banner prints the start-up summary: which directory was scanned, how many
// documents were found, and which application will convert them.
func Banner(w io.Writer, dir string, count int, backend string) {
	fmt.Fprintln(w, strings.Repeat("=", rule))
	fmt.Fprintln(w, "doc2pdf: convert Word documents to PDF")
	fmt.Fprintf(w, "Requires Microsoft Word or LibreOffice (backend: %s).\n", backend)
	fmt.Fprintln(w, strings.Repeat("-", rule))
	fmt.Fprintf(w, "Directory: %s\n", dir)
	fmt.Fprintf(w, "Found %d convertible document(s) (.doc/.docx)\n", count)
	fmt.Fprintln(w, strings.Repeat("=", rule))
}

// Errorf prints a red error line. Color is dropped when w is not a terminal.
func Errorf(w io.Writer, format string, args ...any) {
	errColor.Fprintf(w, format, args...)
	fmt.Fprintln(w)
}

// Prompter blocks until the user acknowledges a message.
type Prompter interface {
	Wait(message string) error
}

// NewPrompter returns a Prompter that prints message to w and waits for a
// line on in. When interactive is false the returned Prompter never blocks.
func NewPrompter(in io.Reader, w io.Writer, interactive bool) Prompter {
	if !interactive {
		return nopPrompter{}
	}
	return &linePrompter{in: bufio.NewReader(in), w: w}
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

type linePrompter struct {
	in *bufio.Reader
	w  io.Writer
}

// Wait returns nil on Enter and on end of input, so a closed stdin never
// turns into an error at the final pause.
func (p *linePrompter) Wait(message string) error {
	fmt.Fprint(p.w, message)
	_, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

type nopPrompter struct{}

func (nopPrompter) Wait(string) error { return nil }
