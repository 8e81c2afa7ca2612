// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package automation

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/pdiddy/doc2pdf/pkg/types"
)

const defaultSoffice = "soffice"

var errSessionQuit = errors.New("session has already quit")

// LibreOffice converts documents with a headless soffice process per export.
// Each session gets a private user profile so a desktop instance the user
// has open does not capture the conversion.
type LibreOffice struct {
	bin  string
	exec executor
	log  hclog.Logger
}

// NewLibreOffice returns the LibreOffice backend using bin, or "soffice"
// when bin is empty.
func NewLibreOffice(bin string, log hclog.Logger) *LibreOffice {
	return newLibreOffice(bin, defaultExec, log)
}

func newLibreOffice(bin string, exec executor, log hclog.Logger) *LibreOffice {
	if bin == "" {
		bin = defaultSoffice
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &LibreOffice{bin: bin, exec: exec, log: log}
}

func (l *LibreOffice) Name() string { return string(types.BackendLibreOffice) }

// Start checks that soffice is installed and answers --version, then
// creates the session profile directory.
func (l *LibreOffice) Start(visible bool) (Session, error) {
	bin, err := l.exec.LookPath(l.bin)
	if err != nil {
		return nil, fmt.Errorf("%s not found: %w", l.bin, err)
	}
	if err := l.exec.RunSilent(bin, "--version"); err != nil {
		return nil, fmt.Errorf("%s is not operational: %w", bin, err)
	}
	if visible {
		l.log.Warn("libreoffice always runs headless; ignoring visible")
	}

	profile, err := os.MkdirTemp("", "doc2pdf-profile-*")
	if err != nil {
		return nil, fmt.Errorf("creating soffice profile directory: %w", err)
	}
	l.log.Debug("session started", "bin", bin, "profile", profile)

	return &loSession{
		bin:     bin,
		profile: profile,
		exec:    l.exec,
		log:     l.log,
	}, nil
}

type loSession struct {
	bin     string
	profile string
	exec    executor
	log     hclog.Logger
	quit    bool
}

func (s *loSession) Open(path string) (Document, error) {
	if s.quit {
		return nil, errSessionQuit
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("opening %s: is a directory", path)
	}
	return &loDocument{session: s, path: path}, nil
}

func (s *loSession) Quit() error {
	if s.quit {
		return errSessionQuit
	}
	s.quit = true
	s.log.Debug("session quit", "profile", s.profile)
	if err := os.RemoveAll(s.profile); err != nil {
		return fmt.Errorf("removing soffice profile %s: %w", s.profile, err)
	}
	return nil
}

// profileURI renders the profile directory as the file URL soffice expects
// for -env:UserInstallation.
func (s *loSession) profileURI() string {
	p := filepath.ToSlash(s.profile)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

type loDocument struct {
	session *loSession
	path    string
	tmpDirs []string
}

// ExportPDF converts into a scratch directory beside target and renames the
// result into place, since soffice always names its output after the input.
func (d *loDocument) ExportPDF(target string) error {
	s := d.session
	if s.quit {
		return errSessionQuit
	}

	outDir, err := os.MkdirTemp(filepath.Dir(target), ".doc2pdf-*")
	if err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	d.tmpDirs = append(d.tmpDirs, outDir)

	args := []string{
		"--headless",
		"--norestore",
		"-env:UserInstallation=" + s.profileURI(),
		"--convert-to", "pdf",
		"--outdir", outDir,
		d.path,
	}
	s.log.Debug("running soffice", "args", args)

	var out bytes.Buffer
	if err := s.exec.RunCombined(s.bin, args, &out); err != nil {
		return fmt.Errorf("converting %s with %s: %w: %s", d.path, s.bin, err, strings.TrimSpace(out.String()))
	}

	base := strings.TrimSuffix(filepath.Base(d.path), filepath.Ext(d.path))
	produced := filepath.Join(outDir, base+".pdf")
	if _, err := os.Stat(produced); err != nil {
		return fmt.Errorf("%s produced no PDF for %s: %s", s.bin, d.path, strings.TrimSpace(out.String()))
	}

	if err := os.Rename(produced, target); err != nil {
		return fmt.Errorf("moving PDF to %s: %w", target, err)
	}
	return nil
}

func (d *loDocument) Close() error {
	var errs []error
	for _, dir := range d.tmpDirs {
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, err)
		}
	}
	d.tmpDirs = nil
	return errors.Join(errs...)
}
