// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc2pdf/internal/automation"
	"github.com/pdiddy/doc2pdf/internal/console"
	"github.com/pdiddy/doc2pdf/internal/convert"
	"github.com/pdiddy/doc2pdf/internal/journal"
	"github.com/pdiddy/doc2pdf/internal/report"
	"github.com/pdiddy/doc2pdf/internal/scan"
	"github.com/pdiddy/doc2pdf/pkg/types"
)

// reportedError wraps an error the pipeline already printed, so main does
// not print it a second time.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	p := &pipeline{
		cfg:    cfg,
		out:    cmd.OutOrStdout(),
		prompt: console.NewPrompter(os.Stdin, cmd.OutOrStdout(), console.IsInteractive(os.Stdin)),
		log:    newLogger(cfg.LogLevel),
	}
	return p.run()
}

// loadConfig merges flags, environment, and config file (all through
// viper) with the positional directory argument.
func loadConfig(args []string) (types.ConversionConfig, error) {
	cfg := types.DefaultConversionConfig()

	backend, err := types.ParseBackend(viper.GetString("backend"))
	if err != nil {
		return cfg, err
	}
	cfg.Backend = backend
	cfg.Dir = viper.GetString("dir")
	cfg.OutputDir = viper.GetString("output-dir")
	cfg.SofficePath = viper.GetString("soffice")
	cfg.Suffix = viper.GetString("suffix")
	cfg.Visible = viper.GetBool("visible")
	cfg.Confirm = viper.GetBool("confirm")
	cfg.Pause = viper.GetBool("pause")
	cfg.Verify = viper.GetBool("verify")
	cfg.JournalPath = viper.GetString("journal")
	cfg.ReportPath = viper.GetString("report")
	cfg.LogLevel = viper.GetString("log-level")
	cfg.DryRun = viper.GetBool("dry-run")

	if len(args) == 1 {
		cfg.Dir = args[0]
	}
	if cfg.Dir == "" {
		dir, err := executableDir()
		if err != nil {
			return cfg, err
		}
		cfg.Dir = dir
	}
	if abs, err := filepath.Abs(cfg.Dir); err == nil {
		cfg.Dir = abs
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// executableDir returns the directory of the running binary with symlinks
// resolved.
func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

func newLogger(level string) hclog.Logger {
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Warn
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "doc2pdf",
		Level:  lvl,
		Output: os.Stderr,
	})
}

// pipeline is one invocation of the converter: scan, confirm, convert,
// summarize, pause.
type pipeline struct {
	cfg    types.ConversionConfig
	out    io.Writer
	prompt console.Prompter
	log    hclog.Logger

	// app overrides backend selection; tests inject a fake here.
	app automation.Application
}

func (p *pipeline) run() error {
	cfg := p.cfg

	docs, err := scan.Documents(cfg.Dir)
	if err != nil {
		return err
	}
	p.log.Debug("scanned", "dir", cfg.Dir, "documents", len(docs))

	if len(docs) == 0 {
		fmt.Fprintf(p.out, "No .doc or .docx files found in %s.\n", cfg.Dir)
		p.pause()
		return nil
	}

	opts := convert.Options{
		OutputDir: cfg.OutputDir,
		Suffix:    cfg.Suffix,
		Verify:    cfg.Verify,
		Logger:    p.log.Named("convert"),
	}

	if cfg.DryRun {
		p.printPlan(convert.Plan(docs, opts))
		return nil
	}

	app := p.app
	if app == nil {
		app, err = automation.Select(cfg.Backend, automation.Options{
			SofficePath: cfg.SofficePath,
			Logger:      p.log,
		})
		if err != nil {
			return err
		}
	}

	// Open the journal before asking for confirmation so a broken journal
	// fails before the user commits to the run.
	var j *journal.Journal
	if cfg.JournalPath != "" {
		if j, err = journal.Open(cfg.JournalPath); err != nil {
			return err
		}
		defer j.Close()
	}

	console.Banner(p.out, cfg.Dir, len(docs), app.Name())
	if cfg.Confirm {
		if err := p.prompt.Wait("\nPress Enter to start converting..."); err != nil {
			return err
		}
	}

	var run *journal.Run
	if j != nil {
		if run, err = j.BeginRun(cfg.Dir, app.Name()); err != nil {
			return err
		}
		opts.Recorder = run
	}

	started := time.Now()
	result, err := convert.Run(app, cfg.Visible, docs, opts, p.out)
	if run != nil {
		var jerr error
		if err != nil {
			jerr = run.Fail(app.Name(), err)
		} else {
			jerr = run.Finish(app.Name(), result.Converted, result.Failed)
		}
		if jerr != nil {
			p.log.Warn("journal update failed", "error", jerr)
		}
	}
	if err != nil {
		console.Errorf(p.out, "Could not start the conversion application. Make sure Microsoft Word or LibreOffice is installed.")
		console.Errorf(p.out, "Details: %v", err)
		p.pause()
		return &reportedError{err: err}
	}

	if cfg.ReportPath != "" {
		s := report.Summary{
			Dir:        cfg.Dir,
			Backend:    app.Name(),
			StartedAt:  started.UTC(),
			FinishedAt: time.Now().UTC(),
			Converted:  result.Converted,
			Failed:     result.Failed,
			Documents:  report.Items(result.Results),
		}
		if err := report.Write(cfg.ReportPath, s); err != nil {
			console.Errorf(p.out, "report: %v", err)
		} else {
			fmt.Fprintf(p.out, "Report written to %s\n", cfg.ReportPath)
		}
	}

	fmt.Fprintln(p.out, "All tasks completed.")
	p.pause()
	return nil
}

func (p *pipeline) printPlan(plan []types.ConversionResult) {
	fmt.Fprintf(p.out, "Dry run: %d document(s) in %s\n", len(plan), p.cfg.Dir)
	for _, r := range plan {
		if r.Err != nil {
			console.Errorf(p.out, "  %s: %v", r.Document.Name, r.Err)
			continue
		}
		fmt.Fprintf(p.out, "  %s -> %s\n", r.Document.Name, filepath.Base(r.Output))
	}
}

func (p *pipeline) pause() {
	if !p.cfg.Pause {
		return
	}
	if err := p.prompt.Wait("Press Enter to exit..."); err != nil {
		p.log.Debug("final prompt", "error", err)
	}
}
