// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the doc2pdf CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc2pdf/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd converts the documents in one directory. Running the executable
// with no arguments (e.g. by double-clicking it) converts the directory the
// executable lives in.
var rootCmd = &cobra.Command{
	Use:   "doc2pdf [dir]",
	Short: "Convert the Word documents in a directory to PDF",
	Long: `doc2pdf finds every .doc and .docx file in a directory (skipping Word's
~ lock files), opens each one in Microsoft Word or LibreOffice, and saves
it as PDF next to the original. An existing PDF is never overwritten: the
new file gets a suffix (report_.pdf, report__.pdf, ...).

Without a directory argument the directory containing the executable is used.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := types.DefaultConversionConfig()

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./doc2pdf.yaml or ~/.config/doc2pdf/doc2pdf.yaml)")
	pf.String("log-level", defaults.LogLevel, "diagnostic log level: trace, debug, info, warn, error")
	pf.String("journal", "", "SQLite file recording every run (disabled when empty)")

	f := rootCmd.Flags()
	f.String("dir", "", "directory to scan (default: the executable's directory)")
	f.String("output-dir", "", "directory for the PDFs (default: next to each document)")
	f.String("backend", string(defaults.Backend), "conversion application: auto, word, or libreoffice")
	f.String("soffice", defaults.SofficePath, "LibreOffice binary")
	f.String("suffix", defaults.Suffix, "appended to a PDF name until it does not collide")
	f.Bool("visible", defaults.Visible, "show the application window while converting")
	f.Bool("confirm", defaults.Confirm, "wait for Enter before starting")
	f.Bool("pause", defaults.Pause, "wait for Enter before exiting")
	f.Bool("verify", defaults.Verify, "check each produced PDF and record its page count")
	f.String("report", "", "write a YAML summary of the run to this file")
	f.Bool("dry-run", defaults.DryRun, "list planned conversions without starting an application")

	if err := viper.BindPFlags(pf); err != nil {
		panic(err)
	}
	if err := viper.BindPFlags(f); err != nil {
		panic(err)
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("doc2pdf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "doc2pdf"))
		}
	}

	viper.SetEnvPrefix("DOC2PDF")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
