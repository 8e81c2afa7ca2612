// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc2pdf/internal/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded conversion runs",
	Long: `History lists the runs recorded in the journal (--journal or the
journal config key). With --run it lists the documents of one run.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "number of runs to show")
	historyCmd.Flags().String("run", "", "show the documents of this run ID")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := viper.GetString("journal")
	if path == "" {
		return fmt.Errorf("no journal configured: pass --journal or set journal in doc2pdf.yaml")
	}

	j, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer j.Close()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	if runID, _ := cmd.Flags().GetString("run"); runID != "" {
		entries, err := j.Conversions(runID)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "STATUS\tINPUT\tOUTPUT\tPAGES\tERROR")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", e.Status, e.Input, e.Output, e.Pages, e.Error)
		}
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := j.Runs(limit)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "RUN\tSTARTED\tBACKEND\tCONVERTED\tFAILED\tDIR\tERROR")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Backend, r.Converted, r.Failed, r.Dir, r.Error)
	}
	return nil
}
