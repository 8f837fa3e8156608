package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/killallgit/herotrend/internal/services/analyses"
	"github.com/killallgit/herotrend/pkg/source"
	"github.com/spf13/cobra"
)

// historyCmd lists recorded pipeline runs
var historyCmd = &cobra.Command{
	Use:   "history [id|url]",
	Short: "Show recorded pipeline runs",
	Long: `List the most recent pipeline runs recorded in the analysis ledger,
optionally restricted to one source. With --stages every run is followed by
the outcome of each stage.

Example:
  herotrend history
  herotrend history dQw4w9WgXcQ --limit 5 --stages`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", analyses.DefaultHistoryLimit, "number of runs to show")
	historyCmd.Flags().Bool("stages", false, "show the stages of each run")
}

func runHistory(cmd *cobra.Command, args []string) error {
	sourceID := ""
	if len(args) == 1 {
		id, err := source.ParseID(args[0])
		if err != nil {
			return err
		}
		sourceID = id
	}
	limit, _ := cmd.Flags().GetInt("limit")
	showStages, _ := cmd.Flags().GetBool("stages")

	a, err := newApp(appConfig, true)
	if err != nil {
		return err
	}
	defer a.Close()

	list, err := a.analyses.History(cmd.Context(), sourceID, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No recorded runs")
		return nil
	}

	fmt.Fprintf(out, "%-6s %-20s %-10s %8s %-20s %s\n", "ID", "SOURCE", "STATUS", "SECONDS", "STARTED", "ERROR")
	fmt.Fprintln(out, strings.Repeat("-", 80))
	for _, run := range list {
		fmt.Fprintf(out, "%-6d %-20s %-10s %8d %-20s %s\n",
			run.ID, run.SourceID, run.Status, run.Seconds,
			run.StartedAt.Format("2006-01-02 15:04:05"), run.ErrorCode)

		if !showStages {
			continue
		}
		for _, stage := range run.Stages {
			state := "computed"
			if stage.Cached {
				state = "cached"
			}
			fmt.Fprintf(out, "       %-10s %-9s %10s  %s\n", stage.Kind, state, stage.Duration.Round(time.Millisecond), stage.Path)
		}
	}
	return nil
}
