package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cognicore/promptstat/pkg/promptstat/store/sqlite"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent analysis runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Database()
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "No runs recorded yet (%s).\n", path)
			return nil
		}
		st, err := sqlite.OpenSQLite(cmd.Context(), path)
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.Runs(cmd.Context(), runsLimit)
		if err != nil {
			return fmt.Errorf("error listing runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
			return nil
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"ID", "Input", "Records", "Stages", "Started At"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, r := range runs {
			stages := make([]string, len(r.Stages))
			for i, s := range r.Stages {
				stages[i] = s.Stage + ":" + s.Status
			}
			table.Append([]string{
				r.ID,
				r.Input,
				strconv.Itoa(r.Records),
				strings.Join(stages, " "),
				r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "maximum number of runs to show")
	rootCmd.AddCommand(runsCmd)
}
