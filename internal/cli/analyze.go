package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cognicore/promptstat/pkg/promptstat/pipeline"
)

var skipStages []string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <input>",
	Short: "Run the analysis pipeline over a corpus file",
	Long: `Run the analysis pipeline over a CSV, XLSX or JSONL corpus file.

Stages run in order: clean, categorize, frequency, consistency, report.
Any of them can be skipped with --skip; a failing stage is reported and
the remaining stages still run. Outputs go to --output, or to a new
analysis_results_YYYYMMDD_HHMMSS directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		skip, err := pipeline.ParseStages(skipStages)
		if err != nil {
			return err
		}

		out, err := pipeline.Execute(cmd.Context(), pipeline.Options{
			Input:   args[0],
			Skip:    skip,
			Config:  cfg,
			Console: cmd.OutOrStdout(),
		})
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w)
		for _, res := range out.Results {
			status := color.GreenString(string(res.Status))
			switch res.Status {
			case pipeline.StatusFailed:
				status = color.RedString(string(res.Status))
			case pipeline.StatusSkipped:
				status = color.YellowString(string(res.Status))
			}
			fmt.Fprintf(w, "  %-12s %s\n", res.Stage, status)
		}
		fmt.Fprintf(w, "\nrun %s, outputs in %s\n", out.RunID, out.OutputDir)

		if failed := out.Failures(); len(failed) > 0 {
			return fmt.Errorf("%d stage(s) failed, first: %v", len(failed), failed[0].Err)
		}
		return nil
	},
}

func init() {
	f := analyzeCmd.Flags()
	f.StringP("output", "o", "", "output directory")
	f.StringSliceVar(&skipStages, "skip", nil, "stages to skip (clean, categorize, frequency, consistency, report)")
	f.String("dict", "", "category dictionary file (csv, xlsx or yaml)")
	f.String("vocab", "", "word list used to filter tokens")
	f.Int("top", 30, "number of words kept per frequency table")
	f.Bool("detect-language", false, "detect the language of each prompt")
	f.Bool("strip-markup", false, "drop HTML elements and decode entities before cleaning")
	f.String("db", "", "run database path")

	_ = viper.BindPFlag("output_dir", f.Lookup("output"))
	_ = viper.BindPFlag("dictionary_path", f.Lookup("dict"))
	_ = viper.BindPFlag("vocabulary_path", f.Lookup("vocab"))
	_ = viper.BindPFlag("frequency.top_n", f.Lookup("top"))
	_ = viper.BindPFlag("detect_language", f.Lookup("detect-language"))
	_ = viper.BindPFlag("strip_markup", f.Lookup("strip-markup"))
	_ = viper.BindPFlag("database_path", f.Lookup("db"))

	rootCmd.AddCommand(analyzeCmd)
}
