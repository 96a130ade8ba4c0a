package cli

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cognicore/promptstat/pkg/promptstat/analytics"
	"github.com/cognicore/promptstat/pkg/promptstat/corpus"
)

var profileTop int

var profileCmd = &cobra.Command{
	Use:   "profile <input>",
	Short: "Summarize raw prompts before cleaning",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := corpus.Load(args[0])
		if err != nil {
			return err
		}
		texts, err := table.Text(corpus.ColPrompt)
		if err != nil {
			return err
		}
		prompts := make([]string, 0, len(texts))
		for _, t := range texts {
			if t.Valid {
				prompts = append(prompts, t.String)
			}
		}

		prof := analytics.ProfilePrompts(prompts, profileTop, 5)
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "prompts: %s\n", humanize.Comma(int64(prof.Prompts)))
		fmt.Fprintf(w, "average length: %.1f chars\n\n", prof.AverageLength)

		tw := tablewriter.NewWriter(w)
		tw.SetHeader([]string{"#", "Word", "Count"})
		tw.SetBorder(false)
		tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		tw.SetAlignment(tablewriter.ALIGN_LEFT)
		for i, wc := range prof.TopWords {
			tw.Append([]string{strconv.Itoa(i + 1), wc.Word, strconv.Itoa(wc.Count)})
		}
		tw.Render()

		if len(prof.Samples) > 0 {
			fmt.Fprintln(w, "\nsamples:")
			for _, s := range prof.Samples {
				fmt.Fprintf(w, "  - %s\n", s)
			}
		}
		return nil
	},
}

func init() {
	profileCmd.Flags().IntVarP(&profileTop, "top", "n", 20, "number of words to list")
	rootCmd.AddCommand(profileCmd)
}
