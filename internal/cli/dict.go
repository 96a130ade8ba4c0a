package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/promptstat/pkg/promptstat/lexicon"
)

var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Inspect the category dictionary",
}

var dictExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Write the active category dictionary to a csv, xlsx or yaml file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := lexicon.Load(cfg.DictionaryPath)
		if err := lexicon.Export(args[0], d); err != nil {
			return fmt.Errorf("export dictionary: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d categories to %s\n", len(d.Keys()), args[0])
		return nil
	},
}

func init() {
	dictCmd.AddCommand(dictExportCmd)
	rootCmd.AddCommand(dictCmd)
}
