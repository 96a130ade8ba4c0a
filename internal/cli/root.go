package cli

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cognicore/promptstat/pkg/promptstat/config"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

var (
	cfgFile   string
	verbose   bool
	logFormat string

	// cfg is loaded before any subcommand runs.
	cfg config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "promptstat",
	Short: "Word statistics for music-generation prompts and tags",
	Long: `promptstat analyses a corpus of music-generation prompts and their tags.

It cleans the text, sorts words into genre, emotion and narrative
categories, counts words and word pairs, and measures how well each
prompt agrees with its tags. Results are written as a workbook, a JSON
summary and rows in a local run database.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(viper.GetViper(), cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
		return setupLogging(cfg.Log)
	},
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "promptstat %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.promptstat/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")

	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(versionCmd)
}

func setupLogging(c config.Log) error {
	log.SetOutput(os.Stderr)
	switch c.Format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level := log.InfoLevel
	if c.Level != "" {
		parsed, err := log.ParseLevel(c.Level)
		if err != nil {
			return err
		}
		level = parsed
	}
	if verbose {
		level = log.DebugLevel
	}
	log.SetLevel(level)
	return nil
}
