package main

import (
	"github.com/spf13/cobra"

	"oascore.io/oascore/internal/pkg/logger"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oascore",
		Short: "OAScore - static quality scoring for OpenAPI documents",
		Long: `OAScore grades an OpenAPI 3 document against a set of best-practice
rules and produces a weighted 0-100 quality score, a letter grade, and a
list of violations with remediation suggestions.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if *debugLogging {
			level = "debug"
		}
		return logger.Init(level, "console")
	}

	cmd.AddCommand(newScoreCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
