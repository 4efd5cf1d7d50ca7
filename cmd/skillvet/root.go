package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skillvet",
		Short: "Skillvet - structural validator for Agent Skills",
		Long: `Skillvet validates Agent Skill packages before publication.

It checks naming, directory structure, frontmatter, content, reference
documents, and bundled scripts, then scores the skill and writes a
Markdown validation report.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newListCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
