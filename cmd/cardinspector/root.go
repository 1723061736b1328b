package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/anime-shed/card-inspector-go/internal/logger"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var jsonFlag bool
	var verbose bool

	ctx := newCommandContext(&configFlag, &jsonFlag)

	rootCmd := &cobra.Command{
		Use:           "cardinspector",
		Short:         "Turn card images into collectible card analyses",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.SetOutput(os.Stderr)
			if verbose {
				logger.SetLevel("debug")
			} else {
				logger.SetLevel("warn")
			}
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Write JSON even when stdout is a terminal")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log analysis details to stderr")

	rootCmd.AddCommand(newAnalyzeCommand(ctx))
	rootCmd.AddCommand(newBatchCommand(ctx))
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newCategoriesCommand(ctx))
	rootCmd.AddCommand(newWatchCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))

	return rootCmd
}
