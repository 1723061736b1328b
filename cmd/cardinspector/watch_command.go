package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anime-shed/card-inspector-go/internal/storage"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var flags analyzeFlags
	var settle string

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Analyse images as they are dropped into a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delay, err := parseSettle(settle)
			if err != nil {
				return err
			}
			ctr, err := ctx.ensureContainer()
			if err != nil {
				return err
			}

			watcher, err := storage.NewDirWatcher(args[0], delay)
			if err != nil {
				return err
			}
			defer watcher.Close()

			opts := flags.options(cmd)
			table := ctx.useTable(cmd)
			if table {
				fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to stop)\n", args[0])
			}

			return watcher.Run(cmd.Context(), func(path string) {
				a := ctr.Service().AnalyzeCardImage(cmd.Context(), storage.NewFileSource(path), flags.category, opts)
				if !table {
					// One JSON document per line so the stream can be piped
					_ = writeJSONLine(cmd, newAnalysisOutput(a))
					return
				}
				row := analysisRow(a.Label, a.State, a.Result)
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  %s  confidence %s\n", row[0], row[1], row[2], row[3], row[6])
			})
		},
	}

	cmd.Flags().StringVar(&flags.category, "category", "", "Card category for every image")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "Seed for character and story selection")
	cmd.Flags().BoolVar(&flags.save, "save", false, "Persist results to the card database")
	cmd.Flags().StringVar(&settle, "settle", storage.DefaultSettleDelay.String(), "How long a file must stay unchanged before analysis")

	return cmd
}
