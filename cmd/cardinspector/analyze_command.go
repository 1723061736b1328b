package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/anime-shed/card-inspector-go/internal/service"
	"github.com/anime-shed/card-inspector-go/internal/storage"
)

type analyzeFlags struct {
	category string
	seed     uint64
	save     bool
}

func (f *analyzeFlags) options(cmd *cobra.Command) service.Options {
	opts := service.Options{Save: f.save}
	if cmd.Flags().Changed("seed") {
		seed := f.seed
		opts.Seed = &seed
	}
	return opts
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var flags analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze <file|url|azure://container/blob>...",
		Short: "Analyse one or more card images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctr, err := ctx.ensureContainer()
			if err != nil {
				return err
			}

			sources := make([]storage.ImageSource, 0, len(args))
			for _, ref := range args {
				src, err := ctr.Sources().CreateSource(ref)
				if err != nil {
					return fmt.Errorf("%s: %w", ref, err)
				}
				sources = append(sources, src)
			}

			// Analyses never fail, so the group only bounds concurrency
			opts := flags.options(cmd)
			analyses := make([]*service.Analysis, len(sources))
			g, gctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(runtime.NumCPU())
			for i, src := range sources {
				g.Go(func() error {
					analyses[i] = ctr.Service().AnalyzeCardImage(gctx, src, flags.category, opts)
					return nil
				})
			}
			_ = g.Wait()

			if !ctx.useTable(cmd) {
				out := make([]analysisOutput, 0, len(analyses))
				for _, a := range analyses {
					out = append(out, newAnalysisOutput(a))
				}
				return writeJSON(cmd, out)
			}
			renderAnalyses(cmd, analyses)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.category, "category", "", "Card category (defaults to the configured category)")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "Seed for character and story selection")
	cmd.Flags().BoolVar(&flags.save, "save", false, "Persist results to the card database")

	return cmd
}
