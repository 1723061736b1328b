package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/anime-shed/card-inspector-go/internal/service"
	"github.com/anime-shed/card-inspector-go/internal/storage"
	"github.com/anime-shed/card-inspector-go/pkg/models"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var flags analyzeFlags
	var workers int

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Analyse every image under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := collectImages(args[0])
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no images found under %s", args[0])
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if workers > 0 {
				cfg.Analysis.BatchWorkers = workers
			}
			ctr, err := ctx.ensureContainer()
			if err != nil {
				return err
			}

			opts := flags.options(cmd)
			items := make([]service.BatchItem, 0, len(paths))
			for _, path := range paths {
				items = append(items, service.BatchItem{
					Source:   storage.NewFileSource(path),
					Category: flags.category,
					Options:  opts,
				})
			}

			start := time.Now()
			analyses := ctr.Service().AnalyzeBatch(cmd.Context(), items)

			if !ctx.useTable(cmd) {
				out := make([]analysisOutput, 0, len(analyses))
				for _, a := range analyses {
					out = append(out, newAnalysisOutput(a))
				}
				return writeJSON(cmd, out)
			}
			renderAnalyses(cmd, analyses)
			fmt.Fprintln(cmd.OutOrStdout(), batchSummary(analyses, time.Since(start)))
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.category, "category", "", "Card category for every image")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "Seed for character and story selection")
	cmd.Flags().BoolVar(&flags.save, "save", false, "Persist results to the card database")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent analyses (default: configured batch_workers)")

	return cmd
}

// collectImages walks root and returns image files in lexical order
func collectImages(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if storage.IsImagePath(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return paths, nil
}

func batchSummary(analyses []*service.Analysis, elapsed time.Duration) string {
	counts := make(map[models.AnalysisState]int)
	for _, a := range analyses {
		counts[a.State]++
	}
	return fmt.Sprintf("\nAnalysed %d images in %s (full %d, partial %d, fallback %d)",
		len(analyses), formatDuration(elapsed),
		counts[models.StateFull], counts[models.StatePartial], counts[models.StateFallback])
}
