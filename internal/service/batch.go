package service

import (
	"context"

	"github.com/anime-shed/card-inspector-go/internal/analyzer"
	"github.com/anime-shed/card-inspector-go/internal/logger"
	"github.com/anime-shed/card-inspector-go/internal/storage"
	"github.com/anime-shed/card-inspector-go/pkg/models"
)

// BatchItem is one image in a batch request
type BatchItem struct {
	Source   storage.ImageSource
	Category string
	Options  Options
}

// AnalyzeBatch analyses items on a bounded worker pool. Results are returned in input order.
func (s *cardAnalysisService) AnalyzeBatch(ctx context.Context, items []BatchItem) []*Analysis {
	results := make([]*Analysis, len(items))
	if len(items) == 0 {
		return results
	}

	pool := analyzer.NewWorkerPool(s.batchWorkers)
	pool.Start()
	defer pool.Close()

	for i := range items {
		idx := i
		item := items[i]
		submitted := pool.Submit(func() {
			results[idx] = s.AnalyzeCardImage(ctx, item.Source, item.Category, item.Options)
		})
		if !submitted {
			results[idx] = s.AnalyzeCardImage(ctx, item.Source, item.Category, item.Options)
		}
	}
	pool.Wait()

	stats := pool.GetStats()
	counts := map[models.AnalysisState]int{}
	for _, r := range results {
		counts[r.State]++
	}
	logger.WithFields(map[string]interface{}{
		"items":    len(items),
		"workers":  pool.Workers(),
		"jobs":     stats.CompletedJobs,
		"full":     counts[models.StateFull],
		"partial":  counts[models.StatePartial],
		"fallback": counts[models.StateFallback],
	}).Info("Batch analysis completed")

	return results
}
