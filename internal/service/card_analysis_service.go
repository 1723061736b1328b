package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/anime-shed/card-inspector-go/internal/analyzer"
	"github.com/anime-shed/card-inspector-go/internal/cardmeta"
	apperrors "github.com/anime-shed/card-inspector-go/internal/errors"
	"github.com/anime-shed/card-inspector-go/internal/logger"
	"github.com/anime-shed/card-inspector-go/internal/narrative"
	"github.com/anime-shed/card-inspector-go/internal/observer"
	"github.com/anime-shed/card-inspector-go/internal/rarity"
	"github.com/anime-shed/card-inspector-go/internal/repository"
	"github.com/anime-shed/card-inspector-go/internal/storage"
	"github.com/anime-shed/card-inspector-go/pkg/models"
)

// Fallback constants apply when the image container cannot be read
const (
	FallbackConfidence   = 0.15
	FallbackQualityScore = 30
)

// CardAnalysisService turns images into card analysis results. Analysis never
// fails: unreadable input produces a Fallback result instead of an error.
type CardAnalysisService interface {
	AnalyzeCardImage(ctx context.Context, src storage.ImageSource, category string, opts Options) *Analysis
	AnalyzeFile(ctx context.Context, path, category string, opts Options) *Analysis
	AnalyzeBytes(ctx context.Context, data []byte, label, category string, opts Options) *Analysis
	AnalyzeBatch(ctx context.Context, items []BatchItem) []*Analysis

	GetCard(ctx context.Context, id string) (*repository.StoredCard, error)
	ListCards(ctx context.Context, limit int) ([]*repository.StoredCard, error)
}

// Analysis wraps a result with how it was produced
type Analysis struct {
	// ID is set when the result was persisted
	ID             string
	Label          string
	Category       models.Category
	State          models.AnalysisState
	Result         models.CardAnalysisResult
	ProcessingTime time.Duration
	// Degraded names the stages that used a neutral default
	Degraded []string
}

// cardAnalysisService implements CardAnalysisService
type cardAnalysisService struct {
	analyzer       analyzer.QualityAnalyzer
	pathMultiplier float64
	seed           *uint64
	events         observer.Subject
	repo           repository.CardRepository
	batchWorkers   int

	// defaultCategory replaces absent or unrecognised categories
	defaultCategory models.Category
}

// NewCardAnalysisService creates the orchestrator around a quality analyzer
func NewCardAnalysisService(qa analyzer.QualityAnalyzer, opts ...Option) CardAnalysisService {
	s := &cardAnalysisService{
		analyzer:        qa,
		pathMultiplier:  DefaultPathMultiplier,
		defaultCategory: models.DefaultCategory,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeFile analyses an image on the local filesystem
func (s *cardAnalysisService) AnalyzeFile(ctx context.Context, path, category string, opts Options) *Analysis {
	return s.AnalyzeCardImage(ctx, storage.NewFileSource(path), category, opts)
}

// AnalyzeBytes analyses an in-memory image
func (s *cardAnalysisService) AnalyzeBytes(ctx context.Context, data []byte, label, category string, opts Options) *Analysis {
	return s.AnalyzeCardImage(ctx, storage.NewBytesSource(data, label), category, opts)
}

// AnalyzeCardImage runs the pipeline once. The returned Analysis is always complete and valid.
func (s *cardAnalysisService) AnalyzeCardImage(ctx context.Context, src storage.ImageSource, rawCategory string, opts Options) *Analysis {
	start := time.Now()
	category, known := models.ParseCategory(rawCategory)
	if !known {
		category = s.defaultCategory
	}
	label := src.Label()
	if !known && rawCategory != "" {
		logger.WithFields(logrus.Fields{
			"label":    label,
			"category": rawCategory,
		}).Debug("Unrecognised category, using default")
	}

	s.publish(ctx, observer.AnalysisEvent{
		EventType: observer.AnalysisStarted,
		Label:     label,
		Category:  category,
	})

	rng := s.newRand(opts.Seed)
	analysis := s.run(ctx, src, label, category, rng)
	analysis.ProcessingTime = time.Since(start)

	if opts.Save {
		s.persist(ctx, analysis)
	}

	info := analysis.Result.CardInfo
	event := observer.AnalysisEvent{
		EventType:      observer.AnalysisCompleted,
		Label:          label,
		Category:       category,
		State:          analysis.State,
		Rarity:         info.Rarity,
		Confidence:     analysis.Result.Confidence,
		ProcessingTime: analysis.ProcessingTime,
	}
	if q := analysis.Result.ImageQuality; q != nil {
		event.QualityScore = q.Quality.QualityScore
	}
	s.publish(ctx, event)

	logger.WithFields(logrus.Fields{
		"label":              label,
		"state":              analysis.State.String(),
		"rarity":             info.Rarity.String(),
		"quality_score":      event.QualityScore,
		"confidence":         analysis.Result.Confidence,
		"processing_time_ms": analysis.ProcessingTime.Milliseconds(),
	}).Info("Card analysis completed")

	return analysis
}

// run performs the Full/Partial path and drops to Fallback on any unreadable input
func (s *cardAnalysisService) run(ctx context.Context, src storage.ImageSource, label string, category models.Category, rng *rand.Rand) *Analysis {
	data, err := src.Load(ctx)
	if err != nil {
		return s.fallback(ctx, label, category, rng, err)
	}
	if data.Label != "" {
		label = data.Label
	}

	report, err := s.analyzer.Analyze(data.Bytes, data.SizeBytes)
	if err != nil {
		return s.fallback(ctx, label, category, rng, err)
	}

	analysis := &Analysis{Label: label, Category: category, State: models.StateFull}
	for _, degraded := range report.Degraded {
		analysis.State = models.StatePartial
		stage := degradedStage(degraded)
		analysis.Degraded = append(analysis.Degraded, stage)

		logger.WithFields(logrus.Fields{
			"stage": stage,
			"label": label,
			"error": degraded.Error(),
		}).Warn("Metric degraded to default")
		s.publish(ctx, observer.AnalysisEvent{
			EventType:    observer.AnalysisDegraded,
			Label:        label,
			Category:     category,
			ErrorMessage: degraded.Error(),
			Metadata:     map[string]interface{}{"stage": stage},
		})
	}

	metrics := report.Metrics
	tier := rarity.ClassifyMetrics(metrics)
	indicators := metrics.RarityIndicators.Count()
	confidence := rarity.Clamp(rarity.EstimateConfidence(metrics.Quality.QualityScore, indicators) * s.pathMultiplier)

	info := cardmeta.Generate(label, category, &metrics, tier, rng)
	story := narrative.Generate(narrative.Input{
		Character:    info.Character,
		Series:       info.Series,
		Category:     category,
		Rarity:       tier,
		QualityScore: metrics.Quality.QualityScore,
	}, rng)

	result, err := models.NewCardAnalysisResult(info, confidence, &metrics, story)
	if err != nil {
		return s.fallback(ctx, label, category, rng, apperrors.NewInternalError("assembled result failed validation", err))
	}
	analysis.Result = result
	return analysis
}

// fallback builds a card from the label alone. cause is logged and never returned.
func (s *cardAnalysisService) fallback(ctx context.Context, label string, category models.Category, rng *rand.Rand, cause error) *Analysis {
	logger.WithFields(logrus.Fields{
		"label": label,
		"error": cause.Error(),
	}).Warn("Image unreadable, using label-only fallback")
	s.publish(ctx, observer.AnalysisEvent{
		EventType:    observer.AnalysisFallback,
		Label:        label,
		Category:     category,
		ErrorMessage: cause.Error(),
	})

	info := cardmeta.Generate(label, category, nil, models.Common, rng)
	story := narrative.Generate(narrative.Input{
		Character:    info.Character,
		Series:       info.Series,
		Category:     category,
		Rarity:       models.Common,
		QualityScore: FallbackQualityScore,
	}, rng)

	return &Analysis{
		Label:    label,
		Category: category,
		State:    models.StateFallback,
		Result: models.CardAnalysisResult{
			CardInfo:   info,
			Confidence: FallbackConfidence,
			Story:      story,
		},
	}
}

func (s *cardAnalysisService) persist(ctx context.Context, analysis *Analysis) {
	if s.repo == nil {
		logger.WithField("label", analysis.Label).Warn("Save requested but no card repository is configured")
		return
	}
	card := &repository.StoredCard{
		Label:    analysis.Label,
		Category: analysis.Category,
		State:    analysis.State,
		Result:   analysis.Result,
	}
	if err := s.repo.Save(ctx, card); err != nil {
		logger.WithFields(logrus.Fields{
			"label": analysis.Label,
			"error": err.Error(),
		}).Error("Failed to persist card")
		return
	}
	analysis.ID = card.ID
}

// GetCard returns a persisted card
func (s *cardAnalysisService) GetCard(ctx context.Context, id string) (*repository.StoredCard, error) {
	if s.repo == nil {
		return nil, apperrors.NewInternalError("card repository is not configured", repository.ErrRepositoryUnavailable)
	}
	card, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrCardNotFound) {
		return nil, apperrors.NewNotFoundError("card not found", err).WithDetails(id)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load card", err)
	}
	return card, nil
}

// ListCards returns the most recent persisted cards
func (s *cardAnalysisService) ListCards(ctx context.Context, limit int) ([]*repository.StoredCard, error) {
	if s.repo == nil {
		return nil, apperrors.NewInternalError("card repository is not configured", repository.ErrRepositoryUnavailable)
	}
	cards, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list cards", err)
	}
	return cards, nil
}

func (s *cardAnalysisService) publish(ctx context.Context, event observer.AnalysisEvent) {
	if s.events == nil {
		return
	}
	event.Timestamp = time.Now()
	s.events.NotifyObservers(ctx, event)
}

// newRand returns a fresh generator per call so concurrent calls share no state
func (s *cardAnalysisService) newRand(callSeed *uint64) *rand.Rand {
	seed := callSeed
	if seed == nil {
		seed = s.seed
	}
	if seed == nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
}

// degradedStage extracts the stage name from a metric_degraded error
func degradedStage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Details != "" {
		return appErr.Details
	}
	return "unknown"
}
