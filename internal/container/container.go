package container

import (
	"fmt"
	"net/http"

	"github.com/anime-shed/card-inspector-go/internal/analyzer"
	"github.com/anime-shed/card-inspector-go/internal/config"
	"github.com/anime-shed/card-inspector-go/internal/factory"
	"github.com/anime-shed/card-inspector-go/internal/logger"
	"github.com/anime-shed/card-inspector-go/internal/observer"
	"github.com/anime-shed/card-inspector-go/internal/repository"
	"github.com/anime-shed/card-inspector-go/internal/service"
	"github.com/anime-shed/card-inspector-go/internal/storage"
	"github.com/anime-shed/card-inspector-go/internal/transport"
	"github.com/anime-shed/card-inspector-go/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config     *config.Config
	factories  *factory.ComponentFactory
	repository *repository.SQLiteCardRepository
	metrics    *observer.MetricsObserver
	service    service.CardAnalysisService
	handler    http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	// Image sources
	var blobs storage.BlobStorage
	if cfg.AzureEnabled() {
		var err error
		blobs, err = storage.NewAzureStorage(cfg.Azure.AccountName, cfg.Azure.AccountKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create azure storage: %w", err)
		}
	}
	validatorOpts := []validation.URLOption{}
	if cfg.Server.BlockPrivateHosts {
		validatorOpts = append(validatorOpts, validation.WithPrivateHostsBlocked())
	}
	validator := validation.NewURLValidator(validatorOpts...)
	fetcher := storage.NewHTTPImageFetcher(
		cfg.Server.ImageFetchTimeout.Std(),
		cfg.Server.MaxRequestBodySize,
		storage.WithRedirectCheck(validator.ValidateImageURL),
	)
	sources := factory.NewSourceFactory(fetcher, blobs, validator)
	factories := factory.NewComponentFactory(sources)

	qualityAnalyzer, err := factories.AnalyzerFactory.CreateAnalyzer(
		factory.AnalyzerType(cfg.Analysis.Analyzer),
		analyzer.WithMaxPixels(cfg.Analysis.MaxPixels),
	)
	if err != nil {
		return nil, err
	}

	repo, err := repository.NewSQLiteCardRepository(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open card repository: %w", err)
	}

	// Observers
	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	opts := []service.Option{
		service.WithRepository(repo),
		service.WithObserver(events),
		service.WithBatchWorkers(cfg.Analysis.BatchWorkers),
		service.WithDefaultCategory(cfg.DefaultCategory()),
	}
	if cfg.Analysis.RandomSeed != 0 {
		opts = append(opts, service.WithSeed(cfg.Analysis.RandomSeed))
	}
	svc := service.NewCardAnalysisService(qualityAnalyzer, opts...)

	handler := transport.NewHandler(transport.Dependencies{
		Service: svc,
		Sources: sources,
		Metrics: metrics,
		Config:  cfg,
	})

	return &Container{
		config:     cfg,
		factories:  factories,
		repository: repo,
		metrics:    metrics,
		service:    svc,
		handler:    handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Service returns the card analysis service
func (c *Container) Service() service.CardAnalysisService {
	return c.service
}

// Sources returns the factory that resolves image references
func (c *Container) Sources() factory.SourceFactory {
	return c.factories.SourceFactory
}

// Metrics returns the analysis metrics collector
func (c *Container) Metrics() *observer.MetricsObserver {
	return c.metrics
}

// Close releases the card repository
func (c *Container) Close() error {
	return c.repository.Close()
}
