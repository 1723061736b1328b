package service

import (
	"github.com/anime-shed/card-inspector-go/internal/observer"
	"github.com/anime-shed/card-inspector-go/internal/repository"
	"github.com/anime-shed/card-inspector-go/pkg/models"
)

// DefaultPathMultiplier scales confidence for results backed by measured metrics
const DefaultPathMultiplier = 0.9

// Option configures a card analysis service
type Option func(*cardAnalysisService)

// WithSeed pins character and story selection for every call that does not carry its own seed
func WithSeed(seed uint64) Option {
	return func(s *cardAnalysisService) {
		s.seed = &seed
	}
}

// WithPathMultiplier overrides the confidence scale for Full and Partial results.
// Values outside (0,1] are ignored.
func WithPathMultiplier(m float64) Option {
	return func(s *cardAnalysisService) {
		if m > 0 && m <= 1 {
			s.pathMultiplier = m
		}
	}
}

// WithObserver publishes lifecycle events to subject
func WithObserver(subject observer.Subject) Option {
	return func(s *cardAnalysisService) {
		s.events = subject
	}
}

// WithRepository enables persistence of results for calls that request it
func WithRepository(repo repository.CardRepository) Option {
	return func(s *cardAnalysisService) {
		s.repo = repo
	}
}

// WithBatchWorkers bounds batch concurrency. Zero or less means one worker per CPU.
func WithBatchWorkers(n int) Option {
	return func(s *cardAnalysisService) {
		s.batchWorkers = n
	}
}

// WithDefaultCategory sets the category used when a request names none or an unknown one
func WithDefaultCategory(c models.Category) Option {
	return func(s *cardAnalysisService) {
		if c.Known() {
			s.defaultCategory = c
		}
	}
}

// Options are per-call settings
type Options struct {
	// Seed pins character and story selection for this call
	Seed *uint64
	// Save persists the result when the service has a repository
	Save bool
}
