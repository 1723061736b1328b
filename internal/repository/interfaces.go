package repository

import (
	"context"
	"time"

	"github.com/anime-shed/card-inspector-go/pkg/models"
)

// CardRepository defines the interface for persisting analysed cards
type CardRepository interface {
	// Save stores a card. An empty ID is filled with a new UUID and a zero CreatedAt with the current time.
	Save(ctx context.Context, card *StoredCard) error

	// Get retrieves a stored card by ID
	Get(ctx context.Context, id string) (*StoredCard, error)

	// List returns the most recent cards, newest first
	List(ctx context.Context, limit int) ([]*StoredCard, error)

	// Close releases the underlying storage
	Close() error
}

// StoredCard is one persisted analysis
type StoredCard struct {
	ID        string                    `json:"id"`
	CreatedAt time.Time                 `json:"createdAt"`
	Label     string                    `json:"label"`
	Category  models.Category           `json:"category"`
	State     models.AnalysisState      `json:"state"`
	Result    models.CardAnalysisResult `json:"result"`
}
