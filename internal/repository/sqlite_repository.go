package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/anime-shed/card-inspector-go/pkg/models"
)

// createdAtLayout is fixed width so TEXT ordering matches time ordering
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond

	// DefaultListLimit applies when List is called with a non-positive limit
	DefaultListLimit = 50
	maxListLimit     = 1000
)

const schema = `
CREATE TABLE IF NOT EXISTS cards (
    id            TEXT PRIMARY KEY,
    created_at    TEXT NOT NULL,
    label         TEXT NOT NULL,
    category      TEXT NOT NULL,
    state         TEXT NOT NULL,
    rarity        TEXT NOT NULL,
    series        TEXT NOT NULL,
    character     TEXT NOT NULL,
    quality_score INTEGER,
    confidence    REAL NOT NULL,
    payload_json  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cards_created_at ON cards(created_at);
`

// SQLiteCardRepository stores cards in a single SQLite file
type SQLiteCardRepository struct {
	db   *sql.DB
	path string
}

// NewSQLiteCardRepository opens (creating if needed) the database at path.
// ":memory:" gives a private in-memory store.
func NewSQLiteCardRepository(path string) (*SQLiteCardRepository, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty database path", ErrRepositoryUnavailable)
	}
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		// Each connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLiteCardRepository{db: db, path: path}, nil
}

// Close closes the underlying database connection
func (r *SQLiteCardRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Path returns the database location
func (r *SQLiteCardRepository) Path() string {
	return r.path
}

// Save implements CardRepository
func (r *SQLiteCardRepository) Save(ctx context.Context, card *StoredCard) error {
	if card == nil {
		return ErrInvalidCard
	}
	if card.ID == "" {
		card.ID = uuid.NewString()
	} else if _, err := uuid.Parse(card.ID); err != nil {
		return fmt.Errorf("%w: id %q is not a UUID", ErrInvalidCard, card.ID)
	}
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(card.Result)
	if err != nil {
		return fmt.Errorf("marshal card: %w", err)
	}

	var qualityScore any
	if card.Result.ImageQuality != nil {
		qualityScore = card.Result.ImageQuality.Quality.QualityScore
	}

	info := card.Result.CardInfo
	return retryOnBusy(ctx, func() error {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO cards (
                id, created_at, label, category, state, rarity, series, character,
                quality_score, confidence, payload_json
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			card.ID,
			card.CreatedAt.UTC().Format(createdAtLayout),
			card.Label,
			string(card.Category),
			card.State.String(),
			info.Rarity.String(),
			info.Series,
			info.Character,
			qualityScore,
			card.Result.Confidence,
			string(payload),
		)
		if err != nil {
			return fmt.Errorf("insert card: %w", err)
		}
		return nil
	})
}

// Get implements CardRepository
func (r *SQLiteCardRepository) Get(ctx context.Context, id string) (*StoredCard, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, created_at, label, category, state, payload_json FROM cards WHERE id = ?`, id)
	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCardNotFound
	}
	if err != nil {
		return nil, err
	}
	return card, nil
}

// List implements CardRepository
func (r *SQLiteCardRepository) List(ctx context.Context, limit int) ([]*StoredCard, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, maxListLimit)

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at, label, category, state, payload_json
         FROM cards ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var cards []*StoredCard
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return cards, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(s scanner) (*StoredCard, error) {
	var (
		card      StoredCard
		createdAt string
		category  string
		state     string
		payload   string
	)
	if err := s.Scan(&card.ID, &createdAt, &card.Label, &category, &state, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan card: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	card.CreatedAt = ts
	card.Category = models.Category(category)
	if card.State, err = models.ParseAnalysisState(state); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(payload), &card.Result); err != nil {
		return nil, fmt.Errorf("decode card payload: %w", err)
	}
	return &card, nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
