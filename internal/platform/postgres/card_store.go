package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/bilingo/internal/domain"
	"github.com/phrazzld/bilingo/internal/platform/logger"
	"github.com/phrazzld/bilingo/internal/store"
)

const cardColumns = `id, owner_id, front, back, ease_factor, repetitions, interval_days,
	last_reviewed_at, next_review_at, review_count, version, created_at, updated_at`

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// Create implements store.CardStore.Create
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.ExecContext(ctx, query,
		card.ID,
		card.OwnerID,
		card.Front,
		card.Back,
		card.EaseFactor,
		card.Repetitions,
		card.IntervalDays,
		card.LastReviewedAt,
		card.NextReviewAt,
		card.ReviewCount,
		card.Version,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate card id on create", slog.String("card_id", card.ID.String()))
			return store.ErrCardExists
		}
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	log.Info("card created successfully",
		slog.String("card_id", card.ID.String()),
		slog.String("owner_id", card.OwnerID.String()))
	return nil
}

// GetByID implements store.CardStore.GetByID
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`
	return s.getOne(ctx, query, id)
}

// GetForUpdate implements store.CardStore.GetForUpdate
// The row stays locked until the caller's transaction commits or rolls back.
func (s *PostgresCardStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1 FOR UPDATE`
	return s.getOne(ctx, query, id)
}

func (s *PostgresCardStore) getOne(ctx context.Context, query string, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("retrieving card", slog.String("card_id", id.String()))

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found", slog.String("card_id", id.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, MapError(err)
	}

	return card, nil
}

// Save implements store.CardStore.Save
func (s *PostgresCardStore) Save(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during save",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE cards
		SET ease_factor = $1,
			repetitions = $2,
			interval_days = $3,
			last_reviewed_at = $4,
			next_review_at = $5,
			review_count = $6,
			updated_at = $7,
			version = version + 1
		WHERE id = $8 AND version = $9
	`
	result, err := s.db.ExecContext(ctx, query,
		card.EaseFactor,
		card.Repetitions,
		card.IntervalDays,
		card.LastReviewedAt,
		card.NextReviewAt,
		card.ReviewCount,
		card.UpdatedAt,
		card.ID,
		card.Version,
	)
	if err != nil {
		log.Error("failed to save card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "card"); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return s.missOrConflict(ctx, card)
	}

	card.Version++
	log.Debug("card saved",
		slog.String("card_id", card.ID.String()),
		slog.Int("version", card.Version))
	return nil
}

// missOrConflict explains why a versioned update touched no rows.
func (s *PostgresCardStore) missOrConflict(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var current int
	err := s.db.QueryRowContext(ctx, `SELECT version FROM cards WHERE id = $1`, card.ID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrCardNotFound
	}
	if err != nil {
		return MapError(err)
	}

	log.Warn("card version conflict",
		slog.String("card_id", card.ID.String()),
		slog.Int("expected_version", card.Version),
		slog.Int("stored_version", current))
	return store.NewStoreError("card", "save",
		fmt.Sprintf("expected version %d, found %d", card.Version, current), store.ErrConflict)
}

// UpdateContent implements store.CardStore.UpdateContent
func (s *PostgresCardStore) UpdateContent(
	ctx context.Context,
	id uuid.UUID,
	front, back string,
	updatedAt time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE cards
		SET front = $1, back = $2, updated_at = $3, version = version + 1
		WHERE id = $4
	`
	result, err := s.db.ExecContext(ctx, query, front, back, updatedAt, id)
	if err != nil {
		log.Error("failed to update card content",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "card"); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrCardNotFound
		}
		return err
	}

	log.Info("card content updated", slog.String("card_id", id.String()))
	return nil
}

// Delete implements store.CardStore.Delete
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "card"); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrCardNotFound
		}
		return err
	}

	log.Info("card deleted", slog.String("card_id", id.String()))
	return nil
}

// ListByOwner implements store.CardStore.ListByOwner
func (s *PostgresCardStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + cardColumns + ` FROM cards WHERE owner_id = $1 ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to list cards",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	cards := []domain.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Debug("listed cards",
		slog.String("owner_id", ownerID.String()),
		slog.Int("count", len(cards)))
	return cards, nil
}

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var card domain.Card
	var lastReviewed, nextReview sql.NullTime

	err := row.Scan(
		&card.ID,
		&card.OwnerID,
		&card.Front,
		&card.Back,
		&card.EaseFactor,
		&card.Repetitions,
		&card.IntervalDays,
		&lastReviewed,
		&nextReview,
		&card.ReviewCount,
		&card.Version,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	card.CreatedAt = card.CreatedAt.UTC()
	card.UpdatedAt = card.UpdatedAt.UTC()
	if lastReviewed.Valid {
		t := lastReviewed.Time.UTC()
		card.LastReviewedAt = &t
	}
	if nextReview.Valid {
		t := nextReview.Time.UTC()
		card.NextReviewAt = &t
	}

	return &card, nil
}
