package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/bilingo/internal/domain"
	"github.com/phrazzld/bilingo/internal/platform/logger"
	"github.com/phrazzld/bilingo/internal/store"
)

const cardColumns = `id, owner_id, front, back, ease_factor, repetitions, interval_days,
	last_reviewed_at, next_review_at, review_count, version, created_at, updated_at`

// CardStore implements store.CardStore on SQLite.
type CardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCardStore creates a SQLite CardStore on a connection or transaction.
// If logger is nil, a default logger will be used.
func NewCardStore(db store.DBTX, logger *slog.Logger) *CardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

var _ store.CardStore = (*CardStore)(nil)

// Create implements store.CardStore.Create
func (s *CardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `INSERT INTO cards (` + cardColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		card.ID.String(),
		card.OwnerID.String(),
		card.Front,
		card.Back,
		card.EaseFactor,
		card.Repetitions,
		card.IntervalDays,
		nullTime(card.LastReviewedAt),
		nullTime(card.NextReviewAt),
		card.ReviewCount,
		card.Version,
		card.CreatedAt.UTC(),
		card.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("duplicate card id on create", slog.String("card_id", card.ID.String()))
			return store.ErrCardExists
		}
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	log.Info("card created successfully",
		slog.String("card_id", card.ID.String()),
		slog.String("owner_id", card.OwnerID.String()))
	return nil
}

// GetByID implements store.CardStore.GetByID
func (s *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("retrieving card", slog.String("card_id", id.String()))

	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = ?`
	card, err := scanCard(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found", slog.String("card_id", id.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, err
	}
	return card, nil
}

// GetForUpdate implements store.CardStore.GetForUpdate
// SQLite has no row locks; the single connection serializes transactions.
func (s *CardStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return s.GetByID(ctx, id)
}

// Save implements store.CardStore.Save
func (s *CardStore) Save(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during save",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE cards
		SET ease_factor = ?,
			repetitions = ?,
			interval_days = ?,
			last_reviewed_at = ?,
			next_review_at = ?,
			review_count = ?,
			updated_at = ?,
			version = version + 1
		WHERE id = ? AND version = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		card.EaseFactor,
		card.Repetitions,
		card.IntervalDays,
		nullTime(card.LastReviewedAt),
		nullTime(card.NextReviewAt),
		card.ReviewCount,
		card.UpdatedAt.UTC(),
		card.ID.String(),
		card.Version,
	)
	if err != nil {
		log.Error("failed to save card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		var current int
		err := s.db.QueryRowContext(ctx, `SELECT version FROM cards WHERE id = ?`, card.ID.String()).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrCardNotFound
		}
		if err != nil {
			return err
		}
		log.Warn("card version conflict",
			slog.String("card_id", card.ID.String()),
			slog.Int("expected_version", card.Version),
			slog.Int("stored_version", current))
		return store.NewStoreError("card", "save",
			fmt.Sprintf("expected version %d, found %d", card.Version, current), store.ErrConflict)
	}

	card.Version++
	log.Debug("card saved",
		slog.String("card_id", card.ID.String()),
		slog.Int("version", card.Version))
	return nil
}

// UpdateContent implements store.CardStore.UpdateContent
func (s *CardStore) UpdateContent(ctx context.Context, id uuid.UUID, front, back string, updatedAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE cards SET front = ?, back = ?, updated_at = ?, version = version + 1 WHERE id = ?`,
		front, back, updatedAt.UTC(), id.String())
	if err != nil {
		log.Error("failed to update card content",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return err
	}
	if err := requireRow(result); err != nil {
		return err
	}

	log.Info("card content updated", slog.String("card_id", id.String()))
	return nil
}

// Delete implements store.CardStore.Delete
func (s *CardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id.String())
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return err
	}
	if err := requireRow(result); err != nil {
		return err
	}

	log.Info("card deleted", slog.String("card_id", id.String()))
	return nil
}

// ListByOwner implements store.CardStore.ListByOwner
func (s *CardStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + cardColumns + ` FROM cards WHERE owner_id = ? ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, query, ownerID.String())
	if err != nil {
		log.Error("failed to list cards",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
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
			return nil, err
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cards, nil
}

// WithTx implements store.CardStore.WithTx
func (s *CardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &CardStore{db: tx, logger: s.logger}
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

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrCardNotFound
	}
	return nil
}

// isUniqueViolation matches SQLite's constraint message; the driver's error
// codes are not exported through database/sql.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY must be unique")
}
