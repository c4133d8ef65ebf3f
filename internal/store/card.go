package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/bilingo/internal/domain"
)

// CardStore defines the interface for card data persistence.
//
// Every method honours cancellation and deadlines carried by ctx.
type CardStore interface {
	// Create inserts a new card. The card must pass domain validation.
	// Returns ErrCardExists if a card with the same ID is already stored.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// GetForUpdate retrieves a card and, on backends that support it, locks
	// the row until the surrounding transaction ends. It must be called on a
	// store obtained from WithTx; outside a transaction it behaves like GetByID.
	// Returns ErrCardNotFound if the card does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// Save writes the card's scheduling state back using compare-and-swap on
	// Version: the update only applies when the stored version still equals
	// card.Version. On success card.Version is incremented in place.
	// Returns ErrConflict if the stored version moved, ErrCardNotFound if the
	// card is gone.
	Save(ctx context.Context, card *domain.Card) error

	// UpdateContent replaces a card's front and back text without touching
	// its scheduling state, and bumps its version.
	// Returns ErrCardNotFound if the card does not exist.
	UpdateContent(ctx context.Context, id uuid.UUID, front, back string, updatedAt time.Time) error

	// Delete removes a card from the store by its ID. Nothing else refers to
	// a card, so no other records are touched.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByOwner returns all cards owned by ownerID ordered by creation time.
	// Returns an empty slice, never nil, when the owner has no cards.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Card, error)

	// WithTx returns a CardStore that runs every statement on tx.
	//
	// Example usage:
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       card, err := cardStore.WithTx(tx).GetForUpdate(ctx, id)
	//       ...
	//   })
	WithTx(tx *sql.Tx) CardStore
}
