package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/bilingo/internal/domain"
	"github.com/phrazzld/bilingo/internal/platform/logger"
	"github.com/phrazzld/bilingo/internal/store"
)

const cardServiceName = "card"

// CardService provides card management operations. Every operation is scoped
// to the requesting user: cards owned by someone else are reported with
// ErrCardNotOwned.
type CardService interface {
	// CreateCard creates a new, never-reviewed card owned by userID.
	// Returns an error wrapping domain.ErrValidation for blank or oversized text.
	CreateCard(ctx context.Context, userID uuid.UUID, front, back string) (*domain.Card, error)

	// GetCard retrieves a single card.
	// Returns store.ErrCardNotFound or ErrCardNotOwned.
	GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)

	// ListCards returns every card owned by userID, oldest first.
	ListCards(ctx context.Context, userID uuid.UUID) ([]domain.Card, error)

	// UpdateCardContent replaces the front and back text of a card. The
	// card's scheduling state is left untouched.
	// Returns store.ErrCardNotFound, ErrCardNotOwned or a validation error.
	UpdateCardContent(ctx context.Context, userID, cardID uuid.UUID, front, back string) (*domain.Card, error)

	// DeleteCard removes a card.
	// Returns store.ErrCardNotFound or ErrCardNotOwned.
	DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error
}

// CardServiceOption customizes a card service.
type CardServiceOption func(*cardServiceImpl)

// WithCardClock overrides the clock used to stamp created and updated times.
func WithCardClock(clock Clock) CardServiceOption {
	return func(s *cardServiceImpl) {
		if clock != nil {
			s.now = clock
		}
	}
}

// cardServiceImpl implements the CardService interface
type cardServiceImpl struct {
	cardStore store.CardStore
	db        *sql.DB
	now       Clock
	logger    *slog.Logger
}

var _ CardService = (*cardServiceImpl)(nil)

// NewCardService creates a new CardService.
// It returns an error if any of the required dependencies are nil.
func NewCardService(
	cardStore store.CardStore,
	db *sql.DB,
	logger *slog.Logger,
	opts ...CardServiceOption,
) (CardService, error) {
	if cardStore == nil {
		return nil, fmt.Errorf("%w: cardStore cannot be nil", domain.ErrValidation)
	}
	if db == nil {
		return nil, fmt.Errorf("%w: db cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &cardServiceImpl{
		cardStore: cardStore,
		db:        db,
		now:       SystemClock,
		logger:    logger.With(slog.String("component", "card_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateCard implements CardService.CreateCard
func (s *cardServiceImpl) CreateCard(
	ctx context.Context,
	userID uuid.UUID,
	front, back string,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := domain.NewCard(userID, front, back, s.now())
	if err != nil {
		log.Debug("rejected invalid card",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError(cardServiceName, "create_card", "invalid card", err)
	}

	if err := s.cardStore.Create(ctx, card); err != nil {
		log.Error("failed to save card",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", card.ID.String()))
		return nil, NewServiceError(cardServiceName, "create_card", "failed to save card", err)
	}

	log.Info("card created",
		slog.String("user_id", userID.String()),
		slog.String("card_id", card.ID.String()))
	return card, nil
}

// GetCard implements CardService.GetCard
func (s *cardServiceImpl) GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("card not found", slog.String("card_id", cardID.String()))
			return nil, NewServiceError(cardServiceName, "get_card", "card not found", store.ErrCardNotFound)
		}

		log.Error("failed to retrieve card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, NewServiceError(cardServiceName, "get_card", "failed to retrieve card", err)
	}

	if card.OwnerID != userID {
		log.Warn("card access denied",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, NewServiceError(cardServiceName, "get_card", "card belongs to another user", ErrCardNotOwned)
	}

	return card, nil
}

// ListCards implements CardService.ListCards
func (s *cardServiceImpl) ListCards(ctx context.Context, userID uuid.UUID) ([]domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := s.cardStore.ListByOwner(ctx, userID)
	if err != nil {
		log.Error("failed to list cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError(cardServiceName, "list_cards", "failed to list cards", err)
	}

	log.Debug("listed cards",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(cards)))
	return cards, nil
}

// UpdateCardContent implements CardService.UpdateCardContent
func (s *cardServiceImpl) UpdateCardContent(
	ctx context.Context,
	userID, cardID uuid.UUID,
	front, back string,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Card
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.cardStore.WithTx(tx)

		card, err := s.lockOwnedCard(ctx, txStore, userID, cardID, "update_card")
		if err != nil {
			return err
		}

		if err := card.UpdateContent(front, back, s.now()); err != nil {
			return NewServiceError(cardServiceName, "update_card", "invalid card content", err)
		}

		if err := txStore.UpdateContent(ctx, card.ID, card.Front, card.Back, card.UpdatedAt); err != nil {
			log.Error("failed to update card content",
				slog.String("error", err.Error()),
				slog.String("card_id", cardID.String()))
			return NewServiceError(cardServiceName, "update_card", "failed to save card", err)
		}
		card.Version++

		updated = card
		return nil
	})
	if err != nil {
		return nil, EnsureServiceError(cardServiceName, "update_card", err)
	}

	log.Info("card content updated",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()))
	return updated, nil
}

// DeleteCard implements CardService.DeleteCard
func (s *cardServiceImpl) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.cardStore.WithTx(tx)

		if _, err := s.lockOwnedCard(ctx, txStore, userID, cardID, "delete_card"); err != nil {
			return err
		}

		if err := txStore.Delete(ctx, cardID); err != nil {
			log.Error("failed to delete card",
				slog.String("error", err.Error()),
				slog.String("card_id", cardID.String()))
			return NewServiceError(cardServiceName, "delete_card", "failed to delete card", err)
		}
		return nil
	})
	if err != nil {
		return EnsureServiceError(cardServiceName, "delete_card", err)
	}

	log.Info("card deleted",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()))
	return nil
}

// lockOwnedCard loads a card for update and verifies its owner.
func (s *cardServiceImpl) lockOwnedCard(
	ctx context.Context,
	txStore store.CardStore,
	userID, cardID uuid.UUID,
	operation string,
) (*domain.Card, error) {
	card, err := txStore.GetForUpdate(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewServiceError(cardServiceName, operation, "card not found", store.ErrCardNotFound)
		}
		return nil, NewServiceError(cardServiceName, operation, "failed to retrieve card", err)
	}

	if card.OwnerID != userID {
		logger.FromContextOrDefault(ctx, s.logger).Warn("card access denied",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.String("operation", operation))
		return nil, NewServiceError(cardServiceName, operation, "card belongs to another user", ErrCardNotOwned)
	}

	return card, nil
}
