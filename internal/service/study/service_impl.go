package study

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/bilingo/internal/domain"
	"github.com/phrazzld/bilingo/internal/domain/session"
	"github.com/phrazzld/bilingo/internal/domain/srs"
	"github.com/phrazzld/bilingo/internal/domain/stats"
	"github.com/phrazzld/bilingo/internal/platform/logger"
	"github.com/phrazzld/bilingo/internal/service"
	"github.com/phrazzld/bilingo/internal/store"
)

const serviceName = "study"

// Verify interface compliance at compile time
var _ Service = (*studyServiceImpl)(nil)

// Option customizes a study service.
type Option func(*studyServiceImpl)

// WithClock overrides the clock used for review timestamps and classification.
func WithClock(clock service.Clock) Option {
	return func(s *studyServiceImpl) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithReviewRetries sets how many times a conflicting review is retried.
// Negative values are treated as zero.
func WithReviewRetries(n int) Option {
	return func(s *studyServiceImpl) {
		s.retries = max(n, 0)
	}
}

// studyServiceImpl implements the Service interface.
type studyServiceImpl struct {
	cardStore store.CardStore
	db        *sql.DB
	policy    srs.Policy
	now       service.Clock
	retries   int
	logger    *slog.Logger
}

// NewService creates a new study Service.
// It returns an error if any of the required dependencies are nil.
func NewService(
	cardStore store.CardStore,
	db *sql.DB,
	policy srs.Policy,
	logger *slog.Logger,
	opts ...Option,
) (Service, error) {
	if cardStore == nil {
		return nil, fmt.Errorf("%w: cardStore cannot be nil", domain.ErrValidation)
	}
	if db == nil {
		return nil, fmt.Errorf("%w: db cannot be nil", domain.ErrValidation)
	}
	if policy == nil {
		return nil, fmt.Errorf("%w: policy cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &studyServiceImpl{
		cardStore: cardStore,
		db:        db,
		policy:    policy,
		now:       service.SystemClock,
		retries:   DefaultReviewRetries,
		logger:    logger.With(slog.String("component", "study_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ReviewCard implements Service.ReviewCard.
func (s *studyServiceImpl) ReviewCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	grade int,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()))

	for attempt := 0; ; attempt++ {
		card, err := s.reviewOnce(ctx, userID, cardID, grade)
		if err == nil {
			log.Info("card reviewed",
				slog.Int("grade", grade),
				slog.String("policy", s.policy.Name()),
				slog.Int("interval_days", card.IntervalDays),
				slog.Int("repetitions", card.Repetitions))
			return card, nil
		}

		if !errors.Is(err, store.ErrConflict) {
			return nil, service.EnsureServiceError(serviceName, "review_card", err)
		}

		if attempt >= s.retries {
			log.Warn("review abandoned after repeated conflicts",
				slog.Int("attempts", attempt+1))
			return nil, service.NewServiceError(serviceName, "review_card",
				"card was modified concurrently", store.ErrConflict)
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, service.NewServiceError(serviceName, "review_card", "review cancelled", ctxErr)
		}

		log.Debug("review lost a concurrent update, retrying",
			slog.Int("attempt", attempt+1))
	}
}

// reviewOnce runs a single locked read-modify-write of the card.
func (s *studyServiceImpl) reviewOnce(
	ctx context.Context,
	userID, cardID uuid.UUID,
	grade int,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var reviewed *domain.Card
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.cardStore.WithTx(tx)

		card, err := txStore.GetForUpdate(ctx, cardID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return service.NewServiceError(serviceName, "review_card", "card not found", store.ErrCardNotFound)
			}
			log.Error("failed to load card for review",
				slog.String("error", err.Error()),
				slog.String("card_id", cardID.String()))
			return service.NewServiceError(serviceName, "review_card", "failed to retrieve card", err)
		}

		if card.OwnerID != userID {
			log.Warn("card review denied",
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()))
			return service.NewServiceError(serviceName, "review_card",
				"card belongs to another user", service.ErrCardNotOwned)
		}

		next, err := s.policy.Review(*card, grade, s.now())
		if err != nil {
			return service.NewServiceError(serviceName, "review_card", "invalid review", err)
		}

		// Save bumps next.Version only when the stored version still matches.
		if err := txStore.Save(ctx, &next); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return err
			}
			log.Error("failed to save reviewed card",
				slog.String("error", err.Error()),
				slog.String("card_id", cardID.String()))
			return service.NewServiceError(serviceName, "review_card", "failed to save card", err)
		}

		reviewed = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reviewed, nil
}

// PlanSession implements Service.PlanSession.
func (s *studyServiceImpl) PlanSession(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) (session.Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		return session.Session{}, service.NewServiceError(serviceName, "plan_session",
			"invalid limit", fmt.Errorf("%w: %d", session.ErrInvalidSessionLimit, limit))
	}

	cards, err := s.cardStore.ListByOwner(ctx, userID)
	if err != nil {
		log.Error("failed to load cards for session",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return session.Session{}, service.NewServiceError(serviceName, "plan_session", "failed to load cards", err)
	}

	plan, err := session.Plan(cards, s.now(), limit)
	if err != nil {
		return session.Session{}, service.NewServiceError(serviceName, "plan_session", "failed to plan session", err)
	}

	log.Debug("planned study session",
		slog.String("user_id", userID.String()),
		slog.Int("size", len(plan.Items)),
		slog.Int("new", plan.NewCount),
		slog.Int("review", plan.ReviewCount),
		slog.Int("overdue", plan.OverdueCount))
	return plan, nil
}

// GetStats implements Service.GetStats.
func (s *studyServiceImpl) GetStats(ctx context.Context, userID uuid.UUID) (stats.UserStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := s.cardStore.ListByOwner(ctx, userID)
	if err != nil {
		log.Error("failed to load cards for stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return stats.UserStats{}, service.NewServiceError(serviceName, "get_stats", "failed to load cards", err)
	}

	return stats.Aggregate(cards, s.now()), nil
}
