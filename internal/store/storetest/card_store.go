// Package storetest holds a behavioural test suite that every
// store.CardStore implementation must pass.
package storetest

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/bilingo/internal/domain"
	"github.com/phrazzld/bilingo/internal/store"
	"github.com/phrazzld/bilingo/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty store and the database behind it.
type Factory func(t *testing.T) (store.CardStore, *sql.DB)

// RunCardStoreTests runs the CardStore contract against stores built by newStore.
func RunCardStoreTests(t *testing.T, newStore Factory) {
	t.Run("create and get", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()
		card := testutils.NewCard(t)

		require.NoError(t, s.Create(ctx, card))

		got, err := s.GetByID(ctx, card.ID)
		require.NoError(t, err)
		assertSameCard(t, card, got)
	})

	t.Run("create duplicate", func(t *testing.T) {
		s, _ := newStore(t)
		card := testutils.NewCard(t)
		testutils.CreateCards(t, s, card)

		err := s.Create(context.Background(), card)
		assert.ErrorIs(t, err, store.ErrCardExists)
		assert.True(t, store.IsDuplicateError(err))
	})

	t.Run("create invalid", func(t *testing.T) {
		s, _ := newStore(t)
		card := testutils.NewCard(t)
		card.Front = ""

		err := s.Create(context.Background(), card)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.ErrorIs(t, err, domain.ErrCardFrontEmpty)
	})

	t.Run("get missing", func(t *testing.T) {
		s, _ := newStore(t)
		_, err := s.GetByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrCardNotFound)
	})

	t.Run("save round trips scheduling state", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()
		card := testutils.NewCard(t)
		testutils.CreateCards(t, s, card)

		reviewed := testutils.FixedTime.Add(2 * time.Hour)
		testutils.WithReviewState(1, 1, 2.6, reviewed)(card)
		card.UpdatedAt = reviewed
		startVersion := card.Version

		require.NoError(t, s.Save(ctx, card))
		assert.Equal(t, startVersion+1, card.Version)

		got, err := s.GetByID(ctx, card.ID)
		require.NoError(t, err)
		assertSameCard(t, card, got)
	})

	t.Run("save with stale version conflicts", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()
		card := testutils.NewCard(t)
		testutils.CreateCards(t, s, card)

		first := *card
		second := *card
		testutils.WithReviewState(1, 1, 2.6, testutils.FixedTime.Add(time.Hour))(&first)
		testutils.WithReviewState(0, 1, 2.5, testutils.FixedTime.Add(time.Hour))(&second)

		require.NoError(t, s.Save(ctx, &first))
		err := s.Save(ctx, &second)
		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrConflict)
		var storeErr *store.StoreError
		assert.True(t, errors.As(err, &storeErr))

		got, err := s.GetByID(ctx, card.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Repetitions, "the losing write must not be applied")
		assert.Equal(t, first.Version, got.Version)
	})

	t.Run("save missing card", func(t *testing.T) {
		s, _ := newStore(t)
		card := testutils.NewCard(t)
		assert.ErrorIs(t, s.Save(context.Background(), card), store.ErrCardNotFound)
	})

	t.Run("update content keeps scheduling state", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()
		card := testutils.NewCard(t, testutils.WithReviewState(2, 6, 2.4, testutils.FixedTime))
		testutils.CreateCards(t, s, card)

		edited := testutils.FixedTime.Add(time.Hour)
		require.NoError(t, s.UpdateContent(ctx, card.ID, "el perro", "the dog", edited))

		got, err := s.GetByID(ctx, card.ID)
		require.NoError(t, err)
		assert.Equal(t, "el perro", got.Front)
		assert.Equal(t, "the dog", got.Back)
		assert.True(t, got.UpdatedAt.Equal(edited))
		assert.Equal(t, card.Repetitions, got.Repetitions)
		assert.Equal(t, card.IntervalDays, got.IntervalDays)
		assert.InDelta(t, card.EaseFactor, got.EaseFactor, 1e-9)
		assert.Equal(t, card.Version+1, got.Version)

		assert.ErrorIs(t, s.UpdateContent(ctx, uuid.New(), "a", "b", edited), store.ErrCardNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()
		card := testutils.NewCard(t)
		other := testutils.NewCard(t, testutils.WithOwnerID(card.OwnerID))
		testutils.CreateCards(t, s, card, other)

		require.NoError(t, s.Delete(ctx, card.ID))

		_, err := s.GetByID(ctx, card.ID)
		assert.ErrorIs(t, err, store.ErrCardNotFound)
		_, err = s.GetByID(ctx, other.ID)
		assert.NoError(t, err, "deleting one card must not touch others")

		assert.ErrorIs(t, s.Delete(ctx, card.ID), store.ErrCardNotFound)
	})

	t.Run("list by owner", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()
		owner := uuid.New()
		older := testutils.NewCard(t, testutils.WithOwnerID(owner), testutils.WithCreatedAt(testutils.FixedTime))
		newer := testutils.NewCard(t, testutils.WithOwnerID(owner),
			testutils.WithCreatedAt(testutils.FixedTime.Add(time.Minute)))
		foreign := testutils.NewCard(t)
		testutils.CreateCards(t, s, newer, foreign, older)

		cards, err := s.ListByOwner(ctx, owner)
		require.NoError(t, err)
		require.Len(t, cards, 2)
		assert.Equal(t, older.ID, cards[0].ID)
		assert.Equal(t, newer.ID, cards[1].ID)

		empty, err := s.ListByOwner(ctx, uuid.New())
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)
	})

	t.Run("transactional read-modify-write", func(t *testing.T) {
		s, db := newStore(t)
		ctx := context.Background()
		card := testutils.NewCard(t)
		testutils.CreateCards(t, s, card)

		rollback := errors.New("rollback")
		err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
			txStore := s.WithTx(tx)
			locked, err := txStore.GetForUpdate(ctx, card.ID)
			if err != nil {
				return err
			}
			testutils.WithReviewState(1, 1, 2.6, testutils.FixedTime)(locked)
			if err := txStore.Save(ctx, locked); err != nil {
				return err
			}
			return rollback
		})
		require.ErrorIs(t, err, rollback)

		got, err := s.GetByID(ctx, card.ID)
		require.NoError(t, err)
		assert.True(t, got.IsNew(), "rolled back review must not persist")

		err = store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
			txStore := s.WithTx(tx)
			locked, err := txStore.GetForUpdate(ctx, card.ID)
			if err != nil {
				return err
			}
			testutils.WithReviewState(1, 1, 2.6, testutils.FixedTime)(locked)
			return txStore.Save(ctx, locked)
		})
		require.NoError(t, err)

		got, err = s.GetByID(ctx, card.ID)
		require.NoError(t, err)
		assert.False(t, got.IsNew())
	})

	t.Run("honours cancelled context", func(t *testing.T) {
		s, _ := newStore(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := s.ListByOwner(ctx, uuid.New())
		assert.Error(t, err)
	})
}

func assertSameCard(t *testing.T, want, got *domain.Card) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.OwnerID, got.OwnerID)
	assert.Equal(t, want.Front, got.Front)
	assert.Equal(t, want.Back, got.Back)
	assert.InDelta(t, want.EaseFactor, got.EaseFactor, 1e-9)
	assert.Equal(t, want.Repetitions, got.Repetitions)
	assert.Equal(t, want.IntervalDays, got.IntervalDays)
	assert.Equal(t, want.ReviewCount, got.ReviewCount)
	assert.Equal(t, want.Version, got.Version)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", want.CreatedAt, got.CreatedAt)
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt), "updated_at %v != %v", want.UpdatedAt, got.UpdatedAt)
	assertSameTime(t, want.LastReviewedAt, got.LastReviewedAt)
	assertSameTime(t, want.NextReviewAt, got.NextReviewAt)
}

func assertSameTime(t *testing.T, want, got *time.Time) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got)
		return
	}
	require.NotNil(t, got)
	assert.True(t, want.Equal(*got), "%v != %v", *want, *got)
}
