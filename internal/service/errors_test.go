package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/bilingo/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestServiceError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ServiceError
		expected string
	}{
		{
			name:     "with underlying error",
			err:      NewServiceError("card", "create_card", "failed to save card", errors.New("disk full")),
			expected: "card service create_card failed: failed to save card: disk full",
		},
		{
			name:     "without underlying error",
			err:      NewServiceError("study", "plan_session", "no cards", nil),
			expected: "study service plan_session failed: no cards",
		},
		{
			name:     "with sentinel error",
			err:      NewServiceError("card", "get_card", "card belongs to another user", ErrCardNotOwned),
			expected: "card service get_card failed: card belongs to another user: unauthorized access: card not owned by user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestServiceError_Unwrap(t *testing.T) {
	t.Parallel()

	err := NewServiceError("card", "get_card", "card not found", store.ErrCardNotFound)
	wrapped := fmt.Errorf("handler: %w", err)

	assert.ErrorIs(t, wrapped, store.ErrCardNotFound)
	assert.ErrorIs(t, wrapped, store.ErrNotFound)
	assert.NotErrorIs(t, wrapped, ErrCardNotOwned)

	var svcErr *ServiceError
	assert.ErrorAs(t, wrapped, &svcErr)
	assert.Equal(t, "get_card", svcErr.Operation)
	assert.Nil(t, NewServiceError("card", "x", "y", nil).Unwrap())
}

func TestEnsureServiceError(t *testing.T) {
	t.Parallel()

	t.Run("keeps existing service error", func(t *testing.T) {
		original := NewServiceError("card", "delete_card", "card not found", store.ErrCardNotFound)
		got := EnsureServiceError("card", "delete_card", original)
		assert.Same(t, original, got)
	})

	t.Run("wraps plain errors", func(t *testing.T) {
		got := EnsureServiceError("card", "delete_card", store.ErrTransactionFailed)

		var svcErr *ServiceError
		assert.ErrorAs(t, got, &svcErr)
		assert.Equal(t, "transaction failed", svcErr.Message)
		assert.ErrorIs(t, got, store.ErrTransactionFailed)
	})
}
