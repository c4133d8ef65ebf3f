package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/bilingo/internal/api/shared"
	"github.com/phrazzld/bilingo/internal/domain"
	"github.com/phrazzld/bilingo/internal/domain/srs"
	"github.com/phrazzld/bilingo/internal/mocks"
	"github.com/phrazzld/bilingo/internal/service"
	"github.com/phrazzld/bilingo/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name           string
		userID         uuid.UUID
		body           any
		serviceErr     error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "success",
			userID:         userID,
			body:           CardRequest{Front: "el gato", Back: "the cat"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing user",
			body:           CardRequest{Front: "el gato", Back: "the cat"},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "User ID not found or invalid",
		},
		{
			name:           "malformed body",
			userID:         userID,
			body:           `{"front":`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request format",
		},
		{
			name:           "missing back",
			userID:         userID,
			body:           CardRequest{Front: "el gato"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid Back: required field",
		},
		{
			name:           "blank text",
			userID:         userID,
			body:           CardRequest{Front: "   ", Back: "the cat"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid Front: required field",
		},
		{
			name:           "rejected by domain",
			userID:         userID,
			body:           CardRequest{Front: "el gato", Back: "the cat"},
			serviceErr:     service.NewServiceError("card", "create_card", "invalid card", domain.ErrCardFrontEmpty),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Front text is required",
		},
		{
			name:           "store failure",
			userID:         userID,
			body:           CardRequest{Front: "el gato", Back: "the cat"},
			serviceErr:     errors.New("connection reset"),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Failed to create card",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			cards := &mocks.MockCardService{
				CreateCardFn: func(ctx context.Context, uid uuid.UUID, front, back string) (*domain.Card, error) {
					called = true
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					card := sampleCard(uid)
					card.Front, card.Back = front, back
					return card, nil
				},
			}
			router := newTestRouter(cards, &mocks.MockStudyService{})

			rr := serve(t, router, http.MethodPost, "/cards", tt.body, tt.userID)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedError != "" {
				body := decodeBody[shared.ErrorResponse](t, rr)
				assert.Equal(t, tt.expectedError, body.Error)
				return
			}

			assert.True(t, called)
			resp := decodeBody[CardResponse](t, rr)
			assert.Equal(t, "el gato", resp.Front)
			assert.Equal(t, "the cat", resp.Back)
			assert.Equal(t, domain.DefaultEaseFactor, resp.EaseFactor)
		})
	}
}

func TestListCards(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	first, second := sampleCard(userID), sampleCard(userID)
	cards := &mocks.MockCardService{Cards: []domain.Card{*first, *second}}
	router := newTestRouter(cards, &mocks.MockStudyService{})

	rr := serve(t, router, http.MethodGet, "/cards", nil, userID)

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeBody[CardListResponse](t, rr)
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Cards, 2)
	assert.Equal(t, first.ID.String(), resp.Cards[0].ID)

	empty := newTestRouter(&mocks.MockCardService{Cards: []domain.Card{}}, &mocks.MockStudyService{})
	rr = serve(t, empty, http.MethodGet, "/cards", nil, userID)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"cards":[],"count":0}`, rr.Body.String())
}

func TestGetCard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	card := sampleCard(userID)

	tests := []struct {
		name           string
		path           string
		serviceErr     error
		expectedStatus int
		expectedError  string
	}{
		{name: "success", path: "/cards/" + card.ID.String(), expectedStatus: http.StatusOK},
		{
			name:           "invalid id",
			path:           "/cards/not-a-uuid",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid ID format",
		},
		{
			name:           "not found",
			path:           "/cards/" + card.ID.String(),
			serviceErr:     service.NewServiceError("card", "get_card", "card not found", store.ErrCardNotFound),
			expectedStatus: http.StatusNotFound,
			expectedError:  "Card not found",
		},
		{
			name:           "not owner",
			path:           "/cards/" + card.ID.String(),
			serviceErr:     service.NewServiceError("card", "get_card", "denied", service.ErrCardNotOwned),
			expectedStatus: http.StatusForbidden,
			expectedError:  "You do not own this card",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := &mocks.MockCardService{
				GetCardFn: func(ctx context.Context, uid, cardID uuid.UUID) (*domain.Card, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					assert.Equal(t, userID, uid)
					assert.Equal(t, card.ID, cardID)
					return card, nil
				},
			}
			router := newTestRouter(cards, &mocks.MockStudyService{})

			rr := serve(t, router, http.MethodGet, tt.path, nil, userID)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedError != "" {
				body := decodeBody[shared.ErrorResponse](t, rr)
				assert.Equal(t, tt.expectedError, body.Error)
				return
			}
			resp := decodeBody[CardResponse](t, rr)
			assert.Equal(t, card.ID.String(), resp.ID)
		})
	}
}

func TestUpdateCard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	card := sampleCard(userID)
	path := "/cards/" + card.ID.String()

	t.Run("success", func(t *testing.T) {
		cards := &mocks.MockCardService{
			UpdateCardContentFn: func(ctx context.Context, uid, cardID uuid.UUID, front, back string) (*domain.Card, error) {
				updated := *card
				updated.Front, updated.Back = front, back
				updated.Version++
				return &updated, nil
			},
		}
		router := newTestRouter(cards, &mocks.MockStudyService{})

		rr := serve(t, router, http.MethodPut, path, CardRequest{Front: "el perro", Back: "the dog"}, userID)

		require.Equal(t, http.StatusOK, rr.Code)
		resp := decodeBody[CardResponse](t, rr)
		assert.Equal(t, "el perro", resp.Front)
		assert.Equal(t, "the dog", resp.Back)
	})

	t.Run("front too long", func(t *testing.T) {
		router := newTestRouter(&mocks.MockCardService{}, &mocks.MockStudyService{})

		long := CardRequest{Front: strings.Repeat("á", domain.MaxTextLength+1), Back: "x"}
		rr := serve(t, router, http.MethodPut, path, long, userID)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		body := decodeBody[shared.ErrorResponse](t, rr)
		assert.Equal(t, "Invalid Front: must be at most 500 characters", body.Error)
	})

	t.Run("surrounding whitespace does not count toward the limit", func(t *testing.T) {
		var gotFront, gotBack string
		cards := &mocks.MockCardService{
			UpdateCardContentFn: func(ctx context.Context, uid, cardID uuid.UUID, front, back string) (*domain.Card, error) {
				gotFront, gotBack = front, back
				updated := *card
				updated.Front, updated.Back = front, back
				return &updated, nil
			},
		}
		router := newTestRouter(cards, &mocks.MockStudyService{})

		full := strings.Repeat("á", domain.MaxTextLength)
		padded := CardRequest{Front: "  " + full + "\n", Back: "\t the dog "}
		rr := serve(t, router, http.MethodPut, path, padded, userID)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, full, gotFront)
		assert.Equal(t, "the dog", gotBack)
	})

	t.Run("unknown field", func(t *testing.T) {
		router := newTestRouter(&mocks.MockCardService{}, &mocks.MockStudyService{})

		rr := serve(t, router, http.MethodPut, path, `{"front":"a","back":"b","ease_factor":9}`, userID)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestDeleteCard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cardID := uuid.New()

	tests := []struct {
		name           string
		serviceErr     error
		expectedStatus int
	}{
		{name: "success", expectedStatus: http.StatusNoContent},
		{name: "not found", serviceErr: store.ErrCardNotFound, expectedStatus: http.StatusNotFound},
		{name: "not owner", serviceErr: service.ErrCardNotOwned, expectedStatus: http.StatusForbidden},
		{name: "failure", serviceErr: errors.New("boom"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := &mocks.MockCardService{DefaultError: tt.serviceErr}
			router := newTestRouter(cards, &mocks.MockStudyService{})

			rr := serve(t, router, http.MethodDelete, "/cards/"+cardID.String(), nil, userID)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedStatus == http.StatusNoContent {
				assert.Empty(t, rr.Body.String())
			}
		})
	}
}

func TestReviewCard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cardID := uuid.New()
	path := "/cards/" + cardID.String() + "/review"

	tests := []struct {
		name           string
		body           any
		serviceErr     error
		expectedStatus int
		expectedError  string
		expectedGrade  int
	}{
		{
			name:           "success",
			body:           map[string]int{"grade": 4},
			expectedStatus: http.StatusOK,
			expectedGrade:  4,
		},
		{
			name:           "grade zero is valid",
			body:           map[string]int{"grade": 0},
			expectedStatus: http.StatusOK,
			expectedGrade:  0,
		},
		{
			name:           "missing grade",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid Grade: required field",
		},
		{
			name:           "grade out of range",
			body:           map[string]int{"grade": 6},
			serviceErr:     service.NewServiceError("study", "review_card", "invalid review", srs.ErrInvalidGrade),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Grade must be between 0 and 5",
		},
		{
			name:           "conflict after retries",
			body:           map[string]int{"grade": 3},
			serviceErr:     service.NewServiceError("study", "review_card", "modified", store.ErrConflict),
			expectedStatus: http.StatusConflict,
			expectedError:  "Card was modified concurrently, please retry",
		},
		{
			name:           "not owner",
			body:           map[string]int{"grade": 3},
			serviceErr:     service.ErrCardNotOwned,
			expectedStatus: http.StatusForbidden,
			expectedError:  "You do not own this card",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotGrade int
			studies := &mocks.MockStudyService{
				ReviewCardFn: func(ctx context.Context, uid, cid uuid.UUID, grade int) (*domain.Card, error) {
					gotGrade = grade
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					card := sampleCard(uid)
					card.ID = cid
					last := testNow
					next := testNow.AddDate(0, 0, 1)
					card.LastReviewedAt, card.NextReviewAt = &last, &next
					card.Repetitions, card.IntervalDays, card.ReviewCount = 1, 1, 1
					return card, nil
				},
			}
			router := newTestRouter(&mocks.MockCardService{}, studies)

			rr := serve(t, router, http.MethodPost, path, tt.body, userID)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedError != "" {
				body := decodeBody[shared.ErrorResponse](t, rr)
				assert.Equal(t, tt.expectedError, body.Error)
				return
			}
			assert.Equal(t, tt.expectedGrade, gotGrade)
			resp := decodeBody[CardResponse](t, rr)
			assert.Equal(t, cardID.String(), resp.ID)
			assert.Equal(t, 1, resp.IntervalDays)
			require.NotNil(t, resp.NextReviewAt)
		})
	}
}
