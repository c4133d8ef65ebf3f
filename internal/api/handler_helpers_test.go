package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/bilingo/internal/api/shared"
	"github.com/phrazzld/bilingo/internal/domain"
	"github.com/phrazzld/bilingo/internal/mocks"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 12, 9, 30, 0, 0, time.UTC)

// newTestRouter mounts the handlers the same way the server does, minus auth.
func newTestRouter(cards *mocks.MockCardService, studies *mocks.MockStudyService) http.Handler {
	cardHandler := NewCardHandler(cards, studies, nil)
	studyHandler := NewStudyHandler(studies, 20, nil)

	r := chi.NewRouter()
	r.Post("/cards", cardHandler.CreateCard)
	r.Get("/cards", cardHandler.ListCards)
	r.Get("/cards/{id}", cardHandler.GetCard)
	r.Put("/cards/{id}", cardHandler.UpdateCard)
	r.Delete("/cards/{id}", cardHandler.DeleteCard)
	r.Post("/cards/{id}/review", cardHandler.ReviewCard)
	r.Get("/study/session", studyHandler.GetSession)
	r.Get("/study/stats", studyHandler.GetStats)
	return r
}

// serve sends a request as userID (uuid.Nil for anonymous) and returns the recorder.
func serve(t *testing.T, h http.Handler, method, path string, body any, userID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	if userID != uuid.Nil {
		req = req.WithContext(shared.WithUserID(req.Context(), userID))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "body: %s", rr.Body.String())
	return v
}

func sampleCard(owner uuid.UUID) *domain.Card {
	return &domain.Card{
		ID:         uuid.New(),
		OwnerID:    owner,
		Front:      "el gato",
		Back:       "the cat",
		EaseFactor: domain.DefaultEaseFactor,
		Version:    1,
		CreatedAt:  testNow,
		UpdatedAt:  testNow,
	}
}
