package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/bilingo/internal/api/shared"
	"github.com/phrazzld/bilingo/internal/platform/logger"
	"github.com/phrazzld/bilingo/internal/service"
	"github.com/phrazzld/bilingo/internal/service/study"
)

// CardHandler handles card-related HTTP requests
type CardHandler struct {
	cardService  service.CardService
	studyService study.Service
	logger       *slog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(
	cardService service.CardService,
	studyService study.Service,
	logger *slog.Logger,
) *CardHandler {
	if cardService == nil {
		panic("cardService cannot be nil for CardHandler")
	}
	if studyService == nil {
		panic("studyService cannot be nil for CardHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CardHandler{
		cardService:  cardService,
		studyService: studyService,
		logger:       logger.With(slog.String("component", "card_handler")),
	}
}

// CreateCard handles POST /cards
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req CardRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	card, err := h.cardService.CreateCard(r.Context(), userID, req.Front, req.Back)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(card))
}

// ListCards handles GET /cards
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	cards, err := h.cardService.ListCards(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list cards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardsToResponse(cards))
}

// GetCard handles GET /cards/{id}
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(r.Context(), userID, cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// UpdateCard handles PUT /cards/{id}
// Only the text changes; the review schedule is kept.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req CardRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	card, err := h.cardService.UpdateCardContent(r.Context(), userID, cardID, req.Front, req.Back)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// DeleteCard handles DELETE /cards/{id}
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), userID, cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete card")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReviewCard handles POST /cards/{id}/review
// It grades the card (0-5) and returns it with its new schedule.
func (h *CardHandler) ReviewCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req ReviewRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	card, err := h.studyService.ReviewCard(r.Context(), userID, cardID, *req.Grade)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to review card")
		return
	}

	log.Debug("card reviewed",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("grade", *req.Grade))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}
