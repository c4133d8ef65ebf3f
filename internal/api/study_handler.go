package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/bilingo/internal/api/shared"
	"github.com/phrazzld/bilingo/internal/domain/session"
	"github.com/phrazzld/bilingo/internal/platform/logger"
	"github.com/phrazzld/bilingo/internal/service/study"
)

// StudyHandler serves study sessions and progress statistics.
type StudyHandler struct {
	studyService       study.Service
	defaultSessionSize int
	logger             *slog.Logger
}

// NewStudyHandler creates a new StudyHandler. defaultSessionSize is used when
// a session request carries no limit; values outside 1..session.MaxSize fall
// back to session.MaxSize.
func NewStudyHandler(studyService study.Service, defaultSessionSize int, logger *slog.Logger) *StudyHandler {
	if studyService == nil {
		panic("studyService cannot be nil for StudyHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if defaultSessionSize < 1 || defaultSessionSize > session.MaxSize {
		defaultSessionSize = session.MaxSize
	}

	return &StudyHandler{
		studyService:       studyService,
		defaultSessionSize: defaultSessionSize,
		logger:             logger.With(slog.String("component", "study_handler")),
	}
}

// GetSession handles GET /study/session?limit=N
func (h *StudyHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	limit, err := parseLimit(r, h.defaultSessionSize)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	plan, err := h.studyService.PlanSession(r.Context(), userID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to plan study session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(plan))
}

// GetStats handles GET /study/stats
func (h *StudyHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	userStats, err := h.studyService.GetStats(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute statistics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, userStats)
}
