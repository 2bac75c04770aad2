package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"greenCommuteAPI/services"
)

type AchievementHandler struct {
	achievementService *services.AchievementService
	log                logrus.FieldLogger
}

func NewAchievementHandler(achievementService *services.AchievementService, log logrus.FieldLogger) *AchievementHandler {
	return &AchievementHandler{achievementService: achievementService, log: log}
}

// GET /api/v1/achievements
func (h *AchievementHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	achievements, err := h.achievementService.List(ctx, userID)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, achievements)
}
