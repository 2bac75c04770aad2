package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"greenCommuteAPI/services"
)

type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
	log                logrus.FieldLogger
}

func NewLeaderboardHandler(leaderboardService *services.LeaderboardService, log logrus.FieldLogger) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService, log: log}
}

// GET /api/v1/leaderboards
func (h *LeaderboardHandler) GetLeaderboards(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	boards, err := h.leaderboardService.GetLeaderboards(ctx)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, boards)
}
