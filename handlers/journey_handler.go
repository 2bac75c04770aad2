package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"greenCommuteAPI/internal/journey"
	"greenCommuteAPI/services"
)

type JourneyHandler struct {
	journeyService *services.JourneyService
	log            logrus.FieldLogger
}

func NewJourneyHandler(journeyService *services.JourneyService, log logrus.FieldLogger) *JourneyHandler {
	return &JourneyHandler{journeyService: journeyService, log: log}
}

// POST /api/v1/calculate
func (h *JourneyHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req journey.CalculateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.journeyService.Calculate(&req)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/journeys
func (h *JourneyHandler) LogJourney(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req journey.LogJourneyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.journeyService.LogJourney(ctx, userID, &req)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, resp)
}

// GET /api/v1/journeys
func (h *JourneyHandler) ListJourneys(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	journeys, err := h.journeyService.ListJourneys(ctx, userID)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, journeys)
}
