package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"greenCommuteAPI/services"
)

type LocationHandler struct {
	locationService *services.LocationService
	log             logrus.FieldLogger
}

func NewLocationHandler(locationService *services.LocationService, log logrus.FieldLogger) *LocationHandler {
	return &LocationHandler{locationService: locationService, log: log}
}

// GET /api/v1/locations
func (h *LocationHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	locations, err := h.locationService.List(ctx)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, locations)
}

// GET /api/v1/locations/distance?from={id}&to={id}
func (h *LocationHandler) Distance(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	query := r.URL.Query()
	if query.Get("from") == "" || query.Get("to") == "" {
		respondWithError(w, http.StatusBadRequest, "from and to location IDs are required")
		return
	}
	fromID, ok := pathUUID(w, query.Get("from"), "from location ID")
	if !ok {
		return
	}
	toID, ok := pathUUID(w, query.Get("to"), "to location ID")
	if !ok {
		return
	}

	resp, err := h.locationService.Distance(ctx, fromID, toID)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}
