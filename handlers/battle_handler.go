package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"greenCommuteAPI/internal/battle"
	"greenCommuteAPI/services"
)

type BattleHandler struct {
	battleService *services.BattleService
	log           logrus.FieldLogger
}

func NewBattleHandler(battleService *services.BattleService, log logrus.FieldLogger) *BattleHandler {
	return &BattleHandler{battleService: battleService, log: log}
}

// GET /api/v1/battles
func (h *BattleHandler) ListBattles(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	battles, err := h.battleService.ListBattles(ctx, userID)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, battles)
}

// POST /api/v1/battles
func (h *BattleHandler) CreateBattle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req battle.CreateBattleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := h.battleService.CreateBattle(ctx, userID, &req)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, b)
}

// POST /api/v1/battles/{id}/accept
func (h *BattleHandler) AcceptBattle(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, true)
}

// POST /api/v1/battles/{id}/decline
func (h *BattleHandler) DeclineBattle(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, false)
}

func (h *BattleHandler) respond(w http.ResponseWriter, r *http.Request, accept bool) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	battleID, ok := pathUUID(w, mux.Vars(r)["id"], "battle ID")
	if !ok {
		return
	}

	b, err := h.battleService.RespondToBattle(ctx, battleID, userID, accept)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, b)
}

// POST /api/v1/battles/update-scores
func (h *BattleHandler) UpdateScores(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	updated, err := h.battleService.RefreshBattleScores(ctx, userID)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, battle.RefreshResponse{Updated: updated})
}

// GET /api/v1/battles/search-users?q=
func (h *BattleHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	users, err := h.battleService.SearchOpponents(ctx, userID, r.URL.Query().Get("q"))
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}
