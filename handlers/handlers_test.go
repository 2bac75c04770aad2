package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenCommuteAPI/internal/apperr"
	"greenCommuteAPI/internal/logger"
)

type jsonObject = map[string]any

func TestCalculateIsPublic(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/calculate", "", jsonObject{"distance_km": 5, "mode": "cycle"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[jsonObject](t, rec)
	results := body["results"].(jsonObject)
	assert.Equal(t, 850.0, results["vs_drive_co2_saved_g"])
	assert.Equal(t, 150.0, results["calories_kcal"])
	assert.Contains(t, body, "impact_equivalents")
	assert.Contains(t, body, "calorie_equivalents")
}

func TestCalculateRejectsBadInput(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/calculate", "", jsonObject{"distance_km": 5, "mode": "teleport"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[jsonObject](t, rec)["error"], "mode")

	rec = api.do(t, http.MethodPost, "/api/v1/calculate", "", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogAndListJourneys(t *testing.T) {
	api := newTestAPI(t)
	api.signUp(t, "ana")

	rec := api.do(t, http.MethodPost, "/api/v1/journeys", "ana", jsonObject{"distance_km": 10, "mode": "walk"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[jsonObject](t, rec)
	assert.NotEmpty(t, created["new_achievements"])
	assert.Equal(t, "2026-10-12T00:00:00Z", created["journey"].(jsonObject)["date"])

	rec = api.do(t, http.MethodGet, "/api/v1/journeys", "ana", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]jsonObject](t, rec), 1)

	rec = api.do(t, http.MethodGet, "/api/v1/user/streak", "ana", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, decode[jsonObject](t, rec)["current_streak"])
}

func TestLogJourneyErrors(t *testing.T) {
	api := newTestAPI(t)
	api.signUp(t, "ana")

	cases := map[string]struct {
		user string
		body any
		code int
	}{
		"future date":   {"ana", jsonObject{"distance_km": 1, "mode": "walk", "date": "2026-10-13"}, http.StatusBadRequest},
		"too far":       {"ana", jsonObject{"distance_km": 501, "mode": "walk"}, http.StatusBadRequest},
		"bad body":      {"ana", "[]", http.StatusBadRequest},
		"unknown user":  {"ghost", jsonObject{"distance_km": 1, "mode": "walk"}, http.StatusNotFound},
		"anonymous":     {"", jsonObject{"distance_km": 1, "mode": "walk"}, http.StatusUnauthorized},
		"unknown place": {"ana", jsonObject{"distance_km": 1, "mode": "walk", "start_location_id": uuid.NewString()}, http.StatusNotFound},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := api.do(t, http.MethodPost, "/api/v1/journeys", tc.user, tc.body)
			assert.Equal(t, tc.code, rec.Code, rec.Body.String())
		})
	}
}

func TestLocationEndpoints(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/v1/locations", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ids := map[string]string{}
	for _, l := range decode[[]jsonObject](t, rec) {
		ids[l["key"].(string)] = l["id"].(string)
	}
	require.Contains(t, ids, "union_street")
	require.Contains(t, ids, "home")

	rec = api.do(t, http.MethodGet, "/api/v1/locations/distance?from="+ids["union_street"]+"&to="+ids["university_of_aberdeen"], "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[jsonObject](t, rec)
	assert.Equal(t, "haversine", body["method"])
	assert.Equal(t, 2.9, body["distance_km"])

	rec = api.do(t, http.MethodGet, "/api/v1/locations/distance?from="+ids["home"]+"&to="+ids["union_street"], "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode[jsonObject](t, rec)
	assert.Equal(t, "manual", body["method"])
	assert.Nil(t, body["distance_km"])

	rec = api.do(t, http.MethodGet, "/api/v1/locations/distance?from="+ids["home"], "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = api.do(t, http.MethodGet, "/api/v1/locations/distance?from=1&to=2", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = api.do(t, http.MethodGet, "/api/v1/locations/distance?from="+ids["home"]+"&to="+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserEndpoints(t *testing.T) {
	api := newTestAPI(t)
	api.signUp(t, "ana")

	rec := api.do(t, http.MethodGet, "/api/v1/user", "ana", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ana", decode[jsonObject](t, rec)["username"])

	rec = api.do(t, http.MethodPut, "/api/v1/user/goal", "ana", jsonObject{"target_co2_saved_g": 2000})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	api.do(t, http.MethodPost, "/api/v1/journeys", "ana", jsonObject{"distance_km": 5, "mode": "cycle"})
	rec = api.do(t, http.MethodGet, "/api/v1/user/summary", "ana", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	goal := decode[jsonObject](t, rec)["weekly_goal"].(jsonObject)
	assert.Equal(t, 2000.0, goal["target_g"])
	assert.Equal(t, 42.5, goal["percentage"])

	rec = api.do(t, http.MethodPut, "/api/v1/user/goal", "ana", jsonObject{"target_co2_saved_g": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPut, "/api/v1/user/update-profile", "ana", jsonObject{"firstName": "Ana"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ana", decode[jsonObject](t, rec)["firstName"])

	rec = api.do(t, http.MethodDelete, "/api/v1/user/delete-account", "ana", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(t, http.MethodGet, "/api/v1/user", "ana", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAchievementsAndLeaderboards(t *testing.T) {
	api := newTestAPI(t)
	api.signUp(t, "ana")
	api.do(t, http.MethodPost, "/api/v1/journeys", "ana", jsonObject{"distance_km": 10, "mode": "walk"})

	rec := api.do(t, http.MethodGet, "/api/v1/achievements", "ana", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	earned := 0
	for _, a := range decode[[]jsonObject](t, rec) {
		if a["earned"] == true {
			earned++
		}
	}
	assert.Equal(t, 3, earned)

	rec = api.do(t, http.MethodGet, "/api/v1/leaderboards", "ana", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	boards := decode[jsonObject](t, rec)
	co2 := boards["co2"].([]any)
	require.Len(t, co2, 1)
	assert.Equal(t, "ana", co2[0].(jsonObject)["username"])
}

func TestBattleEndpoints(t *testing.T) {
	api := newTestAPI(t)
	api.signUp(t, "ana")
	api.signUp(t, "bo")

	rec := api.do(t, http.MethodPost, "/api/v1/battles", "ana", jsonObject{"opponent_name": "BO"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "active", decode[jsonObject](t, rec)["status"])

	rec = api.do(t, http.MethodPost, "/api/v1/battles", "bo", jsonObject{"opponent_name": "ana"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/battles", "ana", jsonObject{"opponent_name": "ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/battles", "ana", jsonObject{"opponent_name": "bo", "duration_days": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/battles/update-scores", "ana", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, decode[jsonObject](t, rec)["updated"])

	rec = api.do(t, http.MethodGet, "/api/v1/battles", "bo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]jsonObject](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "ana", list[0]["challenger_name"])
	assert.Equal(t, 0.0, list[0]["challenger_co2_saved_g"], "scores are JSON numbers")

	rec = api.do(t, http.MethodGet, "/api/v1/battles/search-users?q=b", "ana", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]jsonObject](t, rec))
}

func TestBattleInviteResponses(t *testing.T) {
	api := newTestAPI(t)
	api.signUp(t, "ana")
	api.signUp(t, "bo")

	rec := api.do(t, http.MethodPost, "/api/v1/battles", "ana", jsonObject{"opponent_name": "bo", "mode": "invite"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[jsonObject](t, rec)["id"].(string)

	api.signUp(t, "eve")
	rec = api.do(t, http.MethodPost, "/api/v1/battles/"+id+"/accept", "eve", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "challenger_id")

	rec = api.do(t, http.MethodPost, "/api/v1/battles/"+id+"/accept", "ana", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pending", decode[jsonObject](t, rec)["status"])

	rec = api.do(t, http.MethodPost, "/api/v1/battles/"+id+"/decline", "bo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "declined", decode[jsonObject](t, rec)["status"])

	rec = api.do(t, http.MethodPost, "/api/v1/battles/not-a-uuid/accept", "bo", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/battles/"+uuid.NewString()+"/accept", "bo", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotificationEndpoints(t *testing.T) {
	api := newTestAPI(t)
	api.signUp(t, "ana")
	api.do(t, http.MethodPost, "/api/v1/journeys", "ana", jsonObject{"distance_km": 1, "mode": "walk"})

	rec := api.do(t, http.MethodGet, "/api/v1/notifications", "ana", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[jsonObject](t, rec)
	assert.Equal(t, 1.0, list["unread_count"])
	id := list["notifications"].([]any)[0].(jsonObject)["id"].(string)

	rec = api.do(t, http.MethodPut, fmt.Sprintf("/api/v1/notifications/%s/read", id), "ana", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(t, http.MethodPut, fmt.Sprintf("/api/v1/notifications/%s/read", uuid.NewString()), "ana", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/notifications/register-device", "ana", jsonObject{"token": "tok", "platform": "android"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(t, http.MethodPost, "/api/v1/notifications/register-device", "ana", jsonObject{"token": "tok", "platform": "pager"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = api.do(t, http.MethodDelete, "/api/v1/notifications/register-device", "ana", jsonObject{"token": "tok"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServiceErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{apperr.Validation("distance_km must be between 0 and 500"), http.StatusBadRequest, "distance_km must be between 0 and 500"},
		{fmt.Errorf("lookup: %w", apperr.NotFound("user not found")), http.StatusNotFound, "user not found"},
		{apperr.Conflict("taken"), http.StatusConflict, "taken"},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		respondWithServiceError(rec, logger.Discard(), tc.err)
		assert.Equal(t, tc.code, rec.Code)
		assert.Equal(t, tc.msg, decode[jsonObject](t, rec)["error"])
	}
}
