package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenCommuteAPI/internal/apperr"
	"greenCommuteAPI/internal/logger"
	"greenCommuteAPI/internal/user"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestClerkAuthMiddleware(t *testing.T) {
	verify := func(_ context.Context, token string) (string, error) {
		if token != "good" {
			return "", errors.New("bad signature")
		}
		return "clerk_ana", nil
	}

	var seen string
	h := ClerkAuthMiddleware(verify, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetClerkID(r.Context())
	}))

	cases := map[string]struct {
		header string
		code   int
	}{
		"missing":    {"", http.StatusUnauthorized},
		"not bearer": {"Token good", http.StatusUnauthorized},
		"invalid":    {"Bearer nope", http.StatusUnauthorized},
		"valid":      {"Bearer good", http.StatusOK},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.code, rec.Code)
		})
	}
	assert.Equal(t, "clerk_ana", seen)
}

type lookupFunc func(ctx context.Context, clerkID string) (*user.User, error)

func (f lookupFunc) GetUserByClerkID(ctx context.Context, clerkID string) (*user.User, error) {
	return f(ctx, clerkID)
}

func TestResolveUser(t *testing.T) {
	id := uuid.New()
	users := lookupFunc(func(_ context.Context, clerkID string) (*user.User, error) {
		switch clerkID {
		case "clerk_ana":
			return &user.User{ID: id, ClerkID: clerkID}, nil
		case "clerk_broken":
			return nil, errors.New("connection reset")
		}
		return nil, apperr.NotFound("user not found")
	})

	var got uuid.UUID
	h := ResolveUser(users, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetUserID(r.Context())
	}))

	serve := func(ctx context.Context) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(context.Background()))
	assert.Equal(t, http.StatusNotFound, serve(WithClerkID(context.Background(), "clerk_ghost")))
	assert.Equal(t, http.StatusInternalServerError, serve(WithClerkID(context.Background(), "clerk_broken")))
	assert.Equal(t, http.StatusOK, serve(WithClerkID(context.Background(), "clerk_ana")))
	assert.Equal(t, id, got)
}

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	h := rl.Middleware(okHandler())

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.2"))
}

func TestRateLimiterUsesForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(req))
}

func TestRateLimiterEvictsIdleVisitors(t *testing.T) {
	now := time.Date(2026, 10, 12, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	rl.getLimiter("a")
	now = now.Add(2 * time.Minute)
	rl.getLimiter("b")
	now = now.Add(2 * time.Minute)
	rl.evictIdle()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.visitors, "a")
	assert.Contains(t, rl.visitors, "b")
}

func TestBasicAuthMiddleware(t *testing.T) {
	h := BasicAuthMiddleware("prom", "secret")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req.SetBasicAuth("prom", "secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	closed := BasicAuthMiddleware("", "")(okHandler())
	req.SetBasicAuth("", "")
	rec = httptest.NewRecorder()
	closed.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouteTemplateLabel(t *testing.T) {
	r := mux.NewRouter()
	var label string
	r.HandleFunc("/battles/{id}/accept", func(w http.ResponseWriter, r *http.Request) {
		label = routeTemplate(r)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/battles/"+uuid.NewString()+"/accept", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/battles/{id}/accept", label)
}
