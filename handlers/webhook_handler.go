package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
	svix "github.com/svix/svix-webhooks/go"

	"greenCommuteAPI/internal/apperr"
	"greenCommuteAPI/internal/user"
	"greenCommuteAPI/services"
)

type clerkWebhookEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type clerkUserData struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ImageURL       string `json:"image_url"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

func (d clerkUserData) username() string {
	if d.Username != "" {
		return d.Username
	}
	return d.FirstName + d.LastName
}

type WebhookHandler struct {
	userService *services.UserService
	webhook     *svix.Webhook
	log         logrus.FieldLogger
}

// NewWebhookHandler verifies deliveries with the Clerk signing secret
// (whsec_...). An empty secret disables verification.
func NewWebhookHandler(userService *services.UserService, secret string, log logrus.FieldLogger) (*WebhookHandler, error) {
	h := &WebhookHandler{userService: userService, log: log}
	if secret == "" {
		log.Warn("CLERK_WEBHOOK_SECRET not set, skipping webhook signature verification")
		return h, nil
	}

	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook secret: %w", err)
	}
	h.webhook = wh
	return h, nil
}

// POST /webhooks/clerk
func (h *WebhookHandler) HandleClerkWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Error reading body")
		return
	}

	if err := h.verifySignature(r.Header, body); err != nil {
		h.log.WithError(err).Warn("invalid webhook signature")
		respondWithError(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	var event clerkWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		respondWithError(w, http.StatusBadRequest, "Error parsing webhook")
		return
	}

	log := h.log.WithField("event", event.Type)
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	switch event.Type {
	case "user.created":
		err = h.handleUserCreated(ctx, event.Data)
	case "user.updated":
		err = h.handleUserUpdated(ctx, event.Data)
	case "user.deleted":
		err = h.handleUserDeleted(ctx, event.Data)
	default:
		log.Debug("unhandled webhook event type")
	}

	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			log.WithError(err).Warn("webhook payload rejected")
			respondWithServiceError(w, log, err)
			return
		}
		log.WithError(err).Error("error processing webhook")
		respondWithError(w, http.StatusInternalServerError, "Error processing webhook")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *WebhookHandler) handleUserCreated(ctx context.Context, data json.RawMessage) error {
	var userData clerkUserData
	if err := json.Unmarshal(data, &userData); err != nil {
		return apperr.Validation("malformed user data")
	}

	email := ""
	if len(userData.EmailAddresses) > 0 {
		email = userData.EmailAddresses[0].EmailAddress
	}

	u, err := h.userService.CreateUser(ctx, &user.CreateUserRequest{
		ClerkID:   userData.ID,
		Email:     email,
		Username:  userData.username(),
		FirstName: userData.FirstName,
		LastName:  userData.LastName,
		ImageURL:  userData.ImageURL,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	h.log.WithFields(logrus.Fields{"user_id": u.ID, "clerk_id": u.ClerkID}).Info("user created from webhook")
	return nil
}

func (h *WebhookHandler) handleUserUpdated(ctx context.Context, data json.RawMessage) error {
	var userData clerkUserData
	if err := json.Unmarshal(data, &userData); err != nil {
		return apperr.Validation("malformed user data")
	}

	_, err := h.userService.UpdateProfileByClerkID(ctx, userData.ID, &user.UpdateProfileRequest{
		Username:  userData.username(),
		FirstName: userData.FirstName,
		LastName:  userData.LastName,
		ImageURL:  userData.ImageURL,
	})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (h *WebhookHandler) handleUserDeleted(ctx context.Context, data json.RawMessage) error {
	var userData struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &userData); err != nil {
		return apperr.Validation("malformed user data")
	}

	err := h.userService.DeleteUserByClerkID(ctx, userData.ID)
	if errors.Is(err, apperr.ErrNotFound) {
		// Clerk retries deliveries; the user is already gone.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// verifySignature checks the svix headers against body. A nil verifier
// accepts everything.
func (h *WebhookHandler) verifySignature(header http.Header, body []byte) error {
	if h.webhook == nil {
		return nil
	}
	return h.webhook.Verify(body, header)
}
