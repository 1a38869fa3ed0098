package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sam4007/studylink-backend/internal/middleware"
	"github.com/sam4007/studylink-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	DisplayName string `json:"display_name"`
}

// CreateUser handles POST /api/v1/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.userService.CreateUser(ctx, req.DisplayName)
	if err != nil {
		if err.Error() == "display name is required" {
			respondError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Msg("Failed to create user")
		respondError(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	log.Info().
		Str("user_id", user.ID).
		Str("code", user.Code).
		Msg("User created")

	respondJSON(w, user, http.StatusOK)
}

// RegisterPushTokenRequest represents the request body for push tokens
type RegisterPushTokenRequest struct {
	PushToken string `json:"push_token"`
}

// RegisterPushToken handles POST /api/v1/users/push-token
func (h *UserHandler) RegisterPushToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req RegisterPushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.userService.RegisterPushToken(ctx, userID, req.PushToken); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to register push token")
		respondError(w, "Failed to register push token", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
