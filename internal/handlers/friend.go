package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sam4007/studylink-backend/internal/middleware"
	"github.com/sam4007/studylink-backend/internal/models"
	"github.com/sam4007/studylink-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// FriendHandler handles friendship-related HTTP requests
type FriendHandler struct {
	friendService   *services.FriendService
	presenceService *services.PresenceService
	hub             *services.Hub
}

// NewFriendHandler creates a new friend handler
func NewFriendHandler(
	friendService *services.FriendService,
	presenceService *services.PresenceService,
	hub *services.Hub,
) *FriendHandler {
	return &FriendHandler{
		friendService:   friendService,
		presenceService: presenceService,
		hub:             hub,
	}
}

// AddFriendRequest represents the request body for adding a friend
type AddFriendRequest struct {
	FriendCode string `json:"friend_code"`
}

// FriendResponse is a friend entry with live presence
type FriendResponse struct {
	models.User
	Online     bool  `json:"online"`
	LastSeenMS int64 `json:"last_seen_ms,omitempty"`
}

// AddFriend handles POST /api/v1/friends
func (h *FriendHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req AddFriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.FriendCode == "" {
		respondError(w, "friend_code is required", http.StatusBadRequest)
		return
	}

	friend, err := h.friendService.AddByCode(ctx, userID, req.FriendCode)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("friend_code", req.FriendCode).
			Msg("Failed to add friend")

		statusCode := http.StatusInternalServerError
		switch {
		case err.Error() == "cannot add yourself as a friend" || err.Error() == "already friends":
			statusCode = http.StatusConflict
		case err.Error() == "friend code must be 6 characters":
			statusCode = http.StatusBadRequest
		case strings.Contains(err.Error(), "friend not found"):
			statusCode = http.StatusNotFound
		}

		respondError(w, err.Error(), statusCode)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("friend_id", friend.ID).
		Msg("Friend added")

	// Let the other side's open clients refresh their friend list
	h.hub.Publish(friend.ID, services.Event{Type: services.EventFriendAdded, FriendID: userID})

	respondJSON(w, friend, http.StatusOK)
}

// RemoveFriend handles DELETE /api/v1/friends/{friend_id}
func (h *FriendHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	friendID := chi.URLParam(r, "friend_id")

	if friendID == "" {
		respondError(w, "friend_id is required", http.StatusBadRequest)
		return
	}

	if err := h.friendService.Remove(ctx, userID, friendID); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("friend_id", friendID).
			Msg("Failed to remove friend")

		statusCode := http.StatusInternalServerError
		if strings.Contains(err.Error(), "friendship not found") {
			statusCode = http.StatusNotFound
		}
		respondError(w, err.Error(), statusCode)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("friend_id", friendID).
		Msg("Friend removed")

	h.hub.Publish(friendID, services.Event{Type: services.EventFriendGone, FriendID: userID})

	w.WriteHeader(http.StatusNoContent)
}

// ListFriends handles GET /api/v1/friends
func (h *FriendHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	friends, err := h.friendService.List(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list friends")
		respondError(w, "Failed to list friends", http.StatusInternalServerError)
		return
	}

	response := make([]FriendResponse, 0, len(friends))
	for _, f := range friends {
		entry := FriendResponse{User: f, Online: h.hub.IsOnline(f.ID)}
		if !entry.Online {
			if lastSeen, ok, err := h.presenceService.LastSeen(ctx, f.ID); err == nil && ok {
				entry.LastSeenMS = lastSeen.UnixMilli()
			}
		}
		response = append(response, entry)
	}

	respondJSON(w, response, http.StatusOK)
}

