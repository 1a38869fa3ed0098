package handlers

import (
	"net/http"

	"github.com/sam4007/studylink-backend/internal/middleware"
	"github.com/sam4007/studylink-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ConversationHandler serves the conversation list and thread views
type ConversationHandler struct {
	conversationService *services.ConversationService
	threadService       *services.ThreadService
	hub                 *services.Hub
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(
	conversationService *services.ConversationService,
	threadService *services.ThreadService,
	hub *services.Hub,
) *ConversationHandler {
	return &ConversationHandler{
		conversationService: conversationService,
		threadService:       threadService,
		hub:                 hub,
	}
}

// ListConversations handles GET /api/v1/conversations. Aggregation never
// fails outward: fetch errors fall back to an empty list.
func (h *ConversationHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	conversations := h.conversationService.List(ctx, userID)
	respondJSON(w, conversations, http.StatusOK)
}

// OpenThread handles GET /api/v1/conversations/{friend_id}. Opening a
// thread reconciles read state; when any messages flip to seen the
// sender is notified so their bubbles update.
func (h *ConversationHandler) OpenThread(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	friendID := chi.URLParam(r, "friend_id")

	if friendID == "" {
		respondError(w, "friend_id is required", http.StatusBadRequest)
		return
	}

	entries, seen, err := h.threadService.Open(ctx, userID, friendID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("friend_id", friendID).
			Msg("Failed to open thread")
		respondError(w, "Failed to open thread", http.StatusInternalServerError)
		return
	}

	if seen > 0 {
		h.hub.Publish(friendID, services.Event{
			Type:      services.EventMessagesSeen,
			FriendID:  userID,
			SeenCount: seen,
		})
	}

	respondJSON(w, map[string]any{
		"friend_id": friendID,
		"entries":   entries,
	}, http.StatusOK)
}
