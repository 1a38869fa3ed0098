package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sam4007/studylink-backend/internal/middleware"
	"github.com/sam4007/studylink-backend/internal/models"
	"github.com/sam4007/studylink-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// MessageHandler handles message sending
type MessageHandler struct {
	messageService *services.MessageService
	userService    *services.UserService
	pushService    *services.PushService
	hub            *services.Hub
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(
	messageService *services.MessageService,
	userService *services.UserService,
	pushService *services.PushService,
	hub *services.Hub,
) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		userService:    userService,
		pushService:    pushService,
		hub:            hub,
	}
}

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id"`
	Body       string `json:"body"`
}

// SendMessage handles POST /api/v1/messages
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ReceiverID == "" {
		respondError(w, "receiver_id is required", http.StatusBadRequest)
		return
	}

	message, err := h.messageService.Send(ctx, userID, req.ReceiverID, req.Body)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("receiver_id", req.ReceiverID).
			Msg("Failed to send message")

		statusCode := http.StatusInternalServerError
		switch {
		case err.Error() == "message body is required" ||
			err.Error() == "message body too long" ||
			err.Error() == "cannot message yourself":
			statusCode = http.StatusBadRequest
		case err.Error() == "receiver is not a friend":
			statusCode = http.StatusForbidden
		case strings.Contains(err.Error(), "sender not found"):
			statusCode = http.StatusNotFound
		}

		respondError(w, err.Error(), statusCode)
		return
	}

	h.Deliver(ctx, message)

	respondJSON(w, message, http.StatusOK)
}

// Deliver fans a stored message out to both participants' live
// subscriptions and queues a push for an offline receiver. Shared with
// the websocket send path.
func (h *MessageHandler) Deliver(ctx context.Context, message *models.Message) {
	event := services.Event{
		Type:         services.EventMessage,
		Conversation: message.ConversationID,
		Message:      message,
	}
	h.hub.Publish(message.SenderID, event)
	h.hub.Publish(message.ReceiverID, event)

	if h.hub.IsOnline(message.ReceiverID) {
		return
	}

	receiver, err := h.userService.GetUser(ctx, message.ReceiverID)
	if err != nil || receiver.PushToken == nil {
		return
	}
	if err := h.pushService.EnqueueMessagePush(ctx, *receiver.PushToken, message.SenderName, message.Body); err != nil {
		log.Error().
			Err(err).
			Str("receiver_id", message.ReceiverID).
			Msg("Failed to enqueue push")
	}
}
