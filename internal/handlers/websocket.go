package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sam4007/studylink-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ClientMessage is a command received over the socket.
type ClientMessage struct {
	Type       string `json:"type"`
	ReceiverID string `json:"receiver_id,omitempty"`
	FriendID   string `json:"friend_id,omitempty"`
	Body       string `json:"body,omitempty"`
}

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub             *services.Hub
	userService     *services.UserService
	friendService   *services.FriendService
	messageService  *services.MessageService
	threadService   *services.ThreadService
	presenceService *services.PresenceService
	messageHandler  *MessageHandler
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	hub *services.Hub,
	userService *services.UserService,
	friendService *services.FriendService,
	messageService *services.MessageService,
	threadService *services.ThreadService,
	presenceService *services.PresenceService,
	messageHandler *MessageHandler,
) *WebSocketHandler {
	return &WebSocketHandler{
		hub:             hub,
		userService:     userService,
		friendService:   friendService,
		messageService:  messageService,
		threadService:   threadService,
		presenceService: presenceService,
		messageHandler:  messageHandler,
	}
}

// HandleWebSocket handles GET /ws?token=
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, "token required", http.StatusUnauthorized)
		return
	}

	userID, err := h.userService.ValidateJWT(token)
	if err != nil {
		respondError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	// The subscription handle must be cancelled on every exit path;
	// leaking it keeps the write pump and the hub entry alive.
	sub := h.hub.Subscribe(userID)
	defer sub.Cancel()

	ctx := r.Context()
	h.setOnline(ctx, userID, true)
	defer h.setOnline(context.Background(), userID, false)

	log.Info().Str("user_id", userID).Msg("WebSocket connection established")

	// Write pump: forward hub events to the socket.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range sub.C {
			data, err := json.Marshal(event)
			if err != nil {
				log.Error().Err(err).Str("user_id", userID).Msg("Failed to marshal event")
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}()

	// Read pump: handle client commands until the socket closes.
	for {
		_, messageBytes, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user_id", userID).Msg("WebSocket error")
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to parse WebSocket message")
			h.hub.Publish(userID, services.Event{Type: services.EventError, Error: "Invalid message format"})
			continue
		}

		if err := h.handleMessage(ctx, userID, msg); err != nil {
			log.Error().Err(err).Str("user_id", userID).Str("type", msg.Type).Msg("Failed to handle message")
			h.hub.Publish(userID, services.Event{Type: services.EventError, Error: err.Error()})
		}
	}

	sub.Cancel()
	<-done
}

// handleMessage processes incoming WebSocket commands
func (h *WebSocketHandler) handleMessage(ctx context.Context, userID string, msg ClientMessage) error {
	switch msg.Type {
	case "send_message":
		message, err := h.messageService.Send(ctx, userID, msg.ReceiverID, msg.Body)
		if err != nil {
			return err
		}
		h.messageHandler.Deliver(ctx, message)
		return nil
	case "thread_open":
		seen, err := h.threadService.MarkSeen(ctx, userID, msg.FriendID)
		if err != nil {
			return err
		}
		if seen > 0 {
			h.hub.Publish(msg.FriendID, services.Event{
				Type:      services.EventMessagesSeen,
				FriendID:  userID,
				SeenCount: seen,
			})
		}
		return nil
	default:
		h.hub.Publish(userID, services.Event{Type: services.EventError, Error: "Unknown message type"})
		return nil
	}
}

// setOnline records presence and notifies the user's friends.
func (h *WebSocketHandler) setOnline(ctx context.Context, userID string, online bool) {
	if err := h.presenceService.Touch(ctx, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to record presence")
	}

	friends, err := h.friendService.List(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load friends for status fanout")
		return
	}
	for _, f := range friends {
		h.hub.Publish(f.ID, services.Event{
			Type:     services.EventFriendStatus,
			FriendID: userID,
			Online:   &online,
		})
	}
}
