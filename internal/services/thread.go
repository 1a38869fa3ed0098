package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sam4007/studylink-backend/internal/chat"
	"github.com/sam4007/studylink-backend/internal/models"
	"github.com/sam4007/studylink-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// ThreadService assembles a single conversation for display and runs
// read-state reconciliation when it is opened.
type ThreadService struct {
	messageRepo *repository.MessageRepository
}

// NewThreadService creates a new thread service
func NewThreadService(messageRepo *repository.MessageRepository) *ThreadService {
	return &ThreadService{messageRepo: messageRepo}
}

// Open fetches the conversation with friendID, marks every inbound
// unseen message as seen, and returns the rendered entries. The seen
// count is the number of messages transitioned by this open.
func (s *ThreadService) Open(ctx context.Context, userID, friendID string) ([]chat.ThreadEntry, int, error) {
	conversationID := chat.ConversationID(userID, friendID)

	messages, err := s.messageRepo.ListByConversationID(ctx, conversationID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load conversation: %w", err)
	}

	seen, err := s.reconcile(ctx, userID, messages)
	if err != nil {
		// Reconciliation is best-effort: log and serve the thread as-is.
		// The next trigger re-runs it, which is idempotent per message.
		log.Error().Err(err).
			Str("user_id", userID).
			Str("conversation_id", conversationID).
			Msg("Failed to reconcile read state")
		seen = 0
	} else if seen > 0 {
		now := time.Now()
		for i := range messages {
			if messages[i].ReceiverID == userID && messages[i].Status == models.StatusSent {
				messages[i].Status = models.StatusSeen
				messages[i].SeenAt = &now
			}
		}
	}

	return chat.BuildThread(userID, messages, time.Now(), time.Local), seen, nil
}

// MarkSeen reconciles read state for the conversation with friendID
// without rendering it (the websocket thread_open path).
func (s *ThreadService) MarkSeen(ctx context.Context, userID, friendID string) (int, error) {
	conversationID := chat.ConversationID(userID, friendID)
	messages, err := s.messageRepo.ListByConversationID(ctx, conversationID)
	if err != nil {
		return 0, fmt.Errorf("failed to load conversation: %w", err)
	}
	return s.reconcile(ctx, userID, messages)
}

// reconcile batches the sent -> seen transition for every inbound unseen
// message. Zero qualifying messages issues no write.
func (s *ThreadService) reconcile(ctx context.Context, userID string, messages []models.Message) (int, error) {
	ids := chat.UnseenInbound(userID, messages)
	if len(ids) == 0 {
		return 0, nil
	}
	if err := s.messageRepo.MarkSeen(ctx, ids, time.Now()); err != nil {
		return 0, err
	}
	return len(ids), nil
}
