package services

import (
	"context"

	"github.com/sam4007/studylink-backend/internal/chat"
	"github.com/sam4007/studylink-backend/internal/models"
	"github.com/sam4007/studylink-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// ConversationService derives the conversation list from the message
// store on every call. Conversations are never persisted.
type ConversationService struct {
	messageRepo *repository.MessageRepository
	friends     *FriendService
}

// NewConversationService creates a new conversation service
func NewConversationService(messageRepo *repository.MessageRepository, friends *FriendService) *ConversationService {
	return &ConversationService{
		messageRepo: messageRepo,
		friends:     friends,
	}
}

// List aggregates all of a user's messages into one conversation per
// friend, newest first, with unread state. The store only filters on one
// field at a time, so sent and received messages are two fetches unioned
// here. Fetch errors degrade to an empty list: the conversation screen
// renders empty rather than failing.
func (s *ConversationService) List(ctx context.Context, userID string) []chat.Conversation {
	sent, err := s.messageRepo.ListBySender(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch sent messages")
		return []chat.Conversation{}
	}
	received, err := s.messageRepo.ListByReceiver(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch received messages")
		return []chat.Conversation{}
	}

	friends, err := s.friends.List(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch friend list")
		return []chat.Conversation{}
	}

	messages := make([]models.Message, 0, len(sent)+len(received))
	messages = append(messages, sent...)
	messages = append(messages, received...)

	return chat.AggregateConversations(userID, friends, messages)
}
