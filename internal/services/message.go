package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sam4007/studylink-backend/internal/chat"
	"github.com/sam4007/studylink-backend/internal/models"
	"github.com/sam4007/studylink-backend/internal/repository"

	"github.com/google/uuid"
)

const maxMessageLength = 4000

// MessageService handles message creation
type MessageService struct {
	messageRepo *repository.MessageRepository
	userRepo    *repository.UserRepository
	friends     *FriendService
}

// NewMessageService creates a new message service
func NewMessageService(
	messageRepo *repository.MessageRepository,
	userRepo *repository.UserRepository,
	friends *FriendService,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		friends:     friends,
	}
}

// Send persists a new message from sender to receiver. The server
// assigns the ID, the creation timestamp and the initial sent status;
// the row only ever changes again when the receiver's read
// reconciliation flips it to seen.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("message body is required")
	}
	if len(body) > maxMessageLength {
		return nil, fmt.Errorf("message body too long")
	}
	if senderID == receiverID {
		return nil, fmt.Errorf("cannot message yourself")
	}

	areFriends, err := s.friends.AreFriends(ctx, senderID, receiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to check friendship: %w", err)
	}
	if !areFriends {
		return nil, fmt.Errorf("receiver is not a friend")
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("sender not found: %w", err)
	}

	message := &models.Message{
		ID:             uuid.New().String(),
		ConversationID: chat.ConversationID(senderID, receiverID),
		SenderID:       senderID,
		SenderName:     sender.DisplayName,
		ReceiverID:     receiverID,
		Body:           body,
		CreatedAt:      time.Now(),
		Status:         models.StatusSent,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	return message, nil
}
