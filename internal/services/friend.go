package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sam4007/studylink-backend/internal/models"
	"github.com/sam4007/studylink-backend/internal/repository"

	"github.com/google/uuid"
)

// FriendService handles friendship-related business logic
type FriendService struct {
	friendRepo *repository.FriendshipRepository
	userRepo   *repository.UserRepository
}

// NewFriendService creates a new friend service
func NewFriendService(friendRepo *repository.FriendshipRepository, userRepo *repository.UserRepository) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

// AddByCode creates a friendship between the user and the owner of a
// friend code. Returns the new friend.
func (s *FriendService) AddByCode(ctx context.Context, userID, friendCode string) (*models.User, error) {
	if len(friendCode) != codeLength {
		return nil, fmt.Errorf("friend code must be %d characters", codeLength)
	}

	friend, err := s.userRepo.GetByCode(ctx, friendCode)
	if err != nil {
		return nil, fmt.Errorf("friend not found: %w", err)
	}

	if friend.ID == userID {
		return nil, fmt.Errorf("cannot add yourself as a friend")
	}

	exists, err := s.friendRepo.Exists(ctx, userID, friend.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check friendship: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("already friends")
	}

	// user_a_id is the lexicographically smaller ID so each pair has one row
	userAID, userBID := userID, friend.ID
	if userAID > userBID {
		userAID, userBID = userBID, userAID
	}

	friendship := &models.Friendship{
		ID:        uuid.New().String(),
		UserAID:   userAID,
		UserBID:   userBID,
		CreatedAt: time.Now(),
	}

	if err := s.friendRepo.Create(ctx, friendship); err != nil {
		return nil, fmt.Errorf("failed to create friendship: %w", err)
	}

	friend.Token = ""
	return friend, nil
}

// Remove deletes a friendship. Prior messages stay in place; the
// conversation simply disappears from both users' lists.
func (s *FriendService) Remove(ctx context.Context, userID, friendID string) error {
	if err := s.friendRepo.Delete(ctx, userID, friendID); err != nil {
		return fmt.Errorf("failed to remove friend: %w", err)
	}
	return nil
}

// List returns the user's friends.
func (s *FriendService) List(ctx context.Context, userID string) ([]models.User, error) {
	ids, err := s.friendRepo.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend ids: %w", err)
	}
	friends, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load friends: %w", err)
	}
	for i := range friends {
		friends[i].Token = ""
	}
	return friends, nil
}

// AreFriends reports whether two users are currently friends.
func (s *FriendService) AreFriends(ctx context.Context, userID, otherID string) (bool, error) {
	return s.friendRepo.Exists(ctx, userID, otherID)
}
