package repository

import (
	"context"
	"fmt"

	"github.com/sam4007/studylink-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FriendshipRepository handles database operations for friendships
type FriendshipRepository struct {
	db *pgxpool.Pool
}

// NewFriendshipRepository creates a new friendship repository
func NewFriendshipRepository(db *pgxpool.Pool) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

// Create creates a new friendship
func (r *FriendshipRepository) Create(ctx context.Context, friendship *models.Friendship) error {
	query := `
		INSERT INTO friendships (id, user_a_id, user_b_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query,
		friendship.ID, friendship.UserAID, friendship.UserBID, friendship.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create friendship: %w", err)
	}
	return nil
}

// GetByUsers retrieves the friendship between two users, in either order
func (r *FriendshipRepository) GetByUsers(ctx context.Context, userID, otherID string) (*models.Friendship, error) {
	if userID > otherID {
		userID, otherID = otherID, userID
	}
	query := `
		SELECT id, user_a_id, user_b_id, created_at
		FROM friendships
		WHERE user_a_id = $1 AND user_b_id = $2
	`
	var friendship models.Friendship
	err := r.db.QueryRow(ctx, query, userID, otherID).Scan(
		&friendship.ID, &friendship.UserAID, &friendship.UserBID, &friendship.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("friendship not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}
	return &friendship, nil
}

// ListFriendIDs retrieves the IDs of every friend of a user
func (r *FriendshipRepository) ListFriendIDs(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT CASE WHEN user_a_id = $1 THEN user_b_id ELSE user_a_id END
		FROM friendships
		WHERE user_a_id = $1 OR user_b_id = $1
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan friend id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating friends: %w", err)
	}
	return ids, nil
}

// Exists checks whether two users are friends
func (r *FriendshipRepository) Exists(ctx context.Context, userID, otherID string) (bool, error) {
	if userID > otherID {
		userID, otherID = otherID, userID
	}
	query := `SELECT EXISTS(SELECT 1 FROM friendships WHERE user_a_id = $1 AND user_b_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, userID, otherID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check friendship existence: %w", err)
	}
	return exists, nil
}

// Delete removes the friendship between two users. Messages are left
// untouched; unfriending only hides the conversation.
func (r *FriendshipRepository) Delete(ctx context.Context, userID, otherID string) error {
	if userID > otherID {
		userID, otherID = otherID, userID
	}
	query := `DELETE FROM friendships WHERE user_a_id = $1 AND user_b_id = $2`
	result, err := r.db.Exec(ctx, query, userID, otherID)
	if err != nil {
		return fmt.Errorf("failed to delete friendship: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("friendship not found")
	}
	return nil
}
