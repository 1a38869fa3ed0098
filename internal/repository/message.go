package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sam4007/studylink-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageRepository handles database operations for messages
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageColumns = `id, conversation_id, sender_id, sender_name, receiver_id, body, created_at, status, seen_at`

// Create creates a new message
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (` + messageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		message.ID, message.ConversationID, message.SenderID, message.SenderName,
		message.ReceiverID, message.Body, message.CreatedAt, message.Status, message.SeenAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListBySender retrieves all messages sent by a user
func (r *MessageRepository) ListBySender(ctx context.Context, senderID string) ([]models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE sender_id = $1`
	return r.list(ctx, query, senderID)
}

// ListByReceiver retrieves all messages received by a user
func (r *MessageRepository) ListByReceiver(ctx context.Context, receiverID string) ([]models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE receiver_id = $1`
	return r.list(ctx, query, receiverID)
}

// ListByConversationID retrieves all messages of one conversation. No
// ORDER BY: the conversation_id filter cannot be combined with an
// ordering clause under the current indexing, so callers sort.
func (r *MessageRepository) ListByConversationID(ctx context.Context, conversationID string) ([]models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE conversation_id = $1`
	return r.list(ctx, query, conversationID)
}

func (r *MessageRepository) list(ctx context.Context, query string, arg any) ([]models.Message, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		err := rows.Scan(
			&m.ID, &m.ConversationID, &m.SenderID, &m.SenderName,
			&m.ReceiverID, &m.Body, &m.CreatedAt, &m.Status, &m.SeenAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	return messages, nil
}

// MarkSeen transitions the given messages to seen with one seen
// timestamp, as a single batch inside a transaction so the updates land
// all-or-nothing. An empty ID list issues no write at all.
func (r *MessageRepository) MarkSeen(ctx context.Context, messageIDs []string, seenAt time.Time) error {
	if len(messageIDs) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin mark-seen transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	query := `UPDATE messages SET status = $1, seen_at = $2 WHERE id = $3 AND status = $4`
	for _, id := range messageIDs {
		batch.Queue(query, models.StatusSeen, seenAt, id, models.StatusSent)
	}

	results := tx.SendBatch(ctx, batch)
	for range messageIDs {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to mark message seen: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close mark-seen batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit mark-seen transaction: %w", err)
	}
	return nil
}
