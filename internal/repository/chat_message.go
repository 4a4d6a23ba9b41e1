package repository

import (
	"context"

	"paisatrack/internal/database"
	"paisatrack/internal/models"
)

type ChatMessageRepository struct {
	db *database.DB
}

func NewChatMessageRepository(db *database.DB) *ChatMessageRepository {
	return &ChatMessageRepository{db: db}
}

// Append persists one message with a server-assigned timestamp and returns
// its id. The log is append-only; rows are never updated or deleted.
func (r *ChatMessageRepository) Append(ctx context.Context, userID int64, role, content string, toolName *string) (int64, error) {
	var id int64
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO chat_messages (user_id, role, content, tool_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		userID, role, content, toolName,
	).Scan(&id)
	return id, err
}

// RecentContext returns the most recent limit messages ascending by creation
// time. Tool-role rows are excluded: without their originating tool_calls
// they would make the completion request schema invalid.
func (r *ChatMessageRepository) RecentContext(ctx context.Context, userID int64, limit int) ([]models.ChatContext, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT role, content FROM (
		     SELECT id, role, content, created_at
		     FROM chat_messages
		     WHERE user_id = $1 AND role <> 'tool'
		     ORDER BY created_at DESC, id DESC
		     LIMIT $2
		 ) recent
		 ORDER BY created_at ASC, id ASC`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.ChatContext
	for rows.Next() {
		var m models.ChatContext
		if err := rows.Scan(&m.Role, &m.Content); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
