package models

import "time"

// Chat roles as persisted in the conversation log. System prompts are built
// fresh each turn and never stored.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ChatMessage is one persisted row of a user's conversation log.
type ChatMessage struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	ToolName  *string   `json:"tool_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatContext is the slice of a message replayed to the model when a
// conversation resumes.
type ChatContext struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
