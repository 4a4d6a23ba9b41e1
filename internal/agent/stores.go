package agent

import (
	"context"
	"time"

	"paisatrack/internal/models"
)

// Clock supplies "now" so turns and tool defaults are deterministic in tests.
type Clock func() time.Time

// ConversationStore is the append-only per-user message log.
type ConversationStore interface {
	Append(ctx context.Context, userID int64, role, content string, toolName *string) (int64, error)
	RecentContext(ctx context.Context, userID int64, limit int) ([]models.ChatContext, error)
}

// CategoryStore supports the get-or-create lookups the tools perform.
// Concurrent creators may race and produce duplicate rows; category identity
// is advisory, so the duplicates are tolerated.
type CategoryStore interface {
	FindByNameAndType(ctx context.Context, userID int64, name string, txType models.TransactionType) (*models.Category, error)
	FindByName(ctx context.Context, userID int64, name string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
}

type TransactionWriter interface {
	Create(ctx context.Context, tx *models.Transaction) error
}

type BudgetWriter interface {
	Upsert(ctx context.Context, b *models.Budget) error
}

type GoalWriter interface {
	Create(ctx context.Context, g *models.Goal) error
}
