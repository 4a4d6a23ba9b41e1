package handlers

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"paisatrack/internal/agent"
	"paisatrack/internal/analytics"
	"paisatrack/internal/repository"
)

type Repositories struct {
	Users        *repository.UserRepository
	ChatMessages *repository.ChatMessageRepository
	Categories   *repository.CategoryRepository
	Transactions *repository.TransactionRepository
	Budgets      *repository.BudgetRepository
	Goals        *repository.GoalRepository
	Bills        *repository.BillRepository
}

type Handler struct {
	repos     *Repositories
	engine    *analytics.Engine
	agent     *agent.Agent
	jwtSecret string
	now       func() time.Time
	log       *slog.Logger
}

func New(repos *Repositories, engine *analytics.Engine, ag *agent.Agent, jwtSecret string, now func() time.Time, logger *slog.Logger) *Handler {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		repos:     repos,
		engine:    engine,
		agent:     ag,
		jwtSecret: jwtSecret,
		now:       now,
		log:       logger,
	}
}

func currentUserID(c *gin.Context) int64 {
	return c.MustGet("userID").(int64)
}
