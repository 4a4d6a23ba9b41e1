package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paisatrack/internal/agent"
	"paisatrack/internal/analytics"
	"paisatrack/internal/bot"
	"paisatrack/internal/config"
	"paisatrack/internal/database"
	"paisatrack/internal/repository"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.DatabaseURI == "" {
		logger.Error("DATABASE_URI is required")
		os.Exit(1)
	}
	if cfg.TelegramToken == "" {
		logger.Error("TELEGRAM_TOKEN is required")
		os.Exit(1)
	}
	if cfg.AIAPIKey == "" {
		logger.Error("AI_API_KEY is required")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	if err := db.Migrate(ctx); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	users := repository.NewUserRepository(db)
	chatMessages := repository.NewChatMessageRepository(db)
	categories := repository.NewCategoryRepository(db)
	transactions := repository.NewTransactionRepository(db)
	budgets := repository.NewBudgetRepository(db)
	goals := repository.NewGoalRepository(db)

	engine := analytics.NewEngine(transactions, budgets)
	registry := agent.NewRegistry(agent.ToolDeps{
		Engine:       engine,
		Categories:   categories,
		Transactions: transactions,
		Budgets:      budgets,
		Goals:        goals,
		Now:          time.Now,
	})
	llm := agent.NewClient(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
	assistant := agent.New(llm, chatMessages, registry, time.Now, logger.With("component", "agent"))

	b, err := bot.New(cfg.TelegramToken, assistant, users, logger.With("component", "bot"))
	if err != nil {
		logger.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	logger.Info("starting bot", "model", cfg.AIModel)
	if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("bot error", "error", err)
		os.Exit(1)
	}
}
