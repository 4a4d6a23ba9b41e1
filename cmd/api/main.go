package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"paisatrack/internal/agent"
	"paisatrack/internal/analytics"
	"paisatrack/internal/api"
	"paisatrack/internal/api/handlers"
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
	logger.Info("database migrations completed")

	repos := &handlers.Repositories{
		Users:        repository.NewUserRepository(db),
		ChatMessages: repository.NewChatMessageRepository(db),
		Categories:   repository.NewCategoryRepository(db),
		Transactions: repository.NewTransactionRepository(db),
		Budgets:      repository.NewBudgetRepository(db),
		Goals:        repository.NewGoalRepository(db),
		Bills:        repository.NewBillRepository(db),
	}

	engine := analytics.NewEngine(repos.Transactions, repos.Budgets)
	registry := agent.NewRegistry(agent.ToolDeps{
		Engine:       engine,
		Categories:   repos.Categories,
		Transactions: repos.Transactions,
		Budgets:      repos.Budgets,
		Goals:        repos.Goals,
		Now:          time.Now,
	})
	llm := agent.NewClient(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
	assistant := agent.New(llm, repos.ChatMessages, registry, time.Now, logger.With("component", "agent"))
	logger.Info("assistant initialized", "model", cfg.AIModel)

	h := handlers.New(repos, engine, assistant, cfg.JWTSecret, time.Now, logger.With("component", "api"))
	router := api.NewRouter(h, cfg.JWTSecret)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
