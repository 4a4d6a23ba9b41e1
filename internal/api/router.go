package api

import (
	"github.com/gin-gonic/gin"

	"paisatrack/internal/api/handlers"
	"paisatrack/internal/api/middleware"
)

// NewRouter wires all HTTP routes. Everything except auth requires a valid
// bearer token.
func NewRouter(h *handlers.Handler, jwtSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())

	authMiddleware := middleware.NewAuthMiddleware(jwtSecret)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
			auth.GET("/me", authMiddleware.RequireAuth(), h.Me)
		}

		protected := api.Group("", authMiddleware.RequireAuth())
		{
			protected.POST("/chat", h.Chat)

			protected.GET("/transactions", h.ListTransactions)
			protected.POST("/transactions", h.CreateTransaction)
			protected.PUT("/transactions/:id", h.UpdateTransaction)
			protected.DELETE("/transactions/:id", h.DeleteTransaction)

			protected.GET("/categories", h.ListCategories)
			protected.POST("/categories", h.CreateCategory)

			protected.GET("/budgets", h.ListBudgets)
			protected.POST("/budgets", h.CreateBudget)
			protected.PUT("/budgets/:id", h.UpdateBudget)
			protected.DELETE("/budgets/:id", h.DeleteBudget)
			protected.GET("/budgets/status/current", h.BudgetStatus)

			protected.GET("/goals", h.ListGoals)
			protected.POST("/goals", h.CreateGoal)
			protected.PUT("/goals/:id", h.UpdateGoal)
			protected.DELETE("/goals/:id", h.DeleteGoal)

			protected.GET("/bills", h.ListBills)
			protected.GET("/bills/calendar", h.BillsCalendar)
			protected.POST("/bills", h.CreateBill)
			protected.PUT("/bills/:id", h.UpdateBill)
			protected.PATCH("/bills/:id/paid", h.MarkBillPaid)
			protected.DELETE("/bills/:id", h.DeleteBill)

			protected.GET("/analytics/summary", h.Summary)
			protected.GET("/analytics/anomalies", h.Anomalies)
		}
	}

	return r
}
