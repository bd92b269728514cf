package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sharifulislamudoy/money-manager/internal/admin"
	"github.com/sharifulislamudoy/money-manager/internal/auth"
	handlers "github.com/sharifulislamudoy/money-manager/internal/http"
	"github.com/sharifulislamudoy/money-manager/internal/reports"
)

type Router struct {
	Google              *auth.Google
	BalanceHandler      *handlers.BalanceHandler
	TransactionsHandler *handlers.TransactionsHandler
	SessionHandler      *handlers.SessionHandler
	ReportsHandler      *reports.Handler
	AdminHandler        *admin.Handler
	AuthMW              fiber.Handler
	AdminMW             fiber.Handler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	if r.Google != nil {
		app.Get("/api/auth/google", r.Google.Login)
		app.Get("/api/auth/google/callback", r.Google.Callback)
		app.Post("/api/auth/logout", r.Google.Logout)
	}

	if r.BalanceHandler != nil {
		app.Get("/balance", r.AuthMW, r.BalanceHandler.Get)
		app.Put("/balance", r.AuthMW, r.BalanceHandler.Put)
	}

	if r.TransactionsHandler != nil {
		app.Get("/transactions", r.AuthMW, r.TransactionsHandler.List)
		app.Post("/transactions", TransactionLimiter(), r.AuthMW, r.TransactionsHandler.Create)
		app.Delete("/transactions", r.AuthMW, r.TransactionsHandler.Clear)
	}

	if r.ReportsHandler != nil {
		app.Get("/transactions/statement", r.AuthMW, r.ReportsHandler.StatementPDF)
	}

	if r.SessionHandler != nil {
		app.Get("/api/me", r.AuthMW, r.SessionHandler.Me)
	}

	if r.AdminHandler != nil && r.AdminMW != nil {
		app.Get("/api/admin/overview", r.AdminMW, r.AdminHandler.Overview)
	}
}
