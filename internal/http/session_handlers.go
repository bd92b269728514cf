package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sharifulislamudoy/money-manager/internal/auth"
	"github.com/sharifulislamudoy/money-manager/internal/domain"
)

// SessionHandler serves the enriched session view: the identity the token
// resolved to, plus current balances.
type SessionHandler struct {
	DB *pgxpool.Pool
}

func (h *SessionHandler) Me(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var u domain.User
	err := h.DB.QueryRow(userContext(c),
		`SELECT id::text, email, name, balance_bdt, balance_usd, created_at, last_seen_at
		 FROM users WHERE id = $1::uuid`,
		userID,
	).Scan(&u.ID, &u.Email, &u.Name, &u.BalanceBDT, &u.BalanceUSD, &u.CreatedAt, &u.LastSeenAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(u)
}
