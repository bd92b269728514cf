package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	Pool *pgxpool.Pool
}

func NewHandler(pool *pgxpool.Pool) *Handler {
	return &Handler{Pool: pool}
}

type latestUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type latestTx struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Timestamp string  `json:"timestamp"`
}

type OverviewResponse struct {
	UsersTotal        int64        `json:"users_total"`
	TransactionsTotal int64        `json:"transactions_total"`
	LatestUsers       []latestUser `json:"latest_users"`
	LatestTx          []latestTx   `json:"latest_transactions"`
}

func (h *Handler) Overview(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var resp OverviewResponse

	if err := h.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&resp.UsersTotal); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed users_total: "+err.Error())
	}
	if err := h.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&resp.TransactionsTotal); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed transactions_total: "+err.Error())
	}

	{
		rows, err := h.Pool.Query(ctx, `
			SELECT id::text, email, created_at::text
			FROM users
			ORDER BY created_at DESC
			LIMIT 20`)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed latest_users: "+err.Error())
		}
		defer rows.Close()

		for rows.Next() {
			var u latestUser
			if err := rows.Scan(&u.ID, &u.Email, &u.CreatedAt); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "failed scan latest_users: "+err.Error())
			}
			resp.LatestUsers = append(resp.LatestUsers, u)
		}
		if err := rows.Err(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed latest_users rows: "+err.Error())
		}
	}

	{
		rows, err := h.Pool.Query(ctx, `
			SELECT id::text, user_id::text, type, amount, currency, ts::text
			FROM transactions
			ORDER BY ts DESC
			LIMIT 20`)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed latest_transactions: "+err.Error())
		}
		defer rows.Close()

		for rows.Next() {
			var t latestTx
			if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Currency, &t.Timestamp); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "failed scan latest_transactions: "+err.Error())
			}
			resp.LatestTx = append(resp.LatestTx, t)
		}
		if err := rows.Err(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed latest_transactions rows: "+err.Error())
		}
	}

	return c.JSON(resp)
}
