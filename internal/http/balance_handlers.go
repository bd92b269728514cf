package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sharifulislamudoy/money-manager/internal/audit"
	"github.com/sharifulislamudoy/money-manager/internal/auth"
	"github.com/sharifulislamudoy/money-manager/internal/processor"
)

type BalanceHandler struct {
	Processor *processor.Processor
	Audit     *audit.Recorder
}

func NewBalanceHandler(p *processor.Processor, rec *audit.Recorder) *BalanceHandler {
	return &BalanceHandler{Processor: p, Audit: rec}
}

type putBalanceRequest struct {
	BalanceBDT float64 `json:"balanceBDT"`
	BalanceUSD float64 `json:"balanceUSD"`
}

func (h *BalanceHandler) Get(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	bal, err := h.Processor.CurrentBalances(userContext(c), userID)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(fiber.Map{
		"balanceBDT": bal.BDT,
		"balanceUSD": bal.USD,
	})
}

// Put is a direct overwrite of both balances, not a delta. The ledger is
// untouched.
func (h *BalanceHandler) Put(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body putBalanceRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	ctx := userContext(c)
	if err := h.Processor.OverwriteBalances(ctx, userID, body.BalanceBDT, body.BalanceUSD); err != nil {
		return domainError(err)
	}

	_ = h.Audit.Record(ctx, audit.Entry{
		UserID:     userID,
		Action:     "balance.overwrite",
		EntityType: "balance",
	})

	return c.JSON(fiber.Map{
		"success":    true,
		"balanceBDT": body.BalanceBDT,
		"balanceUSD": body.BalanceUSD,
	})
}
