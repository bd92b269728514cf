package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sharifulislamudoy/money-manager/internal/audit"
	"github.com/sharifulislamudoy/money-manager/internal/auth"
	"github.com/sharifulislamudoy/money-manager/internal/currency"
	"github.com/sharifulislamudoy/money-manager/internal/ledger"
	"github.com/sharifulislamudoy/money-manager/internal/processor"
)

type TransactionsHandler struct {
	Processor *processor.Processor
	Audit     *audit.Recorder
}

func NewTransactionsHandler(p *processor.Processor, rec *audit.Recorder) *TransactionsHandler {
	return &TransactionsHandler{Processor: p, Audit: rec}
}

// createTransactionRequest carries only the operation inputs. Conversion
// amounts and the timestamp are computed server-side; any client-supplied
// values for them are ignored.
type createTransactionRequest struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
}

func (h *TransactionsHandler) List(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	items, err := h.Processor.ListHistory(userContext(c), userID, c.QueryInt("limit"))
	if err != nil {
		return domainError(err)
	}
	if items == nil {
		items = []ledger.Transaction{}
	}
	return c.JSON(items)
}

func (h *TransactionsHandler) Create(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body createTransactionRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	kind := processor.Kind(strings.ToLower(strings.TrimSpace(body.Type)))
	cur := currency.Normalize(body.Currency)

	ctx := userContext(c)
	rec, err := h.Processor.RecordOperation(ctx, userID, kind, body.Amount, cur, body.Description)
	if err != nil {
		return domainError(err)
	}

	entityID := rec.ID
	_ = h.Audit.Record(ctx, audit.Entry{
		UserID:     userID,
		Action:     "transaction." + rec.Type,
		EntityType: "transaction",
		EntityID:   &entityID,
	})

	return c.JSON(fiber.Map{
		"success":     true,
		"transaction": rec,
	})
}

func (h *TransactionsHandler) Clear(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	ctx := userContext(c)
	if _, err := h.Processor.ClearHistory(ctx, userID); err != nil {
		return domainError(err)
	}

	_ = h.Audit.Record(ctx, audit.Entry{
		UserID:     userID,
		Action:     "transaction.clear",
		EntityType: "transaction",
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "All transactions deleted",
	})
}
