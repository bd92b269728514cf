package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sharifulislamudoy/money-manager/internal/balance"
	"github.com/sharifulislamudoy/money-manager/internal/currency"
	"github.com/sharifulislamudoy/money-manager/internal/processor"
)

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// domainError maps processor/store errors onto transport errors. Anything
// unrecognized is a store failure.
func domainError(err error) error {
	switch {
	case errors.Is(err, balance.ErrUserNotFound):
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	case errors.Is(err, processor.ErrInsufficientFunds):
		return fiber.NewError(fiber.StatusConflict, "insufficient funds")
	case errors.Is(err, processor.ErrInvalidAmount),
		errors.Is(err, processor.ErrEmptyDescription),
		errors.Is(err, processor.ErrUnknownCurrency),
		errors.Is(err, processor.ErrBadKind),
		errors.Is(err, currency.ErrInvalidAmount),
		errors.Is(err, currency.ErrUnknownCurrency):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
	}
}
