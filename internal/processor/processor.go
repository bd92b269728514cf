// Package processor implements the balance-transaction consistency model:
// a monetary operation converts the entered amount into both currencies,
// moves both balances by the converted amounts, and appends one immutable
// ledger entry recording what was done.
package processor

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/sharifulislamudoy/money-manager/internal/balance"
	"github.com/sharifulislamudoy/money-manager/internal/currency"
	"github.com/sharifulislamudoy/money-manager/internal/ledger"
)

type Kind string

const (
	Add   Kind = "add"
	Minus Kind = "minus"
)

var (
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrEmptyDescription  = errors.New("description must not be empty")
	ErrUnknownCurrency   = errors.New("currency must be BDT or USD")
	ErrBadKind           = errors.New("type must be add or minus")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// BalanceStore is the per-user balance pair. Update is guarded by the
// version returned from Get; Set overwrites unconditionally.
type BalanceStore interface {
	Get(ctx context.Context, userID string) (balance.Balances, error)
	Update(ctx context.Context, userID string, bdt, usd float64, expectVersion int64) error
	Set(ctx context.Context, userID string, bdt, usd float64) error
}

// LedgerStore is the append-only transaction record collection.
type LedgerStore interface {
	Insert(ctx context.Context, t ledger.Transaction) (ledger.Transaction, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]ledger.Transaction, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// maxAttempts bounds the read-compute-write retry loop on version conflicts.
const maxAttempts = 3

type Processor struct {
	Balances BalanceStore
	Ledger   LedgerStore
	Rates    currency.Rates
}

func New(balances BalanceStore, led LedgerStore, rates currency.Rates) *Processor {
	return &Processor{Balances: balances, Ledger: led, Rates: rates}
}

// RecordOperation applies one add/minus operation for the user and returns
// the persisted ledger entry. The balance write is version-guarded and
// retried on conflict; the ledger append that follows is a separate write
// with no atomic unit spanning the two.
func (p *Processor) RecordOperation(ctx context.Context, userID string, kind Kind, amount float64, cur currency.Code, description string) (ledger.Transaction, error) {
	if kind != Add && kind != Minus {
		return ledger.Transaction{}, ErrBadKind
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return ledger.Transaction{}, ErrInvalidAmount
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return ledger.Transaction{}, ErrEmptyDescription
	}
	if !cur.Valid() {
		return ledger.Transaction{}, ErrUnknownCurrency
	}

	bdtAmount, usdAmount, err := p.Rates.Convert(amount, cur)
	if err != nil {
		return ledger.Transaction{}, err
	}

	for attempt := 0; ; attempt++ {
		bal, err := p.Balances.Get(ctx, userID)
		if err != nil {
			return ledger.Transaction{}, err
		}

		if kind == Minus {
			// The funds check is against the balance in the operation's own
			// currency, not the converted opposite side.
			available := bal.BDT
			if cur == currency.USD {
				available = bal.USD
			}
			if amount > available {
				return ledger.Transaction{}, ErrInsufficientFunds
			}
		}

		sign := 1.0
		if kind == Minus {
			sign = -1.0
		}
		newBDT := bal.BDT + sign*bdtAmount
		newUSD := bal.USD + sign*usdAmount

		err = p.Balances.Update(ctx, userID, newBDT, newUSD, bal.Version)
		if errors.Is(err, balance.ErrVersionConflict) && attempt < maxAttempts-1 {
			continue
		}
		if err != nil {
			return ledger.Transaction{}, err
		}
		break
	}

	rec := ledger.Transaction{
		UserID:      userID,
		Type:        string(kind),
		Amount:      amount,
		USDAmount:   usdAmount,
		BDTAmount:   bdtAmount,
		Currency:    string(cur),
		Description: description,
		Timestamp:   time.Now().UTC(),
	}
	return p.Ledger.Insert(ctx, rec)
}

// CurrentBalances reads the user's balance pair.
func (p *Processor) CurrentBalances(ctx context.Context, userID string) (balance.Balances, error) {
	return p.Balances.Get(ctx, userID)
}

// OverwriteBalances sets both balances directly. This is the PUT /balance
// overwrite; it does not touch the ledger.
func (p *Processor) OverwriteBalances(ctx context.Context, userID string, bdt, usd float64) error {
	if math.IsNaN(bdt) || math.IsInf(bdt, 0) || math.IsNaN(usd) || math.IsInf(usd, 0) {
		return ErrInvalidAmount
	}
	return p.Balances.Set(ctx, userID, bdt, usd)
}

// ResetBalances zeroes both balances. The ledger is untouched.
func (p *Processor) ResetBalances(ctx context.Context, userID string) error {
	return p.Balances.Set(ctx, userID, 0, 0)
}

// ClearHistory deletes every transaction the user owns. Balances are
// untouched.
func (p *Processor) ClearHistory(ctx context.Context, userID string) (int64, error) {
	return p.Ledger.DeleteByUser(ctx, userID)
}

// ListHistory returns the user's transactions newest-first, bounded by
// limit (the store clamps to its default when limit is out of range).
func (p *Processor) ListHistory(ctx context.Context, userID string, limit int) ([]ledger.Transaction, error) {
	return p.Ledger.ListByUser(ctx, userID, limit)
}
