package ledger

import "time"

// Transaction is one immutable ledger entry. The usdAmount/bdtAmount pair is
// the converter's output at creation time and is never recomputed, so later
// rate changes do not rewrite history.
type Transaction struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	Type        string    `db:"type" json:"type"` // "add" | "minus"
	Amount      float64   `db:"amount" json:"amount"`
	USDAmount   float64   `db:"usd_amount" json:"usdAmount"`
	BDTAmount   float64   `db:"bdt_amount" json:"bdtAmount"`
	Currency    string    `db:"currency" json:"currency"` // "BDT" | "USD"
	Description string    `db:"description" json:"description"`
	Timestamp   time.Time `db:"ts" json:"timestamp"`
}
