package domain

import "time"

// User represents a persisted user record. Balances are kept per currency
// and live independently of the transaction ledger.
type User struct {
	ID             string     `db:"id" json:"id"`
	Email          string     `db:"email" json:"email"`
	Name           string     `db:"name" json:"name"`
	BalanceBDT     float64    `db:"balance_bdt" json:"balanceBDT"`
	BalanceUSD     float64    `db:"balance_usd" json:"balanceUSD"`
	BalanceVersion int64      `db:"balance_version" json:"-"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	LastSeenAt     *time.Time `db:"last_seen_at" json:"last_seen_at,omitempty"`
}
