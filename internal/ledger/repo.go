package ledger

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultLimit bounds history queries when the caller passes no usable limit.
const DefaultLimit = 50

type Repo struct {
	Pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

func (r *Repo) Insert(ctx context.Context, t Transaction) (Transaction, error) {
	err := r.Pool.QueryRow(ctx,
		`INSERT INTO transactions (user_id, type, amount, usd_amount, bdt_amount, currency, description, ts)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id::text`,
		t.UserID, t.Type, t.Amount, t.USDAmount, t.BDTAmount, t.Currency, t.Description, t.Timestamp,
	).Scan(&t.ID)
	if err != nil {
		return Transaction{}, err
	}
	return t, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID string, limit int) ([]Transaction, error) {
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}

	rows, err := r.Pool.Query(ctx,
		`SELECT id::text, user_id::text, type, amount, usd_amount, bdt_amount, currency, description, ts
		 FROM transactions
		 WHERE user_id = $1::uuid
		 ORDER BY ts DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Transaction, 0, limit)
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.USDAmount, &t.BDTAmount, &t.Currency, &t.Description, &t.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	ct, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1::uuid`, userID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
