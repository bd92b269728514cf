package balance

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound = errors.New("user not found")

	// ErrVersionConflict means another writer got in between our read and
	// write. Callers re-read and retry.
	ErrVersionConflict = errors.New("balance version conflict")
)

// Balances is the per-user mutable pair plus its optimistic-concurrency
// counter.
type Balances struct {
	BDT     float64
	USD     float64
	Version int64
}

type Repo struct {
	Pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

func (r *Repo) Get(ctx context.Context, userID string) (Balances, error) {
	var b Balances
	err := r.Pool.QueryRow(ctx,
		`SELECT balance_bdt, balance_usd, balance_version FROM users WHERE id = $1::uuid`,
		userID,
	).Scan(&b.BDT, &b.USD, &b.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return Balances{}, ErrUserNotFound
	}
	if err != nil {
		return Balances{}, err
	}
	return b, nil
}

// Update writes both balances guarded by the version read alongside them.
func (r *Repo) Update(ctx context.Context, userID string, bdt, usd float64, expectVersion int64) error {
	ct, err := r.Pool.Exec(ctx,
		`UPDATE users
		 SET balance_bdt = $2, balance_usd = $3, balance_version = balance_version + 1, updated_at = NOW()
		 WHERE id = $1::uuid AND balance_version = $4`,
		userID, bdt, usd, expectVersion,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		// Either the row is gone or someone else bumped the version.
		if _, getErr := r.Get(ctx, userID); errors.Is(getErr, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

// Set overwrites both balances unconditionally (PUT /balance and reset).
// Last writer wins, matching the original overwrite semantics.
func (r *Repo) Set(ctx context.Context, userID string, bdt, usd float64) error {
	ct, err := r.Pool.Exec(ctx,
		`UPDATE users
		 SET balance_bdt = $2, balance_usd = $3, balance_version = balance_version + 1, updated_at = NOW()
		 WHERE id = $1::uuid`,
		userID, bdt, usd,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
