package audit

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Entry struct {
	UserID     string
	Action     string
	EntityType string
	EntityID   *string
	Metadata   []byte
}

// Recorder appends audit rows for mutating operations. A nil Recorder (or
// nil pool) is a no-op so handler tests run without a database.
type Recorder struct {
	Pool *pgxpool.Pool
}

func (r *Recorder) Record(ctx context.Context, e Entry) error {
	if r == nil || r.Pool == nil {
		return nil
	}

	var metadata interface{}
	if len(e.Metadata) > 0 {
		metadata = json.RawMessage(e.Metadata)
	}

	_, err := r.Pool.Exec(ctx, `
INSERT INTO audit_logs (user_id, action, entity_type, entity_id, metadata)
VALUES ($1::uuid, $2, $3, $4, $5)
`, e.UserID, e.Action, e.EntityType, e.EntityID, metadata)

	return err
}
