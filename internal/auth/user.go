package auth

import "context"

// firstSeen creates the user record on first successful sign-in, with both
// balances at zero, and returns the user id either way. The display name is
// only written at creation time.
func (g *Google) firstSeen(ctx context.Context, email, name string) (string, error) {
	if name == "" {
		name = email
	}
	var id string
	err := g.Pool.QueryRow(ctx,
		`INSERT INTO users (email, name)
		 VALUES ($1, $2)
		 ON CONFLICT (email) DO UPDATE SET updated_at = NOW()
		 RETURNING id::text`,
		email, name,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}
