package sqlite

import (
	"context"
	"time"

	"github.com/potluckhq/potluck/internal/domain"
	"github.com/potluckhq/potluck/internal/store"
)

type tokensRepo struct {
	db dbtx
}

const tokenColumns = `id, user_id, kind, value, expires_at, created_at`

func scanToken(row interface{ Scan(dest ...any) error }) (domain.OneTimeToken, error) {
	var t domain.OneTimeToken
	err := row.Scan(&t.ID, &t.UserID, &t.Kind, &t.Value, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		return domain.OneTimeToken{}, err
	}
	return t, nil
}

func (r *tokensRepo) CreateToken(ctx context.Context, t domain.OneTimeToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tokens (id, user_id, kind, value, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Kind, t.Value, t.ExpiresAt, t.CreatedAt)
	return mapConstraint(err)
}

func (r *tokensRepo) GetTokenByValue(ctx context.Context, value string) (domain.OneTimeToken, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+tokenColumns+` FROM tokens WHERE value = ?`, value)

	t, err := scanToken(row)
	if err != nil {
		return domain.OneTimeToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tokensRepo) GetTokenForUser(ctx context.Context, value, userID, kind string) (domain.OneTimeToken, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+tokenColumns+` FROM tokens WHERE value = ? AND user_id = ? AND kind = ?`,
		value, userID, kind)

	t, err := scanToken(row)
	if err != nil {
		return domain.OneTimeToken{}, mapNotFound(err)
	}
	return t, nil
}

// ConsumeToken deletes the token row. The rows-affected check is what makes
// single use atomic: two racing consumers can't both see a deletion.
func (r *tokensRepo) ConsumeToken(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *tokensRepo) DeleteExpiredTokens(ctx context.Context) error {
	// Bind the cutoff instead of CURRENT_TIMESTAMP so the comparison uses
	// the same value format the driver writes.
	_, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE expires_at < ?`, time.Now().UTC())
	return err
}
