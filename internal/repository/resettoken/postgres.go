package resettoken

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"kaaswinkel/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, t domain.ResetToken) error {
	const q = `
INSERT INTO wachtwoord_reset_tokens (id, user_id, token, expires_at, gebruikt)
VALUES ($1, $2, $3, $4, FALSE)
`
	_, err := r.pool.Exec(ctx, q, t.ID, t.UserID, t.Token, t.ExpiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *postgresRepo) Get(ctx context.Context, token string) (*domain.ResetToken, error) {
	const q = `
SELECT id::text, user_id::text, token, expires_at, gebruikt, created_at
FROM wachtwoord_reset_tokens
WHERE token = $1
LIMIT 1
`
	var t domain.ResetToken
	err := r.pool.QueryRow(ctx, q, token).Scan(
		&t.ID,
		&t.UserID,
		&t.Token,
		&t.ExpiresAt,
		&t.Used,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresRepo) MarkUsed(ctx context.Context, token string) error {
	const q = `
UPDATE wachtwoord_reset_tokens
SET gebruikt = TRUE
WHERE token = $1
`
	cmd, err := r.pool.Exec(ctx, q, token)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
