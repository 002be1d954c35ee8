package user

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"kaaswinkel/internal/domain"
)

const userColumns = `id::text, email, password_hash, voornaam, achternaam,
       COALESCE(bedrijfsnaam, ''), COALESCE(telefoon, ''), COALESCE(straat, ''),
       COALESCE(postcode, ''), COALESCE(plaats, ''), COALESCE(land, ''), is_admin, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (id, email, password_hash, voornaam, achternaam, bedrijfsnaam, telefoon, straat, postcode, plaats, land, is_admin)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''), $12)
RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(ctx, q,
		u.ID,
		strings.ToLower(u.Email),
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.CompanyName,
		u.Phone,
		u.Street,
		u.PostalCode,
		u.City,
		u.Country,
		u.IsAdmin,
	))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE lower(email) = lower($1)
LIMIT 1
`
	return r.scanUser(r.pool.QueryRow(ctx, q, email))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
LIMIT 1
`
	return r.scanUser(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*domain.User, error) {
	const q = `
UPDATE users
SET voornaam = $1,
    achternaam = $2,
    bedrijfsnaam = NULLIF($3, ''),
    telefoon = $4,
    straat = $5,
    postcode = $6,
    plaats = $7,
    land = $8
WHERE id = $9
RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(ctx, q,
		in.FirstName,
		in.LastName,
		in.CompanyName,
		in.Phone,
		in.Street,
		in.PostalCode,
		in.City,
		in.Country,
		id,
	))
}

func (r *postgresRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const q = `
UPDATE users
SET password_hash = $1
WHERE id = $2
`
	cmd, err := r.pool.Exec(ctx, q, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) HasAdmin(ctx context.Context) (bool, error) {
	const q = `
SELECT EXISTS (SELECT 1 FROM users WHERE is_admin)
`
	var exists bool
	if err := r.pool.QueryRow(ctx, q).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *postgresRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.CompanyName,
		&u.Phone,
		&u.Street,
		&u.PostalCode,
		&u.City,
		&u.Country,
		&u.IsAdmin,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error("user repo scan failed", zap.Error(err))
		return nil, err
	}
	return &u, nil
}
