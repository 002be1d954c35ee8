package product

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"kaaswinkel/internal/domain"
)

const productColumns = `id, naam, COALESCE(omschrijving, ''), categorie, prijs_cent, COALESCE(afbeelding, ''), actief, created_at`

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

func (r *postgresRepo) List(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	q := `
SELECT ` + productColumns + `
FROM kaas
`
	if activeOnly {
		q += "WHERE actief\n"
	}
	q += "ORDER BY naam ASC"

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM kaas
WHERE id = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO kaas (id, naam, omschrijving, categorie, prijs_cent, afbeelding, actief)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7)
RETURNING ` + productColumns
	created, err := scanProduct(r.pool.QueryRow(ctx, q, p.ID, p.Name, p.Description, p.Category, p.PriceCents, p.ImageRef, p.Active))
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
UPDATE kaas
SET naam = $1,
    omschrijving = NULLIF($2, ''),
    categorie = $3,
    prijs_cent = $4,
    afbeelding = NULLIF($5, ''),
    actief = $6
WHERE id = $7
RETURNING ` + productColumns
	updated, err := scanProduct(r.pool.QueryRow(ctx, q, p.Name, p.Description, p.Category, p.PriceCents, p.ImageRef, p.Active, p.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM kaas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) error {
	const q = `
INSERT INTO kaas (id, naam, omschrijving, categorie, prijs_cent, afbeelding, actief)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7)
ON CONFLICT (id) DO UPDATE SET
    naam = EXCLUDED.naam,
    omschrijving = EXCLUDED.omschrijving,
    categorie = EXCLUDED.categorie,
    prijs_cent = EXCLUDED.prijs_cent,
    afbeelding = EXCLUDED.afbeelding,
    actief = EXCLUDED.actief
`
	_, err := r.pool.Exec(ctx, q, p.ID, p.Name, p.Description, p.Category, p.PriceCents, p.ImageRef, p.Active)
	return err
}

func (r *postgresRepo) SaveImage(ctx context.Context, img domain.ProductImage, productID string) (string, error) {
	const q = `
INSERT INTO kaas_afbeeldingen (id, kaas_id, mime_type, data)
VALUES ($1, NULLIF($2, ''), $3, $4)
RETURNING id::text
`
	var id string
	if err := r.pool.QueryRow(ctx, q, img.ID, productID, img.MimeType, img.Data).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (r *postgresRepo) GetImage(ctx context.Context, id string) (*domain.ProductImage, error) {
	const q = `
SELECT id::text, mime_type, data
FROM kaas_afbeeldingen
WHERE id = $1
`
	var img domain.ProductImage
	if err := r.pool.QueryRow(ctx, q, id).Scan(&img.ID, &img.MimeType, &img.Data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &img, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Category,
		&p.PriceCents,
		&p.ImageRef,
		&p.Active,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
