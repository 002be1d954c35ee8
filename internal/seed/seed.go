package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"kaaswinkel/internal/domain"
	productrepo "kaaswinkel/internal/repository/product"
	userrepo "kaaswinkel/internal/repository/user"
)

// Apply inserts the starter catalog and bootstraps the admin account. It is
// idempotent: products upsert on id and the admin is only created when no
// admin exists yet.
func Apply(ctx context.Context, pool *pgxpool.Pool, adminEmail, adminPassword string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	products := productrepo.NewPostgres(pool, logger)
	for _, p := range catalog() {
		if err := products.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
	}
	logger.Info("catalog seeded", zap.Int("products", len(catalog())))

	if adminEmail == "" || adminPassword == "" {
		logger.Info("no admin credentials configured, skipping admin bootstrap")
		return nil
	}
	if err := ensureAdmin(ctx, userrepo.NewPostgres(pool, logger), adminEmail, adminPassword, logger); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	return nil
}

func ensureAdmin(ctx context.Context, users userrepo.Repository, email, password string, logger *zap.Logger) error {
	exists, err := users.HasAdmin(ctx)
	if err != nil {
		return err
	}
	if exists {
		logger.Info("admin account already present")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}
	_, err = users.Create(ctx, domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Beheer",
		LastName:     "Old Maastricht",
		IsAdmin:      true,
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		logger.Warn("admin email already registered as regular account", zap.String("email", email))
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("admin account created", zap.String("email", email))
	return nil
}

func catalog() []domain.Product {
	return []domain.Product{
		{
			ID:          "jong-belegen",
			Name:        "Jong Belegen",
			Description: "Acht weken gerijpt, romig en mild van smaak. Onze meest verkochte kaas.",
			Category:    "Naturel",
			PriceCents:  1095,
			Active:      true,
		},
		{
			ID:          "belegen",
			Name:        "Belegen",
			Description: "Vier maanden gerijpt met een volle, uitgesproken smaak.",
			Category:    "Naturel",
			PriceCents:  1250,
			Active:      true,
		},
		{
			ID:          "oud",
			Name:        "Oude Kaas",
			Description: "Ruim een jaar gerijpt. Pittig en kruimelig met zoutkristallen.",
			Category:    "Naturel",
			PriceCents:  1595,
			Active:      true,
		},
		{
			ID:          "brokkelkaas",
			Name:        "Brokkelkaas",
			Description: "Extra lang gerijpt en vol van smaak, brokkelt bij het snijden.",
			Category:    "Naturel",
			PriceCents:  1795,
			Active:      true,
		},
		{
			ID:          "kruidenkaas-fenegriek",
			Name:        "Kruidenkaas Fenegriek",
			Description: "Jong belegen kaas met nootachtige fenegriekzaadjes.",
			Category:    "Kruiden",
			PriceCents:  1195,
			Active:      true,
		},
		{
			ID:          "truffelkaas",
			Name:        "Truffelkaas",
			Description: "Romige kaas dooraderd met Italiaanse zomertruffel.",
			Category:    "Speciaal",
			PriceCents:  1895,
			Active:      true,
		},
	}
}
