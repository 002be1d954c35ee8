package resettoken

import (
	"context"

	"kaaswinkel/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, t domain.ResetToken) error
	Get(ctx context.Context, token string) (*domain.ResetToken, error)
	MarkUsed(ctx context.Context, token string) error
}
