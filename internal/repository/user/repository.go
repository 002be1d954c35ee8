package user

import (
	"context"

	"kaaswinkel/internal/domain"
)

// ProfileUpdate carries the mutable account fields. Company name is the only
// optional one.
type ProfileUpdate struct {
	FirstName   string
	LastName    string
	CompanyName string
	Phone       string
	Street      string
	PostalCode  string
	City        string
	Country     string
}

type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	HasAdmin(ctx context.Context) (bool, error)
}
