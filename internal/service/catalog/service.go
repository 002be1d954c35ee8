package catalog

import (
	"context"
	"errors"
	"math"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"kaaswinkel/internal/domain"
	productrepo "kaaswinkel/internal/repository/product"
)

// ErrInvalidInput is returned when an admin payload misses required fields.
var ErrInvalidInput = errors.New("Naam, categorie en prijs zijn verplicht.")

// Service exposes the public catalog and the admin product management.
type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

// ProductInput is the admin create/update payload. Price comes in as euros
// and is stored as cents.
type ProductInput struct {
	ID          string  `json:"id"`
	Name        string  `json:"naam"`
	Description string  `json:"omschrijving"`
	Category    string  `json:"categorie"`
	PriceEuro   float64 `json:"prijs"`
	ImageRef    string  `json:"afbeelding"`
	Active      *bool   `json:"actief"`
}

// List returns the public catalog. Inactive products stay hidden.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx, true)
}

// ListAll returns every product, including inactive ones, for the admin view.
func (s *Service) ListAll(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx, false)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Create adds a product. When no id is given one is derived from the name.
func (s *Service) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	p, err := fromInput(in)
	if err != nil {
		return nil, err
	}
	if p.ID == "" {
		p.ID = slugify(p.Name)
	}
	return s.repo.Create(ctx, *p)
}

func (s *Service) Update(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	p, err := fromInput(in)
	if err != nil {
		return nil, err
	}
	p.ID = id
	return s.repo.Update(ctx, *p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// SaveImage stores uploaded image bytes and returns the new image id.
func (s *Service) SaveImage(ctx context.Context, productID, mimeType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrInvalidInput
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	img := domain.ProductImage{
		ID:       uuid.NewString(),
		MimeType: mimeType,
		Data:     data,
	}
	return s.repo.SaveImage(ctx, img, productID)
}

func (s *Service) GetImage(ctx context.Context, id string) (*domain.ProductImage, error) {
	return s.repo.GetImage(ctx, id)
}

func fromInput(in ProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	category := strings.TrimSpace(in.Category)
	if name == "" || category == "" || in.PriceEuro <= 0 {
		return nil, ErrInvalidInput
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	return &domain.Product{
		ID:          strings.TrimSpace(in.ID),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Category:    category,
		PriceCents:  int64(math.Round(in.PriceEuro * 100)),
		ImageRef:    strings.TrimSpace(in.ImageRef),
		Active:      active,
	}, nil
}

// slugify turns "Goudse Kaas 48+" into "goudse-kaas-48".
func slugify(name string) string {
	var b strings.Builder
	prevDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
