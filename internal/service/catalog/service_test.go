package catalog

import (
	"context"
	"errors"
	"testing"

	"kaaswinkel/internal/domain"
)

type stubRepo struct {
	products map[string]domain.Product
	images   map[string]domain.ProductImage
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		products: map[string]domain.Product{},
		images:   map[string]domain.ProductImage{},
	}
}

func (r *stubRepo) List(_ context.Context, activeOnly bool) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range r.products {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *stubRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *stubRepo) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	if _, ok := r.products[p.ID]; ok {
		return nil, domain.ErrAlreadyExists
	}
	r.products[p.ID] = p
	return &p, nil
}

func (r *stubRepo) Update(_ context.Context, p domain.Product) (*domain.Product, error) {
	if _, ok := r.products[p.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	r.products[p.ID] = p
	return &p, nil
}

func (r *stubRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *stubRepo) Upsert(_ context.Context, p domain.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubRepo) SaveImage(_ context.Context, img domain.ProductImage, _ string) (string, error) {
	r.images[img.ID] = img
	return img.ID, nil
}

func (r *stubRepo) GetImage(_ context.Context, id string) (*domain.ProductImage, error) {
	img, ok := r.images[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &img, nil
}

func TestCreateConvertsEurosToCents(t *testing.T) {
	svc := New(newStubRepo())

	p, err := svc.Create(context.Background(), ProductInput{
		Name:      "Goudse Kaas 48+",
		Category:  "Belegen",
		PriceEuro: 12.50,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.PriceCents != 1250 {
		t.Fatalf("want 1250 cents, got %d", p.PriceCents)
	}
	if p.ID != "goudse-kaas-48" {
		t.Fatalf("derived id: %q", p.ID)
	}
	if !p.Active {
		t.Fatal("new product should default to active")
	}
}

func TestCreateRoundsHalfCents(t *testing.T) {
	svc := New(newStubRepo())
	p, err := svc.Create(context.Background(), ProductInput{
		Name: "Proefstuk", Category: "Jong", PriceEuro: 4.995,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.PriceCents != 500 {
		t.Fatalf("want 500 cents, got %d", p.PriceCents)
	}
}

func TestCreateRequiresFields(t *testing.T) {
	svc := New(newStubRepo())
	cases := []ProductInput{
		{Category: "Jong", PriceEuro: 5},
		{Name: "Kaas", PriceEuro: 5},
		{Name: "Kaas", Category: "Jong"},
		{Name: "Kaas", Category: "Jong", PriceEuro: -1},
	}
	for i, in := range cases {
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: want ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestListHidesInactive(t *testing.T) {
	repo := newStubRepo()
	repo.products["a"] = domain.Product{ID: "a", Name: "A", Active: true}
	repo.products["b"] = domain.Product{ID: "b", Name: "B", Active: false}
	svc := New(repo)

	pub, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pub) != 1 || pub[0].ID != "a" {
		t.Fatalf("public list: %+v", pub)
	}

	all, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin list: %+v", all)
	}
}

func TestUpdateUsesPathID(t *testing.T) {
	repo := newStubRepo()
	repo.products["gouda"] = domain.Product{ID: "gouda", Name: "Gouda", Category: "Jong", PriceCents: 900, Active: true}
	svc := New(repo)

	inactive := false
	p, err := svc.Update(context.Background(), "gouda", ProductInput{
		Name: "Gouda Belegen", Category: "Belegen", PriceEuro: 11, Active: &inactive,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.ID != "gouda" || p.PriceCents != 1100 || p.Active {
		t.Fatalf("updated product: %+v", p)
	}
}

func TestSaveImageRejectsEmpty(t *testing.T) {
	svc := New(newStubRepo())
	if _, err := svc.SaveImage(context.Background(), "gouda", "image/png", nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestSaveAndGetImage(t *testing.T) {
	repo := newStubRepo()
	svc := New(repo)

	id, err := svc.SaveImage(context.Background(), "gouda", "image/jpeg", []byte{0xff, 0xd8})
	if err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	img, err := svc.GetImage(context.Background(), id)
	if err != nil {
		t.Fatalf("GetImage: %v", err)
	}
	if img.MimeType != "image/jpeg" || len(img.Data) != 2 {
		t.Fatalf("image roundtrip: %+v", img)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Goudse Kaas 48+":  "goudse-kaas-48",
		"Oude  Brokkel!!":  "oude-brokkel",
		"Kruidenkaas (fenegriek)": "kruidenkaas-fenegriek",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
