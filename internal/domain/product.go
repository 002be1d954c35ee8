package domain

import "time"

// Product is a catalog row from the kaas table. Prices are stored in euro
// cents; ImageRef points at either a static asset path or an uploaded image
// served from /api/kaas-afbeelding/:id.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"naam"`
	Description string    `json:"omschrijving,omitempty"`
	Category    string    `json:"categorie"`
	PriceCents  int64     `json:"prijsCent"`
	ImageRef    string    `json:"afbeelding,omitempty"`
	Active      bool      `json:"actief"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProductImage is an uploaded image blob for a product.
type ProductImage struct {
	ID       string
	MimeType string
	Data     []byte
}
