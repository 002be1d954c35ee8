package domain

import "time"

// User is a registered storefront account. Address fields double as the
// default billing address during checkout.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"voornaam"`
	LastName     string    `json:"achternaam"`
	CompanyName  string    `json:"bedrijfsnaam,omitempty"`
	Phone        string    `json:"telefoon,omitempty"`
	Street       string    `json:"straat,omitempty"`
	PostalCode   string    `json:"postcode,omitempty"`
	City         string    `json:"plaats,omitempty"`
	Country      string    `json:"land,omitempty"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}
