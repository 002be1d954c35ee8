// Package checkout turns a client cart plus customer data into a hosted
// payment session, and reconciles the provider's authoritative session
// record into a confirmation email after the customer returns.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"kaaswinkel/internal/mail"
	"kaaswinkel/internal/storage"
)

// ValidationError carries a user-facing message for a rejected request.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// IsValidation reports whether err is a client-visible validation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Item is one checkout line as submitted by the client. UnitPrice is in
// euros.
type Item struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"qty"`
}

// Customer carries the contact, billing and shipping data entered on the
// checkout form. Field names mirror the storefront's Dutch form fields.
type Customer struct {
	Email       string `json:"email"`
	FirstName   string `json:"voornaam"`
	LastName    string `json:"achternaam"`
	CompanyName string `json:"bedrijfsnaam"`
	Phone       string `json:"telefoon"`

	BillingStreet     string `json:"factuurStraat"`
	BillingPostalCode string `json:"factuurPostcode"`
	BillingCity       string `json:"factuurPlaats"`
	BillingCountry    string `json:"factuurLand"`

	DifferentShipping  FlexBool `json:"anderVerzendAdres"`
	ShippingStreet     string   `json:"verzendStraat"`
	ShippingPostalCode string   `json:"verzendPostcode"`
	ShippingCity       string   `json:"verzendPlaats"`
	ShippingCountry    string   `json:"verzendLand"`

	Notes string `json:"bestelnotities"`
}

// SessionRequest is the payload of a checkout-session creation.
type SessionRequest struct {
	Items    []Item   `json:"items"`
	Customer Customer `json:"customer"`
}

// SessionResult is the provider session handed back to the client for the
// full-page redirect.
type SessionResult struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// ProviderLineItem is a manifest line in minor currency units.
type ProviderLineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

// SessionParams is the provider-facing session creation request.
type SessionParams struct {
	LineItems     []ProviderLineItem
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// SessionLineItem is an authoritative line item as retrieved from the
// provider, amounts in minor units.
type SessionLineItem struct {
	Description string
	Quantity    int64
	AmountTotal int64
}

// ProviderSession is the provider's record of a checkout session.
type ProviderSession struct {
	ID            string
	URL           string
	AmountTotal   int64
	CustomerEmail string
	Metadata      map[string]string
	LineItems     []SessionLineItem
}

// Provider is the hosted payment boundary. It is the authoritative record of
// a session once created.
type Provider interface {
	CreateSession(ctx context.Context, params SessionParams) (*ProviderSession, error)
	GetSession(ctx context.Context, id string) (*ProviderSession, error)
}

// CartClearer lets the confirmation step drop the local cart once an order
// is confirmed.
type CartClearer interface {
	Clear() error
}

// Config wires an Orchestrator.
type Config struct {
	// SiteURL is the storefront origin for the success and cancel URLs.
	SiteURL string
	// NotifyEmail receives a best-effort copy of every confirmation.
	NotifyEmail string
	// Logo is embedded inline in confirmation mails when set.
	Logo *mail.Attachment
	// Cart is cleared after a successful or skipped confirmation when set.
	Cart CartClearer
}

// Orchestrator implements session creation and confirmation reconciliation.
type Orchestrator struct {
	provider Provider
	sender   mail.Sender
	markers  storage.Store
	cfg      Config
	logger   *zap.Logger
}

// New builds an Orchestrator. markers is the client-local "already sent"
// store; it is best-effort and scoped to this client only.
func New(provider Provider, sender mail.Sender, markers storage.Store, cfg Config, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		provider: provider,
		sender:   sender,
		markers:  markers,
		cfg:      cfg,
		logger:   logger,
	}
}

// CreateSession validates the request, builds the minor-unit manifest and
// metadata, and asks the provider for a single-use iDEAL payment session.
// The returned URL is a hard state transition out of this application:
// session creation never implies payment completion.
func (o *Orchestrator) CreateSession(ctx context.Context, req SessionRequest) (*SessionResult, error) {
	if len(req.Items) == 0 {
		return nil, &ValidationError{Msg: "Geen producten in winkelmandje."}
	}
	cust := req.Customer
	if err := validateCustomer(cust); err != nil {
		return nil, err
	}

	shipping := shippingAddress(cust)

	lineItems := make([]ProviderLineItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, &ValidationError{Msg: fmt.Sprintf("Ongeldig aantal voor %s.", it.Name)}
		}
		lineItems = append(lineItems, ProviderLineItem{
			Name:       it.Name,
			UnitAmount: int64(math.Round(it.UnitPrice * 100)),
			Quantity:   int64(it.Quantity),
		})
	}

	flag := "0"
	if bool(cust.DifferentShipping) {
		flag = "1"
	}
	metadata := map[string]string{
		"voornaam":     cust.FirstName,
		"achternaam":   cust.LastName,
		"bedrijfsnaam": cust.CompanyName,
		"telefoon":     cust.Phone,

		"factuur_straat":   cust.BillingStreet,
		"factuur_postcode": cust.BillingPostalCode,
		"factuur_plaats":   cust.BillingCity,
		"factuur_land":     cust.BillingCountry,

		"verzend_straat":   shipping.street,
		"verzend_postcode": shipping.postalCode,
		"verzend_plaats":   shipping.city,
		"verzend_land":     shipping.country,

		"bestelnotities":     cust.Notes,
		"ander_verzendadres": flag,
	}

	session, err := o.provider.CreateSession(ctx, SessionParams{
		LineItems:     lineItems,
		CustomerEmail: cust.Email,
		SuccessURL:    o.cfg.SiteURL + "/betaald?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     o.cfg.SiteURL + "/afrekenen",
		Metadata:      metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("create payment session: %w", err)
	}
	return &SessionResult{ID: session.ID, URL: session.URL}, nil
}

type address struct {
	street, postalCode, city, country string
}

// shippingAddress mirrors billing unless the customer asked for a distinct
// shipping address.
func shippingAddress(cust Customer) address {
	if bool(cust.DifferentShipping) {
		return address{
			street:     cust.ShippingStreet,
			postalCode: cust.ShippingPostalCode,
			city:       cust.ShippingCity,
			country:    cust.ShippingCountry,
		}
	}
	return address{
		street:     cust.BillingStreet,
		postalCode: cust.BillingPostalCode,
		city:       cust.BillingCity,
		country:    cust.BillingCountry,
	}
}

func validateCustomer(cust Customer) error {
	required := []struct {
		value string
		msg   string
	}{
		{cust.Email, "E-mailadres is verplicht."},
		{cust.FirstName, "Voornaam is verplicht."},
		{cust.LastName, "Achternaam is verplicht."},
		{cust.BillingStreet, "Straat (factuuradres) is verplicht."},
		{cust.BillingPostalCode, "Postcode (factuuradres) is verplicht."},
		{cust.BillingCity, "Plaats (factuuradres) is verplicht."},
		{cust.BillingCountry, "Land (factuuradres) is verplicht."},
	}
	if bool(cust.DifferentShipping) {
		required = append(required, []struct {
			value string
			msg   string
		}{
			{cust.ShippingStreet, "Straat (verzendadres) is verplicht."},
			{cust.ShippingPostalCode, "Postcode (verzendadres) is verplicht."},
			{cust.ShippingCity, "Plaats (verzendadres) is verplicht."},
			{cust.ShippingCountry, "Land (verzendadres) is verplicht."},
		}...)
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Msg: r.msg}
		}
	}
	return nil
}
