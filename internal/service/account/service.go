package account

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"kaaswinkel/internal/auth"
	"kaaswinkel/internal/domain"
	"kaaswinkel/internal/mail"
	tokenrepo "kaaswinkel/internal/repository/resettoken"
	userrepo "kaaswinkel/internal/repository/user"
)

const bcryptCost = 12

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("ongeldige inloggegevens")
	// ErrInvalidResetToken indicates a reset token that is unknown, expired or
	// already spent.
	ErrInvalidResetToken = errors.New("ongeldige of verlopen resetlink")
)

// ValidationError marks user input problems so handlers can answer 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var allowedCountries = map[string]bool{
	"NEDERLAND": true,
	"BELGIE":    true,
	"DUITSLAND": true,
}

// Service handles registration, login, profile and password reset flows.
type Service struct {
	users    userrepo.Repository
	tokens   tokenrepo.Repository
	sessions *auth.Sessions
	sender   mail.Sender
	siteURL  string
	resetTTL time.Duration
	logger   *zap.Logger
}

// New creates a Service. sender may be nil when mail is disabled; password
// reset requests are then logged and dropped.
func New(users userrepo.Repository, tokens tokenrepo.Repository, sessions *auth.Sessions, sender mail.Sender, siteURL string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:    users,
		tokens:   tokens,
		sessions: sessions,
		sender:   sender,
		siteURL:  strings.TrimRight(siteURL, "/"),
		resetTTL: time.Hour,
		logger:   logger,
	}
}

// RegisterInput captures the signup payload.
type RegisterInput struct {
	Email       string `json:"email"`
	Password    string `json:"wachtwoord"`
	FirstName   string `json:"voornaam"`
	LastName    string `json:"achternaam"`
	CompanyName string `json:"bedrijfsnaam"`
	Phone       string `json:"telefoon"`
	Street      string `json:"straat"`
	PostalCode  string `json:"postcode"`
	City        string `json:"plaats"`
	Country     string `json:"land"`
}

// Register creates a new customer account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, &ValidationError{Msg: "Een geldig e-mailadres is verplicht."}
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, &ValidationError{Msg: "Voornaam en achternaam zijn verplicht."}
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	country := strings.ToUpper(strings.TrimSpace(in.Country))
	if country != "" && !allowedCountries[country] {
		return nil, &ValidationError{Msg: "Wij leveren alleen in Nederland, Belgie en Duitsland."}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	u := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashed),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		CompanyName:  strings.TrimSpace(in.CompanyName),
		Phone:        strings.TrimSpace(in.Phone),
		Street:       strings.TrimSpace(in.Street),
		PostalCode:   strings.TrimSpace(in.PostalCode),
		City:         strings.TrimSpace(in.City),
		Country:      country,
	}
	created, err := s.users.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login validates credentials and returns the user plus a signed session token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.sessions.Issue(auth.Identity{ID: u.ID, Email: u.Email, IsAdmin: u.IsAdmin})
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Profile returns the account bound to the given user id.
func (s *Service) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile replaces the editable account fields.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in userrepo.ProfileUpdate) (*domain.User, error) {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, &ValidationError{Msg: "Voornaam en achternaam zijn verplicht."}
	}
	country := strings.ToUpper(strings.TrimSpace(in.Country))
	if country != "" && !allowedCountries[country] {
		return nil, &ValidationError{Msg: "Wij leveren alleen in Nederland, Belgie en Duitsland."}
	}
	in.Country = country
	return s.users.UpdateProfile(ctx, userID, in)
}

// RequestPasswordReset issues a single-use reset token and mails the link.
// It succeeds silently for unknown addresses so callers cannot probe which
// emails have an account.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := randomToken()
	if err != nil {
		return err
	}
	rt := domain.ResetToken{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.tokens.Create(ctx, rt); err != nil {
		return err
	}

	if s.sender == nil {
		s.logger.Warn("password reset requested but mail is disabled", zap.String("user_id", u.ID))
		return nil
	}
	link := fmt.Sprintf("%s/wachtwoord-resetten?token=%s", s.siteURL, token)
	msg := mail.Message{
		To:      u.Email,
		Subject: "Wachtwoord resetten - Old Maastricht",
		Text:    resetText(u.FirstName, link),
		HTML:    resetHTML(u.FirstName, link),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Error("reset mail failed", zap.String("user_id", u.ID), zap.Error(err))
		return err
	}
	return nil
}

// ResetPassword consumes a reset token and stores the new password hash.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidResetToken
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	rt, err := s.tokens.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	if rt.Used || time.Now().After(rt.ExpiresAt) {
		return ErrInvalidResetToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, rt.UserID, string(hashed)); err != nil {
		return err
	}
	return s.tokens.MarkUsed(ctx, token)
}

// SessionTTLSeconds exposes the session lifetime for login responses.
func (s *Service) SessionTTLSeconds() int {
	return s.sessions.TTLSeconds()
}

func randomToken() (string, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf[:]), nil
}

func validatePassword(p string) error {
	if len(p) < 8 {
		return &ValidationError{Msg: "Wachtwoord moet minimaal 8 tekens lang zijn."}
	}
	return nil
}

func resetText(firstName, link string) string {
	name := firstName
	if name == "" {
		name = "klant"
	}
	return fmt.Sprintf("Beste %s,\n\n"+
		"Er is een verzoek gedaan om het wachtwoord van uw account te resetten. "+
		"Klik op onderstaande link om een nieuw wachtwoord in te stellen. "+
		"Deze link is 1 uur geldig.\n\n%s\n\n"+
		"Heeft u dit verzoek niet gedaan? Dan kunt u deze e-mail negeren.\n\n"+
		"Met vriendelijke groet,\nOld Maastricht\n", name, link)
}

func resetHTML(firstName, link string) string {
	name := firstName
	if name == "" {
		name = "klant"
	}
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #1d3a2a;">Wachtwoord resetten</h2>
  <p>Beste %s,</p>
  <p>Er is een verzoek gedaan om het wachtwoord van uw account te resetten.
  Klik op onderstaande knop om een nieuw wachtwoord in te stellen.
  Deze link is 1 uur geldig.</p>
  <p style="margin: 24px 0;">
    <a href="%s" style="background-color: #1d3a2a; color: #ffffff; padding: 12px 24px; text-decoration: none; border-radius: 4px;">Nieuw wachtwoord instellen</a>
  </p>
  <p>Heeft u dit verzoek niet gedaan? Dan kunt u deze e-mail negeren.</p>
  <p>Met vriendelijke groet,<br>Old Maastricht</p>
</div>`, name, link)
}
