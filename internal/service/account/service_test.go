package account

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"kaaswinkel/internal/auth"
	"kaaswinkel/internal/domain"
	"kaaswinkel/internal/mail"
	userrepo "kaaswinkel/internal/repository/user"
)

type stubUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
	created []domain.User
	updated map[string]string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail: map[string]*domain.User{},
		byID:    map[string]*domain.User{},
		updated: map[string]string{},
	}
}

func (r *stubUserRepo) add(u domain.User) {
	copied := u
	r.byEmail[strings.ToLower(u.Email)] = &copied
	r.byID[u.ID] = &copied
}

func (r *stubUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	if _, ok := r.byEmail[strings.ToLower(u.Email)]; ok {
		return nil, domain.ErrAlreadyExists
	}
	r.created = append(r.created, u)
	r.add(u)
	return &u, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, in userrepo.ProfileUpdate) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.FirstName = in.FirstName
	u.LastName = in.LastName
	u.Country = in.Country
	return u, nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	r.updated[id] = hash
	r.byID[id].PasswordHash = hash
	return nil
}

func (r *stubUserRepo) HasAdmin(_ context.Context) (bool, error) { return false, nil }

type stubTokenRepo struct {
	tokens map[string]*domain.ResetToken
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{tokens: map[string]*domain.ResetToken{}}
}

func (r *stubTokenRepo) Create(_ context.Context, t domain.ResetToken) error {
	copied := t
	r.tokens[t.Token] = &copied
	return nil
}

func (r *stubTokenRepo) Get(_ context.Context, token string) (*domain.ResetToken, error) {
	t, ok := r.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (r *stubTokenRepo) MarkUsed(_ context.Context, token string) error {
	t, ok := r.tokens[token]
	if !ok {
		return domain.ErrNotFound
	}
	t.Used = true
	return nil
}

type stubSender struct {
	sent []mail.Message
	err  error
}

func (s *stubSender) Send(_ context.Context, m mail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m)
	return nil
}

func newService(users *stubUserRepo, tokens *stubTokenRepo, sender mail.Sender) *Service {
	sessions := auth.NewSessions("test-secret", 48*time.Hour)
	return New(users, tokens, sessions, sender, "https://oldmaastricht.nl/", nil)
}

func TestRegisterHashesPassword(t *testing.T) {
	users := newStubUserRepo()
	svc := newService(users, newStubTokenRepo(), &stubSender{})

	u, err := svc.Register(context.Background(), RegisterInput{
		Email:     "Jan@Example.COM",
		Password:  "geheim1234",
		FirstName: "Jan",
		LastName:  "Jansen",
		Country:   "nederland",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "jan@example.com" {
		t.Fatalf("email not lowercased: %q", u.Email)
	}
	if u.Country != "NEDERLAND" {
		t.Fatalf("country not normalized: %q", u.Country)
	}
	if u.PasswordHash == "geheim1234" || u.PasswordHash == "" {
		t.Fatal("password stored unhashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("geheim1234")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestRegisterRejectsUnknownCountry(t *testing.T) {
	svc := newService(newStubUserRepo(), newStubTokenRepo(), &stubSender{})
	_, err := svc.Register(context.Background(), RegisterInput{
		Email:     "jan@example.com",
		Password:  "geheim1234",
		FirstName: "Jan",
		LastName:  "Jansen",
		Country:   "Frankrijk",
	})
	if !IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := newService(newStubUserRepo(), newStubTokenRepo(), &stubSender{})
	_, err := svc.Register(context.Background(), RegisterInput{
		Email:     "jan@example.com",
		Password:  "kort",
		FirstName: "Jan",
		LastName:  "Jansen",
	})
	if !IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newStubUserRepo()
	svc := newService(users, newStubTokenRepo(), &stubSender{})

	in := RegisterInput{Email: "jan@example.com", Password: "geheim1234", FirstName: "Jan", LastName: "Jansen"}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), in)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists, got %v", err)
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	users := newStubUserRepo()
	hash, _ := bcrypt.GenerateFromPassword([]byte("geheim1234"), bcrypt.MinCost)
	users.add(domain.User{ID: "u1", Email: "jan@example.com", PasswordHash: string(hash), IsAdmin: true})

	sessions := auth.NewSessions("test-secret", time.Hour)
	svc := New(users, newStubTokenRepo(), sessions, &stubSender{}, "https://oldmaastricht.nl", nil)

	u, token, err := svc.Login(context.Background(), "jan@example.com", "geheim1234")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.ID != "u1" {
		t.Fatalf("wrong user: %+v", u)
	}
	id, err := sessions.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.ID != "u1" || !id.IsAdmin {
		t.Fatalf("identity mismatch: %+v", id)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	users := newStubUserRepo()
	hash, _ := bcrypt.GenerateFromPassword([]byte("geheim1234"), bcrypt.MinCost)
	users.add(domain.User{ID: "u1", Email: "jan@example.com", PasswordHash: string(hash)})
	svc := newService(users, newStubTokenRepo(), &stubSender{})

	if _, _, err := svc.Login(context.Background(), "jan@example.com", "verkeerd"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "onbekend@example.com", "geheim1234"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: want ErrInvalidCredentials, got %v", err)
	}
}

func TestRequestPasswordResetSendsLink(t *testing.T) {
	users := newStubUserRepo()
	users.add(domain.User{ID: "u1", Email: "jan@example.com", FirstName: "Jan"})
	tokens := newStubTokenRepo()
	sender := &stubSender{}
	svc := newService(users, tokens, sender)

	if err := svc.RequestPasswordReset(context.Background(), "jan@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("want 1 mail, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.Subject != "Wachtwoord resetten - Old Maastricht" {
		t.Fatalf("subject: %q", msg.Subject)
	}
	if len(tokens.tokens) != 1 {
		t.Fatalf("want 1 stored token, got %d", len(tokens.tokens))
	}
	for tok := range tokens.tokens {
		want := "https://oldmaastricht.nl/wachtwoord-resetten?token=" + tok
		if !strings.Contains(msg.Text, want) || !strings.Contains(msg.HTML, want) {
			t.Fatalf("mail does not contain reset link %q", want)
		}
	}
}

func TestRequestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	sender := &stubSender{}
	svc := newService(newStubUserRepo(), newStubTokenRepo(), sender)

	if err := svc.RequestPasswordReset(context.Background(), "niemand@example.com"); err != nil {
		t.Fatalf("want nil for unknown email, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("no mail expected, got %d", len(sender.sent))
	}
}

func TestResetPasswordConsumesToken(t *testing.T) {
	users := newStubUserRepo()
	users.add(domain.User{ID: "u1", Email: "jan@example.com"})
	tokens := newStubTokenRepo()
	tokens.Create(context.Background(), domain.ResetToken{
		ID: "t1", UserID: "u1", Token: "abc123", ExpiresAt: time.Now().Add(time.Hour),
	})
	svc := newService(users, tokens, &stubSender{})

	if err := svc.ResetPassword(context.Background(), "abc123", "nieuwgeheim1"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(users.updated["u1"]), []byte("nieuwgeheim1")); err != nil {
		t.Fatalf("password not rehashed: %v", err)
	}

	// Second use of the same token must fail.
	if err := svc.ResetPassword(context.Background(), "abc123", "nogeennieuw1"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("reused token: want ErrInvalidResetToken, got %v", err)
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	users := newStubUserRepo()
	users.add(domain.User{ID: "u1", Email: "jan@example.com"})
	tokens := newStubTokenRepo()
	tokens.Create(context.Background(), domain.ResetToken{
		ID: "t1", UserID: "u1", Token: "oud", ExpiresAt: time.Now().Add(-time.Minute),
	})
	svc := newService(users, tokens, &stubSender{})

	if err := svc.ResetPassword(context.Background(), "oud", "nieuwgeheim1"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("want ErrInvalidResetToken, got %v", err)
	}
}

func TestUpdateProfileValidatesCountry(t *testing.T) {
	users := newStubUserRepo()
	users.add(domain.User{ID: "u1", Email: "jan@example.com", FirstName: "Jan", LastName: "Jansen"})
	svc := newService(users, newStubTokenRepo(), &stubSender{})

	_, err := svc.UpdateProfile(context.Background(), "u1", userrepo.ProfileUpdate{
		FirstName: "Jan", LastName: "Jansen", Country: "Spanje",
	})
	if !IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}

	u, err := svc.UpdateProfile(context.Background(), "u1", userrepo.ProfileUpdate{
		FirstName: "Jan", LastName: "Jansen", Country: "belgie",
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if u.Country != "BELGIE" {
		t.Fatalf("country not normalized: %q", u.Country)
	}
}
