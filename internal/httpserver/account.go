package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kaaswinkel/internal/auth"
	"kaaswinkel/internal/domain"
	userrepo "kaaswinkel/internal/repository/user"
	"kaaswinkel/internal/service/account"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"wachtwoord"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expiresIn"`
	User      *domain.User `json:"user"`
}

func (h *handlers) register(c *gin.Context) {
	var in account.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ongeldige aanvraag."})
		return
	}
	u, err := h.deps.Accounts.Register(c.Request.Context(), in)
	if err != nil {
		switch {
		case account.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Er bestaat al een account met dit e-mailadres."})
		default:
			h.logger.Error("register failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registreren is niet gelukt."})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u})
}

func (h *handlers) login(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ongeldige aanvraag."})
		return
	}
	u, token, err := h.deps.Accounts.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "E-mailadres of wachtwoord is onjuist."})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Inloggen is niet gelukt."})
		return
	}
	c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		ExpiresIn: h.deps.Accounts.SessionTTLSeconds(),
		User:      u,
	})
}

func (h *handlers) profile(c *gin.Context) {
	id, _ := auth.CurrentIdentity(c)
	u, err := h.deps.Accounts.Profile(c.Request.Context(), id.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account niet gevonden."})
			return
		}
		h.logger.Error("profile lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Profiel ophalen is niet gelukt."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

type profileUpdateRequest struct {
	FirstName   string `json:"voornaam"`
	LastName    string `json:"achternaam"`
	CompanyName string `json:"bedrijfsnaam"`
	Phone       string `json:"telefoon"`
	Street      string `json:"straat"`
	PostalCode  string `json:"postcode"`
	City        string `json:"plaats"`
	Country     string `json:"land"`
}

func (h *handlers) updateProfile(c *gin.Context) {
	id, _ := auth.CurrentIdentity(c)
	var in profileUpdateRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ongeldige aanvraag."})
		return
	}
	u, err := h.deps.Accounts.UpdateProfile(c.Request.Context(), id.ID, userrepo.ProfileUpdate{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		CompanyName: in.CompanyName,
		Phone:       in.Phone,
		Street:      in.Street,
		PostalCode:  in.PostalCode,
		City:        in.City,
		Country:     in.Country,
	})
	if err != nil {
		switch {
		case account.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Account niet gevonden."})
		default:
			h.logger.Error("profile update failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Profiel bijwerken is niet gelukt."})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *handlers) requestPasswordReset(c *gin.Context) {
	var in struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "E-mailadres is verplicht."})
		return
	}
	if err := h.deps.Accounts.RequestPasswordReset(c.Request.Context(), in.Email); err != nil {
		h.logger.Error("password reset request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verzoek is niet gelukt."})
		return
	}
	// Same answer for known and unknown addresses.
	c.JSON(http.StatusOK, gin.H{"message": "Als dit e-mailadres bekend is, is er een resetlink verstuurd."})
}

func (h *handlers) resetPassword(c *gin.Context) {
	var in struct {
		Token    string `json:"token"`
		Password string `json:"wachtwoord"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ongeldige aanvraag."})
		return
	}
	err := h.deps.Accounts.ResetPassword(c.Request.Context(), in.Token, in.Password)
	if err != nil {
		switch {
		case account.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, account.ErrInvalidResetToken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Deze resetlink is ongeldig of verlopen."})
		default:
			h.logger.Error("password reset failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Wachtwoord resetten is niet gelukt."})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Wachtwoord is gewijzigd."})
}
