package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kaaswinkel/internal/checkout"
)

func (h *handlers) createCheckoutSession(c *gin.Context) {
	var in checkout.SessionRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ongeldige aanvraag."})
		return
	}
	result, err := h.deps.Checkout.CreateSession(c.Request.Context(), in)
	if err != nil {
		if checkout.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("checkout session failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Betaling starten is niet gelukt."})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handlers) confirmOrder(c *gin.Context) {
	var in struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ongeldige aanvraag."})
		return
	}
	outcome, err := h.deps.Checkout.Confirm(c.Request.Context(), in.SessionID)
	if err != nil {
		if checkout.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("order confirmation failed",
			zap.String("session_id", in.SessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Bevestiging versturen is niet gelukt."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(outcome)})
}
