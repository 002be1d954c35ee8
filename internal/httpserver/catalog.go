package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kaaswinkel/internal/domain"
	"kaaswinkel/internal/service/catalog"
)

// 5 MB cap on product image uploads.
const maxImageBytes = 5 << 20

func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.deps.Catalog.List(c.Request.Context())
	if err != nil {
		h.logger.Error("product list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Producten ophalen is niet gelukt."})
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"producten": products})
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.deps.Catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product niet gevonden."})
			return
		}
		h.logger.Error("product lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Product ophalen is niet gelukt."})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) getProductImage(c *gin.Context) {
	img, err := h.deps.Catalog.GetImage(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Afbeelding niet gevonden."})
			return
		}
		h.logger.Error("image lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Afbeelding ophalen is niet gelukt."})
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, img.MimeType, img.Data)
}

func (h *handlers) adminListProducts(c *gin.Context) {
	products, err := h.deps.Catalog.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("admin product list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Producten ophalen is niet gelukt."})
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"producten": products})
}

func (h *handlers) adminCreateProduct(c *gin.Context) {
	var in catalog.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ongeldige aanvraag."})
		return
	}
	p, err := h.deps.Catalog.Create(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Er bestaat al een product met dit id."})
		default:
			h.logger.Error("product create failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Product aanmaken is niet gelukt."})
		}
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *handlers) adminUpdateProduct(c *gin.Context) {
	var in catalog.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ongeldige aanvraag."})
		return
	}
	p, err := h.deps.Catalog.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product niet gevonden."})
		default:
			h.logger.Error("product update failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Product bijwerken is niet gelukt."})
		}
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) adminDeleteProduct(c *gin.Context) {
	if err := h.deps.Catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product niet gevonden."})
			return
		}
		h.logger.Error("product delete failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Product verwijderen is niet gelukt."})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) adminUploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("afbeelding")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Afbeelding ontbreekt."})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		h.logger.Error("image read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Afbeelding uploaden is niet gelukt."})
		return
	}
	if len(data) > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Afbeelding is te groot (max 5 MB)."})
		return
	}

	id, err := h.deps.Catalog.SaveImage(c.Request.Context(), c.Param("id"), header.Header.Get("Content-Type"), data)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Afbeelding ontbreekt."})
			return
		}
		h.logger.Error("image save failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Afbeelding opslaan is niet gelukt."})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "url": "/api/kaas-afbeelding/" + id})
}
