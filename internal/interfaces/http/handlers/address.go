// internal/interfaces/http/handlers/address.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linseaa/storefront-gateway/internal/domain/address"
	"github.com/linseaa/storefront-gateway/internal/interfaces/http/middleware"
	"github.com/sirupsen/logrus"
)

// AddressHandler handles the address book endpoints
type AddressHandler struct {
	log *logrus.Entry
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(logger *logrus.Logger) *AddressHandler {
	return &AddressHandler{
		log: logger.WithField("component", "address_handler"),
	}
}

// ListAddresses handles GET /addresses. The book is refreshed from the
// backend on every view; the first fetched entry is auto-selected when
// nothing was selected before.
func (h *AddressHandler) ListAddresses(c *gin.Context) {
	sess := middleware.MustGetSession(c)
	if sess == nil {
		return
	}

	if err := sess.RefreshAddresses(c.Request.Context()); err != nil {
		h.log.WithError(err).Warn("Address refresh failed")
	}

	selected, _ := sess.Addresses.Selected()
	c.JSON(http.StatusOK, gin.H{
		"addresses": sess.Addresses.List(),
		"selected":  selected,
	})
}

// AddAddress handles POST /add-address
func (h *AddressHandler) AddAddress(c *gin.Context) {
	sess := middleware.MustGetSession(c)
	if sess == nil {
		return
	}

	var a address.Address
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
		})
		return
	}

	message, err := sess.AddAddress(c.Request.Context(), a)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  message,
		"redirect": "/cart",
	})
}

type selectAddressRequest struct {
	AddressID string `json:"addressId" binding:"required"`
}

// SelectAddress handles PUT /addresses/select. Only an address already
// in the book can be selected.
func (h *AddressHandler) SelectAddress(c *gin.Context) {
	sess := middleware.MustGetSession(c)
	if sess == nil {
		return
	}

	var req selectAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
		})
		return
	}

	if err := sess.Addresses.Select(req.AddressID); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, address.ErrNotInBook) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
