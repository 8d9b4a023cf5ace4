// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linseaa/storefront-gateway/internal/domain/catalog"
	"github.com/linseaa/storefront-gateway/internal/domain/checkout"
	"github.com/linseaa/storefront-gateway/internal/interfaces/http/middleware"
	"github.com/linseaa/storefront-gateway/internal/upstream"
	"github.com/sirupsen/logrus"
)

// CartHandler handles the cart page and its mutations
type CartHandler struct {
	products *catalog.Store
	checkout *checkout.Service
	log      *logrus.Entry
}

// NewCartHandler creates a new cart handler
func NewCartHandler(products *catalog.Store, checkoutService *checkout.Service, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		products: products,
		checkout: checkoutService,
		log:      logger.WithField("component", "cart_handler"),
	}
}

// cartLine is one resolved row of the cart view. Entries whose product
// id no longer resolves in the catalog are dropped from the view the
// same way they are dropped from the totals.
type cartLine struct {
	ProductID  string   `json:"productId"`
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	Images     []string `json:"image"`
	OfferPrice float64  `json:"offerPrice"`
	Quantity   int      `json:"quantity"`
	LineTotal  float64  `json:"lineTotal"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sess := middleware.MustGetSession(c)
	if sess == nil {
		return
	}

	lines := make([]cartLine, 0)
	for _, line := range sess.Cart.Lines() {
		product, ok := h.products.Lookup(line.ProductID)
		if !ok {
			continue
		}
		lines = append(lines, cartLine{
			ProductID:  product.ID,
			Name:       product.Name,
			Category:   product.Category,
			Images:     product.Images,
			OfferPrice: product.OfferPrice,
			Quantity:   line.Quantity,
			LineTotal:  product.OfferPrice * float64(line.Quantity),
		})
	}

	selected, _ := sess.Addresses.Selected()
	response := gin.H{
		"view":       "cart",
		"items":      lines,
		"count":      sess.Cart.Count(),
		"amount":     sess.Cart.Amount(),
		"tax":        sess.Cart.Tax(),
		"grandTotal": sess.Cart.GrandTotal(),
		"addresses":  sess.Addresses.List(),
		"selected":   selected,
	}
	if err := sess.Cart.LastSyncError(); err != nil {
		response["syncError"] = err.Error()
	}

	c.JSON(http.StatusOK, response)
}

type cartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	sess := middleware.MustGetSession(c)
	if sess == nil {
		return
	}

	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
		})
		return
	}

	if req.Quantity > 1 {
		sess.Cart.SetQuantity(req.ProductID, sess.Cart.Quantity(req.ProductID)+req.Quantity)
	} else {
		sess.Cart.Add(req.ProductID)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Added to cart",
		"count":   sess.Cart.Count(),
	})
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem handles PUT /cart/items/:id. A quantity of zero or less
// removes the entry.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	sess := middleware.MustGetSession(c)
	if sess == nil {
		return
	}

	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
		})
		return
	}

	sess.Cart.SetQuantity(c.Param("id"), req.Quantity)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cart updated",
		"count":   sess.Cart.Count(),
	})
}

// RemoveItem handles DELETE /cart/items/:id. Removing an absent entry
// succeeds.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sess := middleware.MustGetSession(c)
	if sess == nil {
		return
	}

	sess.Cart.Remove(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Removed from cart",
		"count":   sess.Cart.Count(),
	})
}

type checkoutRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"required"`
	CardToken     string `json:"cardToken"`
}

// Checkout handles POST /cart/checkout
func (h *CartHandler) Checkout(c *gin.Context) {
	sess := middleware.MustGetSession(c)
	if sess == nil {
		return
	}

	if !sess.Role().Authenticated() {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Sign in to place an order",
		})
		return
	}

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
		})
		return
	}

	method, err := checkout.ParseMethod(req.PaymentMethod, req.CardToken)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	outcome, err := h.checkout.PlaceOrder(c.Request.Context(), sess.Token(), sess.Identity().ID, sess.Cart, sess.Addresses, method)
	if err != nil {
		c.JSON(checkoutStatus(err), gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  outcome.Message,
		"redirect": outcome.NextRoute,
		"url":      outcome.RedirectURL,
	})
}

// checkoutStatus maps placement failures to HTTP statuses. Upstream
// business rejections keep their message; transport failures read as a
// bad gateway.
func checkoutStatus(err error) int {
	switch {
	case errors.Is(err, checkout.ErrNoAddress),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrMissingCardToken):
		return http.StatusBadRequest
	}

	var upstreamErr *upstream.Error
	if errors.As(err, &upstreamErr) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}
