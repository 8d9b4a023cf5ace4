// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linseaa/storefront-gateway/internal/domain/catalog"
	"github.com/linseaa/storefront-gateway/internal/domain/session"
	"github.com/sirupsen/logrus"
)

// CatalogHandler serves the storefront's product pages
type CatalogHandler struct {
	products *catalog.Store
	registry *session.Registry
	log      *logrus.Entry
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(products *catalog.Store, registry *session.Registry, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		products: products,
		registry: registry,
		log:      logger.WithField("component", "catalog_handler"),
	}
}

// Home handles GET /
func (h *CatalogHandler) Home(c *gin.Context) {
	h.ensureCatalog(c)

	// the home page highlights the first few in-stock products
	featured := make([]catalog.Product, 0, 5)
	for _, p := range h.products.List() {
		if !p.InStock {
			continue
		}
		featured = append(featured, p)
		if len(featured) == 5 {
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"view":        "home",
		"bestSellers": featured,
	})
}

// ListProducts handles GET /products with an optional search query
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	h.ensureCatalog(c)

	products := h.products.List()
	if query := c.Query("search"); query != "" {
		products = h.products.Search(query)
	}

	c.JSON(http.StatusOK, gin.H{
		"view":     "products",
		"products": products,
		"count":    len(products),
	})
}

// ListByCategory handles GET /products/:category
func (h *CatalogHandler) ListByCategory(c *gin.Context) {
	h.ensureCatalog(c)

	category := c.Param("category")
	products := h.products.ByCategory(category)

	c.JSON(http.StatusOK, gin.H{
		"view":     "product-category",
		"category": category,
		"products": products,
		"count":    len(products),
	})
}

// ProductDetails handles GET /products/:category/:id. Related products
// share the product's category.
func (h *CatalogHandler) ProductDetails(c *gin.Context) {
	h.ensureCatalog(c)

	product, ok := h.products.Lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Product not found",
		})
		return
	}

	related := make([]catalog.Product, 0, 5)
	for _, p := range h.products.ByCategory(product.Category) {
		if p.ID == product.ID || !p.InStock {
			continue
		}
		related = append(related, p)
		if len(related) == 5 {
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"view":    "product-details",
		"product": product,
		"related": related,
	})
}

// ensureCatalog triggers a catalog load when the store is still empty,
// so a gateway that booted while the backend was down heals on traffic
func (h *CatalogHandler) ensureCatalog(c *gin.Context) {
	if h.products.Len() > 0 {
		return
	}
	if err := h.registry.RefreshCatalog(c.Request.Context()); err != nil {
		h.log.WithError(err).Warn("Catalog refresh failed")
	}
}
