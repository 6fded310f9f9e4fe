package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"grocermart-backend/internal/middleware"
	"grocermart-backend/internal/services"
)

// CartHandlers exposes the per-user cart endpoints
type CartHandlers struct {
	cart    *services.CartService
	catalog *services.CatalogService
}

// NewCartHandlers creates cart handlers
func NewCartHandlers(cart *services.CartService, catalog *services.CatalogService) *CartHandlers {
	return &CartHandlers{cart: cart, catalog: catalog}
}

// GetCart returns the session's cart lines and totals
func (h *CartHandlers) GetCart(c *gin.Context) {
	session := middleware.SessionFromContext(c)

	items := h.cart.Items(session.UserID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      items,
			"totalPrice": h.cart.GetTotalPrice(session.UserID),
			"totalItems": h.cart.GetTotalItems(session.UserID),
		},
	})
}

// AddToCart adds one unit of a catalog product to the session's cart
func (h *CartHandlers) AddToCart(c *gin.Context) {
	session := middleware.SessionFromContext(c)

	var body struct {
		ProductID string `json:"productId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Product ID is required",
		})
		return
	}

	product, err := h.catalog.GetProductByID(c.Request.Context(), body.ProductID)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Product not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to get product: " + err.Error(),
		})
		return
	}

	if err := h.cart.AddToCart(session, *product); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "User not authenticated",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.cart.Items(session.UserID),
		"message": "Product added to cart",
	})
}

// UpdateQuantity sets the quantity for a cart line. A quantity of zero or
// less removes the line.
func (h *CartHandlers) UpdateQuantity(c *gin.Context) {
	session := middleware.SessionFromContext(c)

	var body struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Product ID is required",
		})
		return
	}

	h.cart.UpdateQuantity(session.UserID, body.ProductID, body.Quantity)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.cart.Items(session.UserID),
		"message": "Cart updated",
	})
}

// RemoveFromCart removes a cart line entirely
func (h *CartHandlers) RemoveFromCart(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	productID := c.Param("productId")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Product ID is required",
		})
		return
	}

	h.cart.RemoveFromCart(session.UserID, productID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.cart.Items(session.UserID),
		"message": "Product removed from cart",
	})
}

// ClearCart empties the session's cart
func (h *CartHandlers) ClearCart(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	h.cart.ClearCart(session.UserID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cart cleared",
	})
}
