package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"grocermart-backend/internal/middleware"
	"grocermart-backend/internal/models"
	"grocermart-backend/internal/services"
	"grocermart-backend/internal/utils"
)

// OrderHandlers exposes checkout and order management endpoints
type OrderHandlers struct {
	orders *services.OrderService
}

// NewOrderHandlers creates order handlers
func NewOrderHandlers(orders *services.OrderService) *OrderHandlers {
	return &OrderHandlers{orders: orders}
}

// Checkout converts the session's cart into an order
func (h *OrderHandlers) Checkout(c *gin.Context) {
	session := middleware.SessionFromContext(c)

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	order, err := h.orders.PlaceOrder(c.Request.Context(), session, &req)
	if err != nil {
		// The order may still have committed when only the fan-out failed
		if order != nil {
			c.JSON(http.StatusCreated, gin.H{
				"success": true,
				"data":    order,
				"message": "Order placed, some notifications may be delayed",
			})
			return
		}

		status := http.StatusInternalServerError
		var validationErrs utils.ValidationErrors
		switch {
		case errors.Is(err, services.ErrNotAuthenticated):
			status = http.StatusUnauthorized
		case errors.Is(err, services.ErrCartEmpty),
			errors.Is(err, services.ErrInvalidDeliveryMethod):
			status = http.StatusBadRequest
		case errors.As(err, &validationErrs):
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
		"message": "Order placed successfully",
	})
}

// GetOrders lists the orders visible to the session
func (h *OrderHandlers) GetOrders(c *gin.Context) {
	session := middleware.SessionFromContext(c)

	orders, err := h.orders.GetOrders(c.Request.Context(), session)
	if err != nil {
		if errors.Is(err, services.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "User not authenticated",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to get orders: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder returns one order if the session may see it
func (h *OrderHandlers) GetOrder(c *gin.Context) {
	session := middleware.SessionFromContext(c)

	orderID := c.Param("id")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Order ID is required",
		})
		return
	}

	order, err := h.orders.GetOrderByID(c.Request.Context(), session, orderID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Order not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to get order: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrderStatus advances an order to a later status. Admin or vendor.
func (h *OrderHandlers) UpdateOrderStatus(c *gin.Context) {
	session := middleware.SessionFromContext(c)

	orderID := c.Param("id")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Order ID is required",
		})
		return
	}

	var body struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	order, err := h.orders.UpdateOrderStatus(c.Request.Context(), session, orderID, body.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Order not found",
			})
		case errors.Is(err, services.ErrInvalidTransition):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   err.Error(),
			})
		case errors.Is(err, services.ErrNotOrderParticipant):
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Insufficient permissions",
			})
		default:
			if order != nil {
				// Status committed, only the notification failed
				c.JSON(http.StatusOK, gin.H{
					"success": true,
					"data":    order,
					"message": "Status updated, notification may be delayed",
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to update order: " + err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
		"message": "Order status updated",
	})
}
