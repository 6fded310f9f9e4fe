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

// ProductHandlers exposes the product catalog endpoints
type ProductHandlers struct {
	catalog *services.CatalogService
}

// NewProductHandlers creates product handlers
func NewProductHandlers(catalog *services.CatalogService) *ProductHandlers {
	return &ProductHandlers{catalog: catalog}
}

// GetProducts lists the catalog, optionally filtered by category or vendor
func (h *ProductHandlers) GetProducts(c *gin.Context) {
	category := models.ProductCategory(c.Query("category"))
	vendorID := c.Query("vendorId")

	products, err := h.catalog.GetProducts(c.Request.Context(), category, vendorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to get products: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}

// GetProduct returns a single product by id
func (h *ProductHandlers) GetProduct(c *gin.Context) {
	productID := c.Param("id")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Product ID is required",
		})
		return
	}

	product, err := h.catalog.GetProductByID(c.Request.Context(), productID)
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

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// CreateProduct adds a product to the catalog. Vendors create products
// under their own vendor id; admins may create unowned products.
func (h *ProductHandlers) CreateProduct(c *gin.Context) {
	session := middleware.SessionFromContext(c)

	var creation models.ProductCreation
	if err := c.ShouldBindJSON(&creation); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), session, &creation)
	if err != nil {
		status := http.StatusInternalServerError
		var validationErrs utils.ValidationErrors
		switch {
		case errors.As(err, &validationErrs):
			status = http.StatusBadRequest
		case errors.Is(err, services.ErrNotProductOwner):
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    product,
		"message": "Product created",
	})
}

// UpdateProduct edits a product. Vendors may only edit their own.
func (h *ProductHandlers) UpdateProduct(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	productID := c.Param("id")

	var update models.ProductUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), session, productID, &update)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Product not found",
			})
		case errors.Is(err, services.ErrNotProductOwner):
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Not the owner of this product",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to update product: " + err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
		"message": "Product updated",
	})
}

// DeleteProduct removes a product from the catalog
func (h *ProductHandlers) DeleteProduct(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	productID := c.Param("id")

	if err := h.catalog.DeleteProduct(c.Request.Context(), session, productID); err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Product not found",
			})
		case errors.Is(err, services.ErrNotProductOwner):
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Not the owner of this product",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to delete product: " + err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product deleted",
	})
}
