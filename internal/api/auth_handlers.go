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

// AuthHandlers exposes registration, login and profile endpoints
type AuthHandlers struct {
	users *services.UserService
	auth  *services.AuthService
}

// NewAuthHandlers creates auth handlers
func NewAuthHandlers(users *services.UserService, auth *services.AuthService) *AuthHandlers {
	return &AuthHandlers{users: users, auth: auth}
}

// Register creates a new user account and returns a token
func (h *AuthHandlers) Register(c *gin.Context) {
	var registration models.UserRegistration
	if err := c.ShouldBindJSON(&registration); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	user, err := h.users.CreateUser(&registration)
	if err != nil {
		status := http.StatusInternalServerError
		var validationErrs utils.ValidationErrors
		switch {
		case errors.Is(err, services.ErrUserExists):
			status = http.StatusConflict
		case errors.As(err, &validationErrs):
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	token, err := h.auth.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to generate token: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"user":  user,
			"token": token,
		},
		"message": "Registration successful",
	})
}

// Login authenticates a user and returns a token
func (h *AuthHandlers) Login(c *gin.Context) {
	var login models.UserLogin
	if err := c.ShouldBindJSON(&login); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	user, err := h.users.AuthenticateUser(&login)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid email or password",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Login failed: " + err.Error(),
		})
		return
	}

	token, err := h.auth.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to generate token: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user":  user,
			"token": token,
		},
		"message": "Login successful",
	})
}

// RefreshToken issues a new token for a still-valid session
func (h *AuthHandlers) RefreshToken(c *gin.Context) {
	var body struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Token is required",
		})
		return
	}

	token, err := h.auth.RefreshToken(body.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Failed to refresh token: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"token": token},
	})
}

// GetProfile returns the authenticated user's account
func (h *AuthHandlers) GetProfile(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	if !session.Authenticated() {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "User not authenticated",
		})
		return
	}

	user, err := h.users.GetUserByID(session.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "User not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to get profile: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// UpdateTheme stores the dashboard theme preference
func (h *AuthHandlers) UpdateTheme(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	if !session.Authenticated() {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "User not authenticated",
		})
		return
	}

	var body struct {
		Theme string `json:"theme"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	if err := h.users.UpdateTheme(session.UserID, body.Theme); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Theme updated",
	})
}

// PromoteToVendor grants the vendor role to a user. Admin only.
func (h *AuthHandlers) PromoteToVendor(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "User ID is required",
		})
		return
	}

	var body struct {
		VendorID string `json:"vendorId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	user, err := h.users.PromoteToVendor(userID, body.VendorID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "User not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to promote user: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
		"message": "User promoted to vendor",
	})
}
