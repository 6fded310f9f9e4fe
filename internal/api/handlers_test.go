package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/suite"

	"grocermart-backend/database"
	"grocermart-backend/internal/models"
	"grocermart-backend/internal/services"
	"grocermart-backend/internal/storage"
)

// HandlersTestSuite drives the HTTP surface end to end against in-memory
// storage. Authentication is mocked by injecting the session directly.
type HandlersTestSuite struct {
	suite.Suite
	db            *sql.DB
	cart          *services.CartService
	catalog       *services.CatalogService
	notifications *services.NotificationService
	orders        *services.OrderService
	router        *gin.Engine

	session models.Session
}

func (s *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite3", ":memory:")
	s.Require().NoError(err)
	db.SetMaxOpenConns(1)
	s.Require().NoError(database.Migrate(db))
	s.db = db

	store := storage.NewSerializedStore(storage.NewMemoryStore())
	s.cart = services.NewCartService()
	s.catalog = services.NewCatalogService(storage.NewSQLiteDocumentStore(db))
	s.notifications = services.NewNotificationService(store, s.catalog, nil)
	s.orders = services.NewOrderService(store, s.cart, s.catalog, s.notifications, services.DefaultDeliveryFees())

	productHandlers := NewProductHandlers(s.catalog)
	cartHandlers := NewCartHandlers(s.cart, s.catalog)
	orderHandlers := NewOrderHandlers(s.orders)
	notificationHandlers := NewNotificationHandlers(s.notifications)

	s.session = models.Session{UserID: "buyer-1", Role: models.UserRoleUser}

	s.router = gin.New()
	s.router.Use(func(c *gin.Context) {
		if s.session.Authenticated() {
			c.Set("session", s.session)
			c.Set("userID", s.session.UserID)
			c.Set("userRole", string(s.session.Role))
		}
		c.Next()
	})

	v1 := s.router.Group("/api/v1")
	v1.GET("/products", productHandlers.GetProducts)
	v1.GET("/products/:id", productHandlers.GetProduct)
	v1.POST("/products", productHandlers.CreateProduct)
	v1.GET("/cart", cartHandlers.GetCart)
	v1.POST("/cart", cartHandlers.AddToCart)
	v1.POST("/orders", orderHandlers.Checkout)
	v1.GET("/orders", orderHandlers.GetOrders)
	v1.GET("/orders/:id", orderHandlers.GetOrder)
	v1.PUT("/orders/:id/status", orderHandlers.UpdateOrderStatus)
	v1.GET("/notifications", notificationHandlers.GetNotifications)
	v1.GET("/notifications/unread-count", notificationHandlers.GetUnreadCount)
	v1.PUT("/notifications/:id/read", notificationHandlers.MarkAsRead)
	v1.PUT("/notifications/read-all", notificationHandlers.MarkAllAsRead)
	v1.DELETE("/notifications", notificationHandlers.ClearAll)
}

func (s *HandlersTestSuite) TearDownTest() {
	s.db.Close()
}

func (s *HandlersTestSuite) request(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlersTestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *HandlersTestSuite) seedProduct(vendorID, name string, price float64) *models.Product {
	owner := models.Session{UserID: "vu", Role: models.UserRoleVendor, VendorID: vendorID}
	product, err := s.catalog.CreateProduct(context.Background(), owner, &models.ProductCreation{
		Name:     name,
		Price:    price,
		Category: models.ProductCategoryFruits,
	})
	s.Require().NoError(err)
	return product
}

func checkoutBody() map[string]interface{} {
	return map[string]interface{}{
		"shipping": map[string]string{
			"fullName":    "Jane Doe",
			"phoneNumber": "5551234567",
			"address":     "12 Market Lane",
			"city":        "Springfield",
			"state":       "IL",
			"pincode":     "620001",
		},
		"paymentMethod":  "card",
		"deliveryMethod": "standard",
	}
}

func (s *HandlersTestSuite) TestCheckoutFlow() {
	product := s.seedProduct("vendor-1", "Apples", 2.50)

	w := s.request("POST", "/api/v1/cart", gin.H{"productId": product.ID})
	s.Equal(http.StatusOK, w.Code)

	w = s.request("POST", "/api/v1/orders", checkoutBody())
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	resp := s.decode(w)
	s.Equal(true, resp["success"])
	data := resp["data"].(map[string]interface{})
	s.Equal("pending", data["status"])
	s.InDelta(2.50+2.99, data["total"].(float64), 0.001)

	// Cart is empty afterwards
	w = s.request("GET", "/api/v1/cart", nil)
	cart := s.decode(w)["data"].(map[string]interface{})
	s.Equal(float64(0), cart["totalItems"])
}

func (s *HandlersTestSuite) TestCheckoutEmptyCart() {
	w := s.request("POST", "/api/v1/orders", checkoutBody())
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(false, s.decode(w)["success"])
}

func (s *HandlersTestSuite) TestCheckoutInvalidShipping() {
	product := s.seedProduct("vendor-1", "Apples", 2.50)
	s.request("POST", "/api/v1/cart", gin.H{"productId": product.ID})

	body := checkoutBody()
	body["shipping"].(map[string]string)["pincode"] = "12"
	w := s.request("POST", "/api/v1/orders", body)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersTestSuite) TestAddUnknownProductToCart() {
	w := s.request("POST", "/api/v1/cart", gin.H{"productId": "ghost"})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlersTestSuite) TestOrderStatusTransitionRejected() {
	product := s.seedProduct("vendor-1", "Apples", 2.50)
	s.request("POST", "/api/v1/cart", gin.H{"productId": product.ID})
	w := s.request("POST", "/api/v1/orders", checkoutBody())
	orderID := s.decode(w)["data"].(map[string]interface{})["id"].(string)

	s.session = models.Session{UserID: "admin-1", Role: models.UserRoleAdmin}

	w = s.request("PUT", "/api/v1/orders/"+orderID+"/status", gin.H{"status": "shipped"})
	s.Equal(http.StatusOK, w.Code)

	w = s.request("PUT", "/api/v1/orders/"+orderID+"/status", gin.H{"status": "pending"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.request("PUT", "/api/v1/orders/ghost/status", gin.H{"status": "delivered"})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlersTestSuite) TestNotificationsFollowRole() {
	product := s.seedProduct("vendor-1", "Apples", 2.50)
	s.request("POST", "/api/v1/cart", gin.H{"productId": product.ID})
	s.request("POST", "/api/v1/orders", checkoutBody())

	// The buyer sees the order confirmation
	w := s.request("GET", "/api/v1/notifications", nil)
	s.Equal(http.StatusOK, w.Code)
	buyerNotes := s.decode(w)["data"].([]interface{})
	s.Len(buyerNotes, 1)

	// The owning vendor sees the vendor notification
	s.session = models.Session{UserID: "vu", Role: models.UserRoleVendor, VendorID: "vendor-1"}
	w = s.request("GET", "/api/v1/notifications", nil)
	vendorNotes := s.decode(w)["data"].([]interface{})
	s.Len(vendorNotes, 1)

	// Another vendor sees nothing
	s.session = models.Session{UserID: "vu2", Role: models.UserRoleVendor, VendorID: "vendor-2"}
	w = s.request("GET", "/api/v1/notifications", nil)
	s.Empty(s.decode(w)["data"])
}

func (s *HandlersTestSuite) TestUnreadCountAndMarkRead() {
	product := s.seedProduct("vendor-1", "Apples", 2.50)
	s.request("POST", "/api/v1/cart", gin.H{"productId": product.ID})
	s.request("POST", "/api/v1/orders", checkoutBody())

	w := s.request("GET", "/api/v1/notifications/unread-count", nil)
	count := s.decode(w)["data"].(map[string]interface{})["count"]
	s.Equal(float64(1), count)

	w = s.request("GET", "/api/v1/notifications", nil)
	notes := s.decode(w)["data"].([]interface{})
	noteID := notes[0].(map[string]interface{})["id"].(string)

	w = s.request("PUT", "/api/v1/notifications/"+noteID+"/read", nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.request("GET", "/api/v1/notifications/unread-count", nil)
	count = s.decode(w)["data"].(map[string]interface{})["count"]
	s.Equal(float64(0), count)

	w = s.request("PUT", "/api/v1/notifications/ghost/read", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlersTestSuite) TestClearNotifications() {
	product := s.seedProduct("vendor-1", "Apples", 2.50)
	s.request("POST", "/api/v1/cart", gin.H{"productId": product.ID})
	s.request("POST", "/api/v1/orders", checkoutBody())

	w := s.request("DELETE", "/api/v1/notifications", nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.request("GET", "/api/v1/notifications", nil)
	s.Empty(s.decode(w)["data"])
}

func (s *HandlersTestSuite) TestProductListing() {
	s.seedProduct("vendor-1", "Apples", 2.50)
	s.seedProduct("vendor-2", "Milk", 3.00)

	w := s.request("GET", "/api/v1/products", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Len(s.decode(w)["data"], 2)

	w = s.request("GET", "/api/v1/products?vendorId=vendor-2", nil)
	s.Len(s.decode(w)["data"], 1)

	w = s.request("GET", "/api/v1/products/ghost", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
