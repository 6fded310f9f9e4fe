package models

import (
	"time"
)

// ProductCategory represents product categories
type ProductCategory string

const (
	ProductCategoryFruits     ProductCategory = "fruits"
	ProductCategoryVegetables ProductCategory = "vegetables"
	ProductCategoryDairy      ProductCategory = "dairy"
	ProductCategoryBakery     ProductCategory = "bakery"
	ProductCategoryMeat       ProductCategory = "meat"
	ProductCategoryBeverages  ProductCategory = "beverages"
	ProductCategoryPantry     ProductCategory = "pantry"
	ProductCategoryOther      ProductCategory = "other"
)

// OrderStatus represents order status
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// orderStatusRank orders the lifecycle states. Transitions must move
// strictly forward; the store rejects regressions and unknown states.
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusProcessing: 1,
	OrderStatusShipped:    2,
	OrderStatusDelivered:  3,
}

// IsValid checks if the status is a known lifecycle state
func (s OrderStatus) IsValid() bool {
	_, ok := orderStatusRank[s]
	return ok
}

// CanTransitionTo checks if the status may move to the target state.
// Forward moves (including skips) are allowed, regressions and no-ops are not.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	from, ok := orderStatusRank[s]
	if !ok {
		return false
	}
	to, ok := orderStatusRank[target]
	if !ok {
		return false
	}
	return to > from
}

// IsTerminal checks if the status is the final lifecycle state
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered
}

// DeliveryMethod represents how an order is delivered
type DeliveryMethod string

const (
	DeliveryMethodStandard DeliveryMethod = "standard"
	DeliveryMethodExpress  DeliveryMethod = "express"
)

// IsValid checks if the delivery method is known
func (d DeliveryMethod) IsValid() bool {
	return d == DeliveryMethodStandard || d == DeliveryMethodExpress
}

// Product represents a product in the catalog
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    float64         `json:"price"`
	Image    string          `json:"image"`
	Category ProductCategory `json:"category"`
	Organic  bool            `json:"organic"`
	Rating   float64         `json:"rating"`
	VendorID string          `json:"vendorId,omitempty"`
	Stock    *int            `json:"stock,omitempty"`
}

// HasVendor checks if the product is owned by a vendor
func (p *Product) HasVendor() bool {
	return p.VendorID != ""
}

// IsInStock checks if the product has sufficient stock. Products without a
// stock figure are treated as always available.
func (p *Product) IsInStock(quantity int) bool {
	if p.Stock == nil {
		return true
	}
	return *p.Stock >= quantity
}

// CartItem represents a product in a user's cart with its quantity
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// GetTotalPrice returns the total price for the cart item
func (ci *CartItem) GetTotalPrice() float64 {
	return ci.Price * float64(ci.Quantity)
}

// OrderItem is a snapshot of a cart item frozen into an order at checkout
// time, decoupled from the live product so later catalog edits or deletes
// do not change historical orders.
type OrderItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
}

// GetTotalPrice returns the total price for the order item
func (oi *OrderItem) GetTotalPrice() float64 {
	return oi.Price * float64(oi.Quantity)
}

// Order represents a placed order. Append-only once created; the only
// mutable field is Status.
type Order struct {
	ID            string      `json:"id"`
	Reference     string      `json:"reference"`
	Date          time.Time   `json:"date"`
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
	DeliveryFee   float64     `json:"deliveryFee"`
	Status        OrderStatus `json:"status"`
	Address       string      `json:"address"`
	PhoneNumber   string      `json:"phoneNumber"`
	PaymentMethod string      `json:"paymentMethod"`
	UserID        string      `json:"userId,omitempty"`
}

// Subtotal returns the sum of item line totals, excluding the delivery fee
func (o *Order) Subtotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.GetTotalPrice()
	}
	return total
}

// GetTotalItems returns the total number of items in the order
func (o *Order) GetTotalItems() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// IsCompleted checks if the order has reached its terminal state
func (o *Order) IsCompleted() bool {
	return o.Status.IsTerminal()
}

// ShippingDetails represents the checkout shipping form
type ShippingDetails struct {
	FullName    string `json:"fullName" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required,digits=10"`
	Address     string `json:"address" validate:"required"`
	City        string `json:"city" validate:"required"`
	State       string `json:"state" validate:"required"`
	Pincode     string `json:"pincode" validate:"required,digits=6"`
}

// FormatAddress returns the shipping address as a single line
func (s *ShippingDetails) FormatAddress() string {
	return s.Address + ", " + s.City + ", " + s.State + " " + s.Pincode
}

// CheckoutRequest represents data for placing an order from the cart
type CheckoutRequest struct {
	Shipping       ShippingDetails `json:"shipping"`
	PaymentMethod  string          `json:"paymentMethod" validate:"required"`
	DeliveryMethod DeliveryMethod  `json:"deliveryMethod" validate:"required"`
}

// ProductCreation represents data for creating a new product
type ProductCreation struct {
	Name     string          `json:"name" validate:"required"`
	Price    float64         `json:"price" validate:"required,gt=0"`
	Image    string          `json:"image"`
	Category ProductCategory `json:"category" validate:"required"`
	Organic  bool            `json:"organic"`
	Stock    *int            `json:"stock,omitempty"`
}

// ProductUpdate represents data for updating a product
type ProductUpdate struct {
	Name     *string          `json:"name,omitempty"`
	Price    *float64         `json:"price,omitempty"`
	Image    *string          `json:"image,omitempty"`
	Category *ProductCategory `json:"category,omitempty"`
	Organic  *bool            `json:"organic,omitempty"`
	Rating   *float64         `json:"rating,omitempty"`
	Stock    *int             `json:"stock,omitempty"`
}
