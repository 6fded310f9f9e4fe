package services

import (
	"errors"
	"sync"

	"grocermart-backend/internal/models"
)

// ErrNotAuthenticated is returned when a cart mutation is attempted without
// a logged-in session; the caller redirects to login without touching the
// cart.
var ErrNotAuthenticated = errors.New("authentication required")

// ErrCartEmpty is returned when checkout is attempted on an empty cart
var ErrCartEmpty = errors.New("cart is empty")

// CartService holds per-user cart ledgers. Carts live in memory only and do
// not survive a restart; the order store is the durable record.
type CartService struct {
	mu    sync.RWMutex
	carts map[string][]models.CartItem
}

// NewCartService creates a new cart service
func NewCartService() *CartService {
	return &CartService{carts: make(map[string][]models.CartItem)}
}

// AddToCart adds a product to the session user's cart, incrementing the
// quantity when the product is already present.
func (s *CartService) AddToCart(session models.Session, product models.Product) error {
	if !session.Authenticated() {
		return ErrNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.carts[session.UserID]
	for i := range cart {
		if cart[i].ID == product.ID {
			cart[i].Quantity++
			s.carts[session.UserID] = cart
			return nil
		}
	}

	s.carts[session.UserID] = append(cart, models.CartItem{Product: product, Quantity: 1})
	return nil
}

// UpdateQuantity sets the quantity of a cart line directly. Quantities of
// zero or less remove the line instead of leaving a degenerate entry.
func (s *CartService) UpdateQuantity(userID, productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.carts[userID]
	if quantity <= 0 {
		s.carts[userID] = removeItem(cart, productID)
		return
	}

	for i := range cart {
		if cart[i].ID == productID {
			cart[i].Quantity = quantity
			break
		}
	}
	s.carts[userID] = cart
}

// RemoveFromCart removes a product from the user's cart
func (s *CartService) RemoveFromCart(userID, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[userID] = removeItem(s.carts[userID], productID)
}

// ClearCart empties the user's cart
func (s *CartService) ClearCart(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, userID)
}

// Items returns a copy of the user's cart
func (s *CartService) Items(userID string) []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart := s.carts[userID]
	items := make([]models.CartItem, len(cart))
	copy(items, cart)
	return items
}

// GetTotalPrice returns the sum of line totals in the user's cart
func (s *CartService) GetTotalPrice(userID string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, item := range s.carts[userID] {
		total += item.GetTotalPrice()
	}
	return total
}

// GetTotalItems returns the total quantity across the user's cart
func (s *CartService) GetTotalItems(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, item := range s.carts[userID] {
		total += item.Quantity
	}
	return total
}

func removeItem(cart []models.CartItem, productID string) []models.CartItem {
	filtered := cart[:0]
	for _, item := range cart {
		if item.ID != productID {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
