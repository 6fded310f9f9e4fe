package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"grocermart-backend/internal/models"
	"grocermart-backend/internal/storage"
	"grocermart-backend/internal/utils"
)

const ordersKey = "orders"

var (
	// ErrOrderNotFound is returned when an order id does not exist
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidTransition is returned for a status change that would move
	// an order backwards or nowhere
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidDeliveryMethod is returned for an unrecognized delivery method
	ErrInvalidDeliveryMethod = errors.New("invalid delivery method")
	// ErrNotOrderParticipant is returned when the caller has no stake in the order
	ErrNotOrderParticipant = errors.New("not a participant in this order")
)

// DeliveryFees holds the flat fee per delivery method
type DeliveryFees struct {
	Standard float64
	Express  float64
}

// DefaultDeliveryFees returns the stock fee schedule
func DefaultDeliveryFees() DeliveryFees {
	return DeliveryFees{Standard: 2.99, Express: 5.99}
}

// For returns the fee for the given method
func (f DeliveryFees) For(method models.DeliveryMethod) (float64, bool) {
	switch method {
	case models.DeliveryMethodStandard:
		return f.Standard, true
	case models.DeliveryMethodExpress:
		return f.Express, true
	}
	return 0, false
}

// OrderService owns the order ledger and the checkout flow
type OrderService struct {
	store         *storage.SerializedStore
	cart          *CartService
	catalog       *CatalogService
	notifications *NotificationService
	fees          DeliveryFees
}

// NewOrderService creates a new order service
func NewOrderService(store *storage.SerializedStore, cart *CartService, catalog *CatalogService, notifications *NotificationService, fees DeliveryFees) *OrderService {
	return &OrderService{
		store:         store,
		cart:          cart,
		catalog:       catalog,
		notifications: notifications,
		fees:          fees,
	}
}

func (s *OrderService) readOrders(ctx context.Context) ([]models.Order, error) {
	raw, err := s.store.Get(ctx, ordersKey)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	var orders []models.Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		return nil, fmt.Errorf("failed to parse orders: %w", err)
	}
	return orders, nil
}

// PlaceOrder converts the session's cart into a persisted order. The cart
// is cleared only after the order has been written; a storage failure
// leaves the cart untouched so checkout can be retried.
func (s *OrderService) PlaceOrder(ctx context.Context, session models.Session, req *models.CheckoutRequest) (*models.Order, error) {
	if !session.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	fee, ok := s.fees.For(req.DeliveryMethod)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDeliveryMethod, req.DeliveryMethod)
	}

	cartItems := s.cart.Items(session.UserID)
	if len(cartItems) == 0 {
		return nil, ErrCartEmpty
	}

	// Snapshot the cart lines. Later catalog edits must not rewrite
	// order history.
	items := make([]models.OrderItem, 0, len(cartItems))
	var subtotal float64
	for _, ci := range cartItems {
		items = append(items, models.OrderItem{
			ID:       ci.ID,
			Name:     ci.Name,
			Price:    ci.Price,
			Quantity: ci.Quantity,
			Image:    ci.Image,
		})
		subtotal += ci.GetTotalPrice()
	}

	order := models.Order{
		ID:            uuid.New().String(),
		Reference:     utils.GenerateOrderReference(),
		Date:          time.Now(),
		Items:         items,
		Total:         subtotal + fee,
		DeliveryFee:   fee,
		Status:        models.OrderStatusPending,
		Address:       req.Shipping.FormatAddress(),
		PhoneNumber:   req.Shipping.PhoneNumber,
		PaymentMethod: req.PaymentMethod,
		UserID:        session.UserID,
	}

	err := s.store.Update(ctx, ordersKey, func(current string) (string, error) {
		var orders []models.Order
		if current != "" {
			if err := json.Unmarshal([]byte(current), &orders); err != nil {
				return "", fmt.Errorf("failed to parse orders: %w", err)
			}
		}

		// Newest first
		orders = append([]models.Order{order}, orders...)

		data, err := json.Marshal(orders)
		if err != nil {
			return "", fmt.Errorf("failed to serialize orders: %w", err)
		}
		return string(data), nil
	})
	if err != nil {
		return nil, err
	}

	s.cart.ClearCart(session.UserID)

	if err := s.notifications.NotifyOrderPlaced(ctx, &order); err != nil {
		// The order is already committed; a fan-out failure must not
		// roll checkout back.
		return &order, fmt.Errorf("order placed but notification fan-out failed: %w", err)
	}

	return &order, nil
}

// GetOrders returns the orders visible to the session: buyers see their
// own orders, admins see everything, vendors see orders containing at
// least one of their live catalog products.
func (s *OrderService) GetOrders(ctx context.Context, session models.Session) ([]models.Order, error) {
	if !session.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	orders, err := s.readOrders(ctx)
	if err != nil {
		return nil, err
	}

	if session.IsAdmin() {
		return orders, nil
	}

	if session.IsVendor() {
		vendorProducts, err := s.catalog.GetProducts(ctx, "", session.VendorID)
		if err != nil {
			return nil, err
		}
		owned := make(map[string]bool, len(vendorProducts))
		for _, p := range vendorProducts {
			owned[p.ID] = true
		}

		var visible []models.Order
		for _, order := range orders {
			for _, item := range order.Items {
				if owned[item.ID] {
					visible = append(visible, order)
					break
				}
			}
		}
		return visible, nil
	}

	var own []models.Order
	for _, order := range orders {
		if order.UserID == session.UserID {
			own = append(own, order)
		}
	}
	return own, nil
}

// GetOrderByID returns a single order if the session may see it
func (s *OrderService) GetOrderByID(ctx context.Context, session models.Session, orderID string) (*models.Order, error) {
	visible, err := s.GetOrders(ctx, session)
	if err != nil {
		return nil, err
	}

	for i := range visible {
		if visible[i].ID == orderID {
			return &visible[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
}

// UpdateOrderStatus advances an order to a later status. Admins may update
// any order; vendors only orders containing their products. The change is
// forward only and emits one status notification to the order's user.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, session models.Session, orderID string, status models.OrderStatus) (*models.Order, error) {
	if !session.IsAdmin() && !session.IsVendor() {
		return nil, ErrNotOrderParticipant
	}

	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %s", ErrInvalidTransition, status)
	}

	if session.IsVendor() && !session.IsAdmin() {
		// Resolves permission against the live catalog before touching
		// the ledger.
		if _, err := s.GetOrderByID(ctx, session, orderID); err != nil {
			return nil, err
		}
	}

	var updated models.Order
	err := s.store.Update(ctx, ordersKey, func(current string) (string, error) {
		var orders []models.Order
		if current != "" {
			if err := json.Unmarshal([]byte(current), &orders); err != nil {
				return "", fmt.Errorf("failed to parse orders: %w", err)
			}
		}

		found := false
		for i := range orders {
			if orders[i].ID == orderID {
				if !orders[i].Status.CanTransitionTo(status) {
					return "", fmt.Errorf("%w: %s to %s", ErrInvalidTransition, orders[i].Status, status)
				}
				orders[i].Status = status
				updated = orders[i]
				found = true
				break
			}
		}
		if !found {
			return "", fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
		}

		data, err := json.Marshal(orders)
		if err != nil {
			return "", fmt.Errorf("failed to serialize orders: %w", err)
		}
		return string(data), nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifications.NotifyOrderStatus(ctx, &updated); err != nil {
		return &updated, fmt.Errorf("status updated but notification failed: %w", err)
	}

	return &updated, nil
}
