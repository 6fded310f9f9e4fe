package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"grocermart-backend/internal/models"
	"grocermart-backend/internal/storage"
	"grocermart-backend/internal/utils"
)

// Ledger storage keys, one per audience. There is no cross-ledger
// transaction; a fan-out writes each ledger independently.
const (
	adminLedgerKey  = "adminNotifications"
	vendorLedgerKey = "vendorNotifications"
	userLedgerKey   = "userNotifications"
)

// ErrNotificationNotFound is returned when a mark-read targets an id that
// is not in the ledger
var ErrNotificationNotFound = errors.New("notification not found")

// Publisher pushes a freshly created notification to connected dashboards.
// Delivery is best effort; the ledgers remain authoritative.
type Publisher interface {
	Publish(notification models.Notification)
}

// NotificationService keeps the three audience ledgers consistent and
// implements the order-event fan-out.
type NotificationService struct {
	store   *storage.SerializedStore
	catalog *CatalogService
	push    Publisher
}

// NewNotificationService creates a new notification service. push may be
// nil when no realtime channel is wired.
func NewNotificationService(store *storage.SerializedStore, catalog *CatalogService, push Publisher) *NotificationService {
	return &NotificationService{store: store, catalog: catalog, push: push}
}

func ledgerKey(kind models.AudienceKind) (string, error) {
	switch kind {
	case models.AudienceAdmin:
		return adminLedgerKey, nil
	case models.AudienceVendor:
		return vendorLedgerKey, nil
	case models.AudienceUser:
		return userLedgerKey, nil
	}
	return "", fmt.Errorf("unknown audience kind: %s", kind)
}

// readLedger loads and decodes one ledger; a missing key is an empty ledger
func (s *NotificationService) readLedger(ctx context.Context, key string) ([]models.Notification, error) {
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read notifications: %w", err)
	}

	var ledger []models.Notification
	if err := json.Unmarshal([]byte(raw), &ledger); err != nil {
		return nil, fmt.Errorf("failed to parse notifications: %w", err)
	}
	return ledger, nil
}

// Add appends a notification to the ledger selected by its audience tag
func (s *NotificationService) Add(ctx context.Context, notification models.Notification) error {
	key, err := ledgerKey(notification.Audience.Kind)
	if err != nil {
		return err
	}

	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if notification.Timestamp.IsZero() {
		notification.Timestamp = time.Now()
	}

	err = s.store.Update(ctx, key, func(current string) (string, error) {
		var ledger []models.Notification
		if current != "" {
			if err := json.Unmarshal([]byte(current), &ledger); err != nil {
				return "", fmt.Errorf("failed to parse notifications: %w", err)
			}
		}

		// Newest first
		ledger = append([]models.Notification{notification}, ledger...)

		data, err := json.Marshal(ledger)
		if err != nil {
			return "", fmt.Errorf("failed to serialize notifications: %w", err)
		}
		return string(data), nil
	})
	if err != nil {
		return err
	}

	if s.push != nil {
		s.push.Publish(notification)
	}
	return nil
}

// List returns the ledger records visible to the given scope (vendor id for
// the vendor ledger, user id for the user ledger, ignored for admin),
// newest first.
func (s *NotificationService) List(ctx context.Context, kind models.AudienceKind, scope string) ([]models.Notification, error) {
	key, err := ledgerKey(kind)
	if err != nil {
		return nil, err
	}

	ledger, err := s.readLedger(ctx, key)
	if err != nil {
		return nil, err
	}

	visible := make([]models.Notification, 0, len(ledger))
	for _, n := range ledger {
		if n.Audience.VisibleTo(scope) {
			visible = append(visible, n)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Timestamp.After(visible[j].Timestamp)
	})

	return visible, nil
}

// UnreadCount derives the number of unread records visible to the scope.
// The count is never persisted separately, so it cannot drift from the
// underlying records.
func (s *NotificationService) UnreadCount(ctx context.Context, kind models.AudienceKind, scope string) (int, error) {
	visible, err := s.List(ctx, kind, scope)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, n := range visible {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

// MarkAsRead flips IsRead on the matching record only
func (s *NotificationService) MarkAsRead(ctx context.Context, kind models.AudienceKind, notificationID string) error {
	key, err := ledgerKey(kind)
	if err != nil {
		return err
	}

	return s.store.Update(ctx, key, func(current string) (string, error) {
		var ledger []models.Notification
		if current != "" {
			if err := json.Unmarshal([]byte(current), &ledger); err != nil {
				return "", fmt.Errorf("failed to parse notifications: %w", err)
			}
		}

		found := false
		for i := range ledger {
			if ledger[i].ID == notificationID {
				ledger[i].IsRead = true
				found = true
				break
			}
		}
		if !found {
			return "", fmt.Errorf("%w: %s", ErrNotificationNotFound, notificationID)
		}

		data, err := json.Marshal(ledger)
		if err != nil {
			return "", fmt.Errorf("failed to serialize notifications: %w", err)
		}
		return string(data), nil
	})
}

// MarkAllAsRead flips IsRead on every record in the ledger
func (s *NotificationService) MarkAllAsRead(ctx context.Context, kind models.AudienceKind) error {
	key, err := ledgerKey(kind)
	if err != nil {
		return err
	}

	return s.store.Update(ctx, key, func(current string) (string, error) {
		var ledger []models.Notification
		if current != "" {
			if err := json.Unmarshal([]byte(current), &ledger); err != nil {
				return "", fmt.Errorf("failed to parse notifications: %w", err)
			}
		}

		for i := range ledger {
			ledger[i].IsRead = true
		}

		data, err := json.Marshal(ledger)
		if err != nil {
			return "", fmt.Errorf("failed to serialize notifications: %w", err)
		}
		return string(data), nil
	})
}

// ClearAll irreversibly replaces the ledger with an empty array. Any
// confirmation step is a UI concern.
func (s *NotificationService) ClearAll(ctx context.Context, kind models.AudienceKind) error {
	key, err := ledgerKey(kind)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, key, "[]")
}

// NotifyOrderPlaced fans out an order-placement event: one admin
// notification, one notification scoped to the placing user, and one per
// distinct vendor among the purchased items. Vendor membership is resolved
// against the live catalog, not the order's frozen snapshot; items whose
// product has since been deleted produce no vendor notification. Each
// ledger is written independently, so a partial failure leaves the ledgers
// that were already written intact.
func (s *NotificationService) NotifyOrderPlaced(ctx context.Context, order *models.Order) error {
	placed := models.Notification{
		Title:    "New Order Received",
		Message:  fmt.Sprintf("Order %s placed for %s", order.Reference, utils.FormatCurrency(order.Total)),
		Type:     models.NotificationTypeOrderPlaced,
		OrderID:  order.ID,
		Audience: models.AdminAudience(),
	}
	if err := s.Add(ctx, placed); err != nil {
		return fmt.Errorf("failed to notify admin: %w", err)
	}

	confirmation := models.Notification{
		Title:    "Order Placed",
		Message:  fmt.Sprintf("Your order %s has been placed successfully", order.Reference),
		Type:     models.NotificationTypeOrderPlaced,
		OrderID:  order.ID,
		Audience: models.UserAudience(order.UserID),
	}
	if err := s.Add(ctx, confirmation); err != nil {
		return fmt.Errorf("failed to notify user: %w", err)
	}

	vendors, err := s.catalog.VendorsForItems(ctx, order.Items)
	if err != nil {
		return fmt.Errorf("failed to resolve vendors: %w", err)
	}

	for vendorID, items := range vendors {
		var names []string
		var subtotal float64
		for _, item := range items {
			names = append(names, item.Name)
			subtotal += item.GetTotalPrice()
		}

		vendorNote := models.Notification{
			Title: "New Order For Your Products",
			Message: fmt.Sprintf("Order %s includes %s (%s)",
				order.Reference, utils.JoinNames(names), utils.FormatCurrency(subtotal)),
			Type:     models.NotificationTypeOrderPlaced,
			OrderID:  order.ID,
			Audience: models.VendorAudience(vendorID),
		}
		if err := s.Add(ctx, vendorNote); err != nil {
			return fmt.Errorf("failed to notify vendor %s: %w", vendorID, err)
		}
	}

	if len(vendors) == 0 {
		log.Printf("order %s: no live vendor products, vendor ledger unchanged", order.Reference)
	}

	return nil
}

// NotifyOrderStatus emits exactly one notification for a status change,
// scoped to the order's user. Orders without a user id broadcast to every
// user.
func (s *NotificationService) NotifyOrderStatus(ctx context.Context, order *models.Order) error {
	statusNote := models.Notification{
		Title:    "Order Update",
		Message:  fmt.Sprintf("Your order %s is now %s", order.Reference, order.Status),
		Type:     models.NotificationTypeOrderStatus,
		OrderID:  order.ID,
		Audience: models.UserAudience(order.UserID),
	}
	return s.Add(ctx, statusNote)
}
