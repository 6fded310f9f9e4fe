package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusShipped, true},
		{OrderStatusPending, OrderStatusDelivered, true},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},

		{OrderStatusProcessing, OrderStatusPending, false},
		{OrderStatusDelivered, OrderStatusShipped, false},
		{OrderStatusDelivered, OrderStatusDelivered, false},
		{OrderStatusPending, OrderStatusPending, false},
		{OrderStatusPending, OrderStatus("cancelled"), false},
		{OrderStatus("bogus"), OrderStatusShipped, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.False(t, OrderStatusShipped.IsTerminal())
}

func TestOrderTotals(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{ID: "1", Name: "Apples", Price: 2.50, Quantity: 2},
			{ID: "2", Name: "Milk", Price: 3.00, Quantity: 1},
		},
	}

	assert.InDelta(t, 8.00, order.Subtotal(), 0.001)
	assert.Equal(t, 3, order.GetTotalItems())
}

func TestProductStock(t *testing.T) {
	unbounded := Product{ID: "1"}
	assert.True(t, unbounded.IsInStock(100), "no stock figure means always available")

	five := 5
	limited := Product{ID: "2", Stock: &five}
	assert.True(t, limited.IsInStock(5))
	assert.False(t, limited.IsInStock(6))
}

func TestShippingDetailsFormatAddress(t *testing.T) {
	shipping := ShippingDetails{
		Address: "12 Market Lane",
		City:    "Springfield",
		State:   "IL",
		Pincode: "620001",
	}
	assert.Equal(t, "12 Market Lane, Springfield, IL 620001", shipping.FormatAddress())
}

func TestDeliveryMethodIsValid(t *testing.T) {
	assert.True(t, DeliveryMethodStandard.IsValid())
	assert.True(t, DeliveryMethodExpress.IsValid())
	assert.False(t, DeliveryMethod("drone").IsValid())
}
