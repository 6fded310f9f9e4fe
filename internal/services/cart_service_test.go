package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocermart-backend/internal/models"
)

func buyerSession() models.Session {
	return models.Session{UserID: "user-1", Role: models.UserRoleUser}
}

func testProduct(id, name string, price float64) models.Product {
	return models.Product{ID: id, Name: name, Price: price, Category: models.ProductCategoryFruits}
}

func TestAddToCartRequiresAuthentication(t *testing.T) {
	cart := NewCartService()

	err := cart.AddToCart(models.Session{}, testProduct("p1", "Apples", 2.50))
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Empty(t, cart.Items(""))
}

func TestAddToCartIncrementsExistingLine(t *testing.T) {
	cart := NewCartService()
	session := buyerSession()

	require.NoError(t, cart.AddToCart(session, testProduct("p1", "Apples", 2.50)))
	require.NoError(t, cart.AddToCart(session, testProduct("p1", "Apples", 2.50)))
	require.NoError(t, cart.AddToCart(session, testProduct("p2", "Milk", 3.00)))

	items := cart.Items(session.UserID)
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, 3, cart.GetTotalItems(session.UserID))
	assert.InDelta(t, 8.00, cart.GetTotalPrice(session.UserID), 0.001)
}

func TestUpdateQuantitySetsDirectly(t *testing.T) {
	cart := NewCartService()
	session := buyerSession()

	require.NoError(t, cart.AddToCart(session, testProduct("p1", "Apples", 2.50)))
	cart.UpdateQuantity(session.UserID, "p1", 5)

	items := cart.Items(session.UserID)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	cart := NewCartService()
	session := buyerSession()

	require.NoError(t, cart.AddToCart(session, testProduct("p1", "Apples", 2.50)))
	require.NoError(t, cart.AddToCart(session, testProduct("p2", "Milk", 3.00)))

	cart.UpdateQuantity(session.UserID, "p1", 0)
	items := cart.Items(session.UserID)
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ID)

	cart.UpdateQuantity(session.UserID, "p2", -3)
	assert.Empty(t, cart.Items(session.UserID))
}

func TestRemoveFromCart(t *testing.T) {
	cart := NewCartService()
	session := buyerSession()

	require.NoError(t, cart.AddToCart(session, testProduct("p1", "Apples", 2.50)))
	cart.RemoveFromCart(session.UserID, "p1")
	assert.Empty(t, cart.Items(session.UserID))

	// Removing a missing line is a no-op
	cart.RemoveFromCart(session.UserID, "ghost")
}

func TestClearCart(t *testing.T) {
	cart := NewCartService()
	session := buyerSession()

	require.NoError(t, cart.AddToCart(session, testProduct("p1", "Apples", 2.50)))
	cart.ClearCart(session.UserID)

	assert.Empty(t, cart.Items(session.UserID))
	assert.Equal(t, 0, cart.GetTotalItems(session.UserID))
	assert.Zero(t, cart.GetTotalPrice(session.UserID))
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	cart := NewCartService()
	alice := models.Session{UserID: "alice", Role: models.UserRoleUser}
	bob := models.Session{UserID: "bob", Role: models.UserRoleUser}

	require.NoError(t, cart.AddToCart(alice, testProduct("p1", "Apples", 2.50)))
	require.NoError(t, cart.AddToCart(bob, testProduct("p2", "Milk", 3.00)))

	assert.Len(t, cart.Items("alice"), 1)
	assert.Len(t, cart.Items("bob"), 1)
	assert.Equal(t, "p1", cart.Items("alice")[0].ID)
}

func TestItemsReturnsCopy(t *testing.T) {
	cart := NewCartService()
	session := buyerSession()

	require.NoError(t, cart.AddToCart(session, testProduct("p1", "Apples", 2.50)))

	items := cart.Items(session.UserID)
	items[0].Quantity = 99

	assert.Equal(t, 1, cart.Items(session.UserID)[0].Quantity)
}
