package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocermart-backend/internal/models"
)

func validShipping() models.ShippingDetails {
	return models.ShippingDetails{
		FullName:    "Jane Doe",
		PhoneNumber: "5551234567",
		Address:     "12 Market Lane",
		City:        "Springfield",
		State:       "IL",
		Pincode:     "620001",
	}
}

func TestValidateShippingDetailsValid(t *testing.T) {
	shipping := validShipping()
	assert.NoError(t, ValidateStruct(&shipping))
}

func TestValidateShippingDetailsMissingFields(t *testing.T) {
	shipping := models.ShippingDetails{}

	err := ValidateStruct(&shipping)
	require.Error(t, err)

	errs, ok := err.(ValidationErrors)
	require.True(t, ok)
	assert.Len(t, errs, 6, "every required field should be reported")
}

func TestValidateShippingDetailsPhoneLength(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"5551234567", true},
		{"555123456", false},    // 9 digits
		{"55512345678", false},  // 11 digits
		{"555-123-456", false},  // non-digits
	}

	for _, tt := range tests {
		shipping := validShipping()
		shipping.PhoneNumber = tt.phone
		err := ValidateStruct(&shipping)
		if tt.valid {
			assert.NoError(t, err, "phone %q", tt.phone)
		} else {
			assert.Error(t, err, "phone %q", tt.phone)
		}
	}
}

func TestValidateShippingDetailsPincode(t *testing.T) {
	shipping := validShipping()
	shipping.Pincode = "12345"
	err := ValidateStruct(&shipping)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Pincode")
}

// Checkout validation recurses into the shipping section, so one call
// reports shipping and top-level violations together.
func TestValidateCheckoutRequestNested(t *testing.T) {
	req := models.CheckoutRequest{
		Shipping:       validShipping(),
		PaymentMethod:  "card",
		DeliveryMethod: models.DeliveryMethodStandard,
	}
	assert.NoError(t, ValidateStruct(&req))

	req.Shipping.Pincode = ""
	req.PaymentMethod = ""
	err := ValidateStruct(&req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Pincode")
	assert.Contains(t, err.Error(), "PaymentMethod")
}

func TestValidateProductCreation(t *testing.T) {
	creation := models.ProductCreation{
		Name:     "Apples",
		Price:    2.50,
		Category: models.ProductCategoryFruits,
	}
	assert.NoError(t, ValidateStruct(&creation))

	creation.Price = 0
	err := ValidateStruct(&creation)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Price")
}

func TestValidationIsDeterministic(t *testing.T) {
	shipping := validShipping()
	shipping.PhoneNumber = "123"

	first := ValidateStruct(&shipping)
	second := ValidateStruct(&shipping)
	require.Error(t, first)
	require.Error(t, second)
	assert.Equal(t, first.Error(), second.Error())
}

func TestIsDigits(t *testing.T) {
	assert.True(t, IsDigits("123456", 6))
	assert.False(t, IsDigits("12345", 6))
	assert.False(t, IsDigits("12345a", 6))
	assert.False(t, IsDigits("", 6))
}

func TestGenerateOrderReference(t *testing.T) {
	for i := 0; i < 20; i++ {
		ref := GenerateOrderReference()
		require.Len(t, ref, 10)
		assert.True(t, strings.HasPrefix(ref, "ORD-"))
		assert.True(t, IsDigits(strings.TrimPrefix(ref, "ORD-"), 6))
	}
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$2.99", FormatCurrency(2.99))
	assert.Equal(t, "$10.00", FormatCurrency(10))
}

func TestJoinNames(t *testing.T) {
	assert.Equal(t, "", JoinNames(nil))
	assert.Equal(t, "Apples", JoinNames([]string{"Apples"}))
	assert.Equal(t, "Apples and Milk", JoinNames([]string{"Apples", "Milk"}))
	assert.Equal(t, "Apples, Milk and Bread", JoinNames([]string{"Apples", "Milk", "Bread"}))
}
