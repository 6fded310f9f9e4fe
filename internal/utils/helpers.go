package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// GenerateOrderReference returns a user-facing order label in the form
// "ORD-" followed by six random digits. The label is display-only; order
// identity is the generated UUID, so reference collisions are harmless.
func GenerateOrderReference() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand is effectively infallible on supported platforms
		return "ORD-000000"
	}
	return fmt.Sprintf("ORD-%06d", n.Int64())
}

// FormatCurrency formats a number as a currency amount
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// JoinNames concatenates product names for notification messages,
// e.g. "Apples, Milk and Bread".
func JoinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}
