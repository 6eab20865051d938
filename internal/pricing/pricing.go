// Package pricing computes cart totals in whole rupees.
package pricing

import "shoestore/internal/domain"

const (
	// FreeShippingThreshold is the subtotal above which shipping is free.
	// The comparison is strict: a subtotal of exactly 5000 still pays the fee.
	FreeShippingThreshold int64 = 5000
	// FlatShippingFee applies to every order at or below the threshold.
	FlatShippingFee int64 = 200
)

// Subtotal sums unit price times quantity over all cart lines.
func Subtotal(items []domain.CartItem) int64 {
	var sum int64
	for _, item := range items {
		sum += item.Product.Price * int64(item.Quantity)
	}
	return sum
}

// Shipping returns the shipping fee for a given subtotal.
func Shipping(subtotal int64) int64 {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return FlatShippingFee
}

// Total is the subtotal plus shipping.
func Total(items []domain.CartItem) int64 {
	subtotal := Subtotal(items)
	return subtotal + Shipping(subtotal)
}
