// Package pricing derives display totals from a cart subtotal. All amounts
// are whole yen; tax truncates toward zero so totals never round up.
package pricing

const (
	// FreeShippingThreshold is the subtotal at which shipping becomes free.
	FreeShippingThreshold = 5000
	// FlatShippingFee applies below the free-shipping threshold.
	FlatShippingFee = 500
	// taxRatePercent is the consumption tax rate applied after shipping.
	taxRatePercent = 10
)

// ShippingFee returns the shipping charge for the given item subtotal.
func ShippingFee(subtotal int) int {
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	return FlatShippingFee
}

// Tax returns the truncated consumption tax on an amount that already
// includes shipping.
func Tax(amountBeforeTax int) int {
	return amountBeforeTax * taxRatePercent / 100
}

// GrandTotal returns subtotal plus shipping plus tax on the shipped amount.
func GrandTotal(subtotal int) int {
	fee := ShippingFee(subtotal)
	return subtotal + fee + Tax(subtotal+fee)
}
