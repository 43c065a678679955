package pricing

import "ikhor/internal/domain"

// Availability states.
const (
	StatusInStock     = "in_stock"
	StatusPreorder    = "preorder"
	StatusUnavailable = "unavailable"
)

// LowStockThreshold is the count at or below which the storefront shows an
// urgency badge. Not a distinct purchasability state.
const LowStockThreshold = 5

// Classify maps effective stock and the pre-order flag to a purchasability
// state: any stock means in_stock, zero stock is preorder when enabled and
// unavailable otherwise.
func Classify(stock int, preorderEnabled bool) string {
	if stock > 0 {
		return StatusInStock
	}
	if preorderEnabled {
		return StatusPreorder
	}
	return StatusUnavailable
}

// IsLowStock flags 0 < stock <= LowStockThreshold.
func IsLowStock(stock int) bool {
	return stock > 0 && stock <= LowStockThreshold
}

// EffectiveStock returns the stock that drives purchasability: the sum of the
// active variants' stock when variants exist, else the perfume's aggregate.
func EffectiveStock(p domain.Perfume, variants []domain.Variant) int {
	active := 0
	total := 0
	for _, v := range variants {
		if !v.Active {
			continue
		}
		active++
		total += v.Stock
	}
	if active > 0 {
		return total
	}
	return p.Stock
}

// OrderIsPreorder applies the OR rule across a cart: a single line whose
// effective stock was zero at add time makes the whole order a pre-order.
func OrderIsPreorder(lines []domain.CartLine) bool {
	for _, l := range lines {
		if l.StockAtAdd == 0 {
			return true
		}
	}
	return false
}
