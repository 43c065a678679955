// Package pricing holds the pure calculation rules behind the shop: the
// hybrid retail-price formula, pre-order classification, delivery ETA
// projection and the courier import-quota arithmetic. Nothing in this
// package performs I/O; persistence and retries belong to the callers.
package pricing

import (
	"errors"
	"math"
)

var ErrNegativeAmount = errors.New("pricing: negative cost component")

// BaseMargin is the profitability floor applied to every price.
const BaseMargin = 0.20

// categoryBonuses maps a catalog category to its margin bonus, reflecting
// exclusivity/competition tiers. Unknown categories fall back to
// DefaultCategoryBonus.
var categoryBonuses = map[string]float64{
	"dupe_arabe":            0.10,
	"arabe_medio":           0.25,
	"arabe_premium":         0.35,
	"diseñador_mainstream":  0.20,
	"diseñador_premium":     0.35,
	"nicho_accesible":       0.25,
	"ultra_nicho":           0.40,
}

const DefaultCategoryBonus = 0.25

// CostBreakdown carries the four cost components of a perfume, all in
// integer cents: supplier cost plus one field per shipping leg.
type CostBreakdown struct {
	CostCents              int64
	ShippingToCourierCents int64
	ShippingToEcuadorCents int64
	LocalShippingCents     int64
}

func (b CostBreakdown) validate() error {
	if b.CostCents < 0 || b.ShippingToCourierCents < 0 ||
		b.ShippingToEcuadorCents < 0 || b.LocalShippingCents < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// TotalCents is the true landed cost: supplier cost plus every shipping leg.
func (b CostBreakdown) TotalCents() int64 {
	return b.CostCents + b.ShippingToCourierCents + b.ShippingToEcuadorCents + b.LocalShippingCents
}

// InvoiceCents is the customs-declarable subset that counts against the
// courier quota: supplier cost plus the courier leg only.
func (b CostBreakdown) InvoiceCents() int64 {
	return b.CostCents + b.ShippingToCourierCents
}

// CategoryBonus returns the margin bonus for a category.
func CategoryBonus(category string) float64 {
	if b, ok := categoryBonuses[category]; ok {
		return b
	}
	return DefaultCategoryBonus
}

// ScarcityBonus rewards low stock: +0.10 under 5 units, +0.05 under 10.
func ScarcityBonus(stock int) float64 {
	switch {
	case stock < 5:
		return 0.10
	case stock < 10:
		return 0.05
	default:
		return 0
	}
}

// Margin is the full markup fraction for a category and stock level. It is
// never below BaseMargin + CategoryBonus(category).
func Margin(category string, stock int) float64 {
	return BaseMargin + CategoryBonus(category) + ScarcityBonus(stock)
}

// SuggestPriceCents computes the suggested retail price in cents:
//
//	price = totalCost × (1 + margin), rounded down to the dollar, plus .99
//
// The result always ends in 99 cents and never undercuts the margin floor.
func SuggestPriceCents(b CostBreakdown, category string, stock int) (int64, error) {
	if err := b.validate(); err != nil {
		return 0, err
	}
	totalCost := float64(b.TotalCents()) / 100
	raw := totalCost * (1 + Margin(category, stock))
	return int64(math.Floor(raw))*100 + 99, nil
}
