package pricing_test

import (
	"testing"

	"ikhor/internal/pricing"
)

func TestSuggestPriceEndsIn99(t *testing.T) {
	cases := []pricing.CostBreakdown{
		{CostCents: 4500, ShippingToCourierCents: 1000, ShippingToEcuadorCents: 1500, LocalShippingCents: 700},
		{CostCents: 12000},
		{CostCents: 1},
		{},
	}
	for _, b := range cases {
		p, err := pricing.SuggestPriceCents(b, "arabe_medio", 3)
		if err != nil {
			t.Fatalf("unexpected error for %+v: %v", b, err)
		}
		if p%100 != 99 {
			t.Fatalf("price %d does not end in .99 (breakdown %+v)", p, b)
		}
	}
}

func TestSuggestPriceZeroCost(t *testing.T) {
	p, err := pricing.SuggestPriceCents(pricing.CostBreakdown{}, "ultra_nicho", 0)
	if err != nil {
		t.Fatal(err)
	}
	if p != 99 {
		t.Fatalf("zero cost should price at 99 cents, got %d", p)
	}
}

func TestSuggestPriceRejectsNegatives(t *testing.T) {
	_, err := pricing.SuggestPriceCents(pricing.CostBreakdown{CostCents: -1}, "arabe_medio", 5)
	if err != pricing.ErrNegativeAmount {
		t.Fatalf("want ErrNegativeAmount, got %v", err)
	}
	_, err = pricing.SuggestPriceCents(pricing.CostBreakdown{LocalShippingCents: -200}, "arabe_medio", 5)
	if err != pricing.ErrNegativeAmount {
		t.Fatalf("want ErrNegativeAmount, got %v", err)
	}
}

func TestMarginFloorNeverViolated(t *testing.T) {
	categories := []string{
		"dupe_arabe", "arabe_medio", "arabe_premium", "diseñador_mainstream",
		"diseñador_premium", "nicho_accesible", "ultra_nicho", "no_such_tier",
	}
	for _, cat := range categories {
		for _, stock := range []int{0, 4, 5, 9, 10, 100} {
			m := pricing.Margin(cat, stock)
			floor := pricing.BaseMargin + pricing.CategoryBonus(cat)
			if m < floor {
				t.Fatalf("margin %.2f below floor %.2f for %s stock=%d", m, floor, cat, stock)
			}
		}
	}
}

func TestScarcityBonusBoundaries(t *testing.T) {
	cases := []struct {
		stock int
		want  float64
	}{
		{0, 0.10}, {1, 0.10}, {4, 0.10},
		{5, 0.05}, {7, 0.05}, {9, 0.05},
		{10, 0}, {50, 0},
	}
	for _, tc := range cases {
		if got := pricing.ScarcityBonus(tc.stock); got != tc.want {
			t.Fatalf("stock=%d: want bonus %.2f, got %.2f", tc.stock, tc.want, got)
		}
	}
}

func TestCategoryBonusDefault(t *testing.T) {
	if got := pricing.CategoryBonus("something_new"); got != pricing.DefaultCategoryBonus {
		t.Fatalf("unknown category should fall back to %.2f, got %.2f", pricing.DefaultCategoryBonus, got)
	}
	if got := pricing.CategoryBonus("ultra_nicho"); got != 0.40 {
		t.Fatalf("ultra_nicho bonus: want 0.40, got %.2f", got)
	}
}

// The calculator is a pure function: same inputs, same price, every time.
func TestSuggestPriceIdempotent(t *testing.T) {
	b := pricing.CostBreakdown{CostCents: 5300, ShippingToCourierCents: 1000, ShippingToEcuadorCents: 1500, LocalShippingCents: 700}
	first, err := pricing.SuggestPriceCents(b, "diseñador_premium", 2)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		p, err := pricing.SuggestPriceCents(b, "diseñador_premium", 2)
		if err != nil {
			t.Fatal(err)
		}
		if p != first {
			t.Fatalf("run %d: price changed %d -> %d", i, first, p)
		}
	}
}

// Golden value worked by hand: landed cost $85.00, category bonus .35,
// scarcity .10 (stock 2) -> margin .65 -> 85 × 1.65 = 140.25 -> $140.99.
func TestSuggestPriceGolden(t *testing.T) {
	b := pricing.CostBreakdown{CostCents: 5300, ShippingToCourierCents: 1000, ShippingToEcuadorCents: 1500, LocalShippingCents: 700}
	p, err := pricing.SuggestPriceCents(b, "diseñador_premium", 2)
	if err != nil {
		t.Fatal(err)
	}
	if p != 14099 {
		t.Fatalf("want 14099, got %d", p)
	}
}
