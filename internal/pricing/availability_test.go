package pricing_test

import (
	"testing"

	"ikhor/internal/domain"
	"ikhor/internal/pricing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		stock    int
		preorder bool
		want     string
	}{
		{0, false, pricing.StatusUnavailable},
		{0, true, pricing.StatusPreorder},
		{1, false, pricing.StatusInStock},
		{1, true, pricing.StatusInStock},
		{25, false, pricing.StatusInStock},
	}
	for _, tc := range cases {
		if got := pricing.Classify(tc.stock, tc.preorder); got != tc.want {
			t.Fatalf("stock=%d preorder=%v: want %s, got %s", tc.stock, tc.preorder, tc.want, got)
		}
	}
}

func TestIsLowStock(t *testing.T) {
	for stock, want := range map[int]bool{0: false, 1: true, 5: true, 6: false, 20: false} {
		if got := pricing.IsLowStock(stock); got != want {
			t.Fatalf("stock=%d: want %v, got %v", stock, want, got)
		}
	}
}

func TestEffectiveStockVariantsSupersede(t *testing.T) {
	p := domain.Perfume{Stock: 9}

	// No variants: aggregate stands.
	if got := pricing.EffectiveStock(p, nil); got != 9 {
		t.Fatalf("want 9, got %d", got)
	}

	// Active variants replace the aggregate, even when their sum is zero.
	vs := []domain.Variant{
		{Stock: 2, Active: true},
		{Stock: 1, Active: true},
		{Stock: 40, Active: false}, // disabled, ignored
	}
	if got := pricing.EffectiveStock(p, vs); got != 3 {
		t.Fatalf("want 3, got %d", got)
	}
	if got := pricing.EffectiveStock(p, []domain.Variant{{Stock: 0, Active: true}}); got != 0 {
		t.Fatalf("zero-stock variant should report 0, got %d", got)
	}

	// Only inactive variants: fall back to the aggregate.
	if got := pricing.EffectiveStock(p, []domain.Variant{{Stock: 40, Active: false}}); got != 9 {
		t.Fatalf("want 9, got %d", got)
	}
}

func TestOrderIsPreorderORRule(t *testing.T) {
	inStock := domain.CartLine{PerfumeID: "a", StockAtAdd: 4}
	outOfStock := domain.CartLine{PerfumeID: "b", StockAtAdd: 0}

	if pricing.OrderIsPreorder([]domain.CartLine{inStock}) {
		t.Fatal("all-in-stock cart flagged as pre-order")
	}
	if !pricing.OrderIsPreorder([]domain.CartLine{inStock, outOfStock}) {
		t.Fatal("one zero-stock line should make the whole order a pre-order")
	}
	if pricing.OrderIsPreorder(nil) {
		t.Fatal("empty cart flagged as pre-order")
	}
}
