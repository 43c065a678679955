package pricing_test

import (
	"testing"

	"ikhor/internal/domain"
	"ikhor/internal/pricing"
)

func TestQuotaState(t *testing.T) {
	s := domain.ImportSettings{ActiveMethod: domain.MethodCourier, CourierQuotaLimitCents: 100000}
	if got := pricing.QuotaState(s); got != pricing.QuotaCourierOpen {
		t.Fatalf("want courier_open, got %s", got)
	}
	s.CourierQuotaUsedCents = 100000
	if got := pricing.QuotaState(s); got != pricing.QuotaCourierExhausted {
		t.Fatalf("want courier_exhausted at limit, got %s", got)
	}
	s.ActiveMethod = domain.MethodViajero
	if got := pricing.QuotaState(s); got != pricing.QuotaViajeroActive {
		t.Fatalf("want viajero_active, got %s", got)
	}
}

func TestInvoiceCentsDistinctLines(t *testing.T) {
	lines := []domain.CartLine{
		{PerfumeID: "a", CostCents: 4000, ShippingToCourierCents: 1000, Qty: 3},
		{PerfumeID: "a", CostCents: 4000, ShippingToCourierCents: 1000, Qty: 1}, // duplicate row
		{PerfumeID: "b", CostCents: 2500, ShippingToCourierCents: 500, Qty: 1},
	}
	if got := pricing.InvoiceCentsForOrder(lines); got != 8000 {
		t.Fatalf("want 8000 (distinct items only), got %d", got)
	}
}

func TestQuotaDelta(t *testing.T) {
	courier := domain.ImportSettings{ActiveMethod: domain.MethodCourier}
	viajero := domain.ImportSettings{ActiveMethod: domain.MethodViajero}

	if got := pricing.QuotaDelta(courier, true, 3000); got != 3000 {
		t.Fatalf("qualifying order: want 3000, got %d", got)
	}
	if got := pricing.QuotaDelta(courier, false, 3000); got != 0 {
		t.Fatalf("in-stock order must not consume quota, got %d", got)
	}
	if got := pricing.QuotaDelta(viajero, true, 3000); got != 0 {
		t.Fatalf("viajero orders must not consume quota, got %d", got)
	}
	if got := pricing.QuotaDelta(courier, true, -50); got != 0 {
		t.Fatalf("delta is never negative, got %d", got)
	}
}

// Three invoices of 30000 + 40000 + 40000 against a 100000 limit end at 110000,
// exhausted after the third order.
func TestQuotaSequenceExhaustion(t *testing.T) {
	s := domain.ImportSettings{
		ActiveMethod:           domain.MethodCourier,
		CourierQuotaLimitCents: 100000,
	}
	for i, delta := range []int64{30000, 40000} {
		s = pricing.ApplyQuota(s, delta)
		if pricing.QuotaState(s) != pricing.QuotaCourierOpen {
			t.Fatalf("order %d: quota should still be open at %d", i+1, s.CourierQuotaUsedCents)
		}
	}
	s = pricing.ApplyQuota(s, 40000)
	if s.CourierQuotaUsedCents != 110000 {
		t.Fatalf("want 110000 used, got %d", s.CourierQuotaUsedCents)
	}
	if pricing.QuotaState(s) != pricing.QuotaCourierExhausted {
		t.Fatalf("want courier_exhausted, got %s", pricing.QuotaState(s))
	}
	// Without auto-switch the method stays courier for the admin to act on.
	if s.ActiveMethod != domain.MethodCourier {
		t.Fatalf("method must not flip without auto_switch, got %s", s.ActiveMethod)
	}
}

func TestApplyQuotaAutoSwitch(t *testing.T) {
	s := domain.ImportSettings{
		ActiveMethod:           domain.MethodCourier,
		CourierQuotaLimitCents: 100000,
		CourierQuotaUsedCents:  95000,
		AutoSwitchToViajero:    true,
	}
	s = pricing.ApplyQuota(s, 6000)
	if s.ActiveMethod != domain.MethodViajero {
		t.Fatalf("auto-switch should flip to viajero, got %s", s.ActiveMethod)
	}
	if s.CourierQuotaUsedCents != 101000 {
		t.Fatalf("counter must still record the consumption, got %d", s.CourierQuotaUsedCents)
	}
}

func TestApplyQuotaMonotonic(t *testing.T) {
	s := domain.ImportSettings{ActiveMethod: domain.MethodCourier, CourierQuotaLimitCents: 100000, CourierQuotaUsedCents: 500}
	if got := pricing.ApplyQuota(s, 0).CourierQuotaUsedCents; got != 500 {
		t.Fatalf("zero delta changed counter to %d", got)
	}
	if got := pricing.ApplyQuota(s, -100).CourierQuotaUsedCents; got != 500 {
		t.Fatalf("negative delta changed counter to %d", got)
	}
}
