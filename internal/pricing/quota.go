package pricing

import "ikhor/internal/domain"

// Quota states for the import-method state machine.
const (
	QuotaCourierOpen      = "courier_open"
	QuotaCourierExhausted = "courier_exhausted"
	QuotaViajeroActive    = "viajero_active"
)

// QuotaState derives the current state from a settings snapshot.
func QuotaState(s domain.ImportSettings) string {
	if s.ActiveMethod == domain.MethodViajero {
		return QuotaViajeroActive
	}
	if s.CourierQuotaUsedCents >= s.CourierQuotaLimitCents {
		return QuotaCourierExhausted
	}
	return QuotaCourierOpen
}

// InvoiceCentsForOrder sums the customs-declarable invoice amount over the
// distinct line items of a cart: supplier cost plus the courier leg only,
// excluding markup and downstream shipping.
func InvoiceCentsForOrder(lines []domain.CartLine) int64 {
	seen := make(map[string]bool, len(lines))
	var total int64
	for _, l := range lines {
		if seen[l.PerfumeID] {
			continue
		}
		seen[l.PerfumeID] = true
		total += l.CostCents + l.ShippingToCourierCents
	}
	return total
}

// QuotaDelta is the amount an order adds to the courier quota counter: the
// invoice total when the order is a pre-order and the active method is
// courier, zero otherwise. Always >= 0.
func QuotaDelta(s domain.ImportSettings, isPreorder bool, invoiceCents int64) int64 {
	if !isPreorder || s.ActiveMethod != domain.MethodCourier || invoiceCents <= 0 {
		return 0
	}
	return invoiceCents
}

// ApplyQuota returns the settings record after consuming delta cents of
// quota. The counter is monotonically non-decreasing. When the addition
// exhausts the quota and auto-switch is enabled, the active method flips to
// viajero in the same step; otherwise the exhausted state is left for the
// admin to act on.
func ApplyQuota(s domain.ImportSettings, delta int64) domain.ImportSettings {
	if delta <= 0 {
		return s
	}
	s.CourierQuotaUsedCents += delta
	if s.AutoSwitchToViajero && s.CourierQuotaUsedCents >= s.CourierQuotaLimitCents {
		s.ActiveMethod = domain.MethodViajero
	}
	return s
}
