package domain

// Import methods.
const (
	MethodCourier = "courier"
	MethodViajero = "viajero"
)

// ImportSettings is the singleton configuration row for the import pipeline:
// the active logistics channel, the courier customs quota, and the per-leg
// transit day ranges used to project delivery ETAs.
//
// Version backs optimistic concurrency: every write goes through a
// compare-and-swap on (id, version) so concurrent quota increments cannot
// silently clobber each other.
type ImportSettings struct {
	ID           string `db:"id"`
	ActiveMethod string `db:"active_method"`

	CourierQuotaLimitCents int64 `db:"courier_quota_limit_cents"`
	CourierQuotaUsedCents  int64 `db:"courier_quota_used_cents"`

	CourierSupplierDaysMin  int `db:"courier_supplier_days_min"`
	CourierSupplierDaysMax  int `db:"courier_supplier_days_max"`
	CourierShippingDays     int `db:"courier_shipping_days"` // fixed leg, no range
	CourierWarehouseDaysMin int `db:"courier_warehouse_days_min"`
	CourierWarehouseDaysMax int `db:"courier_warehouse_days_max"`

	ViajeroSupplierDaysMin  int `db:"viajero_supplier_days_min"`
	ViajeroSupplierDaysMax  int `db:"viajero_supplier_days_max"`
	ViajeroShippingDaysMin  int `db:"viajero_shipping_days_min"`
	ViajeroShippingDaysMax  int `db:"viajero_shipping_days_max"`
	ViajeroWarehouseDaysMin int `db:"viajero_warehouse_days_min"`
	ViajeroWarehouseDaysMax int `db:"viajero_warehouse_days_max"`

	AutoSwitchToViajero bool `db:"auto_switch_to_viajero"`

	Version   int64  `db:"version"`
	UpdatedAt string `db:"updated_at"`
}
