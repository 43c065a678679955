package repos

import (
	"ikhor/internal/domain"

	"github.com/jmoiron/sqlx"
)

// SettingsRepo persists the singleton import-settings record. Every write is
// a compare-and-swap keyed on (id, version) so concurrent quota increments
// and admin edits cannot silently overwrite each other.
type SettingsRepo struct{ db *sqlx.DB }

func NewSettingsRepo(db *sqlx.DB) *SettingsRepo { return &SettingsRepo{db: db} }

const settingsCols = `
  id, active_method, courier_quota_limit_cents, courier_quota_used_cents,
  courier_supplier_days_min, courier_supplier_days_max, courier_shipping_days,
  courier_warehouse_days_min, courier_warehouse_days_max,
  viajero_supplier_days_min, viajero_supplier_days_max,
  viajero_shipping_days_min, viajero_shipping_days_max,
  viajero_warehouse_days_min, viajero_warehouse_days_max,
  auto_switch_to_viajero, version, COALESCE(updated_at,'') AS updated_at`

// Get loads the singleton row.
func (r *SettingsRepo) Get() (domain.ImportSettings, error) {
	var s domain.ImportSettings
	err := r.db.Get(&s, `SELECT `+settingsCols+` FROM import_settings LIMIT 1`)
	return s, err
}

// GetTx re-reads the singleton row inside an open transaction, used by the
// checkout retry loop to pick up a fresh version after a CAS conflict.
func (r *SettingsRepo) GetTx(tx *sqlx.Tx) (domain.ImportSettings, error) {
	var s domain.ImportSettings
	err := tx.Get(&s, `SELECT `+settingsCols+` FROM import_settings LIMIT 1`)
	return s, err
}

// Save writes the full record if the caller's snapshot is still current.
func (r *SettingsRepo) Save(s domain.ImportSettings) error {
	return casUpdate(r.db, s)
}

// SaveTx is Save inside an existing transaction; the checkout flow uses it so
// the quota increment commits or rolls back together with the order rows.
func (r *SettingsRepo) SaveTx(tx *sqlx.Tx, s domain.ImportSettings) error {
	return casUpdate(tx, s)
}

func casUpdate(e sqlx.Execer, s domain.ImportSettings) error {
	res, err := e.Exec(`
	  UPDATE import_settings
	  SET active_method=?,
	      courier_quota_limit_cents=?, courier_quota_used_cents=?,
	      courier_supplier_days_min=?, courier_supplier_days_max=?, courier_shipping_days=?,
	      courier_warehouse_days_min=?, courier_warehouse_days_max=?,
	      viajero_supplier_days_min=?, viajero_supplier_days_max=?,
	      viajero_shipping_days_min=?, viajero_shipping_days_max=?,
	      viajero_warehouse_days_min=?, viajero_warehouse_days_max=?,
	      auto_switch_to_viajero=?,
	      version=version+1, updated_at=CURRENT_TIMESTAMP
	  WHERE id=? AND version=?
	`,
		s.ActiveMethod,
		s.CourierQuotaLimitCents, s.CourierQuotaUsedCents,
		s.CourierSupplierDaysMin, s.CourierSupplierDaysMax, s.CourierShippingDays,
		s.CourierWarehouseDaysMin, s.CourierWarehouseDaysMax,
		s.ViajeroSupplierDaysMin, s.ViajeroSupplierDaysMax,
		s.ViajeroShippingDaysMin, s.ViajeroShippingDaysMax,
		s.ViajeroWarehouseDaysMin, s.ViajeroWarehouseDaysMax,
		s.AutoSwitchToViajero,
		s.ID, s.Version)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrVersionConflict
	}
	return nil
}
