package repos

import (
	"ikhor/internal/domain"

	"github.com/jmoiron/sqlx"
)

type PerfumeRepo struct{ db *sqlx.DB }

func NewPerfumeRepo(db *sqlx.DB) *PerfumeRepo { return &PerfumeRepo{db: db} }

const perfumeCols = `
  id, name, description, brand, category, subcategory, ml, price_cents, image_url,
  stock, lead_time_days, is_preorder_enabled,
  cost_cents, shipping_to_courier_cents, shipping_to_ecuador_cents, local_shipping_cents,
  supplier_name, fragrance_family, top_notes, heart_notes, base_notes, concentration,
  active, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *PerfumeRepo) ListActive(limit, offset int) ([]domain.Perfume, error) {
	var out []domain.Perfume
	err := r.db.Select(&out, `
	  SELECT `+perfumeCols+`
	  FROM perfumes
	  WHERE active = 1
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?
	`, limit, offset)
	return out, err
}

func (r *PerfumeRepo) ListByCategory(category string, limit, offset int) ([]domain.Perfume, error) {
	var out []domain.Perfume
	err := r.db.Select(&out, `
	  SELECT `+perfumeCols+`
	  FROM perfumes
	  WHERE category = ? AND active = 1
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?
	`, category, limit, offset)
	return out, err
}

func (r *PerfumeRepo) Get(id string) (domain.Perfume, error) {
	var p domain.Perfume
	err := r.db.Get(&p, `
	  SELECT `+perfumeCols+`
	  FROM perfumes
	  WHERE id = ?
	`, id)
	return p, err
}

func (r *PerfumeRepo) Search(q string, category string, limit, offset int) ([]domain.Perfume, error) {
	where := `active = 1`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(description) LIKE ?)`
		args = append(args, "%"+q+"%", "%"+q+"%", "%"+q+"%")
	}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, category)
	}

	sql := `
	  SELECT ` + perfumeCols + `
	  FROM perfumes
	  WHERE ` + where + `
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var out []domain.Perfume
	err := r.db.Select(&out, sql, args...)
	return out, err
}

// Insert creates a catalog row; used by admin creation and the vendor importer.
func (r *PerfumeRepo) Insert(p domain.Perfume) error {
	_, err := r.db.NamedExec(`
	  INSERT INTO perfumes(
	    id, name, description, brand, category, subcategory, ml, price_cents, image_url,
	    stock, lead_time_days, is_preorder_enabled,
	    cost_cents, shipping_to_courier_cents, shipping_to_ecuador_cents, local_shipping_cents,
	    supplier_name, fragrance_family, top_notes, heart_notes, base_notes, concentration, active)
	  VALUES(
	    :id, :name, :description, :brand, :category, :subcategory, :ml, :price_cents, :image_url,
	    :stock, :lead_time_days, :is_preorder_enabled,
	    :cost_cents, :shipping_to_courier_cents, :shipping_to_ecuador_cents, :local_shipping_cents,
	    :supplier_name, :fragrance_family, :top_notes, :heart_notes, :base_notes, :concentration, :active)
	`, p)
	return err
}

// UpdateCosts persists the admin pricing tool's cost breakdown and category.
func (r *PerfumeRepo) UpdateCosts(id string, costCents, toCourier, toEcuador, local int64, category string) error {
	_, err := r.db.Exec(`
	  UPDATE perfumes
	  SET cost_cents=?, shipping_to_courier_cents=?, shipping_to_ecuador_cents=?,
	      local_shipping_cents=?, category=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=?
	`, costCents, toCourier, toEcuador, local, category, id)
	return err
}

func (r *PerfumeRepo) UpdatePrice(id string, priceCents int64) error {
	_, err := r.db.Exec(`
	  UPDATE perfumes SET price_cents=?, updated_at=CURRENT_TIMESTAMP WHERE id=?
	`, priceCents, id)
	return err
}

func (r *PerfumeRepo) UpdateStock(id string, stock int) error {
	_, err := r.db.Exec(`
	  UPDATE perfumes SET stock=?, updated_at=CURRENT_TIMESTAMP WHERE id=?
	`, stock, id)
	return err
}

// DecrementStockTx takes qty units off the aggregate stock inside a checkout
// transaction; guarded so it can never go negative.
func (r *PerfumeRepo) DecrementStockTx(tx *sqlx.Tx, id string, qty int) error {
	res, err := tx.Exec(`
	  UPDATE perfumes SET stock = stock - ?, updated_at=CURRENT_TIMESTAMP
	  WHERE id = ? AND stock >= ?
	`, qty, id, qty)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// SetActive soft-disables instead of deleting.
func (r *PerfumeRepo) SetActive(id string, active bool) error {
	_, err := r.db.Exec(`
	  UPDATE perfumes SET active=?, updated_at=CURRENT_TIMESTAMP WHERE id=?
	`, active, id)
	return err
}
