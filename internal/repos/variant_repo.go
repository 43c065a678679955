package repos

import (
	"ikhor/internal/domain"

	"github.com/jmoiron/sqlx"
)

type VariantRepo struct{ db *sqlx.DB }

func NewVariantRepo(db *sqlx.DB) *VariantRepo { return &VariantRepo{db: db} }

func (r *VariantRepo) ListByPerfume(perfumeID string) ([]domain.Variant, error) {
	var out []domain.Variant
	err := r.db.Select(&out, `
	  SELECT id, perfume_id, size_ml, sku, price_cents, cost_cents, stock,
	         is_tester, is_default, active
	  FROM perfume_variants
	  WHERE perfume_id = ?
	  ORDER BY size_ml
	`, perfumeID)
	return out, err
}

func (r *VariantRepo) Get(id string) (domain.Variant, error) {
	var v domain.Variant
	err := r.db.Get(&v, `
	  SELECT id, perfume_id, size_ml, sku, price_cents, cost_cents, stock,
	         is_tester, is_default, active
	  FROM perfume_variants
	  WHERE id = ?
	`, id)
	return v, err
}

func (r *VariantRepo) Insert(v domain.Variant) error {
	_, err := r.db.NamedExec(`
	  INSERT INTO perfume_variants(id, perfume_id, size_ml, sku, price_cents, cost_cents,
	                               stock, is_tester, is_default, active)
	  VALUES(:id, :perfume_id, :size_ml, :sku, :price_cents, :cost_cents,
	         :stock, :is_tester, :is_default, :active)
	`, v)
	return err
}

func (r *VariantRepo) Update(v domain.Variant) error {
	_, err := r.db.NamedExec(`
	  UPDATE perfume_variants
	  SET size_ml=:size_ml, sku=:sku, price_cents=:price_cents, cost_cents=:cost_cents,
	      stock=:stock, is_tester=:is_tester, is_default=:is_default, active=:active
	  WHERE id=:id
	`, v)
	return err
}

// DecrementTx atomically subtracts "by" units inside a checkout transaction
// if enough stock exists.
func (r *VariantRepo) DecrementTx(tx *sqlx.Tx, id string, by int) error {
	res, err := tx.Exec(`
	  UPDATE perfume_variants
	  SET stock = stock - ?
	  WHERE id = ? AND stock >= ?
	`, by, id, by)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// ListActiveByPerfumeTx returns the perfume's sellable variants, default
// first, for in-transaction stock work.
func (r *VariantRepo) ListActiveByPerfumeTx(tx *sqlx.Tx, perfumeID string) ([]domain.Variant, error) {
	var out []domain.Variant
	err := tx.Select(&out, `
	  SELECT id, perfume_id, size_ml, sku, price_cents, cost_cents, stock,
	         is_tester, is_default, active
	  FROM perfume_variants
	  WHERE perfume_id = ? AND active = 1
	  ORDER BY is_default DESC, size_ml
	`, perfumeID)
	return out, err
}
