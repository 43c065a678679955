package repos

import (
	"time"

	"ikhor/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

type CartItemRow struct {
	PerfumeID  string `db:"perfume_id"`
	Name       string `db:"name"`
	Brand      string `db:"brand"`
	ImageURL   string `db:"image_url"`
	Qty        int    `db:"qty"`
	PriceAtAdd int64  `db:"price_at_add"`
	StockAtAdd int    `db:"stock_at_add"`
	Subtotal   int64  `db:"subtotal"`
}

func (r *CartRepo) EnsureCart(sessionID string) (string, error) {
	var cartID string
	if err := r.db.Get(&cartID, `SELECT id FROM carts WHERE session_id = ?`, sessionID); err == nil {
		return cartID, nil
	}
	_, err := r.db.Exec(`INSERT INTO carts(id,session_id,updated_at) VALUES(?,?,?)`,
		sessionID, sessionID, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

// UpsertItem adds qty units, snapshotting the current price and the effective
// stock at the moment the item first enters the cart. The stock snapshot is
// what later classifies the order as a pre-order.
func (r *CartRepo) UpsertItem(cartID, perfumeID string, qty int, priceCents int64, stock int) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(cart_id,perfume_id,qty,price_at_add,stock_at_add,created_at)
		VALUES(?,?,?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(cart_id,perfume_id) DO UPDATE
		SET qty = cart_items.qty + excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, cartID, perfumeID, qty, priceCents, stock)
	return err
}

func (r *CartRepo) SetQty(cartID, perfumeID string, qty int) error {
	if qty <= 0 {
		return r.RemoveItem(cartID, perfumeID)
	}
	_, err := r.db.Exec(`
		UPDATE cart_items SET qty = ?, updated_at = CURRENT_TIMESTAMP
		WHERE cart_id = ? AND perfume_id = ?
	`, qty, cartID, perfumeID)
	return err
}

func (r *CartRepo) RemoveItem(cartID, perfumeID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ? AND perfume_id = ?`, cartID, perfumeID)
	return err
}

func (r *CartRepo) View(cartID string) ([]CartItemRow, int64, error) {
	rows := []CartItemRow{}
	if err := r.db.Select(&rows, `
	  SELECT ci.perfume_id, p.name, p.brand, p.image_url, ci.qty, ci.price_at_add, ci.stock_at_add,
	         (ci.qty*ci.price_at_add) AS subtotal
	  FROM cart_items ci JOIN perfumes p ON p.id=ci.perfume_id
	  WHERE ci.cart_id = ?
	  ORDER BY p.name
	`, cartID); err != nil {
		return nil, 0, err
	}
	var total int64
	for _, it := range rows {
		total += it.Subtotal
	}
	return rows, total, nil
}

// Lines returns the checkout snapshot of the cart, joining in the supplier
// cost legs the quota calculation needs.
func (r *CartRepo) Lines(cartID string) ([]domain.CartLine, error) {
	var out []domain.CartLine
	err := r.db.Select(&out, `
	  SELECT ci.perfume_id, p.name, ci.price_at_add AS price_cents,
	         p.cost_cents, p.shipping_to_courier_cents,
	         ci.stock_at_add, ci.qty
	  FROM cart_items ci JOIN perfumes p ON p.id=ci.perfume_id
	  WHERE ci.cart_id = ?
	`, cartID)
	return out, err
}

func (r *CartRepo) Clear(cartID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}

// ClearTx clears the cart inside the checkout transaction so a conflict retry
// never loses the buyer's items.
func (r *CartRepo) ClearTx(tx *sqlx.Tx, cartID string) error {
	_, err := tx.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}
