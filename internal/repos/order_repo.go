package repos

import (
	"ikhor/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `
  id, COALESCE(session_id,'') AS session_id, customer_name, customer_email, whatsapp, city, address,
  total_cents, status, tracking_number, courier, estimated_delivery,
  is_preorder, preorder_estimated_arrival, payment_method, payment_status,
  COALESCE(created_at,'') AS created_at`

// CreateTx inserts the order header inside the checkout transaction.
func (r *OrderRepo) CreateTx(tx *sqlx.Tx, o domain.Order) error {
	_, err := tx.NamedExec(`
	  INSERT INTO orders
	    (id, session_id, customer_name, customer_email, whatsapp, city, address, total_cents, status,
	     is_preorder, preorder_estimated_arrival, payment_method, payment_status, created_at)
	  VALUES
	    (:id, :session_id, :customer_name, :customer_email, :whatsapp, :city, :address, :total_cents, :status,
	     :is_preorder, :preorder_estimated_arrival, :payment_method, :payment_status, CURRENT_TIMESTAMP)
	`, o)
	return err
}

// InsertItemTx snapshots one line item inside the checkout transaction.
func (r *OrderRepo) InsertItemTx(tx *sqlx.Tx, it domain.OrderItem) error {
	_, err := tx.NamedExec(`
	  INSERT INTO order_items(order_id, perfume_id, perfume_name, perfume_price_cents, qty)
	  VALUES(:order_id, :perfume_id, :perfume_name, :perfume_price_cents, :qty)
	`, it)
	return err
}

func (r *OrderRepo) Get(orderID string) (domain.Order, []domain.OrderItem, error) {
	var o domain.Order
	if err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, orderID); err != nil {
		return domain.Order{}, nil, err
	}

	var items []domain.OrderItem
	if err := r.db.Select(&items, `
		SELECT order_id, perfume_id, perfume_name, perfume_price_cents, qty
		FROM order_items
		WHERE order_id = ?
		ORDER BY perfume_name
	`, orderID); err != nil {
		return domain.Order{}, nil, err
	}

	return o, items, nil
}

func (r *OrderRepo) ListLatest(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.Order
	err := r.db.Select(&out, `
		SELECT `+orderCols+`
		FROM orders
		ORDER BY datetime(created_at) DESC
		LIMIT ?
	`, limit)
	return out, err
}

// ListByStatus filters the admin list to one fulfillment stage.
func (r *OrderRepo) ListByStatus(status string, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.Order
	err := r.db.Select(&out, `
		SELECT `+orderCols+`
		FROM orders
		WHERE status = ?
		ORDER BY datetime(created_at) DESC
		LIMIT ?
	`, status, limit)
	return out, err
}

// ListByUser returns orders for a given user via session linkage.
func (r *OrderRepo) ListByUser(userID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
		SELECT o.id, COALESCE(o.session_id,'') AS session_id, o.customer_name, o.customer_email, o.whatsapp, o.city, o.address,
		       o.total_cents, o.status, o.tracking_number, o.courier, o.estimated_delivery,
		       o.is_preorder, o.preorder_estimated_arrival, o.payment_method, o.payment_status,
		       COALESCE(o.created_at,'') AS created_at
		FROM orders o
		JOIN sessions s ON s.id = o.session_id
		WHERE s.user_id = ?
		ORDER BY datetime(o.created_at) DESC
	`, userID)
	return out, err
}

// ListBySession returns orders tied to a given session id (helps show anon or pre-login orders).
func (r *OrderRepo) ListBySession(sessionID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
		SELECT `+orderCols+`
		FROM orders
		WHERE session_id = ?
		ORDER BY datetime(created_at) DESC
	`, sessionID)
	return out, err
}

func (r *OrderRepo) UpdateStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	return err
}

// SetShipping records courier and tracking details and moves the order to
// enviado in one statement.
func (r *OrderRepo) SetShipping(id, courier, tracking, estimatedDelivery string) error {
	_, err := r.db.Exec(`
		UPDATE orders
		SET status = ?, courier = ?, tracking_number = ?, estimated_delivery = ?
		WHERE id = ?
	`, domain.StatusShipped, courier, tracking, estimatedDelivery, id)
	return err
}

func (r *OrderRepo) UpdatePaymentStatus(id, paymentStatus string) error {
	_, err := r.db.Exec(`UPDATE orders SET payment_status = ? WHERE id = ?`, paymentStatus, id)
	return err
}
