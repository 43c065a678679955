package repos

import (
	"time"

	"github.com/jmoiron/sqlx"
)

type WishlistRepo struct{ db *sqlx.DB }

func NewWishlistRepo(db *sqlx.DB) *WishlistRepo { return &WishlistRepo{db: db} }

func (r *WishlistRepo) Ensure(sessionID string) (string, error) {
	var id string
	if err := r.db.Get(&id, `SELECT id FROM wishlists WHERE session_id=?`, sessionID); err == nil {
		return id, nil
	}
	_, err := r.db.Exec(`INSERT INTO wishlists(id,session_id,updated_at) VALUES(?,?,?)`,
		sessionID, sessionID, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

func (r *WishlistRepo) Add(wishlistID, perfumeID string) error {
	_, err := r.db.Exec(`
	  INSERT INTO wishlist_items(wishlist_id, perfume_id, created_at)
	  VALUES(?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(wishlist_id, perfume_id) DO NOTHING
	`, wishlistID, perfumeID)
	return err
}

func (r *WishlistRepo) Remove(wishlistID, perfumeID string) error {
	_, err := r.db.Exec(`DELETE FROM wishlist_items WHERE wishlist_id=? AND perfume_id=?`, wishlistID, perfumeID)
	return err
}

type WishlistRow struct {
	PerfumeID  string `db:"perfume_id"`
	Name       string `db:"name"`
	Brand      string `db:"brand"`
	ImageURL   string `db:"image_url"`
	PriceCents int64  `db:"price_cents"`
	Stock      int    `db:"stock"`
	Active     bool   `db:"active"`
}

func (r *WishlistRepo) List(wishlistID string) ([]WishlistRow, error) {
	var out []WishlistRow
	err := r.db.Select(&out, `
	  SELECT p.id AS perfume_id, p.name, p.brand, p.image_url, p.price_cents, p.stock, p.active
	  FROM wishlist_items wi
	  JOIN perfumes p ON p.id = wi.perfume_id
	  WHERE wi.wishlist_id = ?
	  ORDER BY p.name
	`, wishlistID)
	return out, err
}
