package repos

import (
	"ikhor/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type AddressRepo struct{ db *sqlx.DB }

func NewAddressRepo(db *sqlx.DB) *AddressRepo { return &AddressRepo{db: db} }

func (r *AddressRepo) ListByUser(userID string) ([]domain.Address, error) {
	var out []domain.Address
	err := r.db.Select(&out, `
	  SELECT id, user_id, name, whatsapp, city, address, is_default
	  FROM addresses
	  WHERE user_id = ?
	  ORDER BY is_default DESC, name
	`, userID)
	return out, err
}

// Default returns the user's default address, or sql.ErrNoRows when none is saved.
func (r *AddressRepo) Default(userID string) (domain.Address, error) {
	var a domain.Address
	err := r.db.Get(&a, `
	  SELECT id, user_id, name, whatsapp, city, address, is_default
	  FROM addresses
	  WHERE user_id = ?
	  ORDER BY is_default DESC
	  LIMIT 1
	`, userID)
	return a, err
}

// Save upserts an address keyed on (user_id, name+city+address) so checking
// out twice with the same details does not pile up duplicates. A saved
// address becomes the default when the user has no other.
func (r *AddressRepo) Save(a domain.Address) error {
	var exists int
	err := r.db.Get(&exists, `
	  SELECT COUNT(*) FROM addresses
	  WHERE user_id = ? AND name = ? AND city = ? AND address = ?
	`, a.UserID, a.Name, a.City, a.Address)
	if err != nil {
		return err
	}
	if exists > 0 {
		return nil
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM addresses WHERE user_id = ?`, a.UserID); err != nil {
		return err
	}
	a.IsDefault = a.IsDefault || n == 0

	_, err = r.db.NamedExec(`
	  INSERT INTO addresses(id, user_id, name, whatsapp, city, address, is_default)
	  VALUES(:id, :user_id, :name, :whatsapp, :city, :address, :is_default)
	`, a)
	return err
}

func (r *AddressRepo) SetDefault(userID, addressID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE addresses SET is_default = 0 WHERE user_id = ?`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE addresses SET is_default = 1 WHERE id = ? AND user_id = ?`, addressID, userID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *AddressRepo) Delete(userID, addressID string) error {
	_, err := r.db.Exec(`DELETE FROM addresses WHERE id = ? AND user_id = ?`, addressID, userID)
	return err
}
