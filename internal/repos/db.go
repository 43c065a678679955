package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline data if DB is empty (settings/perfumes/variants)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Perfumes
CREATE TABLE IF NOT EXISTS perfumes(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  brand TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT 'nicho_accesible',
  subcategory TEXT NOT NULL DEFAULT '',
  ml INTEGER NOT NULL DEFAULT 100,
  price_cents INTEGER NOT NULL CHECK (price_cents >= 0),
  image_url TEXT NOT NULL DEFAULT '',
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  lead_time_days INTEGER NOT NULL DEFAULT 14,
  is_preorder_enabled INTEGER NOT NULL DEFAULT 1,
  cost_cents INTEGER NOT NULL DEFAULT 0 CHECK (cost_cents >= 0),
  shipping_to_courier_cents INTEGER NOT NULL DEFAULT 0 CHECK (shipping_to_courier_cents >= 0),
  shipping_to_ecuador_cents INTEGER NOT NULL DEFAULT 0 CHECK (shipping_to_ecuador_cents >= 0),
  local_shipping_cents INTEGER NOT NULL DEFAULT 0 CHECK (local_shipping_cents >= 0),
  supplier_name TEXT NOT NULL DEFAULT '',
  fragrance_family TEXT NOT NULL DEFAULT '',
  top_notes TEXT NOT NULL DEFAULT '',
  heart_notes TEXT NOT NULL DEFAULT '',
  base_notes TEXT NOT NULL DEFAULT '',
  concentration TEXT NOT NULL DEFAULT '',
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_perfumes_category  ON perfumes(category);
CREATE INDEX IF NOT EXISTS idx_perfumes_name      ON perfumes(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_perfumes_created   ON perfumes(created_at);

-- Size variants; stock here supersedes perfumes.stock when rows exist
CREATE TABLE IF NOT EXISTS perfume_variants(
  id TEXT PRIMARY KEY,
  perfume_id TEXT NOT NULL REFERENCES perfumes(id) ON DELETE CASCADE,
  size_ml INTEGER NOT NULL,
  sku TEXT NOT NULL DEFAULT '',
  price_cents INTEGER NOT NULL CHECK (price_cents >= 0),
  cost_cents INTEGER NOT NULL DEFAULT 0 CHECK (cost_cents >= 0),
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  is_tester INTEGER NOT NULL DEFAULT 0,
  is_default INTEGER NOT NULL DEFAULT 0,
  active INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_variants_perfume ON perfume_variants(perfume_id);

-- Singleton import configuration; version backs optimistic concurrency
CREATE TABLE IF NOT EXISTS import_settings(
  id TEXT PRIMARY KEY,
  active_method TEXT NOT NULL DEFAULT 'courier' CHECK (active_method IN ('courier','viajero')),
  courier_quota_limit_cents INTEGER NOT NULL DEFAULT 100000,
  courier_quota_used_cents INTEGER NOT NULL DEFAULT 0 CHECK (courier_quota_used_cents >= 0),
  courier_supplier_days_min INTEGER NOT NULL DEFAULT 7,
  courier_supplier_days_max INTEGER NOT NULL DEFAULT 9,
  courier_shipping_days INTEGER NOT NULL DEFAULT 7,
  courier_warehouse_days_min INTEGER NOT NULL DEFAULT 3,
  courier_warehouse_days_max INTEGER NOT NULL DEFAULT 7,
  viajero_supplier_days_min INTEGER NOT NULL DEFAULT 7,
  viajero_supplier_days_max INTEGER NOT NULL DEFAULT 9,
  viajero_shipping_days_min INTEGER NOT NULL DEFAULT 10,
  viajero_shipping_days_max INTEGER NOT NULL DEFAULT 20,
  viajero_warehouse_days_min INTEGER NOT NULL DEFAULT 3,
  viajero_warehouse_days_max INTEGER NOT NULL DEFAULT 7,
  auto_switch_to_viajero INTEGER NOT NULL DEFAULT 0,
  version INTEGER NOT NULL DEFAULT 1,
  updated_at TEXT
);

-- Carts
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  session_id TEXT UNIQUE NOT NULL,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS cart_items(
  cart_id    TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  perfume_id TEXT NOT NULL REFERENCES perfumes(id) ON DELETE RESTRICT,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  price_at_add INTEGER NOT NULL,
  stock_at_add INTEGER NOT NULL DEFAULT 0,
  created_at TEXT,
  updated_at TEXT,
  PRIMARY KEY (cart_id, perfume_id)
);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  session_id TEXT,
  customer_name TEXT NOT NULL,
  customer_email TEXT NOT NULL DEFAULT '',
  whatsapp TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  total_cents INTEGER NOT NULL CHECK (total_cents >= 0),
  status TEXT NOT NULL DEFAULT 'esperando_pago',
  tracking_number TEXT NOT NULL DEFAULT '',
  courier TEXT NOT NULL DEFAULT '',
  estimated_delivery TEXT NOT NULL DEFAULT '',
  is_preorder INTEGER NOT NULL DEFAULT 0,
  preorder_estimated_arrival TEXT NOT NULL DEFAULT '',
  payment_method TEXT NOT NULL DEFAULT 'transferencia',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);
CREATE INDEX IF NOT EXISTS idx_orders_status     ON orders(status);

CREATE TABLE IF NOT EXISTS order_items(
  order_id  TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  perfume_id TEXT NOT NULL REFERENCES perfumes(id),
  perfume_name TEXT NOT NULL,
  perfume_price_cents INTEGER NOT NULL,
  qty INTEGER NOT NULL,
  PRIMARY KEY (order_id, perfume_id)
);

-- Wishlists
CREATE TABLE IF NOT EXISTS wishlists(
  id TEXT PRIMARY KEY,
  session_id TEXT UNIQUE NOT NULL,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS wishlist_items(
  wishlist_id TEXT NOT NULL REFERENCES wishlists(id) ON DELETE CASCADE,
  perfume_id  TEXT NOT NULL REFERENCES perfumes(id) ON DELETE RESTRICT,
  created_at  TEXT,
  PRIMARY KEY (wishlist_id, perfume_id)
);

-- Saved checkout addresses
CREATE TABLE IF NOT EXISTS addresses(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  whatsapp TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  is_default INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_addresses_user ON addresses(user_id);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM import_settings`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting import settings and demo catalog")

	tx := db.MustBegin()

	tx.MustExec(`INSERT INTO import_settings(id) VALUES ('default')`)

	tx.MustExec(`INSERT INTO perfumes(
	    id,name,description,brand,category,ml,price_cents,
	    stock,lead_time_days,is_preorder_enabled,
	    cost_cents,shipping_to_courier_cents,shipping_to_ecuador_cents,local_shipping_cents) VALUES
	  ('khamrah-001','Khamrah','Dulce especiado, vainilla y dátiles','Lattafa','arabe_medio',100,3999,
	    8,14,1, 1800,1000,1500,700),
	  ('asad-001','Asad Bourbon','Ámbar, café y tabaco','Lattafa','dupe_arabe',100,2999,
	    2,14,1, 1500,1000,1500,700),
	  ('eros-001','Eros Flame','Cítrico ardiente para la noche','Versace','diseñador_mainstream',100,10999,
	    0,20,1, 5300,1000,1500,700),
	  ('oud-001','Oud Mood','Oud intenso con rosa','Nabeel','arabe_premium',100,8499,
	    0,21,0, 4200,1000,1500,700)`)

	tx.MustExec(`INSERT INTO perfume_variants(id,perfume_id,size_ml,sku,price_cents,cost_cents,stock,is_tester,is_default,active) VALUES
	  ('khamrah-100','khamrah-001',100,'KHM-100',3999,1800,6,0,1,1),
	  ('khamrah-10','khamrah-001',10,'KHM-10T',899,400,12,1,0,1),
	  ('eros-100','eros-001',100,'ERS-100',10999,5300,0,0,1,1)`)

	return tx.Commit()
}

// seedUsers ensures one USER and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-cliente", "cliente@ikhor.test", "Cliente", "USER", "Passw0rd!"),
		mk("u-admin", "admin@ikhor.test", "Admin", "ADMIN", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
