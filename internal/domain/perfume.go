package domain

type Perfume struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Brand       string `db:"brand"`
	Category    string `db:"category"`
	Subcategory string `db:"subcategory"`
	ML          int    `db:"ml"`
	PriceCents  int64  `db:"price_cents"`
	ImageURL    string `db:"image_url"`

	// Pre-order fields. Stock is the legacy aggregate count; when a perfume
	// has variants, their stock supersedes this value.
	Stock             int  `db:"stock"`
	LeadTimeDays      int  `db:"lead_time_days"`
	IsPreorderEnabled bool `db:"is_preorder_enabled"`

	// Cost breakdown in cents, one field per shipping leg.
	CostCents              int64 `db:"cost_cents"`
	ShippingToCourierCents int64 `db:"shipping_to_courier_cents"`
	ShippingToEcuadorCents int64 `db:"shipping_to_ecuador_cents"`
	LocalShippingCents     int64 `db:"local_shipping_cents"`

	SupplierName    string `db:"supplier_name"`
	FragranceFamily string `db:"fragrance_family"`
	TopNotes        string `db:"top_notes"`
	HeartNotes      string `db:"heart_notes"`
	BaseNotes       string `db:"base_notes"`
	Concentration   string `db:"concentration"`

	Active    bool   `db:"active"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

// Variant is a sellable size of a perfume. A perfume may have 0..N variants;
// soft-disabled via active=false, never deleted.
type Variant struct {
	ID         string `db:"id"`
	PerfumeID  string `db:"perfume_id"`
	SizeML     int    `db:"size_ml"`
	SKU        string `db:"sku"`
	PriceCents int64  `db:"price_cents"`
	CostCents  int64  `db:"cost_cents"`
	Stock      int    `db:"stock"`
	IsTester   bool   `db:"is_tester"`
	IsDefault  bool   `db:"is_default"`
	Active     bool   `db:"active"`
}

// Availability is the storefront-facing classification for one item.
type Availability struct {
	Status   string `json:"status"` // in_stock | preorder | unavailable
	Qty      int    `json:"qty"`
	LowStock bool   `json:"low_stock,omitempty"`
	ETA      string `json:"eta,omitempty"`
}
