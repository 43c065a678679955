package domain

// Order statuses, in fulfillment sequence.
const (
	StatusAwaitingPayment = "esperando_pago"
	StatusConfirmed       = "confirmado"
	StatusPreparing       = "preparando"
	StatusShipped         = "enviado"
	StatusDelivered       = "entregado"
	StatusCanceled        = "cancelado"
)

// Payment rails accepted at checkout.
const (
	PayTransfer     = "transferencia"
	PayPayphone     = "payphone"
	PayPayPal       = "paypal"
	PayInstallments = "diferimiento"
	PayTakenos      = "takenos"
)

type Order struct {
	ID            string `db:"id"`
	SessionID     string `db:"session_id"`
	CustomerName  string `db:"customer_name"`
	CustomerEmail string `db:"customer_email"`
	Whatsapp      string `db:"whatsapp"`
	City          string `db:"city"`
	Address       string `db:"address"`
	TotalCents    int64  `db:"total_cents"`
	Status        string `db:"status"`

	TrackingNumber    string `db:"tracking_number"`
	Courier           string `db:"courier"`
	EstimatedDelivery string `db:"estimated_delivery"`

	IsPreorder               bool   `db:"is_preorder"`
	PreorderEstimatedArrival string `db:"preorder_estimated_arrival"`

	PaymentMethod string `db:"payment_method"`
	PaymentStatus string `db:"payment_status"`
	CreatedAt     string `db:"created_at"`
}

// OrderItem snapshots name and price at purchase time.
type OrderItem struct {
	OrderID    string `db:"order_id"`
	PerfumeID  string `db:"perfume_id"`
	Name       string `db:"perfume_name"`
	PriceCents int64  `db:"perfume_price_cents"`
	Qty        int    `db:"qty"`
}

// CartLine is the checkout-time snapshot of one cart row. StockAtAdd is the
// effective stock observed when the item entered the cart; it drives the
// pre-order classification of the whole order.
type CartLine struct {
	PerfumeID              string `db:"perfume_id"`
	Name                   string `db:"name"`
	PriceCents             int64  `db:"price_cents"`
	CostCents              int64  `db:"cost_cents"`
	ShippingToCourierCents int64  `db:"shipping_to_courier_cents"`
	StockAtAdd             int    `db:"stock_at_add"`
	Qty                    int    `db:"qty"`
}

// Address is a saved checkout address.
type Address struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	Name      string `db:"name"`
	Whatsapp  string `db:"whatsapp"`
	City      string `db:"city"`
	Address   string `db:"address"`
	IsDefault bool   `db:"is_default"`
}
