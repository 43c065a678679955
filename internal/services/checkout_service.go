package services

import (
	"errors"
	"time"

	"ikhor/internal/domain"
	"ikhor/internal/pricing"
	"ikhor/internal/repos"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrCartEmpty           = errors.New("cart empty")
	ErrConcurrencyConflict = errors.New("checkout conflict, try again")
)

// Contact is the buyer-entered delivery information.
type Contact struct {
	Name     string
	Email    string
	Whatsapp string
	City     string
	Address  string
}

type CheckoutService struct {
	DB       *sqlx.DB
	Carts    *repos.CartRepo
	Orders   *repos.OrderRepo
	Perfumes *repos.PerfumeRepo
	Variants *repos.VariantRepo
	Settings *repos.SettingsRepo
}

func NewCheckoutService(db *sqlx.DB, carts *repos.CartRepo, orders *repos.OrderRepo, perfumes *repos.PerfumeRepo, variants *repos.VariantRepo, settings *repos.SettingsRepo) *CheckoutService {
	return &CheckoutService{DB: db, Carts: carts, Orders: orders, Perfumes: perfumes, Variants: variants, Settings: settings}
}

// Place finalizes the session's cart as an order. Everything runs in one
// transaction: stock decrements, the order and item rows, the cart wipe, and
// for pre-orders the customs-quota increment. The quota write is a
// compare-and-swap on the settings version; on conflict the whole transaction
// rolls back and retries with exponential backoff before giving up with
// ErrConcurrencyConflict.
func (s *CheckoutService) Place(sessionID, paymentMethod string, contact Contact) (domain.Order, []domain.OrderItem, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	lines, err := s.Carts.Lines(cartID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	if len(lines) == 0 {
		return domain.Order{}, nil, ErrCartEmpty
	}

	isPreorder := pricing.OrderIsPreorder(lines)
	var total int64
	for _, l := range lines {
		total += l.PriceCents * int64(l.Qty)
	}

	o := domain.Order{
		ID:            uuid.NewString(),
		SessionID:     sessionID,
		CustomerName:  contact.Name,
		CustomerEmail: contact.Email,
		Whatsapp:      contact.Whatsapp,
		City:          contact.City,
		Address:       contact.Address,
		TotalCents:    total,
		Status:        domain.StatusAwaitingPayment,
		IsPreorder:    isPreorder,
		PaymentMethod: paymentMethod,
		PaymentStatus: "pending",
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)
	err = backoff.Retry(func() error {
		err := s.placeOnce(cartID, &o, lines)
		if errors.Is(err, repos.ErrVersionConflict) {
			return err // retryable
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}, policy)
	if errors.Is(err, repos.ErrVersionConflict) {
		return domain.Order{}, nil, ErrConcurrencyConflict
	}
	if err != nil {
		return domain.Order{}, nil, err
	}

	items := make([]domain.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, domain.OrderItem{
			OrderID: o.ID, PerfumeID: l.PerfumeID, Name: l.Name,
			PriceCents: l.PriceCents, Qty: l.Qty,
		})
	}
	return o, items, nil
}

func (s *CheckoutService) placeOnce(cartID string, o *domain.Order, lines []domain.CartLine) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Decrement stock for the lines that were in stock when added; pre-order
	// lines ship from the next import and touch no inventory.
	for _, l := range lines {
		if l.StockAtAdd == 0 {
			continue
		}
		if err := s.decrementLineTx(tx, l.PerfumeID, l.Qty); err != nil {
			return err
		}
	}

	cfg, err := s.Settings.GetTx(tx)
	if err != nil {
		return err
	}
	if o.IsPreorder {
		o.PreorderEstimatedArrival = pricing.ArrivalDate(time.Now(), pricing.ProjectETA(cfg)).Format("2006-01-02")
	}

	delta := pricing.QuotaDelta(cfg, o.IsPreorder, pricing.InvoiceCentsForOrder(lines))
	if delta > 0 {
		if err := s.Settings.SaveTx(tx, pricing.ApplyQuota(cfg, delta)); err != nil {
			return err
		}
	}

	if err := s.Orders.CreateTx(tx, *o); err != nil {
		return err
	}
	for _, l := range lines {
		it := domain.OrderItem{
			OrderID: o.ID, PerfumeID: l.PerfumeID, Name: l.Name,
			PriceCents: l.PriceCents, Qty: l.Qty,
		}
		if err := s.Orders.InsertItemTx(tx, it); err != nil {
			return err
		}
	}
	if err := s.Carts.ClearTx(tx, cartID); err != nil {
		return err
	}
	return tx.Commit()
}

// decrementLineTx takes qty units of one cart line out of inventory. Active
// variants hold the real stock when they exist (the classifier sums them the
// same way), so units come out of the variants default-first; only a
// variant-less perfume decrements the aggregate column.
func (s *CheckoutService) decrementLineTx(tx *sqlx.Tx, perfumeID string, qty int) error {
	vs, err := s.Variants.ListActiveByPerfumeTx(tx, perfumeID)
	if err != nil {
		return err
	}
	if len(vs) == 0 {
		return s.Perfumes.DecrementStockTx(tx, perfumeID, qty)
	}
	remaining := qty
	for _, v := range vs {
		if remaining == 0 {
			break
		}
		take := v.Stock
		if take > remaining {
			take = remaining
		}
		if take == 0 {
			continue
		}
		if err := s.Variants.DecrementTx(tx, v.ID, take); err != nil {
			return err
		}
		remaining -= take
	}
	if remaining > 0 {
		return repos.ErrInsufficientStock
	}
	return nil
}

// MarkPaid flips payment status after a successful capture and confirms the
// order.
func (s *CheckoutService) MarkPaid(orderID string) error {
	if err := s.Orders.UpdatePaymentStatus(orderID, "paid"); err != nil {
		return err
	}
	return s.Orders.UpdateStatus(orderID, domain.StatusConfirmed)
}
