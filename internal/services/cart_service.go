package services

import (
	"errors"

	"ikhor/internal/pricing"
	"ikhor/internal/repos"
)

var ErrInactiveProduct = errors.New("product not available")

type CartService struct {
	Carts    *repos.CartRepo
	Perfumes *repos.PerfumeRepo
	Variants *repos.VariantRepo
}

func NewCartService(carts *repos.CartRepo, perfumes *repos.PerfumeRepo, variants *repos.VariantRepo) *CartService {
	return &CartService{Carts: carts, Perfumes: perfumes, Variants: variants}
}

// Add puts qty units in the cart, snapshotting price and effective stock.
// Zero-stock items are accepted only when pre-order is enabled; the zero
// snapshot is what marks the eventual order as a pre-order.
func (s *CartService) Add(sessionID, perfumeID string, qty int) error {
	if qty < 1 {
		qty = 1
	}
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	p, err := s.Perfumes.Get(perfumeID)
	if err != nil {
		return err
	}
	vs, err := s.Variants.ListByPerfume(perfumeID)
	if err != nil {
		return err
	}

	stock := pricing.EffectiveStock(p, vs)
	if pricing.Classify(stock, p.IsPreorderEnabled) == pricing.StatusUnavailable {
		return ErrInactiveProduct
	}
	return s.Carts.UpsertItem(cartID, perfumeID, qty, p.PriceCents, stock)
}

func (s *CartService) SetQty(sessionID, perfumeID string, qty int) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.SetQty(cartID, perfumeID, qty)
}

func (s *CartService) Remove(sessionID, perfumeID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.RemoveItem(cartID, perfumeID)
}

type CartView struct {
	Items       []repos.CartItemRow
	TotalCents  int64
	HasPreorder bool
}

func (s *CartService) View(sessionID string) (CartView, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return CartView{}, err
	}
	items, total, err := s.Carts.View(cartID)
	if err != nil {
		return CartView{}, err
	}
	v := CartView{Items: items, TotalCents: total}
	for _, it := range items {
		if it.StockAtAdd == 0 {
			v.HasPreorder = true
			break
		}
	}
	return v, nil
}
