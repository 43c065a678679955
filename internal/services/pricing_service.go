package services

import (
	"ikhor/internal/domain"
	"ikhor/internal/pricing"
	"ikhor/internal/repos"
)

// PricingService backs the admin pricing panel: edit the cost breakdown of a
// perfume and apply the suggested retail price.
type PricingService struct {
	Perfumes *repos.PerfumeRepo
	Variants *repos.VariantRepo
}

func NewPricingService(perfumes *repos.PerfumeRepo, variants *repos.VariantRepo) *PricingService {
	return &PricingService{Perfumes: perfumes, Variants: variants}
}

// Quote is the pricing panel row for one perfume.
type Quote struct {
	Perfume        domain.Perfume
	Breakdown      pricing.CostBreakdown
	TotalCostCents int64
	Margin         float64
	SuggestedCents int64
	CurrentCents   int64
}

// MarginPct is the margin as a percentage, for display.
func (q Quote) MarginPct() float64 { return q.Margin * 100 }

func (s *PricingService) breakdown(p domain.Perfume) pricing.CostBreakdown {
	return pricing.CostBreakdown{
		CostCents:              p.CostCents,
		ShippingToCourierCents: p.ShippingToCourierCents,
		ShippingToEcuadorCents: p.ShippingToEcuadorCents,
		LocalShippingCents:     p.LocalShippingCents,
	}
}

func (s *PricingService) quote(p domain.Perfume) (Quote, error) {
	vs, err := s.Variants.ListByPerfume(p.ID)
	if err != nil {
		return Quote{}, err
	}
	stock := pricing.EffectiveStock(p, vs)

	b := s.breakdown(p)
	suggested, err := pricing.SuggestPriceCents(b, p.Category, stock)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		Perfume:        p,
		Breakdown:      b,
		TotalCostCents: b.TotalCents(),
		Margin:         pricing.Margin(p.Category, stock),
		SuggestedCents: suggested,
		CurrentCents:   p.PriceCents,
	}, nil
}

func (s *PricingService) Quote(perfumeID string) (Quote, error) {
	p, err := s.Perfumes.Get(perfumeID)
	if err != nil {
		return Quote{}, err
	}
	return s.quote(p)
}

// Quotes lists the pricing panel for every active perfume.
func (s *PricingService) Quotes(limit, offset int) ([]Quote, error) {
	ps, err := s.Perfumes.ListActive(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]Quote, 0, len(ps))
	for _, p := range ps {
		q, err := s.quote(p)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

// SetCosts stores a new cost breakdown and category, then returns the fresh
// quote so the panel can show the updated suggestion.
func (s *PricingService) SetCosts(perfumeID string, b pricing.CostBreakdown, category string) (Quote, error) {
	// Reject bad input before touching the row.
	if _, err := pricing.SuggestPriceCents(b, category, 0); err != nil {
		return Quote{}, err
	}
	if err := s.Perfumes.UpdateCosts(perfumeID, b.CostCents, b.ShippingToCourierCents, b.ShippingToEcuadorCents, b.LocalShippingCents, category); err != nil {
		return Quote{}, err
	}
	return s.Quote(perfumeID)
}

// ApplySuggested recomputes and stores the suggested price as the live price.
func (s *PricingService) ApplySuggested(perfumeID string) (Quote, error) {
	q, err := s.Quote(perfumeID)
	if err != nil {
		return Quote{}, err
	}
	if err := s.Perfumes.UpdatePrice(perfumeID, q.SuggestedCents); err != nil {
		return Quote{}, err
	}
	q.CurrentCents = q.SuggestedCents
	return q, nil
}
