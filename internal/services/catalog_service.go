package services

import (
	"time"

	"ikhor/internal/domain"
	"ikhor/internal/pricing"
	"ikhor/internal/repos"
)

type CatalogService struct {
	Perfumes *repos.PerfumeRepo
	Variants *repos.VariantRepo
	Settings *repos.SettingsRepo
}

func NewCatalogService(perfumes *repos.PerfumeRepo, variants *repos.VariantRepo, settings *repos.SettingsRepo) *CatalogService {
	return &CatalogService{Perfumes: perfumes, Variants: variants, Settings: settings}
}

// PerfumeCard is a catalog entry decorated with availability for rendering.
type PerfumeCard struct {
	domain.Perfume
	Status         string
	EffectiveStock int
	LowStock       bool
	PreorderDays   string // "20-23 días hábiles" style range, set for pre-order cards
}

func (s *CatalogService) decorate(p domain.Perfume, variants []domain.Variant) PerfumeCard {
	stock := pricing.EffectiveStock(p, variants)
	card := PerfumeCard{
		Perfume:        p,
		Status:         pricing.Classify(stock, p.IsPreorderEnabled),
		EffectiveStock: stock,
		LowStock:       pricing.IsLowStock(stock),
	}
	if card.Status == pricing.StatusPreorder {
		card.PreorderDays = pricing.LeadTimeRange(p.LeadTimeDays).String()
	}
	return card
}

func (s *CatalogService) cards(ps []domain.Perfume) ([]PerfumeCard, error) {
	out := make([]PerfumeCard, 0, len(ps))
	for _, p := range ps {
		vs, err := s.Variants.ListByPerfume(p.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, s.decorate(p, vs))
	}
	return out, nil
}

func (s *CatalogService) ListPerfumes(page, pageSize int) ([]PerfumeCard, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	ps, err := s.Perfumes.ListActive(pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return s.cards(ps)
}

func (s *CatalogService) ListByCategory(category string, page, pageSize int) ([]PerfumeCard, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	ps, err := s.Perfumes.ListByCategory(category, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return s.cards(ps)
}

func (s *CatalogService) Search(q, category string, page, pageSize int) ([]PerfumeCard, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	ps, err := s.Perfumes.Search(q, category, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return s.cards(ps)
}

// PerfumeDetail is the product page payload: the decorated perfume plus its
// size variants and the import ETA for pre-orders.
type PerfumeDetail struct {
	PerfumeCard
	Variants []domain.Variant
	ETA      string
}

func (s *CatalogService) GetPerfume(id string) (PerfumeDetail, error) {
	p, err := s.Perfumes.Get(id)
	if err != nil {
		return PerfumeDetail{}, err
	}
	vs, err := s.Variants.ListByPerfume(id)
	if err != nil {
		return PerfumeDetail{}, err
	}

	d := PerfumeDetail{PerfumeCard: s.decorate(p, vs), Variants: vs}
	if d.Status == pricing.StatusPreorder {
		cfg, err := s.Settings.Get()
		if err != nil {
			return PerfumeDetail{}, err
		}
		d.ETA = pricing.ProjectETA(cfg).String()
	}
	return d, nil
}

// Availability answers the availability API for one perfume: status, the
// effective stock, the low-stock flag, and for pre-orders the projected ETA
// under the currently active import method.
func (s *CatalogService) Availability(id string) (domain.Availability, error) {
	p, err := s.Perfumes.Get(id)
	if err != nil {
		return domain.Availability{}, err
	}
	vs, err := s.Variants.ListByPerfume(id)
	if err != nil {
		return domain.Availability{}, err
	}

	stock := pricing.EffectiveStock(p, vs)
	a := domain.Availability{
		Status:   pricing.Classify(stock, p.IsPreorderEnabled),
		Qty:      stock,
		LowStock: pricing.IsLowStock(stock),
	}
	if a.Status == pricing.StatusPreorder {
		cfg, err := s.Settings.Get()
		if err != nil {
			return domain.Availability{}, err
		}
		a.ETA = pricing.ProjectETA(cfg).String()
	}
	return a, nil
}

// EstimatedArrival projects a concrete arrival date for a pre-order placed now.
func (s *CatalogService) EstimatedArrival(now time.Time) (string, error) {
	cfg, err := s.Settings.Get()
	if err != nil {
		return "", err
	}
	return pricing.ArrivalDate(now, pricing.ProjectETA(cfg)).Format("2006-01-02"), nil
}
