package services

import (
	"context"
	"fmt"
	"strings"

	"ikhor/internal/domain"
	"ikhor/internal/pricing"
	"ikhor/internal/repos"
	"ikhor/internal/scrape"

	"github.com/google/uuid"
)

// ImportService bulk-imports scraped vendor listings as pre-order products.
type ImportService struct {
	Scraper  *scrape.Scraper
	Perfumes *repos.PerfumeRepo
}

func NewImportService(sc *scrape.Scraper, perfumes *repos.PerfumeRepo) *ImportService {
	return &ImportService{Scraper: sc, Perfumes: perfumes}
}

type ImportResult struct {
	Found    int
	Imported []string
	Errors   []string
}

// ImportFromURL scrapes a listing page and inserts each product as a
// zero-stock pre-order, priced through the margin calculator with the flat
// freight estimates.
func (s *ImportService) ImportFromURL(ctx context.Context, pageURL string) (ImportResult, error) {
	items, err := s.Scraper.FetchListing(ctx, pageURL)
	if err != nil {
		return ImportResult{}, err
	}

	res := ImportResult{Found: len(items)}
	for _, it := range items {
		p, err := s.perfumeFromItem(it)
		if err == nil {
			err = s.Perfumes.Insert(p)
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", it.Name, err))
			continue
		}
		res.Imported = append(res.Imported, p.Name)
	}
	return res, nil
}

func (s *ImportService) perfumeFromItem(it scrape.Item) (domain.Perfume, error) {
	b := pricing.CostBreakdown{
		CostCents:              it.PriceCents,
		ShippingToCourierCents: scrape.DefaultShippingToCourierCents,
		ShippingToEcuadorCents: scrape.DefaultShippingToEcuadorCents,
		LocalShippingCents:     scrape.DefaultLocalShippingCents,
	}
	price, err := pricing.SuggestPriceCents(b, scrape.DefaultImportCategory, 0)
	if err != nil {
		return domain.Perfume{}, err
	}

	return domain.Perfume{
		ID:                     uuid.NewString(),
		Name:                   strings.TrimSpace(it.Name),
		Brand:                  it.Brand,
		Category:               scrape.DefaultImportCategory,
		ML:                     scrape.DefaultImportML,
		PriceCents:             price,
		ImageURL:               it.ImageURL,
		Stock:                  0,
		LeadTimeDays:           scrape.DefaultImportLeadTimeDays,
		IsPreorderEnabled:      true,
		CostCents:              b.CostCents,
		ShippingToCourierCents: b.ShippingToCourierCents,
		ShippingToEcuadorCents: b.ShippingToEcuadorCents,
		LocalShippingCents:     b.LocalShippingCents,
		SupplierName:           it.Brand,
		Active:                 true,
	}, nil
}
