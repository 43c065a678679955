package handlers

import (
	"ikhor/internal/config"
	"ikhor/internal/email"
	"ikhor/internal/payments"
	"ikhor/internal/repos"
	"ikhor/internal/scrape"
	"ikhor/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	CatalogHandler      *CatalogHandler
	ProductHandler      *ProductHandler
	AvailabilityHandler *AvailabilityHandler
	SearchHandler       *SearchHandler
	CartHandler         *CartHandler
	OrderHandler        *OrderHandler
	WishlistHandler     *WishlistHandler
	AdminHandler        *AdminHandler
	AdminCatalogHandler *AdminCatalogHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	perfumeRepo := repos.NewPerfumeRepo(db)
	variantRepo := repos.NewVariantRepo(db)
	settingsRepo := repos.NewSettingsRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	wishRepo := repos.NewWishlistRepo(db)
	userRepo := repos.NewUserRepo(db)
	addrRepo := repos.NewAddressRepo(db)

	catalogSvc := services.NewCatalogService(perfumeRepo, variantRepo, settingsRepo)
	cartSvc := services.NewCartService(cartRepo, perfumeRepo, variantRepo)
	checkoutSvc := services.NewCheckoutService(db, cartRepo, orderRepo, perfumeRepo, variantRepo, settingsRepo)
	wishSvc := services.NewWishlistService(wishRepo)
	settingsSvc := services.NewSettingsService(settingsRepo)
	pricingSvc := services.NewPricingService(perfumeRepo, variantRepo)
	importSvc := services.NewImportService(scrape.New(cfg.ScrapeUserAgent), perfumeRepo)

	mail := email.New(cfg.ResendAPIKey, cfg.EmailFrom)
	paypal := payments.NewPayPal(cfg.PayPalBaseURL, cfg.PayPalClientID, cfg.PayPalClientSecret)

	return &Deps{
		CatalogHandler:      &CatalogHandler{Catalog: catalogSvc},
		ProductHandler:      &ProductHandler{Catalog: catalogSvc},
		AvailabilityHandler: &AvailabilityHandler{Catalog: catalogSvc},
		SearchHandler:       &SearchHandler{Catalog: catalogSvc},
		CartHandler:         &CartHandler{Cart: cartSvc},
		OrderHandler: &OrderHandler{
			Cart: cartSvc, Checkout: checkoutSvc, Repo: orderRepo,
			Auth: auth, Users: userRepo, Addresses: addrRepo,
			Mail: mail, PayPal: paypal,
		},
		WishlistHandler: &WishlistHandler{Wish: wishSvc},
		AdminHandler: &AdminHandler{
			OrderRepo: orderRepo, Users: userRepo, Settings: settingsSvc, Mail: mail,
		},
		AdminCatalogHandler: &AdminCatalogHandler{
			Perfumes: perfumeRepo, Variants: variantRepo,
			Pricing: pricingSvc, Settings: settingsSvc, Importer: importSvc,
		},
	}
}
