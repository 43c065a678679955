package handlers

import (
	"strconv"
	"strings"

	"ikhor/internal/domain"
	applog "ikhor/internal/log"
	"ikhor/internal/pricing"
	"ikhor/internal/repos"
	"ikhor/internal/services"
	"ikhor/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AdminCatalogHandler covers the product, pricing, import-settings and bulk
// import panels.
type AdminCatalogHandler struct {
	Perfumes *repos.PerfumeRepo
	Variants *repos.VariantRepo
	Pricing  *services.PricingService
	Settings *services.SettingsService
	Importer *services.ImportService
}

// ---------- Pricing panel ----------

// GET /admin/pricing
func (h *AdminCatalogHandler) PricingPage(c *fiber.Ctx) error {
	quotes, err := h.Pricing.Quotes(100, 0)
	if err != nil {
		applog.Error(c, "admin.pricing.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "No se pudo cargar el panel de precios"})
	}
	return render(c, "admin_pricing", fiber.Map{"Quotes": quotes})
}

// POST /admin/pricing/:id/costs
func (h *AdminCatalogHandler) UpdateCosts(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	cost, ok1 := validate.Cents(c.FormValue("cost"))
	toCourier, ok2 := validate.Cents(c.FormValue("shipping_to_courier"))
	toEcuador, ok3 := validate.Cents(c.FormValue("shipping_to_ecuador"))
	local, ok4 := validate.Cents(c.FormValue("local_shipping"))
	category, ok5 := validate.Category(c.FormValue("category"))
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		applog.Security(c, "validation.fail", map[string]any{"field": "costs"})
		return c.Status(400).SendString("valores de costo inválidos")
	}

	b := pricing.CostBreakdown{
		CostCents:              cost,
		ShippingToCourierCents: toCourier,
		ShippingToEcuadorCents: toEcuador,
		LocalShippingCents:     local,
	}
	if _, err := h.Pricing.SetCosts(id, b, category); err != nil {
		applog.Error(c, "admin.pricing.costs.fail", err, map[string]any{"perfume": id})
		return c.Status(400).SendString("no se pudieron guardar los costos")
	}
	applog.Audit(c, "admin.pricing.costs", map[string]any{"perfume": id})
	return c.Redirect("/admin/pricing")
}

// POST /admin/pricing/:id/apply
func (h *AdminCatalogHandler) ApplySuggested(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	q, err := h.Pricing.ApplySuggested(id)
	if err != nil {
		applog.Error(c, "admin.pricing.apply.fail", err, map[string]any{"perfume": id})
		return c.Status(400).SendString("no se pudo aplicar el precio")
	}
	applog.Audit(c, "admin.pricing.apply", map[string]any{"perfume": id, "price_cents": q.SuggestedCents})
	return c.Redirect("/admin/pricing")
}

// ---------- Import settings ----------

// GET /admin/import-settings
func (h *AdminCatalogHandler) SettingsPage(c *fiber.Ctx) error {
	sv, err := h.Settings.View()
	if err != nil {
		applog.Error(c, "admin.settings.load.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "No se pudo cargar la configuración"})
	}
	return render(c, "admin_settings", fiber.Map{"S": sv})
}

// POST /admin/import-settings
func (h *AdminCatalogHandler) UpdateSettings(c *fiber.Ctx) error {
	cur, err := h.Settings.View()
	if err != nil {
		return c.Status(500).SendString("no se pudo cargar la configuración")
	}
	next := cur.ImportSettings

	// The form posts the version it was rendered with, so a stale tab loses.
	if v := strings.TrimSpace(c.FormValue("version")); v != "" {
		ver, err := strconv.ParseInt(v, 10, 64)
		if err != nil || ver < 1 {
			return c.Status(400).SendString("versión inválida")
		}
		next.Version = ver
	}

	if m, ok := validate.Method(c.FormValue("active_method")); ok {
		next.ActiveMethod = m
	}
	if cents, ok := validate.Cents(c.FormValue("quota_limit")); ok {
		next.CourierQuotaLimitCents = cents
	}

	type dayField struct {
		name string
		dst  *int
	}
	fields := []dayField{
		{"courier_supplier_days_min", &next.CourierSupplierDaysMin},
		{"courier_supplier_days_max", &next.CourierSupplierDaysMax},
		{"courier_shipping_days", &next.CourierShippingDays},
		{"courier_warehouse_days_min", &next.CourierWarehouseDaysMin},
		{"courier_warehouse_days_max", &next.CourierWarehouseDaysMax},
		{"viajero_supplier_days_min", &next.ViajeroSupplierDaysMin},
		{"viajero_supplier_days_max", &next.ViajeroSupplierDaysMax},
		{"viajero_shipping_days_min", &next.ViajeroShippingDaysMin},
		{"viajero_shipping_days_max", &next.ViajeroShippingDaysMax},
		{"viajero_warehouse_days_min", &next.ViajeroWarehouseDaysMin},
		{"viajero_warehouse_days_max", &next.ViajeroWarehouseDaysMax},
	}
	for _, f := range fields {
		if raw := strings.TrimSpace(c.FormValue(f.name)); raw != "" {
			n, ok := validate.Days(raw)
			if !ok {
				applog.Security(c, "validation.fail", map[string]any{"field": f.name})
				return c.Status(400).SendString("rango de días inválido")
			}
			*f.dst = n
		}
	}
	next.AutoSwitchToViajero = c.FormValue("auto_switch") == "on"

	if err := h.Settings.Update(next); err != nil {
		if err == services.ErrStaleSettings {
			return c.Status(fiber.StatusConflict).SendString("La configuración cambió en otra sesión. Recarga e intenta de nuevo.")
		}
		applog.Error(c, "admin.settings.save.fail", err, nil)
		return c.Status(400).SendString("no se pudo guardar la configuración")
	}
	applog.Audit(c, "admin.settings.save", map[string]any{"method": next.ActiveMethod})
	return c.Redirect("/admin/import-settings")
}

// POST /admin/import-settings/switch
func (h *AdminCatalogHandler) SwitchMethod(c *fiber.Ctx) error {
	m, ok := validate.Method(c.FormValue("method"))
	if !ok {
		return c.Status(400).SendString("método inválido")
	}
	if err := h.Settings.SwitchMethod(m); err != nil {
		applog.Error(c, "admin.settings.switch.fail", err, map[string]any{"method": m})
		return c.Status(400).SendString("no se pudo cambiar el método")
	}
	applog.Audit(c, "admin.settings.switch", map[string]any{"method": m})
	return c.Redirect("/admin/import-settings")
}

// POST /admin/import-settings/reset-quota
func (h *AdminCatalogHandler) ResetQuota(c *fiber.Ctx) error {
	if err := h.Settings.ResetQuota(); err != nil {
		applog.Error(c, "admin.settings.reset.fail", err, nil)
		return c.Status(400).SendString("no se pudo reiniciar el cupo")
	}
	applog.Audit(c, "admin.settings.reset", nil)
	return c.Redirect("/admin/import-settings")
}

// ---------- Products & variants ----------

// GET /admin/products
func (h *AdminCatalogHandler) ProductsPage(c *fiber.Ctx) error {
	perfumes, err := h.Perfumes.ListActive(200, 0)
	if err != nil {
		applog.Error(c, "admin.products.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "No se pudieron cargar los productos"})
	}
	return render(c, "admin_products", fiber.Map{"Perfumes": perfumes})
}

// POST /admin/products
func (h *AdminCatalogHandler) CreateProduct(c *fiber.Ctx) error {
	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return c.Status(400).SendString("nombre inválido")
	}
	category, ok := validate.Category(c.FormValue("category"))
	if !ok {
		return c.Status(400).SendString("categoría inválida")
	}
	price, ok := validate.Cents(c.FormValue("price"))
	if !ok {
		return c.Status(400).SendString("precio inválido")
	}
	cost, _ := validate.Cents(c.FormValue("cost"))
	stock, err := strconv.Atoi(strings.TrimSpace(c.FormValue("stock")))
	if err != nil || stock < 0 {
		stock = 0
	}

	p := domain.Perfume{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(c.FormValue("description")),
		Brand:       strings.TrimSpace(c.FormValue("brand")),
		Category:    category,
		ML:          100,
		PriceCents:  price,
		ImageURL:    strings.TrimSpace(c.FormValue("image_url")),
		Stock:       stock,
		LeadTimeDays: func() int {
			if d, ok := validate.Days(c.FormValue("lead_time_days")); ok && d > 0 {
				return d
			}
			return 14
		}(),
		IsPreorderEnabled: c.FormValue("preorder_enabled") == "on",
		CostCents:         cost,
		Active:            true,
	}
	if err := h.Perfumes.Insert(p); err != nil {
		applog.Error(c, "admin.products.create.fail", err, map[string]any{"name": name})
		return c.Status(400).SendString("no se pudo crear el producto")
	}
	applog.Audit(c, "admin.products.create", map[string]any{"perfume": p.ID})
	return c.Redirect("/admin/products")
}

// POST /admin/products/:id/stock
func (h *AdminCatalogHandler) UpdateStock(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	stock, err := strconv.Atoi(strings.TrimSpace(c.FormValue("stock")))
	if err != nil || stock < 0 {
		return c.Status(400).SendString("stock inválido")
	}
	if err := h.Perfumes.UpdateStock(id, stock); err != nil {
		applog.Error(c, "admin.products.stock.fail", err, map[string]any{"perfume": id})
		return c.Status(400).SendString("no se pudo actualizar el stock")
	}
	applog.Audit(c, "admin.products.stock", map[string]any{"perfume": id, "stock": stock})
	return c.Redirect("/admin/products")
}

// POST /admin/products/:id/toggle
func (h *AdminCatalogHandler) ToggleActive(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	active := c.FormValue("active") == "on"
	if err := h.Perfumes.SetActive(id, active); err != nil {
		applog.Error(c, "admin.products.toggle.fail", err, map[string]any{"perfume": id})
		return c.Status(400).SendString("no se pudo actualizar el producto")
	}
	applog.Audit(c, "admin.products.toggle", map[string]any{"perfume": id, "active": active})
	return c.Redirect("/admin/products")
}

// POST /admin/products/:id/variants
func (h *AdminCatalogHandler) SaveVariant(c *fiber.Ctx) error {
	perfumeID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	sizeML, err := strconv.Atoi(strings.TrimSpace(c.FormValue("size_ml")))
	if err != nil || sizeML <= 0 || sizeML > 1000 {
		return c.Status(400).SendString("tamaño inválido")
	}
	price, ok := validate.Cents(c.FormValue("price"))
	if !ok {
		return c.Status(400).SendString("precio inválido")
	}
	cost, _ := validate.Cents(c.FormValue("cost"))
	stock, err := strconv.Atoi(strings.TrimSpace(c.FormValue("stock")))
	if err != nil || stock < 0 {
		stock = 0
	}

	v := domain.Variant{
		ID:         uuid.NewString(),
		PerfumeID:  perfumeID,
		SizeML:     sizeML,
		SKU:        strings.TrimSpace(c.FormValue("sku")),
		PriceCents: price,
		CostCents:  cost,
		Stock:      stock,
		IsTester:   c.FormValue("is_tester") == "on",
		IsDefault:  c.FormValue("is_default") == "on",
		Active:     true,
	}
	if err := h.Variants.Insert(v); err != nil {
		applog.Error(c, "admin.variants.save.fail", err, map[string]any{"perfume": perfumeID})
		return c.Status(400).SendString("no se pudo guardar la variante")
	}
	applog.Audit(c, "admin.variants.save", map[string]any{"perfume": perfumeID, "variant": v.ID})
	return c.Redirect("/admin/products")
}

// ---------- Bulk import ----------

// GET /admin/import
func (h *AdminCatalogHandler) ImportPage(c *fiber.Ctx) error {
	return render(c, "admin_import", fiber.Map{})
}

// POST /admin/import
func (h *AdminCatalogHandler) RunImport(c *fiber.Ctx) error {
	pageURL := strings.TrimSpace(c.FormValue("url"))
	if !strings.HasPrefix(pageURL, "http://") && !strings.HasPrefix(pageURL, "https://") {
		return c.Status(400).SendString("URL inválida")
	}

	res, err := h.Importer.ImportFromURL(c.Context(), pageURL)
	if err != nil {
		applog.Error(c, "admin.import.fail", err, map[string]any{"url": pageURL})
		return c.Status(400).Render("admin_import", fiber.Map{"Err": "No se encontraron productos en esa página"})
	}
	applog.Audit(c, "admin.import", map[string]any{
		"url": pageURL, "found": res.Found, "imported": len(res.Imported), "errors": len(res.Errors),
	})
	return render(c, "admin_import", fiber.Map{"Result": res})
}
