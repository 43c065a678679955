package pricing

import (
	"fmt"
	"time"

	"ikhor/internal/domain"
)

// Fallback leg days, applied per field when the settings record is only
// partially configured. The courier international leg is a single fixed
// value, not a range; that asymmetry follows the real logistics channel.
const (
	DefaultCourierSupplierMin  = 7
	DefaultCourierSupplierMax  = 9
	DefaultCourierShippingDays = 7
	DefaultCourierWarehouseMin = 3
	DefaultCourierWarehouseMax = 7

	DefaultViajeroSupplierMin  = 7
	DefaultViajeroSupplierMax  = 9
	DefaultViajeroShippingMin  = 10
	DefaultViajeroShippingMax  = 20
	DefaultViajeroWarehouseMin = 3
	DefaultViajeroWarehouseMax = 7
)

// DayRange is an end-to-end transit estimate in business days.
type DayRange struct {
	Min int
	Max int
}

// String renders the customer-facing form, e.g. "17-23 días hábiles".
func (r DayRange) String() string {
	return fmt.Sprintf("%d-%d días hábiles", r.Min, r.Max)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// ProjectETA sums the per-leg day ranges of the active import method. Missing
// fields take the method's fallback constants so the projection is total even
// on a half-configured record. Admin-entered values are trusted as given;
// min > max is possible and surfaced as-is.
func ProjectETA(s domain.ImportSettings) DayRange {
	if s.ActiveMethod == domain.MethodViajero {
		return DayRange{
			Min: orDefault(s.ViajeroSupplierDaysMin, DefaultViajeroSupplierMin) +
				orDefault(s.ViajeroShippingDaysMin, DefaultViajeroShippingMin) +
				orDefault(s.ViajeroWarehouseDaysMin, DefaultViajeroWarehouseMin),
			Max: orDefault(s.ViajeroSupplierDaysMax, DefaultViajeroSupplierMax) +
				orDefault(s.ViajeroShippingDaysMax, DefaultViajeroShippingMax) +
				orDefault(s.ViajeroWarehouseDaysMax, DefaultViajeroWarehouseMax),
		}
	}
	shipping := orDefault(s.CourierShippingDays, DefaultCourierShippingDays)
	return DayRange{
		Min: orDefault(s.CourierSupplierDaysMin, DefaultCourierSupplierMin) +
			shipping +
			orDefault(s.CourierWarehouseDaysMin, DefaultCourierWarehouseMin),
		Max: orDefault(s.CourierSupplierDaysMax, DefaultCourierSupplierMax) +
			shipping +
			orDefault(s.CourierWarehouseDaysMax, DefaultCourierWarehouseMax),
	}
}

// ArrivalDate projects the pessimistic arrival date for an order placed now.
func ArrivalDate(now time.Time, r DayRange) time.Time {
	return now.AddDate(0, 0, r.Max)
}

// LeadTimeRange is the product-card estimate used before an order exists,
// derived from the supplier lead time with a small safety window.
func LeadTimeRange(leadTimeDays int) DayRange {
	if leadTimeDays <= 0 {
		leadTimeDays = 14
	}
	return DayRange{Min: leadTimeDays, Max: leadTimeDays + 3}
}
