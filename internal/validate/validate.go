package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reEmail    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reQ        = regexp.MustCompile(`^[A-Za-z0-9 _'\\-]{1,50}$`)
	reID       = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reWhatsapp = regexp.MustCompile(`^\+?[0-9]{8,15}$`)
	reCategory = regexp.MustCompile(`^(dupe_arabe|arabe_medio|arabe_premium|diseñador_mainstream|diseñador_premium|nicho_accesible|ultra_nicho)$`)
	reMethod   = regexp.MustCompile(`^(courier|viajero)$`)
	rePayment  = regexp.MustCompile(`^(transferencia|payphone|paypal|diferimiento|takenos)$`)
	reStatus   = regexp.MustCompile(`^(esperando_pago|confirmado|preparando|enviado|entregado|cancelado)$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 50 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Q validates a search query: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > 50 {
		return 50
	} // clamp to avoid abuse
	return n
}

// ID validates a simple resource identifier (perfume/variant/order ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Whatsapp validates a contact number, optional leading +.
func Whatsapp(s string) (string, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, " ", ""))
	return s, reWhatsapp.MatchString(s)
}

// Category validates the pricing-tier category enum.
func Category(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reCategory.MatchString(s)
}

// Method validates the import-method enum.
func Method(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reMethod.MatchString(s)
}

// PaymentMethod validates the checkout payment-rail enum.
func PaymentMethod(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && rePayment.MatchString(s)
}

// OrderStatus validates the fulfillment-status enum.
func OrderStatus(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reStatus.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 60 {
		return "", false
	}
	return s, true
}

// City validates a free-text city, non-empty and bounded.
func City(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 60 {
		return "", false
	}
	return s, true
}

// Cents parses a decimal dollar amount into non-negative cents.
func Cents(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return int64(f*100 + 0.5), true
}

// Days parses a day-count field, clamped to a sane window.
func Days(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > 365 {
		return 0, false
	}
	return n, true
}

// Password enforces a simple length window for login checks.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 20 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}
