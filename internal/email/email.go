// Package email sends transactional messages through Resend. Sends are
// best-effort: callers log failures and never block the purchase flow on them.
package email

import (
	"fmt"
	"strings"

	"ikhor/internal/domain"

	"github.com/resend/resend-go/v2"
)

type Sender struct {
	client *resend.Client
	from   string
}

// New returns a Sender; with an empty API key every send is a silent no-op so
// local development works without credentials.
func New(apiKey, from string) *Sender {
	if apiKey == "" {
		return &Sender{from: from}
	}
	return &Sender{client: resend.NewClient(apiKey), from: from}
}

func shortID(orderID string) string {
	if len(orderID) > 8 {
		orderID = orderID[:8]
	}
	return strings.ToUpper(orderID)
}

func dollars(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

// SendOrderConfirmation mails the purchase receipt with line items and total.
func (s *Sender) SendOrderConfirmation(to string, o domain.Order, items []domain.OrderItem) error {
	if s.client == nil || to == "" {
		return nil
	}

	var lines strings.Builder
	for _, it := range items {
		fmt.Fprintf(&lines, `<div style="padding:15px;background:rgba(255,255,255,0.02);margin-bottom:10px;border-radius:10px;">
  <p style="color:#fff;margin:0;font-weight:bold;">%s</p>
  <p style="color:#999;margin:5px 0;font-size:14px;">Cantidad: %d × %s</p>
</div>`, it.Name, it.Qty, dollars(it.PriceCents))
	}

	preorderNote := ""
	if o.IsPreorder {
		preorderNote = fmt.Sprintf(`<p style="color:#d4af37;margin:10px 0;"><strong>Pre-orden</strong> · llegada estimada: %s</p>`, o.PreorderEstimatedArrival)
	}

	html := fmt.Sprintf(`<div style="font-family:serif;max-width:600px;margin:0 auto;background:#0a0a0a;color:#fff;padding:40px;border:1px solid #d4af37;">
  <h1 style="color:#d4af37;font-size:32px;text-align:center;margin-bottom:30px;">¡Gracias por tu compra!</h1>
  <div style="background:rgba(255,255,255,0.03);padding:30px;border-radius:20px;border:1px solid rgba(212,175,55,0.2);">
    <h2 style="color:#d4af37;font-size:18px;margin-bottom:20px;">Orden #%s</h2>
    <p style="color:#999;margin:10px 0;"><strong>Cliente:</strong> %s</p>
    <p style="color:#999;margin:10px 0;"><strong>Ciudad:</strong> %s</p>
    %s
    <hr style="border:1px solid rgba(255,255,255,0.1);margin:30px 0;" />
    <h3 style="color:#fff;margin-bottom:20px;">Productos:</h3>
    %s
    <hr style="border:1px solid rgba(255,255,255,0.1);margin:30px 0;" />
    <div style="text-align:right;">
      <p style="color:#999;margin:5px 0;">Total:</p>
      <p style="color:#d4af37;font-size:32px;font-weight:bold;margin:0;">%s</p>
    </div>
  </div>
  <p style="text-align:center;color:#666;margin-top:40px;font-size:12px;">
    ÍKHOR • ECUADOR 2026<br/>
    Tu pedido está siendo preparado con el mayor cuidado.
  </p>
</div>`, shortID(o.ID), o.CustomerName, o.City, preorderNote, lines.String(), dollars(o.TotalCents))

	_, err := s.client.Emails.Send(&resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: fmt.Sprintf("Orden Confirmada #%s - ÍKHOR", shortID(o.ID)),
		Html:    html,
	})
	return err
}

// SendShippingNotification mails tracking details once an order ships.
func (s *Sender) SendShippingNotification(to string, o domain.Order) error {
	if s.client == nil || to == "" {
		return nil
	}

	html := fmt.Sprintf(`<div style="font-family:serif;max-width:600px;margin:0 auto;background:#0a0a0a;color:#fff;padding:40px;border:1px solid #d4af37;">
  <h1 style="color:#d4af37;font-size:32px;text-align:center;margin-bottom:30px;">¡Tu pedido está en camino!</h1>
  <div style="background:rgba(212,175,55,0.1);padding:30px;border-radius:20px;border:1px solid rgba(212,175,55,0.3);">
    <h2 style="color:#fff;margin-bottom:20px;">Información de Envío</h2>
    <p style="color:#999;margin:10px 0;"><strong>Courier:</strong> %s</p>
    <p style="color:#d4af37;margin:10px 0;font-size:18px;"><strong>Número de Guía:</strong> %s</p>
    <p style="color:#999;margin:10px 0;"><strong>Entrega Estimada:</strong> %s</p>
  </div>
  <p style="text-align:center;color:#666;margin-top:40px;font-size:12px;">
    ÍKHOR • ECUADOR 2026
  </p>
</div>`, o.Courier, o.TrackingNumber, o.EstimatedDelivery)

	_, err := s.client.Emails.Send(&resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: fmt.Sprintf("Tu pedido va en camino - Orden #%s", shortID(o.ID)),
		Html:    html,
	})
	return err
}
