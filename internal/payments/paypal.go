// Package payments integrates the PayPal Orders v2 REST API.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

var ErrNotConfigured = errors.New("paypal credentials not configured")

type PayPalClient struct {
	baseURL  string
	clientID string
	secret   string
	client   *http.Client

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

func NewPayPal(baseURL, clientID, secret string) *PayPalClient {
	return &PayPalClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		clientID: clientID,
		secret:   secret,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *PayPalClient) Configured() bool { return p.clientID != "" && p.secret != "" }

// accessToken returns a cached OAuth2 client-credentials token, refreshing
// when within a minute of expiry.
func (p *PayPalClient) accessToken(ctx context.Context) (string, error) {
	if !p.Configured() {
		return "", ErrNotConfigured
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token != "" && time.Until(p.tokenExp) > time.Minute {
		return p.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(p.clientID, p.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token: status %d", resp.StatusCode)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("paypal token: %w", err)
	}

	p.token = tok.AccessToken
	p.tokenExp = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return p.token, nil
}

type CreatedOrder struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	ApproveURL string `json:"-"`
}

// CreateOrder opens a PayPal order for the given amount in USD cents and
// returns the order id plus the buyer approval link. The buyer lands back on
// returnURL with the PayPal order id in the token query param.
func (p *PayPalClient) CreateOrder(ctx context.Context, referenceID string, amountCents int64, returnURL, cancelURL string) (CreatedOrder, error) {
	body := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{{
			"reference_id": referenceID,
			"amount": map[string]string{
				"currency_code": "USD",
				"value":         fmt.Sprintf("%d.%02d", amountCents/100, amountCents%100),
			},
		}},
		"application_context": map[string]string{
			"return_url": returnURL,
			"cancel_url": cancelURL,
		},
	}

	var out struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Links  []struct {
			Href string `json:"href"`
			Rel  string `json:"rel"`
		} `json:"links"`
	}
	if err := p.post(ctx, "/v2/checkout/orders", body, &out); err != nil {
		return CreatedOrder{}, err
	}

	created := CreatedOrder{ID: out.ID, Status: out.Status}
	for _, l := range out.Links {
		if l.Rel == "approve" || l.Rel == "payer-action" {
			created.ApproveURL = l.Href
			break
		}
	}
	return created, nil
}

// CaptureOrder captures an approved order and reports whether the capture
// completed.
func (p *PayPalClient) CaptureOrder(ctx context.Context, paypalOrderID string) (bool, error) {
	var out struct {
		Status string `json:"status"`
	}
	if err := p.post(ctx, "/v2/checkout/orders/"+paypalOrderID+"/capture", map[string]any{}, &out); err != nil {
		return false, err
	}
	return out.Status == "COMPLETED", nil
}

func (p *PayPalClient) post(ctx context.Context, path string, body, out any) error {
	token, err := p.accessToken(ctx)
	if err != nil {
		return err
	}

	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("paypal %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("paypal %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
