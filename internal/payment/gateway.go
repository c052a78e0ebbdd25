package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// GatewayOrder is the provider-side order a client pays against.
type GatewayOrder struct {
	ProviderOrderID string `json:"providerOrderId"`
	AmountCents     int64  `json:"amountCents"`
	Currency        string `json:"currency"`
}

// Gateway creates provider orders. Pure delegation: no core logic lives
// here beyond the HTTP call.
type Gateway struct {
	baseURL *url.URL
	keyID   string
	secret  string
	http    *http.Client
}

func NewGateway(baseURL, keyID, secret string) (*Gateway, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid gateway base url %q: %w", baseURL, err)
	}
	return &Gateway{
		baseURL: u,
		keyID:   keyID,
		secret:  secret,
		http:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// CreateOrder registers an order of the given amount with the provider.
func (g *Gateway) CreateOrder(ctx context.Context, amountCents int64, currency string) (*GatewayOrder, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	payload := map[string]interface{}{
		"amount":   amountCents,
		"currency": currency,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	u := g.baseURL.ResolveReference(&url.URL{Path: "/v1/orders"})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.secret)

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway create order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("gateway create order: unexpected status %d", resp.StatusCode)
	}

	var out struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("gateway create order: decode: %w", err)
	}
	return &GatewayOrder{
		ProviderOrderID: out.ID,
		AmountCents:     out.Amount,
		Currency:        out.Currency,
	}, nil
}
