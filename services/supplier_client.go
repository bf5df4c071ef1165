package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase"
)

// HTTPPriceFetcher fetches supplier prices over the supplier's configured
// price API. Each supplier record carries an api_url that accepts a JSON
// batch of SKUs and returns a quote per SKU.
type HTTPPriceFetcher struct {
	App    *pocketbase.PocketBase
	Client *http.Client
}

// NewHTTPPriceFetcher returns a fetcher using the default HTTP client. The
// per-call timeout comes from the request context, not the client.
func NewHTTPPriceFetcher(app *pocketbase.PocketBase) *HTTPPriceFetcher {
	return &HTTPPriceFetcher{App: app, Client: http.DefaultClient}
}

// FetchPrices POSTs the SKU batch to the supplier's price API and decodes the
// quote map. A supplier without an api_url cannot be refreshed.
func (f *HTTPPriceFetcher) FetchPrices(ctx context.Context, supplierID string, skus []string) (map[string]PriceQuote, error) {
	supplier, err := f.App.FindRecordById("suppliers", supplierID)
	if err != nil {
		return nil, fmt.Errorf("supplier not found: %w", err)
	}

	apiURL := supplier.GetString("api_url")
	if apiURL == "" {
		return nil, fmt.Errorf("supplier %q has no price API configured", supplier.GetString("name"))
	}

	payload, err := json.Marshal(map[string]any{"skus": skus})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call supplier price API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("supplier price API returned status %d", resp.StatusCode)
	}

	var quotes map[string]PriceQuote
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return nil, fmt.Errorf("decode supplier response: %w", err)
	}

	return quotes, nil
}
