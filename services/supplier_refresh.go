package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"golang.org/x/sync/errgroup"
)

// defaultRefreshTimeout bounds each supplier call during a price refresh.
const defaultRefreshTimeout = 15 * time.Second

// PriceQuote is one refreshed SKU price as returned by a supplier.
type PriceQuote struct {
	CostPrice    float64 `json:"cost_price"`
	ListPrice    float64 `json:"list_price"`
	IsAvailable  bool    `json:"is_available"`
	LeadTimeDays int     `json:"lead_time_days"`
}

// PriceFetcher fetches current prices for a batch of SKUs from one supplier.
// Implementations own the transport; the refresh orchestration only cares
// about the result map.
type PriceFetcher interface {
	FetchPrices(ctx context.Context, supplierID string, skus []string) (map[string]PriceQuote, error)
}

// RefreshReport summarizes one refresh run. A failure for one supplier never
// blocks the refresh of materials linked to other suppliers; its error is
// collected here instead.
type RefreshReport struct {
	Suppliers       int               `json:"suppliers"`
	Succeeded       int               `json:"succeeded"`
	Failed          int               `json:"failed"`
	ProductsUpdated int               `json:"products_updated"`
	ProductsMissing int               `json:"products_missing"`
	Errors          map[string]string `json:"errors,omitempty"` // keyed by supplier id
}

// RefreshSupplierPrices refreshes every supplier's product prices, one batch
// request per distinct supplier, run concurrently with a per-supplier timeout.
// Products whose supplier call failed keep their old prices and sync
// timestamps, so they age into staleness instead of blocking the run.
func RefreshSupplierPrices(ctx context.Context, app *pocketbase.PocketBase, fetcher PriceFetcher, timeout time.Duration) (RefreshReport, error) {
	if timeout <= 0 {
		timeout = defaultRefreshTimeout
	}

	productRecords, err := app.FindAllRecords("supplier_products")
	if err != nil {
		return RefreshReport{}, fmt.Errorf("load supplier products: %w", err)
	}

	bySupplier := map[string][]*core.Record{}
	for _, rec := range productRecords {
		supplierID := rec.GetString("supplier")
		if supplierID == "" {
			continue
		}
		bySupplier[supplierID] = append(bySupplier[supplierID], rec)
	}

	report := RefreshReport{
		Suppliers: len(bySupplier),
		Errors:    map[string]string{},
	}

	var mu sync.Mutex
	var g errgroup.Group

	for supplierID, records := range bySupplier {
		g.Go(func() error {
			skus := make([]string, 0, len(records))
			for _, rec := range records {
				skus = append(skus, rec.GetString("sku"))
			}

			callCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			quotes, err := fetcher.FetchPrices(callCtx, supplierID, skus)
			if err != nil {
				log.Printf("supplier_refresh: supplier %s failed: %v", supplierID, err)
				mu.Lock()
				report.Failed++
				report.Errors[supplierID] = err.Error()
				mu.Unlock()
				return nil
			}

			var updated, missing int
			for _, rec := range records {
				quote, ok := quotes[rec.GetString("sku")]
				if !ok {
					missing++
					continue
				}
				rec.Set("cost_price", quote.CostPrice)
				rec.Set("list_price", quote.ListPrice)
				rec.Set("is_available", quote.IsAvailable)
				rec.Set("lead_time_days", quote.LeadTimeDays)
				rec.Set("last_synced_at", time.Now().UTC())
				if err := app.Save(rec); err != nil {
					log.Printf("supplier_refresh: could not save product %s: %v", rec.Id, err)
					missing++
					continue
				}
				updated++
			}

			mu.Lock()
			report.Succeeded++
			report.ProductsUpdated += updated
			report.ProductsMissing += missing
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}
	return report, nil
}

// RefreshSingleSupplier refreshes one supplier's products only.
func RefreshSingleSupplier(ctx context.Context, app *pocketbase.PocketBase, fetcher PriceFetcher, supplierID string, timeout time.Duration) (RefreshReport, error) {
	if timeout <= 0 {
		timeout = defaultRefreshTimeout
	}

	records, err := app.FindRecordsByFilter(
		"supplier_products", "supplier = {:supplierId}", "", 0, 0,
		map[string]any{"supplierId": supplierID},
	)
	if err != nil {
		return RefreshReport{}, fmt.Errorf("load supplier products: %w", err)
	}
	if len(records) == 0 {
		return RefreshReport{Errors: map[string]string{}}, nil
	}

	report := RefreshReport{Suppliers: 1, Errors: map[string]string{}}

	skus := make([]string, 0, len(records))
	for _, rec := range records {
		skus = append(skus, rec.GetString("sku"))
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	quotes, err := fetcher.FetchPrices(callCtx, supplierID, skus)
	if err != nil {
		report.Failed = 1
		report.Errors[supplierID] = err.Error()
		return report, nil
	}

	for _, rec := range records {
		quote, ok := quotes[rec.GetString("sku")]
		if !ok {
			report.ProductsMissing++
			continue
		}
		rec.Set("cost_price", quote.CostPrice)
		rec.Set("list_price", quote.ListPrice)
		rec.Set("is_available", quote.IsAvailable)
		rec.Set("lead_time_days", quote.LeadTimeDays)
		rec.Set("last_synced_at", time.Now().UTC())
		if err := app.Save(rec); err != nil {
			log.Printf("supplier_refresh: could not save product %s: %v", rec.Id, err)
			report.ProductsMissing++
			continue
		}
		report.ProductsUpdated++
	}

	report.Succeeded = 1
	return report, nil
}
