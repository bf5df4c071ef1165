package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"kalkia/testhelpers"
)

// fakeFetcher serves canned quotes per supplier and can fail selected
// suppliers. Safe for the concurrent calls the refresh makes.
type fakeFetcher struct {
	quotes  map[string]map[string]PriceQuote // supplier id -> sku -> quote
	failing map[string]bool

	mu    sync.Mutex
	calls int
}

func (f *fakeFetcher) FetchPrices(_ context.Context, supplierID string, skus []string) (map[string]PriceQuote, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.failing[supplierID] {
		return nil, errors.New("supplier unreachable")
	}
	result := map[string]PriceQuote{}
	for _, sku := range skus {
		if quote, ok := f.quotes[supplierID][sku]; ok {
			result[sku] = quote
		}
	}
	return result, nil
}

func TestRefreshSupplierPrices_UpdatesAll(t *testing.T) {
	app := newServiceTestApp(t)

	solar := testhelpers.CreateTestSupplier(t, app, "Solar A/S", "https://api.example.dk/solar")
	lm := testhelpers.CreateTestSupplier(t, app, "Lemvigh-Müller", "https://api.example.dk/lm")
	p1 := testhelpers.CreateTestSupplierProduct(t, app, solar.Id, "SKU-1", 30)
	p2 := testhelpers.CreateTestSupplierProduct(t, app, lm.Id, "SKU-2", 200)

	fetcher := &fakeFetcher{quotes: map[string]map[string]PriceQuote{
		solar.Id: {"SKU-1": {CostPrice: 33, ListPrice: 55, IsAvailable: true, LeadTimeDays: 2}},
		lm.Id:    {"SKU-2": {CostPrice: 190, ListPrice: 310, IsAvailable: true}},
	}}

	report, err := RefreshSupplierPrices(context.Background(), app, fetcher, time.Second)
	if err != nil {
		t.Fatalf("RefreshSupplierPrices() error: %v", err)
	}

	if report.Suppliers != 2 || report.Succeeded != 2 || report.Failed != 0 {
		t.Errorf("report = %+v, want 2 suppliers all succeeded", report)
	}
	if report.ProductsUpdated != 2 {
		t.Errorf("ProductsUpdated = %d, want 2", report.ProductsUpdated)
	}

	reloaded, err := app.FindRecordById("supplier_products", p1.Id)
	if err != nil {
		t.Fatalf("failed to reload product: %v", err)
	}
	approx(t, "updated cost", reloaded.GetFloat("cost_price"), 33)
	approx(t, "updated list", reloaded.GetFloat("list_price"), 55)
	if reloaded.GetInt("lead_time_days") != 2 {
		t.Errorf("lead_time_days = %d, want 2", reloaded.GetInt("lead_time_days"))
	}
	if reloaded.GetDateTime("last_synced_at").IsZero() {
		t.Error("last_synced_at should be set after refresh")
	}

	reloaded2, err := app.FindRecordById("supplier_products", p2.Id)
	if err != nil {
		t.Fatalf("failed to reload product: %v", err)
	}
	approx(t, "second supplier cost", reloaded2.GetFloat("cost_price"), 190)
}

func TestRefreshSupplierPrices_FailureIsolated(t *testing.T) {
	app := newServiceTestApp(t)

	healthy := testhelpers.CreateTestSupplier(t, app, "Solar A/S", "https://api.example.dk/solar")
	broken := testhelpers.CreateTestSupplier(t, app, "AO Johansen", "https://api.example.dk/ao")
	good := testhelpers.CreateTestSupplierProduct(t, app, healthy.Id, "SKU-1", 30)
	stale := testhelpers.CreateTestSupplierProduct(t, app, broken.Id, "SKU-9", 75)

	fetcher := &fakeFetcher{
		quotes: map[string]map[string]PriceQuote{
			healthy.Id: {"SKU-1": {CostPrice: 31, ListPrice: 50, IsAvailable: true}},
		},
		failing: map[string]bool{broken.Id: true},
	}

	report, err := RefreshSupplierPrices(context.Background(), app, fetcher, time.Second)
	if err != nil {
		t.Fatalf("RefreshSupplierPrices() error: %v", err)
	}

	if report.Succeeded != 1 || report.Failed != 1 {
		t.Errorf("report = %+v, want 1 succeeded and 1 failed", report)
	}
	if _, ok := report.Errors[broken.Id]; !ok {
		t.Error("expected an error entry for the failing supplier")
	}

	// The healthy supplier's product got the new price.
	reloaded, _ := app.FindRecordById("supplier_products", good.Id)
	approx(t, "healthy cost", reloaded.GetFloat("cost_price"), 31)

	// The failing supplier's product keeps old data and an unset sync time.
	untouched, _ := app.FindRecordById("supplier_products", stale.Id)
	approx(t, "untouched cost", untouched.GetFloat("cost_price"), 75)
	if !untouched.GetDateTime("last_synced_at").IsZero() {
		t.Error("failed supplier's product should keep its old sync timestamp")
	}
}

func TestRefreshSupplierPrices_MissingSKUCounted(t *testing.T) {
	app := newServiceTestApp(t)

	supplier := testhelpers.CreateTestSupplier(t, app, "Solar A/S", "https://api.example.dk/solar")
	testhelpers.CreateTestSupplierProduct(t, app, supplier.Id, "KNOWN", 30)
	testhelpers.CreateTestSupplierProduct(t, app, supplier.Id, "DISCONTINUED", 44)

	fetcher := &fakeFetcher{quotes: map[string]map[string]PriceQuote{
		supplier.Id: {"KNOWN": {CostPrice: 32, ListPrice: 52, IsAvailable: true}},
	}}

	report, err := RefreshSupplierPrices(context.Background(), app, fetcher, time.Second)
	if err != nil {
		t.Fatalf("RefreshSupplierPrices() error: %v", err)
	}
	if report.ProductsUpdated != 1 || report.ProductsMissing != 1 {
		t.Errorf("report = %+v, want 1 updated and 1 missing", report)
	}
}

func TestRefreshSupplierPrices_NoProducts(t *testing.T) {
	app := newServiceTestApp(t)

	fetcher := &fakeFetcher{}
	report, err := RefreshSupplierPrices(context.Background(), app, fetcher, time.Second)
	if err != nil {
		t.Fatalf("RefreshSupplierPrices() error: %v", err)
	}
	if report.Suppliers != 0 || fetcher.calls != 0 {
		t.Errorf("expected no supplier calls, got report %+v after %d calls", report, fetcher.calls)
	}
}

func TestRefreshSingleSupplier(t *testing.T) {
	app := newServiceTestApp(t)

	target := testhelpers.CreateTestSupplier(t, app, "Solar A/S", "https://api.example.dk/solar")
	other := testhelpers.CreateTestSupplier(t, app, "Lemvigh-Müller", "https://api.example.dk/lm")
	mine := testhelpers.CreateTestSupplierProduct(t, app, target.Id, "SKU-1", 30)
	theirs := testhelpers.CreateTestSupplierProduct(t, app, other.Id, "SKU-2", 200)

	fetcher := &fakeFetcher{quotes: map[string]map[string]PriceQuote{
		target.Id: {"SKU-1": {CostPrice: 35, ListPrice: 58, IsAvailable: true}},
		other.Id:  {"SKU-2": {CostPrice: 999, ListPrice: 999, IsAvailable: true}},
	}}

	report, err := RefreshSingleSupplier(context.Background(), app, fetcher, target.Id, time.Second)
	if err != nil {
		t.Fatalf("RefreshSingleSupplier() error: %v", err)
	}
	if report.Suppliers != 1 || report.Succeeded != 1 || report.ProductsUpdated != 1 {
		t.Errorf("report = %+v, want exactly one supplier updated", report)
	}
	if fetcher.calls != 1 {
		t.Errorf("expected 1 fetch call, got %d", fetcher.calls)
	}

	reloaded, _ := app.FindRecordById("supplier_products", mine.Id)
	approx(t, "refreshed cost", reloaded.GetFloat("cost_price"), 35)

	untouched, _ := app.FindRecordById("supplier_products", theirs.Id)
	approx(t, "other supplier cost", untouched.GetFloat("cost_price"), 200)
}

func TestRefreshSingleSupplier_NoProducts(t *testing.T) {
	app := newServiceTestApp(t)

	fetcher := &fakeFetcher{}
	report, err := RefreshSingleSupplier(context.Background(), app, fetcher, "unknown123456", time.Second)
	if err != nil {
		t.Fatalf("RefreshSingleSupplier() error: %v", err)
	}
	if report.Suppliers != 0 || fetcher.calls != 0 {
		t.Errorf("expected no work for unknown supplier, got %+v", report)
	}
}
