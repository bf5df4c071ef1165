package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"kalkia/services"
)

// refreshTimeout bounds each supplier's price fetch.
const refreshTimeout = 15 * time.Second

// HandleSupplierRefreshAll fetches fresh prices from every supplier with an
// API endpoint. Failures are per supplier; the report carries partial results.
func HandleSupplierRefreshAll(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		fetcher := services.NewHTTPPriceFetcher(app)

		report, err := services.RefreshSupplierPrices(e.Request.Context(), app, fetcher, refreshTimeout)
		if err != nil {
			log.Printf("supplier_refresh: %v", err)
			return apiError(e, http.StatusInternalServerError, "Price refresh failed")
		}

		return e.JSON(http.StatusOK, report)
	}
}

// HandleSupplierRefreshOne fetches fresh prices from a single supplier.
func HandleSupplierRefreshOne(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		supplierID := e.Request.PathValue("id")

		if _, err := app.FindRecordById("suppliers", supplierID); err != nil {
			return apiError(e, http.StatusNotFound, "Supplier not found")
		}

		fetcher := services.NewHTTPPriceFetcher(app)

		report, err := services.RefreshSingleSupplier(e.Request.Context(), app, fetcher, supplierID, refreshTimeout)
		if err != nil {
			log.Printf("supplier_refresh: supplier %s: %v", supplierID, err)
			return apiError(e, http.StatusInternalServerError, "Price refresh failed")
		}

		return e.JSON(http.StatusOK, report)
	}
}
