package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"kalkia/services"
)

type supplierSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Products     int    `json:"products"`
	StalePrices  int    `json:"stale_prices"`
	LastSyncedAt string `json:"last_synced_at"`
}

// HandleSupplierList returns all suppliers with a staleness summary of their
// product prices.
func HandleSupplierList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		suppliersCol, err := app.FindCollectionByNameOrId("suppliers")
		if err != nil {
			log.Printf("supplier_list: could not find suppliers collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong")
		}

		suppliers, err := app.FindRecordsByFilter(suppliersCol, "id != ''", "name", 0, 0, nil)
		if err != nil {
			log.Printf("supplier_list: could not query suppliers: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong")
		}

		now := time.Now()
		summaries := make([]supplierSummary, 0, len(suppliers))
		for _, supplier := range suppliers {
			products, err := app.FindRecordsByFilter(
				"supplier_products",
				"supplier = {:supplierId}",
				"", 0, 0,
				map[string]any{"supplierId": supplier.Id},
			)
			if err != nil {
				log.Printf("supplier_list: could not query products for %s: %v", supplier.Id, err)
			}

			summary := supplierSummary{
				ID:       supplier.Id,
				Name:     supplier.GetString("name"),
				Products: len(products),
			}

			var newest time.Time
			for _, product := range products {
				syncedAt := product.GetDateTime("last_synced_at").Time()
				if services.IsPriceStale(syncedAt, now) {
					summary.StalePrices++
				}
				if syncedAt.After(newest) {
					newest = syncedAt
				}
			}
			if !newest.IsZero() {
				summary.LastSyncedAt = newest.Format(time.RFC3339)
			}

			summaries = append(summaries, summary)
		}

		return e.JSON(http.StatusOK, map[string]any{"suppliers": summaries})
	}
}
