package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type calculationItemDetail struct {
	ID                  string  `json:"id"`
	NodeID              string  `json:"node_id"`
	NodeCode            string  `json:"node_code"`
	NodeName            string  `json:"node_name"`
	VariantID           string  `json:"variant_id"`
	VariantName         string  `json:"variant_name"`
	Quantity            float64 `json:"quantity"`
	ResolvedTimeSeconds float64 `json:"resolved_time_seconds"`
	MaterialCost        float64 `json:"material_cost"`
	MaterialSale        float64 `json:"material_sale"`
	LaborCost           float64 `json:"labor_cost"`
	LaborSale           float64 `json:"labor_sale"`
}

// HandleCalculationView returns one stored calculation with its line items.
func HandleCalculationView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		id := e.Request.PathValue("id")

		calc, err := app.FindRecordById("calculations", id)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Calculation not found")
		}
		if calc.GetString("project") != projectID {
			return apiError(e, http.StatusNotFound, "Calculation not found")
		}

		itemRecords, err := app.FindRecordsByFilter(
			"calculation_items",
			"calculation = {:calcId}",
			"sort_order",
			0,
			0,
			map[string]any{"calcId": id},
		)
		if err != nil {
			log.Printf("calculation_view: could not query items for %s: %v", id, err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong")
		}

		items := make([]calculationItemDetail, 0, len(itemRecords))
		for _, rec := range itemRecords {
			detail := calculationItemDetail{
				ID:                  rec.Id,
				NodeID:              rec.GetString("node"),
				VariantID:           rec.GetString("variant"),
				Quantity:            rec.GetFloat("quantity"),
				ResolvedTimeSeconds: rec.GetFloat("resolved_time_seconds"),
				MaterialCost:        rec.GetFloat("material_cost"),
				MaterialSale:        rec.GetFloat("material_sale"),
				LaborCost:           rec.GetFloat("labor_cost"),
				LaborSale:           rec.GetFloat("labor_sale"),
			}
			if detail.NodeID != "" {
				if node, err := app.FindRecordById("catalog_nodes", detail.NodeID); err == nil {
					detail.NodeCode = node.GetString("code")
					detail.NodeName = node.GetString("name")
				}
			}
			if detail.VariantID != "" {
				if variant, err := app.FindRecordById("node_variants", detail.VariantID); err == nil {
					detail.VariantName = variant.GetString("name")
				}
			}
			items = append(items, detail)
		}

		payload := map[string]any{
			"id":       calc.Id,
			"number":   calc.GetString("number"),
			"status":   calc.GetString("status"),
			"items":    items,
			"warnings": calc.Get("warnings"),
			"result": map[string]float64{
				"total_time_seconds":  calc.GetFloat("total_time_seconds"),
				"total_material_cost": calc.GetFloat("total_material_cost"),
				"total_material_sale": calc.GetFloat("total_material_sale"),
				"total_labor_cost":    calc.GetFloat("total_labor_cost"),
				"total_labor_sale":    calc.GetFloat("total_labor_sale"),
				"cost_price":          calc.GetFloat("cost_price"),
				"overhead_amount":     calc.GetFloat("overhead_amount"),
				"risk_amount":         calc.GetFloat("risk_amount"),
				"sales_basis":         calc.GetFloat("sales_basis"),
				"margin_amount":       calc.GetFloat("margin_amount"),
				"sale_price_excl_vat": calc.GetFloat("sale_price_excl_vat"),
				"catalog_sale_price":  calc.GetFloat("catalog_sale_price"),
				"discount_amount":     calc.GetFloat("discount_amount"),
				"net_price":           calc.GetFloat("net_price"),
				"vat_amount":          calc.GetFloat("vat_amount"),
				"final_amount":        calc.GetFloat("final_amount"),
				"db_amount":           calc.GetFloat("db_amount"),
				"db_percentage":       calc.GetFloat("db_percentage"),
				"db_per_hour":         calc.GetFloat("db_per_hour"),
				"coverage_ratio":      calc.GetFloat("coverage_ratio"),
			},
		}

		return e.JSON(http.StatusOK, payload)
	}
}
