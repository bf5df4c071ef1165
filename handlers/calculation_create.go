package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"kalkia/services"
)

type calculationCreateRequest struct {
	services.EstimateInput
	Customer string `json:"customer"`
}

// HandleCalculationCreate runs a full estimate for the request's items and
// persists the result as a calculation with its line items.
func HandleCalculationCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")

		project, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Project not found")
		}

		var req calculationCreateRequest
		if err := e.BindBody(&req); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		customer := req.Customer
		if customer == "" {
			customer = project.GetString("customer_name")
		}

		snap, err := services.LoadCatalogSnapshot(app)
		if err != nil {
			log.Printf("calculation_create: could not load catalog: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong")
		}

		now := time.Now()
		priceWarnings, err := services.LoadSupplierPrices(app, snap, customer, now)
		if err != nil {
			log.Printf("calculation_create: could not load supplier prices: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong")
		}

		out, err := services.CalculateEstimate(snap, req.EstimateInput)
		if err != nil {
			return apiError(e, statusForError(err), err.Error())
		}
		warnings := append(priceWarnings, out.Warnings...)

		number, err := services.GenerateCalculationNumber(app, projectID, now)
		if err != nil {
			log.Printf("calculation_create: could not generate number: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong")
		}

		calcsCol, err := app.FindCollectionByNameOrId("calculations")
		if err != nil {
			log.Printf("calculation_create: could not find calculations collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong")
		}

		record := core.NewRecord(calcsCol)
		record.Set("project", projectID)
		record.Set("number", number)
		record.Set("status", "draft")
		record.Set("building_profile", req.BuildingProfileID)
		record.Set("hourly_rate", req.HourlyRate)
		record.Set("sale_hourly_rate", req.SaleHourlyRate)
		record.Set("margin_percentage", req.Pricing.MarginPercentage)
		record.Set("discount_percentage", req.Pricing.DiscountPercentage)
		record.Set("vat_percentage", req.Pricing.VATPercentage)
		record.Set("risk_percentage", req.Pricing.RiskPercentage)
		record.Set("overhead_percentage", req.Pricing.OverheadPercentage)
		setResultFields(record, out.Result)
		record.Set("warnings", warnings)

		if err := app.Save(record); err != nil {
			log.Printf("calculation_create: could not save calculation: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong")
		}

		itemsCol, err := app.FindCollectionByNameOrId("calculation_items")
		if err != nil {
			log.Printf("calculation_create: could not find calculation_items collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong")
		}

		for i, item := range out.Items {
			itemRecord := core.NewRecord(itemsCol)
			itemRecord.Set("calculation", record.Id)
			itemRecord.Set("node", item.NodeID)
			itemRecord.Set("variant", item.VariantID)
			itemRecord.Set("sort_order", i+1)
			itemRecord.Set("quantity", item.Quantity)
			itemRecord.Set("resolved_time_seconds", item.ResolvedTimeSeconds)
			itemRecord.Set("material_cost", item.MaterialCost)
			itemRecord.Set("material_sale", item.MaterialSale)
			itemRecord.Set("labor_cost", item.LaborCost)
			itemRecord.Set("labor_sale", item.LaborSale)
			itemRecord.Set("rules_applied", item.RulesApplied)
			if err := app.Save(itemRecord); err != nil {
				log.Printf("calculation_create: could not save item %d: %v", i+1, err)
				return apiError(e, http.StatusInternalServerError, "Something went wrong")
			}
		}

		return e.JSON(http.StatusCreated, map[string]any{
			"id":       record.Id,
			"number":   number,
			"result":   out.Result,
			"items":    out.Items,
			"warnings": warnings,
		})
	}
}

// setResultFields copies the aggregated result onto a calculation record.
func setResultFields(record *core.Record, result services.CalculationResult) {
	record.Set("total_time_seconds", result.TotalTimeSeconds)
	record.Set("total_material_cost", result.TotalMaterialCost)
	record.Set("total_material_sale", result.TotalMaterialSale)
	record.Set("total_labor_cost", result.TotalLaborCost)
	record.Set("total_labor_sale", result.TotalLaborSale)
	record.Set("cost_price", result.CostPrice)
	record.Set("overhead_amount", result.OverheadAmount)
	record.Set("risk_amount", result.RiskAmount)
	record.Set("sales_basis", result.SalesBasis)
	record.Set("margin_amount", result.MarginAmount)
	record.Set("sale_price_excl_vat", result.SalePriceExclVAT)
	record.Set("catalog_sale_price", result.CatalogSalePrice)
	record.Set("discount_amount", result.DiscountAmount)
	record.Set("net_price", result.NetPrice)
	record.Set("vat_amount", result.VATAmount)
	record.Set("final_amount", result.FinalAmount)
	record.Set("db_amount", result.DBAmount)
	record.Set("db_percentage", result.DBPercentage)
	record.Set("db_per_hour", result.DBPerHour)
	record.Set("coverage_ratio", result.CoverageRatio)
}
