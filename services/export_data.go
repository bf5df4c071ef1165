package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
)

// CalculationExportRow is one item line of a calculation export.
type CalculationExportRow struct {
	Index        string
	NodeCode     string
	Description  string
	Variant      string
	Qty          float64
	TimeSeconds  float64
	MaterialCost float64
	MaterialSale float64
	LaborCost    float64
	LaborSale    float64
}

// CalculationExportData holds everything the Excel and PDF exports need for
// one stored calculation.
type CalculationExportData struct {
	Number       string
	ProjectName  string
	ProjectRef   string
	Customer     string
	CreatedDate  string
	ProfileName  string
	HourlyRate   float64
	Rows         []CalculationExportRow
	Result       CalculationResult
	CompanyName  string
	CompanyEmail string
}

// BuildCalculationExportData loads a stored calculation with its items and
// project into the plain export struct.
func BuildCalculationExportData(app *pocketbase.PocketBase, calculationID string) (*CalculationExportData, error) {
	calc, err := app.FindRecordById("calculations", calculationID)
	if err != nil {
		return nil, fmt.Errorf("calculation not found: %w", err)
	}

	data := &CalculationExportData{
		Number:       calc.GetString("number"),
		CompanyName:  "Kalkia El-Installation A/S",
		CompanyEmail: "tilbud@kalkia.dk",
	}

	if dt := calc.GetDateTime("created"); !dt.IsZero() {
		data.CreatedDate = dt.Time().Format("02.01.2006")
	}

	if projectID := calc.GetString("project"); projectID != "" {
		if project, err := app.FindRecordById("projects", projectID); err == nil {
			data.ProjectName = project.GetString("name")
			data.ProjectRef = project.GetString("reference_number")
			data.Customer = project.GetString("customer_name")
		}
	}

	if profileID := calc.GetString("building_profile"); profileID != "" {
		if profile, err := app.FindRecordById("building_profiles", profileID); err == nil {
			data.ProfileName = profile.GetString("name")
		}
	}

	data.HourlyRate = calc.GetFloat("hourly_rate")
	data.Result = resultFromRecordFields(calc)

	items, err := app.FindRecordsByFilter(
		"calculation_items", "calculation = {:calcId}", "sort_order", 0, 0,
		map[string]any{"calcId": calculationID},
	)
	if err != nil {
		return nil, fmt.Errorf("load calculation items: %w", err)
	}

	for i, item := range items {
		row := CalculationExportRow{
			Index:        fmt.Sprintf("%d", i+1),
			Qty:          item.GetFloat("quantity"),
			TimeSeconds:  item.GetFloat("resolved_time_seconds"),
			MaterialCost: item.GetFloat("material_cost"),
			MaterialSale: item.GetFloat("material_sale"),
			LaborCost:    item.GetFloat("labor_cost"),
			LaborSale:    item.GetFloat("labor_sale"),
		}

		if nodeID := item.GetString("node"); nodeID != "" {
			if node, err := app.FindRecordById("catalog_nodes", nodeID); err == nil {
				row.NodeCode = node.GetString("code")
				row.Description = node.GetString("name")
			}
		}
		if variantID := item.GetString("variant"); variantID != "" {
			if variant, err := app.FindRecordById("node_variants", variantID); err == nil {
				row.Variant = variant.GetString("name")
			}
		}

		data.Rows = append(data.Rows, row)
	}

	return data, nil
}

// resultFromRecordFields rebuilds the rollup from the flat calculation record.
func resultFromRecordFields(calc interface{ GetFloat(string) float64 }) CalculationResult {
	return CalculationResult{
		TotalTimeSeconds:  calc.GetFloat("total_time_seconds"),
		TotalLaborHours:   calc.GetFloat("total_time_seconds") / 3600,
		TotalMaterialCost: calc.GetFloat("total_material_cost"),
		TotalMaterialSale: calc.GetFloat("total_material_sale"),
		TotalLaborCost:    calc.GetFloat("total_labor_cost"),
		TotalLaborSale:    calc.GetFloat("total_labor_sale"),
		CostPrice:         calc.GetFloat("cost_price"),
		OverheadAmount:    calc.GetFloat("overhead_amount"),
		RiskAmount:        calc.GetFloat("risk_amount"),
		SalesBasis:        calc.GetFloat("sales_basis"),
		MarginAmount:      calc.GetFloat("margin_amount"),
		SalePriceExclVAT:  calc.GetFloat("sale_price_excl_vat"),
		CatalogSalePrice:  calc.GetFloat("catalog_sale_price"),
		DiscountAmount:    calc.GetFloat("discount_amount"),
		NetPrice:          calc.GetFloat("net_price"),
		VATAmount:         calc.GetFloat("vat_amount"),
		FinalAmount:       calc.GetFloat("final_amount"),
		DBAmount:          calc.GetFloat("db_amount"),
		DBPercentage:      calc.GetFloat("db_percentage"),
		DBPerHour:         calc.GetFloat("db_per_hour"),
		CoverageRatio:     calc.GetFloat("coverage_ratio"),
		Settings: PricingSettings{
			MarginPercentage:   calc.GetFloat("margin_percentage"),
			DiscountPercentage: calc.GetFloat("discount_percentage"),
			VATPercentage:      calc.GetFloat("vat_percentage"),
			RiskPercentage:     calc.GetFloat("risk_percentage"),
			OverheadPercentage: calc.GetFloat("overhead_percentage"),
		},
	}
}
