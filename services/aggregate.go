package services

// PricingSettings are the run-wide percentages applied on top of the summed
// item costs. Discount, VAT and overhead must stay within [0, 100]; margin and
// risk may exceed 100 in edge pricing scenarios. Negative values are rejected.
type PricingSettings struct {
	MarginPercentage   float64 `json:"margin_percentage"`
	DiscountPercentage float64 `json:"discount_percentage"`
	VATPercentage      float64 `json:"vat_percentage"`
	RiskPercentage     float64 `json:"risk_percentage"`
	OverheadPercentage float64 `json:"overhead_percentage"`
}

// Validate rejects negative and out-of-range percentages.
func (s PricingSettings) Validate() error {
	bounded := []struct {
		name string
		val  float64
		max  float64
	}{
		{"margin_percentage", s.MarginPercentage, -1},
		{"risk_percentage", s.RiskPercentage, -1},
		{"discount_percentage", s.DiscountPercentage, 100},
		{"vat_percentage", s.VATPercentage, 100},
		{"overhead_percentage", s.OverheadPercentage, 100},
	}
	for _, b := range bounded {
		if b.val < 0 {
			return &ValidationError{Field: b.name, Reason: "must not be negative"}
		}
		if b.max > 0 && b.val > b.max {
			return &ValidationError{Field: b.name, Reason: "must not exceed 100"}
		}
	}
	return nil
}

// CalculationResult is the immutable rollup of one estimate. Persisting it is
// the caller's concern; the engine only creates it.
type CalculationResult struct {
	TotalTimeSeconds  float64 `json:"total_time_seconds"`
	TotalLaborHours   float64 `json:"total_labor_hours"`
	TotalMaterialCost float64 `json:"total_material_cost"`
	TotalMaterialSale float64 `json:"total_material_sale"`
	TotalLaborCost    float64 `json:"total_labor_cost"`
	TotalLaborSale    float64 `json:"total_labor_sale"`
	TotalOtherCosts   float64 `json:"total_other_costs"`

	CostPrice        float64 `json:"cost_price"`
	OverheadAmount   float64 `json:"overhead_amount"`
	RiskAmount       float64 `json:"risk_amount"`
	SalesBasis       float64 `json:"sales_basis"`
	MarginAmount     float64 `json:"margin_amount"`
	SalePriceExclVAT float64 `json:"sale_price_excl_vat"`
	// CatalogSalePrice is the sum of catalog-default item sale prices,
	// reported as a reference figure next to the canonical cost-plus price.
	CatalogSalePrice float64 `json:"catalog_sale_price"`
	DiscountAmount   float64 `json:"discount_amount"`
	NetPrice         float64 `json:"net_price"`
	VATAmount        float64 `json:"vat_amount"`
	FinalAmount      float64 `json:"final_amount"`

	DBAmount      float64 `json:"db_amount"`
	DBPercentage  float64 `json:"db_percentage"`
	DBPerHour     float64 `json:"db_per_hour"`
	CoverageRatio float64 `json:"coverage_ratio"`

	Settings PricingSettings `json:"settings"`
}

// Aggregate sums the calculated items and applies overhead, risk, margin,
// discount and VAT in that order, then derives the profitability metrics.
// Settings are applied as given: callers validate user input before any
// profile scaling, so the effective overhead may legitimately exceed the
// input bound.
func Aggregate(items []CalculatedItem, settings PricingSettings) CalculationResult {
	r := CalculationResult{Settings: settings}

	for _, item := range items {
		r.TotalTimeSeconds += item.ResolvedTimeSeconds
		r.TotalMaterialCost += item.MaterialCost
		r.TotalMaterialSale += item.MaterialSale
		r.TotalLaborCost += item.LaborCost
		r.TotalLaborSale += item.LaborSale
	}
	r.TotalLaborHours = r.TotalTimeSeconds / 3600
	r.CatalogSalePrice = r.TotalMaterialSale + r.TotalLaborSale

	r.CostPrice = r.TotalMaterialCost + r.TotalLaborCost + r.TotalOtherCosts
	r.OverheadAmount = r.CostPrice * settings.OverheadPercentage / 100
	r.RiskAmount = (r.CostPrice + r.OverheadAmount) * settings.RiskPercentage / 100
	r.SalesBasis = r.CostPrice + r.OverheadAmount + r.RiskAmount
	r.MarginAmount = r.SalesBasis * settings.MarginPercentage / 100
	r.SalePriceExclVAT = r.SalesBasis + r.MarginAmount
	r.DiscountAmount = r.SalePriceExclVAT * settings.DiscountPercentage / 100
	r.NetPrice = r.SalePriceExclVAT - r.DiscountAmount
	r.VATAmount = r.NetPrice * settings.VATPercentage / 100
	r.FinalAmount = r.NetPrice + r.VATAmount

	r.DBAmount = r.NetPrice - r.CostPrice
	if r.NetPrice > 0 {
		r.DBPercentage = r.DBAmount / r.NetPrice * 100
	}
	if r.TotalLaborHours > 0 {
		r.DBPerHour = r.DBAmount / r.TotalLaborHours
	}
	if r.CostPrice > 0 {
		r.CoverageRatio = r.NetPrice / r.CostPrice
	}

	return r
}
