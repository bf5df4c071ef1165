package services

// Recognized global factor keys. Factors with other keys are carried in the
// context but have no effect on the computation.
const (
	FactorCostIndex = "cost_index"
	FactorTimeIndex = "time_index"
)

// baselineDifficulty is the difficulty level at which a building profile's
// difficulty multiplier applies exactly once.
const baselineDifficulty = 1.0

// CalculationContext carries every run-wide setting of one estimate. It is
// assembled once per run and threaded through all item computations, so
// concurrent runs never share mutable state.
type CalculationContext struct {
	HourlyRate     float64
	SaleHourlyRate float64
	Profile        BuildingProfile
	Factors        map[string]float64
	SupplierPrices map[string]SupplierPriceOverride
}

// CostIndex returns the regional cost index factor, defaulting to identity.
func (c CalculationContext) CostIndex() float64 { return c.factor(FactorCostIndex) }

// TimeIndex returns the regional time index factor, defaulting to identity.
func (c CalculationContext) TimeIndex() float64 { return c.factor(FactorTimeIndex) }

func (c CalculationContext) factor(key string) float64 {
	if v, ok := c.Factors[key]; ok {
		return v
	}
	return 1.0
}

// BuildContext assembles the immutable context for one calculation run.
// A nil profile defaults every multiplier to 1.0; a zero saleHourlyRate falls
// back to hourlyRate. Active global factors are clamped to their bounds.
func BuildContext(hourlyRate, saleHourlyRate float64, profile *BuildingProfile, factors []GlobalFactor, supplierPrices map[string]SupplierPriceOverride) (CalculationContext, error) {
	if hourlyRate < 0 {
		return CalculationContext{}, &ValidationError{Field: "hourly_rate", Reason: "must not be negative"}
	}
	if saleHourlyRate < 0 {
		return CalculationContext{}, &ValidationError{Field: "sale_hourly_rate", Reason: "must not be negative"}
	}
	if saleHourlyRate == 0 {
		saleHourlyRate = hourlyRate
	}

	p := BuildingProfile{
		TimeMultiplier:          1.0,
		DifficultyMultiplier:    1.0,
		MaterialWasteMultiplier: 1.0,
		OverheadMultiplier:      1.0,
	}
	if profile != nil {
		p = *profile
		if p.TimeMultiplier == 0 {
			p.TimeMultiplier = 1.0
		}
		if p.DifficultyMultiplier == 0 {
			p.DifficultyMultiplier = 1.0
		}
		if p.MaterialWasteMultiplier == 0 {
			p.MaterialWasteMultiplier = 1.0
		}
		if p.OverheadMultiplier == 0 {
			p.OverheadMultiplier = 1.0
		}
	}

	resolved := make(map[string]float64, len(factors))
	for _, f := range factors {
		if !f.IsActive {
			continue
		}
		v := f.Value
		if f.MaxValue > f.MinValue {
			if v < f.MinValue {
				v = f.MinValue
			}
			if v > f.MaxValue {
				v = f.MaxValue
			}
		}
		resolved[f.Key] = v
	}

	if supplierPrices == nil {
		supplierPrices = map[string]SupplierPriceOverride{}
	}

	return CalculationContext{
		HourlyRate:     hourlyRate,
		SaleHourlyRate: saleHourlyRate,
		Profile:        p,
		Factors:        resolved,
		SupplierPrices: supplierPrices,
	}, nil
}
