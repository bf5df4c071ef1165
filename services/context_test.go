package services

import (
	"errors"
	"testing"
)

func TestBuildContext_Defaults(t *testing.T) {
	ctx, err := BuildContext(495, 0, nil, nil, nil)
	if err != nil {
		t.Fatalf("BuildContext() error: %v", err)
	}

	approx(t, "SaleHourlyRate fallback", ctx.SaleHourlyRate, 495)
	approx(t, "TimeMultiplier", ctx.Profile.TimeMultiplier, 1.0)
	approx(t, "DifficultyMultiplier", ctx.Profile.DifficultyMultiplier, 1.0)
	approx(t, "MaterialWasteMultiplier", ctx.Profile.MaterialWasteMultiplier, 1.0)
	approx(t, "OverheadMultiplier", ctx.Profile.OverheadMultiplier, 1.0)
	approx(t, "CostIndex", ctx.CostIndex(), 1.0)
	approx(t, "TimeIndex", ctx.TimeIndex(), 1.0)
	if ctx.SupplierPrices == nil {
		t.Error("SupplierPrices should never be nil")
	}
}

func TestBuildContext_NegativeRates(t *testing.T) {
	if _, err := BuildContext(-1, 0, nil, nil, nil); err == nil {
		t.Error("expected error for negative hourly rate")
	}
	_, err := BuildContext(495, -10, nil, nil, nil)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("expected ValidationError for negative sale rate, got %v", err)
	}
}

func TestBuildContext_SeparateSaleRate(t *testing.T) {
	ctx, err := BuildContext(400, 550, nil, nil, nil)
	if err != nil {
		t.Fatalf("BuildContext() error: %v", err)
	}
	approx(t, "HourlyRate", ctx.HourlyRate, 400)
	approx(t, "SaleHourlyRate", ctx.SaleHourlyRate, 550)
}

func TestBuildContext_ProfileZeroFieldsDefault(t *testing.T) {
	profile := &BuildingProfile{Name: "Partial", TimeMultiplier: 1.3}

	ctx, err := BuildContext(495, 0, profile, nil, nil)
	if err != nil {
		t.Fatalf("BuildContext() error: %v", err)
	}

	approx(t, "TimeMultiplier", ctx.Profile.TimeMultiplier, 1.3)
	approx(t, "DifficultyMultiplier default", ctx.Profile.DifficultyMultiplier, 1.0)
	approx(t, "MaterialWasteMultiplier default", ctx.Profile.MaterialWasteMultiplier, 1.0)
	approx(t, "OverheadMultiplier default", ctx.Profile.OverheadMultiplier, 1.0)
}

func TestBuildContext_FactorClamping(t *testing.T) {
	tests := []struct {
		name   string
		factor GlobalFactor
		want   float64
	}{
		{"within bounds", GlobalFactor{Key: FactorCostIndex, Value: 1.1, MinValue: 0.8, MaxValue: 1.5, IsActive: true}, 1.1},
		{"clamped to max", GlobalFactor{Key: FactorCostIndex, Value: 3.0, MinValue: 0.8, MaxValue: 1.5, IsActive: true}, 1.5},
		{"clamped to min", GlobalFactor{Key: FactorCostIndex, Value: 0.1, MinValue: 0.8, MaxValue: 1.5, IsActive: true}, 0.8},
		{"no bounds set", GlobalFactor{Key: FactorCostIndex, Value: 2.4, IsActive: true}, 2.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, err := BuildContext(495, 0, nil, []GlobalFactor{tt.factor}, nil)
			if err != nil {
				t.Fatalf("BuildContext() error: %v", err)
			}
			approx(t, "CostIndex", ctx.CostIndex(), tt.want)
		})
	}
}

func TestBuildContext_InactiveFactorIgnored(t *testing.T) {
	factors := []GlobalFactor{
		{Key: FactorTimeIndex, Value: 1.4, IsActive: false},
	}

	ctx, err := BuildContext(495, 0, nil, factors, nil)
	if err != nil {
		t.Fatalf("BuildContext() error: %v", err)
	}
	approx(t, "TimeIndex", ctx.TimeIndex(), 1.0)
}

func TestBuildContext_UnknownFactorCarried(t *testing.T) {
	factors := []GlobalFactor{
		{Key: "season_index", Value: 1.25, IsActive: true},
	}

	ctx, err := BuildContext(495, 0, nil, factors, nil)
	if err != nil {
		t.Fatalf("BuildContext() error: %v", err)
	}
	approx(t, "carried factor", ctx.Factors["season_index"], 1.25)
	// Unknown keys never leak into the computation indexes.
	approx(t, "CostIndex", ctx.CostIndex(), 1.0)
	approx(t, "TimeIndex", ctx.TimeIndex(), 1.0)
}
