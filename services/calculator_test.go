package services

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-9

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > eps {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func identityContext(hourlyRate float64) CalculationContext {
	ctx, _ := BuildContext(hourlyRate, 0, nil, nil, nil)
	return ctx
}

func TestCalculateItem_BasicLabor(t *testing.T) {
	node := &Node{ID: "n1", Code: "EL1.01", Type: NodeTypeOperation, BaseTimeSeconds: 600, DifficultyLevel: 1}
	variants := []Variant{{ID: "v1", NodeID: "n1", TimeMultiplier: 1.0, PriceMultiplier: 1.0, CostMultiplier: 1.0, IsDefault: true}}

	item, warnings, err := CalculateItem(node, variants, nil, nil, CalculationItemInput{NodeID: "n1", Quantity: 3}, identityContext(495))
	if err != nil {
		t.Fatalf("CalculateItem() error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}

	approx(t, "ResolvedTimeSeconds", item.ResolvedTimeSeconds, 1800)
	approx(t, "LaborCost", item.LaborCost, 247.50)
	approx(t, "LaborSale", item.LaborSale, 247.50)
	approx(t, "MaterialCost", item.MaterialCost, 0)
}

func TestCalculateItem_MaterialWaste(t *testing.T) {
	node := &Node{ID: "n1", Type: NodeTypeOperation, BaseTimeSeconds: 0, DifficultyLevel: 1}
	variants := []Variant{{ID: "v1", NodeID: "n1", TimeMultiplier: 1.0, PriceMultiplier: 1.0, CostMultiplier: 1.0, WastePercentage: 10, IsDefault: true}}
	materials := map[string][]Material{
		"v1": {{ID: "m1", VariantID: "v1", Quantity: 1, CostPrice: 100, SalePrice: 160}},
	}

	item, _, err := CalculateItem(node, variants, materials, nil, CalculationItemInput{NodeID: "n1", Quantity: 2}, identityContext(495))
	if err != nil {
		t.Fatalf("CalculateItem() error: %v", err)
	}

	// cost side carries waste, sale side does not
	approx(t, "MaterialCost", item.MaterialCost, 220)
	approx(t, "MaterialSale", item.MaterialSale, 320)
}

func TestCalculateItem_QuantityLinearity(t *testing.T) {
	node := &Node{ID: "n1", Type: NodeTypeOperation, BaseTimeSeconds: 450, DifficultyLevel: 1}
	variants := []Variant{{ID: "v1", NodeID: "n1", TimeMultiplier: 1.2, ExtraTimeSeconds: 60, PriceMultiplier: 1.0, CostMultiplier: 1.0, WastePercentage: 5, IsDefault: true}}
	materials := map[string][]Material{
		"v1": {{ID: "m1", VariantID: "v1", Quantity: 2, CostPrice: 12.50, SalePrice: 19.75}},
	}
	ctx := identityContext(495)

	one, _, err := CalculateItem(node, variants, materials, nil, CalculationItemInput{NodeID: "n1", Quantity: 1}, ctx)
	if err != nil {
		t.Fatalf("CalculateItem(qty=1) error: %v", err)
	}
	five, _, err := CalculateItem(node, variants, materials, nil, CalculationItemInput{NodeID: "n1", Quantity: 5}, ctx)
	if err != nil {
		t.Fatalf("CalculateItem(qty=5) error: %v", err)
	}

	approx(t, "time scaling", five.ResolvedTimeSeconds, one.ResolvedTimeSeconds*5)
	approx(t, "material cost scaling", five.MaterialCost, one.MaterialCost*5)
	approx(t, "labor cost scaling", five.LaborCost, one.LaborCost*5)
}

func TestCalculateItem_InvalidQuantity(t *testing.T) {
	node := &Node{ID: "n1", Type: NodeTypeOperation, BaseTimeSeconds: 100}

	for _, qty := range []float64{0, -1} {
		_, _, err := CalculateItem(node, nil, nil, nil, CalculationItemInput{NodeID: "n1", Quantity: qty}, identityContext(495))
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("quantity %v: expected ValidationError, got %v", qty, err)
		}
	}
}

func TestCalculateItem_NilNode(t *testing.T) {
	_, _, err := CalculateItem(nil, nil, nil, nil, CalculationItemInput{NodeID: "missing", Quantity: 1}, identityContext(495))
	var notFoundErr *NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestCalculateItem_OptionalMaterial(t *testing.T) {
	node := &Node{ID: "n1", Type: NodeTypeOperation, DifficultyLevel: 1}
	variants := []Variant{{ID: "v1", NodeID: "n1", TimeMultiplier: 1.0, PriceMultiplier: 1.0, CostMultiplier: 1.0, IsDefault: true}}
	materials := map[string][]Material{
		"v1": {
			{ID: "m1", VariantID: "v1", Quantity: 1, CostPrice: 50, SalePrice: 80},
			{ID: "m2", VariantID: "v1", Quantity: 1, CostPrice: 30, SalePrice: 45, IsOptional: true},
		},
	}
	ctx := identityContext(495)

	excluded, _, err := CalculateItem(node, variants, materials, nil, CalculationItemInput{NodeID: "n1", Quantity: 1}, ctx)
	if err != nil {
		t.Fatalf("CalculateItem() error: %v", err)
	}
	approx(t, "MaterialCost without optional", excluded.MaterialCost, 50)

	included, _, err := CalculateItem(node, variants, materials, nil, CalculationItemInput{
		NodeID:     "n1",
		Quantity:   1,
		Conditions: map[string]string{"include_optional": "ja"},
	}, ctx)
	if err != nil {
		t.Fatalf("CalculateItem() error: %v", err)
	}
	approx(t, "MaterialCost with optional", included.MaterialCost, 80)
}

func TestCalculateItem_SupplierPriceOverride(t *testing.T) {
	node := &Node{ID: "n1", Type: NodeTypeOperation, DifficultyLevel: 1}
	variants := []Variant{{ID: "v1", NodeID: "n1", TimeMultiplier: 1.0, PriceMultiplier: 1.0, CostMultiplier: 1.0, IsDefault: true}}
	materials := map[string][]Material{
		"v1": {{ID: "m1", VariantID: "v1", Quantity: 1, CostPrice: 100, SalePrice: 160}},
	}

	ctx, _ := BuildContext(495, 0, nil, nil, map[string]SupplierPriceOverride{
		"m1": {MaterialID: "m1", EffectiveCostPrice: 70, EffectiveSalePrice: 84},
	})

	item, _, err := CalculateItem(node, variants, materials, nil, CalculationItemInput{NodeID: "n1", Quantity: 1}, ctx)
	if err != nil {
		t.Fatalf("CalculateItem() error: %v", err)
	}
	approx(t, "MaterialCost", item.MaterialCost, 70)
	approx(t, "MaterialSale", item.MaterialSale, 84)
}

func TestCalculateItem_Rules(t *testing.T) {
	node := &Node{ID: "n1", Type: NodeTypeOperation, BaseTimeSeconds: 600, DifficultyLevel: 1}
	variants := []Variant{{ID: "v1", NodeID: "n1", TimeMultiplier: 1.0, PriceMultiplier: 1.0, CostMultiplier: 1.0, IsDefault: true}}
	rules := []Rule{
		{
			ID:        "r2",
			NodeID:    "n1",
			Condition: RuleCondition{Type: ConditionQuantityThreshold, Threshold: 10},
			Effect:    RuleEffect{Type: EffectMultiplyTime, Value: 0.8},
			SortOrder: 2,
		},
		{
			ID:        "r1",
			NodeID:    "n1",
			Condition: RuleCondition{Type: ConditionFlagMatch, Key: "concealed", Flag: "yes"},
			Effect:    RuleEffect{Type: EffectAddTime, Value: 300},
			SortOrder: 1,
		},
	}
	ctx := identityContext(495)

	// Both rules match: additive first by sort order, then the multiplier.
	item, warnings, err := CalculateItem(node, variants, nil, rules, CalculationItemInput{
		NodeID:     "n1",
		Quantity:   10,
		Conditions: map[string]string{"concealed": "yes"},
	}, ctx)
	if err != nil {
		t.Fatalf("CalculateItem() error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
	// (600 + 300) * 0.8 = 720 per unit
	approx(t, "ResolvedTimeSeconds", item.ResolvedTimeSeconds, 7200)
	if len(item.RulesApplied) != 2 || item.RulesApplied[0] != "r1" || item.RulesApplied[1] != "r2" {
		t.Errorf("RulesApplied = %v, want [r1 r2]", item.RulesApplied)
	}

	// Below the threshold only the flag rule fires.
	item, _, err = CalculateItem(node, variants, nil, rules, CalculationItemInput{
		NodeID:     "n1",
		Quantity:   2,
		Conditions: map[string]string{"concealed": "yes"},
	}, ctx)
	if err != nil {
		t.Fatalf("CalculateItem() error: %v", err)
	}
	approx(t, "ResolvedTimeSeconds below threshold", item.ResolvedTimeSeconds, 1800)
}

func TestCalculateItem_MalformedRuleWarnsAndSkips(t *testing.T) {
	node := &Node{ID: "n1", Type: NodeTypeOperation, BaseTimeSeconds: 600, DifficultyLevel: 1}
	variants := []Variant{{ID: "v1", NodeID: "n1", TimeMultiplier: 1.0, PriceMultiplier: 1.0, CostMultiplier: 1.0, IsDefault: true}}
	rules := []Rule{
		{
			ID:        "bad",
			NodeID:    "n1",
			Condition: RuleCondition{Type: ConditionFormula, Key: "area", Operator: "gte", Threshold: 50},
			Effect:    RuleEffect{Type: EffectMultiplyTime, Value: 2.0},
			SortOrder: 1,
		},
	}

	item, warnings, err := CalculateItem(node, variants, nil, rules, CalculationItemInput{
		NodeID:     "n1",
		Quantity:   1,
		Conditions: map[string]string{"area": "not-a-number"},
	}, identityContext(495))
	if err != nil {
		t.Fatalf("CalculateItem() error: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if warnings[0].RuleID != "bad" {
		t.Errorf("warning rule id = %q, want %q", warnings[0].RuleID, "bad")
	}
	// Rule is skipped entirely.
	approx(t, "ResolvedTimeSeconds", item.ResolvedTimeSeconds, 600)
	if len(item.RulesApplied) != 0 {
		t.Errorf("RulesApplied = %v, want empty", item.RulesApplied)
	}
}

func TestCalculateItem_CostRulesAffectCostSideOnly(t *testing.T) {
	node := &Node{ID: "n1", Type: NodeTypeOperation, DifficultyLevel: 1}
	variants := []Variant{{ID: "v1", NodeID: "n1", TimeMultiplier: 1.0, PriceMultiplier: 1.0, CostMultiplier: 1.0, IsDefault: true}}
	materials := map[string][]Material{
		"v1": {{ID: "m1", VariantID: "v1", Quantity: 1, CostPrice: 100, SalePrice: 150}},
	}
	rules := []Rule{
		{
			ID:        "surcharge",
			NodeID:    "n1",
			Condition: RuleCondition{Type: ConditionQuantityThreshold, Threshold: 1},
			Effect:    RuleEffect{Type: EffectMultiplyCost, Value: 1.1},
			SortOrder: 1,
		},
	}

	item, _, err := CalculateItem(node, variants, materials, rules, CalculationItemInput{NodeID: "n1", Quantity: 1}, identityContext(495))
	if err != nil {
		t.Fatalf("CalculateItem() error: %v", err)
	}
	approx(t, "MaterialCost", item.MaterialCost, 110)
	approx(t, "MaterialSale", item.MaterialSale, 150)
}

func TestCalculateItem_ProfileAndFactors(t *testing.T) {
	node := &Node{ID: "n1", Type: NodeTypeOperation, BaseTimeSeconds: 1000, DifficultyLevel: 2}
	variants := []Variant{{ID: "v1", NodeID: "n1", TimeMultiplier: 1.0, PriceMultiplier: 1.0, CostMultiplier: 1.0, IsDefault: true}}
	materials := map[string][]Material{
		"v1": {{ID: "m1", VariantID: "v1", Quantity: 1, CostPrice: 100, SalePrice: 140}},
	}

	profile := &BuildingProfile{
		TimeMultiplier:          1.2,
		DifficultyMultiplier:    1.1,
		MaterialWasteMultiplier: 1.05,
		OverheadMultiplier:      1.0,
	}
	factors := []GlobalFactor{
		{Key: FactorTimeIndex, Value: 1.1, MinValue: 0.5, MaxValue: 2.0, IsActive: true},
		{Key: FactorCostIndex, Value: 1.2, MinValue: 0.5, MaxValue: 2.0, IsActive: true},
	}

	ctx, err := BuildContext(495, 0, profile, factors, nil)
	if err != nil {
		t.Fatalf("BuildContext() error: %v", err)
	}

	item, _, err := CalculateItem(node, variants, materials, nil, CalculationItemInput{NodeID: "n1", Quantity: 1}, ctx)
	if err != nil {
		t.Fatalf("CalculateItem() error: %v", err)
	}

	// time: 1000 * 1.2 * 1.1^2 * 1.1
	wantTime := 1000 * 1.2 * math.Pow(1.1, 2) * 1.1
	approx(t, "ResolvedTimeSeconds", item.ResolvedTimeSeconds, wantTime)
	// material cost: 100 * 1.05 * 1.2
	approx(t, "MaterialCost", item.MaterialCost, 100*1.05*1.2)
	// material sale scales with the cost index but not with waste
	approx(t, "MaterialSale", item.MaterialSale, 140*1.2)
}

func TestResolveVariant(t *testing.T) {
	node := &Node{ID: "n1"}
	variants := []Variant{
		{ID: "v1", NodeID: "n1"},
		{ID: "v2", NodeID: "n1", IsDefault: true},
	}

	tests := []struct {
		name      string
		requested string
		variants  []Variant
		wantID    string
		wantErr   bool
	}{
		{"explicit request", "v1", variants, "v1", false},
		{"default fallback", "", variants, "v2", false},
		{"first fallback", "", []Variant{{ID: "v3", NodeID: "n1"}}, "v3", false},
		{"synthetic identity", "", nil, "", false},
		{"unknown request", "nope", variants, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveVariant(node, tt.variants, tt.requested)
			if tt.wantErr {
				var notFoundErr *NotFoundError
				if !errors.As(err, &notFoundErr) {
					t.Fatalf("expected NotFoundError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveVariant() error: %v", err)
			}
			if got.ID != tt.wantID {
				t.Errorf("variant id = %q, want %q", got.ID, tt.wantID)
			}
			if tt.wantID == "" && (got.TimeMultiplier != 1.0 || got.CostMultiplier != 1.0 || got.PriceMultiplier != 1.0) {
				t.Errorf("synthetic variant should have identity multipliers, got %+v", got)
			}
		})
	}
}
