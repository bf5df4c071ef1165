package services

import (
	"math"
	"strings"
)

// includeOptionalKey is the item condition that pulls optional materials into
// the estimate.
const includeOptionalKey = "include_optional"

// CalculateItem computes time, material cost/sale and labor cost/sale for a
// single catalog item request. Rules whose conditions are malformed are
// skipped and reported as warnings; everything else is fatal and typed.
func CalculateItem(node *Node, variants []Variant, materials map[string][]Material, rules []Rule, input CalculationItemInput, ctx CalculationContext) (CalculatedItem, []Warning, error) {
	if node == nil {
		return CalculatedItem{}, nil, &NotFoundError{Kind: "node", ID: input.NodeID}
	}
	if input.Quantity <= 0 {
		return CalculatedItem{}, nil, &ValidationError{Field: "quantity", Reason: "must be greater than zero"}
	}

	variant, err := resolveVariant(node, variants, input.VariantID)
	if err != nil {
		return CalculatedItem{}, nil, err
	}

	var warnings []Warning

	// Per-unit base time, then cumulative rule adjustments in sort order.
	perUnitTime := node.BaseTimeSeconds*variant.TimeMultiplier + variant.ExtraTimeSeconds
	perUnitCostDelta := 0.0
	costFactor := 1.0
	var applied []string

	for _, rule := range sortRules(rules) {
		matched, err := EvaluateCondition(rule.Condition, input)
		if err != nil {
			warnings = append(warnings, Warning{
				NodeID:  node.ID,
				RuleID:  rule.ID,
				Message: "rule skipped: " + err.Error(),
			})
			continue
		}
		if !matched {
			continue
		}
		switch rule.Effect.Type {
		case EffectAddTime:
			perUnitTime += rule.Effect.Value
		case EffectMultiplyTime:
			perUnitTime *= rule.Effect.Value
		case EffectAddCost:
			perUnitCostDelta += rule.Effect.Value
		case EffectMultiplyCost:
			costFactor *= rule.Effect.Value
		default:
			warnings = append(warnings, Warning{
				NodeID:  node.ID,
				RuleID:  rule.ID,
				Message: "rule skipped: unknown effect type " + string(rule.Effect.Type),
			})
			continue
		}
		applied = append(applied, rule.ID)
	}

	// Site conditions: flat time multiplier plus a difficulty multiplier
	// scaled by the node's difficulty level.
	difficulty := math.Pow(ctx.Profile.DifficultyMultiplier, node.DifficultyLevel/baselineDifficulty)
	perUnitTime *= ctx.Profile.TimeMultiplier * difficulty * ctx.TimeIndex()
	totalTime := perUnitTime * input.Quantity

	includeOptional := isTruthy(input.Conditions[includeOptionalKey])
	wasteFactor := (1 + variant.WastePercentage/100) * ctx.Profile.MaterialWasteMultiplier

	var materialCost, materialSale float64
	for _, m := range materials[variant.ID] {
		if m.IsOptional && !includeOptional {
			continue
		}

		unitCost := m.CostPrice * variant.CostMultiplier
		unitSale := m.SalePrice * variant.PriceMultiplier
		if override, ok := ctx.SupplierPrices[m.ID]; ok {
			unitCost = override.EffectiveCostPrice
			unitSale = override.EffectiveSalePrice
		}

		// Rule cost effects adjust the cost side only, like waste.
		unitCost = unitCost*costFactor + perUnitCostDelta

		qty := m.Quantity * input.Quantity
		materialCost += unitCost * wasteFactor * qty * ctx.CostIndex()
		materialSale += unitSale * qty * ctx.CostIndex()
	}

	laborCost := totalTime / 3600 * ctx.HourlyRate
	laborSale := totalTime / 3600 * ctx.SaleHourlyRate

	return CalculatedItem{
		NodeID:              node.ID,
		VariantID:           variant.ID,
		Quantity:            input.Quantity,
		ResolvedTimeSeconds: totalTime,
		MaterialCost:        materialCost,
		MaterialSale:        materialSale,
		LaborCost:           laborCost,
		LaborSale:           laborSale,
		RulesApplied:        applied,
	}, warnings, nil
}

// resolveVariant picks the variant for an item request: the explicitly
// requested one (which must belong to the node), else the default, else the
// first. A node without variants computes as a zero-material operation with
// identity multipliers.
func resolveVariant(node *Node, variants []Variant, requestedID string) (Variant, error) {
	if requestedID != "" {
		for _, v := range variants {
			if v.ID == requestedID {
				return v, nil
			}
		}
		return Variant{}, &NotFoundError{Kind: "variant", ID: requestedID}
	}

	for _, v := range variants {
		if v.IsDefault {
			return v, nil
		}
	}
	if len(variants) > 0 {
		return variants[0], nil
	}

	return Variant{
		NodeID:          node.ID,
		TimeMultiplier:  1.0,
		PriceMultiplier: 1.0,
		CostMultiplier:  1.0,
	}, nil
}

func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "ja":
		return true
	}
	return false
}
