package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ConditionType is the closed set of rule condition kinds. Conditions are
// plain data interpreted by EvaluateCondition, never executable expressions.
type ConditionType string

const (
	ConditionQuantityThreshold ConditionType = "quantity_threshold"
	ConditionFlagMatch         ConditionType = "flag_match"
	ConditionFormula           ConditionType = "formula"
)

// EffectType is the closed set of rule effect kinds.
type EffectType string

const (
	EffectAddTime      EffectType = "add_time"
	EffectMultiplyTime EffectType = "multiply_time"
	EffectAddCost      EffectType = "add_cost"
	EffectMultiplyCost EffectType = "multiply_cost"
)

// Rule adjusts an item's time or material cost when its condition matches the
// item input. Rules on a node apply cumulatively in ascending SortOrder.
type Rule struct {
	ID        string
	NodeID    string
	Name      string
	Condition RuleCondition
	Effect    RuleEffect
	SortOrder int
}

// RuleCondition is a tagged variant:
//   - quantity_threshold: matches when input quantity >= Threshold
//   - flag_match: matches when conditions[Key] equals Flag
//   - formula: compares the numeric value of conditions[Key] against
//     Threshold using Operator (lt, lte, gt, gte, eq)
type RuleCondition struct {
	Type      ConditionType
	Key       string
	Operator  string
	Threshold float64
	Flag      string
}

// RuleEffect is either a seconds delta, a time factor, a per-unit material
// cost delta, or a material cost factor.
type RuleEffect struct {
	Type  EffectType
	Value float64
}

// EvaluateCondition reports whether the rule condition matches the item input.
// A malformed condition returns an error; the caller skips the rule and
// records a warning instead of failing the estimate.
func EvaluateCondition(cond RuleCondition, input CalculationItemInput) (bool, error) {
	switch cond.Type {
	case ConditionQuantityThreshold:
		return input.Quantity >= cond.Threshold, nil

	case ConditionFlagMatch:
		if cond.Key == "" {
			return false, fmt.Errorf("flag_match condition has no key")
		}
		val, ok := input.Conditions[cond.Key]
		if !ok {
			return false, nil
		}
		return strings.EqualFold(strings.TrimSpace(val), cond.Flag), nil

	case ConditionFormula:
		if cond.Key == "" {
			return false, fmt.Errorf("formula condition has no key")
		}
		raw, ok := input.Conditions[cond.Key]
		if !ok {
			return false, nil
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return false, fmt.Errorf("condition value %q for key %q is not numeric", raw, cond.Key)
		}
		switch cond.Operator {
		case "lt":
			return val < cond.Threshold, nil
		case "lte":
			return val <= cond.Threshold, nil
		case "gt":
			return val > cond.Threshold, nil
		case "gte":
			return val >= cond.Threshold, nil
		case "eq":
			return val == cond.Threshold, nil
		default:
			return false, fmt.Errorf("unknown formula operator %q", cond.Operator)
		}

	default:
		return false, fmt.Errorf("unknown condition type %q", cond.Type)
	}
}

// sortRules orders rules by ascending SortOrder without mutating the input.
func sortRules(rules []Rule) []Rule {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortOrder < sorted[j].SortOrder
	})
	return sorted
}
