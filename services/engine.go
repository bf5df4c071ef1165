package services

// EstimateInput is the full request of one calculation run.
type EstimateInput struct {
	Items             []CalculationItemInput `json:"items"`
	BuildingProfileID string                 `json:"building_profile_id"`
	HourlyRate        float64                `json:"hourly_rate"`
	SaleHourlyRate    float64                `json:"sale_hourly_rate"`
	Pricing           PricingSettings        `json:"pricing"`
}

// EstimateOutput bundles the flat calculated items, the aggregated result and
// every warning recovered along the way.
type EstimateOutput struct {
	Items    []CalculatedItem  `json:"items"`
	Result   CalculationResult `json:"result"`
	Warnings []Warning         `json:"warnings"`
}

// CalculateEstimate runs one full estimate over the snapshot: builds the
// context, expands composites, calculates leaf items and aggregates. It is
// pure and synchronous; concurrent runs over separate inputs are independent.
func CalculateEstimate(snap *CatalogSnapshot, input EstimateInput) (*EstimateOutput, error) {
	if len(input.Items) == 0 {
		return nil, &ValidationError{Field: "items", Reason: "at least one item is required"}
	}
	if err := input.Pricing.Validate(); err != nil {
		return nil, err
	}

	var profile *BuildingProfile
	if input.BuildingProfileID != "" {
		p, ok := snap.Profiles[input.BuildingProfileID]
		if !ok {
			return nil, &NotFoundError{Kind: "building profile", ID: input.BuildingProfileID}
		}
		profile = &p
	}

	ctx, err := BuildContext(input.HourlyRate, input.SaleHourlyRate, profile, snap.GlobalFactors, snap.SupplierPrices)
	if err != nil {
		return nil, err
	}

	var items []CalculatedItem
	var warnings []Warning

	for _, itemInput := range input.Items {
		node, ok := snap.Nodes[itemInput.NodeID]
		if !ok {
			return nil, &NotFoundError{Kind: "node", ID: itemInput.NodeID}
		}

		switch node.Type {
		case NodeTypeComposite, NodeTypeGroup:
			expanded, w, err := ExpandComposite(snap, node, itemInput.Quantity, itemInput.Conditions, map[string]bool{}, nil, ctx)
			if err != nil {
				return nil, err
			}
			items = append(items, expanded...)
			warnings = append(warnings, w...)

		default:
			item, w, err := CalculateItem(node, snap.Variants[node.ID], snap.Materials, snap.Rules[node.ID], itemInput, ctx)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			warnings = append(warnings, w...)
		}
	}

	// Site conditions scale overhead through the profile bundle.
	settings := input.Pricing
	settings.OverheadPercentage *= ctx.Profile.OverheadMultiplier

	return &EstimateOutput{Items: items, Result: Aggregate(items, settings), Warnings: warnings}, nil
}
