package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
)

// LoadCatalogSnapshot reads the full catalog into an immutable in-memory
// snapshot. The engine itself performs no I/O, so everything a run may touch
// is pre-resolved here.
func LoadCatalogSnapshot(app *pocketbase.PocketBase) (*CatalogSnapshot, error) {
	snap := &CatalogSnapshot{
		Nodes:          map[string]*Node{},
		NodesByCode:    map[string]*Node{},
		Variants:       map[string][]Variant{},
		Materials:      map[string][]Material{},
		Rules:          map[string][]Rule{},
		Profiles:       map[string]BuildingProfile{},
		SupplierPrices: map[string]SupplierPriceOverride{},
	}

	nodeRecords, err := app.FindAllRecords("catalog_nodes")
	if err != nil {
		return nil, fmt.Errorf("load catalog nodes: %w", err)
	}
	for _, rec := range nodeRecords {
		node := &Node{
			ID:               rec.Id,
			Code:             rec.GetString("code"),
			Name:             rec.GetString("name"),
			Type:             NodeType(rec.GetString("type")),
			Path:             rec.GetString("path"),
			Depth:            rec.GetInt("depth"),
			ParentID:         rec.GetString("parent"),
			BaseTimeSeconds:  rec.GetFloat("base_time_seconds"),
			DefaultCostPrice: rec.GetFloat("default_cost_price"),
			DefaultSalePrice: rec.GetFloat("default_sale_price"),
			DifficultyLevel:  rec.GetFloat("difficulty_level"),
		}
		snap.Nodes[node.ID] = node
		snap.NodesByCode[node.Code] = node
	}

	childRecords, err := app.FindRecordsByFilter("composite_children", "id != ''", "sort_order", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("load composite children: %w", err)
	}
	for _, rec := range childRecords {
		parent, ok := snap.Nodes[rec.GetString("node")]
		if !ok {
			continue
		}
		parent.Children = append(parent.Children, CompositeChild{
			ChildNodeID:        rec.GetString("child"),
			QuantityMultiplier: rec.GetFloat("quantity_multiplier"),
		})
	}

	variantRecords, err := app.FindAllRecords("node_variants")
	if err != nil {
		return nil, fmt.Errorf("load node variants: %w", err)
	}
	for _, rec := range variantRecords {
		v := Variant{
			ID:               rec.Id,
			NodeID:           rec.GetString("node"),
			Name:             rec.GetString("name"),
			TimeMultiplier:   rec.GetFloat("time_multiplier"),
			ExtraTimeSeconds: rec.GetFloat("extra_time_seconds"),
			PriceMultiplier:  rec.GetFloat("price_multiplier"),
			CostMultiplier:   rec.GetFloat("cost_multiplier"),
			WastePercentage:  rec.GetFloat("waste_percentage"),
			IsDefault:        rec.GetBool("is_default"),
		}
		snap.Variants[v.NodeID] = append(snap.Variants[v.NodeID], v)
	}

	materialRecords, err := app.FindAllRecords("variant_materials")
	if err != nil {
		return nil, fmt.Errorf("load variant materials: %w", err)
	}
	for _, rec := range materialRecords {
		m := Material{
			ID:                rec.Id,
			VariantID:         rec.GetString("variant"),
			Name:              rec.GetString("name"),
			Quantity:          rec.GetFloat("quantity"),
			Unit:              rec.GetString("unit"),
			CostPrice:         rec.GetFloat("cost_price"),
			SalePrice:         rec.GetFloat("sale_price"),
			IsOptional:        rec.GetBool("is_optional"),
			SupplierProductID: rec.GetString("supplier_product"),
		}
		snap.Materials[m.VariantID] = append(snap.Materials[m.VariantID], m)
	}

	ruleRecords, err := app.FindRecordsByFilter("node_rules", "id != ''", "sort_order", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("load node rules: %w", err)
	}
	for _, rec := range ruleRecords {
		r := Rule{
			ID:     rec.Id,
			NodeID: rec.GetString("node"),
			Name:   rec.GetString("name"),
			Condition: RuleCondition{
				Type:      ConditionType(rec.GetString("condition_type")),
				Key:       rec.GetString("condition_key"),
				Operator:  rec.GetString("operator"),
				Threshold: rec.GetFloat("threshold"),
				Flag:      rec.GetString("flag_value"),
			},
			Effect: RuleEffect{
				Type:  EffectType(rec.GetString("effect_type")),
				Value: rec.GetFloat("effect_value"),
			},
			SortOrder: rec.GetInt("sort_order"),
		}
		snap.Rules[r.NodeID] = append(snap.Rules[r.NodeID], r)
	}

	profileRecords, err := app.FindAllRecords("building_profiles")
	if err != nil {
		return nil, fmt.Errorf("load building profiles: %w", err)
	}
	for _, rec := range profileRecords {
		p := BuildingProfile{
			ID:                      rec.Id,
			Name:                    rec.GetString("name"),
			TimeMultiplier:          rec.GetFloat("time_multiplier"),
			DifficultyMultiplier:    rec.GetFloat("difficulty_multiplier"),
			MaterialWasteMultiplier: rec.GetFloat("material_waste_multiplier"),
			OverheadMultiplier:      rec.GetFloat("overhead_multiplier"),
		}
		snap.Profiles[p.ID] = p
	}

	factorRecords, err := app.FindAllRecords("global_factors")
	if err != nil {
		return nil, fmt.Errorf("load global factors: %w", err)
	}
	for _, rec := range factorRecords {
		snap.GlobalFactors = append(snap.GlobalFactors, GlobalFactor{
			Key:      rec.GetString("key"),
			Value:    rec.GetFloat("value"),
			MinValue: rec.GetFloat("min_value"),
			MaxValue: rec.GetFloat("max_value"),
			IsActive: rec.GetBool("is_active"),
		})
	}

	return snap, nil
}

// LoadSupplierPrices resolves the effective supplier price of every
// supplier-linked material for one customer and stores the result on the
// snapshot. Returns the warnings collected during resolution.
func LoadSupplierPrices(app *pocketbase.PocketBase, snap *CatalogSnapshot, customer string, now time.Time) ([]Warning, error) {
	products := map[string]*SupplierProduct{}
	productRecords, err := app.FindAllRecords("supplier_products")
	if err != nil {
		return nil, fmt.Errorf("load supplier products: %w", err)
	}
	for _, rec := range productRecords {
		products[rec.Id] = &SupplierProduct{
			ID:           rec.Id,
			SupplierID:   rec.GetString("supplier"),
			SKU:          rec.GetString("sku"),
			Name:         rec.GetString("name"),
			CostPrice:    rec.GetFloat("cost_price"),
			ListPrice:    rec.GetFloat("list_price"),
			IsAvailable:  rec.GetBool("is_available"),
			LeadTimeDays: rec.GetInt("lead_time_days"),
			LastSyncedAt: rec.GetDateTime("last_synced_at").Time(),
		}
	}

	agreements := map[string]*CustomerSupplierAgreement{} // keyed by supplier id
	overrides := map[string]*CustomerProductOverride{}    // keyed by supplier product id
	if customer != "" {
		agreementRecords, err := app.FindRecordsByFilter(
			"customer_supplier_agreements", "customer = {:customer}", "", 0, 0,
			map[string]any{"customer": customer},
		)
		if err != nil {
			return nil, fmt.Errorf("load supplier agreements: %w", err)
		}
		for _, rec := range agreementRecords {
			agreements[rec.GetString("supplier")] = &CustomerSupplierAgreement{
				ID:                 rec.Id,
				Customer:           customer,
				SupplierID:         rec.GetString("supplier"),
				DiscountPercentage: rec.GetFloat("discount_percentage"),
				MarginPercentage:   rec.GetFloat("margin_percentage"),
				HasCustomMargin:    rec.GetBool("has_custom_margin"),
			}
		}

		overrideRecords, err := app.FindRecordsByFilter(
			"customer_product_overrides", "customer = {:customer}", "", 0, 0,
			map[string]any{"customer": customer},
		)
		if err != nil {
			return nil, fmt.Errorf("load product overrides: %w", err)
		}
		for _, rec := range overrideRecords {
			overrides[rec.GetString("supplier_product")] = &CustomerProductOverride{
				ID:                 rec.Id,
				Customer:           customer,
				SupplierProductID:  rec.GetString("supplier_product"),
				CostPrice:          rec.GetFloat("cost_price"),
				HasCostPrice:       rec.GetBool("has_cost_price"),
				DiscountPercentage: rec.GetFloat("discount_percentage"),
				HasDiscount:        rec.GetBool("has_discount"),
			}
		}
	}

	var warnings []Warning
	for _, materials := range snap.Materials {
		for _, m := range materials {
			if m.SupplierProductID == "" {
				continue
			}
			product := products[m.SupplierProductID]
			var agreement *CustomerSupplierAgreement
			if product != nil {
				agreement = agreements[product.SupplierID]
			}
			resolved, w := ResolveMaterialPrice(m, product, agreement, overrides[m.SupplierProductID], now)
			snap.SupplierPrices[m.ID] = resolved
			warnings = append(warnings, w...)
		}
	}

	return warnings, nil
}
