package services

import "time"

// stalePriceAfter is how old a synced supplier price may get before the
// resolved override is flagged stale.
const stalePriceAfter = 7 * 24 * time.Hour

// defaultSupplierMarginPercentage is applied when neither the agreement nor
// the override pins a margin.
const defaultSupplierMarginPercentage = 20.0

// IsPriceStale reports whether a supplier price last synced at the given time
// should be flagged stale.
func IsPriceStale(lastSyncedAt, now time.Time) bool {
	return lastSyncedAt.IsZero() || now.Sub(lastSyncedAt) > stalePriceAfter
}

// ResolveMaterialPrice resolves the effective cost and sale price of one
// material from the supplier price chain, highest precedence first:
//
//  1. customer-specific product override (explicit cost price or discount)
//  2. customer-supplier agreement (blanket discount, optional custom margin)
//  3. raw supplier product base price
//  4. the material's own static default price
//
// A malformed chain level is skipped with a SupplierResolutionError returned
// as a warning while resolution falls through to the next level. The function
// is pure: all records are already fetched.
func ResolveMaterialPrice(material Material, product *SupplierProduct, agreement *CustomerSupplierAgreement, override *CustomerProductOverride, now time.Time) (SupplierPriceOverride, []Warning) {
	var warnings []Warning

	warn := func(source PriceSource, reason string) {
		err := &SupplierResolutionError{MaterialID: material.ID, Source: source, Reason: reason}
		warnings = append(warnings, Warning{MaterialID: material.ID, Message: err.Error()})
	}

	resolved := SupplierPriceOverride{
		MaterialID:       material.ID,
		MarginPercentage: defaultSupplierMarginPercentage,
	}

	if product != nil {
		resolved.SupplierProductID = product.ID
		resolved.BaseCostPrice = product.CostPrice
		resolved.LastSyncedAt = product.LastSyncedAt
		resolved.IsStale = IsPriceStale(product.LastSyncedAt, now)
	}

	cost, source, ok := resolveCostPrice(material, product, agreement, override, warn)
	resolved.EffectiveCostPrice = cost
	resolved.PriceSource = source

	if agreement != nil && agreement.HasCustomMargin && source != PriceSourceStandard {
		resolved.MarginPercentage = agreement.MarginPercentage
	}
	if source == PriceSourceCustomerSupplier && agreement != nil {
		resolved.DiscountPercentage = agreement.DiscountPercentage
	}
	if source == PriceSourceCustomerProduct && override != nil && override.HasDiscount {
		resolved.DiscountPercentage = override.DiscountPercentage
	}

	// Material-default fallback has nothing to sync, so it is never stale
	// and keeps the catalog sale price instead of a derived one.
	if !ok {
		resolved.SupplierProductID = ""
		resolved.IsStale = false
		resolved.LastSyncedAt = time.Time{}
		resolved.EffectiveSalePrice = material.SalePrice
		return resolved, warnings
	}

	resolved.EffectiveSalePrice = cost * (1 + resolved.MarginPercentage/100)
	return resolved, warnings
}

// resolveCostPrice walks the chain top-down and returns the first usable cost
// price. ok is false when resolution fell all the way through to the
// material's static default.
func resolveCostPrice(material Material, product *SupplierProduct, agreement *CustomerSupplierAgreement, override *CustomerProductOverride, warn func(PriceSource, string)) (float64, PriceSource, bool) {
	if override != nil {
		switch {
		case override.HasCostPrice:
			if override.CostPrice < 0 {
				warn(PriceSourceCustomerProduct, "negative override cost price")
			} else {
				return override.CostPrice, PriceSourceCustomerProduct, true
			}
		case override.HasDiscount:
			if product == nil {
				warn(PriceSourceCustomerProduct, "discount override without supplier product")
			} else if override.DiscountPercentage < 0 || override.DiscountPercentage > 100 {
				warn(PriceSourceCustomerProduct, "discount outside [0, 100]")
			} else {
				return product.CostPrice * (1 - override.DiscountPercentage/100), PriceSourceCustomerProduct, true
			}
		}
	}

	if agreement != nil && product != nil {
		if agreement.DiscountPercentage < 0 || agreement.DiscountPercentage > 100 {
			warn(PriceSourceCustomerSupplier, "agreement discount outside [0, 100]")
		} else {
			return product.CostPrice * (1 - agreement.DiscountPercentage/100), PriceSourceCustomerSupplier, true
		}
	}

	if product != nil {
		if product.CostPrice < 0 {
			warn(PriceSourceStandard, "negative supplier cost price")
		} else {
			return product.CostPrice, PriceSourceStandard, true
		}
	}

	return material.CostPrice, PriceSourceStandard, false
}
