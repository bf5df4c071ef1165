// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"kalkia/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestProject creates a project record with the given name and returns it.
func CreateTestProject(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		t.Fatalf("failed to find projects collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("customer_name", "Test Kunde ApS")
	record.Set("status", "active")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test project: %v", err)
	}

	return record
}

// CreateTestNode creates a catalog node record and returns it. nodeType is
// one of group, operation or composite.
func CreateTestNode(t *testing.T, app *pocketbase.PocketBase, code, name, nodeType string, baseTimeSeconds float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("catalog_nodes")
	if err != nil {
		t.Fatalf("failed to find catalog_nodes collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("code", code)
	record.Set("name", name)
	record.Set("type", nodeType)
	record.Set("path", code)
	record.Set("depth", 0)
	record.Set("base_time_seconds", baseTimeSeconds)
	record.Set("difficulty_level", 1)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test node: %v", err)
	}

	return record
}

// CreateTestVariant creates a default variant for a node with neutral
// multipliers and returns it.
func CreateTestVariant(t *testing.T, app *pocketbase.PocketBase, nodeID, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("node_variants")
	if err != nil {
		t.Fatalf("failed to find node_variants collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("node", nodeID)
	record.Set("name", name)
	record.Set("time_multiplier", 1.0)
	record.Set("extra_time_seconds", 0)
	record.Set("price_multiplier", 1.0)
	record.Set("cost_multiplier", 1.0)
	record.Set("waste_percentage", 0)
	record.Set("is_default", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test variant: %v", err)
	}

	return record
}

// CreateTestMaterial creates a material line under a variant and returns it.
func CreateTestMaterial(t *testing.T, app *pocketbase.PocketBase, variantID, name string, quantity, costPrice, salePrice float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("variant_materials")
	if err != nil {
		t.Fatalf("failed to find variant_materials collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("variant", variantID)
	record.Set("name", name)
	record.Set("quantity", quantity)
	record.Set("unit", "stk")
	record.Set("cost_price", costPrice)
	record.Set("sale_price", salePrice)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test material: %v", err)
	}

	return record
}

// CreateTestRule creates a quantity-threshold rule on a node and returns it.
func CreateTestRule(t *testing.T, app *pocketbase.PocketBase, nodeID string, threshold float64, effectType string, effectValue float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("node_rules")
	if err != nil {
		t.Fatalf("failed to find node_rules collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("node", nodeID)
	record.Set("name", "test rule")
	record.Set("condition_type", "quantity_threshold")
	record.Set("threshold", threshold)
	record.Set("effect_type", effectType)
	record.Set("effect_value", effectValue)
	record.Set("sort_order", 1)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test rule: %v", err)
	}

	return record
}

// CreateTestCompositeChild links a child node under a composite node.
func CreateTestCompositeChild(t *testing.T, app *pocketbase.PocketBase, nodeID, childID string, quantityMultiplier float64, sortOrder int) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("composite_children")
	if err != nil {
		t.Fatalf("failed to find composite_children collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("node", nodeID)
	record.Set("child", childID)
	record.Set("quantity_multiplier", quantityMultiplier)
	record.Set("sort_order", sortOrder)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test composite child: %v", err)
	}

	return record
}

// CreateTestBuildingProfile creates a building profile with the given
// multipliers and returns it.
func CreateTestBuildingProfile(t *testing.T, app *pocketbase.PocketBase, name string, timeMult, difficultyMult, wasteMult, overheadMult float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("building_profiles")
	if err != nil {
		t.Fatalf("failed to find building_profiles collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("time_multiplier", timeMult)
	record.Set("difficulty_multiplier", difficultyMult)
	record.Set("material_waste_multiplier", wasteMult)
	record.Set("overhead_multiplier", overheadMult)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test building profile: %v", err)
	}

	return record
}

// CreateTestSupplier creates a supplier record and returns it.
func CreateTestSupplier(t *testing.T, app *pocketbase.PocketBase, name, apiURL string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("suppliers")
	if err != nil {
		t.Fatalf("failed to find suppliers collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("api_url", apiURL)
	record.Set("contact_email", "test@example.dk")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test supplier: %v", err)
	}

	return record
}

// CreateTestSupplierProduct creates a supplier product record and returns it.
func CreateTestSupplierProduct(t *testing.T, app *pocketbase.PocketBase, supplierID, sku string, costPrice float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("supplier_products")
	if err != nil {
		t.Fatalf("failed to find supplier_products collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("supplier", supplierID)
	record.Set("sku", sku)
	record.Set("name", "Product "+sku)
	record.Set("cost_price", costPrice)
	record.Set("list_price", costPrice*1.6)
	record.Set("is_available", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test supplier product: %v", err)
	}

	return record
}

// CreateTestCalculation creates a stored calculation linked to a project.
func CreateTestCalculation(t *testing.T, app *pocketbase.PocketBase, projectID, number string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("calculations")
	if err != nil {
		t.Fatalf("failed to find calculations collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("number", number)
	record.Set("status", "draft")
	record.Set("hourly_rate", 495.0)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test calculation: %v", err)
	}

	return record
}

// CreateTestCalculationItem creates a stored calculation line item.
func CreateTestCalculationItem(t *testing.T, app *pocketbase.PocketBase, calculationID, nodeID string, sortOrder int, quantity float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("calculation_items")
	if err != nil {
		t.Fatalf("failed to find calculation_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("calculation", calculationID)
	record.Set("node", nodeID)
	record.Set("sort_order", sortOrder)
	record.Set("quantity", quantity)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test calculation item: %v", err)
	}

	return record
}

// AssertJSONContains checks that body contains all specified fragments.
func AssertJSONContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected response to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
