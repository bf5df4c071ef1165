package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures every collection the application
// needs: projects, the operation catalog, supplier pricing and stored
// calculations.
func Setup(app *pocketbase.PocketBase) {
	projects := ensureCollection(app, "projects", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "reference_number", Required: false})
		c.Fields.Add(&core.TextField{Name: "customer_name", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"active", "archived"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	catalogNodes := ensureCollection(app, "catalog_nodes", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "code", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "type",
			Required:  true,
			Values:    []string{"group", "operation", "composite"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "path", Required: false})
		c.Fields.Add(&core.NumberField{Name: "depth", Required: false})
		c.Fields.Add(&core.NumberField{Name: "base_time_seconds", Required: false})
		c.Fields.Add(&core.NumberField{Name: "default_cost_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "default_sale_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "difficulty_level", Required: false})
	})
	// Self relation has to be added after the collection exists.
	if catalogNodes.Fields.GetByName("parent") == nil {
		catalogNodes.Fields.Add(&core.RelationField{
			Name:         "parent",
			Required:     false,
			CollectionId: catalogNodes.Id,
			MaxSelect:    1,
		})
		if err := app.Save(catalogNodes); err != nil {
			log.Fatalf("Failed to add parent relation to catalog_nodes: %v", err)
		}
	}

	ensureCollection(app, "composite_children", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "node",
			Required:      true,
			CollectionId:  catalogNodes.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "child",
			Required:     true,
			CollectionId: catalogNodes.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "quantity_multiplier", Required: true})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
	})

	nodeVariants := ensureCollection(app, "node_variants", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "node",
			Required:      true,
			CollectionId:  catalogNodes.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "time_multiplier", Required: false})
		c.Fields.Add(&core.NumberField{Name: "extra_time_seconds", Required: false})
		c.Fields.Add(&core.NumberField{Name: "price_multiplier", Required: false})
		c.Fields.Add(&core.NumberField{Name: "cost_multiplier", Required: false})
		c.Fields.Add(&core.NumberField{Name: "waste_percentage", Required: false})
		c.Fields.Add(&core.BoolField{Name: "is_default"})
	})

	suppliers := ensureCollection(app, "suppliers", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "api_url", Required: false})
		c.Fields.Add(&core.TextField{Name: "contact_email", Required: false})
		c.Fields.Add(&core.TextField{Name: "phone", Required: false})
	})

	supplierProducts := ensureCollection(app, "supplier_products", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "supplier",
			Required:      true,
			CollectionId:  suppliers.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "sku", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: false})
		c.Fields.Add(&core.NumberField{Name: "cost_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "list_price", Required: false})
		c.Fields.Add(&core.BoolField{Name: "is_available"})
		c.Fields.Add(&core.NumberField{Name: "lead_time_days", Required: false})
		c.Fields.Add(&core.DateField{Name: "last_synced_at", Required: false})
	})

	ensureCollection(app, "variant_materials", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "variant",
			Required:      true,
			CollectionId:  nodeVariants.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: true})
		c.Fields.Add(&core.TextField{Name: "unit", Required: true})
		c.Fields.Add(&core.NumberField{Name: "cost_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "sale_price", Required: false})
		c.Fields.Add(&core.BoolField{Name: "is_optional"})
		c.Fields.Add(&core.RelationField{
			Name:         "supplier_product",
			Required:     false,
			CollectionId: supplierProducts.Id,
			MaxSelect:    1,
		})
	})

	ensureCollection(app, "node_rules", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "node",
			Required:      true,
			CollectionId:  catalogNodes.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "condition_type",
			Required:  true,
			Values:    []string{"quantity_threshold", "flag_match", "formula"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "condition_key", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "operator",
			Required:  false,
			Values:    []string{"lt", "lte", "gt", "gte", "eq"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "threshold", Required: false})
		c.Fields.Add(&core.TextField{Name: "flag_value", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "effect_type",
			Required:  true,
			Values:    []string{"add_time", "multiply_time", "add_cost", "multiply_cost"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "effect_value", Required: true})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
	})

	buildingProfiles := ensureCollection(app, "building_profiles", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "time_multiplier", Required: false})
		c.Fields.Add(&core.NumberField{Name: "difficulty_multiplier", Required: false})
		c.Fields.Add(&core.NumberField{Name: "material_waste_multiplier", Required: false})
		c.Fields.Add(&core.NumberField{Name: "overhead_multiplier", Required: false})
	})

	ensureCollection(app, "global_factors", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "key", Required: true})
		c.Fields.Add(&core.NumberField{Name: "value", Required: true})
		c.Fields.Add(&core.NumberField{Name: "min_value", Required: false})
		c.Fields.Add(&core.NumberField{Name: "max_value", Required: false})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
	})

	ensureCollection(app, "customer_supplier_agreements", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "customer", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:          "supplier",
			Required:      true,
			CollectionId:  suppliers.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "discount_percentage", Required: false})
		c.Fields.Add(&core.NumberField{Name: "margin_percentage", Required: false})
		c.Fields.Add(&core.BoolField{Name: "has_custom_margin"})
	})

	ensureCollection(app, "customer_product_overrides", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "customer", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:          "supplier_product",
			Required:      true,
			CollectionId:  supplierProducts.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "cost_price", Required: false})
		c.Fields.Add(&core.BoolField{Name: "has_cost_price"})
		c.Fields.Add(&core.NumberField{Name: "discount_percentage", Required: false})
		c.Fields.Add(&core.BoolField{Name: "has_discount"})
	})

	calculations := ensureCollection(app, "calculations", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:         "project",
			Required:     false,
			CollectionId: projects.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "number", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"draft", "sent", "accepted", "rejected"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "building_profile",
			Required:     false,
			CollectionId: buildingProfiles.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "hourly_rate", Required: false})
		c.Fields.Add(&core.NumberField{Name: "sale_hourly_rate", Required: false})
		c.Fields.Add(&core.NumberField{Name: "margin_percentage", Required: false})
		c.Fields.Add(&core.NumberField{Name: "discount_percentage", Required: false})
		c.Fields.Add(&core.NumberField{Name: "vat_percentage", Required: false})
		c.Fields.Add(&core.NumberField{Name: "risk_percentage", Required: false})
		c.Fields.Add(&core.NumberField{Name: "overhead_percentage", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_time_seconds", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_material_cost", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_material_sale", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_labor_cost", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_labor_sale", Required: false})
		c.Fields.Add(&core.NumberField{Name: "cost_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "overhead_amount", Required: false})
		c.Fields.Add(&core.NumberField{Name: "risk_amount", Required: false})
		c.Fields.Add(&core.NumberField{Name: "sales_basis", Required: false})
		c.Fields.Add(&core.NumberField{Name: "margin_amount", Required: false})
		c.Fields.Add(&core.NumberField{Name: "sale_price_excl_vat", Required: false})
		c.Fields.Add(&core.NumberField{Name: "catalog_sale_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "discount_amount", Required: false})
		c.Fields.Add(&core.NumberField{Name: "net_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "vat_amount", Required: false})
		c.Fields.Add(&core.NumberField{Name: "final_amount", Required: false})
		c.Fields.Add(&core.NumberField{Name: "db_amount", Required: false})
		c.Fields.Add(&core.NumberField{Name: "db_percentage", Required: false})
		c.Fields.Add(&core.NumberField{Name: "db_per_hour", Required: false})
		c.Fields.Add(&core.NumberField{Name: "coverage_ratio", Required: false})
		c.Fields.Add(&core.JSONField{Name: "warnings"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "calculation_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "calculation",
			Required:      true,
			CollectionId:  calculations.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "node",
			Required:     false,
			CollectionId: catalogNodes.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "variant",
			Required:     false,
			CollectionId: nodeVariants.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: true})
		c.Fields.Add(&core.NumberField{Name: "resolved_time_seconds", Required: false})
		c.Fields.Add(&core.NumberField{Name: "material_cost", Required: false})
		c.Fields.Add(&core.NumberField{Name: "material_sale", Required: false})
		c.Fields.Add(&core.NumberField{Name: "labor_cost", Required: false})
		c.Fields.Add(&core.NumberField{Name: "labor_sale", Required: false})
		c.Fields.Add(&core.JSONField{Name: "rules_applied"})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
