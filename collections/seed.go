package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type materialDef struct {
	name       string
	quantity   float64
	unit       string
	costPrice  float64
	salePrice  float64
	isOptional bool
	sku        string // links to the supplier product with this SKU, if any
}

type variantDef struct {
	name             string
	timeMultiplier   float64
	extraTimeSeconds float64
	priceMultiplier  float64
	costMultiplier   float64
	wastePercentage  float64
	isDefault        bool
	materials        []materialDef
}

type ruleDef struct {
	name          string
	conditionType string
	conditionKey  string
	operator      string
	threshold     float64
	flagValue     string
	effectType    string
	effectValue   float64
	sortOrder     int
}

type nodeDef struct {
	code            string
	name            string
	nodeType        string
	baseTimeSeconds float64
	difficultyLevel float64
	variants        []variantDef
	rules           []ruleDef
	children        []childDef // composite nodes only
}

type childDef struct {
	childCode          string
	quantityMultiplier float64
}

type profileDef struct {
	name                    string
	timeMultiplier          float64
	difficultyMultiplier    float64
	materialWasteMultiplier float64
	overheadMultiplier      float64
}

type supplierDef struct {
	name     string
	email    string
	products []supplierProductDef
}

type supplierProductDef struct {
	sku       string
	name      string
	costPrice float64
	listPrice float64
}

// Seed populates the catalog with a realistic electrical-installation
// operation tree, building profiles, global factors and supplier data. It is
// safe to call on every startup because it returns early if any catalog
// nodes already exist.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if catalog already seeded ──────────────────
	nodesCol, err := app.FindCollectionByNameOrId("catalog_nodes")
	if err != nil {
		return fmt.Errorf("seed: could not find catalog_nodes collection: %w", err)
	}
	existing, err := app.FindAllRecords(nodesCol)
	if err != nil {
		return fmt.Errorf("seed: could not query catalog_nodes: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: catalog is empty – inserting seed data …")

	variantsCol, err := app.FindCollectionByNameOrId("node_variants")
	if err != nil {
		return fmt.Errorf("seed: could not find node_variants collection: %w", err)
	}
	materialsCol, err := app.FindCollectionByNameOrId("variant_materials")
	if err != nil {
		return fmt.Errorf("seed: could not find variant_materials collection: %w", err)
	}
	rulesCol, err := app.FindCollectionByNameOrId("node_rules")
	if err != nil {
		return fmt.Errorf("seed: could not find node_rules collection: %w", err)
	}
	childrenCol, err := app.FindCollectionByNameOrId("composite_children")
	if err != nil {
		return fmt.Errorf("seed: could not find composite_children collection: %w", err)
	}
	profilesCol, err := app.FindCollectionByNameOrId("building_profiles")
	if err != nil {
		return fmt.Errorf("seed: could not find building_profiles collection: %w", err)
	}
	factorsCol, err := app.FindCollectionByNameOrId("global_factors")
	if err != nil {
		return fmt.Errorf("seed: could not find global_factors collection: %w", err)
	}
	suppliersCol, err := app.FindCollectionByNameOrId("suppliers")
	if err != nil {
		return fmt.Errorf("seed: could not find suppliers collection: %w", err)
	}
	supplierProductsCol, err := app.FindCollectionByNameOrId("supplier_products")
	if err != nil {
		return fmt.Errorf("seed: could not find supplier_products collection: %w", err)
	}
	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("seed: could not find projects collection: %w", err)
	}

	// ── suppliers first so materials can link their SKUs ─────────────
	productIDsBySKU := map[string]string{}
	for _, s := range seedSuppliers {
		supplier := core.NewRecord(suppliersCol)
		supplier.Set("name", s.name)
		supplier.Set("contact_email", s.email)
		if err := app.Save(supplier); err != nil {
			return fmt.Errorf("seed: could not save supplier %q: %w", s.name, err)
		}
		for _, p := range s.products {
			product := core.NewRecord(supplierProductsCol)
			product.Set("supplier", supplier.Id)
			product.Set("sku", p.sku)
			product.Set("name", p.name)
			product.Set("cost_price", p.costPrice)
			product.Set("list_price", p.listPrice)
			product.Set("is_available", true)
			if err := app.Save(product); err != nil {
				return fmt.Errorf("seed: could not save supplier product %q: %w", p.sku, err)
			}
			productIDsBySKU[p.sku] = product.Id
		}
	}

	// ── catalog tree ─────────────────────────────────────────────────
	nodeIDsByCode := map[string]string{}

	createNode := func(d nodeDef, parentID, parentPath string, depth int) error {
		node := core.NewRecord(nodesCol)
		node.Set("code", d.code)
		node.Set("name", d.name)
		node.Set("type", d.nodeType)
		path := d.code
		if parentPath != "" {
			path = parentPath + "." + d.code
		}
		node.Set("path", path)
		node.Set("depth", depth)
		if parentID != "" {
			node.Set("parent", parentID)
		}
		node.Set("base_time_seconds", d.baseTimeSeconds)
		node.Set("difficulty_level", d.difficultyLevel)
		if err := app.Save(node); err != nil {
			return fmt.Errorf("seed: could not save node %q: %w", d.code, err)
		}
		nodeIDsByCode[d.code] = node.Id

		for _, v := range d.variants {
			variant := core.NewRecord(variantsCol)
			variant.Set("node", node.Id)
			variant.Set("name", v.name)
			variant.Set("time_multiplier", v.timeMultiplier)
			variant.Set("extra_time_seconds", v.extraTimeSeconds)
			variant.Set("price_multiplier", v.priceMultiplier)
			variant.Set("cost_multiplier", v.costMultiplier)
			variant.Set("waste_percentage", v.wastePercentage)
			variant.Set("is_default", v.isDefault)
			if err := app.Save(variant); err != nil {
				return fmt.Errorf("seed: could not save variant %q: %w", v.name, err)
			}

			for _, m := range v.materials {
				material := core.NewRecord(materialsCol)
				material.Set("variant", variant.Id)
				material.Set("name", m.name)
				material.Set("quantity", m.quantity)
				material.Set("unit", m.unit)
				material.Set("cost_price", m.costPrice)
				material.Set("sale_price", m.salePrice)
				material.Set("is_optional", m.isOptional)
				if m.sku != "" {
					if productID, ok := productIDsBySKU[m.sku]; ok {
						material.Set("supplier_product", productID)
					}
				}
				if err := app.Save(material); err != nil {
					return fmt.Errorf("seed: could not save material %q: %w", m.name, err)
				}
			}
		}

		for _, r := range d.rules {
			rule := core.NewRecord(rulesCol)
			rule.Set("node", node.Id)
			rule.Set("name", r.name)
			rule.Set("condition_type", r.conditionType)
			rule.Set("condition_key", r.conditionKey)
			rule.Set("operator", r.operator)
			rule.Set("threshold", r.threshold)
			rule.Set("flag_value", r.flagValue)
			rule.Set("effect_type", r.effectType)
			rule.Set("effect_value", r.effectValue)
			rule.Set("sort_order", r.sortOrder)
			if err := app.Save(rule); err != nil {
				return fmt.Errorf("seed: could not save rule %q: %w", r.name, err)
			}
		}

		return nil
	}

	for _, group := range seedCatalog {
		if err := createNode(group.def, "", "", 0); err != nil {
			return err
		}
		for _, child := range group.children {
			if err := createNode(child, nodeIDsByCode[group.def.code], group.def.code, 1); err != nil {
				return err
			}
		}
	}

	// Composite children are linked after all nodes exist.
	for _, group := range seedCatalog {
		for _, child := range group.children {
			for i, c := range child.children {
				link := core.NewRecord(childrenCol)
				link.Set("node", nodeIDsByCode[child.code])
				link.Set("child", nodeIDsByCode[c.childCode])
				link.Set("quantity_multiplier", c.quantityMultiplier)
				link.Set("sort_order", i+1)
				if err := app.Save(link); err != nil {
					return fmt.Errorf("seed: could not link composite child %q: %w", c.childCode, err)
				}
			}
		}
	}

	// ── building profiles ────────────────────────────────────────────
	for _, p := range seedProfiles {
		profile := core.NewRecord(profilesCol)
		profile.Set("name", p.name)
		profile.Set("time_multiplier", p.timeMultiplier)
		profile.Set("difficulty_multiplier", p.difficultyMultiplier)
		profile.Set("material_waste_multiplier", p.materialWasteMultiplier)
		profile.Set("overhead_multiplier", p.overheadMultiplier)
		if err := app.Save(profile); err != nil {
			return fmt.Errorf("seed: could not save building profile %q: %w", p.name, err)
		}
	}

	// ── global factors ───────────────────────────────────────────────
	factor := core.NewRecord(factorsCol)
	factor.Set("key", "cost_index")
	factor.Set("value", 1.0)
	factor.Set("min_value", 0.8)
	factor.Set("max_value", 1.5)
	factor.Set("is_active", true)
	if err := app.Save(factor); err != nil {
		return fmt.Errorf("seed: could not save global factor: %w", err)
	}

	// ── demo project ─────────────────────────────────────────────────
	project := core.NewRecord(projectsCol)
	project.Set("name", "Demo: Rækkehus renovering")
	project.Set("reference_number", "DEMO")
	project.Set("customer_name", "Andersen Byg ApS")
	project.Set("status", "active")
	if err := app.Save(project); err != nil {
		return fmt.Errorf("seed: could not save demo project: %w", err)
	}

	log.Println("seed: done")
	return nil
}

// ── Seed data ────────────────────────────────────────────────────────────

type groupDef struct {
	def      nodeDef
	children []nodeDef
}

var seedSuppliers = []supplierDef{
	{
		name:  "Solar Danmark",
		email: "ordre@solar.dk",
		products: []supplierProductDef{
			{sku: "SOL-5703302", name: "Stikkontakt LK FUGA 1M", costPrice: 38.50, listPrice: 62.00},
			{sku: "SOL-5703419", name: "Afbryder LK FUGA 1-pol", costPrice: 31.25, listPrice: 52.00},
			{sku: "SOL-1021465", name: "Kabel NOIKLX 3G1,5 (100 m)", costPrice: 495.00, listPrice: 745.00},
		},
	},
	{
		name:  "Lemvigh-Müller",
		email: "salg@lemu.dk",
		products: []supplierProductDef{
			{sku: "LM-880341", name: "Gruppetavle 12 modul", costPrice: 680.00, listPrice: 1050.00},
			{sku: "LM-880355", name: "HPFI-afbryder 40A", costPrice: 312.00, listPrice: 498.00},
		},
	},
}

var seedCatalog = []groupDef{
	{
		def: nodeDef{code: "EL1", name: "Installationer", nodeType: "group"},
		children: []nodeDef{
			{
				code:            "EL1.01",
				name:            "Montering af stikkontakt",
				nodeType:        "operation",
				baseTimeSeconds: 900,
				difficultyLevel: 1,
				variants: []variantDef{
					{
						name:           "Planforsænket",
						timeMultiplier: 1.0, priceMultiplier: 1.0, costMultiplier: 1.0,
						wastePercentage: 5, isDefault: true,
						materials: []materialDef{
							{name: "Stikkontakt LK FUGA", quantity: 1, unit: "stk", costPrice: 42.00, salePrice: 68.00, sku: "SOL-5703302"},
							{name: "Forfradåse", quantity: 1, unit: "stk", costPrice: 8.50, salePrice: 14.00},
						},
					},
					{
						name:           "På væg (påbygning)",
						timeMultiplier: 0.8, priceMultiplier: 1.0, costMultiplier: 1.0,
						wastePercentage: 5,
						materials: []materialDef{
							{name: "Stikkontakt påbygning", quantity: 1, unit: "stk", costPrice: 36.00, salePrice: 58.00},
						},
					},
				},
				rules: []ruleDef{
					{
						name:          "Mængderabat på tid",
						conditionType: "quantity_threshold",
						threshold:     10,
						effectType:    "multiply_time",
						effectValue:   0.85,
						sortOrder:     1,
					},
					{
						name:          "Skjult føring",
						conditionType: "flag_match",
						conditionKey:  "concealed",
						flagValue:     "yes",
						effectType:    "add_time",
						effectValue:   300,
						sortOrder:     2,
					},
				},
			},
			{
				code:            "EL1.02",
				name:            "Montering af afbryder",
				nodeType:        "operation",
				baseTimeSeconds: 720,
				difficultyLevel: 1,
				variants: []variantDef{
					{
						name:           "1-polet",
						timeMultiplier: 1.0, priceMultiplier: 1.0, costMultiplier: 1.0,
						wastePercentage: 5, isDefault: true,
						materials: []materialDef{
							{name: "Afbryder LK FUGA", quantity: 1, unit: "stk", costPrice: 34.00, salePrice: 55.00, sku: "SOL-5703419"},
						},
					},
				},
			},
			{
				code:            "EL1.03",
				name:            "Kabeltræk pr. meter",
				nodeType:        "operation",
				baseTimeSeconds: 120,
				difficultyLevel: 2,
				variants: []variantDef{
					{
						name:           "3G1,5 i rør",
						timeMultiplier: 1.0, priceMultiplier: 1.0, costMultiplier: 1.0,
						wastePercentage: 10, isDefault: true,
						materials: []materialDef{
							{name: "Kabel NOIKLX 3G1,5", quantity: 1.05, unit: "m", costPrice: 5.20, salePrice: 8.90, sku: "SOL-1021465"},
							{name: "Kabelbøjler", quantity: 2, unit: "stk", costPrice: 0.45, salePrice: 1.10},
						},
					},
				},
			},
		},
	},
	{
		def: nodeDef{code: "EL2", name: "Tavler", nodeType: "group"},
		children: []nodeDef{
			{
				code:            "EL2.01",
				name:            "Udskiftning af gruppetavle",
				nodeType:        "operation",
				baseTimeSeconds: 10800,
				difficultyLevel: 3,
				variants: []variantDef{
					{
						name:           "12 modul",
						timeMultiplier: 1.0, priceMultiplier: 1.0, costMultiplier: 1.0,
						wastePercentage: 2, isDefault: true,
						materials: []materialDef{
							{name: "Gruppetavle 12 modul", quantity: 1, unit: "stk", costPrice: 720.00, salePrice: 1150.00, sku: "LM-880341"},
							{name: "HPFI-afbryder 40A", quantity: 1, unit: "stk", costPrice: 330.00, salePrice: 520.00, sku: "LM-880355"},
							{name: "Mærkningssæt", quantity: 1, unit: "sæt", costPrice: 25.00, salePrice: 45.00, isOptional: true},
						},
					},
				},
			},
		},
	},
	{
		def: nodeDef{code: "PK1", name: "Pakkeløsninger", nodeType: "group"},
		children: []nodeDef{
			{
				code:            "PK1.01",
				name:            "Standardrum: 4 stik + 2 afbrydere",
				nodeType:        "composite",
				children: []childDef{
					{childCode: "EL1.01", quantityMultiplier: 4},
					{childCode: "EL1.02", quantityMultiplier: 2},
					{childCode: "EL1.03", quantityMultiplier: 25},
				},
			},
		},
	},
}

var seedProfiles = []profileDef{
	{name: "Nybyggeri", timeMultiplier: 1.0, difficultyMultiplier: 1.0, materialWasteMultiplier: 1.0, overheadMultiplier: 1.0},
	{name: "Ældre ejendom", timeMultiplier: 1.2, difficultyMultiplier: 1.15, materialWasteMultiplier: 1.1, overheadMultiplier: 1.05},
	{name: "Fredet bygning", timeMultiplier: 1.5, difficultyMultiplier: 1.3, materialWasteMultiplier: 1.2, overheadMultiplier: 1.1},
}
