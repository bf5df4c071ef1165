// Package services contains the Kalkia estimation engine and the record-backed
// services around it. The engine proper is pure: it computes over an immutable
// catalog snapshot and never touches the database or the network.
package services

import "time"

// NodeType distinguishes structural, billable and assembled catalog entries.
type NodeType string

const (
	NodeTypeGroup     NodeType = "group"
	NodeTypeOperation NodeType = "operation"
	NodeTypeComposite NodeType = "composite"
)

// Node is one catalog entry. Path is the dot-separated chain of ancestor
// codes (materialized path), kept as plain data so the tree never forms an
// owning cycle.
type Node struct {
	ID               string
	Code             string
	Name             string
	Type             NodeType
	Path             string
	Depth            int
	ParentID         string
	BaseTimeSeconds  float64
	DefaultCostPrice float64
	DefaultSalePrice float64
	DifficultyLevel  float64
	Children         []CompositeChild
}

// CompositeChild is one weighted line of a composite node's bill.
type CompositeChild struct {
	ChildNodeID        string
	QuantityMultiplier float64
}

// Variant is a named configuration of a node. At most one variant per node
// carries IsDefault.
type Variant struct {
	ID               string
	NodeID           string
	Name             string
	TimeMultiplier   float64
	ExtraTimeSeconds float64
	PriceMultiplier  float64
	CostMultiplier   float64
	WastePercentage  float64
	IsDefault        bool
}

// Material is one material line attached to a variant. SupplierProductID is
// empty when the material has no supplier link.
type Material struct {
	ID                string
	VariantID         string
	Name              string
	Quantity          float64
	Unit              string
	CostPrice         float64
	SalePrice         float64
	IsOptional        bool
	SupplierProductID string
}

// BuildingProfile is a multiplier bundle reflecting site conditions.
type BuildingProfile struct {
	ID                      string
	Name                    string
	TimeMultiplier          float64
	DifficultyMultiplier    float64
	MaterialWasteMultiplier float64
	OverheadMultiplier      float64
}

// GlobalFactor is a named, bounded numeric adjustment (e.g. regional index).
type GlobalFactor struct {
	Key      string
	Value    float64
	MinValue float64
	MaxValue float64
	IsActive bool
}

// SupplierPriceOverride is the resolved effective price of one material,
// including where the price came from and whether it is stale.
type SupplierPriceOverride struct {
	MaterialID         string
	SupplierProductID  string
	BaseCostPrice      float64
	EffectiveCostPrice float64
	EffectiveSalePrice float64
	DiscountPercentage float64
	MarginPercentage   float64
	PriceSource        PriceSource
	IsStale            bool
	LastSyncedAt       time.Time
}

// PriceSource tags why a resolved price differs from the catalog default.
type PriceSource string

const (
	PriceSourceStandard         PriceSource = "standard"
	PriceSourceCustomerProduct  PriceSource = "customer_product"
	PriceSourceCustomerSupplier PriceSource = "customer_supplier"
)

// SupplierProduct is one SKU in a supplier's catalog, as last synced.
type SupplierProduct struct {
	ID           string
	SupplierID   string
	SKU          string
	Name         string
	CostPrice    float64
	ListPrice    float64
	IsAvailable  bool
	LeadTimeDays int
	LastSyncedAt time.Time
}

// CustomerSupplierAgreement is a blanket discount (and optional custom margin)
// a customer has negotiated with one supplier.
type CustomerSupplierAgreement struct {
	ID                 string
	Customer           string
	SupplierID         string
	DiscountPercentage float64
	MarginPercentage   float64
	HasCustomMargin    bool
}

// CustomerProductOverride pins an explicit price or discount for one supplier
// product for one customer. It outranks the supplier agreement.
type CustomerProductOverride struct {
	ID                 string
	Customer           string
	SupplierProductID  string
	CostPrice          float64
	HasCostPrice       bool
	DiscountPercentage float64
	HasDiscount        bool
}

// CatalogSnapshot is the immutable input of one calculation run. The catalog
// provider fills it completely up front; the engine never lazy-fetches.
type CatalogSnapshot struct {
	Nodes          map[string]*Node
	NodesByCode    map[string]*Node
	Variants       map[string][]Variant  // keyed by node id
	Materials      map[string][]Material // keyed by variant id
	Rules          map[string][]Rule     // keyed by node id, ascending sort order
	Profiles       map[string]BuildingProfile
	GlobalFactors  []GlobalFactor
	SupplierPrices map[string]SupplierPriceOverride // keyed by material id
}

// CalculationItemInput is one requested line of an estimate.
type CalculationItemInput struct {
	NodeID     string            `json:"node_id"`
	VariantID  string            `json:"variant_id"`
	Quantity   float64           `json:"quantity"`
	Conditions map[string]string `json:"conditions"`
}

// CalculatedItem is the engine's per-leaf output.
type CalculatedItem struct {
	NodeID              string   `json:"node_id"`
	VariantID           string   `json:"variant_id"`
	Quantity            float64  `json:"quantity"`
	ResolvedTimeSeconds float64  `json:"resolved_time_seconds"`
	MaterialCost        float64  `json:"material_cost"`
	MaterialSale        float64  `json:"material_sale"`
	LaborCost           float64  `json:"labor_cost"`
	LaborSale           float64  `json:"labor_sale"`
	RulesApplied        []string `json:"rules_applied"`
}

// TotalCost returns material plus labor cost for the item.
func (c CalculatedItem) TotalCost() float64 { return c.MaterialCost + c.LaborCost }

// TotalSale returns material plus labor sale for the item.
func (c CalculatedItem) TotalSale() float64 { return c.MaterialSale + c.LaborSale }
