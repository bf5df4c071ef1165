package services

import (
	"fmt"
	"strings"
)

// ValidationError reports malformed or out-of-range numeric input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a referenced record missing from the supplied snapshot.
type NotFoundError struct {
	Kind string // "node", "variant", "building profile"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found in snapshot", e.Kind, e.ID)
}

// CyclicReferenceError reports a cycle in the composite node graph. Path holds
// the node ids along the offending chain, ending with the repeated id.
type CyclicReferenceError struct {
	Path []string
}

func (e *CyclicReferenceError) Error() string {
	return fmt.Sprintf("composite cycle detected: %s", strings.Join(e.Path, " -> "))
}

// SupplierResolutionError reports that one level of the supplier price chain
// could not be used for a material. It is recoverable: resolution falls back
// to the next-lowest-priority source and the error surfaces as a warning.
type SupplierResolutionError struct {
	MaterialID string
	Source     PriceSource
	Reason     string
}

func (e *SupplierResolutionError) Error() string {
	return fmt.Sprintf("supplier price for material %q (%s): %s", e.MaterialID, e.Source, e.Reason)
}

// Warning is a non-fatal issue recovered during a calculation run. Warnings
// are attached to the result, never silently dropped.
type Warning struct {
	NodeID     string `json:"node_id,omitempty"`
	RuleID     string `json:"rule_id,omitempty"`
	MaterialID string `json:"material_id,omitempty"`
	Message    string `json:"message"`
}
