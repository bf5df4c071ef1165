package services

// ExpandComposite recursively expands a composite (or group) node into the
// flat list of calculated leaf items it is assembled from. The visited set is
// path-scoped: a node id is present only while its subtree is being expanded,
// so shared sub-assemblies (a legal DAG) price fine while any true cycle fails
// fast with the full offending path.
func ExpandComposite(snap *CatalogSnapshot, node *Node, quantity float64, conditions map[string]string, visited map[string]bool, path []string, ctx CalculationContext) ([]CalculatedItem, []Warning, error) {
	if quantity <= 0 {
		return nil, nil, &ValidationError{Field: "quantity", Reason: "must be greater than zero"}
	}

	visited[node.ID] = true
	defer delete(visited, node.ID)
	path = append(path, node.ID)

	var items []CalculatedItem
	var warnings []Warning

	for _, child := range node.Children {
		if visited[child.ChildNodeID] {
			return nil, nil, &CyclicReferenceError{Path: append(path, child.ChildNodeID)}
		}

		childNode, ok := snap.Nodes[child.ChildNodeID]
		if !ok {
			return nil, nil, &NotFoundError{Kind: "node", ID: child.ChildNodeID}
		}

		effectiveQty := quantity * child.QuantityMultiplier
		if effectiveQty <= 0 {
			warnings = append(warnings, Warning{
				NodeID:  childNode.ID,
				Message: "composite child skipped: zero effective quantity",
			})
			continue
		}

		switch childNode.Type {
		case NodeTypeOperation:
			input := CalculationItemInput{
				NodeID:     childNode.ID,
				Quantity:   effectiveQty,
				Conditions: conditions,
			}
			item, w, err := CalculateItem(childNode, snap.Variants[childNode.ID], snap.Materials, snap.Rules[childNode.ID], input, ctx)
			if err != nil {
				return nil, nil, err
			}
			items = append(items, item)
			warnings = append(warnings, w...)

		case NodeTypeComposite, NodeTypeGroup:
			// Groups contribute nothing themselves; their children are
			// still visited.
			sub, w, err := ExpandComposite(snap, childNode, effectiveQty, conditions, visited, path, ctx)
			if err != nil {
				return nil, nil, err
			}
			items = append(items, sub...)
			warnings = append(warnings, w...)

		default:
			warnings = append(warnings, Warning{
				NodeID:  childNode.ID,
				Message: "composite child skipped: unknown node type " + string(childNode.Type),
			})
		}
	}

	return items, warnings, nil
}
