package store

// ApplySelectionDelta reconciles an existing, operator-arranged ordering
// with a changed selection set.
//
// IDs from currentOrder that are still selected keep their relative order;
// newly selected IDs are appended in the order the selection reports them.
// A naive re-sort by selection order would discard manual reordering every
// time the selection grows or shrinks by one entry, so only the minimal
// edit is made. Within one call each ID appears at most once in the result.
//
// The result becomes the new config.middlewares value for a chain
// middleware, or the assignment order for per-resource middleware
// priorities.
func ApplySelectionDelta(currentOrder []string, selection []string) []string {
	selected := make(map[string]bool, len(selection))
	for _, id := range selection {
		selected[id] = true
	}

	next := make([]string, 0, len(selection))
	kept := make(map[string]bool, len(selection))

	// Keep the prior arrangement for IDs that remain selected.
	for _, id := range currentOrder {
		if selected[id] && !kept[id] {
			next = append(next, id)
			kept[id] = true
		}
	}

	// Append additions in the order the selection widget reports them.
	for _, id := range selection {
		if !kept[id] {
			next = append(next, id)
			kept[id] = true
		}
	}

	return next
}
