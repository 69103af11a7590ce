// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package layout

import (
	"github.com/taibuivan/yardmap/pkg/pointer"
)

// # Reconciliation

// assign marks cell as owned by categoryID under the given name.
func assign(cell *Cell, categoryID int64, name string) {
	cell.Status = StatusSelected
	cell.CategoryID = pointer.To(categoryID)
	cell.Name = pointer.To(name)
}

// release returns cell to the unassigned state.
func release(cell *Cell) {
	cell.Status = StatusInactive
	cell.CategoryID = nil
	cell.Name = nil
}

/*
reconcileMembership computes the new state of every cell touched by a category whose
membership becomes exactly the keys of names.

Parameters:
  - categoryID: int64 (The owning category)
  - owned: []*Cell (Cells the category owns before the change)
  - targets: []*Cell (Cells of the new membership, one per key of names)
  - names: map[string]string (Generated name per target cell id)

Returns:
  - []*Cell: The released cells followed by the assigned cells, ready to save
*/
func reconcileMembership(categoryID int64, owned, targets []*Cell, names map[string]string) []*Cell {
	changed := make([]*Cell, 0, len(owned)+len(targets))

	for _, cell := range owned {
		if _, kept := names[cell.ID]; kept {
			continue
		}
		release(cell)
		changed = append(changed, cell)
	}

	for _, cell := range targets {
		assign(cell, categoryID, names[cell.ID])
		changed = append(changed, cell)
	}

	return changed
}

// releaseAll unassigns every cell of a category being deleted.
func releaseAll(owned []*Cell) []*Cell {
	for _, cell := range owned {
		release(cell)
	}
	return owned
}

// missingIDs returns the requested ids absent from found, in request order.
func missingIDs(requested []string, found []*Cell) []string {
	present := make(map[string]struct{}, len(found))
	for _, cell := range found {
		present[cell.ID] = struct{}{}
	}

	var missing []string
	for _, id := range requested {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
