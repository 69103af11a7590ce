// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package layout

import (
	"github.com/taibuivan/yardmap/internal/yard/grid"
)

// # Resize Planning

// resizePlan is the storage work needed to move the grid to new bounds.
type resizePlan struct {
	// changed is true when the dimension record must be written (and broadcast).
	changed bool

	// insert lists candidate coordinates for new cells; existing ones are skipped by storage.
	insert []grid.Coord

	// shrink is set when cells beyond the new bounds must be removed.
	shrink bool
}

/*
planResize derives the resize work from the previous and the requested bounds.

Description: A missing previous dimension is first-time initialization and
materializes the whole grid. Otherwise growth along l adds the full new rows
(l in (oldL, newL], every w up to newW), growth along w adds the new columns for the
rows that already existed, and any shrink removes everything out of bounds.
*/
func planResize(previous *Dimension, length, width int) resizePlan {
	if previous == nil {
		return resizePlan{
			changed: true,
			insert:  grid.Rect(1, length, 1, width),
		}
	}

	oldLength, oldWidth := previous.MapLength, previous.MapWidth
	plan := resizePlan{
		changed: length != oldLength || width != oldWidth,
		shrink:  length < oldLength || width < oldWidth,
	}

	if length > oldLength {
		plan.insert = append(plan.insert, grid.Rect(oldLength+1, length, 1, width)...)
	}
	if width > oldWidth {
		plan.insert = append(plan.insert, grid.Rect(1, min(oldLength, length), oldWidth+1, width)...)
	}

	return plan
}
