// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package layout owns the yard map: its bounds, its cells, and the categories that
group them.

# Operations

  - Category create, update, and delete, which reconcile cell ownership and names.
  - Resize, which grows or shrinks the grid while preserving in-bounds cells.

Every mutation runs as one serialized unit of work through [Store.Atomic] and is
broadcast only after it commits.

# Invariant

A cell is selected exactly when it carries both a category and a name. Inactive cells
carry neither.
*/
package layout

import (
	"time"

	"github.com/taibuivan/yardmap/internal/yard/grid"
	"github.com/taibuivan/yardmap/internal/yard/naming"
)

// # Cell

// CellStatus is the selection state of a cell.
type CellStatus string

const (
	// StatusInactive marks a cell that belongs to no category.
	StatusInactive CellStatus = "inactive"

	// StatusSelected marks a cell owned by exactly one category.
	StatusSelected CellStatus = "selected"
)

// Cell is one unit square of the yard.
type Cell struct {
	ID         string     `json:"cell_id"`
	Status     CellStatus `json:"status"`
	CategoryID *int64     `json:"category_id"`
	Name       *string    `json:"name"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Coord returns the parsed position. A malformed id yields the zero [grid.Coord],
// which lies outside every grid and sorts first.
func (cell *Cell) Coord() grid.Coord {
	coord, err := grid.Parse(cell.ID)
	if err != nil {
		return grid.Coord{}
	}
	return coord
}

// Consistent reports whether the cell satisfies the selection invariant.
func (cell *Cell) Consistent() bool {
	switch cell.Status {
	case StatusSelected:
		return cell.CategoryID != nil && cell.Name != nil
	case StatusInactive:
		return cell.CategoryID == nil && cell.Name == nil
	default:
		return false
	}
}

// # Category

// Category is a named, colored, directional group of cells.
type Category struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Color       string           `json:"color"`
	Direction   naming.Direction `json:"direction"`
	Description *string          `json:"description"`

	// CellsCount is computed from the cell side on every read.
	CellsCount int       `json:"cells_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CategoryInput carries the attributes of a create or update request.
type CategoryInput struct {
	Name        string   `json:"name"`
	Color       string   `json:"color"`
	Direction   string   `json:"direction"`
	Description *string  `json:"description"`
	CellIDs     []string `json:"cell_ids"`
}

// # Dimension

// Dimension holds the current grid bounds.
type Dimension struct {
	MapLength int       `json:"map_length"`
	MapWidth  int       `json:"map_width"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Operation Results

// Snapshot is the full map as served to the editor.
type Snapshot struct {
	// Dimension is nil before the grid is first configured.
	Dimension  *Dimension  `json:"dimension"`
	Categories []*Category `json:"categories"`
	Cells      []*Cell     `json:"cells"`
}

// CategoryChange is the outcome of a create or update: the category with a fresh
// count, and every cell the operation touched.
type CategoryChange struct {
	Category *Category `json:"category"`
	Cells    []*Cell   `json:"cells"`
}

// CategoryRemoval is the outcome of a delete.
type CategoryRemoval struct {
	CategoryID int64   `json:"category_id"`
	Cells      []*Cell `json:"cells"`
}

// ResizeResult is the outcome of a resize.
type ResizeResult struct {
	MapLength int  `json:"map_length"`
	MapWidth  int  `json:"map_width"`
	Changed   bool `json:"changed"`

	CreatedCells        int      `json:"created_cells"`
	RemovedCellIDs      []string `json:"removed_cell_ids"`
	AffectedCategoryIDs []int64  `json:"affected_category_ids"`
}

// # Broadcast Events

const (
	EventCategoryCreated   = "CategoryCreated"
	EventCategoryUpdated   = "CategoryUpdated"
	EventCategoryDeleted   = "CategoryDeleted"
	EventDimensionsUpdated = "DimensionsUpdated"
)

// DimensionsEvent is the payload of [EventDimensionsUpdated].
type DimensionsEvent struct {
	MapLength           int      `json:"map_length"`
	MapWidth            int      `json:"map_width"`
	RemovedCellIDs      []string `json:"removed_cell_ids,omitempty"`
	AffectedCategoryIDs []int64  `json:"affected_category_ids,omitempty"`
}
