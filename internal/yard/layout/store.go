// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package layout

import (
	"context"

	"github.com/taibuivan/yardmap/internal/yard/grid"
)

// # Storage Contract

// Store runs units of work against the layout storage.
//
// Atomic units are serialized across the whole grid: two concurrent calls never
// observe each other's partial writes. When fn returns an error nothing it wrote
// becomes visible.
type Store interface {
	Atomic(context context.Context, fn func(context context.Context, tx Tx) error) error
	View(context context.Context, fn func(context context.Context, tx Tx) error) error
	Ping(context context.Context) error
}

// Tx is the set of operations available inside a unit of work.
//
// Cells and categories returned by Tx are copies; mutations reach storage only
// through the save methods.
type Tx interface {
	// LoadDimension returns nil when the grid has never been configured.
	LoadDimension(context context.Context) (*Dimension, error)
	SaveDimension(context context.Context, dimension Dimension) error

	// ListCells returns cells ordered by (l, w).
	ListCells(context context.Context, filter CellFilter) ([]*Cell, error)

	// InsertCells creates inactive cells, skipping coordinates that already exist.
	// It returns how many were created.
	InsertCells(context context.Context, coords []grid.Coord) (int, error)

	// SaveCells writes status, category, and name of existing cells.
	SaveCells(context context.Context, cells []*Cell) error

	// DeleteCells hard-deletes cells and returns how many were removed.
	DeleteCells(context context.Context, ids []string) (int, error)

	// FindCategory returns NOT_FOUND when the id is unknown.
	FindCategory(context context.Context, id int64) (*Category, error)
	ListCategories(context context.Context) ([]*Category, error)

	// CategoryNameTaken ignores the category with excludeID (0 excludes nothing).
	CategoryNameTaken(context context.Context, name string, excludeID int64) (bool, error)

	// CreateCategory assigns ID and timestamps on the passed category.
	CreateCategory(context context.Context, category *Category) error
	UpdateCategory(context context.Context, category *Category) error
	DeleteCategory(context context.Context, id int64) error

	CountCells(context context.Context, categoryID int64) (int, error)
}

// CellFilter narrows [Tx.ListCells]. Set fields combine with AND; a zero filter
// matches every cell.
type CellFilter struct {
	// IDs restricts to the given cell ids.
	IDs []string

	// CategoryID restricts to cells owned by the category.
	CategoryID *int64

	// Outside restricts to cells beyond the bounds (l > MapLength or w > MapWidth).
	Outside *Dimension
}

// matches evaluates the filter in memory.
func (filter CellFilter) matches(cell *Cell, ids map[string]struct{}) bool {
	if filter.IDs != nil {
		if _, ok := ids[cell.ID]; !ok {
			return false
		}
	}
	if filter.CategoryID != nil {
		if cell.CategoryID == nil || *cell.CategoryID != *filter.CategoryID {
			return false
		}
	}
	if filter.Outside != nil {
		if cell.Coord().Within(filter.Outside.MapLength, filter.Outside.MapWidth) {
			return false
		}
	}
	return true
}
