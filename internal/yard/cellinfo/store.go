// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cellinfo

import "context"

// Repository persists container records.
type Repository interface {
	List(context context.Context) ([]*Info, error)

	// FindByCell returns NOT_FOUND when the cell carries no record.
	FindByCell(context context.Context, cellID string) (*Info, error)

	// CellExists reports whether the cell is on the grid.
	CellExists(context context.Context, cellID string) (bool, error)

	// Create fails with CONFLICT when the cell already carries a record.
	Create(context context.Context, info *Info) error

	// Update rewrites the record of info.CellID; NOT_FOUND when absent.
	Update(context context.Context, info *Info) error

	// Delete removes the record of the cell; NOT_FOUND when absent.
	Delete(context context.Context, cellID string) error

	// Move re-homes the record of from onto to in one unit of work.
	Move(context context.Context, from, to string) (*Info, error)
}
