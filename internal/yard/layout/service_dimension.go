// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package layout

import (
	stdctx "context"
	"log/slog"
	"slices"

	"github.com/taibuivan/yardmap/internal/platform/constants"
	"github.com/taibuivan/yardmap/internal/platform/validate"
	"github.com/taibuivan/yardmap/pkg/slice"
)

// # Grid Resize

/*
Resize moves the grid to new bounds.

Description: The first call materializes the whole grid. Later calls insert the cells
that come into bounds and hard-delete the ones that fall out, whatever their category.
Cells that stay in bounds keep their state. Repeating the current bounds changes
nothing and broadcasts nothing.

Parameters:
  - context: context.Context
  - length: int (New map_length, 1..Limits.MaxLength)
  - width: int (New map_width, 1..Limits.MaxWidth)

Returns:
  - *ResizeResult: New bounds, whether they changed, created and removed cells, and the
    categories that lost cells
  - error: VALIDATION_ERROR for out-of-range bounds, or a storage failure
*/
func (service *Service) Resize(context stdctx.Context, length, width int) (*ResizeResult, error) {
	v := &validate.Validator{}
	if err := v.Range("map_length", length, 1, service.limits.MaxLength).
		Range("map_width", width, 1, service.limits.MaxWidth).
		Err(); err != nil {
		return nil, err
	}

	result := &ResizeResult{MapLength: length, MapWidth: width}

	err := service.store.Atomic(context, func(context stdctx.Context, tx Tx) error {
		previous, err := tx.LoadDimension(context)
		if err != nil {
			return err
		}

		plan := planResize(previous, length, width)
		if !plan.changed {
			return nil
		}
		result.Changed = true

		if err := tx.SaveDimension(context, Dimension{MapLength: length, MapWidth: width}); err != nil {
			return err
		}

		if result.CreatedCells, err = tx.InsertCells(context, plan.insert); err != nil {
			return err
		}

		if !plan.shrink {
			return nil
		}

		outside, err := tx.ListCells(context, CellFilter{Outside: &Dimension{MapLength: length, MapWidth: width}})
		if err != nil {
			return err
		}

		result.RemovedCellIDs = slice.Map(outside, func(cell *Cell) string { return cell.ID })

		assigned := slice.Filter(outside, func(cell *Cell) bool { return cell.CategoryID != nil })
		result.AffectedCategoryIDs = slice.Unique(slice.Map(assigned, func(cell *Cell) int64 { return *cell.CategoryID }))
		slices.Sort(result.AffectedCategoryIDs)

		_, err = tx.DeleteCells(context, result.RemovedCellIDs)
		return err
	})
	if err != nil {
		return nil, err
	}

	if result.AffectedCategoryIDs == nil {
		result.AffectedCategoryIDs = []int64{}
	}
	if result.RemovedCellIDs == nil {
		result.RemovedCellIDs = []string{}
	}

	if !result.Changed {
		service.logger.DebugContext(context, "dimensions_unchanged",
			slog.Int("map_length", length),
			slog.Int("map_width", width),
		)
		return result, nil
	}

	service.metrics.ObserveCellsChanged("resize_insert", result.CreatedCells)
	service.metrics.ObserveCellsChanged("resize_delete", len(result.RemovedCellIDs))
	service.logger.InfoContext(context, "dimensions_resized",
		slog.Int("map_length", length),
		slog.Int("map_width", width),
		slog.Int("created_cells", result.CreatedCells),
		slog.Int("removed_cells", len(result.RemovedCellIDs)),
	)
	service.notify(context, constants.ChannelMapLayout, EventDimensionsUpdated, DimensionsEvent{
		MapLength:           length,
		MapWidth:            width,
		RemovedCellIDs:      result.RemovedCellIDs,
		AffectedCategoryIDs: result.AffectedCategoryIDs,
	})

	return result, nil
}
