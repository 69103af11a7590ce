// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package layout

import (
	stdctx "context"
	"log/slog"
	"strconv"

	"github.com/taibuivan/yardmap/internal/platform/apperr"
	"github.com/taibuivan/yardmap/internal/platform/constants"
	"github.com/taibuivan/yardmap/internal/platform/validate"
	"github.com/taibuivan/yardmap/internal/yard/grid"
	"github.com/taibuivan/yardmap/internal/yard/naming"
	"github.com/taibuivan/yardmap/pkg/slice"
)

// maxCategoryNameLength matches the column width of categories.name.
const maxCategoryNameLength = 255

// categoryDraft is a validated [CategoryInput].
type categoryDraft struct {
	name        string
	color       string
	direction   naming.Direction
	description *string
	cellIDs     []string
}

/*
validateCategory checks a create or update request before any storage access.

Returns:
  - categoryDraft: Normalized attributes with de-duplicated cell ids
  - error: ErrInvalidDirection when only the direction is wrong, otherwise a
    VALIDATION_ERROR listing every failed field
*/
func validateCategory(input CategoryInput) (categoryDraft, error) {
	draft := categoryDraft{
		name:        normalizeName(input.Name),
		color:       input.Color,
		description: input.Description,
		cellIDs:     slice.Unique(input.CellIDs),
	}

	direction, directionErr := naming.ParseDirection(input.Direction)
	draft.direction = direction

	_, malformed := grid.ParseAll(draft.cellIDs)

	v := &validate.Validator{}
	v.Required("name", draft.name).
		MaxLen("name", draft.name, maxCategoryNameLength).
		HexColor("color", draft.color).
		NotEmpty("cell_ids", len(draft.cellIDs))
	for _, id := range malformed {
		v.Custom("cell_ids", true, "Malformed cell id "+strconv.Quote(id))
	}

	if directionErr != nil {
		if !v.HasErrors() {
			return draft, directionErr
		}
		v.Custom("direction", true, apperr.As(directionErr).Details[0].Message)
	}

	return draft, v.Err()
}

// loadTargets fetches the requested cells, failing with NOT_FOUND when any is absent.
func loadTargets(context stdctx.Context, tx Tx, ids []string) ([]*Cell, error) {
	targets, err := tx.ListCells(context, CellFilter{IDs: ids})
	if err != nil {
		return nil, err
	}

	if missing := missingIDs(ids, targets); len(missing) > 0 {
		details := make([]apperr.FieldError, len(missing))
		for i, id := range missing {
			details[i] = apperr.FieldError{Field: "cell_ids", Message: id}
		}
		return nil, apperr.NotFound("Cell", details...)
	}
	return targets, nil
}

func ensureNameFree(context stdctx.Context, tx Tx, name string, excludeID int64) error {
	taken, err := tx.CategoryNameTaken(context, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("Category name already exists", apperr.FieldError{Field: "name", Message: name})
	}
	return nil
}

// # Category Mutations

/*
CreateCategory creates a category and assigns the selected cells to it.

Description: Validation runs first. Inside one unit of work the name must be free
and every cell must exist; the selected cells are then named and moved to the
new category. Cells owned by another category are claimed.

Parameters:
  - context: context.Context
  - input: CategoryInput (Attributes and the selected cell ids)

Returns:
  - *CategoryChange: Created category with its count and the assigned cells
  - error: VALIDATION_ERROR, INVALID_DIRECTION, CONFLICT, NOT_FOUND, or a storage failure
*/
func (service *Service) CreateCategory(context stdctx.Context, input CategoryInput) (*CategoryChange, error) {
	draft, err := validateCategory(input)
	if err != nil {
		return nil, err
	}

	change := &CategoryChange{}
	err = service.store.Atomic(context, func(context stdctx.Context, tx Tx) error {
		if err := ensureNameFree(context, tx, draft.name, 0); err != nil {
			return err
		}

		targets, err := loadTargets(context, tx, draft.cellIDs)
		if err != nil {
			return err
		}

		names, err := naming.Assign(draft.cellIDs, draft.name, draft.direction)
		if err != nil {
			return err
		}

		category := &Category{
			Name:        draft.name,
			Color:       draft.color,
			Direction:   draft.direction,
			Description: draft.description,
		}
		if err := tx.CreateCategory(context, category); err != nil {
			return err
		}

		change.Cells = reconcileMembership(category.ID, nil, targets, names)
		if err := tx.SaveCells(context, change.Cells); err != nil {
			return err
		}

		if category.CellsCount, err = tx.CountCells(context, category.ID); err != nil {
			return err
		}
		change.Category = category
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.metrics.ObserveCellsChanged("category_create", len(change.Cells))
	service.logger.InfoContext(context, "category_created",
		slog.Int64("category_id", change.Category.ID),
		slog.String("name", change.Category.Name),
		slog.Int("cells", len(change.Cells)),
	)
	service.notify(context, constants.ChannelCategories, EventCategoryCreated, change)

	return change, nil
}

/*
UpdateCategory replaces a category's attributes and its full cell membership.

Description: Names are recomputed for the new membership with the (possibly changed)
name and direction. Cells the category owned but no longer lists are released; every
listed cell is assigned. The category attributes are persisted in the same unit of work.

Parameters:
  - context: context.Context
  - id: int64 (Category to update)
  - input: CategoryInput (New attributes and the complete new cell set)

Returns:
  - *CategoryChange: Updated category with a fresh count, plus released and assigned cells
  - error: NOT_FOUND for an unknown category or cell, plus the create failures
*/
func (service *Service) UpdateCategory(context stdctx.Context, id int64, input CategoryInput) (*CategoryChange, error) {
	draft, err := validateCategory(input)
	if err != nil {
		return nil, err
	}

	change := &CategoryChange{}
	err = service.store.Atomic(context, func(context stdctx.Context, tx Tx) error {
		category, err := tx.FindCategory(context, id)
		if err != nil {
			return err
		}

		if err := ensureNameFree(context, tx, draft.name, id); err != nil {
			return err
		}

		targets, err := loadTargets(context, tx, draft.cellIDs)
		if err != nil {
			return err
		}

		owned, err := tx.ListCells(context, CellFilter{CategoryID: &id})
		if err != nil {
			return err
		}

		names, err := naming.Assign(draft.cellIDs, draft.name, draft.direction)
		if err != nil {
			return err
		}

		change.Cells = reconcileMembership(id, owned, targets, names)
		if err := tx.SaveCells(context, change.Cells); err != nil {
			return err
		}

		category.Name = draft.name
		category.Color = draft.color
		category.Direction = draft.direction
		category.Description = draft.description
		if err := tx.UpdateCategory(context, category); err != nil {
			return err
		}

		if category.CellsCount, err = tx.CountCells(context, id); err != nil {
			return err
		}
		change.Category = category
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.metrics.ObserveCellsChanged("category_update", len(change.Cells))
	service.logger.InfoContext(context, "category_updated",
		slog.Int64("category_id", id),
		slog.String("name", change.Category.Name),
		slog.Int("cells", len(change.Cells)),
	)
	service.notify(context, constants.ChannelMapLayout, EventCategoryUpdated, change)

	return change, nil
}

/*
DeleteCategory releases every cell of a category and removes it.

Returns:
  - *CategoryRemoval: The deleted id and the released cells
  - error: NOT_FOUND for an unknown category, or a storage failure
*/
func (service *Service) DeleteCategory(context stdctx.Context, id int64) (*CategoryRemoval, error) {
	removal := &CategoryRemoval{CategoryID: id}

	err := service.store.Atomic(context, func(context stdctx.Context, tx Tx) error {
		if _, err := tx.FindCategory(context, id); err != nil {
			return err
		}

		owned, err := tx.ListCells(context, CellFilter{CategoryID: &id})
		if err != nil {
			return err
		}

		removal.Cells = releaseAll(owned)
		if err := tx.SaveCells(context, removal.Cells); err != nil {
			return err
		}

		return tx.DeleteCategory(context, id)
	})
	if err != nil {
		return nil, err
	}

	service.metrics.ObserveCellsChanged("category_delete", len(removal.Cells))
	service.logger.InfoContext(context, "category_deleted",
		slog.Int64("category_id", id),
		slog.Int("cells", len(removal.Cells)),
	)
	service.notify(context, constants.ChannelMapLayout, EventCategoryDeleted, removal)

	return removal, nil
}
