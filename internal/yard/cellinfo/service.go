// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cellinfo

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/yardmap/internal/platform/apperr"
	"github.com/taibuivan/yardmap/internal/platform/broadcast"
	"github.com/taibuivan/yardmap/internal/platform/constants"
	"github.com/taibuivan/yardmap/internal/platform/metrics"
	"github.com/taibuivan/yardmap/internal/platform/validate"
	"github.com/taibuivan/yardmap/internal/yard/grid"
)

// # Service Layer

// Service coordinates container record use cases and their broadcasts.
type Service struct {
	repository Repository
	publisher  broadcast.Publisher
	metrics    *metrics.Registry
	logger     *slog.Logger
}

// NewService constructs a new [Service]. publisher and registry may be nil.
func NewService(repository Repository, publisher broadcast.Publisher, registry *metrics.Registry, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		publisher:  publisher,
		metrics:    registry,
		logger:     logger,
	}
}

// List returns every record ordered by creation.
func (service *Service) List(context context.Context) ([]*Info, error) {
	return service.repository.List(context)
}

// Get returns the record of one cell.
func (service *Service) Get(context context.Context, cellID string) (*Info, error) {
	return service.repository.FindByCell(context, cellID)
}

/*
Create attaches a container record to a cell.

Returns:
  - *Info: The stored record
  - error: VALIDATION_ERROR, NOT_FOUND when the cell is not on the grid, CONFLICT when
    the cell already carries a record
*/
func (service *Service) Create(context context.Context, input Input) (*Info, error) {
	info, err := validateInput(input)
	if err != nil {
		return nil, err
	}

	exists, err := service.repository.CellExists(context, info.CellID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errCellNotFound(info.CellID)
	}

	if err := service.repository.Create(context, info); err != nil {
		if apperr.HasCode(err, "CONFLICT") {
			return nil, errCellOccupied(info.CellID)
		}
		return nil, err
	}

	service.logger.InfoContext(context, "cell_info_created",
		slog.String("cell_id", info.CellID),
		slog.String("shipping_line", info.ShippingLine),
	)
	service.notify(context, EventCreated, InfoEvent{CellInfo: info})
	return info, nil
}

// Update rewrites the record of cellID. The cell id in input is ignored.
func (service *Service) Update(context context.Context, cellID string, input Input) (*Info, error) {
	input.CellID = cellID
	info, err := validateInput(input)
	if err != nil {
		return nil, err
	}

	if err := service.repository.Update(context, info); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "cell_info_updated", slog.String("cell_id", info.CellID))
	service.notify(context, EventUpdated, InfoEvent{CellInfo: info})
	return info, nil
}

// Delete removes the record of cellID.
func (service *Service) Delete(context context.Context, cellID string) error {
	if err := service.repository.Delete(context, cellID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "cell_info_deleted", slog.String("cell_id", cellID))
	service.notify(context, EventDeleted, DeletedEvent{CellID: cellID})
	return nil
}

/*
Move re-homes a record from one cell to another.

Description: Clients see the move as the target gaining the record followed by the
source losing it, so an Updated event for the target precedes a Deleted event for
the source.

Returns:
  - *Info: The record under its new cell
  - error: VALIDATION_ERROR for identical or malformed ids, NOT_FOUND, CONFLICT
*/
func (service *Service) Move(context context.Context, input MoveInput) (*Info, error) {
	from, to := strings.TrimSpace(input.FromCellID), strings.TrimSpace(input.ToCellID)

	v := &validate.Validator{}
	v.Required("from_cell_id", from).
		Required("to_cell_id", to).
		Custom("to_cell_id", from != "" && from == to, "Must differ from from_cell_id")
	if from != "" {
		_, err := grid.Parse(from)
		v.Custom("from_cell_id", err != nil, "Malformed cell id")
	}
	if to != "" {
		_, err := grid.Parse(to)
		v.Custom("to_cell_id", err != nil, "Malformed cell id")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	moved, err := service.repository.Move(context, from, to)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "cell_info_moved",
		slog.String("from_cell_id", from),
		slog.String("to_cell_id", to),
	)
	service.notify(context, EventUpdated, InfoEvent{CellInfo: moved})
	service.notify(context, EventDeleted, DeletedEvent{CellID: from})
	return moved, nil
}

// # Helpers

// validateInput checks a request against the closed vocabularies and applies the
// default condition.
func validateInput(input Input) (*Info, error) {
	info := &Info{
		CellID:       strings.TrimSpace(input.CellID),
		ShippingLine: strings.TrimSpace(input.ShippingLine),
		Size:         strings.TrimSpace(input.Size),
		Type:         strings.TrimSpace(input.Type),
		CellStatus:   strings.TrimSpace(input.CellStatus),
	}
	if info.CellStatus == "" {
		info.CellStatus = StatusAvailable
	}

	v := &validate.Validator{}
	v.Required("cell_id", info.CellID)
	if info.CellID != "" {
		_, err := grid.Parse(info.CellID)
		v.Custom("cell_id", err != nil, "Malformed cell id")
	}
	v.OneOf("shipping_line", info.ShippingLine, ShippingLines...).
		OneOf("size", info.Size, Sizes...).
		OneOf("type", info.Type, Types...).
		OneOf("cell_status", info.CellStatus, Statuses...)

	return info, v.Err()
}

func (service *Service) notify(ctx context.Context, event string, payload any) {
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.BroadcastTimeout)
	defer cancel()
	broadcast.Notify(publishCtx, service.publisher, service.metrics, service.logger, constants.ChannelCellsInformation, event, payload)
}
