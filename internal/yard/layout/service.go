// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package layout

import (
	stdctx "context"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/yardmap/internal/platform/broadcast"
	"github.com/taibuivan/yardmap/internal/platform/constants"
	"github.com/taibuivan/yardmap/internal/platform/metrics"
)

// # Service Layer

// Limits bounds the grid accepted by [Service.Resize].
type Limits struct {
	MaxLength int
	MaxWidth  int
}

// Service orchestrates the layout use cases: reconciling categories against cells
// and resizing the grid.
type Service struct {
	store     Store
	publisher broadcast.Publisher
	metrics   *metrics.Registry
	limits    Limits
	logger    *slog.Logger
}

// NewService constructs a new [Service] with its collaborators.
//
// publisher and registry may be nil; broadcasting and counting are then skipped.
func NewService(store Store, publisher broadcast.Publisher, registry *metrics.Registry, limits Limits, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		metrics:   registry,
		limits:    limits,
		logger:    logger,
	}
}

// # Layout Lookups

/*
Snapshot reads the whole map in one consistent view.

Returns:
  - *Snapshot: Dimension (nil before first configuration), categories with live counts, all cells
  - error: Storage failures
*/
func (service *Service) Snapshot(context stdctx.Context) (*Snapshot, error) {
	snapshot := &Snapshot{}

	err := service.store.View(context, func(context stdctx.Context, tx Tx) error {
		var err error
		if snapshot.Dimension, err = tx.LoadDimension(context); err != nil {
			return err
		}
		if snapshot.Categories, err = tx.ListCategories(context); err != nil {
			return err
		}
		snapshot.Cells, err = tx.ListCells(context, CellFilter{})
		return err
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// ListCategories returns every category with its live cell count.
func (service *Service) ListCategories(context stdctx.Context) ([]*Category, error) {
	var categories []*Category
	err := service.store.View(context, func(context stdctx.Context, tx Tx) error {
		var err error
		categories, err = tx.ListCategories(context)
		return err
	})
	return categories, err
}

/*
IsNameUnique reports whether name is free for a category.

Parameters:
  - context: context.Context
  - name: string (Candidate name, normalized the same way as on save)
  - excludeID: int64 (Category being edited; 0 for a new one)
*/
func (service *Service) IsNameUnique(context stdctx.Context, name string, excludeID int64) (bool, error) {
	var taken bool
	err := service.store.View(context, func(context stdctx.Context, tx Tx) error {
		var err error
		taken, err = tx.CategoryNameTaken(context, normalizeName(name), excludeID)
		return err
	})
	return !taken, err
}

// # Helpers

// normalizeName trims and NFC-normalizes a category name so visually identical
// names collide on the uniqueness check.
func normalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// notify publishes a committed change without letting the request's cancellation
// or a slow broker hold the response.
func (service *Service) notify(ctx stdctx.Context, channel, event string, payload any) {
	publishCtx, cancel := stdctx.WithTimeout(stdctx.WithoutCancel(ctx), constants.BroadcastTimeout)
	defer cancel()

	broadcast.Notify(publishCtx, service.publisher, service.metrics, service.logger, channel, event, payload)
}
