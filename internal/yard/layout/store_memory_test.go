// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package layout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yardmap/internal/yard/grid"
	"github.com/taibuivan/yardmap/internal/yard/layout"
	"github.com/taibuivan/yardmap/pkg/pointer"
)

func listCells(t *testing.T, store *layout.MemoryStore) []*layout.Cell {
	t.Helper()
	var cells []*layout.Cell
	err := store.View(context.Background(), func(context context.Context, tx layout.Tx) error {
		var err error
		cells, err = tx.ListCells(context, layout.CellFilter{})
		return err
	})
	require.NoError(t, err)
	return cells
}

/*
TestMemoryStore_AtomicDiscardsFailedUnit checks a failing unit of work leaves no trace.
*/
func TestMemoryStore_AtomicDiscardsFailedUnit(t *testing.T) {
	store := layout.NewMemoryStore()

	err := store.Atomic(context.Background(), func(context context.Context, tx layout.Tx) error {
		_, err := tx.InsertCells(context, grid.Rect(1, 1, 1, 2))
		return err
	})
	require.NoError(t, err)

	errAbort := errors.New("abort")
	err = store.Atomic(context.Background(), func(context context.Context, tx layout.Tx) error {
		cells, err := tx.ListCells(context, layout.CellFilter{})
		if err != nil {
			return err
		}
		for _, cell := range cells {
			cell.Status = layout.StatusSelected
			cell.Name = pointer.To("A1_T1")
		}
		if err := tx.SaveCells(context, cells); err != nil {
			return err
		}
		if _, err := tx.InsertCells(context, []grid.Coord{{L: 2, W: 1}}); err != nil {
			return err
		}
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	cells := listCells(t, store)
	require.Len(t, cells, 2)
	for _, cell := range cells {
		assert.Equal(t, layout.StatusInactive, cell.Status, cell.ID)
		assert.Nil(t, cell.Name, cell.ID)
	}
}

/*
TestMemoryStore_ViewIsReadOnly rejects writes from a read-only unit.
*/
func TestMemoryStore_ViewIsReadOnly(t *testing.T) {
	store := layout.NewMemoryStore()

	err := store.View(context.Background(), func(context context.Context, tx layout.Tx) error {
		_, err := tx.InsertCells(context, grid.Rect(1, 1, 1, 1))
		return err
	})
	require.Error(t, err)
	assert.Empty(t, listCells(t, store))
}
