// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package layout

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/yardmap/internal/platform/apperr"
	"github.com/taibuivan/yardmap/internal/yard/grid"
	"github.com/taibuivan/yardmap/pkg/slice"
)

var errReadOnly = errors.New("layout: write attempted in a read-only view")

// memoryState is the full layout held by [MemoryStore].
type memoryState struct {
	dimension  *Dimension
	cells      map[string]*Cell
	categories map[int64]*Category
	nextID     int64
}

func (state *memoryState) clone() *memoryState {
	copied := &memoryState{
		cells:      make(map[string]*Cell, len(state.cells)),
		categories: make(map[int64]*Category, len(state.categories)),
		nextID:     state.nextID,
	}
	if state.dimension != nil {
		dimension := *state.dimension
		copied.dimension = &dimension
	}
	for id, cell := range state.cells {
		copied.cells[id] = cloneCell(cell)
	}
	for id, category := range state.categories {
		copied.categories[id] = cloneCategory(category)
	}
	return copied
}

func cloneCell(cell *Cell) *Cell {
	copied := *cell
	if cell.CategoryID != nil {
		categoryID := *cell.CategoryID
		copied.CategoryID = &categoryID
	}
	if cell.Name != nil {
		name := *cell.Name
		copied.Name = &name
	}
	return &copied
}

func cloneCategory(category *Category) *Category {
	copied := *category
	if category.Description != nil {
		description := *category.Description
		copied.Description = &description
	}
	return &copied
}

// # Memory Store

// MemoryStore is an in-process [Store] for single-node runs and tests.
//
// Atomic units run against a cloned state under a mutex; the clone replaces the
// live state only when the unit succeeds.
type MemoryStore struct {
	mu    sync.RWMutex
	state *memoryState
	nowFn func() time.Time
}

// NewMemoryStore returns an empty, unconfigured layout.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		state: &memoryState{
			cells:      make(map[string]*Cell),
			categories: make(map[int64]*Category),
		},
		nowFn: func() time.Time { return time.Now().UTC() },
	}
}

// Atomic implements [Store].
func (store *MemoryStore) Atomic(context context.Context, fn func(context context.Context, tx Tx) error) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := context.Err(); err != nil {
		return err
	}

	tx := &memoryTx{state: store.state.clone(), now: store.nowFn()}
	if err := fn(context, tx); err != nil {
		return err
	}

	store.state = tx.state
	return nil
}

// View implements [Store].
func (store *MemoryStore) View(context context.Context, fn func(context context.Context, tx Tx) error) error {
	store.mu.RLock()
	defer store.mu.RUnlock()

	return fn(context, &memoryTx{state: store.state, now: store.nowFn(), readOnly: true})
}

// Ping implements [Store].
func (store *MemoryStore) Ping(context.Context) error { return nil }

// CellExists reports whether a cell id is currently on the grid.
func (store *MemoryStore) CellExists(_ context.Context, id string) (bool, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	_, ok := store.state.cells[id]
	return ok, nil
}

// # Memory Transaction

type memoryTx struct {
	state    *memoryState
	now      time.Time
	readOnly bool
}

func (tx *memoryTx) writable() error {
	if tx.readOnly {
		return errReadOnly
	}
	return nil
}

func (tx *memoryTx) LoadDimension(context.Context) (*Dimension, error) {
	if tx.state.dimension == nil {
		return nil, nil
	}
	dimension := *tx.state.dimension
	return &dimension, nil
}

func (tx *memoryTx) SaveDimension(_ context.Context, dimension Dimension) error {
	if err := tx.writable(); err != nil {
		return err
	}
	dimension.UpdatedAt = tx.now
	tx.state.dimension = &dimension
	return nil
}

func (tx *memoryTx) ListCells(_ context.Context, filter CellFilter) ([]*Cell, error) {
	ids := slice.Set(filter.IDs)

	cells := make([]*Cell, 0)
	for _, cell := range tx.state.cells {
		if filter.matches(cell, ids) {
			cells = append(cells, cloneCell(cell))
		}
	}

	slices.SortFunc(cells, func(a, b *Cell) int { return grid.Compare(a.Coord(), b.Coord()) })
	return cells, nil
}

func (tx *memoryTx) InsertCells(_ context.Context, coords []grid.Coord) (int, error) {
	if err := tx.writable(); err != nil {
		return 0, err
	}

	inserted := 0
	for _, coord := range coords {
		id := coord.ID()
		if _, exists := tx.state.cells[id]; exists {
			continue
		}
		tx.state.cells[id] = &Cell{ID: id, Status: StatusInactive, CreatedAt: tx.now, UpdatedAt: tx.now}
		inserted++
	}
	return inserted, nil
}

func (tx *memoryTx) SaveCells(_ context.Context, cells []*Cell) error {
	if err := tx.writable(); err != nil {
		return err
	}

	for _, cell := range cells {
		stored, ok := tx.state.cells[cell.ID]
		if !ok {
			return apperr.NotFound("Cell", apperr.FieldError{Field: "cell_ids", Message: cell.ID})
		}
		if cell.CategoryID != nil {
			if _, ok := tx.state.categories[*cell.CategoryID]; !ok {
				return apperr.NotFound("Referenced resource")
			}
		}

		updated := cloneCell(cell)
		updated.CreatedAt = stored.CreatedAt
		updated.UpdatedAt = tx.now
		tx.state.cells[cell.ID] = updated

		cell.UpdatedAt = tx.now
	}
	return nil
}

func (tx *memoryTx) DeleteCells(_ context.Context, ids []string) (int, error) {
	if err := tx.writable(); err != nil {
		return 0, err
	}

	removed := 0
	for _, id := range ids {
		if _, ok := tx.state.cells[id]; ok {
			delete(tx.state.cells, id)
			removed++
		}
	}
	return removed, nil
}

func (tx *memoryTx) FindCategory(_ context.Context, id int64) (*Category, error) {
	category, ok := tx.state.categories[id]
	if !ok {
		return nil, apperr.NotFound("Category")
	}

	copied := cloneCategory(category)
	copied.CellsCount = tx.count(id)
	return copied, nil
}

func (tx *memoryTx) ListCategories(context.Context) ([]*Category, error) {
	counts := make(map[int64]int)
	for _, cell := range tx.state.cells {
		if cell.CategoryID != nil {
			counts[*cell.CategoryID]++
		}
	}

	categories := make([]*Category, 0, len(tx.state.categories))
	for _, id := range slices.Sorted(maps.Keys(tx.state.categories)) {
		copied := cloneCategory(tx.state.categories[id])
		copied.CellsCount = counts[id]
		categories = append(categories, copied)
	}
	return categories, nil
}

func (tx *memoryTx) CategoryNameTaken(_ context.Context, name string, excludeID int64) (bool, error) {
	for id, category := range tx.state.categories {
		if id != excludeID && category.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (tx *memoryTx) CreateCategory(_ context.Context, category *Category) error {
	if err := tx.writable(); err != nil {
		return err
	}

	for _, existing := range tx.state.categories {
		if existing.Name == category.Name {
			return apperr.Conflict("Resource already exists")
		}
	}

	tx.state.nextID++
	category.ID = tx.state.nextID
	category.CreatedAt = tx.now
	category.UpdatedAt = tx.now
	tx.state.categories[category.ID] = cloneCategory(category)
	return nil
}

func (tx *memoryTx) UpdateCategory(_ context.Context, category *Category) error {
	if err := tx.writable(); err != nil {
		return err
	}

	stored, ok := tx.state.categories[category.ID]
	if !ok {
		return apperr.NotFound("Category")
	}
	for id, existing := range tx.state.categories {
		if id != category.ID && existing.Name == category.Name {
			return apperr.Conflict("Resource already exists")
		}
	}

	category.CreatedAt = stored.CreatedAt
	category.UpdatedAt = tx.now
	tx.state.categories[category.ID] = cloneCategory(category)
	return nil
}

func (tx *memoryTx) DeleteCategory(_ context.Context, id int64) error {
	if err := tx.writable(); err != nil {
		return err
	}

	if _, ok := tx.state.categories[id]; !ok {
		return apperr.NotFound("Category")
	}
	delete(tx.state.categories, id)

	// Mirror ON DELETE SET NULL for any cell the caller did not release.
	for _, cell := range tx.state.cells {
		if cell.CategoryID != nil && *cell.CategoryID == id {
			cell.Status, cell.CategoryID, cell.Name = StatusInactive, nil, nil
			cell.UpdatedAt = tx.now
		}
	}
	return nil
}

func (tx *memoryTx) CountCells(_ context.Context, categoryID int64) (int, error) {
	return tx.count(categoryID), nil
}

func (tx *memoryTx) count(categoryID int64) int {
	total := 0
	for _, cell := range tx.state.cells {
		if cell.CategoryID != nil && *cell.CategoryID == categoryID {
			total++
		}
	}
	return total
}
