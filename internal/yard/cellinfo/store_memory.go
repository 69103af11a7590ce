// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cellinfo

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// CellDirectory answers whether a cell is on the grid.
//
// [layout.MemoryStore] satisfies it.
type CellDirectory interface {
	CellExists(context context.Context, cellID string) (bool, error)
}

// MemoryRepository is an in-process [Repository] backed by a cell directory.
//
// Records whose cell has left the grid are pruned on access, mirroring the cascade
// of the relational schema.
type MemoryRepository struct {
	mu      sync.Mutex
	cells   CellDirectory
	records map[string]*Info
	nextID  int64
	nowFn   func() time.Time
}

// NewMemoryRepository returns an empty repository over cells.
func NewMemoryRepository(cells CellDirectory) *MemoryRepository {
	return &MemoryRepository{
		cells:   cells,
		records: make(map[string]*Info),
		nowFn:   func() time.Time { return time.Now().UTC() },
	}
}

func cloneInfo(info *Info) *Info {
	copied := *info
	return &copied
}

// live returns the record of cellID, dropping it when its cell is gone.
func (repository *MemoryRepository) live(context context.Context, cellID string) (*Info, error) {
	info, ok := repository.records[cellID]
	if !ok {
		return nil, nil
	}

	exists, err := repository.cells.CellExists(context, cellID)
	if err != nil {
		return nil, err
	}
	if !exists {
		delete(repository.records, cellID)
		return nil, nil
	}
	return info, nil
}

func (repository *MemoryRepository) List(context context.Context) ([]*Info, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	records := make([]*Info, 0, len(repository.records))
	for cellID := range repository.records {
		info, err := repository.live(context, cellID)
		if err != nil {
			return nil, err
		}
		if info != nil {
			records = append(records, cloneInfo(info))
		}
	}

	slices.SortFunc(records, func(a, b *Info) int { return cmp.Compare(a.ID, b.ID) })
	return records, nil
}

func (repository *MemoryRepository) FindByCell(context context.Context, cellID string) (*Info, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	info, err := repository.live(context, cellID)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, errInfoNotFound(cellID)
	}
	return cloneInfo(info), nil
}

func (repository *MemoryRepository) CellExists(context context.Context, cellID string) (bool, error) {
	return repository.cells.CellExists(context, cellID)
}

func (repository *MemoryRepository) Create(context context.Context, info *Info) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	exists, err := repository.cells.CellExists(context, info.CellID)
	if err != nil {
		return err
	}
	if !exists {
		return errCellNotFound(info.CellID)
	}

	current, err := repository.live(context, info.CellID)
	if err != nil {
		return err
	}
	if current != nil {
		return errCellOccupied(info.CellID)
	}

	repository.nextID++
	now := repository.nowFn()
	info.ID, info.CreatedAt, info.UpdatedAt = repository.nextID, now, now
	repository.records[info.CellID] = cloneInfo(info)
	return nil
}

func (repository *MemoryRepository) Update(context context.Context, info *Info) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	current, err := repository.live(context, info.CellID)
	if err != nil {
		return err
	}
	if current == nil {
		return errInfoNotFound(info.CellID)
	}

	info.ID, info.CreatedAt, info.UpdatedAt = current.ID, current.CreatedAt, repository.nowFn()
	repository.records[info.CellID] = cloneInfo(info)
	return nil
}

func (repository *MemoryRepository) Delete(context context.Context, cellID string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	current, err := repository.live(context, cellID)
	if err != nil {
		return err
	}
	if current == nil {
		return errInfoNotFound(cellID)
	}
	delete(repository.records, cellID)
	return nil
}

func (repository *MemoryRepository) Move(context context.Context, from, to string) (*Info, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	source, err := repository.live(context, from)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, errInfoNotFound(from)
	}

	exists, err := repository.cells.CellExists(context, to)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errCellNotFound(to)
	}

	target, err := repository.live(context, to)
	if err != nil {
		return nil, err
	}
	if target != nil {
		return nil, errCellOccupied(to)
	}

	moved := cloneInfo(source)
	moved.CellID = to
	moved.UpdatedAt = repository.nowFn()

	delete(repository.records, from)
	repository.records[to] = moved
	return cloneInfo(moved), nil
}
