// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package naming assigns human-readable names to the cells of a category.

# Algorithm

 1. Parse every cell id into (l, w).
 2. Split cells into lanes: columns (by l) for upward/downward, rows (by w) for
    rightward/leftward. Lanes are numbered from 1 in ascending lane coordinate.
 3. Number the members of each lane from 1 along the cross axis, ascending or
    descending as the [Direction] dictates.
 4. Name each cell "{category}{lane}_T{member}", e.g. "A1_T1", "A2_T3".

The result depends only on the set of ids: input order and duplicates do not matter.
*/
package naming

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/taibuivan/yardmap/internal/platform/apperr"
	"github.com/taibuivan/yardmap/internal/platform/validate"
	"github.com/taibuivan/yardmap/internal/yard/grid"
	"github.com/taibuivan/yardmap/pkg/slice"
)

// Assignment is one named cell, in naming order.
type Assignment struct {
	CellID string
	Coord  grid.Coord
	Lane   int
	Member int
	Name   string
}

// Format builds the generated name of a cell.
func Format(category string, lane, member int) string {
	return category + strconv.Itoa(lane) + "_T" + strconv.Itoa(member)
}

/*
Plan computes the ordered assignments for a category's cell set.

Parameters:
  - cellIDs: []string (Selected cell ids; duplicates are ignored)
  - category: string (Category name used as the name prefix)
  - direction: Direction (Lane and member ordering)

Returns:
  - []Assignment: One entry per distinct id, ordered lane by lane
  - error: ErrInvalidDirection, or a VALIDATION_ERROR for an empty set or malformed ids
*/
func Plan(cellIDs []string, category string, direction Direction) ([]Assignment, error) {
	if !direction.Valid() {
		return nil, ErrInvalidDirection
	}

	unique := slice.Unique(cellIDs)
	if len(unique) == 0 {
		return nil, validate.RequiredError("cell_ids", "At least one cell is required")
	}

	coords, malformed := grid.ParseAll(unique)
	if len(malformed) > 0 {
		details := make([]apperr.FieldError, len(malformed))
		for i, id := range malformed {
			details[i] = apperr.FieldError{Field: "cell_ids", Message: "Malformed cell id " + strconv.Quote(id)}
		}
		return nil, apperr.ValidationError("Validation failed", details...)
	}

	// Sort once by (lane, member); lanes then fall out as contiguous runs.
	slices.SortFunc(coords, func(a, b grid.Coord) int {
		if byLane := cmp.Compare(direction.lane(a), direction.lane(b)); byLane != 0 {
			return byLane
		}
		byMember := cmp.Compare(direction.member(a), direction.member(b))
		if direction.descending {
			return -byMember
		}
		return byMember
	})

	assignments := make([]Assignment, len(coords))
	lane, member := 0, 0
	for i, coord := range coords {
		if i == 0 || direction.lane(coord) != direction.lane(coords[i-1]) {
			lane++
			member = 0
		}
		member++

		assignments[i] = Assignment{
			CellID: coord.ID(),
			Coord:  coord,
			Lane:   lane,
			Member: member,
			Name:   Format(category, lane, member),
		}
	}

	return assignments, nil
}

// Assign returns the cell id → generated name mapping for a category's cell set.
func Assign(cellIDs []string, category string, direction Direction) (map[string]string, error) {
	assignments, err := Plan(cellIDs, category, direction)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(assignments))
	for _, assignment := range assignments {
		names[assignment.CellID] = assignment.Name
	}
	return names, nil
}
