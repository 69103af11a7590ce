// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package naming

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/taibuivan/yardmap/internal/platform/apperr"
	"github.com/taibuivan/yardmap/internal/yard/grid"
)

// ErrInvalidDirection is raised for any direction outside the closed set.
var ErrInvalidDirection = &apperr.AppError{
	Code:       "INVALID_DIRECTION",
	Message:    "Invalid direction",
	HTTPStatus: http.StatusBadRequest,
}

// # Direction Variant

// Direction selects how selected cells are split into lanes and numbered.
//
// The zero value is not a valid direction; obtain one from the package variables
// or [ParseDirection].
type Direction struct {
	value string

	// lane picks the grouping coordinate, member the ordering coordinate within a lane.
	lane   func(grid.Coord) int
	member func(grid.Coord) int

	// descending reverses member numbering within a lane.
	descending bool
}

func coordL(c grid.Coord) int { return c.L }
func coordW(c grid.Coord) int { return c.W }

var (
	// Upward groups by column and numbers each column from its highest w down.
	Upward = Direction{value: "upward", lane: coordL, member: coordW, descending: true}

	// Downward groups by column and numbers each column from its lowest w up.
	Downward = Direction{value: "downward", lane: coordL, member: coordW}

	// Rightward groups by row and numbers each row from its lowest l up.
	Rightward = Direction{value: "rightward", lane: coordW, member: coordL}

	// Leftward groups by row and numbers each row from its highest l down.
	Leftward = Direction{value: "leftward", lane: coordW, member: coordL, descending: true}
)

// Directions lists every valid direction in wire order.
func Directions() []Direction {
	return []Direction{Upward, Downward, Rightward, Leftward}
}

// ParseDirection resolves the wire value. Anything else is [ErrInvalidDirection].
func ParseDirection(value string) (Direction, error) {
	for _, direction := range Directions() {
		if direction.value == value {
			return direction, nil
		}
	}
	return Direction{}, ErrInvalidDirection.WithDetails(apperr.FieldError{
		Field:   "direction",
		Message: fmt.Sprintf("Must be one of: upward, downward, rightward, leftward (got %q)", value),
	})
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool { return d.value != "" }

// String returns the wire value.
func (d Direction) String() string { return d.value }

// MarshalJSON implements [json.Marshaler].
func (d Direction) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return nil, ErrInvalidDirection
	}
	return json.Marshal(d.value)
}

// UnmarshalJSON implements [json.Unmarshaler].
func (d *Direction) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return ErrInvalidDirection
	}
	parsed, err := ParseDirection(value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements [driver.Valuer] so pgx stores the wire value.
func (d Direction) Value() (driver.Value, error) {
	if !d.Valid() {
		return nil, ErrInvalidDirection
	}
	return d.value, nil
}

// Scan implements [sql.Scanner].
func (d *Direction) Scan(src any) error {
	var value string
	switch typed := src.(type) {
	case string:
		value = typed
	case []byte:
		value = string(typed)
	default:
		return fmt.Errorf("naming: cannot scan %T into Direction", src)
	}
	parsed, err := ParseDirection(value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
