// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package grid defines the addressable space of the yard.

A yard is an L×W grid. Every cell is addressed by an integer pair (l, w) with
1 ≤ l ≤ length and 1 ≤ w ≤ width, and is identified on the wire by the string "{l}_{w}".

All ordering uses the parsed pair. Comparing identifiers as strings is wrong as soon
as a coordinate reaches two digits ("10_1" sorts before "2_1").
*/
package grid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Separator joins the two coordinates of a cell identifier.
const Separator = "_"

// ErrMalformedID is returned when a cell identifier is not "{l}_{w}" with l, w ≥ 1.
var ErrMalformedID = errors.New("grid: malformed cell id")

// # Coordinates

// Coord is a parsed cell position.
type Coord struct {
	L int
	W int
}

// ID returns the canonical "{l}_{w}" identifier.
func (c Coord) ID() string {
	return strconv.Itoa(c.L) + Separator + strconv.Itoa(c.W)
}

// String implements [fmt.Stringer].
func (c Coord) String() string { return c.ID() }

// Within reports whether the coordinate lies inside the given bounds.
func (c Coord) Within(length, width int) bool {
	return c.L >= 1 && c.L <= length && c.W >= 1 && c.W <= width
}

// Parse converts a cell identifier into its coordinate.
//
// Both parts must be plain positive decimal integers without leading zeros, so
// every coordinate has exactly one identifier.
func Parse(id string) (Coord, error) {
	left, right, found := strings.Cut(id, Separator)
	if !found {
		return Coord{}, fmt.Errorf("%w: %q", ErrMalformedID, id)
	}

	l, err := parsePart(left)
	if err != nil {
		return Coord{}, fmt.Errorf("%w: %q", ErrMalformedID, id)
	}

	w, err := parsePart(right)
	if err != nil {
		return Coord{}, fmt.Errorf("%w: %q", ErrMalformedID, id)
	}

	return Coord{L: l, W: w}, nil
}

func parsePart(part string) (int, error) {
	if part == "" || part[0] < '1' || part[0] > '9' {
		return 0, ErrMalformedID
	}
	value, err := strconv.Atoi(part)
	if err != nil || value < 1 {
		return 0, ErrMalformedID
	}
	return value, nil
}

// ParseAll parses every identifier, returning the coordinates in input order and the
// identifiers that failed to parse.
func ParseAll(ids []string) ([]Coord, []string) {
	coords := make([]Coord, 0, len(ids))
	var malformed []string

	for _, id := range ids {
		coord, err := Parse(id)
		if err != nil {
			malformed = append(malformed, id)
			continue
		}
		coords = append(coords, coord)
	}
	return coords, malformed
}

// # Ordering

// Compare orders coordinates by l, then w. It returns -1, 0, or +1.
func Compare(a, b Coord) int {
	switch {
	case a.L < b.L:
		return -1
	case a.L > b.L:
		return 1
	case a.W < b.W:
		return -1
	case a.W > b.W:
		return 1
	default:
		return 0
	}
}

// # Bounds

// Rect enumerates every coordinate with lMin ≤ l ≤ lMax and wMin ≤ w ≤ wMax,
// l-major. Empty ranges yield nothing.
func Rect(lMin, lMax, wMin, wMax int) []Coord {
	if lMax < lMin || wMax < wMin {
		return nil
	}

	coords := make([]Coord, 0, (lMax-lMin+1)*(wMax-wMin+1))
	for l := lMin; l <= lMax; l++ {
		for w := wMin; w <= wMax; w++ {
			coords = append(coords, Coord{L: l, W: w})
		}
	}
	return coords
}
