// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package grid_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yardmap/internal/yard/grid"
)

/*
TestParse covers well-formed and malformed identifiers.
*/
func TestParse(t *testing.T) {
	tests := []struct {
		id      string
		want    grid.Coord
		wantErr bool
	}{
		{"1_1", grid.Coord{L: 1, W: 1}, false},
		{"12_43", grid.Coord{L: 12, W: 43}, false},
		{"60_1", grid.Coord{L: 60, W: 1}, false},
		{"", grid.Coord{}, true},
		{"1", grid.Coord{}, true},
		{"1_", grid.Coord{}, true},
		{"_1", grid.Coord{}, true},
		{"0_1", grid.Coord{}, true},
		{"1_0", grid.Coord{}, true},
		{"01_2", grid.Coord{}, true},
		{"-1_2", grid.Coord{}, true},
		{"+1_2", grid.Coord{}, true},
		{"a_b", grid.Coord{}, true},
		{"1_2_3", grid.Coord{}, true},
		{" 1_2", grid.Coord{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			coord, err := grid.Parse(tt.id)
			if tt.wantErr {
				assert.ErrorIs(t, err, grid.ErrMalformedID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, coord)
			assert.Equal(t, tt.id, coord.ID())
		})
	}
}

/*
TestCompare_NumericNotLexicographic guards against string ordering of ids.
*/
func TestCompare_NumericNotLexicographic(t *testing.T) {
	coords, malformed := grid.ParseAll([]string{"10_1", "2_1", "2_10", "2_9"})
	require.Empty(t, malformed)

	slices.SortFunc(coords, grid.Compare)

	ids := make([]string, len(coords))
	for i, c := range coords {
		ids[i] = c.ID()
	}
	assert.Equal(t, []string{"2_1", "2_9", "2_10", "10_1"}, ids)
}

func TestParseAll_ReportsMalformed(t *testing.T) {
	coords, malformed := grid.ParseAll([]string{"1_1", "x", "2_2", "3-3"})
	assert.Len(t, coords, 2)
	assert.Equal(t, []string{"x", "3-3"}, malformed)
}

func TestRect(t *testing.T) {
	assert.Equal(t, []grid.Coord{{L: 1, W: 1}, {L: 1, W: 2}, {L: 2, W: 1}, {L: 2, W: 2}}, grid.Rect(1, 2, 1, 2))
	assert.Empty(t, grid.Rect(3, 2, 1, 2))
	assert.Len(t, grid.Rect(1, 60, 1, 43), 60*43)

	assert.True(t, grid.Coord{L: 2, W: 3}.Within(2, 3))
	assert.False(t, grid.Coord{L: 3, W: 3}.Within(2, 3))
}
