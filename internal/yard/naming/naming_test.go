// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package naming_test

import (
	"encoding/json"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yardmap/internal/platform/apperr"
	"github.com/taibuivan/yardmap/internal/yard/naming"
)

/*
TestAssign_Directions pins the lane and member numbering of every direction.
*/
func TestAssign_Directions(t *testing.T) {
	tests := []struct {
		name      string
		ids       []string
		category  string
		direction naming.Direction
		want      map[string]string
	}{
		{
			name:      "downward_columns_ascending",
			ids:       []string{"1_1", "1_2", "2_1"},
			category:  "A",
			direction: naming.Downward,
			want:      map[string]string{"1_1": "A1_T1", "1_2": "A1_T2", "2_1": "A2_T1"},
		},
		{
			name:      "upward_columns_descending",
			ids:       []string{"1_1", "1_2"},
			category:  "B",
			direction: naming.Upward,
			want:      map[string]string{"1_2": "B1_T1", "1_1": "B1_T2"},
		},
		{
			name:      "rightward_rows_ascending",
			ids:       []string{"1_1", "2_1"},
			category:  "A",
			direction: naming.Rightward,
			want:      map[string]string{"1_1": "A1_T1", "2_1": "A1_T2"},
		},
		{
			name:      "leftward_rows_descending",
			ids:       []string{"1_1", "2_1", "3_1", "1_2"},
			category:  "XB",
			direction: naming.Leftward,
			want:      map[string]string{"3_1": "XB1_T1", "2_1": "XB1_T2", "1_1": "XB1_T3", "1_2": "XB2_T1"},
		},
		{
			name:      "lanes_numbered_densely",
			ids:       []string{"7_3", "2_5"},
			category:  "C",
			direction: naming.Downward,
			want:      map[string]string{"2_5": "C1_T1", "7_3": "C2_T1"},
		},
		{
			name:      "numeric_not_lexicographic",
			ids:       []string{"2_1", "10_1", "9_1"},
			category:  "E",
			direction: naming.Rightward,
			want:      map[string]string{"2_1": "E1_T1", "9_1": "E1_T2", "10_1": "E1_T3"},
		},
		{
			name:      "single_cell",
			ids:       []string{"5_5"},
			category:  "H",
			direction: naming.Upward,
			want:      map[string]string{"5_5": "H1_T1"},
		},
		{
			name:      "duplicates_ignored",
			ids:       []string{"1_1", "1_2", "1_1"},
			category:  "D",
			direction: naming.Downward,
			want:      map[string]string{"1_1": "D1_T1", "1_2": "D1_T2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names, err := naming.Assign(tt.ids, tt.category, tt.direction)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names)
		})
	}
}

/*
TestAssign_OrderIndependent shuffles a block of ids and expects identical output.
*/
func TestAssign_OrderIndependent(t *testing.T) {
	ids := make([]string, 0, 30)
	for l := 1; l <= 6; l++ {
		for w := 1; w <= 5; w++ {
			ids = append(ids, strconv.Itoa(l)+"_"+strconv.Itoa(w))
		}
	}

	for _, direction := range naming.Directions() {
		t.Run(direction.String(), func(t *testing.T) {
			want, err := naming.Assign(ids, "F", direction)
			require.NoError(t, err)
			require.Len(t, want, len(ids))

			random := rand.New(rand.NewPCG(7, 11))
			for range 5 {
				shuffled := append([]string(nil), ids...)
				random.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

				got, err := naming.Assign(shuffled, "F", direction)
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}

			// Every generated name is unique.
			seen := make(map[string]struct{}, len(want))
			for _, name := range want {
				seen[name] = struct{}{}
			}
			assert.Len(t, seen, len(want))
		})
	}
}

/*
TestPlan_Failures covers the precondition violations.
*/
func TestPlan_Failures(t *testing.T) {
	_, err := naming.Plan([]string{"1_1"}, "A", naming.Direction{})
	assert.ErrorIs(t, err, naming.ErrInvalidDirection)

	_, err = naming.Plan(nil, "A", naming.Downward)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))

	_, err = naming.Plan([]string{"1_1", "oops", "0_3"}, "A", naming.Downward)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 2)
}

/*
TestParseDirection checks the closed wire enumeration.
*/
func TestParseDirection(t *testing.T) {
	for _, value := range []string{"upward", "downward", "rightward", "leftward"} {
		direction, err := naming.ParseDirection(value)
		require.NoError(t, err)
		assert.Equal(t, value, direction.String())
	}

	for _, value := range []string{"", "Upward", "north", "up"} {
		_, err := naming.ParseDirection(value)
		require.ErrorIs(t, err, naming.ErrInvalidDirection)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "direction", ae.Details[0].Field)
	}
}

func TestDirection_JSON(t *testing.T) {
	var payload struct {
		Direction naming.Direction `json:"direction"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"direction":"leftward"}`), &payload))
	assert.Equal(t, naming.Leftward.String(), payload.Direction.String())

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"direction":"leftward"}`, string(data))

	err = json.Unmarshal([]byte(`{"direction":"sideways"}`), &payload)
	assert.ErrorIs(t, err, naming.ErrInvalidDirection)
}
