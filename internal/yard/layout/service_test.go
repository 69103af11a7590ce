// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package layout_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/taibuivan/yardmap/internal/platform/apperr"
	"github.com/taibuivan/yardmap/internal/platform/broadcast"
	"github.com/taibuivan/yardmap/internal/platform/constants"
	"github.com/taibuivan/yardmap/internal/platform/metrics"
	"github.com/taibuivan/yardmap/internal/yard/layout"
	"github.com/taibuivan/yardmap/internal/yard/naming"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// # Fixtures

type fixture struct {
	service *layout.Service
	store   *layout.MemoryStore
	hub     *broadcast.Hub
	events  <-chan broadcast.Event
	metrics *metrics.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	hub := broadcast.NewHub()
	context, cancel := context.WithCancel(context.Background())
	events, err := hub.Subscribe(context, constants.ChannelCategories, constants.ChannelMapLayout)
	require.NoError(t, err)

	t.Cleanup(func() {
		cancel()
		_ = hub.Close()
	})

	store := layout.NewMemoryStore()
	registry := metrics.NewRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		service: layout.NewService(store, hub, registry, layout.Limits{MaxLength: 500, MaxWidth: 500}, logger),
		store:   store,
		hub:     hub,
		events:  events,
		metrics: registry,
	}
}

// nextEvent waits for the next broadcast.
func (f *fixture) nextEvent(t *testing.T) broadcast.Event {
	t.Helper()
	select {
	case event := <-f.events:
		return event
	case <-time.After(time.Second):
		t.Fatal("no event broadcast")
		return broadcast.Event{}
	}
}

// assertQuiet fails if any event is pending.
func (f *fixture) assertQuiet(t *testing.T) {
	t.Helper()
	select {
	case event := <-f.events:
		t.Fatalf("unexpected event %s on %s", event.Name, event.Channel)
	case <-time.After(50 * time.Millisecond):
	}
}

func (f *fixture) resize(t *testing.T, length, width int) *layout.ResizeResult {
	t.Helper()
	result, err := f.service.Resize(context.Background(), length, width)
	require.NoError(t, err)
	return result
}

func (f *fixture) cells(t *testing.T) map[string]*layout.Cell {
	t.Helper()
	snapshot, err := f.service.Snapshot(context.Background())
	require.NoError(t, err)

	byID := make(map[string]*layout.Cell, len(snapshot.Cells))
	for _, cell := range snapshot.Cells {
		require.True(t, cell.Consistent(), "cell %s breaks the selection invariant", cell.ID)
		byID[cell.ID] = cell
	}
	return byID
}

func input(name, direction string, cells ...string) layout.CategoryInput {
	return layout.CategoryInput{Name: name, Color: "#24eb31", Direction: direction, CellIDs: cells}
}

func nameOf(cell *layout.Cell) string {
	if cell.Name == nil {
		return ""
	}
	return *cell.Name
}

// # Category Reconciliation

/*
TestCreateCategory_RightwardScenario assigns two cells of the same row.
*/
func TestCreateCategory_RightwardScenario(t *testing.T) {
	f := newFixture(t)
	f.resize(t, 2, 2)
	assert.Equal(t, layout.EventDimensionsUpdated, f.nextEvent(t).Name)

	change, err := f.service.CreateCategory(context.Background(), input("A", "rightward", "1_1", "2_1"))
	require.NoError(t, err)

	assert.Equal(t, "A", change.Category.Name)
	assert.Equal(t, naming.Rightward.String(), change.Category.Direction.String())
	assert.Equal(t, 2, change.Category.CellsCount)
	assert.Len(t, change.Cells, 2)

	cells := f.cells(t)
	assert.Equal(t, layout.StatusSelected, cells["1_1"].Status)
	assert.Equal(t, "A1_T1", nameOf(cells["1_1"]))
	assert.Equal(t, "A1_T2", nameOf(cells["2_1"]))
	assert.Equal(t, layout.StatusInactive, cells["1_2"].Status)
	assert.Equal(t, layout.StatusInactive, cells["2_2"].Status)

	event := f.nextEvent(t)
	assert.Equal(t, constants.ChannelCategories, event.Channel)
	assert.Equal(t, layout.EventCategoryCreated, event.Name)

	expected := `
# HELP yardmap_layout_cells_changed_total Cells mutated by layout operations.
# TYPE yardmap_layout_cells_changed_total counter
yardmap_layout_cells_changed_total{operation="category_create"} 2
yardmap_layout_cells_changed_total{operation="resize_insert"} 4
`
	require.NoError(t, testutil.GatherAndCompare(f.metrics.Gatherer(), strings.NewReader(expected), "yardmap_layout_cells_changed_total"))
}

/*
TestUpdateCategory_ReplacesMembership moves a category from {1_1,1_2} to {1_2,2_1}.
*/
func TestUpdateCategory_ReplacesMembership(t *testing.T) {
	f := newFixture(t)
	f.resize(t, 2, 2)

	created, err := f.service.CreateCategory(context.Background(), input("A", "downward", "1_1", "1_2"))
	require.NoError(t, err)

	cells := f.cells(t)
	assert.Equal(t, "A1_T1", nameOf(cells["1_1"]))
	assert.Equal(t, "A1_T2", nameOf(cells["1_2"]))

	updated, err := f.service.UpdateCategory(context.Background(), created.Category.ID, input("A", "downward", "1_2", "2_1"))
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Category.CellsCount)
	assert.Len(t, updated.Cells, 3, "released plus assigned")

	cells = f.cells(t)
	assert.Equal(t, layout.StatusInactive, cells["1_1"].Status)
	assert.Nil(t, cells["1_1"].CategoryID)
	assert.Equal(t, "A1_T1", nameOf(cells["1_2"]))
	assert.Equal(t, "A2_T1", nameOf(cells["2_1"]))
	assert.Equal(t, created.Category.ID, *cells["2_1"].CategoryID)
}

/*
TestUpdateCategory_RenameRecomputesNames checks names follow the new name and direction.
*/
func TestUpdateCategory_RenameRecomputesNames(t *testing.T) {
	f := newFixture(t)
	f.resize(t, 1, 3)

	created, err := f.service.CreateCategory(context.Background(), input("A", "downward", "1_1", "1_2", "1_3"))
	require.NoError(t, err)

	_, err = f.service.UpdateCategory(context.Background(), created.Category.ID, input("B", "upward", "1_1", "1_2", "1_3"))
	require.NoError(t, err)

	cells := f.cells(t)
	assert.Equal(t, "B1_T1", nameOf(cells["1_3"]))
	assert.Equal(t, "B1_T3", nameOf(cells["1_1"]))

	// Keeping its own name is not a conflict.
	_, err = f.service.UpdateCategory(context.Background(), created.Category.ID, input("B", "upward", "1_1"))
	assert.NoError(t, err)
}

/*
TestUpdateCategory_FailureLeavesStateUntouched checks a rejected update applies nothing.
*/
func TestUpdateCategory_FailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	f.resize(t, 2, 2)

	a, err := f.service.CreateCategory(context.Background(), input("A", "downward", "1_1", "1_2"))
	require.NoError(t, err)
	_, err = f.service.CreateCategory(context.Background(), input("B", "downward", "2_1"))
	require.NoError(t, err)

	before := f.cells(t)
	categoriesBefore, err := f.service.ListCategories(context.Background())
	require.NoError(t, err)

	tests := []struct {
		name  string
		input layout.CategoryInput
		code  string
	}{
		{"missing_cell", layout.CategoryInput{Name: "A", Color: "#EB242E", Direction: "upward", CellIDs: []string{"2_2", "9_9"}}, "NOT_FOUND"},
		{"taken_name", layout.CategoryInput{Name: "B", Color: "#EB242E", Direction: "upward", CellIDs: []string{"2_2"}}, "CONFLICT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.UpdateCategory(context.Background(), a.Category.ID, tt.input)
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)

			after := f.cells(t)
			for id, cell := range before {
				assert.Equal(t, cell.Status, after[id].Status, id)
				assert.Equal(t, cell.CategoryID, after[id].CategoryID, id)
				assert.Equal(t, nameOf(cell), nameOf(after[id]), id)
			}
			assert.Equal(t, "A1_T1", nameOf(after["1_1"]))
			assert.Equal(t, "A1_T2", nameOf(after["1_2"]))
			assert.Equal(t, layout.StatusInactive, after["2_2"].Status)

			categories, err := f.service.ListCategories(context.Background())
			require.NoError(t, err)
			require.Len(t, categories, len(categoriesBefore))
			for i, category := range categories {
				assert.Equal(t, categoriesBefore[i].Name, category.Name)
				assert.Equal(t, categoriesBefore[i].Color, category.Color)
				assert.Equal(t, categoriesBefore[i].Direction.String(), category.Direction.String())
				assert.Equal(t, categoriesBefore[i].CellsCount, category.CellsCount)
			}
		})
	}

	// The resize and the two creates; failed updates broadcast nothing.
	f.nextEvent(t)
	f.nextEvent(t)
	f.nextEvent(t)
	f.assertQuiet(t)
}

/*
TestCreateCategory_ClaimsCellsOfAnotherCategory moves ownership of shared cells.
*/
func TestCreateCategory_ClaimsCellsOfAnotherCategory(t *testing.T) {
	f := newFixture(t)
	f.resize(t, 2, 2)

	first, err := f.service.CreateCategory(context.Background(), input("A", "downward", "1_1", "1_2"))
	require.NoError(t, err)

	second, err := f.service.CreateCategory(context.Background(), input("B", "downward", "1_2"))
	require.NoError(t, err)

	cells := f.cells(t)
	assert.Equal(t, second.Category.ID, *cells["1_2"].CategoryID)
	assert.Equal(t, "B1_T1", nameOf(cells["1_2"]))

	categories, err := f.service.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, first.Category.ID, categories[0].ID)
	assert.Equal(t, 1, categories[0].CellsCount, "counts are live")
	assert.Equal(t, 1, categories[1].CellsCount)
}

/*
TestDeleteCategory_UnassignsCells checks cells survive their category.
*/
func TestDeleteCategory_UnassignsCells(t *testing.T) {
	f := newFixture(t)
	f.resize(t, 2, 2)

	created, err := f.service.CreateCategory(context.Background(), input("A", "leftward", "1_1", "2_1", "2_2"))
	require.NoError(t, err)
	f.nextEvent(t)
	f.nextEvent(t)

	removal, err := f.service.DeleteCategory(context.Background(), created.Category.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Category.ID, removal.CategoryID)
	assert.Len(t, removal.Cells, 3)

	cells := f.cells(t)
	assert.Len(t, cells, 4)
	for _, cell := range cells {
		assert.Equal(t, layout.StatusInactive, cell.Status)
		assert.Nil(t, cell.CategoryID)
		assert.Nil(t, cell.Name)
	}

	event := f.nextEvent(t)
	assert.Equal(t, constants.ChannelMapLayout, event.Channel)
	assert.Equal(t, layout.EventCategoryDeleted, event.Name)

	_, err = f.service.DeleteCategory(context.Background(), created.Category.ID)
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))
}

/*
TestCategory_Failures walks the failure taxonomy and checks nothing leaks into storage.
*/
func TestCategory_Failures(t *testing.T) {
	f := newFixture(t)
	f.resize(t, 2, 2)

	_, err := f.service.CreateCategory(context.Background(), input("A", "downward", "1_1"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		input layout.CategoryInput
		code  string
	}{
		{"empty_name", input("  ", "downward", "1_2"), "VALIDATION_ERROR"},
		{"bad_color", layout.CategoryInput{Name: "B", Color: "green", Direction: "downward", CellIDs: []string{"1_2"}}, "VALIDATION_ERROR"},
		{"empty_cells", input("B", "downward"), "VALIDATION_ERROR"},
		{"malformed_cell", input("B", "downward", "1-2"), "VALIDATION_ERROR"},
		{"invalid_direction", input("B", "north", "1_2"), "INVALID_DIRECTION"},
		{"invalid_direction_and_name", input("", "north", "1_2"), "VALIDATION_ERROR"},
		{"duplicate_name", input("A", "downward", "1_2"), "CONFLICT"},
		{"duplicate_name_padded", input(" A ", "downward", "1_2"), "CONFLICT"},
		{"missing_cell", input("B", "downward", "1_2", "9_9"), "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.CreateCategory(context.Background(), tt.input)
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)
		})
	}

	categories, err := f.service.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 1, "failed creates leave no category behind")
	assert.Equal(t, layout.StatusInactive, f.cells(t)["1_2"].Status)

	_, err = f.service.UpdateCategory(context.Background(), 99, input("Z", "downward", "1_2"))
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))
}

/*
TestCreateCategory_NormalizedNameConflicts treats NFC-equivalent names as equal.
*/
func TestCreateCategory_NormalizedNameConflicts(t *testing.T) {
	f := newFixture(t)
	f.resize(t, 1, 2)

	composed, decomposed := "Caf\u00e9", "Cafe\u0301"

	_, err := f.service.CreateCategory(context.Background(), input(composed, "downward", "1_1"))
	require.NoError(t, err)

	unique, err := f.service.IsNameUnique(context.Background(), decomposed, 0)
	require.NoError(t, err)
	assert.False(t, unique)

	_, err = f.service.CreateCategory(context.Background(), input(decomposed, "downward", "1_2"))
	assert.True(t, apperr.HasCode(err, "CONFLICT"))
}

// # Grid Resize

/*
TestResize_Idempotent checks a repeated resize neither inserts nor broadcasts.
*/
func TestResize_Idempotent(t *testing.T) {
	f := newFixture(t)

	first := f.resize(t, 3, 2)
	assert.True(t, first.Changed)
	assert.Equal(t, 6, first.CreatedCells)
	assert.Equal(t, layout.EventDimensionsUpdated, f.nextEvent(t).Name)

	second := f.resize(t, 3, 2)
	assert.False(t, second.Changed)
	assert.Zero(t, second.CreatedCells)
	f.assertQuiet(t)

	assert.Len(t, f.cells(t), 6)
}

/*
TestResize_ShrinkRemovesOutOfBounds shrinks a 3×3 grid to 2×3.
*/
func TestResize_ShrinkRemovesOutOfBounds(t *testing.T) {
	f := newFixture(t)
	f.resize(t, 3, 3)

	kept, err := f.service.CreateCategory(context.Background(), input("A", "downward", "1_1", "2_3"))
	require.NoError(t, err)
	stranded, err := f.service.CreateCategory(context.Background(), input("B", "downward", "3_1"))
	require.NoError(t, err)
	f.nextEvent(t)
	f.nextEvent(t)
	f.nextEvent(t)

	result := f.resize(t, 2, 3)
	assert.True(t, result.Changed)
	assert.ElementsMatch(t, []string{"3_1", "3_2", "3_3"}, result.RemovedCellIDs)
	assert.Equal(t, []int64{stranded.Category.ID}, result.AffectedCategoryIDs)

	cells := f.cells(t)
	assert.Len(t, cells, 6)
	assert.NotContains(t, cells, "3_1")
	assert.Equal(t, "A1_T1", nameOf(cells["1_1"]))
	assert.Equal(t, kept.Category.ID, *cells["2_3"].CategoryID)

	event := f.nextEvent(t)
	assert.Equal(t, layout.EventDimensionsUpdated, event.Name)
	assert.JSONEq(t,
		`{"map_length":2,"map_width":3,"removed_cell_ids":["3_1","3_2","3_3"],"affected_category_ids":[`+strconv.FormatInt(stranded.Category.ID, 10)+`]}`,
		string(event.Payload))

	categories, err := f.service.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, categories[1].CellsCount)
}

/*
TestResize_GrowPreservesAssignments grows both axes around an assigned cell.
*/
func TestResize_GrowPreservesAssignments(t *testing.T) {
	f := newFixture(t)
	f.resize(t, 2, 2)

	_, err := f.service.CreateCategory(context.Background(), input("A", "downward", "2_2"))
	require.NoError(t, err)

	result := f.resize(t, 3, 4)
	assert.Equal(t, 8, result.CreatedCells)

	cells := f.cells(t)
	assert.Len(t, cells, 12)
	assert.Equal(t, "A1_T1", nameOf(cells["2_2"]))
	assert.Equal(t, layout.StatusInactive, cells["3_4"].Status)
}

func TestResize_RejectsOutOfRange(t *testing.T) {
	f := newFixture(t)

	for _, bounds := range [][2]int{{0, 3}, {3, 0}, {501, 3}, {3, 501}} {
		_, err := f.service.Resize(context.Background(), bounds[0], bounds[1])
		assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"), "bounds %v", bounds)
	}

	snapshot, err := f.service.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snapshot.Dimension)
	assert.Empty(t, snapshot.Cells)
}

// # Broadcast Failures

type brokenPublisher struct{}

func (brokenPublisher) Publish(context.Context, string, string, any) error {
	return errors.New("broker unavailable")
}

/*
TestBroadcastFailure_DoesNotFailMutation checks committed changes are reported as success.
*/
func TestBroadcastFailure_DoesNotFailMutation(t *testing.T) {
	registry := metrics.NewRegistry()
	service := layout.NewService(layout.NewMemoryStore(), brokenPublisher{}, registry,
		layout.Limits{MaxLength: 10, MaxWidth: 10}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := service.Resize(context.Background(), 2, 2)
	require.NoError(t, err)

	change, err := service.CreateCategory(context.Background(), input("A", "upward", "1_1", "1_2"))
	require.NoError(t, err)
	assert.Equal(t, 2, change.Category.CellsCount)

	count, err := testutil.GatherAndCount(registry.Gatherer(), "yardmap_broadcast_events_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

// # Seeding

/*
TestSeedCategories_SkipsExistingNames seeds twice and checks only new names are created.
*/
func TestSeedCategories_SkipsExistingNames(t *testing.T) {
	f := newFixture(t)
	context := context.Background()

	f.resize(t, 2, 2)
	_, err := f.service.CreateCategory(context, input("B", "upward", "1_1"))
	require.NoError(t, err)
	f.nextEvent(t)
	f.nextEvent(t)

	created, err := f.service.SeedCategories(context, layout.DefaultSeed)
	require.NoError(t, err)
	require.Len(t, created, len(layout.DefaultSeed)-1)
	for _, category := range created {
		assert.NotEqual(t, "B", category.Name)
		assert.Zero(t, category.CellsCount)
	}

	event := f.nextEvent(t)
	assert.Equal(t, layout.EventCategoryCreated, event.Name)
	assert.Contains(t, string(event.Payload), `"cells":[]`)

	again, err := f.service.SeedCategories(context, layout.DefaultSeed)
	require.NoError(t, err)
	assert.Empty(t, again)

	categories, err := f.service.ListCategories(context)
	require.NoError(t, err)
	assert.Len(t, categories, len(layout.DefaultSeed))
}

/*
TestSeedCategories_RejectsMalformedSeed checks seeds are validated before storage.
*/
func TestSeedCategories_RejectsMalformedSeed(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.SeedCategories(context.Background(), []layout.SeedCategory{{Name: "Z", Color: "grey"}})
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Len(t, ae.Details, 2)
}
