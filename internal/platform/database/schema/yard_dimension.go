package schema

// YardDimensionTable represents the 'yard.dimensions' table
type YardDimensionTable struct {
	Table     string
	ID        string
	MapLength string
	MapWidth  string
	CreatedAt string
	UpdatedAt string
}

// YardDimension is the schema definition for yard.dimensions.
// The table holds at most one row, keyed by [DimensionSingletonID].
var YardDimension = YardDimensionTable{
	Table:     "yard.dimensions",
	ID:        "id",
	MapLength: "map_length",
	MapWidth:  "map_width",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
}

// DimensionSingletonID is the primary key of the only dimension row.
const DimensionSingletonID = 1

func (t YardDimensionTable) Columns() []string {
	return []string{t.ID, t.MapLength, t.MapWidth, t.CreatedAt, t.UpdatedAt}
}
