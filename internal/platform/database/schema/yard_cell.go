package schema

// YardCellTable represents the 'yard.cells' table
type YardCellTable struct {
	Table      string
	CellID     string
	PosL       string
	PosW       string
	Status     string
	CategoryID string
	Name       string
	CreatedAt  string
	UpdatedAt  string
}

// YardCell is the schema definition for yard.cells
var YardCell = YardCellTable{
	Table:      "yard.cells",
	CellID:     "cell_id",
	PosL:       "pos_l",
	PosW:       "pos_w",
	Status:     "status",
	CategoryID: "category_id",
	Name:       "name",
	CreatedAt:  "created_at",
	UpdatedAt:  "updated_at",
}

// Columns returns all standard column names
func (t YardCellTable) Columns() []string {
	return []string{t.CellID, t.PosL, t.PosW, t.Status, t.CategoryID, t.Name, t.CreatedAt, t.UpdatedAt}
}
