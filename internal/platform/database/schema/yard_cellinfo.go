package schema

// YardCellInfoTable represents the 'yard.cells_info' table
type YardCellInfoTable struct {
	Table        string
	ID           string
	CellID       string
	ShippingLine string
	Size         string
	Type         string
	CellStatus   string
	CreatedAt    string
	UpdatedAt    string
}

// YardCellInfo is the schema definition for yard.cells_info
var YardCellInfo = YardCellInfoTable{
	Table:        "yard.cells_info",
	ID:           "id",
	CellID:       "cell_id",
	ShippingLine: "shipping_line",
	Size:         "size",
	Type:         "type",
	CellStatus:   "cell_status",
	CreatedAt:    "created_at",
	UpdatedAt:    "updated_at",
}

// Columns returns all standard column names
func (t YardCellInfoTable) Columns() []string {
	return []string{t.ID, t.CellID, t.ShippingLine, t.Size, t.Type, t.CellStatus, t.CreatedAt, t.UpdatedAt}
}
