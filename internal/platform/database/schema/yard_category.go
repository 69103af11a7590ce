package schema

// YardCategoryTable represents the 'yard.categories' table
type YardCategoryTable struct {
	Table       string
	ID          string
	Name        string
	Color       string
	Direction   string
	Description string
	CreatedAt   string
	UpdatedAt   string
}

// YardCategory is the schema definition for yard.categories
var YardCategory = YardCategoryTable{
	Table:       "yard.categories",
	ID:          "id",
	Name:        "name",
	Color:       "color",
	Direction:   "direction",
	Description: "description",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

// Columns returns all standard column names
func (t YardCategoryTable) Columns() []string {
	return []string{t.ID, t.Name, t.Color, t.Direction, t.Description, t.CreatedAt, t.UpdatedAt}
}
