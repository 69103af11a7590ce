// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package layout

import (
	stdctx "context"
	"log/slog"

	"github.com/taibuivan/yardmap/internal/platform/constants"
	"github.com/taibuivan/yardmap/internal/platform/validate"
	"github.com/taibuivan/yardmap/internal/yard/naming"
)

// SeedCategory is a category created without cells, for initial yard setup.
type SeedCategory struct {
	Name      string
	Color     string
	Direction naming.Direction
}

// DefaultSeed is the legend of a freshly installed yard.
var DefaultSeed = []SeedCategory{
	{"A", "#24eb31", naming.Downward},
	{"B", "#eb242e", naming.Upward},
	{"C", "#ebd024", naming.Downward},
	{"D", "#2563eb", naming.Upward},
	{"E", "#eb8424", naming.Leftward},
	{"F", "#b0b0b0", naming.Upward},
	{"G", "#eb24ac", naming.Rightward},
	{"H", "#707070", naming.Leftward},
	{"XB", "#9b24eb", naming.Leftward},
	{"XD", "#9b24eb", naming.Leftward},
	{"XF", "#9b24eb", naming.Leftward},
}

/*
SeedCategories creates every seed whose name is still free, in one unit of work.

Description: Seeds own no cells. Names already present are skipped, so seeding
twice is harmless.

Returns:
  - []*Category: The categories actually created
  - error: VALIDATION_ERROR for a malformed seed, or a storage failure
*/
func (service *Service) SeedCategories(context stdctx.Context, seeds []SeedCategory) ([]*Category, error) {
	v := &validate.Validator{}
	for _, seed := range seeds {
		v.Required("name", normalizeName(seed.Name)).
			HexColor("color", seed.Color).
			Custom("direction", !seed.Direction.Valid(), "Unknown direction")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	created := make([]*Category, 0, len(seeds))
	err := service.store.Atomic(context, func(context stdctx.Context, tx Tx) error {
		for _, seed := range seeds {
			name := normalizeName(seed.Name)
			taken, err := tx.CategoryNameTaken(context, name, 0)
			if err != nil {
				return err
			}
			if taken {
				continue
			}

			category := &Category{Name: name, Color: seed.Color, Direction: seed.Direction}
			if err := tx.CreateCategory(context, category); err != nil {
				return err
			}
			created = append(created, category)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, category := range created {
		service.logger.InfoContext(context, "category_seeded",
			slog.Int64("category_id", category.ID),
			slog.String("name", category.Name),
		)
		service.notify(context, constants.ChannelCategories, EventCategoryCreated,
			&CategoryChange{Category: category, Cells: []*Cell{}})
	}
	return created, nil
}
