// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package layout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yardmap/internal/platform/apperr"
	"github.com/taibuivan/yardmap/internal/platform/database/schema"
	"github.com/taibuivan/yardmap/internal/platform/dberr"
	"github.com/taibuivan/yardmap/internal/yard/grid"
)

// gridLockKey is the transaction-scoped advisory lock serializing all grid mutations.
const gridLockKey int64 = 0x7961726d6170 // "yardmap"

// PostgresStore implements [Store] on PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps a connected pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

/*
Atomic runs fn inside a read-write transaction holding the grid advisory lock.

Description: The lock is taken before fn runs, so the reads fn performs already see
every previously committed mutation and no other mutation can interleave. The lock is
released by commit or rollback.

Parameters:
  - context: context.Context
  - fn: func(context.Context, Tx) error (The unit of work)

Returns:
  - error: The error returned by fn, or a wrapped storage failure
*/
func (store *PostgresStore) Atomic(context context.Context, fn func(context context.Context, tx Tx) error) error {
	transaction, err := store.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_layout_transaction")
	}
	defer transaction.Rollback(context)

	if _, err := transaction.Exec(context, `SELECT pg_advisory_xact_lock($1)`, gridLockKey); err != nil {
		return dberr.Wrap(err, "lock_layout")
	}

	if err := fn(context, &postgresTx{tx: transaction}); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_layout_transaction")
	}
	return nil
}

// View runs fn on a read-only, repeatable-read snapshot.
func (store *PostgresStore) View(context context.Context, fn func(context context.Context, tx Tx) error) error {
	transaction, err := store.pool.BeginTx(context, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return dberr.Wrap(err, "begin_layout_view")
	}
	defer transaction.Rollback(context)

	if err := fn(context, &postgresTx{tx: transaction}); err != nil {
		return err
	}
	return dberr.Wrap(transaction.Commit(context), "close_layout_view")
}

// Ping implements [Store].
func (store *PostgresStore) Ping(context context.Context) error {
	return store.pool.Ping(context)
}

// # Transaction

type postgresTx struct {
	tx pgx.Tx
}

// # Dimension

func (repository *postgresTx) LoadDimension(context context.Context) (*Dimension, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		schema.YardDimension.MapLength, schema.YardDimension.MapWidth, schema.YardDimension.UpdatedAt,
		schema.YardDimension.Table, schema.YardDimension.ID)

	dimension := &Dimension{}
	err := repository.tx.QueryRow(context, query, schema.DimensionSingletonID).
		Scan(&dimension.MapLength, &dimension.MapWidth, &dimension.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, "load_dimension")
	}
	return dimension, nil
}

func (repository *postgresTx) SaveDimension(context context.Context, dimension Dimension) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = now()
	`,
		schema.YardDimension.Table,
		schema.YardDimension.ID, schema.YardDimension.MapLength, schema.YardDimension.MapWidth,
		schema.YardDimension.ID,
		schema.YardDimension.MapLength, schema.YardDimension.MapLength,
		schema.YardDimension.MapWidth, schema.YardDimension.MapWidth,
		schema.YardDimension.UpdatedAt,
	)

	_, err := repository.tx.Exec(context, query, schema.DimensionSingletonID, dimension.MapLength, dimension.MapWidth)
	return dberr.Wrap(err, "save_dimension")
}

// # Cells

func cellColumns() string {
	return strings.Join([]string{
		schema.YardCell.CellID, schema.YardCell.Status, schema.YardCell.CategoryID,
		schema.YardCell.Name, schema.YardCell.CreatedAt, schema.YardCell.UpdatedAt,
	}, ", ")
}

func (repository *postgresTx) ListCells(context context.Context, filter CellFilter) ([]*Cell, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.IDs != nil {
		args = append(args, filter.IDs)
		conditions = append(conditions, fmt.Sprintf("%s = ANY($%d)", schema.YardCell.CellID, len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", schema.YardCell.CategoryID, len(args)))
	}
	if filter.Outside != nil {
		args = append(args, filter.Outside.MapLength, filter.Outside.MapWidth)
		conditions = append(conditions, fmt.Sprintf("(%s > $%d OR %s > $%d)",
			schema.YardCell.PosL, len(args)-1, schema.YardCell.PosW, len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM %s`, cellColumns(), schema.YardCell.Table)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY %s, %s", schema.YardCell.PosL, schema.YardCell.PosW)

	rows, err := repository.tx.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_cells")
	}
	defer rows.Close()

	cells := make([]*Cell, 0)
	for rows.Next() {
		cell := &Cell{}
		if err := rows.Scan(&cell.ID, &cell.Status, &cell.CategoryID, &cell.Name, &cell.CreatedAt, &cell.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_cell")
		}
		cells = append(cells, cell)
	}
	return cells, dberr.Wrap(rows.Err(), "list_cells")
}

/*
InsertCells bulk-creates inactive cells from parallel coordinate arrays.

Description: ON CONFLICT DO NOTHING makes the insert a per-coordinate existence check,
so growth that overlaps cells left by an earlier partial resize never fails.
*/
func (repository *postgresTx) InsertCells(context context.Context, coords []grid.Coord) (int, error) {
	if len(coords) == 0 {
		return 0, nil
	}

	ls := make([]int32, len(coords))
	ws := make([]int32, len(coords))
	for i, coord := range coords {
		ls[i], ws[i] = int32(coord.L), int32(coord.W)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		SELECT c.l::text || '%s' || c.w::text, c.l, c.w, '%s'
		FROM unnest($1::int[], $2::int[]) AS c(l, w)
		ON CONFLICT DO NOTHING
	`,
		schema.YardCell.Table,
		schema.YardCell.CellID, schema.YardCell.PosL, schema.YardCell.PosW, schema.YardCell.Status,
		grid.Separator, StatusInactive,
	)

	tag, err := repository.tx.Exec(context, query, ls, ws)
	if err != nil {
		return 0, dberr.Wrap(err, "insert_cells")
	}
	return int(tag.RowsAffected()), nil
}

// SaveCells sends one UPDATE per cell in a single pipelined batch.
func (repository *postgresTx) SaveCells(context context.Context, cells []*Cell) error {
	if len(cells) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = now() WHERE %s = $1 RETURNING %s`,
		schema.YardCell.Table,
		schema.YardCell.Status, schema.YardCell.CategoryID, schema.YardCell.Name, schema.YardCell.UpdatedAt,
		schema.YardCell.CellID, schema.YardCell.UpdatedAt,
	)

	batch := &pgx.Batch{}
	for _, cell := range cells {
		batch.Queue(query, cell.ID, cell.Status, cell.CategoryID, cell.Name).QueryRow(func(row pgx.Row) error {
			if err := row.Scan(&cell.UpdatedAt); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return apperr.NotFound("Cell", apperr.FieldError{Field: "cell_ids", Message: cell.ID})
				}
				return err
			}
			return nil
		})
	}

	return dberr.Wrap(repository.tx.SendBatch(context, batch).Close(), "save_cells")
}

func (repository *postgresTx) DeleteCells(context context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = ANY($1)`, schema.YardCell.Table, schema.YardCell.CellID)
	tag, err := repository.tx.Exec(context, query, ids)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_cells")
	}
	return int(tag.RowsAffected()), nil
}

// # Categories

// categorySelect reads categories with their live cell count.
func categorySelect() string {
	return fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s,
		       (SELECT count(*) FROM %s x WHERE x.%s = c.%s)
		FROM %s c
	`,
		schema.YardCategory.ID, schema.YardCategory.Name, schema.YardCategory.Color,
		schema.YardCategory.Direction, schema.YardCategory.Description,
		schema.YardCategory.CreatedAt, schema.YardCategory.UpdatedAt,
		schema.YardCell.Table, schema.YardCell.CategoryID, schema.YardCategory.ID,
		schema.YardCategory.Table,
	)
}

func scanCategory(row pgx.Row) (*Category, error) {
	category := &Category{}
	err := row.Scan(
		&category.ID, &category.Name, &category.Color, &category.Direction, &category.Description,
		&category.CreatedAt, &category.UpdatedAt, &category.CellsCount,
	)
	return category, err
}

func (repository *postgresTx) FindCategory(context context.Context, id int64) (*Category, error) {
	query := categorySelect() + fmt.Sprintf(" WHERE c.%s = $1", schema.YardCategory.ID)

	category, err := scanCategory(repository.tx.QueryRow(context, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Category")
	}
	if err != nil {
		return nil, dberr.Wrap(err, "find_category")
	}
	return category, nil
}

func (repository *postgresTx) ListCategories(context context.Context) ([]*Category, error) {
	query := categorySelect() + fmt.Sprintf(" ORDER BY c.%s", schema.YardCategory.ID)

	rows, err := repository.tx.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, category)
	}
	return categories, dberr.Wrap(rows.Err(), "list_categories")
}

func (repository *postgresTx) CategoryNameTaken(context context.Context, name string, excludeID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s <> $2)`,
		schema.YardCategory.Table, schema.YardCategory.Name, schema.YardCategory.ID)

	var taken bool
	if err := repository.tx.QueryRow(context, query, name, excludeID).Scan(&taken); err != nil {
		return false, dberr.Wrap(err, "check_category_name")
	}
	return taken, nil
}

func (repository *postgresTx) CreateCategory(context context.Context, category *Category) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)
		RETURNING %s, %s, %s
	`,
		schema.YardCategory.Table,
		schema.YardCategory.Name, schema.YardCategory.Color, schema.YardCategory.Direction, schema.YardCategory.Description,
		schema.YardCategory.ID, schema.YardCategory.CreatedAt, schema.YardCategory.UpdatedAt,
	)

	err := repository.tx.QueryRow(context, query,
		category.Name, category.Color, category.Direction, category.Description,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	return dberr.Wrap(err, "create_category")
}

func (repository *postgresTx) UpdateCategory(context context.Context, category *Category) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = now()
		WHERE %s = $1
		RETURNING %s, %s
	`,
		schema.YardCategory.Table,
		schema.YardCategory.Name, schema.YardCategory.Color, schema.YardCategory.Direction,
		schema.YardCategory.Description, schema.YardCategory.UpdatedAt,
		schema.YardCategory.ID,
		schema.YardCategory.CreatedAt, schema.YardCategory.UpdatedAt,
	)

	err := repository.tx.QueryRow(context, query,
		category.ID, category.Name, category.Color, category.Direction, category.Description,
	).Scan(&category.CreatedAt, &category.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("Category")
	}
	return dberr.Wrap(err, "update_category")
}

func (repository *postgresTx) DeleteCategory(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.YardCategory.Table, schema.YardCategory.ID)

	tag, err := repository.tx.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_category")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Category")
	}
	return nil
}

func (repository *postgresTx) CountCells(context context.Context, categoryID int64) (int, error) {
	query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`, schema.YardCell.Table, schema.YardCell.CategoryID)

	var count int
	if err := repository.tx.QueryRow(context, query, categoryID).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count_cells")
	}
	return count, nil
}
