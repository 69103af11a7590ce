// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cellinfo

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
)

// PostgresRepository implements [Repository] on PostgreSQL.
//
// Records are removed by ON DELETE CASCADE when a resize drops their cell.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository wraps a connected pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(context context.Context, sql string, args ...any) pgx.Row
}

func infoColumns() string {
	return strings.Join(schema.YardCellInfo.Columns(), ", ")
}

func scanInfo(row pgx.Row) (*Info, error) {
	info := &Info{}
	err := row.Scan(
		&info.ID, &info.CellID, &info.ShippingLine, &info.Size, &info.Type,
		&info.CellStatus, &info.CreatedAt, &info.UpdatedAt,
	)
	return info, err
}

func (repository *PostgresRepository) List(context context.Context) ([]*Info, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s`,
		infoColumns(), schema.YardCellInfo.Table, schema.YardCellInfo.ID)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_cell_info")
	}
	defer rows.Close()

	records := make([]*Info, 0)
	for rows.Next() {
		info, err := scanInfo(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_cell_info")
		}
		records = append(records, info)
	}
	return records, dberr.Wrap(rows.Err(), "list_cell_info")
}

func findByCell(context context.Context, db querier, cellID string, lock bool) (*Info, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		infoColumns(), schema.YardCellInfo.Table, schema.YardCellInfo.CellID)
	if lock {
		query += " FOR UPDATE"
	}

	info, err := scanInfo(db.QueryRow(context, query, cellID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errInfoNotFound(cellID)
	}
	if err != nil {
		return nil, dberr.Wrap(err, "find_cell_info")
	}
	return info, nil
}

func (repository *PostgresRepository) FindByCell(context context.Context, cellID string) (*Info, error) {
	return findByCell(context, repository.pool, cellID, false)
}

func cellExists(context context.Context, db querier, cellID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.YardCell.Table, schema.YardCell.CellID)

	var exists bool
	if err := db.QueryRow(context, query, cellID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "check_cell")
	}
	return exists, nil
}

func (repository *PostgresRepository) CellExists(context context.Context, cellID string) (bool, error) {
	return cellExists(context, repository.pool, cellID)
}

func (repository *PostgresRepository) Create(context context.Context, info *Info) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s, %s
	`,
		schema.YardCellInfo.Table,
		schema.YardCellInfo.CellID, schema.YardCellInfo.ShippingLine, schema.YardCellInfo.Size,
		schema.YardCellInfo.Type, schema.YardCellInfo.CellStatus,
		schema.YardCellInfo.ID, schema.YardCellInfo.CreatedAt, schema.YardCellInfo.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		info.CellID, info.ShippingLine, info.Size, info.Type, info.CellStatus,
	).Scan(&info.ID, &info.CreatedAt, &info.UpdatedAt)
	return dberr.Wrap(err, "create_cell_info")
}

func (repository *PostgresRepository) Update(context context.Context, info *Info) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = now()
		WHERE %s = $1
		RETURNING %s, %s, %s
	`,
		schema.YardCellInfo.Table,
		schema.YardCellInfo.ShippingLine, schema.YardCellInfo.Size, schema.YardCellInfo.Type,
		schema.YardCellInfo.CellStatus, schema.YardCellInfo.UpdatedAt,
		schema.YardCellInfo.CellID,
		schema.YardCellInfo.ID, schema.YardCellInfo.CreatedAt, schema.YardCellInfo.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		info.CellID, info.ShippingLine, info.Size, info.Type, info.CellStatus,
	).Scan(&info.ID, &info.CreatedAt, &info.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return errInfoNotFound(info.CellID)
	}
	return dberr.Wrap(err, "update_cell_info")
}

func (repository *PostgresRepository) Delete(context context.Context, cellID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.YardCellInfo.Table, schema.YardCellInfo.CellID)

	tag, err := repository.pool.Exec(context, query, cellID)
	if err != nil {
		return dberr.Wrap(err, "delete_cell_info")
	}
	if tag.RowsAffected() == 0 {
		return errInfoNotFound(cellID)
	}
	return nil
}

/*
Move re-homes the record of from onto to.

Description: The source row is locked first, then the target cell is checked for
existence and vacancy before the record's cell_id is rewritten. The UNIQUE constraint
on cell_id still guards the target against a concurrent create.

Returns:
  - *Info: The record as stored under its new cell
  - error: NOT_FOUND for a missing source record or target cell, CONFLICT for an occupied target
*/
func (repository *PostgresRepository) Move(context context.Context, from, to string) (*Info, error) {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "begin_cell_info_move")
	}
	defer transaction.Rollback(context)

	if _, err := findByCell(context, transaction, from, true); err != nil {
		return nil, err
	}

	exists, err := cellExists(context, transaction, to)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errCellNotFound(to)
	}

	if _, err := findByCell(context, transaction, to, true); err == nil {
		return nil, errCellOccupied(to)
	} else if !apperr.HasCode(err, "NOT_FOUND") {
		return nil, err
	}

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = now() WHERE %s = $1
		RETURNING %s
	`,
		schema.YardCellInfo.Table,
		schema.YardCellInfo.CellID, schema.YardCellInfo.UpdatedAt, schema.YardCellInfo.CellID,
		infoColumns(),
	)

	moved, err := scanInfo(transaction.QueryRow(context, query, from, to))
	if err != nil {
		return nil, dberr.Wrap(err, "move_cell_info")
	}

	if err := transaction.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "commit_cell_info_move")
	}
	return moved, nil
}
