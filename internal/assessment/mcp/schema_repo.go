package mcp

import (
	"context"
	"fmt"

	"github.com/2beens/formcheck/internal/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SchemaRepo reads the layout of the assessment tables, so agents can
// reason about what is stored.
type SchemaRepo interface {
	GetAssessmentColumns(ctx context.Context) ([]SchemaColumn, error)
	GetAssessmentIndexes(ctx context.Context) ([]SchemaIndex, error)
}

// SchemaColumn is one row of information_schema.columns.
type SchemaColumn struct {
	TableName  string
	ColumnName string
	DataType   string
	IsNullable string
	ColumnDef  *string
}

// SchemaIndex is one row of pg_indexes.
type SchemaIndex struct {
	TableName  string
	IndexName  string
	Definition string
}

type poolSchemaRepo struct {
	pool *pgxpool.Pool
}

func NewPoolSchemaRepo(pool *pgxpool.Pool) SchemaRepo {
	return &poolSchemaRepo{pool: pool}
}

func (r *poolSchemaRepo) GetAssessmentColumns(ctx context.Context) ([]SchemaColumn, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT table_name, column_name, data_type, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = ANY($1)
		ORDER BY table_name, ordinal_position`,
		db.AssessmentTables,
	)
	if err != nil {
		return nil, fmt.Errorf("query information_schema: %w", err)
	}

	cols, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (SchemaColumn, error) {
		var c SchemaColumn
		err := row.Scan(&c.TableName, &c.ColumnName, &c.DataType, &c.IsNullable, &c.ColumnDef)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect columns: %w", err)
	}
	return cols, nil
}

func (r *poolSchemaRepo) GetAssessmentIndexes(ctx context.Context) ([]SchemaIndex, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT tablename, indexname, indexdef
		FROM pg_indexes
		WHERE schemaname = 'public' AND tablename = ANY($1)
		ORDER BY tablename, indexname`,
		db.AssessmentTables,
	)
	if err != nil {
		return nil, fmt.Errorf("query pg_indexes: %w", err)
	}

	indexes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (SchemaIndex, error) {
		var idx SchemaIndex
		err := row.Scan(&idx.TableName, &idx.IndexName, &idx.Definition)
		return idx, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect indexes: %w", err)
	}
	return indexes, nil
}
