package store

import (
	"context"
	"fmt"

	"intake/internal/utils"
	"intake/pkg/types"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uploadsTable = "uploads"

var uploadsColumns = utils.StructTagValues(types.UploadRow{})

func psql() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

type SubmissionRepository struct {
	pool *pgxpool.Pool
}

func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// Insert records one accepted submission. Single insert, no update or
// delete path.
func (r *SubmissionRepository) Insert(ctx context.Context, row types.UploadRow) error {
	query, args, err := psql().
		Insert(uploadsTable).
		SetMap(utils.StructToMap(row)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build submission insert: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert submission %q: %w", row.ID, err)
	}

	return nil
}

// Count returns the number of recorded submissions. Diagnostic surface
// only; not part of the submission pipeline.
func (r *SubmissionRepository) Count(ctx context.Context) (int64, error) {
	query, args, err := psql().
		Select("count(*)").
		From(uploadsTable).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build submission count: %w", err)
	}

	var count int64
	if err := pgxscan.Get(ctx, r.pool, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}

	return count, nil
}

func recentQuery(limit uint64) (string, []any, error) {
	return psql().
		Select(uploadsColumns...).
		From(uploadsTable).
		OrderBy("created_at DESC").
		Limit(limit).
		ToSql()
}

// Recent returns the newest rows, most recent first.
func (r *SubmissionRepository) Recent(ctx context.Context, limit uint64) ([]types.UploadRow, error) {
	query, args, err := recentQuery(limit)
	if err != nil {
		return nil, fmt.Errorf("build recent submissions query: %w", err)
	}

	var rows []types.UploadRow
	if err := pgxscan.Select(ctx, r.pool, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select recent submissions: %w", err)
	}

	return rows, nil
}
