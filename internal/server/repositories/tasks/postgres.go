// Package tasks provides PostgreSQL-backed storage for owner-scoped tasks.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

const taskColumns = `id, user_id, title, description, completed, created_at, updated_at`

// bumpUpdatedAt keeps updated_at strictly increasing even when two writes
// land within the same transaction timestamp.
const bumpUpdatedAt = `updated_at = GREATEST(now(), updated_at + interval '1 microsecond')`

// PostgresRepository implements task storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*models.Task, error) {
	var (
		t    models.Task
		desc sql.NullString
	)
	if err := s.Scan(&t.ID, &t.UserID, &t.Title, &desc, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if desc.Valid {
		t.Description = &desc.String
	}
	return &t, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// singleRow scans the one row returned by an owner-scoped statement; no row
// means the task does not exist for this owner.
func singleRow(row *sql.Row) (*models.Task, error) {
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

// Create inserts task with completed=false and returns the stored row.
func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query := `
		INSERT INTO tasks (user_id, title, description)
		VALUES ($1, $2, $3)
		RETURNING ` + taskColumns

	t, err := scanTask(r.db.QueryRowContext(ctx, query, task.UserID, task.Title, nullable(task.Description)))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

// ListByOwner returns all tasks of userID, newest first. No tasks yields an
// empty slice.
func (r *PostgresRepository) ListByOwner(ctx context.Context, userID int64) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetByIDAndOwner(ctx context.Context, id, userID int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE id = $1 AND user_id = $2`

	return singleRow(r.db.QueryRowContext(ctx, query, id, userID))
}

// Update overwrites title and description of the task identified by
// task.ID and task.UserID.
func (r *PostgresRepository) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	query := `
		UPDATE tasks SET title = $3, description = $4, ` + bumpUpdatedAt + `
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns

	return singleRow(r.db.QueryRowContext(ctx, query, task.ID, task.UserID, task.Title, nullable(task.Description)))
}

// Toggle flips completed in a single statement.
func (r *PostgresRepository) Toggle(ctx context.Context, id, userID int64) (*models.Task, error) {
	query := `
		UPDATE tasks SET completed = NOT completed, ` + bumpUpdatedAt + `
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns

	return singleRow(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID int64) error {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
