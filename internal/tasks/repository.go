package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskloom/taskloom/internal/platform/httpx"
)

// Repository defines persistence operations for the tasks module. Every
// query is conditioned on the owner so one user's rows are invisible to
// another; a mismatch surfaces as ErrNotFound, never as someone else's
// data.
type Repository interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]Task, error)
	Create(ctx context.Context, ownerID int64, title string, completed bool) (*Task, error)
	Update(ctx context.Context, ownerID, id int64, req UpdateTaskRequest) (*Task, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) ListByOwner(ctx context.Context, ownerID int64) ([]Task, error) {
	const query = `
		SELECT id, title, completed, owner_id, created_at, updated_at
		FROM tasks
		WHERE owner_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("tasks: list: %w", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		var (
			t                    Task
			createdAt, updatedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed, &t.OwnerID, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("tasks: scan: %w", err)
		}
		t.CreatedAt = createdAt.Time
		t.UpdatedAt = updatedAt.Time
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PGRepository) Create(ctx context.Context, ownerID int64, title string, completed bool) (*Task, error) {
	const query = `
		INSERT INTO tasks (title, completed, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, title, completed, owner_id, created_at, updated_at
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, title, completed, ownerID))
}

// Update applies the provided fields. The owner_id condition makes an
// update of a foreign or missing task match zero rows, which maps to
// ErrNotFound rather than a silent success.
func (r *PGRepository) Update(ctx context.Context, ownerID, id int64, req UpdateTaskRequest) (*Task, error) {
	query := "UPDATE tasks SET updated_at = now()"
	var args []interface{}
	argPos := 1

	if req.Title != nil {
		query += fmt.Sprintf(", title = $%d", argPos)
		args = append(args, *req.Title)
		argPos++
	}
	if req.Completed != nil {
		query += fmt.Sprintf(", completed = $%d", argPos)
		args = append(args, *req.Completed)
		argPos++
	}

	query += fmt.Sprintf(" WHERE id = $%d AND owner_id = $%d", argPos, argPos+1)
	query += " RETURNING id, title, completed, owner_id, created_at, updated_at"
	args = append(args, id, ownerID)

	return r.scanOne(r.pool.QueryRow(ctx, query, args...))
}

func (r *PGRepository) Delete(ctx context.Context, ownerID, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1 AND owner_id = $2", id, ownerID)
	if err != nil {
		return fmt.Errorf("tasks: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *PGRepository) scanOne(row pgx.Row) (*Task, error) {
	var (
		t                    Task
		createdAt, updatedAt pgtype.Timestamptz
	)
	err := row.Scan(&t.ID, &t.Title, &t.Completed, &t.OwnerID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("tasks: scan: %w", err)
	}
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time
	return &t, nil
}

var _ Repository = (*PGRepository)(nil)
