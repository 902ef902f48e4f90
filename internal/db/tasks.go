package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tgienger/taskboard/internal/models"
)

const taskColumns = `id, container_id, title, description, priority, status,
	created_at, completed_at, due_at, exp, gold`

// CreateTask appends a task to the end of a container. A zero ID or creation
// time is filled in.
func (db *DB) CreateTask(ctx context.Context, containerID models.ID, task models.Task) (*models.Task, error) {
	if task.ID.IsZero() {
		task.ID = models.NewTaskID()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Status == "" {
		task.Status = models.StatusToDo
	}
	task.Tags = models.NormalizeTags(task.Tags)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM containers WHERE id = ?", containerID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("container %s: %w", containerID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	pos, err := nextPosition(ctx, tx, "tasks", "container_id = ?", containerID)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (id, container_id, position, title, description, priority, status,
			created_at, completed_at, due_at, exp, gold)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, task.ID, containerID, pos, task.Title, task.Description, string(task.Priority), string(task.Status),
		task.CreatedAt, task.CompletedAt, task.DueAt, task.Exp, task.Gold)
	if err != nil {
		return nil, err
	}

	if err := setTaskTags(ctx, tx, task.ID, task.Tags); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask retrieves a task by ID with its tags
func (db *DB) GetTask(ctx context.Context, id models.ID) (*models.Task, error) {
	row := db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	t, _, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	tags, err := db.GetTaskTags(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Tags = tags
	return &t, nil
}

// UpdateTask saves every editable field of a task. Moving a task between
// containers goes through SaveContainers instead.
func (db *DB) UpdateTask(ctx context.Context, task models.Task) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, priority = ?, status = ?,
			completed_at = ?, due_at = ?, exp = ?, gold = ?
		WHERE id = ?
	`, task.Title, task.Description, string(task.Priority), string(task.Status),
		task.CompletedAt, task.DueAt, task.Exp, task.Gold, task.ID)
	if err != nil {
		return err
	}
	if err := notFound(res, "task", task.ID.String()); err != nil {
		return err
	}

	if err := setTaskTags(ctx, tx, task.ID, models.NormalizeTags(task.Tags)); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteTask deletes a task
func (db *DB) DeleteTask(ctx context.Context, id models.ID) error {
	res, err := db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return err
	}
	return notFound(res, "task", id.String())
}

type scanner interface {
	Scan(dest ...any) error
}

// scanTask reads one row of taskColumns, returning the owning container id too
func scanTask(row scanner) (models.Task, models.ID, error) {
	var (
		t           models.Task
		containerID models.ID
		priority    string
		status      string
		completedAt sql.NullTime
		dueAt       sql.NullTime
		exp, gold   sql.NullInt64
	)
	err := row.Scan(&t.ID, &containerID, &t.Title, &t.Description, &priority, &status,
		&t.CreatedAt, &completedAt, &dueAt, &exp, &gold)
	if err != nil {
		return t, containerID, err
	}

	t.Priority = models.Priority(priority)
	t.Status = models.Status(status)
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	if dueAt.Valid {
		t.DueAt = &dueAt.Time
	}
	if exp.Valid {
		v := int(exp.Int64)
		t.Exp = &v
	}
	if gold.Valid {
		v := int(gold.Int64)
		t.Gold = &v
	}
	t.Tags = []string{}
	return t, containerID, nil
}
