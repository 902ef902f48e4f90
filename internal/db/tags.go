package db

import (
	"context"
	"database/sql"

	"github.com/tgienger/taskboard/internal/models"
)

// GetTaskTags returns the tags of a task in name order
func (db *DB) GetTaskTags(ctx context.Context, taskID models.ID) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT tag FROM task_tags WHERE task_id = ? ORDER BY tag", taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// ListTags returns every distinct tag in use
func (db *DB) ListTags(ctx context.Context) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT DISTINCT tag FROM task_tags ORDER BY tag")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// setTaskTags replaces the tag set of a task
func setTaskTags(ctx context.Context, tx *sql.Tx, taskID models.ID, tags []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM task_tags WHERE task_id = ?", taskID); err != nil {
		return err
	}
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO task_tags (task_id, tag) VALUES (?, ?)
		`, taskID, tag); err != nil {
			return err
		}
	}
	return nil
}
