package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tgienger/taskboard/internal/models"
)

// CreateArea creates a new area at the end of the area list
func (db *DB) CreateArea(ctx context.Context, name string) (*models.Area, error) {
	pos, err := nextPosition(ctx, db, "areas", "1 = 1")
	if err != nil {
		return nil, err
	}

	id := newID("area")
	if _, err := db.ExecContext(ctx, `
		INSERT INTO areas (id, name, position) VALUES (?, ?, ?)
	`, id, name, pos); err != nil {
		return nil, err
	}

	return &models.Area{ID: id, Name: name, Containers: []models.Container{}, Projects: []models.Project{}}, nil
}

// RenameArea changes an area's name
func (db *DB) RenameArea(ctx context.Context, id, name string) error {
	res, err := db.ExecContext(ctx, "UPDATE areas SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return err
	}
	return notFound(res, "area", id)
}

// DeleteArea deletes an area with its projects, containers and tasks
func (db *DB) DeleteArea(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, "DELETE FROM areas WHERE id = ?", id)
	if err != nil {
		return err
	}
	return notFound(res, "area", id)
}

// CreateProject creates a new project at the end of an area's projects
func (db *DB) CreateProject(ctx context.Context, areaID, name string) (*models.Project, error) {
	if err := db.checkArea(ctx, areaID); err != nil {
		return nil, err
	}

	pos, err := nextPosition(ctx, db, "projects", "area_id = ?", areaID)
	if err != nil {
		return nil, err
	}

	id := newID("project")
	if _, err := db.ExecContext(ctx, `
		INSERT INTO projects (id, area_id, name, position) VALUES (?, ?, ?, ?)
	`, id, areaID, name, pos); err != nil {
		return nil, err
	}

	return &models.Project{ID: id, Name: name, AreaID: areaID, Containers: []models.Container{}}, nil
}

// checkArea reports ErrNotFound when no area has the given id
func (db *DB) checkArea(ctx context.Context, areaID string) error {
	var exists int
	err := db.QueryRowContext(ctx, "SELECT 1 FROM areas WHERE id = ?", areaID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("area %s: %w", areaID, ErrNotFound)
	}
	return err
}

// ProjectArea returns the id of the area owning a project
func (db *DB) ProjectArea(ctx context.Context, projectID string) (string, error) {
	var areaID string
	err := db.QueryRowContext(ctx, "SELECT area_id FROM projects WHERE id = ?", projectID).Scan(&areaID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	return areaID, err
}

// DeleteProject deletes a project with its containers and tasks
func (db *DB) DeleteProject(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return err
	}
	return notFound(res, "project", id)
}
