package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tgienger/taskboard/internal/board"
	"github.com/tgienger/taskboard/internal/models"
)

// CreateContainer creates an empty container at the end of the scope's list
func (db *DB) CreateContainer(ctx context.Context, scope board.Scope, name string) (*models.Container, error) {
	if scope.IsProject() {
		areaID, err := db.ProjectArea(ctx, scope.ProjectID)
		if err != nil {
			return nil, err
		}
		if scope.AreaID != "" && scope.AreaID != areaID {
			return nil, fmt.Errorf("project %s is not in area %s: %w", scope.ProjectID, scope.AreaID, ErrNotFound)
		}
	} else if scope.AreaID != "" {
		if err := db.checkArea(ctx, scope.AreaID); err != nil {
			return nil, err
		}
	}

	where, args := scopeWhere(scope)
	pos, err := nextPosition(ctx, db, "containers", where, args...)
	if err != nil {
		return nil, err
	}

	id := models.NewContainerID()
	areaID, projectID := scopeColumns(scope)
	if _, err := db.ExecContext(ctx, `
		INSERT INTO containers (id, name, area_id, project_id, position) VALUES (?, ?, ?, ?, ?)
	`, id, name, areaID, projectID, pos); err != nil {
		return nil, err
	}

	return &models.Container{ID: id, Name: name, Tasks: []models.Task{}}, nil
}

// ContainerScope returns the scope a container belongs to
func (db *DB) ContainerScope(ctx context.Context, id models.ID) (board.Scope, error) {
	var areaID, projectID sql.NullString
	err := db.QueryRowContext(ctx, `
		SELECT COALESCE(c.area_id, p.area_id), c.project_id
		FROM containers c LEFT JOIN projects p ON p.id = c.project_id
		WHERE c.id = ?
	`, id).Scan(&areaID, &projectID)
	if errors.Is(err, sql.ErrNoRows) {
		return board.Scope{}, fmt.Errorf("container %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return board.Scope{}, err
	}
	return board.Scope{AreaID: areaID.String, ProjectID: projectID.String}, nil
}

// RenameContainer changes a container's display name
func (db *DB) RenameContainer(ctx context.Context, id models.ID, name string) error {
	res, err := db.ExecContext(ctx, "UPDATE containers SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return err
	}
	return notFound(res, "container", id.String())
}

// DeleteContainer deletes a container and all its tasks
func (db *DB) DeleteContainer(ctx context.Context, id models.ID) error {
	res, err := db.ExecContext(ctx, "DELETE FROM containers WHERE id = ?", id)
	if err != nil {
		return err
	}
	return notFound(res, "container", id.String())
}

func scopeWhere(scope board.Scope) (string, []any) {
	switch {
	case scope.IsProject():
		return "project_id = ?", []any{scope.ProjectID}
	case scope.AreaID != "":
		return "area_id = ?", []any{scope.AreaID}
	}
	return "area_id IS NULL AND project_id IS NULL", nil
}
