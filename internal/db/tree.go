package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tgienger/taskboard/internal/board"
	"github.com/tgienger/taskboard/internal/models"
)

// LoadTree reads the whole board, every sequence in position order
func (db *DB) LoadTree(ctx context.Context) (models.Tree, error) {
	tree := models.Tree{Main: []models.Container{}, Areas: []models.Area{}}

	tasks, err := db.loadTasks(ctx)
	if err != nil {
		return tree, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT c.id, c.name, c.area_id, c.project_id
		FROM containers c
		ORDER BY c.position, c.created_at, c.id
	`)
	if err != nil {
		return tree, fmt.Errorf("load containers: %w", err)
	}
	byArea := map[string][]models.Container{}
	byProject := map[string][]models.Container{}
	for rows.Next() {
		var (
			c                 models.Container
			areaID, projectID sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &areaID, &projectID); err != nil {
			rows.Close()
			return tree, err
		}
		c.Tasks = tasks[c.ID]
		if c.Tasks == nil {
			c.Tasks = []models.Task{}
		}
		switch {
		case projectID.Valid:
			byProject[projectID.String] = append(byProject[projectID.String], c)
		case areaID.Valid:
			byArea[areaID.String] = append(byArea[areaID.String], c)
		default:
			tree.Main = append(tree.Main, c)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return tree, err
	}

	projects, err := db.loadProjects(ctx, byProject)
	if err != nil {
		return tree, err
	}

	rows, err = db.QueryContext(ctx, "SELECT id, name FROM areas ORDER BY position, created_at, id")
	if err != nil {
		return tree, fmt.Errorf("load areas: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a models.Area
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return tree, err
		}
		a.Containers = byArea[a.ID]
		if a.Containers == nil {
			a.Containers = []models.Container{}
		}
		a.Projects = projects[a.ID]
		if a.Projects == nil {
			a.Projects = []models.Project{}
		}
		tree.Areas = append(tree.Areas, a)
	}
	return tree, rows.Err()
}

func (db *DB) loadProjects(ctx context.Context, containers map[string][]models.Container) (map[string][]models.Project, error) {
	rows, err := db.QueryContext(ctx, "SELECT id, area_id, name FROM projects ORDER BY position, created_at, id")
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	defer rows.Close()

	byArea := map[string][]models.Project{}
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.AreaID, &p.Name); err != nil {
			return nil, err
		}
		p.Containers = containers[p.ID]
		if p.Containers == nil {
			p.Containers = []models.Container{}
		}
		byArea[p.AreaID] = append(byArea[p.AreaID], p)
	}
	return byArea, rows.Err()
}

// loadTasks returns every task grouped by container, in position order
func (db *DB) loadTasks(ctx context.Context) (map[models.ID][]models.Task, error) {
	tags := map[models.ID][]string{}
	rows, err := db.QueryContext(ctx, "SELECT task_id, tag FROM task_tags ORDER BY tag")
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	for rows.Next() {
		var (
			id  models.ID
			tag string
		)
		if err := rows.Scan(&id, &tag); err != nil {
			rows.Close()
			return nil, err
		}
		tags[id] = append(tags[id], tag)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx, "SELECT "+taskColumns+" FROM tasks ORDER BY position, created_at, id")
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	defer rows.Close()

	byContainer := map[models.ID][]models.Task{}
	for rows.Next() {
		t, containerID, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		if tt, ok := tags[t.ID]; ok {
			t.Tags = tt
		}
		byContainer[containerID] = append(byContainer[containerID], t)
	}
	return byContainer, rows.Err()
}

// SaveContainers persists a merged-back container list for scope: each
// container's scope and position and each task's container and position.
// Containers or tasks absent from the list are left alone.
func (db *DB) SaveContainers(ctx context.Context, scope board.Scope, containers []models.Container) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	areaID, projectID := scopeColumns(scope)
	for i, c := range containers {
		res, err := tx.ExecContext(ctx, `
			UPDATE containers SET area_id = ?, project_id = ?, position = ? WHERE id = ?
		`, areaID, projectID, i, c.ID)
		if err != nil {
			return fmt.Errorf("save container %s: %w", c.ID, err)
		}
		if err := notFound(res, "container", c.ID.String()); err != nil {
			return err
		}

		for j, t := range c.Tasks {
			res, err := tx.ExecContext(ctx, `
				UPDATE tasks SET container_id = ?, position = ? WHERE id = ?
			`, c.ID, j, t.ID)
			if err != nil {
				return fmt.Errorf("save task %s: %w", t.ID, err)
			}
			if err := notFound(res, "task", t.ID.String()); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}
