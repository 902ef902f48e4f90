package db

import (
	"context"
	"fmt"

	"github.com/tgienger/taskboard/internal/board"
	"github.com/tgienger/taskboard/internal/models"
)

var standardColumns = []string{"To-Do", "In Progress", "Done"}

type seedTask struct {
	column   string
	title    string
	desc     string
	priority models.Priority
	status   models.Status
}

type seedScope struct {
	project string // empty: the area's own containers
	tasks   []seedTask
}

type seedArea struct {
	name   string
	scopes []seedScope
}

var sampleBoard = []seedArea{
	{
		name: "Work",
		scopes: []seedScope{
			{project: "Frontend Development", tasks: []seedTask{
				{"To-Do", "Implement Login", "Set up authentication", models.PriorityHigh, models.StatusInProgress},
				{"In Progress", "Build Dashboard UI", "Create the Kanban board layout", models.PriorityHigh, models.StatusInProgress},
				{"Done", "Fix API Bug", "Resolve 500 error when fetching tasks", models.PriorityMedium, models.StatusCompleted},
			}},
			{tasks: []seedTask{
				{"To-Do", "Prepare Report", "Compile monthly work performance data", models.PriorityHigh, models.StatusToDo},
				{"In Progress", "Email Clients", "Respond to pending emails", models.PriorityMedium, models.StatusInProgress},
			}},
		},
	},
	{
		name: "Personal",
		scopes: []seedScope{
			{project: "Fitness Tracker", tasks: []seedTask{
				{"To-Do", "Workout Session", "Morning yoga and stretching", models.PriorityMedium, models.StatusToDo},
				{"In Progress", "Meal Prep", "Prepare healthy meals for the week", models.PriorityLow, models.StatusInProgress},
				{"Done", "Evening Walk", "Go for a 30-minute walk", models.PriorityLow, models.StatusCompleted},
			}},
			{tasks: []seedTask{
				{"To-Do", "Grocery Shopping", "Buy fruits, vegetables, and milk", models.PriorityMedium, models.StatusToDo},
				{"Done", "Read a Book", "Finish the last chapter of 'Atomic Habits'", models.PriorityLow, models.StatusCompleted},
			}},
		},
	},
}

// Seed fills the database with the sample Work and Personal areas, each with
// a project and To-Do / In Progress / Done columns
func (db *DB) Seed(ctx context.Context) error {
	for _, sa := range sampleBoard {
		area, err := db.CreateArea(ctx, sa.name)
		if err != nil {
			return fmt.Errorf("seed area %s: %w", sa.name, err)
		}

		for _, ss := range sa.scopes {
			scope := board.AreaScope(area.ID)
			if ss.project != "" {
				project, err := db.CreateProject(ctx, area.ID, ss.project)
				if err != nil {
					return fmt.Errorf("seed project %s: %w", ss.project, err)
				}
				scope = board.ProjectScope(area.ID, project.ID)
			}

			columns := map[string]models.ID{}
			for _, name := range standardColumns {
				c, err := db.CreateContainer(ctx, scope, name)
				if err != nil {
					return fmt.Errorf("seed container %s: %w", name, err)
				}
				columns[name] = c.ID
			}

			for _, st := range ss.tasks {
				_, err := db.CreateTask(ctx, columns[st.column], models.Task{
					Title:       st.title,
					Description: st.desc,
					Priority:    st.priority,
					Status:      st.status,
				})
				if err != nil {
					return fmt.Errorf("seed task %s: %w", st.title, err)
				}
			}
		}
	}
	return nil
}
