package db

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/tgienger/taskboard/internal/board"
	"github.com/tgienger/taskboard/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func taskTitles(c models.Container) []string {
	titles := []string{}
	for _, t := range c.Tasks {
		titles = append(titles, t.Title)
	}
	return titles
}

func TestSettings(t *testing.T) {
	database := openTestDB(t)

	if v, err := database.GetSetting("missing"); err != nil || v != "" {
		t.Fatalf("expected empty setting, got %q, %v", v, err)
	}
	if err := database.SetSetting("k", "1"); err != nil {
		t.Fatal(err)
	}
	if err := database.SetSetting("k", "2"); err != nil {
		t.Fatal(err)
	}
	if v, _ := database.GetSetting("k"); v != "2" {
		t.Errorf("expected 2, got %q", v)
	}

	scope := board.ProjectScope("a", "p")
	if err := database.SaveScope(scope); err != nil {
		t.Fatal(err)
	}
	if got, err := database.LastScope(); err != nil || got != scope {
		t.Errorf("LastScope = %+v, %v", got, err)
	}
}

func TestLoadTree_Empty(t *testing.T) {
	database := openTestDB(t)

	tree, err := database.LoadTree(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Main) != 0 || len(tree.Areas) != 0 {
		t.Errorf("expected empty tree, got %+v", tree)
	}
}

func TestCreateAndLoadTree(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	area, err := database.CreateArea(ctx, "Work")
	if err != nil {
		t.Fatal(err)
	}
	project, err := database.CreateProject(ctx, area.ID, "Frontend")
	if err != nil {
		t.Fatal(err)
	}
	inbox, err := database.CreateContainer(ctx, board.MainScope(), "Inbox")
	if err != nil {
		t.Fatal(err)
	}
	todo, _ := database.CreateContainer(ctx, board.AreaScope(area.ID), "To-Do")
	_, _ = database.CreateContainer(ctx, board.AreaScope(area.ID), "Done")
	ptodo, err := database.CreateContainer(ctx, board.ProjectScope(area.ID, project.ID), "Backlog")
	if err != nil {
		t.Fatal(err)
	}

	due := time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)
	exp := 10
	created, err := database.CreateTask(ctx, todo.ID, models.Task{
		Title:    "Write report",
		Tags:     []string{"writing", "q4", "writing"},
		Priority: models.PriorityHigh,
		DueAt:    &due,
		Exp:      &exp,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !created.ID.IsTask() {
		t.Errorf("expected generated task id, got %q", created.ID)
	}
	_, _ = database.CreateTask(ctx, todo.ID, models.Task{Title: "Email clients"})
	_, _ = database.CreateTask(ctx, inbox.ID, models.Task{Title: "Call mom"})
	_, _ = database.CreateTask(ctx, ptodo.ID, models.Task{Title: "Login page"})

	tree, err := database.LoadTree(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if len(tree.Main) != 1 || !reflect.DeepEqual(taskTitles(tree.Main[0]), []string{"Call mom"}) {
		t.Errorf("unexpected main: %+v", tree.Main)
	}
	if len(tree.Areas) != 1 {
		t.Fatalf("expected 1 area, got %d", len(tree.Areas))
	}
	work := tree.Areas[0]
	if len(work.Containers) != 2 || work.Containers[0].Name != "To-Do" || work.Containers[1].Name != "Done" {
		t.Fatalf("unexpected area containers: %+v", work.Containers)
	}
	if got := taskTitles(work.Containers[0]); !reflect.DeepEqual(got, []string{"Write report", "Email clients"}) {
		t.Errorf("unexpected task order %v", got)
	}
	if len(work.Projects) != 1 || work.Projects[0].AreaID != area.ID {
		t.Fatalf("unexpected projects: %+v", work.Projects)
	}
	if got := taskTitles(work.Projects[0].Containers[0]); !reflect.DeepEqual(got, []string{"Login page"}) {
		t.Errorf("unexpected project tasks %v", got)
	}

	report := work.Containers[0].Tasks[0]
	if !reflect.DeepEqual(report.Tags, []string{"q4", "writing"}) {
		t.Errorf("unexpected tags %v", report.Tags)
	}
	if report.Priority != models.PriorityHigh || report.Status != models.StatusToDo {
		t.Errorf("unexpected priority/status %q/%q", report.Priority, report.Status)
	}
	if report.DueAt == nil || !report.DueAt.Equal(due) {
		t.Errorf("unexpected due %v", report.DueAt)
	}
	if report.Exp == nil || *report.Exp != 10 || report.Gold != nil {
		t.Errorf("unexpected rewards %v %v", report.Exp, report.Gold)
	}
}

func TestSaveContainers_PersistsDrag(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	area, _ := database.CreateArea(ctx, "Work")
	todo, _ := database.CreateContainer(ctx, board.AreaScope(area.ID), "To-Do")
	done, _ := database.CreateContainer(ctx, board.AreaScope(area.ID), "Done")
	_, _ = database.CreateTask(ctx, todo.ID, models.Task{Title: "A"})
	_, _ = database.CreateTask(ctx, todo.ID, models.Task{Title: "B"})
	_, _ = database.CreateTask(ctx, done.ID, models.Task{Title: "C"})

	tree, err := database.LoadTree(ctx)
	if err != nil {
		t.Fatal(err)
	}
	b := board.New(tree)
	b.SelectArea(area.ID)

	a := tree.Areas[0].Containers[0].Tasks[0]
	c := tree.Areas[0].Containers[1].Tasks[0]
	b.DragStart(a.ID)
	containers, changed := b.DragEnd(c.ID)
	if !changed {
		t.Fatal("expected change")
	}
	if err := database.SaveContainers(ctx, b.Scope(), containers); err != nil {
		t.Fatal(err)
	}

	// then reorder the columns
	b.DragStart(done.ID)
	containers, _ = b.DragEnd(todo.ID)
	if err := database.SaveContainers(ctx, b.Scope(), containers); err != nil {
		t.Fatal(err)
	}

	reloaded, err := database.LoadTree(ctx)
	if err != nil {
		t.Fatal(err)
	}
	got := reloaded.Areas[0].Containers
	if got[0].Name != "Done" || got[1].Name != "To-Do" {
		t.Fatalf("unexpected container order %s, %s", got[0].Name, got[1].Name)
	}
	if titles := taskTitles(got[0]); !reflect.DeepEqual(titles, []string{"A", "C"}) {
		t.Errorf("Done = %v", titles)
	}
	if titles := taskTitles(got[1]); !reflect.DeepEqual(titles, []string{"B"}) {
		t.Errorf("To-Do = %v", titles)
	}
}

func TestSaveContainers_UnknownRollsBack(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	c1, _ := database.CreateContainer(ctx, board.MainScope(), "One")
	c2, _ := database.CreateContainer(ctx, board.MainScope(), "Two")

	ghost := models.Container{ID: models.NewContainerID(), Name: "ghost"}
	err := database.SaveContainers(ctx, board.MainScope(), []models.Container{*c2, *c1, ghost})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	tree, _ := database.LoadTree(ctx)
	if tree.Main[0].Name != "One" {
		t.Errorf("expected rollback to keep original order, got %s first", tree.Main[0].Name)
	}
}

func TestUpdateAndDeleteTask(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	c, _ := database.CreateContainer(ctx, board.MainScope(), "Inbox")
	task, _ := database.CreateTask(ctx, c.ID, models.Task{Title: "Draft", Tags: []string{"x"}})

	now := time.Now().UTC().Truncate(time.Second)
	task.Title = "Final"
	task.Status = models.StatusCompleted
	task.CompletedAt = &now
	task.Tags = []string{"y"}
	if err := database.UpdateTask(ctx, *task); err != nil {
		t.Fatal(err)
	}

	got, err := database.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Final" || got.Status != models.StatusCompleted || got.CompletedAt == nil {
		t.Errorf("unexpected task %+v", got)
	}
	if !reflect.DeepEqual(got.Tags, []string{"y"}) {
		t.Errorf("unexpected tags %v", got.Tags)
	}

	if err := database.DeleteTask(ctx, task.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := database.GetTask(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := database.DeleteTask(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestCascadeDelete(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	area, _ := database.CreateArea(ctx, "Work")
	project, _ := database.CreateProject(ctx, area.ID, "P")
	c, _ := database.CreateContainer(ctx, board.ProjectScope(area.ID, project.ID), "Todo")
	task, _ := database.CreateTask(ctx, c.ID, models.Task{Title: "t"})

	if err := database.DeleteArea(ctx, area.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := database.GetTask(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected task removed with its area, got %v", err)
	}
	if _, err := database.ContainerScope(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected container removed with its area, got %v", err)
	}
}

func TestCreateErrors(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	if _, err := database.CreateProject(ctx, "area-missing", "P"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for project in missing area, got %v", err)
	}
	if _, err := database.CreateTask(ctx, models.NewContainerID(), models.Task{Title: "t"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for task in missing container, got %v", err)
	}
	if _, err := database.CreateContainer(ctx, board.ProjectScope("", "project-missing"), "c"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for container in missing project, got %v", err)
	}
	if _, err := database.CreateContainer(ctx, board.AreaScope("area-missing"), "c"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for container in missing area, got %v", err)
	}
}

func TestContainerScope(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	area, _ := database.CreateArea(ctx, "Work")
	project, _ := database.CreateProject(ctx, area.ID, "P")
	mc, _ := database.CreateContainer(ctx, board.MainScope(), "m")
	ac, _ := database.CreateContainer(ctx, board.AreaScope(area.ID), "a")
	pc, _ := database.CreateContainer(ctx, board.ProjectScope(area.ID, project.ID), "p")

	tests := []struct {
		id   models.ID
		want board.Scope
	}{
		{mc.ID, board.MainScope()},
		{ac.ID, board.AreaScope(area.ID)},
		{pc.ID, board.ProjectScope(area.ID, project.ID)},
	}
	for _, tt := range tests {
		got, err := database.ContainerScope(ctx, tt.id)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("ContainerScope(%s) = %+v, want %+v", tt.id, got, tt.want)
		}
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	if err := database.Seed(ctx); err != nil {
		t.Fatal(err)
	}
	tree, err := database.LoadTree(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Areas) != 2 || tree.Areas[0].Name != "Work" || tree.Areas[1].Name != "Personal" {
		t.Fatalf("unexpected areas %+v", tree.Areas)
	}
	work := tree.Areas[0]
	if len(work.Containers) != 3 || len(work.Projects) != 1 || len(work.Projects[0].Containers) != 3 {
		t.Fatalf("unexpected Work layout")
	}
	if got := taskTitles(work.Containers[0]); !reflect.DeepEqual(got, []string{"Prepare Report"}) {
		t.Errorf("Work To-Do = %v", got)
	}
	tags, err := database.ListTags(ctx)
	if err != nil || len(tags) != 0 {
		t.Errorf("expected no tags, got %v, %v", tags, err)
	}
}
