package views

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/taskboard/internal/board"
	"github.com/tgienger/taskboard/internal/db"
	"github.com/tgienger/taskboard/internal/models"
)

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyCtrlS = tea.KeyMsg{Type: tea.KeyCtrlS}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m tea.Model, msgs ...tea.KeyMsg) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}

type boardFixture struct {
	db    *db.DB
	board *board.Board
	view  *BoardView
	scope board.Scope
	ids   map[string]models.ID
}

// newBoardFixture builds a Work area with To-Do [A, B], Doing [C] and an
// empty Done column, shown in the given layout
func newBoardFixture(t *testing.T, layout Layout) *boardFixture {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "ui.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	ctx := context.Background()
	area, err := database.CreateArea(ctx, "Work")
	if err != nil {
		t.Fatal(err)
	}
	scope := board.AreaScope(area.ID)
	ids := map[string]models.ID{}
	for _, col := range []struct {
		name  string
		tasks []string
	}{
		{"To-Do", []string{"A", "B"}},
		{"Doing", []string{"C"}},
		{"Done", nil},
	} {
		c, err := database.CreateContainer(ctx, scope, col.name)
		if err != nil {
			t.Fatal(err)
		}
		ids[col.name] = c.ID
		for _, title := range col.tasks {
			task, err := database.CreateTask(ctx, c.ID, models.Task{Title: title})
			if err != nil {
				t.Fatal(err)
			}
			ids[title] = task.ID
		}
	}

	tree, err := database.LoadTree(ctx)
	if err != nil {
		t.Fatal(err)
	}
	b := board.New(tree)
	b.Restore(scope)

	v := NewBoardView(database, b, layout)
	v.SetFocused(true)
	v.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	v.Reset()
	return &boardFixture{db: database, board: b, view: v, scope: scope, ids: ids}
}

func layoutOf(containers []models.Container) map[string][]string {
	out := map[string][]string{}
	for _, c := range containers {
		titles := []string{}
		for _, t := range c.Tasks {
			titles = append(titles, t.Title)
		}
		out[c.Name] = titles
	}
	return out
}

func namesOf(containers []models.Container) []string {
	names := []string{}
	for _, c := range containers {
		names = append(names, c.Name)
	}
	return names
}

// stored returns the scope's containers as persisted
func (f *boardFixture) stored(t *testing.T) []models.Container {
	t.Helper()
	tree, err := f.db.LoadTree(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return board.Displayed(tree, f.scope)
}

func TestBoardView_DragTaskAcrossColumns(t *testing.T) {
	f := newBoardFixture(t, LayoutKanban)

	press(f.view, keyDown, keySpace)
	if id, ok := f.board.Dragging(); !ok || id != f.ids["A"] {
		t.Fatalf("expected A picked up, got %v %v", id, ok)
	}

	press(f.view, keyRight)
	want := map[string][]string{"To-Do": {"B"}, "Doing": {"A", "C"}, "Done": {}}
	if got := layoutOf(f.board.Containers()); !reflect.DeepEqual(got, want) {
		t.Fatalf("after live move got %v, want %v", got, want)
	}
	if col, row := f.view.Cursor(); col != 1 || row != 0 {
		t.Errorf("expected cursor to follow A to (1,0), got (%d,%d)", col, row)
	}

	press(f.view, keyRight, keySpace)
	if _, ok := f.board.Dragging(); ok {
		t.Fatal("expected drag to end")
	}
	want = map[string][]string{"To-Do": {"B"}, "Doing": {"C"}, "Done": {"A"}}
	if got := layoutOf(f.board.Containers()); !reflect.DeepEqual(got, want) {
		t.Errorf("after drop got %v, want %v", got, want)
	}
	if got := layoutOf(f.stored(t)); !reflect.DeepEqual(got, want) {
		t.Errorf("persisted %v, want %v", got, want)
	}
}

func TestBoardView_CancelDragRestores(t *testing.T) {
	f := newBoardFixture(t, LayoutKanban)

	press(f.view, keyDown, keySpace, keyDown)
	if got := layoutOf(f.board.Containers())["To-Do"]; !reflect.DeepEqual(got, []string{"B", "A"}) {
		t.Fatalf("expected live reorder [B A], got %v", got)
	}

	press(f.view, keyEsc)
	if _, ok := f.board.Dragging(); ok {
		t.Fatal("expected drag cancelled")
	}
	if got := layoutOf(f.board.Containers())["To-Do"]; !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("expected [A B] restored, got %v", got)
	}
	if got := layoutOf(f.stored(t))["To-Do"]; !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("expected nothing persisted, got %v", got)
	}
	if col, row := f.view.Cursor(); col != 0 || row != 0 {
		t.Errorf("expected cursor back on A, got (%d,%d)", col, row)
	}
}

func TestBoardView_QuitDuringDragCancels(t *testing.T) {
	f := newBoardFixture(t, LayoutKanban)

	press(f.view, keyDown, keySpace, keyDown)
	_, cmd := f.view.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit while dragging")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if _, ok := f.board.Dragging(); ok {
		t.Error("expected the drag cancelled")
	}
	if got := layoutOf(f.stored(t))["To-Do"]; !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("expected nothing persisted, got %v", got)
	}
}

func TestBoardView_DragContainer(t *testing.T) {
	f := newBoardFixture(t, LayoutKanban)

	press(f.view, keySpace, keyRight, keyEnter)
	want := []string{"Doing", "To-Do", "Done"}
	if got := namesOf(f.board.Containers()); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := namesOf(f.stored(t)); !reflect.DeepEqual(got, want) {
		t.Errorf("persisted %v, want %v", got, want)
	}
	if col, row := f.view.Cursor(); col != 1 || row != -1 {
		t.Errorf("expected cursor on the moved header, got (%d,%d)", col, row)
	}
}

func TestBoardView_VerticalStepStaysInColumnOnKanban(t *testing.T) {
	f := newBoardFixture(t, LayoutKanban)

	// B is last in To-Do; down has nowhere to go
	press(f.view, keyDown, keyDown, keySpace, keyDown, keySpace)
	want := map[string][]string{"To-Do": {"A", "B"}, "Doing": {"C"}, "Done": {}}
	if got := layoutOf(f.board.Containers()); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBoardView_ListLayout(t *testing.T) {
	f := newBoardFixture(t, LayoutKanban)
	press(f.view, runes("v"))
	if f.view.Layout() != LayoutList {
		t.Fatal("expected list layout")
	}

	press(f.view, keyDown, keyDown, keyDown)
	if col, row := f.view.Cursor(); col != 1 || row != -1 {
		t.Fatalf("expected cursor to flow onto the Doing header, got (%d,%d)", col, row)
	}
	press(f.view, keyUp)
	if col, row := f.view.Cursor(); col != 0 || row != 1 {
		t.Fatalf("expected cursor back on B, got (%d,%d)", col, row)
	}

	// B off the end of To-Do lands before C
	press(f.view, keySpace, keyDown)
	want := map[string][]string{"To-Do": {"A"}, "Doing": {"B", "C"}, "Done": {}}
	if got := layoutOf(f.board.Containers()); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	// and back up appends to To-Do
	press(f.view, keyUp, keySpace)
	want = map[string][]string{"To-Do": {"A", "B"}, "Doing": {"C"}, "Done": {}}
	if got := layoutOf(f.board.Containers()); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got := layoutOf(f.stored(t)); !reflect.DeepEqual(got, want) {
		t.Errorf("persisted %v, want %v", got, want)
	}
}

func TestBoardView_AddColumn(t *testing.T) {
	f := newBoardFixture(t, LayoutKanban)

	press(f.view, runes("C"))
	if !f.view.Modal() {
		t.Fatal("expected the column form")
	}
	press(f.view, runes("Later"), keyEnter)
	if f.view.Modal() {
		t.Fatal("expected the form closed")
	}

	want := []string{"To-Do", "Doing", "Done", "Later"}
	if got := namesOf(f.board.Containers()); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got := namesOf(f.stored(t)); !reflect.DeepEqual(got, want) {
		t.Errorf("persisted %v, want %v", got, want)
	}
	if col, _ := f.view.Cursor(); col != 3 {
		t.Errorf("expected cursor on the new column, got %d", col)
	}
}

func TestBoardView_RenameColumn(t *testing.T) {
	f := newBoardFixture(t, LayoutKanban)

	press(f.view, runes("e"))
	if !f.view.Modal() {
		t.Fatal("expected the column form on a header")
	}
	press(f.view, runes(" soon"), keyEnter)

	want := []string{"To-Do soon", "Doing", "Done"}
	if got := namesOf(f.board.Containers()); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got := namesOf(f.stored(t)); !reflect.DeepEqual(got, want) {
		t.Errorf("persisted %v, want %v", got, want)
	}
}

func TestBoardView_NewAndEditTask(t *testing.T) {
	f := newBoardFixture(t, LayoutKanban)

	press(f.view, keyRight, runes("n"), runes("Write tests"), keyCtrlS)
	if f.view.Modal() {
		t.Fatal("expected the task form closed")
	}
	doing := f.board.Containers()[1]
	if len(doing.Tasks) != 2 || doing.Tasks[1].Title != "Write tests" {
		t.Fatalf("expected new task appended to Doing, got %v", layoutOf(f.board.Containers()))
	}
	created := doing.Tasks[1]
	if created.Priority != models.PriorityMedium || created.Status != models.StatusToDo {
		t.Errorf("unexpected defaults %+v", created)
	}
	if col, row := f.view.Cursor(); col != 1 || row != 1 {
		t.Errorf("expected cursor on the new task, got (%d,%d)", col, row)
	}

	// edit: jump to priority and replace it
	press(f.view, runes("e"), keyEnter)
	f.view.editPriority.SetValue("high")
	press(f.view, keyCtrlS)

	stored, err := f.db.GetTask(context.Background(), created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Priority != models.PriorityHigh || stored.Title != "Write tests" {
		t.Errorf("unexpected stored task %+v", stored)
	}
	if task, _ := board.FindTask(f.board.Containers(), created.ID); task.Priority != models.PriorityHigh {
		t.Errorf("expected board updated, got %+v", task)
	}
}

func TestBoardView_InvalidPriorityKeepsForm(t *testing.T) {
	f := newBoardFixture(t, LayoutKanban)

	press(f.view, runes("n"), runes("X"))
	f.view.editPriority.SetValue("urgent")
	press(f.view, keyCtrlS)
	if !f.view.Modal() {
		t.Fatal("expected the form to stay open")
	}
	if got := layoutOf(f.board.Containers())["To-Do"]; len(got) != 2 {
		t.Errorf("expected no task added, got %v", got)
	}
}

func TestBoardView_DeleteTask(t *testing.T) {
	f := newBoardFixture(t, LayoutKanban)

	press(f.view, keyDown, runes("d"))
	if !f.view.Modal() {
		t.Fatal("expected confirmation")
	}
	press(f.view, runes("n"))
	if got := layoutOf(f.board.Containers())["To-Do"]; len(got) != 2 {
		t.Fatalf("expected no delete on 'n', got %v", got)
	}

	press(f.view, runes("d"), runes("y"))
	if got := layoutOf(f.board.Containers())["To-Do"]; !reflect.DeepEqual(got, []string{"B"}) {
		t.Errorf("expected [B], got %v", got)
	}
	if _, err := f.db.GetTask(context.Background(), f.ids["A"]); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected A deleted, got %v", err)
	}
}

func TestBoardView_DeleteColumn(t *testing.T) {
	f := newBoardFixture(t, LayoutKanban)

	press(f.view, keyRight, keyRight, runes("d"), runes("y"))
	want := []string{"To-Do", "Doing"}
	if got := namesOf(f.board.Containers()); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if col, _ := f.view.Cursor(); col != 1 {
		t.Errorf("expected cursor clamped to 1, got %d", col)
	}
	if got := namesOf(f.stored(t)); !reflect.DeepEqual(got, want) {
		t.Errorf("persisted %v, want %v", got, want)
	}
}

func TestBoardView_CycleStatus(t *testing.T) {
	f := newBoardFixture(t, LayoutKanban)

	press(f.view, keyDown, runes("s"), runes("s"))
	stored, err := f.db.GetTask(context.Background(), f.ids["A"])
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.StatusCompleted || stored.CompletedAt == nil {
		t.Errorf("expected completed with timestamp, got %+v", stored)
	}

	press(f.view, runes("s"))
	task, _ := board.FindTask(f.board.Containers(), f.ids["A"])
	if task.Status != models.StatusToDo || task.CompletedAt != nil {
		t.Errorf("expected back to To Do, got %+v", task)
	}
}

func TestBoardView_EmptyScope(t *testing.T) {
	f := newBoardFixture(t, LayoutKanban)
	f.board.SelectMain()
	f.view.Reset()

	press(f.view, keySpace)
	if _, ok := f.board.Dragging(); ok {
		t.Error("expected nothing to pick up")
	}
	press(f.view, runes("n"))
	if f.view.Modal() {
		t.Error("expected no task form without columns")
	}
	if f.view.View() == "" {
		t.Error("expected a rendered empty board")
	}
}

func TestScopeTitle(t *testing.T) {
	tree := models.Tree{Areas: []models.Area{{
		ID:       "a1",
		Name:     "Work",
		Projects: []models.Project{{ID: "p1", Name: "Frontend", AreaID: "a1"}},
	}}}

	tests := []struct {
		scope board.Scope
		want  string
	}{
		{board.MainScope(), "Main"},
		{board.AreaScope("a1"), "Work"},
		{board.ProjectScope("a1", "p1"), "Work › Frontend"},
		{board.AreaScope("zz"), "?"},
	}
	for _, tt := range tests {
		if got := ScopeTitle(tree, tt.scope); got != tt.want {
			t.Errorf("ScopeTitle(%v) = %q, want %q", tt.scope, got, tt.want)
		}
	}
}
