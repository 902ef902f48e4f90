package views

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/taskboard/internal/board"
	"github.com/tgienger/taskboard/internal/db"
	"github.com/tgienger/taskboard/internal/models"
	"github.com/tgienger/taskboard/internal/ui/keys"
	"github.com/tgienger/taskboard/internal/ui/styles"
)

// Layout selects how containers are arranged
type Layout int

const (
	LayoutKanban Layout = iota
	LayoutList
)

// ParseLayout maps a config value to a layout, defaulting to kanban
func ParseLayout(s string) Layout {
	if s == "list" {
		return LayoutList
	}
	return LayoutKanban
}

const dueLayout = "2006-01-02"

// BoardView shows the containers of the selected scope and drives drags
type BoardView struct {
	db     *db.DB
	board  *board.Board
	styles *styles.Styles
	keys   keys.KeyMap

	width   int
	height  int
	focused bool
	layout  Layout

	// cursor; row -1 is the column header
	col int
	row int

	// tree before the current drag, restored on cancel or failed save
	preDrag models.Tree

	status    string
	statusErr bool

	// Task creation/editing
	editing       bool
	editingNew    bool
	editContainer models.ID
	editTask      models.Task
	editTitle     textinput.Model
	editDesc      textarea.Model
	editPriority  textinput.Model
	editDue       textinput.Model
	editTags      textinput.Model
	editFocusIdx  int // 0=title, 1=desc, 2=priority, 3=due, 4=tags, 5=save

	creatingContainer bool
	renamingID        models.ID // set when the column form renames
	form              nameForm

	deleting confirm
	deleteID models.ID

	// Help popup (shown with ?)
	showHelpPopup bool
}

// NewBoardView creates the board view over a shared board
func NewBoardView(database *db.DB, b *board.Board, layout Layout) *BoardView {
	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "Description"
	editDesc.CharLimit = 1000
	editDesc.SetWidth(50)
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	editPriority := textinput.New()
	editPriority.Placeholder = "high / medium / low"
	editPriority.CharLimit = 10

	editDue := textinput.New()
	editDue.Placeholder = "YYYY-MM-DD (optional)"
	editDue.CharLimit = 10

	editTags := textinput.New()
	editTags.Placeholder = "comma separated"
	editTags.CharLimit = 200

	return &BoardView{
		db:           database,
		board:        b,
		styles:       styles.NewStyles(),
		keys:         keys.DefaultKeyMap(),
		layout:       layout,
		row:          -1,
		editTitle:    editTitle,
		editDesc:     editDesc,
		editPriority: editPriority,
		editDue:      editDue,
		editTags:     editTags,
		form:         newNameForm("Column name"),
	}
}

func (v *BoardView) Init() tea.Cmd {
	return nil
}

// Reset puts the cursor on the first column, e.g. after a scope change
func (v *BoardView) Reset() {
	v.col = 0
	v.row = -1
	v.status = ""
	v.clampCursor()
}

// SetFocused marks whether keys go to the board
func (v *BoardView) SetFocused(focused bool) {
	v.focused = focused
}

// Modal reports whether a popup owns the screen
func (v *BoardView) Modal() bool {
	return v.editing || v.creatingContainer || v.deleting.active || v.showHelpPopup
}

// Layout returns the current arrangement
func (v *BoardView) Layout() Layout {
	return v.layout
}

// Cursor returns the column index and row; row -1 is the column header
func (v *BoardView) Cursor() (col, row int) {
	return v.col, v.row
}

// Target returns the id under the cursor: a task, or the column itself when
// the cursor is on its header. It is zero when the scope has no columns.
func (v *BoardView) Target() models.ID {
	containers := v.board.Containers()
	if len(containers) == 0 {
		return models.ID{}
	}
	c := containers[v.col]
	if v.row < 0 || v.row >= len(c.Tasks) {
		return c.ID
	}
	return c.Tasks[v.row].ID
}

func (v *BoardView) clampCursor() {
	containers := v.board.Containers()
	if len(containers) == 0 {
		v.col, v.row = 0, -1
		return
	}
	v.col = clamp(v.col, 0, len(containers)-1)
	v.row = clamp(v.row, -1, len(containers[v.col].Tasks)-1)
}

// follow moves the cursor onto the entity with the given id
func (v *BoardView) follow(id models.ID) {
	containers := v.board.Containers()
	if id.IsContainer() {
		if ci, ok := board.FindContainer(containers, id); ok {
			v.col, v.row = ci, -1
		}
		return
	}
	if ci, ti, ok := board.FindTaskOwner(containers, id); ok {
		v.col, v.row = ci, ti
	}
}

func (v *BoardView) setStatus(msg string, isErr bool) {
	v.status = msg
	v.statusErr = isErr
}

func (v *BoardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		inputWidth := clamp(styles.ContentWidth(v.width)-10, 20, 50)
		v.editDesc.SetWidth(inputWidth)
		return v, nil

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.deleting.active {
			return v.updateConfirmDelete(msg)
		}
		if v.creatingContainer {
			return v.updateCreatingContainer(msg)
		}
		if v.editing {
			return v.updateEditing(msg)
		}
		if _, ok := v.board.Dragging(); ok {
			return v.updateDragging(msg)
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

func (v *BoardView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.status = ""
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil

	case key.Matches(msg, v.keys.Up):
		v.moveCursor(0, -1)
	case key.Matches(msg, v.keys.Down):
		v.moveCursor(0, 1)
	case key.Matches(msg, v.keys.Left):
		v.moveCursor(-1, 0)
	case key.Matches(msg, v.keys.Right):
		v.moveCursor(1, 0)

	case key.Matches(msg, v.keys.Pick):
		v.pickUp()

	case key.Matches(msg, v.keys.Enter), key.Matches(msg, v.keys.Edit):
		t := v.Target()
		if t.IsTask() {
			if task, ok := board.FindTask(v.board.Containers(), t); ok {
				v.startEditTask(task)
				return v, textinput.Blink
			}
		}
		if t.IsContainer() {
			containers := v.board.Containers()
			ci, _ := board.FindContainer(containers, t)
			v.creatingContainer = true
			v.renamingID = t
			cmd := v.form.open("Rename Column")
			v.form.input.SetValue(containers[ci].Name)
			return v, cmd
		}

	case key.Matches(msg, v.keys.New):
		containers := v.board.Containers()
		if len(containers) == 0 {
			v.setStatus("add a column first (C)", true)
			return v, nil
		}
		v.startNewTask(containers[v.col].ID)
		return v, textinput.Blink

	case key.Matches(msg, v.keys.NewContainer):
		v.creatingContainer = true
		v.renamingID = models.ID{}
		return v, v.form.open("New Column")

	case key.Matches(msg, v.keys.Delete):
		v.askDelete()

	case key.Matches(msg, v.keys.CycleStatus):
		v.cycleStatus()

	case key.Matches(msg, v.keys.ToggleView):
		if v.layout == LayoutKanban {
			v.layout = LayoutList
		} else {
			v.layout = LayoutKanban
		}
	}
	return v, nil
}

func (v *BoardView) moveCursor(dx, dy int) {
	containers := v.board.Containers()
	if len(containers) == 0 {
		return
	}

	if v.layout == LayoutList && dy != 0 {
		// rows flow from one section into the next
		switch {
		case dy > 0 && v.row < len(containers[v.col].Tasks)-1:
			v.row++
		case dy > 0 && v.col < len(containers)-1:
			v.col++
			v.row = -1
		case dy < 0 && v.row > -1:
			v.row--
		case dy < 0 && v.col > 0:
			v.col--
			v.row = len(containers[v.col].Tasks) - 1
		}
		return
	}

	if dx != 0 {
		v.col = clamp(v.col+dx, 0, len(containers)-1)
		if v.layout == LayoutList {
			v.row = -1
		}
	}
	v.row = clamp(v.row+dy, -1, len(containers[v.col].Tasks)-1)
}

func (v *BoardView) pickUp() {
	target := v.Target()
	if target.IsZero() {
		return
	}
	v.preDrag = v.board.Tree()
	v.board.DragStart(target)
	v.setStatus("moving: arrows to move, space/↵ to drop, esc to cancel, q to cancel and quit", false)
}

func (v *BoardView) updateDragging(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		v.cancelDrag()
		return v, tea.Quit
	case key.Matches(msg, v.keys.Pick), key.Matches(msg, v.keys.Enter):
		v.drop()
	case key.Matches(msg, v.keys.Back):
		v.cancelDrag()
	case key.Matches(msg, v.keys.Up):
		v.dragStep(0, -1)
	case key.Matches(msg, v.keys.Down):
		v.dragStep(0, 1)
	case key.Matches(msg, v.keys.Left):
		v.dragStep(-1, 0)
	case key.Matches(msg, v.keys.Right):
		v.dragStep(1, 0)
	}
	return v, nil
}

// dragStep picks the drop target next to the dragged entity and applies it
// live
func (v *BoardView) dragStep(dx, dy int) {
	active, _ := v.board.Dragging()
	over := v.stepTarget(active, dx, dy)
	if over.IsZero() {
		return
	}
	v.board.DragMove(over)
	v.follow(active)
}

func (v *BoardView) stepTarget(active models.ID, dx, dy int) models.ID {
	containers := v.board.Containers()

	if active.IsContainer() {
		ci, ok := board.FindContainer(containers, active)
		if !ok {
			return models.ID{}
		}
		d := dx
		if v.layout == LayoutList && d == 0 {
			d = dy
		}
		to := ci + d
		if d == 0 || to < 0 || to >= len(containers) {
			return models.ID{}
		}
		return containers[to].ID
	}

	ci, ti, ok := board.FindTaskOwner(containers, active)
	if !ok {
		return models.ID{}
	}

	if dy != 0 {
		tasks := containers[ci].Tasks
		if nt := ti + dy; nt >= 0 && nt < len(tasks) {
			return tasks[nt].ID
		}
		if v.layout != LayoutList {
			return models.ID{}
		}
		// off the end of a section: into the neighbouring one
		switch {
		case dy > 0 && ci < len(containers)-1:
			next := containers[ci+1]
			if len(next.Tasks) > 0 {
				return next.Tasks[0].ID
			}
			return next.ID
		case dy < 0 && ci > 0:
			return containers[ci-1].ID
		}
		return models.ID{}
	}

	tc := ci + dx
	if dx == 0 || tc < 0 || tc >= len(containers) {
		return models.ID{}
	}
	target := containers[tc]
	if ti < len(target.Tasks) {
		return target.Tasks[ti].ID
	}
	return target.ID
}

func (v *BoardView) drop() {
	active, _ := v.board.Dragging()
	containers, changed := v.board.DragEnd(active)
	v.follow(active)
	if !changed {
		v.status = ""
		return
	}
	if err := v.db.SaveContainers(context.Background(), v.board.Scope(), containers); err != nil {
		log.Printf("ui: save move: %v", err)
		v.board.SetTree(v.preDrag)
		v.follow(active)
		v.setStatus("move not saved: "+err.Error(), true)
		return
	}
	v.status = ""
}

func (v *BoardView) cancelDrag() {
	active, _ := v.board.Dragging()
	v.board.SetTree(v.preDrag)
	v.follow(active)
	v.status = ""
}

func (v *BoardView) askDelete() {
	target := v.Target()
	if target.IsZero() {
		return
	}
	containers := v.board.Containers()
	v.deleteID = target
	if target.IsContainer() {
		c := containers[v.col]
		v.deleting.ask("Delete Column?", fmt.Sprintf("%q and its %d tasks", c.Name, len(c.Tasks)))
		return
	}
	task, _ := board.FindTask(containers, target)
	v.deleting.ask("Delete Task?", fmt.Sprintf("%q", task.Title))
}

func (v *BoardView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	yes, handled := v.deleting.answer(msg)
	if !handled || !yes {
		return v, nil
	}

	ctx := context.Background()
	id := v.deleteID
	var err error
	if id.IsContainer() {
		if err = v.db.DeleteContainer(ctx, id); err == nil {
			v.board.DeleteContainer(id)
		}
	} else {
		if err = v.db.DeleteTask(ctx, id); err == nil {
			v.board.DeleteTask(id)
		}
	}
	if err != nil {
		log.Printf("ui: delete %s: %v", id, err)
		v.setStatus(err.Error(), true)
	}
	v.clampCursor()
	return v, nil
}

func (v *BoardView) updateCreatingContainer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	name, done, cmd := v.form.update(msg, v.keys)
	if !done {
		return v, cmd
	}
	v.creatingContainer = false
	if name == "" {
		return v, nil
	}

	if id := v.renamingID; !id.IsZero() {
		v.renamingID = models.ID{}
		if err := v.db.RenameContainer(context.Background(), id, name); err != nil {
			log.Printf("ui: rename container: %v", err)
			v.setStatus(err.Error(), true)
			return v, nil
		}
		v.board.RenameContainer(id, name)
		return v, nil
	}

	c, err := v.db.CreateContainer(context.Background(), v.board.Scope(), name)
	if err != nil {
		log.Printf("ui: create container: %v", err)
		v.setStatus(err.Error(), true)
		return v, nil
	}
	v.board.AddContainer(*c)
	v.follow(c.ID)
	return v, nil
}

func (v *BoardView) cycleStatus() {
	t := v.Target()
	if !t.IsTask() {
		return
	}
	task, ok := board.FindTask(v.board.Containers(), t)
	if !ok {
		return
	}

	switch task.Status {
	case models.StatusToDo:
		task.Status = models.StatusInProgress
	case models.StatusInProgress:
		task.Status = models.StatusCompleted
		now := time.Now()
		task.CompletedAt = &now
	default:
		task.Status = models.StatusToDo
		task.CompletedAt = nil
	}

	if err := v.db.UpdateTask(context.Background(), task); err != nil {
		log.Printf("ui: update task: %v", err)
		v.setStatus(err.Error(), true)
		return
	}
	v.board.UpdateTask(task)
}

func (v *BoardView) startNewTask(containerID models.ID) {
	v.editing = true
	v.editingNew = true
	v.editContainer = containerID
	v.editTask = models.Task{}
	v.editFocusIdx = 0
	v.editTitle.Reset()
	v.editDesc.Reset()
	v.editPriority.SetValue(string(models.PriorityMedium))
	v.editDue.Reset()
	v.editTags.Reset()
	v.updateEditFocus()
}

func (v *BoardView) startEditTask(task models.Task) {
	v.editing = true
	v.editingNew = false
	v.editTask = task
	v.editFocusIdx = 0
	v.editTitle.SetValue(task.Title)
	v.editDesc.SetValue(task.Description)
	v.editPriority.SetValue(string(task.Priority))
	v.editDue.Reset()
	if task.DueAt != nil {
		v.editDue.SetValue(task.DueAt.Format(dueLayout))
	}
	v.editTags.SetValue(strings.Join(task.Tags, ", "))
	v.updateEditFocus()
}

func (v *BoardView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()
	v.editPriority.Blur()
	v.editDue.Blur()
	v.editTags.Blur()

	switch v.editFocusIdx {
	case 0:
		v.editTitle.Focus()
	case 1:
		v.editDesc.Focus()
	case 2:
		v.editPriority.Focus()
	case 3:
		v.editDue.Focus()
	case 4:
		v.editTags.Focus()
	}
}

func (v *BoardView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.saveTask()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % 6
		v.updateEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + 5) % 6
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		// Enter on the description inserts a newline
		if v.editFocusIdx == 5 {
			return v, v.saveTask()
		}
		if v.editFocusIdx != 1 {
			v.editFocusIdx++
			v.updateEditFocus()
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case 0:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case 1:
		v.editDesc, cmd = v.editDesc.Update(msg)
	case 2:
		v.editPriority, cmd = v.editPriority.Update(msg)
	case 3:
		v.editDue, cmd = v.editDue.Update(msg)
	case 4:
		v.editTags, cmd = v.editTags.Update(msg)
	}
	return v, cmd
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func (v *BoardView) saveTask() tea.Cmd {
	title := strings.TrimSpace(v.editTitle.Value())
	if title == "" {
		v.editing = false
		return nil
	}

	priority, err := models.ParsePriority(v.editPriority.Value())
	if err != nil {
		v.setStatus(err.Error(), true)
		return nil
	}

	var due *time.Time
	if s := strings.TrimSpace(v.editDue.Value()); s != "" {
		d, err := time.ParseInLocation(dueLayout, s, time.Local)
		if err != nil {
			v.setStatus("due date must be YYYY-MM-DD", true)
			return nil
		}
		due = &d
	}

	task := v.editTask
	task.Title = title
	task.Description = strings.TrimSpace(v.editDesc.Value())
	task.Priority = priority
	task.DueAt = due
	task.Tags = models.NormalizeTags(splitTags(v.editTags.Value()))

	ctx := context.Background()
	if v.editingNew {
		created, err := v.db.CreateTask(ctx, v.editContainer, task)
		if err != nil {
			log.Printf("ui: create task: %v", err)
			v.setStatus(err.Error(), true)
			v.editing = false
			return nil
		}
		v.board.AddTask(v.editContainer, *created)
		v.follow(created.ID)
	} else {
		if err := v.db.UpdateTask(ctx, task); err != nil {
			log.Printf("ui: update task: %v", err)
			v.setStatus(err.Error(), true)
			v.editing = false
			return nil
		}
		v.board.UpdateTask(task)
	}

	v.status = ""
	v.editing = false
	return nil
}
