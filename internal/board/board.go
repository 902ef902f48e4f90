package board

import (
	"github.com/tgienger/taskboard/internal/models"
)

// Board holds the latest tree, the selected scope and any drag in flight.
// It is the single writer of the tree and is not safe for concurrent use.
type Board struct {
	tree      models.Tree
	selection Selection

	active models.ID
	dirty  bool // the current gesture changed something
}

// New creates a board showing the main scope
func New(tree models.Tree) *Board {
	return &Board{tree: tree}
}

func (b *Board) Tree() models.Tree { return b.tree }
func (b *Board) Scope() Scope      { return b.selection.Scope() }

// SetTree replaces the tree wholesale, e.g. after a reload from storage.
// Any drag in flight is abandoned.
func (b *Board) SetTree(tree models.Tree) {
	b.tree = tree
	b.resetDrag()
}

// Containers returns the container list for the selected scope
func (b *Board) Containers() []models.Container {
	return Displayed(b.tree, b.selection.Scope())
}

// SelectMain switches to the main scope
func (b *Board) SelectMain() {
	b.resetDrag()
	b.selection.SelectMain()
}

// SelectArea switches to an area's own containers
func (b *Board) SelectArea(areaID string) {
	b.resetDrag()
	b.selection.SelectArea(areaID)
}

// SelectProject switches to a project's containers
func (b *Board) SelectProject(areaID, projectID string) {
	b.resetDrag()
	b.selection.SelectProject(areaID, projectID)
}

// Restore selects sc if it still resolves, falling back to main
func (b *Board) Restore(sc Scope) {
	b.resetDrag()
	if !Resolves(b.tree, sc) {
		sc = MainScope()
	}
	b.selection.Restore(sc)
}

// Dragging reports the entity picked up by DragStart, if any
func (b *Board) Dragging() (models.ID, bool) {
	return b.active, !b.active.IsZero()
}

// DragStart picks up the entity with the given id
func (b *Board) DragStart(active models.ID) {
	b.active = active
	b.dirty = false
}

// DragMove applies the in-flight drag over a new target and returns the
// containers to display. It may be called any number of times per gesture.
func (b *Board) DragMove(over models.ID) []models.Container {
	if b.active.IsZero() {
		return b.Containers()
	}
	b.apply(over)
	return b.Containers()
}

// DragEnd applies the final drop and ends the gesture. changed reports whether
// the gesture as a whole rearranged anything, live updates included.
func (b *Board) DragEnd(over models.ID) (containers []models.Container, changed bool) {
	if b.active.IsZero() {
		return b.Containers(), false
	}
	b.apply(over)
	changed = b.dirty
	b.resetDrag()
	return b.Containers(), changed
}

func (b *Board) apply(over models.ID) {
	scope := b.selection.Scope()
	next, ok := Move(Displayed(b.tree, scope), b.active, over)
	if !ok {
		return
	}
	b.tree = Merge(b.tree, scope, next)
	b.dirty = true
}

func (b *Board) resetDrag() {
	b.active = models.ID{}
	b.dirty = false
}

// Replace writes containers into the selected scope
func (b *Board) Replace(containers []models.Container) {
	b.tree = Merge(b.tree, b.selection.Scope(), containers)
}

// AddContainer appends a container to the selected scope
func (b *Board) AddContainer(c models.Container) {
	b.Replace(AppendContainer(b.Containers(), c))
}

// AddTask appends a task to a container in the selected scope
func (b *Board) AddTask(containerID models.ID, task models.Task) bool {
	next, ok := AppendTask(b.Containers(), containerID, task)
	if ok {
		b.Replace(next)
	}
	return ok
}

// UpdateTask replaces an edited task in place
func (b *Board) UpdateTask(task models.Task) bool {
	next, ok := ReplaceTask(b.Containers(), task)
	if ok {
		b.Replace(next)
	}
	return ok
}

// RenameContainer relabels a container of the selected scope
func (b *Board) RenameContainer(id models.ID, name string) bool {
	next, ok := RenameContainer(b.Containers(), id, name)
	if ok {
		b.Replace(next)
	}
	return ok
}

// DeleteContainer removes a container of the selected scope
func (b *Board) DeleteContainer(id models.ID) bool {
	next, ok := RemoveContainer(b.Containers(), id)
	if ok {
		b.Replace(next)
	}
	return ok
}

// DeleteTask removes a task of the selected scope
func (b *Board) DeleteTask(id models.ID) bool {
	next, ok := RemoveTask(b.Containers(), id)
	if ok {
		b.Replace(next)
	}
	return ok
}

// AddArea appends an area
func (b *Board) AddArea(area models.Area) {
	b.tree = AddArea(b.tree, area)
}

// AddProject appends a project to its area
func (b *Board) AddProject(project models.Project) {
	b.tree = AddProject(b.tree, project)
}

// DeleteArea removes an area; if it was selected the board falls back to main
func (b *Board) DeleteArea(areaID string) {
	b.tree = RemoveArea(b.tree, areaID)
	if b.Scope().AreaID == areaID {
		b.SelectMain()
	}
}

// DeleteProject removes a project; if it was selected the board shows its area
func (b *Board) DeleteProject(areaID, projectID string) {
	b.tree = RemoveProject(b.tree, areaID, projectID)
	if b.Scope().ProjectID == projectID {
		b.SelectArea(areaID)
	}
}
