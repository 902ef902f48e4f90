package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskboard/internal/board"
	"github.com/tgienger/taskboard/internal/models"
	"github.com/tgienger/taskboard/internal/ui/styles"
)

// View renders the view
func (v *BoardView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}
	if v.deleting.active {
		return v.deleting.view(v.styles, v.width, v.height)
	}
	if v.creatingContainer {
		return v.form.view(v.styles, v.width, v.height)
	}
	if v.editing {
		return v.renderEditForm()
	}

	var body string
	containers := v.board.Containers()
	switch {
	case len(containers) == 0:
		body = v.renderEmpty()
	case v.layout == LayoutList:
		body = v.renderList(containers)
	default:
		body = v.renderKanban(containers)
	}

	lines := []string{v.renderHeader(), body}
	if v.status != "" {
		style := v.styles.StatusBar
		if v.statusErr {
			style = v.styles.StatusError
		}
		lines = append(lines, style.Render(v.status))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// ScopeTitle names the selected scope, e.g. "Work › Frontend"
func ScopeTitle(tree models.Tree, sc board.Scope) string {
	if sc.IsMain() {
		return "Main"
	}
	area, ok := tree.FindArea(sc.AreaID)
	if !ok {
		return "?"
	}
	if !sc.IsProject() {
		return area.Name
	}
	project, ok := area.FindProject(sc.ProjectID)
	if !ok {
		return area.Name + " › ?"
	}
	return area.Name + " › " + project.Name
}

// availableWidth is what is left beside the sidebar
func (v *BoardView) availableWidth() int {
	return max(styles.ContentWidth(v.width)-styles.SidebarWidth-4, styles.ColumnWidth)
}

func (v *BoardView) renderHeader() string {
	s := v.styles
	title := s.Title.Render(ScopeTitle(v.board.Tree(), v.board.Scope()))

	mode := "kanban"
	if v.layout == LayoutList {
		mode = "list"
	}
	meta := s.TitleMuted.Render(" [" + mode + "]")
	if _, ok := v.board.Dragging(); ok {
		meta += " " + s.CardDragging.Render(" MOVING ")
	}
	return title + meta
}

func (v *BoardView) renderEmpty() string {
	s := v.styles
	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		s.TitleMuted.Render("No columns in this scope"),
		s.TitleMuted.Render("Press 'C' to add one"),
		"",
	)
}

// visibleColumns returns the range of columns that fit, keeping the cursor's
// column in view
func (v *BoardView) visibleColumns(n int) (int, int) {
	fit := max(v.availableWidth()/styles.ColumnWidth, 1)
	if n <= fit {
		return 0, n
	}
	start := max(v.col-fit+1, 0)
	return start, start + fit
}

func (v *BoardView) renderKanban(containers []models.Container) string {
	active, dragging := v.board.Dragging()
	start, end := v.visibleColumns(len(containers))

	cols := make([]string, 0, end-start)
	for ci := start; ci < end; ci++ {
		c := containers[ci]
		selected := v.focused && ci == v.col

		frame := v.styles.Column
		if selected {
			frame = v.styles.ColumnFocused
		}

		lines := []string{v.renderColumnHeader(c, selected && v.row == -1, dragging && c.ID == active)}
		if len(c.Tasks) == 0 {
			lines = append(lines, v.styles.TitleMuted.Render("(empty)"))
		}
		for ti, t := range c.Tasks {
			lines = append(lines, v.renderCard(t, styles.ColumnWidth-4, selected && ti == v.row, dragging && t.ID == active))
		}
		cols = append(cols, frame.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	if start > 0 || end < len(containers) {
		row += "\n" + v.styles.TitleMuted.Render(fmt.Sprintf("columns %d-%d of %d", start+1, end, len(containers)))
	}
	return row
}

func (v *BoardView) renderList(containers []models.Container) string {
	active, dragging := v.board.Dragging()
	width := v.availableWidth()

	var lines []string
	for ci, c := range containers {
		selected := v.focused && ci == v.col
		lines = append(lines, v.renderColumnHeader(c, selected && v.row == -1, dragging && c.ID == active))
		for ti, t := range c.Tasks {
			lines = append(lines, "  "+v.renderCard(t, width-2, selected && ti == v.row, dragging && t.ID == active))
		}
		lines = append(lines, "")
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *BoardView) renderColumnHeader(c models.Container, selected, dragging bool) string {
	text := fmt.Sprintf("%s (%d)", c.Name, len(c.Tasks))
	switch {
	case dragging:
		return v.styles.CardDragging.Render(text)
	case selected:
		return v.styles.CardSelected.Render(text)
	}
	return v.styles.ColumnHeader.Render(text)
}

func (v *BoardView) priorityMarker(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return v.styles.PriorityHigh.Render("!!")
	case models.PriorityLow:
		return v.styles.PriorityLow.Render("··")
	}
	return v.styles.PriorityMedium.Render("! ")
}

func (v *BoardView) renderCard(t models.Task, width int, selected, dragging bool) string {
	s := v.styles
	title := truncate(t.Title, max(width-3, 1))

	var text string
	switch {
	case dragging:
		text = s.CardDragging.Render(title)
	case selected:
		text = s.CardSelected.Render(title)
	case t.Status == models.StatusCompleted:
		text = s.StatusDone.Render(title)
	default:
		text = s.Card.Render(title)
	}
	card := v.priorityMarker(t.Priority) + " " + text

	if len(t.Tags) > 0 {
		tags := truncate("#"+strings.Join(t.Tags, " #"), max(width-3, 1))
		card += "\n   " + s.Tag.Render(tags)
	}
	return card
}

// HelpLine returns the key hints for the board
func (v *BoardView) HelpLine() string {
	if _, ok := v.board.Dragging(); ok {
		return helpLine(v.styles, v.width, v.keys.Pick, v.keys.Back)
	}
	return helpLine(v.styles, v.width,
		v.keys.Pick, v.keys.New, v.keys.NewContainer, v.keys.Edit, v.keys.Delete,
		v.keys.CycleStatus, v.keys.ToggleView, v.keys.Help, v.keys.Quit,
	)
}

func (v *BoardView) renderHelpPopup() string {
	return helpPopup(v.styles, v.width, v.height,
		v.keys.Up, v.keys.Down, v.keys.Left, v.keys.Right,
		v.keys.Pick, v.keys.Enter, v.keys.Back,
		v.keys.New, v.keys.NewContainer, v.keys.Edit, v.keys.Delete,
		v.keys.CycleStatus, v.keys.ToggleView, v.keys.Tab, v.keys.Quit,
	)
}

func (v *BoardView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "New Task"
	if !v.editingNew {
		formTitle = "Edit Task"
	}

	fieldStyles := make([]lipgloss.Style, 5)
	for i := range fieldStyles {
		fieldStyles[i] = s.Input
	}
	btnStyle := s.Button
	if v.editFocusIdx < 5 {
		fieldStyles[v.editFocusIdx] = s.InputFocused
	} else {
		btnStyle = s.ButtonFocused
	}

	// Dynamic input width based on content width
	inputWidth := clamp(contentWidth-6, 20, 50)

	lines := []string{
		s.Title.Render(formTitle),
		"",
		"Title:",
		fieldStyles[0].Width(inputWidth).Render(v.editTitle.View()),
		"Description:",
		fieldStyles[1].Render(v.editDesc.View()),
		"Priority:",
		fieldStyles[2].Width(inputWidth).Render(v.editPriority.View()),
		"Due:",
		fieldStyles[3].Width(inputWidth).Render(v.editDue.View()),
		"Tags:",
		fieldStyles[4].Width(inputWidth).Render(v.editTags.View()),
		"",
		btnStyle.Render(" Save "),
		"",
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	}
	if v.status != "" && v.statusErr {
		lines = append(lines, s.StatusError.Render(v.status))
	}

	return placeCenter(lipgloss.JoinVertical(lipgloss.Left, lines...), v.width, v.height)
}
