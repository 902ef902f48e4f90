package views

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskboard/internal/board"
	"github.com/tgienger/taskboard/internal/db"
	"github.com/tgienger/taskboard/internal/ui/keys"
	"github.com/tgienger/taskboard/internal/ui/styles"
)

type scopeItem struct {
	scope board.Scope
	name  string
}

func (i scopeItem) FilterValue() string { return i.name }

type scopeDelegate struct {
	sidebar *SidebarView
}

func (d scopeDelegate) Height() int                               { return 1 }
func (d scopeDelegate) Spacing() int                              { return 0 }
func (d scopeDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d scopeDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(scopeItem)
	if !ok {
		return
	}
	s := d.sidebar.styles

	var prefix string
	switch {
	case it.scope.IsMain():
		prefix = "◆ "
	case it.scope.IsProject():
		prefix = "   · "
	default:
		prefix = " ▸ "
	}
	width := styles.SidebarWidth - 2
	text := truncate(prefix+it.name, width)

	style := s.ListItem
	if it.scope == d.sidebar.board.Scope() {
		style = s.ListCurrent
	}
	if index == m.Index() && d.sidebar.focused {
		style = s.ListSelected
	}
	fmt.Fprint(w, style.Width(width).Render(text))
}

// SidebarView lists Main, every area and each area's projects
type SidebarView struct {
	db     *db.DB
	board  *board.Board
	list   list.Model
	styles *styles.Styles
	keys   keys.KeyMap

	width   int
	height  int
	focused bool
	status  string

	creatingArea    bool
	creatingProject bool
	projectAreaID   string
	form            nameForm

	deleting    confirm
	deleteScope board.Scope

	// Help popup (shown with ?)
	showHelpPopup bool
}

// NewSidebarView creates the scope sidebar over a shared board
func NewSidebarView(database *db.DB, b *board.Board) *SidebarView {
	s := styles.NewStyles()
	v := &SidebarView{
		db:     database,
		board:  b,
		styles: s,
		keys:   keys.DefaultKeyMap(),
		form:   newNameForm("Name"),
	}

	l := list.New([]list.Item{}, scopeDelegate{sidebar: v}, styles.SidebarWidth, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	v.list = l

	v.Refresh()
	return v
}

func (v *SidebarView) Init() tea.Cmd {
	return nil
}

// Refresh rebuilds the entries from the board, keeping the cursor on the same
// scope when it still exists
func (v *SidebarView) Refresh() {
	var keep board.Scope
	if it, ok := v.list.SelectedItem().(scopeItem); ok {
		keep = it.scope
	} else {
		keep = v.board.Scope()
	}

	tree := v.board.Tree()
	items := []list.Item{scopeItem{scope: board.MainScope(), name: "Main"}}
	for _, a := range tree.Areas {
		items = append(items, scopeItem{scope: board.AreaScope(a.ID), name: a.Name})
		for _, p := range a.Projects {
			items = append(items, scopeItem{scope: board.ProjectScope(a.ID, p.ID), name: p.Name})
		}
	}
	v.list.SetItems(items)
	v.Select(keep)
}

// Select moves the cursor onto a scope, or Main when it is not listed
func (v *SidebarView) Select(sc board.Scope) {
	for i, item := range v.list.Items() {
		if item.(scopeItem).scope == sc {
			v.list.Select(i)
			return
		}
	}
	v.list.Select(0)
}

// Selected returns the scope under the cursor
func (v *SidebarView) Selected() board.Scope {
	if it, ok := v.list.SelectedItem().(scopeItem); ok {
		return it.scope
	}
	return board.MainScope()
}

// SetFocused marks whether keys go to the sidebar
func (v *SidebarView) SetFocused(focused bool) {
	v.focused = focused
}

// Modal reports whether a popup owns the screen
func (v *SidebarView) Modal() bool {
	return v.creatingArea || v.creatingProject || v.deleting.active || v.showHelpPopup
}

func (v *SidebarView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.list.SetSize(styles.SidebarWidth, max(msg.Height-6, 1))
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
		if v.creatingArea || v.creatingProject {
			return v.updateCreating(msg)
		}

		v.status = ""
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			sc := v.Selected()
			return v, func() tea.Msg { return ScopeSelected{Scope: sc} }
		case key.Matches(msg, v.keys.NewArea):
			v.creatingArea = true
			return v, v.form.open("New Area")
		case key.Matches(msg, v.keys.NewProject):
			sc := v.Selected()
			if sc.IsMain() {
				v.status = "select an area first"
				return v, nil
			}
			v.creatingProject = true
			v.projectAreaID = sc.AreaID
			return v, v.form.open("New Project")
		case key.Matches(msg, v.keys.Delete):
			sc := v.Selected()
			if sc.IsMain() {
				return v, nil
			}
			v.deleteScope = sc
			it := v.list.SelectedItem().(scopeItem)
			if sc.IsProject() {
				v.deleting.ask("Delete Project?", fmt.Sprintf("%q and all its columns and tasks", it.name))
			} else {
				v.deleting.ask("Delete Area?", fmt.Sprintf("%q with its projects, columns and tasks", it.name))
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *SidebarView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	name, done, cmd := v.form.update(msg, v.keys)
	if !done {
		return v, cmd
	}
	creatingProject := v.creatingProject
	v.creatingArea = false
	v.creatingProject = false
	if name == "" {
		return v, nil
	}

	ctx := context.Background()
	var sc board.Scope
	if creatingProject {
		project, err := v.db.CreateProject(ctx, v.projectAreaID, name)
		if err != nil {
			log.Printf("ui: create project: %v", err)
			v.status = err.Error()
			return v, nil
		}
		v.board.AddProject(*project)
		sc = board.ProjectScope(project.AreaID, project.ID)
	} else {
		area, err := v.db.CreateArea(ctx, name)
		if err != nil {
			log.Printf("ui: create area: %v", err)
			v.status = err.Error()
			return v, nil
		}
		v.board.AddArea(*area)
		sc = board.AreaScope(area.ID)
	}

	v.Refresh()
	v.Select(sc)
	return v, func() tea.Msg { return ScopeSelected{Scope: sc} }
}

func (v *SidebarView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	yes, handled := v.deleting.answer(msg)
	if !handled || !yes {
		return v, nil
	}

	ctx := context.Background()
	sc := v.deleteScope
	var err error
	if sc.IsProject() {
		if err = v.db.DeleteProject(ctx, sc.ProjectID); err == nil {
			v.board.DeleteProject(sc.AreaID, sc.ProjectID)
		}
	} else {
		if err = v.db.DeleteArea(ctx, sc.AreaID); err == nil {
			v.board.DeleteArea(sc.AreaID)
		}
	}
	if err != nil {
		log.Printf("ui: delete %s: %v", sc, err)
		v.status = err.Error()
		return v, nil
	}

	v.Refresh()
	current := v.board.Scope()
	v.Select(current)
	return v, func() tea.Msg { return ScopeSelected{Scope: current} }
}

// View renders the view
func (v *SidebarView) View() string {
	if v.showHelpPopup {
		return helpPopup(v.styles, v.width, v.height,
			v.keys.Enter, v.keys.NewArea, v.keys.NewProject, v.keys.Delete,
			v.keys.Tab, v.keys.Quit,
		)
	}
	if v.deleting.active {
		return v.deleting.view(v.styles, v.width, v.height)
	}
	if v.creatingArea || v.creatingProject {
		return v.form.view(v.styles, v.width, v.height)
	}

	frame := v.styles.Sidebar
	if v.focused {
		frame = v.styles.SidebarFocused
	}

	lines := []string{v.styles.Title.Render("Scopes"), "", v.list.View()}
	if v.status != "" {
		lines = append(lines, "", v.styles.StatusError.Render(truncate(v.status, styles.SidebarWidth-2)))
	}
	return frame.Height(max(v.height-4, 1)).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// HelpLine returns the key hints for the sidebar
func (v *SidebarView) HelpLine() string {
	return helpLine(v.styles, v.width,
		v.keys.Enter, v.keys.NewArea, v.keys.NewProject, v.keys.Delete, v.keys.Tab, v.keys.Help, v.keys.Quit,
	)
}
