package ui

import (
	"context"
	"log"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskboard/internal/board"
	"github.com/tgienger/taskboard/internal/db"
	"github.com/tgienger/taskboard/internal/models"
	"github.com/tgienger/taskboard/internal/ui/keys"
	"github.com/tgienger/taskboard/internal/ui/styles"
	"github.com/tgienger/taskboard/internal/ui/views"
)

// Focus is the pane receiving keys
type Focus int

const (
	FocusBoard Focus = iota
	FocusSidebar
)

type App struct {
	db      *db.DB
	board   *board.Board
	sidebar *views.SidebarView
	boardV  *views.BoardView
	styles  *styles.Styles
	keys    keys.KeyMap
	focus   Focus
	loaded  bool
	loadErr error
	width   int
	height  int
}

// NewApp creates a new application
func NewApp(database *db.DB, layout views.Layout) *App {
	b := board.New(models.Tree{})
	a := &App{
		db:      database,
		board:   b,
		sidebar: views.NewSidebarView(database, b),
		boardV:  views.NewBoardView(database, b, layout),
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
	}
	a.setFocus(FocusBoard)
	return a
}

type treeLoadedMsg struct {
	tree  models.Tree
	scope board.Scope
}

type loadFailedMsg struct {
	err error
}

func (a *App) Init() tea.Cmd {
	return a.load
}

func (a *App) load() tea.Msg {
	tree, err := a.db.LoadTree(context.Background())
	if err != nil {
		return loadFailedMsg{err: err}
	}
	// Check for last opened scope
	scope, err := a.db.LastScope()
	if err != nil {
		log.Printf("ui: last scope: %v", err)
		scope = board.MainScope()
	}
	return treeLoadedMsg{tree: tree, scope: scope}
}

func (a *App) setFocus(f Focus) {
	a.focus = f
	a.sidebar.SetFocused(f == FocusSidebar)
	a.boardV.SetFocused(f == FocusBoard)
}

func (a *App) selectScope(sc board.Scope) {
	a.board.Restore(sc)
	a.boardV.Reset()
	a.sidebar.Refresh()
	a.sidebar.Select(a.board.Scope())

	// Save as last opened scope
	if err := a.db.SaveScope(a.board.Scope()); err != nil {
		log.Printf("ui: save scope: %v", err)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.sidebar.Update(msg)
		a.boardV.Update(msg)
		return a, nil

	case treeLoadedMsg:
		a.board.SetTree(msg.tree)
		a.selectScope(msg.scope)
		a.loaded = true
		return a, nil

	case loadFailedMsg:
		log.Printf("ui: load tree: %v", msg.err)
		a.loadErr = msg.err
		return a, nil

	case views.ScopeSelected:
		a.selectScope(msg.Scope)
		a.setFocus(FocusBoard)
		return a, nil

	case tea.KeyMsg:
		if !a.loaded {
			if key.Matches(msg, a.keys.Quit) {
				return a, tea.Quit
			}
			return a, nil
		}
		if key.Matches(msg, a.keys.Tab) && !a.focusedModal() && !a.dragging() {
			if a.focus == FocusBoard {
				a.setFocus(FocusSidebar)
			} else {
				a.setFocus(FocusBoard)
			}
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.focus {
	case FocusSidebar:
		_, cmd = a.sidebar.Update(msg)
	default:
		_, cmd = a.boardV.Update(msg)
	}
	return a, cmd
}

func (a *App) focusedModal() bool {
	if a.focus == FocusSidebar {
		return a.sidebar.Modal()
	}
	return a.boardV.Modal()
}

func (a *App) dragging() bool {
	_, ok := a.board.Dragging()
	return ok
}

func (a *App) View() string {
	if a.loadErr != nil {
		return a.styles.StatusError.Render("Failed to load board: "+a.loadErr.Error()) + "\n"
	}
	if !a.loaded {
		return a.styles.TitleMuted.Render("Loading...")
	}

	// Popups take the whole screen
	if a.sidebar.Modal() {
		return a.sidebar.View()
	}
	if a.boardV.Modal() {
		return a.boardV.View()
	}

	help := a.boardV.HelpLine()
	if a.focus == FocusSidebar {
		help = a.sidebar.HelpLine()
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top, a.sidebar.View(), " ", a.boardV.View())
	return styles.CenterView(lipgloss.JoinVertical(lipgloss.Left, main, help), a.width, a.height)
}
