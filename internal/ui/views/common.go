package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskboard/internal/board"
	"github.com/tgienger/taskboard/internal/ui/keys"
	"github.com/tgienger/taskboard/internal/ui/styles"
)

// ScopeSelected asks the app to show another scope
type ScopeSelected struct {
	Scope board.Scope
}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// nameForm is a single-field popup for naming a new area, project or column
type nameForm struct {
	title    string
	input    textinput.Model
	focusIdx int // 0=name, 1=save
}

func newNameForm(placeholder string) nameForm {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = 100
	return nameForm{input: input}
}

func (f *nameForm) open(title string) tea.Cmd {
	f.title = title
	f.focusIdx = 0
	f.input.Reset()
	f.input.Focus()
	return textinput.Blink
}

// update feeds a key to the form. done is set when the form closes; name is
// empty when it was cancelled.
func (f *nameForm) update(msg tea.KeyMsg, km keys.KeyMap) (name string, done bool, cmd tea.Cmd) {
	switch {
	case key.Matches(msg, km.Back):
		f.input.Blur()
		return "", true, nil

	case msg.String() == "ctrl+s":
		return f.submit()

	case key.Matches(msg, km.Tab), msg.String() == "shift+tab":
		f.focusIdx = 1 - f.focusIdx
		if f.focusIdx == 0 {
			f.input.Focus()
		} else {
			f.input.Blur()
		}
		return "", false, nil

	case key.Matches(msg, km.Enter):
		return f.submit()
	}

	if f.focusIdx == 0 {
		f.input, cmd = f.input.Update(msg)
	}
	return "", false, cmd
}

func (f *nameForm) submit() (string, bool, tea.Cmd) {
	name := strings.TrimSpace(f.input.Value())
	if name == "" {
		return "", false, nil
	}
	f.input.Blur()
	return name, true, nil
}

func (f nameForm) view(s *styles.Styles, width, height int) string {
	inputStyle := s.InputFocused
	btnStyle := s.Button
	if f.focusIdx == 1 {
		inputStyle = s.Input
		btnStyle = s.ButtonFocused
	}

	contentWidth := styles.ContentWidth(width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(f.title),
		"",
		"Name:",
		inputStyle.Width(inputWidth).Render(f.input.View()),
		"",
		btnStyle.Render(" Save "),
		"",
		s.TitleMuted.Render("Tab: next • ↵/Ctrl+S: save • Esc: cancel"),
	)
	return placeCenter(form, width, height)
}

// confirm is a yes/no popup for destructive actions
type confirm struct {
	active bool
	title  string
	detail string
}

func (c *confirm) ask(title, detail string) {
	c.active = true
	c.title = title
	c.detail = detail
}

// answer reports whether msg confirmed; any handled key closes the popup
func (c *confirm) answer(msg tea.KeyMsg) (yes, handled bool) {
	switch msg.String() {
	case "y", "Y":
		c.active = false
		return true, true
	case "n", "N", "esc":
		c.active = false
		return false, true
	}
	return false, false
}

func (c confirm) view(s *styles.Styles, width, height int) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render(c.title),
		"",
		s.TitleMuted.Render(c.detail),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)
	return placeCenter(content, width, height)
}

// helpPopup renders key bindings in a bordered box
func helpPopup(s *styles.Styles, width, height int, bindings ...key.Binding) string {
	items := []string{s.Title.Render("Keyboard Shortcuts"), ""}
	for _, b := range bindings {
		h := b.Help()
		items = append(items, s.HelpKey.Render(padRight(h.Key, 8))+s.HelpDesc.Render(h.Desc))
	}
	items = append(items, "", s.TitleMuted.Render("Press any key to close"))

	content := lipgloss.JoinVertical(lipgloss.Left, items...)
	return placeCenter(s.Popup.Render(content), width, height)
}

// helpLine renders a one-line hint of bindings, or just "? help" when narrow
func helpLine(s *styles.Styles, width int, bindings ...key.Binding) string {
	if width > 0 && width < 50 {
		return s.Help.Render(s.HelpKey.Render("?") + " help")
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, s.HelpKey.Render(h.Key)+" "+h.Desc)
	}
	return s.Help.Render(strings.Join(parts, " • "))
}

func placeCenter(content string, width, height int) string {
	contentWidth := styles.ContentWidth(width)
	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, width, height)
}

func padRight(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s + " "
}

// truncate shortens s to width cells, marking the cut with an ellipsis
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
