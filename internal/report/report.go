// Package report prints the board as an indented, colored outline.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/tgienger/taskboard/internal/board"
	"github.com/tgienger/taskboard/internal/models"
)

// Sprint color functions for building styled strings.
var (
	Bold        = color.New(color.Bold).SprintFunc()
	Dim         = color.New(color.Faint).SprintFunc()
	Green       = color.New(color.FgGreen).SprintFunc()
	Cyan        = color.New(color.FgCyan).SprintFunc()
	BoldCyan    = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldMagenta = color.New(color.Bold, color.FgMagenta).SprintFunc()
	BoldRed     = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow  = color.New(color.Bold, color.FgYellow).SprintFunc()
)

// Options narrows what gets printed
type Options struct {
	Scope board.Scope // zero: the whole tree
	Whole bool        // print every scope rather than just Scope
	IDs   bool        // show entity ids
}

// PriorityLabel returns a colored priority marker.
func PriorityLabel(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return BoldRed("!!")
	case models.PriorityLow:
		return Dim("..")
	default:
		return BoldYellow("! ")
	}
}

// StatusIcon returns a colored status icon for compact display.
func StatusIcon(s models.Status) string {
	switch s {
	case models.StatusCompleted:
		return Green("✓")
	case models.StatusInProgress:
		return Cyan("●")
	default:
		return Dim("◌")
	}
}

// Print writes the tree, or a single scope's containers, to w
func Print(w io.Writer, tree models.Tree, opts Options) error {
	p := &printer{w: w, ids: opts.IDs}
	if !opts.Whole {
		if !board.Resolves(tree, opts.Scope) {
			return fmt.Errorf("unknown scope %s", opts.Scope)
		}
		p.containers(board.Displayed(tree, opts.Scope), 0)
		return p.err
	}

	p.line(0, BoldCyan("Main"), "")
	p.containers(tree.Main, 1)
	for _, a := range tree.Areas {
		p.line(0, BoldCyan(a.Name), a.ID)
		p.containers(a.Containers, 1)
		for _, pr := range a.Projects {
			p.line(1, BoldMagenta(pr.Name), pr.ID)
			p.containers(pr.Containers, 2)
		}
	}
	return p.err
}

type printer struct {
	w   io.Writer
	ids bool
	err error
}

func (p *printer) line(depth int, text, id string) {
	if p.err != nil {
		return
	}
	if p.ids && id != "" {
		text += " " + Dim(id)
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", depth), text)
}

func (p *printer) containers(containers []models.Container, depth int) {
	if len(containers) == 0 {
		p.line(depth, Dim("(no containers)"), "")
		return
	}
	for _, c := range containers {
		p.line(depth, fmt.Sprintf("%s %s", Bold(c.Name), Dim(fmt.Sprintf("(%d)", len(c.Tasks)))), c.ID.String())
		for _, t := range c.Tasks {
			text := fmt.Sprintf("%s %s %s", StatusIcon(t.Status), PriorityLabel(t.Priority), t.Title)
			if len(t.Tags) > 0 {
				text += " " + Dim("#"+strings.Join(t.Tags, " #"))
			}
			p.line(depth+1, text, t.ID.String())
		}
	}
}
