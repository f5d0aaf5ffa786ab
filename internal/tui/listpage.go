package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pradhanfinservdev/pradhanportal-client/internal/listctrl"
	"github.com/pradhanfinservdev/pradhanportal-client/pkg/table"
)

// listPage is the scaffold every entity list view builds on: a controller
// bound to one endpoint, a table over its visible rows, a search box and a
// yes/no confirmation overlay for destructive actions.
type listPage[T any] struct {
	view  View
	title string
	ctrl  *listctrl.Controller[T]
	tbl   *table.Model[T]

	search    textinput.Model
	searching bool
	loading   bool

	confirming  bool
	confirmText string
	onConfirm   func() tea.Cmd
}

func newListPage[T any](view View, title string, columns []table.Column[T], fetch listctrl.FetchFunc[T], deps pageDeps) listPage[T] {
	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search"
	return listPage[T]{
		view:   view,
		title:  title,
		ctrl:   listctrl.NewController(fetch, deps.logger),
		tbl:    table.New(columns),
		search: search,
	}
}

func (p *listPage[T]) reloadCmd() tea.Cmd {
	p.loading = true
	ctrl, view := p.ctrl, p.view
	return func() tea.Msg {
		return listReloadedMsg{view: view, err: ctrl.Load(context.Background())}
	}
}

func (p *listPage[T]) handleReloaded(msg listReloadedMsg) tea.Cmd {
	p.loading = false
	if msg.err != nil {
		return reportErr(msg.err)
	}
	p.refresh()
	return nil
}

// refresh re-renders the table from the controller's current visible rows.
func (p *listPage[T]) refresh() {
	p.tbl.SetRows(p.ctrl.Visible(), p.ctrl.Page(), p.ctrl.Pages())
}

// askConfirm arms the yes/no overlay; onConfirm runs on "y".
func (p *listPage[T]) askConfirm(text string, onConfirm func() tea.Cmd) {
	p.confirming = true
	p.confirmText = text
	p.onConfirm = onConfirm
}

// handleKey processes the keys shared by all list pages and reports whether
// the key was consumed.
func (p *listPage[T]) handleKey(key tea.KeyMsg) (tea.Cmd, bool) {
	if p.confirming {
		switch key.String() {
		case "y", "Y":
			p.confirming = false
			if p.onConfirm != nil {
				return p.onConfirm(), true
			}
			return nil, true
		case "n", "N", "esc":
			p.confirming = false
			return nil, true
		}
		return nil, true
	}

	if p.searching {
		switch key.String() {
		case "esc":
			p.searching = false
			p.search.Blur()
			return nil, true
		case "enter":
			p.searching = false
			p.search.Blur()
			return nil, true
		default:
			var cmd tea.Cmd
			p.search, cmd = p.search.Update(key)
			if p.ctrl.SetSearch(p.search.Value()) {
				return tea.Batch(cmd, p.reloadCmd()), true
			}
			return cmd, true
		}
	}

	switch key.String() {
	case "/":
		p.searching = true
		p.search.Focus()
		return textinput.Blink, true
	case "left", "h":
		if p.ctrl.PrevPage() {
			return p.reloadCmd(), true
		}
		return nil, true
	case "right", "l":
		if p.ctrl.NextPage() {
			return p.reloadCmd(), true
		}
		return nil, true
	case "up", "k":
		p.tbl.CursorUp()
		return nil, true
	case "down", "j":
		p.tbl.CursorDown()
		return nil, true
	case "r":
		return p.reloadCmd(), true
	case "x":
		return p.exportCmd(), true
	}
	return nil, false
}

func (p *listPage[T]) exportCmd() tea.Cmd {
	tbl, title, view := p.tbl, p.title, p.view
	return func() tea.Msg {
		name := fmt.Sprintf("%s_%s.xlsx", title, time.Now().Format("2006-01-02"))
		f, err := os.Create(name)
		if err != nil {
			return actionDoneMsg{view: view, err: err}
		}
		defer f.Close()
		if err := tbl.ExportXLSX(f, title); err != nil {
			return actionDoneMsg{view: view, err: err}
		}
		return actionDoneMsg{view: view, text: "Exported " + name}
	}
}

func (p *listPage[T]) viewHeader() string {
	header := titleStyle.Render(p.title)
	if p.loading {
		header += faintStyle.Render("  loading...")
	}
	if p.searching || p.search.Value() != "" {
		header += "  " + p.search.View()
	}
	return header + "\n\n"
}

func (p *listPage[T]) viewFooter(extra string) string {
	if p.confirming {
		return "\n" + errorStyle.Render(p.confirmText+" (y/n)")
	}
	help := "/ search  ←/→ page  ↑/↓ row  r reload  x export"
	if extra != "" {
		help += "  " + extra
	}
	return "\n" + helpStyle.Render(help)
}

func (p *listPage[T]) View() string {
	return p.viewHeader() + p.tbl.View() + p.viewFooter("")
}
