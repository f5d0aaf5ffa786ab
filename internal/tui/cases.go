package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aarondl/null/v8"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pradhanfinservdev/pradhanportal-client/internal/dto"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/listctrl"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/optimistic"
	"github.com/pradhanfinservdev/pradhanportal-client/pkg/api"
	"github.com/pradhanfinservdev/pradhanportal-client/pkg/table"
)

var taskCycle = []string{"Call", "Collect Docs", "Login", "Sanction", "Disbursement"}

// fieldEditAppliedMsg carries an optimistic mutation back into the update
// loop; the editor's apply hook emits it, possibly from a timer goroutine.
type fieldEditAppliedMsg struct {
	view  View
	rowID string
	field string
	value string
}

type casesModel struct {
	view    View
	page    listPage[dto.CaseDTO]
	deps    pageDeps
	editor  *optimistic.Editor
	mine    bool
	taskIdx int

	editingAmount bool
	amountInput   textinput.Model
	amountPrev    string
	editRowID     string
}

func newCasesModel(deps pageDeps) casesModel {
	columns := []table.Column[dto.CaseDTO]{
		table.FieldColumn[dto.CaseDTO]("Case", "CaseID"),
		table.FieldColumn[dto.CaseDTO]("Customer", "CustomerName"),
		table.FieldColumn[dto.CaseDTO]("Bank", "Bank"),
		table.ComputedColumn[dto.CaseDTO]("Assigned", func(row dto.CaseDTO, _ int, _ table.RenderMode) string {
			if !row.AssignedTo.Valid || row.AssignedTo.String == "" {
				return "-"
			}
			return row.AssignedTo.String
		}),
		table.FieldColumn[dto.CaseDTO]("Task", "Task"),
		table.FieldColumn[dto.CaseDTO]("Status", "Status"),
		table.ComputedColumn[dto.CaseDTO]("Amount", func(row dto.CaseDTO, _ int, mode table.RenderMode) string {
			if !row.Amount.Valid {
				return ""
			}
			if mode == table.ModeExport {
				return strconv.FormatFloat(row.Amount.Float64, 'f', 2, 64)
			}
			return formatLakh(row.Amount.Float64)
		}),
	}

	svc := deps.svc.Cases
	m := casesModel{view: ViewCases, deps: deps}
	m.page = newListPage(ViewCases, "Cases", columns, func(ctx context.Context, q listctrl.Query) (api.ListResult[dto.CaseDTO], error) {
		return svc.List(ctx, q.Page, q.Search, q.Filters["assignedTo"], q.Filters["task"])
	}, deps)

	m.amountInput = textinput.New()
	m.amountInput.Prompt = "₹ "
	m.amountInput.CharLimit = 12

	m.editor = optimistic.NewEditor(
		m.writeField(),
		func(rowID, field, value string) {
			deps.send(fieldEditAppliedMsg{view: ViewCases, rowID: rowID, field: field, value: value})
		},
		func(rowID, field string, err error) {
			deps.send(actionDoneMsg{view: ViewCases, err: err})
		},
		deps.cfg.UI.DebounceWindow,
		deps.logger,
	)
	return m
}

// writeField maps an edited field name onto the partial case update the API
// expects.
func (m *casesModel) writeField() optimistic.WriteFunc {
	svc := m.deps.svc.Cases
	return func(ctx context.Context, rowID, field, value string) error {
		payload := dto.UpdateCaseDTO{}
		switch field {
		case "assignedTo":
			assigned := null.NewString(value, value != "")
			payload.AssignedTo = &assigned
		case "task":
			payload.Task = &value
		case "amount":
			parsed, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("amount must be a number: %w", err)
			}
			amount := null.Float64From(parsed)
			payload.Amount = &amount
		default:
			return fmt.Errorf("unknown case field %q", field)
		}
		return svc.Update(ctx, rowID, payload)
	}
}

func (m casesModel) Update(msg tea.Msg) (casesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case listReloadedMsg:
		if msg.view == m.view {
			return m, m.page.handleReloaded(msg)
		}

	case fieldEditAppliedMsg:
		if msg.view != m.view {
			return m, nil
		}
		m.applyEdit(msg)
		return m, nil

	case actionDoneMsg:
		if msg.view != m.view {
			return m, nil
		}
		if msg.err != nil {
			// The optimistic value is already reverted; reload to be sure
			// the page matches the server.
			return m, tea.Batch(reportErr(msg.err), m.page.reloadCmd())
		}
		return m, tea.Batch(reportStatus(msg.text), m.page.reloadCmd())

	case tea.KeyMsg:
		if m.editingAmount {
			return m.updateAmountEdit(msg)
		}
		if cmd, handled := m.page.handleKey(msg); handled {
			return m, cmd
		}
		switch msg.String() {
		case "o":
			return m, m.toggleAssignCmd()
		case "t":
			return m, m.cycleTaskCmd()
		case "e":
			return m.startAmountEdit()
		case "m":
			m.mine = !m.mine
			me := ""
			if m.mine {
				if user, ok := m.deps.session.User(); ok {
					me = user.Name
				}
			}
			m.page.ctrl.SetFilter("assignedTo", me)
			return m, m.page.reloadCmd()
		case "f":
			m.taskIdx = (m.taskIdx + 1) % (len(taskCycle) + 1)
			task := ""
			if m.taskIdx > 0 {
				task = taskCycle[m.taskIdx-1]
			}
			m.page.ctrl.SetFilter("task", task)
			return m, m.page.reloadCmd()
		case "enter":
			if selected, ok := m.page.tbl.Selected(); ok {
				return m, func() tea.Msg { return openCaseMsg{caseID: selected.ID} }
			}
		}
	}
	return m, nil
}

func (m *casesModel) applyEdit(msg fieldEditAppliedMsg) {
	m.page.ctrl.Patch(func(rows []dto.CaseDTO) {
		for i := range rows {
			if rows[i].ID != msg.rowID {
				continue
			}
			switch msg.field {
			case "assignedTo":
				rows[i].AssignedTo = null.NewString(msg.value, msg.value != "")
			case "task":
				rows[i].Task = msg.value
			case "amount":
				if parsed, err := strconv.ParseFloat(msg.value, 64); err == nil {
					rows[i].Amount = null.Float64From(parsed)
				}
			}
			return
		}
	})
	m.page.refresh()
}

// toggleAssignCmd assigns the selected case to the signed-in user, or
// releases it when it is already theirs. Immediate optimistic write.
func (m *casesModel) toggleAssignCmd() tea.Cmd {
	selected, ok := m.page.tbl.Selected()
	if !ok {
		return nil
	}
	user, signedIn := m.deps.session.User()
	if !signedIn {
		return nil
	}
	target := user.Name
	if selected.AssignedTo.Valid && selected.AssignedTo.String == user.Name {
		target = ""
	}
	editor := m.editor
	current := selected.AssignedTo.String
	return func() tea.Msg {
		editor.Set(context.Background(), selected.ID, "assignedTo", target, current)
		return nil
	}
}

func (m *casesModel) cycleTaskCmd() tea.Cmd {
	selected, ok := m.page.tbl.Selected()
	if !ok {
		return nil
	}
	next := taskCycle[0]
	for i, task := range taskCycle {
		if task == selected.Task {
			next = taskCycle[(i+1)%len(taskCycle)]
			break
		}
	}
	editor := m.editor
	return func() tea.Msg {
		editor.Set(context.Background(), selected.ID, "task", next, selected.Task)
		return nil
	}
}

func (m casesModel) startAmountEdit() (casesModel, tea.Cmd) {
	selected, ok := m.page.tbl.Selected()
	if !ok {
		return m, nil
	}
	m.editingAmount = true
	m.editRowID = selected.ID
	m.amountPrev = ""
	if selected.Amount.Valid {
		m.amountPrev = strconv.FormatFloat(selected.Amount.Float64, 'f', -1, 64)
	}
	m.amountInput.SetValue(m.amountPrev)
	m.amountInput.Focus()
	return m, textinput.Blink
}

func (m casesModel) updateAmountEdit(key tea.KeyMsg) (casesModel, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.editingAmount = false
		m.amountInput.Blur()
		return m, nil
	case "enter":
		m.editingAmount = false
		m.amountInput.Blur()
		m.editor.Flush()
		return m, nil
	}
	var cmd tea.Cmd
	m.amountInput, cmd = m.amountInput.Update(key)
	// Every keystroke restarts the quiet window; only the final value is
	// ever written.
	if value := m.amountInput.Value(); value != "" && value != m.amountPrev {
		m.editor.SetDebounced(m.editRowID, "amount", value, m.amountPrev)
	}
	return m, cmd
}

func (m casesModel) View() string {
	body := m.page.viewHeader() + m.page.tbl.View()
	if m.editingAmount {
		body += "\n" + labelStyle.Render("Sanctioned amount: ") + m.amountInput.View() +
			helpStyle.Render("  enter save now  esc close")
	}
	extra := "enter open  o assign  t task  e amount  m mine  f task filter"
	return body + m.page.viewFooter(extra)
}
