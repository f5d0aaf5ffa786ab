package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pradhanfinservdev/pradhanportal-client/internal/dto"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/listctrl"
	"github.com/pradhanfinservdev/pradhanportal-client/pkg/api"
	"github.com/pradhanfinservdev/pradhanportal-client/pkg/table"
	"github.com/pradhanfinservdev/pradhanportal-client/pkg/validation"
)

var workflowCycle = []string{"", "FreePool", "Postpone"}

type leadsModel struct {
	page     listPage[dto.LeadDTO]
	deps     pageDeps
	archived bool
	// client-side narrowing over the fetched page
	workflowIdx int
	typeFilter  string

	creating bool
	form     form
	alert    string
}

func newLeadsModel(deps pageDeps) leadsModel {
	columns := []table.Column[dto.LeadDTO]{
		table.FieldColumn[dto.LeadDTO]("Lead ID", "LeadID"),
		table.FieldColumn[dto.LeadDTO]("Name", "Name"),
		table.FieldColumn[dto.LeadDTO]("Mobile", "Mobile"),
		table.FieldColumn[dto.LeadDTO]("Type", "LeadType"),
		table.FieldColumn[dto.LeadDTO]("Sub type", "SubType"),
		table.FieldColumn[dto.LeadDTO]("Workflow", "WorkflowStatus"),
		table.ComputedColumn[dto.LeadDTO]("Age", func(row dto.LeadDTO, _ int, mode table.RenderMode) string {
			if mode == table.ModeExport {
				return row.CreatedAt
			}
			return timeAgo(row.CreatedAt)
		}),
	}

	svc := deps.svc.Leads
	m := leadsModel{
		deps: deps,
		form: newForm(
			formField{Label: "Name"},
			formField{Label: "Mobile"},
			formField{Label: "Email"},
			formField{Label: "Lead type"},
			formField{Label: "Sub type"},
		),
	}
	m.page = newListPage(ViewLeads, "Leads", columns, func(ctx context.Context, q listctrl.Query) (api.ListResult[dto.LeadDTO], error) {
		return svc.List(ctx, q.Page, q.Search, q.Filters["status"])
	}, deps)
	m.page.ctrl.SetFilter("status", "free_pool")
	// Newest first, with postponed leads sunk to the bottom regardless of age.
	m.page.ctrl.SetSort(func(a, b dto.LeadDTO) bool {
		aPost, bPost := a.WorkflowStatus == "Postpone", b.WorkflowStatus == "Postpone"
		if aPost != bPost {
			return bPost
		}
		return a.CreatedAt > b.CreatedAt
	})
	return m
}

func (m leadsModel) Update(msg tea.Msg) (leadsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case listReloadedMsg:
		if msg.view == m.page.view {
			return m, m.page.handleReloaded(msg)
		}

	case actionDoneMsg:
		if msg.view != m.page.view {
			return m, nil
		}
		if msg.err != nil {
			return m, reportErr(msg.err)
		}
		return m, tea.Batch(reportStatus(msg.text), m.page.reloadCmd())

	case tea.KeyMsg:
		if m.creating {
			return m.updateCreateForm(msg)
		}
		if cmd, handled := m.page.handleKey(msg); handled {
			return m, cmd
		}
		switch msg.String() {
		case "a":
			m.archived = !m.archived
			status := "free_pool"
			if m.archived {
				status = "archived"
				m.page.title = "Archived Leads"
			} else {
				m.page.title = "Leads"
			}
			m.page.ctrl.SetFilter("status", status)
			return m, m.page.reloadCmd()
		case "w":
			m.workflowIdx = (m.workflowIdx + 1) % len(workflowCycle)
			m.applyClientFilters()
			return m, nil
		case "t":
			m.typeFilter = nextLeadType(m.page.ctrl.Rows(), m.typeFilter)
			m.applyClientFilters()
			return m, nil
		case "p":
			return m, m.toggleWorkflowCmd()
		case "d":
			return m.confirmDelete()
		case "n":
			m.creating = true
			m.form = m.form.Reset()
			m.alert = ""
			return m, nil
		}
	}
	return m, nil
}

func (m *leadsModel) applyClientFilters() {
	var filters []func(dto.LeadDTO) bool
	if want := workflowCycle[m.workflowIdx]; want != "" {
		filters = append(filters, func(l dto.LeadDTO) bool { return l.WorkflowStatus == want })
	}
	if want := m.typeFilter; want != "" {
		filters = append(filters, func(l dto.LeadDTO) bool { return l.LeadType == want })
	}
	m.page.ctrl.SetClientFilters(filters...)
	m.page.refresh()
}

// nextLeadType cycles through the distinct lead types present on the
// fetched page, ending back at "no filter".
func nextLeadType(rows []dto.LeadDTO, current string) string {
	var types []string
	seen := map[string]bool{}
	for _, row := range rows {
		if row.LeadType != "" && !seen[row.LeadType] {
			seen[row.LeadType] = true
			types = append(types, row.LeadType)
		}
	}
	if len(types) == 0 {
		return ""
	}
	if current == "" {
		return types[0]
	}
	for i, t := range types {
		if t == current {
			if i+1 < len(types) {
				return types[i+1]
			}
			return ""
		}
	}
	return ""
}

// toggleWorkflowCmd flips the selected lead between FreePool and Postpone,
// then reloads so the sink-to-bottom ordering reapplies.
func (m *leadsModel) toggleWorkflowCmd() tea.Cmd {
	lead, ok := m.page.tbl.Selected()
	if !ok {
		return nil
	}
	target := "Postpone"
	if lead.WorkflowStatus == "Postpone" {
		target = "FreePool"
	}
	svc, view := m.deps.svc.Leads, m.page.view
	return func() tea.Msg {
		err := svc.UpdateWorkflow(context.Background(), lead.ID, target)
		return actionDoneMsg{view: view, text: lead.LeadID + " moved to " + target, err: err}
	}
}

func (m leadsModel) confirmDelete() (leadsModel, tea.Cmd) {
	if user, _ := m.deps.session.User(); !user.IsAdmin() {
		return m, reportStatus("Only admins can delete leads")
	}
	lead, ok := m.page.tbl.Selected()
	if !ok {
		return m, nil
	}
	svc := m.deps.svc.Leads
	ctrl, view := m.page.ctrl, m.page.view
	m.page.askConfirm("Delete lead "+lead.LeadID+"?", func() tea.Cmd {
		return func() tea.Msg {
			err := ctrl.DeleteAndReload(context.Background(), func(ctx context.Context) error {
				return svc.Delete(ctx, lead.ID)
			})
			return listReloadedMsg{view: view, err: err}
		}
	})
	return m, nil
}

func (m leadsModel) updateCreateForm(key tea.KeyMsg) (leadsModel, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.creating = false
		return m, nil
	case "enter":
		mobile := validation.NormalizeIndianMobile(m.form.Value("Mobile"))
		if m.form.Value("Name") == "" || mobile == "" {
			m.alert = "Name and a valid 10-digit mobile are required"
			return m, nil
		}
		payload := dto.CreateLeadDTO{
			Name:     m.form.Value("Name"),
			Mobile:   mobile,
			Email:    m.form.Value("Email"),
			LeadType: m.form.Value("Lead type"),
			SubType:  m.form.Value("Sub type"),
		}
		if err := m.deps.validate.Struct(payload); err != nil {
			m.alert = "Check the lead details: " + err.Error()
			return m, nil
		}
		m.creating = false
		svc, view := m.deps.svc.Leads, m.page.view
		return m, func() tea.Msg {
			created, err := svc.Create(context.Background(), payload)
			return actionDoneMsg{view: view, text: "Lead " + created.LeadID + " created", err: err}
		}
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(key)
	return m, cmd
}

func (m leadsModel) View() string {
	if m.creating {
		body := titleStyle.Render("New Lead") + "\n\n" + m.form.View()
		if m.alert != "" {
			body += errorStyle.Render(m.alert) + "\n"
		}
		return body + helpStyle.Render("enter save  esc cancel")
	}
	extra := "p postpone/restore  w workflow  t type  a archived  n new  d delete"
	return m.page.viewHeader() + m.page.tbl.View() + m.page.viewFooter(extra)
}

// timeAgo renders the lead aging label shown next to each row.
func timeAgo(createdAt string) string {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
