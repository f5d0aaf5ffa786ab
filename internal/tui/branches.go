package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pradhanfinservdev/pradhanportal-client/internal/dto"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/listctrl"
	"github.com/pradhanfinservdev/pradhanportal-client/pkg/api"
	"github.com/pradhanfinservdev/pradhanportal-client/pkg/table"
	"github.com/pradhanfinservdev/pradhanportal-client/pkg/validation"
)

type branchesModel struct {
	view     View
	page     listPage[dto.BranchDTO]
	deps     pageDeps
	creating bool
	form     form
	alert    string
}

func newBranchesModel(deps pageDeps) branchesModel {
	columns := []table.Column[dto.BranchDTO]{
		table.FieldColumn[dto.BranchDTO]("Branch", "Name"),
		table.FieldColumn[dto.BranchDTO]("Bank", "BankName"),
		table.FieldColumn[dto.BranchDTO]("Manager", "Manager"),
		table.FieldColumn[dto.BranchDTO]("Contact", "Contact"),
		table.FieldColumn[dto.BranchDTO]("Address", "Address"),
	}

	svc := deps.svc.Branches
	m := branchesModel{
		view: ViewBranches,
		deps: deps,
		form: newForm(
			formField{Label: "Name"},
			formField{Label: "Bank"},
			formField{Label: "Address"},
			formField{Label: "Contact"},
			formField{Label: "Manager"},
		),
	}
	m.page = newListPage(ViewBranches, "Bank Branches", columns, func(ctx context.Context, q listctrl.Query) (api.ListResult[dto.BranchDTO], error) {
		return svc.List(ctx, q.Page, q.Search)
	}, deps)
	return m
}

func (m branchesModel) Update(msg tea.Msg) (branchesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case listReloadedMsg:
		if msg.view == m.view {
			return m, m.page.handleReloaded(msg)
		}

	case actionDoneMsg:
		if msg.view != m.view {
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
		case "n":
			m.creating = true
			m.form = m.form.Reset()
			m.alert = ""
			return m, nil
		case "d":
			return m.confirmDelete()
		}
	}
	return m, nil
}

func (m branchesModel) updateCreateForm(key tea.KeyMsg) (branchesModel, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.creating = false
		return m, nil
	case "enter":
		payload := dto.CreateBranchDTO{
			Name:     m.form.Value("Name"),
			BankName: m.form.Value("Bank"),
			Address:  m.form.Value("Address"),
			Contact:  validation.NormalizeIndianMobile(m.form.Value("Contact")),
			Manager:  m.form.Value("Manager"),
		}
		if err := m.deps.validate.Struct(payload); err != nil {
			m.alert = "Check the branch details: " + err.Error()
			return m, nil
		}
		m.creating = false
		svc, view := m.deps.svc.Branches, m.view
		return m, func() tea.Msg {
			created, err := svc.Create(context.Background(), payload)
			return actionDoneMsg{view: view, text: "Branch " + created.Name + " created", err: err}
		}
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(key)
	return m, cmd
}

func (m branchesModel) confirmDelete() (branchesModel, tea.Cmd) {
	if user, _ := m.deps.session.User(); !user.IsAdmin() {
		return m, reportStatus("Only admins can delete branches")
	}
	selected, ok := m.page.tbl.Selected()
	if !ok {
		return m, nil
	}
	svc := m.deps.svc.Branches
	ctrl, view := m.page.ctrl, m.view
	m.page.askConfirm("Delete branch "+selected.Name+"?", func() tea.Cmd {
		return func() tea.Msg {
			err := ctrl.DeleteAndReload(context.Background(), func(ctx context.Context) error {
				return svc.Delete(ctx, selected.ID)
			})
			return listReloadedMsg{view: view, err: err}
		}
	})
	return m, nil
}

func (m branchesModel) View() string {
	if m.creating {
		body := titleStyle.Render("New Branch") + "\n\n" + m.form.View()
		if m.alert != "" {
			body += errorStyle.Render(m.alert) + "\n"
		}
		return body + helpStyle.Render("enter save  esc cancel")
	}
	return m.page.viewHeader() + m.page.tbl.View() + m.page.viewFooter("n new  d delete")
}
