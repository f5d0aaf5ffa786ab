package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pradhanfinservdev/pradhanportal-client/internal/dto"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/listctrl"
	"github.com/pradhanfinservdev/pradhanportal-client/pkg/api"
	"github.com/pradhanfinservdev/pradhanportal-client/pkg/table"
	"github.com/pradhanfinservdev/pradhanportal-client/pkg/validation"
)

type partnersModel struct {
	view     View
	page     listPage[dto.PartnerDTO]
	deps     pageDeps
	creating bool
	form     form
	alert    string
}

func newPartnersModel(deps pageDeps) partnersModel {
	columns := []table.Column[dto.PartnerDTO]{
		table.FieldColumn[dto.PartnerDTO]("Name", "Name"),
		table.FieldColumn[dto.PartnerDTO]("Mobile", "Mobile"),
		table.FieldColumn[dto.PartnerDTO]("Email", "Email"),
		table.FieldColumn[dto.PartnerDTO]("Firm", "Firm"),
		table.FieldColumn[dto.PartnerDTO]("PAN", "PAN"),
	}

	svc := deps.svc.Partners
	m := partnersModel{
		view: ViewPartners,
		deps: deps,
		form: newForm(
			formField{Label: "Name"},
			formField{Label: "Mobile"},
			formField{Label: "Email"},
			formField{Label: "Firm"},
			formField{Label: "PAN"},
			formField{Label: "Aadhaar"},
		),
	}
	m.page = newListPage(ViewPartners, "Channel Partners", columns, func(ctx context.Context, q listctrl.Query) (api.ListResult[dto.PartnerDTO], error) {
		return svc.List(ctx, q.Page, q.Search)
	}, deps)
	return m
}

func (m partnersModel) Update(msg tea.Msg) (partnersModel, tea.Cmd) {
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

func (m partnersModel) updateCreateForm(key tea.KeyMsg) (partnersModel, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.creating = false
		return m, nil
	case "enter":
		payload := dto.CreatePartnerDTO{
			Name:    m.form.Value("Name"),
			Mobile:  validation.NormalizeIndianMobile(m.form.Value("Mobile")),
			Email:   m.form.Value("Email"),
			Firm:    m.form.Value("Firm"),
			PAN:     strings.ToUpper(m.form.Value("PAN")),
			Aadhaar: m.form.Value("Aadhaar"),
		}
		if err := m.deps.validate.Struct(payload); err != nil {
			m.alert = "Check the partner details: " + err.Error()
			return m, nil
		}
		m.creating = false
		svc, view := m.deps.svc.Partners, m.view
		return m, func() tea.Msg {
			created, err := svc.Create(context.Background(), payload)
			return actionDoneMsg{view: view, text: "Partner " + created.Name + " created", err: err}
		}
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(key)
	return m, cmd
}

func (m partnersModel) confirmDelete() (partnersModel, tea.Cmd) {
	if user, _ := m.deps.session.User(); !user.IsAdmin() {
		return m, reportStatus("Only admins can delete partners")
	}
	selected, ok := m.page.tbl.Selected()
	if !ok {
		return m, nil
	}
	svc := m.deps.svc.Partners
	ctrl, view := m.page.ctrl, m.view
	m.page.askConfirm("Delete partner "+selected.Name+"?", func() tea.Cmd {
		return func() tea.Msg {
			err := ctrl.DeleteAndReload(context.Background(), func(ctx context.Context) error {
				return svc.Delete(ctx, selected.ID)
			})
			return listReloadedMsg{view: view, err: err}
		}
	})
	return m, nil
}

func (m partnersModel) View() string {
	if m.creating {
		body := titleStyle.Render("New Channel Partner") + "\n\n" + m.form.View()
		if m.alert != "" {
			body += errorStyle.Render(m.alert) + "\n"
		}
		return body + helpStyle.Render("enter save  esc cancel")
	}
	return m.page.viewHeader() + m.page.tbl.View() + m.page.viewFooter("n new  d delete")
}
