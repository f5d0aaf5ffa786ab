package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pradhanfinservdev/pradhanportal-client/internal/dto"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/listctrl"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/optimistic"
	"github.com/pradhanfinservdev/pradhanportal-client/pkg/api"
	"github.com/pradhanfinservdev/pradhanportal-client/pkg/table"
)

type customerMetaMsg struct {
	banks    []string
	statuses []string
	err      error
}

type customersModel struct {
	view   View
	page   listPage[dto.CustomerDTO]
	deps   pageDeps
	editor *optimistic.Editor

	banks     []string
	statuses  []string
	bankIdx   int
	statusIdx int

	uploading   bool
	uploadLabel string
	pathInput   textinput.Model
}

func newCustomersModel(deps pageDeps) customersModel {
	columns := []table.Column[dto.CustomerDTO]{
		table.FieldColumn[dto.CustomerDTO]("Customer", "CustomerID"),
		table.FieldColumn[dto.CustomerDTO]("Name", "Name"),
		table.FieldColumn[dto.CustomerDTO]("Mobile", "Mobile"),
		table.FieldColumn[dto.CustomerDTO]("Partner", "ChannelPartner"),
		table.FieldColumn[dto.CustomerDTO]("Bank", "BankName"),
		table.FieldColumn[dto.CustomerDTO]("Status", "Status"),
		table.ComputedColumn[dto.CustomerDTO]("Disbursed", func(row dto.CustomerDTO, _ int, mode table.RenderMode) string {
			if mode == table.ModeExport {
				return fmt.Sprintf("%.2f", row.TotalDisbursed)
			}
			return formatLakh(row.TotalDisbursed)
		}),
	}

	svc := deps.svc.Customers
	m := customersModel{view: ViewCustomers, deps: deps}
	m.page = newListPage(ViewCustomers, "Customers", columns, func(ctx context.Context, q listctrl.Query) (api.ListResult[dto.CustomerDTO], error) {
		return svc.List(ctx, q.Page, q.Search, q.Filters["bank"], q.Filters["status"])
	}, deps)
	// Open customers surface above closed ones; within a group the server
	// order stands.
	m.page.ctrl.SetSort(func(a, b dto.CustomerDTO) bool {
		return a.Status == "open" && b.Status != "open"
	})

	m.pathInput = textinput.New()
	m.pathInput.Prompt = "file: "
	m.pathInput.Placeholder = "/path/to/document.pdf"

	m.editor = optimistic.NewEditor(
		m.writeField(),
		func(rowID, field, value string) {
			deps.send(fieldEditAppliedMsg{view: ViewCustomers, rowID: rowID, field: field, value: value})
		},
		func(rowID, field string, err error) {
			deps.send(actionDoneMsg{view: ViewCustomers, err: err})
		},
		deps.cfg.UI.DebounceWindow,
		deps.logger,
	)
	return m
}

func (m *customersModel) writeField() optimistic.WriteFunc {
	svc := m.deps.svc.Customers
	return func(ctx context.Context, rowID, field, value string) error {
		payload := dto.UpdateCustomerFieldDTO{}
		switch field {
		case "channelPartner":
			payload.ChannelPartner = &value
		case "bankName":
			payload.BankName = &value
		case "status":
			payload.Status = &value
		default:
			return fmt.Errorf("unknown customer field %q", field)
		}
		return svc.PatchField(ctx, rowID, payload)
	}
}

func (m *customersModel) loadMetaCmd() tea.Cmd {
	svc := m.deps.svc.Customers
	return func() tea.Msg {
		banks, err := svc.Banks(context.Background())
		if err != nil {
			return customerMetaMsg{err: err}
		}
		statuses, err := svc.Statuses(context.Background())
		return customerMetaMsg{banks: banks, statuses: statuses, err: err}
	}
}

func (m customersModel) Update(msg tea.Msg) (customersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case listReloadedMsg:
		if msg.view == m.view {
			return m, m.page.handleReloaded(msg)
		}

	case customerMetaMsg:
		if msg.err != nil {
			return m, reportErr(msg.err)
		}
		m.banks = msg.banks
		m.statuses = msg.statuses
		return m, nil

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
			return m, tea.Batch(reportErr(msg.err), m.page.reloadCmd())
		}
		return m, tea.Batch(reportStatus(msg.text), m.page.reloadCmd())

	case tea.KeyMsg:
		if m.uploading {
			return m.updateUpload(msg)
		}
		if cmd, handled := m.page.handleKey(msg); handled {
			return m, cmd
		}
		switch msg.String() {
		case "b":
			m.bankIdx = (m.bankIdx + 1) % (len(m.banks) + 1)
			bank := ""
			if m.bankIdx > 0 {
				bank = m.banks[m.bankIdx-1]
			}
			m.page.ctrl.SetFilter("bank", bank)
			return m, m.page.reloadCmd()
		case "s":
			m.statusIdx = (m.statusIdx + 1) % (len(m.statuses) + 1)
			status := ""
			if m.statusIdx > 0 {
				status = m.statuses[m.statusIdx-1]
			}
			m.page.ctrl.SetFilter("status", status)
			return m, m.page.reloadCmd()
		case "c":
			return m, m.toggleStatusCmd()
		case "B":
			return m, m.cycleBankCmd()
		case "p":
			return m, m.cyclePartnerCmd()
		case "u":
			return m.startUpload("PAN")
		case "U":
			return m.startUpload("AADHAAR")
		case "d":
			return m.confirmDelete()
		}
	}
	return m, nil
}

func (m *customersModel) applyEdit(msg fieldEditAppliedMsg) {
	m.page.ctrl.Patch(func(rows []dto.CustomerDTO) {
		for i := range rows {
			if rows[i].ID != msg.rowID {
				continue
			}
			switch msg.field {
			case "channelPartner":
				rows[i].ChannelPartner = msg.value
			case "bankName":
				rows[i].BankName = msg.value
			case "status":
				rows[i].Status = msg.value
			}
			return
		}
	})
	m.page.refresh()
}

// toggleStatusCmd flips open/close. Closing requires a recorded
// disbursement; the server enforces the same rule.
func (m *customersModel) toggleStatusCmd() tea.Cmd {
	if user, _ := m.deps.session.User(); !user.IsAdmin() {
		return reportStatus("Only admins can change customer status")
	}
	selected, ok := m.page.tbl.Selected()
	if !ok {
		return nil
	}
	target := "close"
	if selected.Status == "close" {
		target = "open"
	}
	if target == "close" && selected.TotalDisbursed <= 0 {
		return reportStatus("Cannot close " + selected.Name + ": no disbursement recorded")
	}
	editor := m.editor
	return func() tea.Msg {
		editor.Set(context.Background(), selected.ID, "status", target, selected.Status)
		return nil
	}
}

func (m *customersModel) cycleBankCmd() tea.Cmd {
	if user, _ := m.deps.session.User(); !user.IsAdmin() {
		return reportStatus("Only admins can reassign banks")
	}
	selected, ok := m.page.tbl.Selected()
	if !ok || len(m.banks) == 0 {
		return nil
	}
	next := m.banks[0]
	for i, bank := range m.banks {
		if bank == selected.BankName {
			next = m.banks[(i+1)%len(m.banks)]
			break
		}
	}
	editor := m.editor
	return func() tea.Msg {
		editor.Set(context.Background(), selected.ID, "bankName", next, selected.BankName)
		return nil
	}
}

// cyclePartnerCmd reassigns the customer to the next channel partner seen
// on the fetched page.
func (m *customersModel) cyclePartnerCmd() tea.Cmd {
	if user, _ := m.deps.session.User(); !user.IsAdmin() {
		return reportStatus("Only admins can reassign partners")
	}
	selected, ok := m.page.tbl.Selected()
	if !ok {
		return nil
	}
	var partners []string
	seen := map[string]bool{}
	for _, row := range m.page.ctrl.Rows() {
		if row.ChannelPartner != "" && !seen[row.ChannelPartner] {
			seen[row.ChannelPartner] = true
			partners = append(partners, row.ChannelPartner)
		}
	}
	if len(partners) < 2 {
		return nil
	}
	next := partners[0]
	for i, partner := range partners {
		if partner == selected.ChannelPartner {
			next = partners[(i+1)%len(partners)]
			break
		}
	}
	editor := m.editor
	return func() tea.Msg {
		editor.Set(context.Background(), selected.ID, "channelPartner", next, selected.ChannelPartner)
		return nil
	}
}

func (m customersModel) startUpload(label string) (customersModel, tea.Cmd) {
	if _, ok := m.page.tbl.Selected(); !ok {
		return m, nil
	}
	m.uploading = true
	m.uploadLabel = label
	m.pathInput.SetValue("")
	m.pathInput.Focus()
	return m, textinput.Blink
}

func (m customersModel) updateUpload(key tea.KeyMsg) (customersModel, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.uploading = false
		m.pathInput.Blur()
		return m, nil
	case "enter":
		m.uploading = false
		m.pathInput.Blur()
		selected, ok := m.page.tbl.Selected()
		if !ok {
			return m, nil
		}
		path := strings.TrimSpace(m.pathInput.Value())
		svc, label, view := m.deps.svc.Customers, m.uploadLabel, m.view
		return m, func() tea.Msg {
			content, err := os.ReadFile(path)
			if err != nil {
				return actionDoneMsg{view: view, err: err}
			}
			err = svc.UploadKYC(context.Background(), selected.ID, label, filepath.Base(path), content)
			return actionDoneMsg{view: view, text: label + " uploaded for " + selected.Name, err: err}
		}
	}
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(key)
	return m, cmd
}

func (m customersModel) confirmDelete() (customersModel, tea.Cmd) {
	if user, _ := m.deps.session.User(); !user.IsAdmin() {
		return m, reportStatus("Only admins can delete customers")
	}
	selected, ok := m.page.tbl.Selected()
	if !ok {
		return m, nil
	}
	svc := m.deps.svc.Customers
	ctrl, view := m.page.ctrl, m.view
	m.page.askConfirm("Delete customer "+selected.Name+"?", func() tea.Cmd {
		return func() tea.Msg {
			err := ctrl.DeleteAndReload(context.Background(), func(ctx context.Context) error {
				return svc.Delete(ctx, selected.ID)
			})
			return listReloadedMsg{view: view, err: err}
		}
	})
	return m, nil
}

func (m customersModel) View() string {
	body := m.page.viewHeader() + m.page.tbl.View()
	if m.uploading {
		body += "\n" + labelStyle.Render("Upload "+m.uploadLabel+": ") + m.pathInput.View() +
			helpStyle.Render("  enter upload  esc cancel")
	}
	extra := "b/s filters  c open/close  B bank  p partner  u PAN  U aadhaar  d delete"
	return body + m.page.viewFooter(extra)
}
