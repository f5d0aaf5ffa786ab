package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pradhanfinservdev/pradhanportal-client/internal/dto"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/listctrl"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/otpflow"
	"github.com/pradhanfinservdev/pradhanportal-client/pkg/api"
	"github.com/pradhanfinservdev/pradhanportal-client/pkg/table"
)

var roleCycle = []string{"officer", "admin", "superadmin"}

type otpStepMsg struct {
	view View
	text string
	err  error
}

type usersMode int

const (
	usersBrowsing usersMode = iota
	usersCreating
	usersDeleting
	usersSettingPassword
)

type usersModel struct {
	view View
	page listPage[dto.UserDTO]
	deps pageDeps

	mode     usersMode
	flow     *otpflow.Flow
	form     form
	otpForm  form
	passForm form
	target   dto.UserDTO
	alert    string
	// shared with the create flow's completion closure, which outlives
	// any one copy of this model
	pendingCreate *dto.CreateUserDTO
}

func newUsersModel(deps pageDeps) usersModel {
	columns := []table.Column[dto.UserDTO]{
		table.FieldColumn[dto.UserDTO]("Name", "Name"),
		table.FieldColumn[dto.UserDTO]("Email", "Email"),
		table.FieldColumn[dto.UserDTO]("Role", "Role"),
		table.ComputedColumn[dto.UserDTO]("Active", func(row dto.UserDTO, _ int, _ table.RenderMode) string {
			if row.IsActive {
				return "yes"
			}
			return "no"
		}),
	}

	svc := deps.svc.Users
	m := usersModel{view: ViewUsers, deps: deps, pendingCreate: &dto.CreateUserDTO{}}
	m.page = newListPage(ViewUsers, "Users", columns, func(ctx context.Context, q listctrl.Query) (api.ListResult[dto.UserDTO], error) {
		return svc.List(ctx, q.Page, q.Search)
	}, deps)

	m.form = newForm(
		formField{Label: "Name"},
		formField{Label: "Email"},
		formField{Label: "Password", Secure: true},
		formField{Label: "Role (officer/admin/superadmin)"},
		formField{Label: "OTP"},
	)
	m.otpForm = newForm(formField{Label: "OTP"})
	m.passForm = newForm(formField{Label: "New password", Secure: true})
	return m
}

func cooldownTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return cooldownTickMsg(t) })
}

// newCreateFlow wires the OTP flow for user creation: dispatch asks for a
// code, complete posts the new user with it. The payload is snapshotted
// into pendingCreate right before Complete runs.
func (m *usersModel) newCreateFlow() *otpflow.Flow {
	auth, users, validate := m.deps.svc.Auth, m.deps.svc.Users, m.deps.validate
	pending := m.pendingCreate
	return otpflow.New(
		func(ctx context.Context) error {
			return auth.RequestOTP(ctx, "create_user")
		},
		func(ctx context.Context, otp string) error {
			payload := *pending
			payload.OTP = otp
			payload.Purpose = "create_user"
			if err := validate.Struct(payload); err != nil {
				return err
			}
			_, err := users.Create(ctx, payload)
			return err
		},
		int(m.deps.cfg.UI.OTPCooldown/time.Second),
		m.deps.logger,
	)
}

func (m *usersModel) newDeleteFlow(target dto.UserDTO) *otpflow.Flow {
	auth, users := m.deps.svc.Auth, m.deps.svc.Users
	return otpflow.New(
		func(ctx context.Context) error {
			return auth.RequestOTP(ctx, "create_user")
		},
		func(ctx context.Context, otp string) error {
			return users.Delete(ctx, target.ID, otp)
		},
		int(m.deps.cfg.UI.OTPCooldown/time.Second),
		m.deps.logger,
	)
}

func (m usersModel) Update(msg tea.Msg) (usersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case listReloadedMsg:
		if msg.view == m.view {
			return m, m.page.handleReloaded(msg)
		}

	case cooldownTickMsg:
		if m.flow != nil && m.flow.Cooldown() > 0 {
			m.flow.Tick()
			return m, cooldownTick()
		}
		return m, nil

	case otpStepMsg:
		if msg.view != m.view {
			return m, nil
		}
		if msg.err != nil {
			m.alert = alertText(msg.err)
			return m, nil
		}
		m.alert = ""
		if m.flow != nil && m.flow.Step() == otpflow.StepCompleted {
			m.mode = usersBrowsing
			m.flow = nil
			return m, tea.Batch(reportStatus(msg.text), m.page.reloadCmd())
		}
		return m, tea.Batch(reportStatus(msg.text), cooldownTick())

	case actionDoneMsg:
		if msg.view != m.view {
			return m, nil
		}
		if msg.err != nil {
			return m, reportErr(msg.err)
		}
		return m, tea.Batch(reportStatus(msg.text), m.page.reloadCmd())

	case tea.KeyMsg:
		switch m.mode {
		case usersCreating, usersDeleting:
			return m.updateOTPMode(msg)
		case usersSettingPassword:
			return m.updatePasswordMode(msg)
		}
		if cmd, handled := m.page.handleKey(msg); handled {
			return m, cmd
		}
		switch msg.String() {
		case "n":
			if user, _ := m.deps.session.User(); !user.IsAdmin() {
				return m, reportStatus("Only admins can create users")
			}
			m.mode = usersCreating
			m.form = m.form.Reset()
			m.alert = ""
			m.flow = m.newCreateFlow()
			return m, nil
		case "d":
			if user, _ := m.deps.session.User(); !user.IsAdmin() {
				return m, reportStatus("Only admins can delete users")
			}
			selected, ok := m.page.tbl.Selected()
			if !ok {
				return m, nil
			}
			m.mode = usersDeleting
			m.target = selected
			m.otpForm = m.otpForm.Reset()
			m.alert = ""
			m.flow = m.newDeleteFlow(selected)
			return m, nil
		case "R":
			return m, m.cycleRoleCmd()
		case "A":
			return m, m.toggleActiveCmd()
		case "P":
			selected, ok := m.page.tbl.Selected()
			if !ok {
				return m, nil
			}
			m.mode = usersSettingPassword
			m.target = selected
			m.passForm = m.passForm.Reset()
			return m, nil
		}
	}
	return m, nil
}

func (m usersModel) updateOTPMode(key tea.KeyMsg) (usersModel, tea.Cmd) {
	flow, view := m.flow, m.view
	switch key.String() {
	case "esc":
		m.mode = usersBrowsing
		m.flow = nil
		return m, nil
	case "ctrl+r":
		return m, func() tea.Msg {
			err := flow.Resend(context.Background())
			return otpStepMsg{view: view, text: "Code sent again", err: err}
		}
	case "enter":
		switch flow.Step() {
		case otpflow.StepAwaitingRequest:
			return m, func() tea.Msg {
				err := flow.RequestOTP(context.Background())
				return otpStepMsg{view: view, text: "Code sent to the account owner", err: err}
			}
		case otpflow.StepOTPEntry:
			otp := m.otpValue()
			text := "User created"
			if m.mode == usersDeleting {
				text = "User " + m.target.Name + " deleted"
			} else {
				*m.pendingCreate = dto.CreateUserDTO{
					Name:     m.form.Value("Name"),
					Email:    m.form.Value("Email"),
					Password: m.form.Value("Password"),
					Role:     m.form.Value("Role (officer/admin/superadmin)"),
				}
			}
			return m, func() tea.Msg {
				err := flow.Complete(context.Background(), otp)
				return otpStepMsg{view: view, text: text, err: err}
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.mode == usersCreating {
		m.form, cmd = m.form.Update(key)
	} else {
		m.otpForm, cmd = m.otpForm.Update(key)
	}
	return m, cmd
}

func (m usersModel) otpValue() string {
	if m.mode == usersCreating {
		return m.form.Value("OTP")
	}
	return m.otpForm.Value("OTP")
}

func (m usersModel) updatePasswordMode(key tea.KeyMsg) (usersModel, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.mode = usersBrowsing
		return m, nil
	case "enter":
		password := m.passForm.Value("New password")
		if len(password) < 6 {
			m.alert = "Password must be at least 6 characters"
			return m, nil
		}
		m.mode = usersBrowsing
		svc, view, target := m.deps.svc.Users, m.view, m.target
		return m, func() tea.Msg {
			err := svc.UpdatePassword(context.Background(), target.ID, password)
			return actionDoneMsg{view: view, text: "Password updated for " + target.Name, err: err}
		}
	}
	var cmd tea.Cmd
	m.passForm, cmd = m.passForm.Update(key)
	return m, cmd
}

func (m *usersModel) cycleRoleCmd() tea.Cmd {
	selected, ok := m.page.tbl.Selected()
	if !ok {
		return nil
	}
	next := roleCycle[0]
	for i, role := range roleCycle {
		if role == selected.Role {
			next = roleCycle[(i+1)%len(roleCycle)]
			break
		}
	}
	svc, view := m.deps.svc.Users, m.view
	return func() tea.Msg {
		err := svc.UpdateRole(context.Background(), selected.ID, next)
		return actionDoneMsg{view: view, text: selected.Name + " is now " + next, err: err}
	}
}

func (m *usersModel) toggleActiveCmd() tea.Cmd {
	selected, ok := m.page.tbl.Selected()
	if !ok {
		return nil
	}
	svc, view := m.deps.svc.Users, m.view
	state := "deactivated"
	if !selected.IsActive {
		state = "activated"
	}
	return func() tea.Msg {
		err := svc.UpdateActive(context.Background(), selected.ID, !selected.IsActive)
		return actionDoneMsg{view: view, text: selected.Name + " " + state, err: err}
	}
}

func (m usersModel) View() string {
	switch m.mode {
	case usersCreating:
		return m.otpModeView("New User", m.form.View())
	case usersDeleting:
		return m.otpModeView("Delete "+m.target.Name, m.otpForm.View())
	case usersSettingPassword:
		body := titleStyle.Render("Set password for "+m.target.Name) + "\n\n" + m.passForm.View()
		if m.alert != "" {
			body += errorStyle.Render(m.alert) + "\n"
		}
		return body + helpStyle.Render("enter save  esc cancel")
	}
	return m.page.viewHeader() + m.page.tbl.View() +
		m.page.viewFooter("n new  d delete  R role  A active  P password")
}

func (m usersModel) otpModeView(title, formView string) string {
	body := titleStyle.Render(title) + "\n\n" + formView
	if m.flow != nil {
		switch m.flow.Step() {
		case otpflow.StepAwaitingRequest:
			body += faintStyle.Render("Press enter to send a verification code") + "\n"
		case otpflow.StepOTPEntry:
			if cooldown := m.flow.Cooldown(); cooldown > 0 {
				body += faintStyle.Render(fmt.Sprintf("Resend available in %ds", cooldown)) + "\n"
			} else {
				body += faintStyle.Render("ctrl+r resend code") + "\n"
			}
		}
	}
	if m.alert != "" {
		body += errorStyle.Render(m.alert) + "\n"
	}
	return body + helpStyle.Render("enter continue  esc cancel")
}
