package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pradhanfinservdev/pradhanportal-client/internal/dto"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/otpflow"
)

// createAdminModel is the first-run signup screen: an OTP sent to the
// configured owner contact gates admin account creation.
type createAdminModel struct {
	deps    pageDeps
	flow    *otpflow.Flow
	form    form
	pending *dto.SignupDTO
	alert   string
	busy    bool
}

func newCreateAdminModel(deps pageDeps) createAdminModel {
	m := createAdminModel{
		deps:    deps,
		pending: &dto.SignupDTO{},
		form: newForm(
			formField{Label: "Name"},
			formField{Label: "Email"},
			formField{Label: "Password", Secure: true},
			formField{Label: "OTP"},
		),
	}
	m.flow = m.newFlow()
	return m
}

func (m *createAdminModel) newFlow() *otpflow.Flow {
	auth, validate, pending := m.deps.svc.Auth, m.deps.validate, m.pending
	return otpflow.New(
		func(ctx context.Context) error {
			return auth.RequestOTP(ctx, "signup")
		},
		func(ctx context.Context, otp string) error {
			payload := *pending
			payload.OTP = otp
			if err := validate.Struct(payload); err != nil {
				return err
			}
			return auth.Signup(ctx, payload)
		},
		int(m.deps.cfg.UI.OTPCooldown/time.Second),
		m.deps.logger,
	)
}

func (m createAdminModel) reset() createAdminModel {
	m.form = m.form.Reset()
	m.alert = ""
	m.busy = false
	m.flow = m.newFlow()
	return m
}

func (m createAdminModel) Update(msg tea.Msg) (createAdminModel, tea.Cmd) {
	switch msg := msg.(type) {
	case cooldownTickMsg:
		if m.flow.Cooldown() > 0 {
			m.flow.Tick()
			return m, cooldownTick()
		}
		return m, nil

	case otpStepMsg:
		if msg.view != ViewCreateAdmin {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			m.alert = alertText(msg.err)
			return m, nil
		}
		m.alert = ""
		if m.flow.Step() == otpflow.StepCompleted {
			return m.reset(), tea.Batch(reportStatus(msg.text), switchTo(ViewLogin))
		}
		return m, tea.Batch(reportStatus(msg.text), cooldownTick())

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m.reset(), switchTo(ViewLogin)
		case "ctrl+r":
			flow := m.flow
			return m, func() tea.Msg {
				err := flow.Resend(context.Background())
				return otpStepMsg{view: ViewCreateAdmin, text: "Code sent again", err: err}
			}
		case "enter":
			if m.busy {
				return m, nil
			}
			return m.advance()
		}
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m createAdminModel) advance() (createAdminModel, tea.Cmd) {
	flow := m.flow
	switch flow.Step() {
	case otpflow.StepAwaitingRequest:
		m.busy = true
		return m, func() tea.Msg {
			err := flow.RequestOTP(context.Background())
			return otpStepMsg{view: ViewCreateAdmin, text: "Code sent to the owner contact", err: err}
		}
	case otpflow.StepOTPEntry:
		*m.pending = dto.SignupDTO{
			Name:     m.form.Value("Name"),
			Email:    m.form.Value("Email"),
			Password: m.form.Value("Password"),
		}
		otp := m.form.Value("OTP")
		m.busy = true
		return m, func() tea.Msg {
			err := flow.Complete(context.Background(), otp)
			return otpStepMsg{view: ViewCreateAdmin, text: "Admin account created, sign in", err: err}
		}
	}
	return m, nil
}

func (m createAdminModel) View() string {
	body := titleStyle.Render("Create Admin Account") + "\n\n" + m.form.View()
	switch m.flow.Step() {
	case otpflow.StepAwaitingRequest:
		body += faintStyle.Render("Press enter to request a verification code") + "\n"
	case otpflow.StepOTPEntry:
		if cooldown := m.flow.Cooldown(); cooldown > 0 {
			body += faintStyle.Render(fmt.Sprintf("Resend available in %ds", cooldown)) + "\n"
		} else {
			body += faintStyle.Render("ctrl+r resend code") + "\n"
		}
	}
	if m.busy {
		body += faintStyle.Render("working...") + "\n"
	}
	if m.alert != "" {
		body += errorStyle.Render(m.alert) + "\n"
	}
	return boxStyle.Render(body + helpStyle.Render("enter continue  esc back to login"))
}
