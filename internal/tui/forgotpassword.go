package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pradhanfinservdev/pradhanportal-client/internal/dto"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/otpflow"
)

type forgotPasswordModel struct {
	deps    pageDeps
	flow    *otpflow.Flow
	form    form
	pending *dto.ForgotPasswordVerifyDTO
	alert   string
	busy    bool
}

func newForgotPasswordModel(deps pageDeps) forgotPasswordModel {
	m := forgotPasswordModel{
		deps:    deps,
		pending: &dto.ForgotPasswordVerifyDTO{},
		form: newForm(
			formField{Label: "Email"},
			formField{Label: "OTP"},
			formField{Label: "New password", Secure: true},
		),
	}
	m.flow = m.newFlow()
	return m
}

func (m *forgotPasswordModel) newFlow() *otpflow.Flow {
	auth, validate, pending := m.deps.svc.Auth, m.deps.validate, m.pending
	return otpflow.New(
		func(ctx context.Context) error {
			return auth.ForgotPasswordRequest(ctx, pending.Email)
		},
		func(ctx context.Context, otp string) error {
			payload := *pending
			payload.OTP = otp
			if err := validate.Struct(payload); err != nil {
				return err
			}
			return auth.ForgotPasswordVerify(ctx, payload)
		},
		int(m.deps.cfg.UI.OTPCooldown/time.Second),
		m.deps.logger,
	)
}

func (m forgotPasswordModel) reset() forgotPasswordModel {
	m.form = m.form.Reset()
	m.alert = ""
	m.busy = false
	m.flow = m.newFlow()
	return m
}

func (m forgotPasswordModel) Update(msg tea.Msg) (forgotPasswordModel, tea.Cmd) {
	switch msg := msg.(type) {
	case cooldownTickMsg:
		if m.flow.Cooldown() > 0 {
			m.flow.Tick()
			return m, cooldownTick()
		}
		return m, nil

	case otpStepMsg:
		if msg.view != ViewForgotPassword {
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
				return otpStepMsg{view: ViewForgotPassword, text: "Code sent again", err: err}
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

func (m forgotPasswordModel) advance() (forgotPasswordModel, tea.Cmd) {
	flow := m.flow
	switch flow.Step() {
	case otpflow.StepAwaitingRequest:
		email := m.form.Value("Email")
		if email == "" {
			m.alert = "Enter the account email first"
			return m, nil
		}
		m.pending.Email = email
		m.busy = true
		return m, func() tea.Msg {
			err := flow.RequestOTP(context.Background())
			return otpStepMsg{view: ViewForgotPassword, text: "Reset code sent to " + email, err: err}
		}
	case otpflow.StepOTPEntry:
		*m.pending = dto.ForgotPasswordVerifyDTO{
			Email:       m.form.Value("Email"),
			NewPassword: m.form.Value("New password"),
		}
		otp := m.form.Value("OTP")
		m.busy = true
		return m, func() tea.Msg {
			err := flow.Complete(context.Background(), otp)
			return otpStepMsg{view: ViewForgotPassword, text: "Password reset, sign in", err: err}
		}
	}
	return m, nil
}

func (m forgotPasswordModel) View() string {
	body := titleStyle.Render("Forgot Password") + "\n\n" + m.form.View()
	switch m.flow.Step() {
	case otpflow.StepAwaitingRequest:
		body += faintStyle.Render("Press enter to send a reset code") + "\n"
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
