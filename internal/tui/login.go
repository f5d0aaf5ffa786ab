package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var loginSlides = []string{
	"Home, LAP and business loans through one channel-partner network",
	"Track every lead from first call to disbursement",
	"KYC checklists and case documents, always in one place",
}

type loginDoneMsg struct {
	name string
	err  error
}

type loginModel struct {
	deps  pageDeps
	form  form
	slide int
	busy  bool
	alert string
}

func newLoginModel(deps pageDeps) loginModel {
	return loginModel{
		deps: deps,
		form: newForm(
			formField{Label: "Email"},
			formField{Label: "Password", Secure: true},
		),
	}
}

func carouselTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return carouselTickMsg(t) })
}

func (m loginModel) Init() tea.Cmd {
	return carouselTick(m.deps.cfg.UI.CarouselInterval)
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case carouselTickMsg:
		m.slide = (m.slide + 1) % len(loginSlides)
		return m, carouselTick(m.deps.cfg.UI.CarouselInterval)

	case loginDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.alert = alertText(msg.err)
			return m, nil
		}
		m.alert = ""
		return m, tea.Batch(switchTo(ViewDashboard), reportStatus("Welcome, "+msg.name))

	case tea.KeyMsg:
		if msg.String() == "enter" && !m.busy {
			return m.submit()
		}
		if msg.String() == "f2" {
			return m, switchTo(ViewForgotPassword)
		}
		if msg.String() == "f3" {
			return m, switchTo(ViewCreateAdmin)
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	email, password := m.form.Value("Email"), m.form.Value("Password")
	if email == "" || password == "" {
		m.alert = "Email and password are required"
		return m, nil
	}
	m.busy = true
	m.alert = ""
	auth := m.deps.svc.Auth
	return m, func() tea.Msg {
		result, err := auth.Login(context.Background(), email, password)
		return loginDoneMsg{name: result.User.Name, err: err}
	}
}

func (m loginModel) View() string {
	body := titleStyle.Render("Pradhan Portal") + "\n\n"
	body += m.form.View()
	if m.busy {
		body += faintStyle.Render("signing in...") + "\n"
	}
	if m.alert != "" {
		body += errorStyle.Render(m.alert) + "\n"
	}
	body += helpStyle.Render("enter sign in  f2 forgot password  f3 create admin  ctrl+c quit")

	slide := faintStyle.Render(loginSlides[m.slide])
	return lipgloss.JoinVertical(lipgloss.Left, boxStyle.Render(body), "", slide)
}
