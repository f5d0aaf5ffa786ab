package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pradhanfinservdev/pradhanportal-client/internal/services"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/session"
	"github.com/pradhanfinservdev/pradhanportal-client/pkg/config"
)

// View identifies one screen of the portal.
type View int

const (
	ViewLogin View = iota
	ViewCreateAdmin
	ViewForgotPassword
	ViewDashboard
	ViewLeads
	ViewCases
	ViewCaseForm
	ViewCustomers
	ViewPartners
	ViewBranches
	ViewUsers
)

// Services bundles every API service the views call.
type Services struct {
	Auth      *services.AuthService
	Leads     *services.LeadService
	Cases     *services.CaseService
	Customers *services.CustomerService
	Partners  *services.PartnerService
	Branches  *services.BranchService
	Users     *services.UserService
	Metrics   *services.MetricsService
}

// pageDeps is handed to every view at construction. send delivers a message
// into the running program from any goroutine.
type pageDeps struct {
	cfg      *config.Config
	svc      Services
	session  *session.Store
	logger   *zap.Logger
	validate *validator.Validate
	send     func(tea.Msg)
}

// Relay forwards messages into the bubbletea program. Views and the HTTP
// boundary hold it before the program exists; anything sent early is queued
// and flushed on Attach.
type Relay struct {
	mu      sync.Mutex
	program *tea.Program
	queue   []tea.Msg
}

func (r *Relay) Attach(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	queued := r.queue
	r.queue = nil
	r.mu.Unlock()
	for _, msg := range queued {
		p.Send(msg)
	}
}

func (r *Relay) Send(msg tea.Msg) {
	r.mu.Lock()
	if r.program == nil {
		r.queue = append(r.queue, msg)
		r.mu.Unlock()
		return
	}
	p := r.program
	r.mu.Unlock()
	p.Send(msg)
}

// SessionExpired is wired as the HTTP client's unauthorized handler.
func (r *Relay) SessionExpired() {
	r.Send(sessionExpiredMsg{})
}

// Options tweaks how the app starts. PublicCaseID launches straight into the
// applicant-facing case form for that case, with no navigation around it.
type Options struct {
	PublicCaseID string
}

type navItem struct {
	view      View
	label     string
	key       string
	adminOnly bool
}

var navItems = []navItem{
	{ViewDashboard, "Dashboard", "f1", false},
	{ViewLeads, "Leads", "f2", false},
	{ViewCases, "Cases", "f3", false},
	{ViewCustomers, "Customers", "f4", false},
	{ViewPartners, "Partners", "f5", false},
	{ViewBranches, "Branches", "f6", false},
	{ViewUsers, "Users", "f7", true},
}

// App is the root model: it owns every view, routes messages to them and
// draws the sidebar and status line around the active one.
type App struct {
	deps   pageDeps
	view   View
	public bool

	status    string
	statusErr bool

	login       loginModel
	createAdmin createAdminModel
	forgot      forgotPasswordModel
	dashboard   dashboardModel
	leads       leadsModel
	cases       casesModel
	customers   customersModel
	partners    partnersModel
	branches    branchesModel
	users       usersModel
	caseForm    caseFormModel

	initCmd tea.Cmd
}

// New builds the app and the relay main must attach to the program.
func New(cfg *config.Config, svc Services, sess *session.Store, validate *validator.Validate, logger *zap.Logger, opts Options) (App, *Relay) {
	relay := &Relay{}
	deps := pageDeps{
		cfg:      cfg,
		svc:      svc,
		session:  sess,
		logger:   logger,
		validate: validate,
		send:     relay.Send,
	}

	a := App{
		deps:        deps,
		login:       newLoginModel(deps),
		createAdmin: newCreateAdminModel(deps),
		forgot:      newForgotPasswordModel(deps),
		dashboard:   newDashboardModel(deps),
		leads:       newLeadsModel(deps),
		cases:       newCasesModel(deps),
		customers:   newCustomersModel(deps),
		partners:    newPartnersModel(deps),
		branches:    newBranchesModel(deps),
		users:       newUsersModel(deps),
		caseForm:    newCaseFormModel(deps, opts.PublicCaseID != ""),
	}

	switch {
	case opts.PublicCaseID != "":
		a.public = true
		a.view = ViewCaseForm
		a.initCmd = a.caseForm.openCmd(opts.PublicCaseID)
	default:
		if _, signedIn := sess.User(); signedIn {
			a.view = ViewDashboard
			a.initCmd = a.dashboard.loadCmd()
		} else {
			a.view = ViewLogin
			a.initCmd = a.login.Init()
		}
	}
	return a, relay
}

func (a App) Init() tea.Cmd {
	return a.initCmd
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case statusMsg:
		a.status, a.statusErr = msg.text, false
		return a, nil

	case errMsg:
		a.status, a.statusErr = alertText(msg.err), true
		return a, nil

	case sessionExpiredMsg:
		if a.public {
			return a, tea.Quit
		}
		a.view = ViewLogin
		a.status, a.statusErr = "Session expired, please sign in again", true
		return a, a.login.Init()

	case switchViewMsg:
		return a.switchView(msg.view)

	case openCaseMsg:
		a.view = ViewCaseForm
		return a, a.caseForm.openCmd(msg.caseID)

	case carouselTickMsg, loginDoneMsg:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		return a, cmd

	case metricsLoadedMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.Update(msg)
		return a, cmd

	case customerMetaMsg:
		var cmd tea.Cmd
		a.customers, cmd = a.customers.Update(msg)
		return a, cmd

	case caseDetailMsg, caseSubmitDoneMsg, caseAuditMsg, downloadDoneMsg:
		var cmd tea.Cmd
		a.caseForm, cmd = a.caseForm.Update(msg)
		return a, cmd

	case cooldownTickMsg:
		return a.routeToView(a.view, msg)

	case listReloadedMsg:
		return a.routeToView(msg.view, msg)

	case actionDoneMsg:
		return a.routeToView(msg.view, msg)

	case fieldEditAppliedMsg:
		return a.routeToView(msg.view, msg)

	case otpStepMsg:
		return a.routeToView(msg.view, msg)
	}
	return a, nil
}

func (a App) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.view {
	case ViewLogin, ViewCreateAdmin, ViewForgotPassword:
		return a.routeToView(a.view, key)
	}

	if !a.public {
		for _, item := range navItems {
			if key.String() != item.key {
				continue
			}
			if item.adminOnly {
				if user, _ := a.deps.session.User(); !user.IsAdmin() {
					a.status, a.statusErr = "Admins only", true
					return a, nil
				}
			}
			return a.switchView(item.view)
		}
		if key.String() == "ctrl+q" {
			return a.logout()
		}
	}
	return a.routeToView(a.view, key)
}

func (a App) logout() (tea.Model, tea.Cmd) {
	a.deps.svc.Auth.Logout()
	a.view = ViewLogin
	a.status, a.statusErr = "Signed out", false
	return a, a.login.Init()
}

// switchView activates a view and fires its load command.
func (a App) switchView(view View) (tea.Model, tea.Cmd) {
	if a.public && view != ViewCaseForm {
		// The applicant form is the whole app in public mode.
		return a, tea.Quit
	}
	a.view = view
	switch view {
	case ViewLogin:
		return a, a.login.Init()
	case ViewDashboard:
		return a, a.dashboard.loadCmd()
	case ViewLeads:
		return a, a.leads.page.reloadCmd()
	case ViewCases:
		return a, a.cases.page.reloadCmd()
	case ViewCustomers:
		return a, tea.Batch(a.customers.page.reloadCmd(), a.customers.loadMetaCmd())
	case ViewPartners:
		return a, a.partners.page.reloadCmd()
	case ViewBranches:
		return a, a.branches.page.reloadCmd()
	case ViewUsers:
		return a, a.users.page.reloadCmd()
	}
	return a, nil
}

func (a App) routeToView(view View, msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch view {
	case ViewLogin:
		a.login, cmd = a.login.Update(msg)
	case ViewCreateAdmin:
		a.createAdmin, cmd = a.createAdmin.Update(msg)
	case ViewForgotPassword:
		a.forgot, cmd = a.forgot.Update(msg)
	case ViewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case ViewLeads:
		a.leads, cmd = a.leads.Update(msg)
	case ViewCases:
		a.cases, cmd = a.cases.Update(msg)
	case ViewCaseForm:
		a.caseForm, cmd = a.caseForm.Update(msg)
	case ViewCustomers:
		a.customers, cmd = a.customers.Update(msg)
	case ViewPartners:
		a.partners, cmd = a.partners.Update(msg)
	case ViewBranches:
		a.branches, cmd = a.branches.Update(msg)
	case ViewUsers:
		a.users, cmd = a.users.Update(msg)
	}
	return a, cmd
}

func (a App) activeView() string {
	switch a.view {
	case ViewLogin:
		return a.login.View()
	case ViewCreateAdmin:
		return a.createAdmin.View()
	case ViewForgotPassword:
		return a.forgot.View()
	case ViewDashboard:
		return a.dashboard.View()
	case ViewLeads:
		return a.leads.View()
	case ViewCases:
		return a.cases.View()
	case ViewCaseForm:
		return a.caseForm.View()
	case ViewCustomers:
		return a.customers.View()
	case ViewPartners:
		return a.partners.View()
	case ViewBranches:
		return a.branches.View()
	case ViewUsers:
		return a.users.View()
	}
	return ""
}

func (a App) sidebar() string {
	user, _ := a.deps.session.User()
	lines := []string{titleStyle.Render("Pradhan"), ""}
	for _, item := range navItems {
		if item.adminOnly && !user.IsAdmin() {
			continue
		}
		active := a.view == item.view || (a.view == ViewCaseForm && item.view == ViewCases)
		line := item.key + " " + item.label
		if active {
			lines = append(lines, sidebarSelectedStyle.Render(line))
		} else {
			lines = append(lines, sidebarItemStyle.Render(line))
		}
	}
	lines = append(lines, "", faintStyle.Render(user.Name), helpStyle.Render("ctrl+q sign out"))
	return sidebarStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (a App) statusLine() string {
	if a.status == "" {
		return ""
	}
	if a.statusErr {
		return errorStyle.Render(a.status)
	}
	return okStyle.Render(a.status)
}

func (a App) View() string {
	content := a.activeView()

	switch a.view {
	case ViewLogin, ViewCreateAdmin, ViewForgotPassword:
		return lipgloss.JoinVertical(lipgloss.Left, content, a.statusLine())
	}
	if a.public {
		return lipgloss.JoinVertical(lipgloss.Left, content, a.statusLine())
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, a.sidebar(), " ", content)
	return lipgloss.JoinVertical(lipgloss.Left, body, a.statusLine())
}
