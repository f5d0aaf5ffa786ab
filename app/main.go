package main

import (
	"flag"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pradhanfinservdev/pradhanportal-client/internal/client"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/services"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/session"
	"github.com/pradhanfinservdev/pradhanportal-client/internal/tui"
	"github.com/pradhanfinservdev/pradhanportal-client/pkg/config"
	applogger "github.com/pradhanfinservdev/pradhanportal-client/pkg/logger"
	"github.com/pradhanfinservdev/pradhanportal-client/pkg/validation"
)

func main() {
	publicCase := flag.String("case", "", "open only the applicant document form for this case")
	flag.Parse()

	// 1. Config and logger first; everything else depends on them.
	cfg := config.New()
	logger := applogger.NewLogger()
	defer logger.Sync()

	// 2. Validation rules shared by every form.
	v := validator.New()
	if err := validation.RegisterCustomValidations(v); err != nil {
		logger.Fatal("could not register custom validation rules", zap.Error(err))
	}

	// 3. Session store and the single HTTP pipeline on top of it.
	sess := session.NewStore(cfg.Session.FilePath, logger)
	apiClient := client.New(cfg.API.BaseURL, cfg.API.RequestTimeout, sess, logger)

	// 4. API services.
	svc := tui.Services{
		Auth:      services.NewAuthService(apiClient, sess, logger),
		Leads:     services.NewLeadService(apiClient, logger),
		Cases:     services.NewCaseService(apiClient, logger),
		Customers: services.NewCustomerService(apiClient, logger),
		Partners:  services.NewPartnerService(apiClient, logger),
		Branches:  services.NewBranchService(apiClient, logger),
		Users:     services.NewUserService(apiClient, logger),
		Metrics:   services.NewMetricsService(apiClient, logger),
	}

	// 5. The app itself. Any 401 anywhere drops the user back to login.
	app, relay := tui.New(cfg, svc, sess, v, logger, tui.Options{PublicCaseID: *publicCase})
	apiClient.SetUnauthorizedHandler(relay.SessionExpired)

	p := tea.NewProgram(app, tea.WithAltScreen())
	relay.Attach(p)

	if _, err := p.Run(); err != nil {
		logger.Fatal("portal exited with an error", zap.Error(err))
	}
}
