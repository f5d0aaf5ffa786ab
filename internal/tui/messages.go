package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pradhanfinservdev/pradhanportal-client/internal/dto"
	apperrors "github.com/pradhanfinservdev/pradhanportal-client/pkg/errors"
)

type errMsg struct{ err error }

type statusMsg struct{ text string }

type switchViewMsg struct{ view View }

// sessionExpiredMsg arrives from the HTTP boundary's 401 handler, possibly
// from outside the update loop via Program.Send.
type sessionExpiredMsg struct{}

// listReloadedMsg reports that a controller finished its fetch; the rows
// already sit inside the controller.
type listReloadedMsg struct {
	view View
	err  error
}

type actionDoneMsg struct {
	view View
	text string
	err  error
}

type carouselTickMsg time.Time

type cooldownTickMsg time.Time

type metricsLoadedMsg struct {
	overview dto.MetricsOverviewDTO
	err      error
}

type caseLoadedMsg struct{ err error }

// openCaseMsg routes from the cases list to the case form.
type openCaseMsg struct{ caseID string }

type downloadDoneMsg struct {
	path string
	err  error
}

func reportErr(err error) tea.Cmd {
	return func() tea.Msg { return errMsg{err: err} }
}

func reportStatus(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func switchTo(view View) tea.Cmd {
	return func() tea.Msg { return switchViewMsg{view: view} }
}

func alertText(err error) string {
	return apperrors.DisplayMessage(err)
}
