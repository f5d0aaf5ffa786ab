package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pradhanfinservdev/pradhanportal-client/internal/dto"
)

type dashboardModel struct {
	deps      pageDeps
	overview  dto.MetricsOverviewDTO
	filter    dto.MetricsFilterDTO
	form      form
	filtering bool
	loading   bool
}

func newDashboardModel(deps pageDeps) dashboardModel {
	return dashboardModel{
		deps: deps,
		form: newForm(
			formField{Label: "From (YYYY-MM-DD)"},
			formField{Label: "To (YYYY-MM-DD)"},
			formField{Label: "Partner"},
			formField{Label: "Bank"},
			formField{Label: "Lead type"},
			formField{Label: "Sub type"},
		),
	}
}

func (m *dashboardModel) loadCmd() tea.Cmd {
	m.loading = true
	svc, filter := m.deps.svc.Metrics, m.filter
	return func() tea.Msg {
		overview, err := svc.Overview(context.Background(), filter)
		return metricsLoadedMsg{overview: overview, err: err}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case metricsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m, reportErr(msg.err)
		}
		m.overview = msg.overview
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			switch msg.String() {
			case "esc":
				m.filtering = false
				return m, nil
			case "enter":
				m.filtering = false
				m.filter = dto.MetricsFilterDTO{
					From:     m.form.Value("From (YYYY-MM-DD)"),
					To:       m.form.Value("To (YYYY-MM-DD)"),
					Partner:  m.form.Value("Partner"),
					Bank:     m.form.Value("Bank"),
					LeadType: m.form.Value("Lead type"),
					SubType:  m.form.Value("Sub type"),
				}
				return m, m.loadCmd()
			}
			var cmd tea.Cmd
			m.form, cmd = m.form.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "f":
			m.filtering = true
			return m, nil
		case "r":
			return m, m.loadCmd()
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	header := titleStyle.Render("Dashboard")
	if m.loading {
		header += faintStyle.Render("  loading...")
	}
	if m.filtering {
		return header + "\n\n" + boxStyle.Render(m.form.View()) +
			helpStyle.Render("enter apply  esc cancel")
	}

	k := m.overview.KPIs
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		kpiCard("Leads", fmt.Sprintf("%d", k.TotalLeads)),
		kpiCard("Free pool", fmt.Sprintf("%d", k.FreePoolLeads)),
		kpiCard("Cases", fmt.Sprintf("%d", k.TotalCases)),
		kpiCard("Customers", fmt.Sprintf("%d", k.TotalCustomers)),
		kpiCard("Required", formatLakh(k.TotalRequirement)),
		kpiCard("Disbursed", formatLakh(k.TotalDisbursed)),
	)

	gap := "n/a"
	if k.TotalRequirement > 0 {
		gap = fmt.Sprintf("%.1f%%", (k.TotalRequirement-k.TotalDisbursed)/k.TotalRequirement*100)
	}
	funnel := fmt.Sprintf("Funnel: %d leads → %d cases → %d customers   Requirement gap: %s",
		m.overview.Funnel.Leads, m.overview.Funnel.Cases, m.overview.Funnel.Customers, gap)

	sections := lipgloss.JoinHorizontal(lipgloss.Top,
		breakdownBox("By lead type", m.overview.Breakdowns.LeadType),
		breakdownBox("By bank", m.overview.Breakdowns.Banks),
		breakdownBox("By partner", m.overview.Breakdowns.Partners),
		breakdownBox("By case status", m.overview.Breakdowns.CaseStatus),
	)

	series := seriesLines("Disbursements by month", m.overview.Series.Disbursements)

	return strings.Join([]string{
		header, "", cards, "", faintStyle.Render(funnel), "", sections, "", series,
		helpStyle.Render("f filters  r reload"),
	}, "\n")
}

func kpiCard(label, value string) string {
	return boxStyle.Render(faintStyle.Render(label) + "\n" + kpiValStyle.Render(value))
}

func breakdownBox(title string, rows []dto.BreakdownRowDTO) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render(title))
	b.WriteString("\n")
	if len(rows) == 0 {
		b.WriteString(faintStyle.Render("no data"))
	}
	for i, row := range rows {
		if i >= 6 {
			b.WriteString(faintStyle.Render(fmt.Sprintf("+%d more", len(rows)-i)))
			break
		}
		b.WriteString(fmt.Sprintf("%-18s %4d  %s\n", truncate(row.Name, 18), row.Count, formatLakh(row.Total)))
	}
	return boxStyle.Render(b.String())
}

func seriesLines(title string, points []dto.MonthPointDTO) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render(title))
	b.WriteString("\n")
	for _, p := range points {
		b.WriteString(fmt.Sprintf("%d-%02d  %4d  %s\n", p.Year, p.Month, p.Count, formatLakh(p.Total)))
	}
	return b.String()
}

// formatLakh renders rupee amounts the way the business reads them.
func formatLakh(amount float64) string {
	switch {
	case amount >= 1e7:
		return fmt.Sprintf("₹%.2f Cr", amount/1e7)
	case amount >= 1e5:
		return fmt.Sprintf("₹%.2f L", amount/1e5)
	case amount > 0:
		return fmt.Sprintf("₹%.0f", amount)
	}
	return "₹0"
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "…"
}
