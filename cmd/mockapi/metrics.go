package main

import (
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pradhanfinservdev/pradhanportal-client/internal/dto"
)

type bucket struct {
	count int
	total float64
}

func rowsFromBuckets(buckets map[string]bucket) []dto.BreakdownRowDTO {
	rows := make([]dto.BreakdownRowDTO, 0, len(buckets))
	for name, b := range buckets {
		rows = append(rows, dto.BreakdownRowDTO{Name: name, Count: b.count, Total: b.total})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	return rows
}

func monthPoints(buckets map[[2]int]bucket) []dto.MonthPointDTO {
	points := make([]dto.MonthPointDTO, 0, len(buckets))
	for ym, b := range buckets {
		points = append(points, dto.MonthPointDTO{Year: ym[0], Month: ym[1], Count: b.count, Total: b.total})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Year != points[j].Year {
			return points[i].Year < points[j].Year
		}
		return points[i].Month < points[j].Month
	})
	return points
}

func monthKey(createdAt string) ([2]int, bool) {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return [2]int{}, false
	}
	return [2]int{t.Year(), int(t.Month())}, true
}

func inRange(createdAt, from, to string) bool {
	if from == "" && to == "" {
		return true
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return false
	}
	day := t.Format("2006-01-02")
	if from != "" && day < from {
		return false
	}
	if to != "" && day > to {
		return false
	}
	return true
}

func (s *server) metricsOverview(c echo.Context) error {
	from := c.QueryParam("from")
	to := c.QueryParam("to")
	partner := c.QueryParam("partner")
	bank := c.QueryParam("bank")
	leadType := c.QueryParam("leadType")
	subType := c.QueryParam("subType")

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var overview dto.MetricsOverviewDTO
	byLeadType := map[string]bucket{}
	bySubType := map[string]bucket{}
	byBank := map[string]bucket{}
	byPartner := map[string]bucket{}
	byCaseStatus := map[string]bucket{}
	leadSeries := map[[2]int]bucket{}
	caseSeries := map[[2]int]bucket{}
	disbSeries := map[[2]int]bucket{}
	reqSeries := map[[2]int]bucket{}

	add := func(m map[string]bucket, key string, total float64) {
		if key == "" {
			return
		}
		b := m[key]
		b.count++
		b.total += total
		m[key] = b
	}
	addMonth := func(m map[[2]int]bucket, createdAt string, total float64) {
		if key, ok := monthKey(createdAt); ok {
			b := m[key]
			b.count++
			b.total += total
			m[key] = b
		}
	}

	for _, lead := range s.store.leads {
		if !inRange(lead.CreatedAt, from, to) {
			continue
		}
		if leadType != "" && lead.LeadType != leadType {
			continue
		}
		if subType != "" && lead.SubType != subType {
			continue
		}
		overview.KPIs.TotalLeads++
		if lead.Status == "free_pool" {
			overview.KPIs.FreePoolLeads++
		}
		add(byLeadType, lead.LeadType, 0)
		add(bySubType, lead.SubType, 0)
		addMonth(leadSeries, lead.CreatedAt, 0)
	}

	for _, record := range s.store.cases {
		if !inRange(record.CreatedAt, from, to) {
			continue
		}
		if partner != "" && record.ChannelPartner != partner {
			continue
		}
		if bank != "" && record.Bank != bank {
			continue
		}
		if leadType != "" && record.LeadType != leadType {
			continue
		}
		amount := 0.0
		if record.Amount.Valid {
			amount = record.Amount.Float64
		}
		overview.KPIs.TotalCases++
		overview.KPIs.TotalRequirement += amount
		add(byBank, record.Bank, amount)
		add(byPartner, record.ChannelPartner, amount)
		add(byCaseStatus, record.Status, amount)
		addMonth(caseSeries, record.CreatedAt, amount)
		addMonth(reqSeries, record.CreatedAt, amount)
	}

	for _, customer := range s.store.customers {
		if !inRange(customer.CreatedAt, from, to) {
			continue
		}
		if partner != "" && customer.ChannelPartner != partner {
			continue
		}
		if bank != "" && customer.BankName != bank {
			continue
		}
		overview.KPIs.TotalCustomers++
		overview.KPIs.TotalDisbursed += customer.TotalDisbursed
		if customer.TotalDisbursed > 0 {
			addMonth(disbSeries, customer.CreatedAt, customer.TotalDisbursed)
		}
	}

	overview.Breakdowns = dto.MetricsBreakdownsDTO{
		LeadType:   rowsFromBuckets(byLeadType),
		SubType:    rowsFromBuckets(bySubType),
		Banks:      rowsFromBuckets(byBank),
		Partners:   rowsFromBuckets(byPartner),
		CaseStatus: rowsFromBuckets(byCaseStatus),
	}
	overview.Series = dto.MetricsSeriesDTO{
		Leads:         monthPoints(leadSeries),
		Cases:         monthPoints(caseSeries),
		Disbursements: monthPoints(disbSeries),
		Requirements:  monthPoints(reqSeries),
	}
	overview.Funnel = dto.MetricsFunnelDTO{
		Leads:     overview.KPIs.TotalLeads,
		Cases:     overview.KPIs.TotalCases,
		Customers: overview.KPIs.TotalCustomers,
	}
	return c.JSON(http.StatusOK, overview)
}
