package dto

type MetricsFilterDTO struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Partner  string `json:"partner"`
	Bank     string `json:"bank"`
	LeadType string `json:"leadType"`
	SubType  string `json:"subType"`
}

type MetricsKPIDTO struct {
	TotalLeads       int     `json:"totalLeads"`
	TotalCases       int     `json:"totalCases"`
	TotalCustomers   int     `json:"totalCustomers"`
	FreePoolLeads    int     `json:"freePoolLeads"`
	TotalRequirement float64 `json:"totalRequirement"`
	TotalDisbursed   float64 `json:"totalDisbursed"`
}

type BreakdownRowDTO struct {
	Name  string  `json:"_id"`
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

type MonthPointDTO struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

type MetricsBreakdownsDTO struct {
	LeadType   []BreakdownRowDTO `json:"leadType"`
	SubType    []BreakdownRowDTO `json:"subType"`
	Banks      []BreakdownRowDTO `json:"banks"`
	Partners   []BreakdownRowDTO `json:"partners"`
	CaseStatus []BreakdownRowDTO `json:"caseStatus"`
}

type MetricsSeriesDTO struct {
	Leads         []MonthPointDTO `json:"leads"`
	Cases         []MonthPointDTO `json:"cases"`
	Disbursements []MonthPointDTO `json:"disbursements"`
	Requirements  []MonthPointDTO `json:"requirements"`
}

type MetricsFunnelDTO struct {
	Leads     int `json:"leads"`
	Cases     int `json:"cases"`
	Customers int `json:"customers"`
}

type MetricsOverviewDTO struct {
	KPIs       MetricsKPIDTO        `json:"kpis"`
	Breakdowns MetricsBreakdownsDTO `json:"breakdowns"`
	Series     MetricsSeriesDTO     `json:"series"`
	Funnel     MetricsFunnelDTO     `json:"funnel"`
}
