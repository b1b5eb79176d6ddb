/*
dto.go - Request/response data structures

PURPOSE:
  JSON shapes for the HTTP API. DTOs keep wire format concerns out of the
  domain types: money is serialized as fixed 2-place strings, timestamps
  as RFC3339, work-day dates as YYYY-MM-DD.

SEE ALSO:
  - handlers.go: Handlers producing/consuming these
*/
package api

// =============================================================================
// ERROR RESPONSE
// =============================================================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// EMPLOYEES
// =============================================================================

type EmployeeDTO struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	HourlyRate         string  `json:"hourlyRate"`
	DailyOvertimeHours float64 `json:"dailyOvertimeHours"`
}

type CreateEmployeeRequest struct {
	ID                 string  `json:"id,omitempty"`
	Name               string  `json:"name"`
	HourlyRate         float64 `json:"hourlyRate"`
	DailyOvertimeHours float64 `json:"dailyOvertimeHours,omitempty"`
}

// =============================================================================
// TIME CLOCK
// =============================================================================

type SegmentDTO struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employeeId"`
	Date       string  `json:"date"`
	ClockIn    string  `json:"clockIn"`
	ClockOut   *string `json:"clockOut,omitempty"`
	BreakStart *string `json:"breakStart,omitempty"`
	BreakEnd   *string `json:"breakEnd,omitempty"`
}

type ClockStatusDTO struct {
	WorkedSeconds int64   `json:"workedSeconds"`
	BreakSeconds  int64   `json:"breakSeconds"`
	WorkedHours   float64 `json:"workedHours"`
	Status        string  `json:"status"`
}

// =============================================================================
// SALES AND REVIEWS
// =============================================================================

type RecordSaleRequest struct {
	ClientName    string  `json:"clientName"`
	Amount        float64 `json:"amount"`
	BrokerFee     float64 `json:"brokerFee"`
	PolicyType    string  `json:"policyType"`
	CrossSoldType string  `json:"crossSoldType,omitempty"`
	IsCrossSold   bool    `json:"isCrossSold,omitempty"`
	SaleDate      string  `json:"saleDate,omitempty"` // RFC3339, defaults to now
}

type SaleDTO struct {
	ID            string   `json:"id"`
	EmployeeID    string   `json:"employeeId"`
	ClientName    string   `json:"clientName"`
	Amount        string   `json:"amount"`
	BrokerFee     string   `json:"brokerFee"`
	PolicyType    string   `json:"policyType"`
	CrossSoldType string   `json:"crossSoldType,omitempty"`
	IsCrossSold   bool     `json:"isCrossSold"`
	SaleDate      string   `json:"saleDate"`
	AdminBonuses  []string `json:"adminBonuses,omitempty"`

	// NotificationID is set when the sale was routed to manual review.
	NotificationID string `json:"notificationId,omitempty"`
}

type RecordReviewRequest struct {
	Rating     int    `json:"rating"`
	ReviewDate string `json:"reviewDate,omitempty"`
}

type ReviewDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	Rating     int    `json:"rating"`
	ReviewDate string `json:"reviewDate"`
}

// =============================================================================
// PAYROLL SUMMARY
// =============================================================================

type PayrollSummaryDTO struct {
	EmployeeID string `json:"employeeId"`
	WeekStart  string `json:"weekStart"`
	WeekEnd    string `json:"weekEnd"`

	RegularHours  float64 `json:"regularHours"`
	OvertimeHours float64 `json:"overtimeHours"`

	RegularPay     string `json:"regularPay"`
	OvertimePay    string `json:"overtimePay"`
	TotalHourlyPay string `json:"totalHourlyPay"`

	BrokerFeeBonus     string `json:"brokerFeeBonus"`
	CrossSellBonus     string `json:"crossSellBonus"`
	LifeBonus          string `json:"lifeBonus"`
	ReviewBonus        string `json:"reviewBonus"`
	AdminOverrideBonus string `json:"adminOverrideBonus"`
	TotalBonuses       string `json:"totalBonuses"`

	TotalPay string `json:"totalPay"`
}

// =============================================================================
// HIGH-VALUE REVIEW WORKFLOW
// =============================================================================

type NotificationDTO struct {
	ID          string  `json:"id"`
	SaleID      string  `json:"saleId"`
	EmployeeID  string  `json:"employeeId"`
	Status      string  `json:"status"`
	AdminBonus  string  `json:"adminBonus"`
	AdminNotes  string  `json:"adminNotes,omitempty"`
	PeriodIndex int     `json:"periodIndex"`
	PeriodStart string  `json:"periodStart"`
	PeriodEnd   string  `json:"periodEnd"`
	CreatedAt   string  `json:"createdAt"`
	ReviewedAt  *string `json:"reviewedAt,omitempty"`
	Urgent      bool    `json:"urgent"`
	Expired     bool    `json:"expired"`
}

type NotificationCountsDTO struct {
	Active  int `json:"active"`
	Pending int `json:"pending"`
}

type MarkReviewedRequest struct {
	AdminBonus float64 `json:"adminBonus"`
	AdminNotes string  `json:"adminNotes,omitempty"`
}

// =============================================================================
// SERVICE STATUS
// =============================================================================

type StatusDTO struct {
	Service      string `json:"service"`
	Status       string `json:"status"`
	ActiveAlerts int64  `json:"activeAlerts"`
}

// =============================================================================
// CLIENT CONFIG
// =============================================================================

type ClientConfigDTO struct {
	HighValueThreshold  string  `json:"highValueThreshold"`
	WeeklyOvertimeHours float64 `json:"weeklyOvertimeHours"`
	BiweeklyAnchor      string  `json:"biweeklyAnchor"`
}
