/*
handlers.go - HTTP API handlers for the brokerage time & bonus engine

PURPOSE:
  Exposes the engine via REST API. Handles HTTP request/response, JSON
  serialization, and delegates to the domain services.

ENDPOINTS:
  Time clock (caller identity):
    POST   /api/clock/in            Open a work session
    POST   /api/clock/out           Close the session
    POST   /api/clock/break/start   Begin the session's break
    POST   /api/clock/break/end     End the running break
    GET    /api/clock/status        Live totals for a day (?date=YYYY-MM-DD)

  Sales and reviews (caller identity):
    POST   /api/sales               Record a sale (may route to manual review)
    POST   /api/reviews             Record a customer review

  Payroll:
    GET    /api/payroll/summary     Weekly summary (?date=, admins may pass ?employeeId=)

  High-value review workflow:
    GET    /api/notifications           Own records; admins filter by ?status=
    GET    /api/notifications/counts    Active/pending counts (admin)
    POST   /api/notifications/{id}/review     Mark reviewed with bonus/notes (admin)
    POST   /api/notifications/{id}/resolve    Close the record (admin)
    POST   /api/notifications/{id}/unresolve  Reopen while period not expired (admin)

  Employees:
    GET    /api/employees           List (admin)
    POST   /api/employees           Create (admin)
    GET    /api/employees/{id}      Get one (self or admin)

ERROR HANDLING:
  Domain errors map onto HTTP statuses:
  - 400: validation errors
  - 404: record not found
  - 409: conflicts (state machine, in-flight guard, duplicates)
  - 503: transient persistence failures
  - 500: everything else

SEE ALSO:
  - dto.go: Request/response data structures
  - identity.go: Token verification and role gating
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/warp/brokerage-engine/bonus"
	"github.com/warp/brokerage-engine/payperiod"
	"github.com/warp/brokerage-engine/payroll"
	"github.com/warp/brokerage-engine/review"
	"github.com/warp/brokerage-engine/sales"
	"github.com/warp/brokerage-engine/timeclock"
)

const dateLayout = "2006-01-02"

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// EmployeeWriter is the HR write side. Only the admin create endpoint
// uses it; engine services read employees through payroll.EmployeeStore.
type EmployeeWriter interface {
	SaveEmployee(ctx context.Context, e payroll.Employee) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Employees      payroll.EmployeeStore
	EmployeeWriter EmployeeWriter
	Clock          *timeclock.Service
	Sales          *sales.Service
	SaleStore      sales.SaleStore
	ReviewStore    sales.ReviewStore
	Notifications  review.NotificationStore
	Workflow       *review.Workflow
	Engine         *bonus.Engine
	Periods        *payperiod.Calculator

	// WeeklyOvertimeHours is the fixed weekly split threshold.
	WeeklyOvertimeHours float64

	// ActiveAlerts reads the reconciled active-alert snapshot maintained
	// by the sync channel. Optional; the status endpoint reports zero
	// without it.
	ActiveAlerts func() int64

	// Now is the clock source; defaults to time.Now. Tests override it.
	Now func() time.Time
}

// =============================================================================
// TIME CLOCK
// =============================================================================

func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())

	seg, err := h.Clock.ClockIn(r.Context(), ident.EmployeeID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSegmentDTO(*seg))
}

func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())

	seg, err := h.Clock.ClockOut(r.Context(), ident.EmployeeID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSegmentDTO(*seg))
}

func (h *Handler) StartBreak(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())

	seg, err := h.Clock.StartBreak(r.Context(), ident.EmployeeID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSegmentDTO(*seg))
}

func (h *Handler) EndBreak(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())

	seg, err := h.Clock.EndBreak(r.Context(), ident.EmployeeID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSegmentDTO(*seg))
}

// ClockStatus returns the live reconstruction of one work day.
// GET /api/clock/status?date=YYYY-MM-DD (defaults to today)
func (h *Handler) ClockStatus(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())

	day := h.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date format (use YYYY-MM-DD)", err)
			return
		}
		day = parsed
	}

	emp, err := h.Employees.GetEmployee(r.Context(), ident.EmployeeID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	totals, err := h.Clock.DayTotals(r.Context(), ident.EmployeeID, day, emp.DailyOvertimeHours)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ClockStatusDTO{
		WorkedSeconds: totals.WorkedSeconds,
		BreakSeconds:  totals.BreakSeconds,
		WorkedHours:   totals.WorkedHours(),
		Status:        string(totals.Live),
	})
}

// =============================================================================
// SALES AND REVIEWS
// =============================================================================

func (h *Handler) RecordSale(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())

	var req RecordSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	rec := sales.SaleRecord{
		EmployeeID:    ident.EmployeeID,
		ClientName:    req.ClientName,
		Amount:        payroll.MoneyFromFloat(req.Amount),
		BrokerFee:     payroll.MoneyFromFloat(req.BrokerFee),
		PolicyType:    req.PolicyType,
		CrossSoldType: req.CrossSoldType,
		IsCrossSold:   req.IsCrossSold,
	}
	if req.SaleDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.SaleDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid saleDate format (use RFC3339)", err)
			return
		}
		rec.SaleDate = parsed
	}

	stored, notification, err := h.Sales.RecordSale(r.Context(), rec)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dto := toSaleDTO(*stored)
	if notification != nil {
		dto.NotificationID = notification.ID
	}
	writeJSON(w, http.StatusCreated, dto)
}

func (h *Handler) RecordReview(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())

	var req RecordReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	rec := sales.ReviewRecord{EmployeeID: ident.EmployeeID, Rating: req.Rating}
	if req.ReviewDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.ReviewDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid reviewDate format (use RFC3339)", err)
			return
		}
		rec.ReviewDate = parsed
	}

	stored, err := h.Sales.RecordReview(r.Context(), rec)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ReviewDTO{
		ID:         stored.ID,
		EmployeeID: string(stored.EmployeeID),
		Rating:     stored.Rating,
		ReviewDate: stored.ReviewDate.Format(time.RFC3339),
	})
}

// =============================================================================
// PAYROLL SUMMARY
// =============================================================================

// WeeklySummary recomputes the full pay breakdown for the Sun-Sat week
// containing ?date= (default today). Admins may summarize any employee
// via ?employeeId=; everyone else gets their own.
func (h *Handler) WeeklySummary(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())

	target := ident.EmployeeID
	if raw := r.URL.Query().Get("employeeId"); raw != "" && payroll.EmployeeID(raw) != ident.EmployeeID {
		if ident.Role != payroll.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin privilege required", nil)
			return
		}
		target = payroll.EmployeeID(raw)
	}

	ref := h.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date format (use YYYY-MM-DD)", err)
			return
		}
		ref = parsed
	}
	week := h.Periods.WeekBounds(ref)

	emp, err := h.Employees.GetEmployee(r.Context(), target)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	totals, err := h.Clock.RangeTotals(r.Context(), target, week.Start, week.End, emp.DailyOvertimeHours)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	saleRecords, err := h.SaleStore.SalesByEmployeeAndRange(r.Context(), target, week.Start, week.End)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	reviews, err := h.ReviewStore.ReviewsByEmployeeAndRange(r.Context(), target, week.Start, week.End)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sum := h.Engine.SummarizeWeekly(saleRecords, reviews, totals.WorkedHours(), emp.HourlyRate, h.WeeklyOvertimeHours)

	writeJSON(w, http.StatusOK, PayrollSummaryDTO{
		EmployeeID: string(target),
		WeekStart:  week.Start.Format(dateLayout),
		WeekEnd:    week.End.Format(dateLayout),

		RegularHours:  sum.RegularHours,
		OvertimeHours: sum.OvertimeHours,

		RegularPay:     sum.RegularPay.StringFixed(2),
		OvertimePay:    sum.OvertimePay.StringFixed(2),
		TotalHourlyPay: sum.TotalHourlyPay.StringFixed(2),

		BrokerFeeBonus:     sum.BrokerFeeBonus.StringFixed(2),
		CrossSellBonus:     sum.CrossSellBonus.StringFixed(2),
		LifeBonus:          sum.LifeBonus.StringFixed(2),
		ReviewBonus:        sum.ReviewBonus.StringFixed(2),
		AdminOverrideBonus: sum.AdminOverrideBonus.StringFixed(2),
		TotalBonuses:       sum.TotalBonuses.StringFixed(2),

		TotalPay: sum.TotalPay.StringFixed(2),
	})
}

// =============================================================================
// HIGH-VALUE REVIEW WORKFLOW
// =============================================================================

// ListNotifications returns the caller's own records. Admins see records
// filtered by ?status= (default pending).
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())
	now := h.Now()

	var (
		list []review.Notification
		err  error
	)
	if ident.Role == payroll.RoleAdmin {
		status := review.StatusPending
		if raw := r.URL.Query().Get("status"); raw != "" {
			if status, err = review.ParseStatus(raw); err != nil {
				writeDomainError(w, err)
				return
			}
		}
		list, err = h.Notifications.NotificationsByStatus(r.Context(), status)
	} else {
		list, err = h.Notifications.NotificationsByEmployee(r.Context(), ident.EmployeeID)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]NotificationDTO, len(list))
	for i, n := range list {
		dtos[i] = toNotificationDTO(n, now)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// NotificationCounts returns the alert badge numbers.
func (h *Handler) NotificationCounts(w http.ResponseWriter, r *http.Request) {
	pending, err := h.Notifications.NotificationsByStatus(r.Context(), review.StatusPending)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	reviewed, err := h.Notifications.NotificationsByStatus(r.Context(), review.StatusReviewed)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, NotificationCountsDTO{
		Active:  len(pending) + len(reviewed),
		Pending: len(pending),
	})
}

func (h *Handler) MarkReviewed(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req MarkReviewedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	n, err := h.Workflow.MarkReviewed(r.Context(), id, payroll.MoneyFromFloat(req.AdminBonus), req.AdminNotes)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toNotificationDTO(*n, h.Now()))
}

func (h *Handler) ResolveNotification(w http.ResponseWriter, r *http.Request) {
	n, err := h.Workflow.Resolve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toNotificationDTO(*n, h.Now()))
}

func (h *Handler) UnresolveNotification(w http.ResponseWriter, r *http.Request) {
	n, err := h.Workflow.Unresolve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toNotificationDTO(*n, h.Now()))
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Employees.ListEmployees(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	if req.HourlyRate < 0 {
		writeError(w, http.StatusBadRequest, "hourlyRate must not be negative", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.DailyOvertimeHours == 0 {
		req.DailyOvertimeHours = 8
	}

	emp := payroll.Employee{
		ID:                 payroll.EmployeeID(req.ID),
		Name:               req.Name,
		HourlyRate:         payroll.MoneyFromFloat(req.HourlyRate),
		DailyOvertimeHours: req.DailyOvertimeHours,
	}
	if err := h.EmployeeWriter.SaveEmployee(r.Context(), emp); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())
	id := payroll.EmployeeID(chi.URLParam(r, "id"))

	if id != ident.EmployeeID && ident.Role != payroll.RoleAdmin {
		writeError(w, http.StatusForbidden, "admin privilege required", nil)
		return
	}

	emp, err := h.Employees.GetEmployee(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// =============================================================================
// SERVICE STATUS AND CLIENT CONFIG
// =============================================================================

// Status reports liveness plus the active-alert snapshot kept fresh by the
// sync channel, so dashboards read a counter instead of querying storage.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	var alerts int64
	if h.ActiveAlerts != nil {
		alerts = h.ActiveAlerts()
	}
	writeJSON(w, http.StatusOK, StatusDTO{
		Service:      "brokerage-engine",
		Status:       "ok",
		ActiveAlerts: alerts,
	})
}

// ClientConfig echoes the non-secret engine settings so clients can render
// thresholds and period boundaries without hardcoding them.
func (h *Handler) ClientConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ClientConfigDTO{
		HighValueThreshold:  h.Engine.Threshold.StringFixed(2),
		WeeklyOvertimeHours: h.WeeklyOvertimeHours,
		BiweeklyAnchor:      h.Periods.Anchor().Format(dateLayout),
	})
}

// =============================================================================
// DTO CONVERSION
// =============================================================================

func toEmployeeDTO(e payroll.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:                 string(e.ID),
		Name:               e.Name,
		HourlyRate:         e.HourlyRate.StringFixed(2),
		DailyOvertimeHours: e.DailyOvertimeHours,
	}
}

func toSegmentDTO(s timeclock.Segment) SegmentDTO {
	return SegmentDTO{
		ID:         s.ID,
		EmployeeID: string(s.EmployeeID),
		Date:       s.Date.Format(dateLayout),
		ClockIn:    s.ClockIn.Format(time.RFC3339),
		ClockOut:   timePtr(s.ClockOut),
		BreakStart: timePtr(s.BreakStart),
		BreakEnd:   timePtr(s.BreakEnd),
	}
}

func toSaleDTO(s sales.SaleRecord) SaleDTO {
	var bonuses []string
	for _, b := range s.AdminBonuses {
		bonuses = append(bonuses, b.StringFixed(2))
	}
	return SaleDTO{
		ID:            s.ID,
		EmployeeID:    string(s.EmployeeID),
		ClientName:    s.ClientName,
		Amount:        s.Amount.StringFixed(2),
		BrokerFee:     s.BrokerFee.StringFixed(2),
		PolicyType:    s.PolicyType,
		CrossSoldType: s.CrossSoldType,
		IsCrossSold:   s.IsCrossSold,
		SaleDate:      s.SaleDate.Format(time.RFC3339),
		AdminBonuses:  bonuses,
	}
}

func toNotificationDTO(n review.Notification, now time.Time) NotificationDTO {
	var reviewedAt *string
	if n.ReviewedAt != nil {
		s := n.ReviewedAt.Format(time.RFC3339)
		reviewedAt = &s
	}
	return NotificationDTO{
		ID:          n.ID,
		SaleID:      n.SaleID,
		EmployeeID:  string(n.EmployeeID),
		Status:      string(n.Status),
		AdminBonus:  n.AdminBonus.StringFixed(2),
		AdminNotes:  n.AdminNotes,
		PeriodIndex: n.PeriodIndex,
		PeriodStart: n.PeriodStart.Format(dateLayout),
		PeriodEnd:   n.PeriodEnd.Format(dateLayout),
		CreatedAt:   n.CreatedAt.Format(time.RFC3339),
		ReviewedAt:  reviewedAt,
		Urgent:      n.IsUrgent(now),
		Expired:     n.IsExpired(now),
	}
}

func timePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps the error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case payroll.IsValidation(err):
		writeError(w, http.StatusBadRequest, "validation failed", err)
	case errors.Is(err, payroll.ErrNotFound):
		writeError(w, http.StatusNotFound, "record not found", err)
	case payroll.IsConflict(err), errors.Is(err, payroll.ErrActionInFlight):
		writeError(w, http.StatusConflict, "conflicting operation", err)
	case payroll.IsTransient(err):
		writeError(w, http.StatusServiceUnavailable, "temporarily unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal error", err)
	}
}
