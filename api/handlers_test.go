package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/brokerage-engine/bonus"
	"github.com/warp/brokerage-engine/bus"
	"github.com/warp/brokerage-engine/payperiod"
	"github.com/warp/brokerage-engine/payroll"
	"github.com/warp/brokerage-engine/review"
	"github.com/warp/brokerage-engine/sales"
	"github.com/warp/brokerage-engine/store/memory"
	"github.com/warp/brokerage-engine/timeclock"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type apiFixture struct {
	router http.Handler
	auth   *jwtauth.JWTAuth
	store  *memory.Store
	now    time.Time
	alerts int64

	clock *timeclock.Service
}

// Wednesday, mid-period.
var apiStart = time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	f := &apiFixture{
		auth:  NewAuth("test-secret"),
		store: memory.New(),
		now:   apiStart,
	}
	nowFn := func() time.Time { return f.now }

	f.store.PutEmployee(payroll.Employee{
		ID: "emp-1", Name: "Avery Cole",
		HourlyRate:         decimal.NewFromInt(20),
		DailyOvertimeHours: 8,
	})
	f.store.PutEmployee(payroll.Employee{
		ID: "admin-1", Name: "Robin Hale",
		HourlyRate:         decimal.NewFromInt(35),
		DailyOvertimeHours: 8,
	})

	calc, err := payperiod.NewCalculator(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	b := bus.New()
	f.clock = timeclock.NewService(f.store, b)
	f.clock.Now = nowFn

	saleSvc := sales.NewService(f.store, f.store, f.store, calc, b, decimal.NewFromInt(5000))
	saleSvc.Now = nowFn

	workflow := review.NewWorkflow(f.store, f.store, b)
	workflow.Now = nowFn

	h := &Handler{
		Employees:           f.store,
		EmployeeWriter:      f.store,
		Clock:               f.clock,
		Sales:               saleSvc,
		SaleStore:           f.store,
		ReviewStore:         f.store,
		Notifications:       f.store,
		Workflow:            workflow,
		Engine:              bonus.NewEngine(decimal.NewFromInt(5000)),
		Periods:             calc,
		WeeklyOvertimeHours: 40,
		ActiveAlerts:        func() int64 { return f.alerts },
		Now:                 nowFn,
	}
	f.router = NewRouter(h, f.auth, "test")
	return f
}

func (f *apiFixture) token(t *testing.T, sub string, role payroll.Role) string {
	t.Helper()
	_, tokenString, err := f.auth.Encode(map[string]any{"sub": sub, "role": string(role)})
	require.NoError(t, err)
	return tokenString
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

// =============================================================================
// AUTHENTICATION AND ROLES
// =============================================================================

func TestAPI_StatusReportsAlertSnapshot(t *testing.T) {
	// The root endpoint serves the reconciled active-alert counter without
	// touching storage or requiring a token.
	f := newAPIFixture(t)
	f.alerts = 3

	rec := f.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status StatusDTO
	decodeInto(t, rec, &status)
	assert.Equal(t, "brokerage-engine", status.Service)
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, int64(3), status.ActiveAlerts)
}

func TestAPI_NoToken_Unauthorized(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/clock/in", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_EmployeeCannotListEmployees(t *testing.T) {
	f := newAPIFixture(t)
	token := f.token(t, "emp-1", payroll.RoleEmployee)

	rec := f.do(t, http.MethodGet, "/api/employees/", token, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAPI_SelfReadAllowed_OtherForbidden(t *testing.T) {
	f := newAPIFixture(t)
	token := f.token(t, "emp-1", payroll.RoleEmployee)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/employees/emp-1", token, nil).Code)
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodGet, "/api/employees/admin-1", token, nil).Code)
}

func TestAPI_CreateEmployee_AdminOnly(t *testing.T) {
	f := newAPIFixture(t)
	admin := f.token(t, "admin-1", payroll.RoleAdmin)
	employee := f.token(t, "emp-1", payroll.RoleEmployee)

	body := map[string]any{"name": "Jordan Reyes", "hourlyRate": 27.5}

	rec := f.do(t, http.MethodPost, "/api/employees/", employee, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/employees/", admin, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created EmployeeDTO
	decodeInto(t, rec, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Jordan Reyes", created.Name)
	assert.Equal(t, "27.50", created.HourlyRate)
	assert.Equal(t, 8.0, created.DailyOvertimeHours)

	rec = f.do(t, http.MethodGet, "/api/employees/"+created.ID, admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_ClientConfigEcho(t *testing.T) {
	f := newAPIFixture(t)
	token := f.token(t, "emp-1", payroll.RoleEmployee)

	rec := f.do(t, http.MethodGet, "/api/config", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg ClientConfigDTO
	decodeInto(t, rec, &cfg)
	assert.Equal(t, "5000.00", cfg.HighValueThreshold)
	assert.Equal(t, 40.0, cfg.WeeklyOvertimeHours)
	assert.Equal(t, "2024-01-01", cfg.BiweeklyAnchor)
}

// =============================================================================
// TIME CLOCK
// =============================================================================

func TestAPI_ClockInStatusOut(t *testing.T) {
	f := newAPIFixture(t)
	token := f.token(t, "emp-1", payroll.RoleEmployee)

	rec := f.do(t, http.MethodPost, "/api/clock/in", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var seg SegmentDTO
	decodeInto(t, rec, &seg)
	assert.Equal(t, "emp-1", seg.EmployeeID)
	assert.Nil(t, seg.ClockOut)

	f.now = f.now.Add(4 * time.Hour)

	rec = f.do(t, http.MethodGet, "/api/clock/status", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status ClockStatusDTO
	decodeInto(t, rec, &status)
	assert.Equal(t, 4.0, status.WorkedHours)
	assert.Equal(t, string(timeclock.StatusWorking), status.Status)

	rec = f.do(t, http.MethodPost, "/api/clock/out", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeInto(t, rec, &seg)
	assert.NotNil(t, seg.ClockOut)
}

func TestAPI_DoubleClockIn_BadRequest(t *testing.T) {
	f := newAPIFixture(t)
	token := f.token(t, "emp-1", payroll.RoleEmployee)

	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/clock/in", token, nil).Code)
	rec := f.do(t, http.MethodPost, "/api/clock/in", token, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// SALES AND THE REVIEW WORKFLOW OVER HTTP
// =============================================================================

func TestAPI_HighValueSale_FullWorkflowRoundTrip(t *testing.T) {
	f := newAPIFixture(t)
	empToken := f.token(t, "emp-1", payroll.RoleEmployee)
	adminToken := f.token(t, "admin-1", payroll.RoleAdmin)

	// Employee records a high-value sale.
	rec := f.do(t, http.MethodPost, "/api/sales", empToken, RecordSaleRequest{
		ClientName: "Hollis & Partners",
		Amount:     6000, BrokerFee: 250, PolicyType: "Auto",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var sale SaleDTO
	decodeInto(t, rec, &sale)
	require.NotEmpty(t, sale.NotificationID, "high-value sale routes to manual review")

	// Employee cannot drive the workflow.
	rec = f.do(t, http.MethodPost, "/api/notifications/"+sale.NotificationID+"/review", empToken,
		MarkReviewedRequest{AdminBonus: 200})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admin reviews with a bonus.
	rec = f.do(t, http.MethodPost, "/api/notifications/"+sale.NotificationID+"/review", adminToken,
		MarkReviewedRequest{AdminBonus: 200, AdminNotes: "approved manually"})
	require.Equal(t, http.StatusOK, rec.Code)

	var n NotificationDTO
	decodeInto(t, rec, &n)
	assert.Equal(t, "reviewed", n.Status)
	assert.Equal(t, "200.00", n.AdminBonus)

	// Resolve, then reopen while the period is still running.
	require.Equal(t, http.StatusOK,
		f.do(t, http.MethodPost, "/api/notifications/"+sale.NotificationID+"/resolve", adminToken, nil).Code)

	rec = f.do(t, http.MethodPost, "/api/notifications/"+sale.NotificationID+"/unresolve", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeInto(t, rec, &n)
	assert.Equal(t, "pending", n.Status)
}

func TestAPI_UnresolveAfterPeriodEnd_Conflict(t *testing.T) {
	f := newAPIFixture(t)
	empToken := f.token(t, "emp-1", payroll.RoleEmployee)
	adminToken := f.token(t, "admin-1", payroll.RoleAdmin)

	var sale SaleDTO
	decodeInto(t, f.do(t, http.MethodPost, "/api/sales", empToken, RecordSaleRequest{
		Amount: 7500, BrokerFee: 300, PolicyType: "Home",
	}), &sale)
	require.NotEmpty(t, sale.NotificationID)

	require.Equal(t, http.StatusOK,
		f.do(t, http.MethodPost, "/api/notifications/"+sale.NotificationID+"/resolve", adminToken, nil).Code)

	// Jump past the owning biweekly period's end.
	f.now = f.now.AddDate(0, 0, 15)

	rec := f.do(t, http.MethodPost, "/api/notifications/"+sale.NotificationID+"/unresolve", adminToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPI_ReviewUnknownNotification_NotFound(t *testing.T) {
	f := newAPIFixture(t)
	adminToken := f.token(t, "admin-1", payroll.RoleAdmin)

	rec := f.do(t, http.MethodPost, "/api/notifications/nope/review", adminToken,
		MarkReviewedRequest{AdminBonus: 10})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_NotificationCounts(t *testing.T) {
	f := newAPIFixture(t)
	empToken := f.token(t, "emp-1", payroll.RoleEmployee)
	adminToken := f.token(t, "admin-1", payroll.RoleAdmin)

	for i := 0; i < 2; i++ {
		rec := f.do(t, http.MethodPost, "/api/sales", empToken, RecordSaleRequest{
			Amount: 9000, BrokerFee: 100, PolicyType: "Auto",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := f.do(t, http.MethodGet, "/api/notifications/counts", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var counts NotificationCountsDTO
	decodeInto(t, rec, &counts)
	assert.Equal(t, 2, counts.Active)
	assert.Equal(t, 2, counts.Pending)
}

func TestAPI_EmployeeSeesOwnNotifications(t *testing.T) {
	f := newAPIFixture(t)
	empToken := f.token(t, "emp-1", payroll.RoleEmployee)

	rec := f.do(t, http.MethodPost, "/api/sales", empToken, RecordSaleRequest{
		Amount: 5000, BrokerFee: 200, PolicyType: "Auto",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/notifications/", empToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []NotificationDTO
	decodeInto(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "emp-1", list[0].EmployeeID)
	assert.False(t, list[0].Expired)
}

// =============================================================================
// WEEKLY PAYROLL SUMMARY
// =============================================================================

func TestAPI_WeeklySummary_CombinesHoursAndBonuses(t *testing.T) {
	f := newAPIFixture(t)
	empToken := f.token(t, "emp-1", payroll.RoleEmployee)

	// 8 worked hours at $20.
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/clock/in", empToken, nil).Code)
	f.now = f.now.Add(8 * time.Hour)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/clock/out", empToken, nil).Code)

	// Broker fee 250 -> 15.00 bonus; one five-star review -> 10.00.
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/sales", empToken, RecordSaleRequest{
		Amount: 2000, BrokerFee: 250, PolicyType: "Auto",
	}).Code)
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/reviews", empToken, RecordReviewRequest{
		Rating: 5,
	}).Code)

	rec := f.do(t, http.MethodGet, "/api/payroll/summary", empToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var sum PayrollSummaryDTO
	decodeInto(t, rec, &sum)
	assert.Equal(t, 8.0, sum.RegularHours)
	assert.Equal(t, 0.0, sum.OvertimeHours)
	assert.Equal(t, "160.00", sum.RegularPay)
	assert.Equal(t, "15.00", sum.BrokerFeeBonus)
	assert.Equal(t, "10.00", sum.ReviewBonus)
	assert.Equal(t, "25.00", sum.TotalBonuses)
	assert.Equal(t, "185.00", sum.TotalPay)
}

func TestAPI_WeeklySummary_OtherEmployeeRequiresAdmin(t *testing.T) {
	f := newAPIFixture(t)
	empToken := f.token(t, "emp-1", payroll.RoleEmployee)
	adminToken := f.token(t, "admin-1", payroll.RoleAdmin)

	rec := f.do(t, http.MethodGet, "/api/payroll/summary?employeeId=admin-1", empToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/payroll/summary?employeeId=emp-1", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
