package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/brokerage-engine/bus"
	"github.com/warp/brokerage-engine/payperiod"
	"github.com/warp/brokerage-engine/payroll"
	"github.com/warp/brokerage-engine/review"
	"github.com/warp/brokerage-engine/sales"
	"github.com/warp/brokerage-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var (
	anchor  = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	saleNow = time.Date(2024, time.January, 18, 10, 0, 0, 0, time.UTC) // period 1
)

func newService(t *testing.T) (*sales.Service, *memory.Store, *bus.Bus) {
	t.Helper()
	calc, err := payperiod.NewCalculator(anchor)
	require.NoError(t, err)

	st := memory.New()
	b := bus.New()
	svc := sales.NewService(st, st, st, calc, b, decimal.NewFromInt(5000))
	svc.Now = func() time.Time { return saleNow }
	return svc, st, b
}

func validSale(amount float64) sales.SaleRecord {
	return sales.SaleRecord{
		EmployeeID: "emp-1",
		ClientName: "Hollis & Partners",
		Amount:     decimal.NewFromFloat(amount),
		BrokerFee:  decimal.NewFromInt(250),
		PolicyType: "Auto",
	}
}

// =============================================================================
// RECORDING
// =============================================================================

func TestRecordSale_BelowThreshold_NoNotification(t *testing.T) {
	svc, st, _ := newService(t)

	rec, notif, err := svc.RecordSale(context.Background(), validSale(2000))
	require.NoError(t, err)

	assert.Nil(t, notif)
	assert.NotEmpty(t, rec.ID, "id assigned when absent")
	assert.Equal(t, saleNow, rec.SaleDate, "sale date defaults to now")

	pending, err := st.NotificationsByStatus(context.Background(), review.StatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRecordSale_OffsetDateNormalizedToUTC(t *testing.T) {
	// A client-supplied date carrying a zone offset is stored as the same
	// instant in UTC, keeping encoded-timestamp range queries ordered.
	svc, st, _ := newService(t)

	loc := time.FixedZone("UTC+5", 5*3600)
	s := validSale(2000)
	s.SaleDate = time.Date(2024, time.January, 18, 10, 0, 0, 0, loc)

	rec, _, err := svc.RecordSale(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, time.UTC, rec.SaleDate.Location())
	assert.True(t, rec.SaleDate.Equal(s.SaleDate), "same instant, different zone")

	stored, err := st.GetSale(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, stored.SaleDate.Location())

	rev, err := svc.RecordReview(context.Background(), sales.ReviewRecord{
		EmployeeID: "emp-1", Rating: 5,
		ReviewDate: time.Date(2024, time.January, 18, 10, 0, 0, 0, loc),
	})
	require.NoError(t, err)
	assert.Equal(t, time.UTC, rev.ReviewDate.Location())
}

func TestRecordSale_AtThreshold_RoutedToManualReview(t *testing.T) {
	// GIVEN: a sale exactly at the 5000 threshold
	// THEN: a pending notification bound to the current biweekly period
	svc, st, _ := newService(t)

	rec, notif, err := svc.RecordSale(context.Background(), validSale(5000))
	require.NoError(t, err)

	require.NotNil(t, notif)
	assert.Equal(t, rec.ID, notif.SaleID)
	assert.Equal(t, payroll.EmployeeID("emp-1"), notif.EmployeeID)
	assert.Equal(t, review.StatusPending, notif.Status)
	assert.True(t, notif.AdminBonus.IsZero())

	// saleNow falls in the second period after the anchor.
	assert.Equal(t, 1, notif.PeriodIndex)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), notif.PeriodStart)
	assert.Equal(t, time.Date(2024, time.January, 28, 23, 59, 59, 0, time.UTC), notif.PeriodEnd)

	stored, err := st.GetNotification(context.Background(), notif.ID)
	require.NoError(t, err)
	require.NotNil(t, stored, "notification persisted alongside the sale")
}

func TestRecordSale_HighValue_AutomaticBonusSuppressedUntilReview(t *testing.T) {
	svc, st, _ := newService(t)

	rec, notif, err := svc.RecordSale(context.Background(), validSale(6000))
	require.NoError(t, err)
	require.NotNil(t, notif)

	stored, err := st.GetSale(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.AdminBonuses, "no override until an admin reviews")
}

func TestRecordSale_EmitsSaleRecorded(t *testing.T) {
	svc, _, b := newService(t)

	var got []bus.SaleRecorded
	b.Subscribe(bus.KindSaleRecorded, func(e bus.Event) {
		got = append(got, e.Payload.(bus.SaleRecorded))
	})

	rec, _, err := svc.RecordSale(context.Background(), validSale(2000))
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, rec.ID, got[0].SaleID)
}

func TestRecordSale_ValidationFailure_NothingPersistedNothingEmitted(t *testing.T) {
	svc, st, b := newService(t)

	emitted := 0
	b.Subscribe(bus.KindSaleRecorded, func(bus.Event) { emitted++ })

	s := validSale(6000)
	s.IsCrossSold = true // cross-sold without a type

	_, _, err := svc.RecordSale(context.Background(), s)

	require.Error(t, err)
	assert.True(t, payroll.IsValidation(err))
	assert.Zero(t, emitted)

	pending, _ := st.NotificationsByStatus(context.Background(), review.StatusPending)
	assert.Empty(t, pending)
}

func TestRecordSale_NegativeAmount_Rejected(t *testing.T) {
	svc, _, _ := newService(t)

	_, _, err := svc.RecordSale(context.Background(), validSale(-1))

	require.Error(t, err)
	assert.True(t, payroll.IsValidation(err))
}

func TestRecordReview_RatingBounds(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.RecordReview(ctx, sales.ReviewRecord{EmployeeID: "emp-1", Rating: 0})
	assert.True(t, payroll.IsValidation(err))

	_, err = svc.RecordReview(ctx, sales.ReviewRecord{EmployeeID: "emp-1", Rating: 6})
	assert.True(t, payroll.IsValidation(err))

	r, err := svc.RecordReview(ctx, sales.ReviewRecord{EmployeeID: "emp-1", Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, saleNow, r.ReviewDate)
}

// =============================================================================
// LIFE POLICY DETECTION
// =============================================================================

func TestIsLifePolicy_CaseInsensitiveContains(t *testing.T) {
	assert.True(t, sales.IsLifePolicy("Life"))
	assert.True(t, sales.IsLifePolicy("life insurance"))
	assert.True(t, sales.IsLifePolicy("Whole Life"))
	assert.False(t, sales.IsLifePolicy("Auto"))
	assert.False(t, sales.IsLifePolicy(""))
}

func TestHasLifePolicy_CrossSoldTypeCounts(t *testing.T) {
	s := sales.SaleRecord{PolicyType: "Auto", CrossSoldType: "Term Life", IsCrossSold: true}
	assert.True(t, s.HasLifePolicy())
}
