/*
service.go - Sale and review recording

PURPOSE:
  Validates and persists new sale/review records, and routes high-value
  sales into the manual review workflow: a sale whose amount meets the
  configured threshold gets a pending notification bound to the biweekly
  period active at creation. Every successful write publishes one event.

SEE ALSO:
  - review/workflow.go: What happens to the created notification
  - payperiod/: Period binding for the notification
*/
package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/brokerage-engine/bus"
	"github.com/warp/brokerage-engine/payperiod"
	"github.com/warp/brokerage-engine/review"
)

// Service records sales and customer reviews.
type Service struct {
	Sales         SaleStore
	Reviews       ReviewStore
	Notifications review.NotificationStore
	Periods       *payperiod.Calculator
	Bus           *bus.Bus

	// HighValueThreshold routes sales at or above it to manual review.
	HighValueThreshold decimal.Decimal

	// Now is the clock source; defaults to time.Now. Tests override it.
	Now func() time.Time
}

func NewService(saleStore SaleStore, reviewStore ReviewStore, notifications review.NotificationStore,
	periods *payperiod.Calculator, b *bus.Bus, threshold decimal.Decimal) *Service {
	return &Service{
		Sales:              saleStore,
		Reviews:            reviewStore,
		Notifications:      notifications,
		Periods:            periods,
		Bus:                b,
		HighValueThreshold: threshold,
		Now:                time.Now,
	}
}

// RecordSale validates and persists a sale. A sale at or above the
// high-value threshold additionally creates a pending review notification
// bound to the biweekly period active right now; its bonus stays manual
// from that point on.
func (svc *Service) RecordSale(ctx context.Context, s SaleRecord) (*SaleRecord, *review.Notification, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.SaleDate.IsZero() {
		s.SaleDate = svc.Now()
	}
	// Client-supplied dates may carry any offset; normalize to UTC so
	// encoded timestamps order consistently in range queries.
	s.SaleDate = s.SaleDate.UTC()
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}

	// High-value routing is decided before any write so a period error
	// (sale date before the anchor) leaves nothing behind.
	var notification *review.Notification
	if s.Amount.GreaterThanOrEqual(svc.HighValueThreshold) {
		now := svc.Now()
		period, err := svc.Periods.BiweeklyBounds(now)
		if err != nil {
			return nil, nil, err
		}
		notification = &review.Notification{
			ID:          uuid.NewString(),
			SaleID:      s.ID,
			EmployeeID:  s.EmployeeID,
			Status:      review.StatusPending,
			AdminBonus:  decimal.Zero,
			PeriodIndex: period.Index,
			PeriodStart: period.Start,
			PeriodEnd:   period.End,
			CreatedAt:   now,
		}
	}

	if err := svc.Sales.InsertSale(ctx, s); err != nil {
		return nil, nil, err
	}
	if notification != nil {
		if err := svc.Notifications.InsertNotification(ctx, *notification); err != nil {
			return nil, nil, err
		}
	}

	if svc.Bus != nil {
		svc.Bus.Publish(bus.Event{Kind: bus.KindSaleRecorded, Payload: bus.SaleRecorded{
			EmployeeID: s.EmployeeID,
			SaleID:     s.ID,
		}})
	}
	return &s, notification, nil
}

// RecordReview validates and persists a customer review.
func (svc *Service) RecordReview(ctx context.Context, r ReviewRecord) (*ReviewRecord, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.ReviewDate.IsZero() {
		r.ReviewDate = svc.Now()
	}
	r.ReviewDate = r.ReviewDate.UTC()
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := svc.Reviews.InsertReview(ctx, r); err != nil {
		return nil, err
	}
	return &r, nil
}
