package review

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/brokerage-engine/payperiod"
	"github.com/warp/brokerage-engine/payroll"
)

// =============================================================================
// NOTIFICATION - The only mutable record type in the core
// =============================================================================

// Notification is created automatically when a sale's amount crosses the
// high-value threshold, in status pending, bound to the biweekly period
// active at creation.
type Notification struct {
	ID          string
	SaleID      string
	EmployeeID  payroll.EmployeeID
	Status      Status
	AdminBonus  decimal.Decimal
	AdminNotes  string
	PeriodIndex int
	PeriodStart time.Time
	PeriodEnd   time.Time
	CreatedAt   time.Time
	ReviewedAt  *time.Time
}

// IsExpired reports whether the owning biweekly period has ended.
func (n Notification) IsExpired(now time.Time) bool {
	return payperiod.IsExpired(n.PeriodEnd, now)
}

// IsUrgent flags records nearing their edit lock: two days or fewer left
// and not yet resolved. Used for alerting and sorting only, never for
// state transitions.
func (n Notification) IsUrgent(now time.Time) bool {
	return payperiod.DaysRemaining(n.PeriodEnd, now) <= 2 && n.Status != StatusResolved
}

// ActiveCount counts records not yet closed (resolved is excluded).
func ActiveCount(list []Notification) int {
	count := 0
	for _, n := range list {
		if n.Status != StatusResolved {
			count++
		}
	}
	return count
}

// =============================================================================
// STORE - Persistence collaborator
// =============================================================================

type NotificationStore interface {
	InsertNotification(ctx context.Context, n Notification) error

	// UpdateNotification persists status and admin fields as one atomic
	// single-record write.
	UpdateNotification(ctx context.Context, n Notification) error

	// GetNotification returns nil (no error) when no record exists.
	GetNotification(ctx context.Context, id string) (*Notification, error)
	NotificationsByStatus(ctx context.Context, status Status) ([]Notification, error)
	NotificationsByEmployee(ctx context.Context, id payroll.EmployeeID) ([]Notification, error)
}
