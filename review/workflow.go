/*
workflow.go - Review state machine with expiry locking

TRANSITIONS:
  pending  -> reviewed   MarkReviewed (sets admin bonus/notes; zero allowed)
  reviewed -> reviewed   MarkReviewed (re-edit)
  pending  -> resolved   Resolve
  reviewed -> resolved   Resolve
  resolved -> pending    Unresolve, only while period not expired
  reviewed -> pending    Unresolve, only while period not expired

  A resolved record whose period has ended is permanently locked: every
  transition against it fails with a conflict, never a silent no-op.

WRITE-TIME RE-VALIDATION:
  Expiry is re-evaluated at the moment of write against a fresh read,
  not cached from an earlier view. A transition that was valid when the
  button was clicked still fails if the period expired in between.

IDEMPOTENCY GUARD:
  Every mutating action holds an in-flight slot keyed by record id for
  the duration of the call. A second invocation for the same id is
  rejected locally without contacting storage - double-clicks and
  multi-tab races apply at most one transition and emit exactly one
  event. The slot is released on failure so a retry is possible.

SIDE EFFECTS:
  Each successful transition persists the notification as one atomic
  write and publishes exactly one review_status_changed event. When
  MarkReviewed changes the admin bonus, the new override is recorded on
  the sale before the notification write (so a failure leaves the
  user-facing record untouched) and bonus_override_set is published. A
  re-review replaces the effective override; the sale keeps every
  decision as its audit trail.
*/
package review

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/brokerage-engine/bus"
	"github.com/warp/brokerage-engine/payroll"
)

// BonusRecorder is the slice of the sales store the workflow needs: it
// records an admin override decision against the reviewed sale. The
// latest recorded decision is the effective override.
type BonusRecorder interface {
	AppendAdminBonus(ctx context.Context, saleID string, amount decimal.Decimal) error
}

// Workflow drives notification transitions.
type Workflow struct {
	Store NotificationStore
	Sales BonusRecorder
	Bus   *bus.Bus

	// Now is the clock source; defaults to time.Now. Tests override it.
	Now func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewWorkflow(store NotificationStore, sales BonusRecorder, b *bus.Bus) *Workflow {
	return &Workflow{
		Store:    store,
		Sales:    sales,
		Bus:      b,
		Now:      time.Now,
		inflight: make(map[string]struct{}),
	}
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// MarkReviewed records the admin's decision: bonus amount (zero means
// "reviewed, no extra pay") and notes. Valid from pending or reviewed;
// re-reviewing replaces the previous bonus, including downward.
func (w *Workflow) MarkReviewed(ctx context.Context, id string, adminBonus decimal.Decimal, notes string) (*Notification, error) {
	if adminBonus.IsNegative() {
		return nil, &payroll.ValidationError{Field: "adminBonus", Reason: "must not be negative"}
	}

	var prevBonus decimal.Decimal
	return w.transition(ctx, id, func(n *Notification, now time.Time) error {
		switch n.Status {
		case StatusPending, StatusReviewed:
			// ok
		default:
			return &payroll.ConflictError{Record: n.ID, Reason: "cannot review a resolved record; unresolve first"}
		}

		prevBonus = n.AdminBonus
		n.Status = StatusReviewed
		n.AdminBonus = adminBonus
		n.AdminNotes = notes
		n.ReviewedAt = &now
		return nil
	}, func(n *Notification) ([]bus.Event, error) {
		if adminBonus.Equal(prevBonus) || w.Sales == nil {
			return nil, nil
		}
		if err := w.Sales.AppendAdminBonus(ctx, n.SaleID, adminBonus); err != nil {
			return nil, err
		}
		return []bus.Event{{Kind: bus.KindBonusOverrideSet, Payload: bus.BonusOverrideSet{SaleID: n.SaleID, Amount: adminBonus}}}, nil
	})
}

// Resolve closes the record, excluding it from active alert counts.
func (w *Workflow) Resolve(ctx context.Context, id string) (*Notification, error) {
	return w.transition(ctx, id, func(n *Notification, now time.Time) error {
		switch n.Status {
		case StatusPending, StatusReviewed:
			n.Status = StatusResolved
			return nil
		case StatusResolved:
			return &payroll.ConflictError{Record: n.ID, Reason: "already resolved"}
		default:
			return &payroll.ConflictError{Record: n.ID, Reason: "invalid status"}
		}
	}, nil)
}

// Unresolve reopens a resolved or reviewed record. Allowed only while the
// owning period has not expired; after expiry it fails with a conflict.
func (w *Workflow) Unresolve(ctx context.Context, id string) (*Notification, error) {
	return w.transition(ctx, id, func(n *Notification, now time.Time) error {
		switch n.Status {
		case StatusResolved, StatusReviewed:
			// ok
		default:
			return &payroll.ConflictError{Record: n.ID, Reason: "only resolved or reviewed records can be unresolved"}
		}
		if n.IsExpired(now) {
			return &payroll.ConflictError{Record: n.ID, Reason: "period expired, cannot unresolve"}
		}

		n.Status = StatusPending
		return nil
	}, nil)
}

// =============================================================================
// TRANSITION PLUMBING
// =============================================================================

// transition applies one guarded state change: acquire the in-flight slot,
// re-read the record, apply, run the prepare step, persist the notification
// as one write, emit events. The prepare step runs BEFORE the notification
// write so its failure leaves the user-facing record untouched; any events
// it returns publish only once the write has succeeded.
func (w *Workflow) transition(
	ctx context.Context,
	id string,
	apply func(n *Notification, now time.Time) error,
	prepare func(n *Notification) ([]bus.Event, error),
) (*Notification, error) {
	if !w.acquire(id) {
		return nil, payroll.ErrActionInFlight
	}
	defer w.release(id)

	n, err := w.Store.GetNotification(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, payroll.ErrNotFound
	}

	// Expiry and status are evaluated against this fresh read, at write
	// time, not against whatever view triggered the action.
	now := w.Now()
	if err := apply(n, now); err != nil {
		return nil, err
	}

	var extra []bus.Event
	if prepare != nil {
		if extra, err = prepare(n); err != nil {
			return nil, err
		}
	}

	if err := w.Store.UpdateNotification(ctx, *n); err != nil {
		return nil, err
	}

	for _, e := range extra {
		w.publish(e)
	}
	w.publish(bus.Event{Kind: bus.KindReviewStatusChanged, Payload: bus.ReviewStatusChanged{
		NotificationID: n.ID,
		Status:         string(n.Status),
	}})
	return n, nil
}

func (w *Workflow) acquire(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, busy := w.inflight[id]; busy {
		return false
	}
	w.inflight[id] = struct{}{}
	return true
}

// InFlight reports whether a transition for the given record is currently
// being applied.
func (w *Workflow) InFlight(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, busy := w.inflight[id]
	return busy
}

func (w *Workflow) release(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inflight, id)
}

func (w *Workflow) publish(e bus.Event) {
	if w.Bus != nil {
		w.Bus.Publish(e)
	}
}
