/*
Package bus provides in-process event distribution and cross-viewer sync.

PURPOSE:
  Two cooperating pieces keep every open view consistent without a
  server-side lock manager:

  - Bus (this file): synchronous in-process publish/subscribe keyed by
    event kind. Mutating operations publish after a successful write;
    subscribers decide locally whether to recompute. Derived state is
    never authoritative - subscribers re-run the same pure computations
    against storage.
  - SyncChannel (sync.go): cross-viewer reconciliation fed by broadcast
    messages plus a fixed-interval poll.

DELIVERY CONTRACT:
  All current subscribers are invoked synchronously, in subscription
  order. A subscriber that unsubscribes during its own callback is not
  invoked again for that emission. No replay, no buffering.

SEE ALSO:
  - sync.go: SyncChannel
  - review/workflow.go: Publishes review_status_changed / bonus_override_set
*/
package bus

import (
	"sync"

	"github.com/shopspring/decimal"
	"github.com/warp/brokerage-engine/payroll"
)

// =============================================================================
// EVENT KINDS AND PAYLOADS
// =============================================================================

type Kind string

const (
	KindClockEventRecorded  Kind = "clock_event_recorded"
	KindSaleRecorded        Kind = "sale_recorded"
	KindReviewStatusChanged Kind = "review_status_changed"
	KindBonusOverrideSet    Kind = "bonus_override_set"
)

// Event carries a kind plus an opaque payload. Subscribers type-assert to
// the payload structs below.
type Event struct {
	Kind    Kind
	Payload any
}

type ClockEventRecorded struct {
	EmployeeID payroll.EmployeeID
}

type SaleRecorded struct {
	EmployeeID payroll.EmployeeID
	SaleID     string
}

type ReviewStatusChanged struct {
	NotificationID string
	Status         string
}

type BonusOverrideSet struct {
	SaleID string
	Amount decimal.Decimal
}

// =============================================================================
// BUS - Synchronous publish/subscribe
// =============================================================================

type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Kind][]*subscription
}

type subscription struct {
	id     int
	fn     func(Event)
	active bool
}

func New() *Bus {
	return &Bus{subs: make(map[Kind][]*subscription)}
}

// Subscribe registers fn for a kind and returns its unsubscribe func.
// Unsubscribing is idempotent and safe from within fn itself.
func (b *Bus) Subscribe(kind Kind, fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &subscription{id: b.nextID, fn: fn, active: true}
	b.subs[kind] = append(b.subs[kind], sub)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		sub.active = false
		b.removeInactive(kind)
	}
}

// Publish invokes all current subscribers for e.Kind in subscription order.
// Callbacks run without the bus lock held, so they may publish or
// unsubscribe freely.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	snapshot := make([]*subscription, len(b.subs[e.Kind]))
	copy(snapshot, b.subs[e.Kind])
	b.mu.Unlock()

	for _, sub := range snapshot {
		b.mu.Lock()
		active := sub.active
		b.mu.Unlock()
		if active {
			sub.fn(e)
		}
	}
}

func (b *Bus) removeInactive(kind Kind) {
	kept := b.subs[kind][:0]
	for _, sub := range b.subs[kind] {
		if sub.active {
			kept = append(kept, sub)
		}
	}
	b.subs[kind] = kept
}
