// Package memory provides an in-memory implementation of every storage
// interface, used by tests and for -db=:memory: style development runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/brokerage-engine/payroll"
	"github.com/warp/brokerage-engine/review"
	"github.com/warp/brokerage-engine/sales"
	"github.com/warp/brokerage-engine/timeclock"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

type Store struct {
	mu sync.RWMutex

	employees     map[payroll.EmployeeID]payroll.Employee
	segments      map[string]timeclock.Segment
	sales         map[string]sales.SaleRecord
	reviews       map[string]sales.ReviewRecord
	notifications map[string]review.Notification
}

func New() *Store {
	return &Store{
		employees:     make(map[payroll.EmployeeID]payroll.Employee),
		segments:      make(map[string]timeclock.Segment),
		sales:         make(map[string]sales.SaleRecord),
		reviews:       make(map[string]sales.ReviewRecord),
		notifications: make(map[string]review.Notification),
	}
}

// =============================================================================
// EMPLOYEES (payroll.EmployeeStore, plus a seed helper)
// =============================================================================

// PutEmployee seeds an employee record. The engine itself never writes
// employees; this exists for tests and dev fixtures.
func (m *Store) PutEmployee(e payroll.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = e
}

// SaveEmployee upserts an HR record on behalf of the admin API surface.
func (m *Store) SaveEmployee(_ context.Context, e payroll.Employee) error {
	m.PutEmployee(e)
	return nil
}

func (m *Store) GetEmployee(_ context.Context, id payroll.EmployeeID) (*payroll.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.employees[id]
	if !ok {
		return nil, payroll.ErrNotFound
	}
	return &e, nil
}

func (m *Store) ListEmployees(_ context.Context) ([]payroll.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]payroll.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// =============================================================================
// CLOCK SEGMENTS (timeclock.Store)
// =============================================================================

func (m *Store) InsertSegment(_ context.Context, s timeclock.Segment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.segments[s.ID]; exists {
		return &payroll.ValidationError{Field: "id", Reason: "duplicate segment id"}
	}
	// One open segment per employee, enforced at the storage boundary too.
	if s.IsOpen() {
		for _, other := range m.segments {
			if other.EmployeeID == s.EmployeeID && other.IsOpen() {
				return &payroll.ValidationError{Field: "employeeId", Reason: "employee already has an open segment"}
			}
		}
	}
	m.segments[s.ID] = s
	return nil
}

func (m *Store) UpdateSegment(_ context.Context, s timeclock.Segment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.segments[s.ID]; !exists {
		return payroll.ErrNotFound
	}
	m.segments[s.ID] = s
	return nil
}

func (m *Store) SegmentsByEmployeeAndRange(_ context.Context, id payroll.EmployeeID, from, to time.Time) ([]timeclock.Segment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []timeclock.Segment
	for _, s := range m.segments {
		if s.EmployeeID != id {
			continue
		}
		if s.Date.Before(from) || s.Date.After(to) {
			continue
		}
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ClockIn.Before(result[j].ClockIn) })
	return result, nil
}

func (m *Store) OpenSegment(_ context.Context, id payroll.EmployeeID) (*timeclock.Segment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.segments {
		if s.EmployeeID == id && s.IsOpen() {
			seg := s
			return &seg, nil
		}
	}
	return nil, nil
}

// =============================================================================
// SALES (sales.SaleStore)
// =============================================================================

func (m *Store) InsertSale(_ context.Context, s sales.SaleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sales[s.ID]; exists {
		return &payroll.ValidationError{Field: "id", Reason: "duplicate sale id"}
	}
	m.sales[s.ID] = cloneSale(s)
	return nil
}

func (m *Store) GetSale(_ context.Context, id string) (*sales.SaleRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sales[id]
	if !ok {
		return nil, payroll.ErrNotFound
	}
	out := cloneSale(s)
	return &out, nil
}

func (m *Store) SalesByEmployeeAndRange(_ context.Context, id payroll.EmployeeID, from, to time.Time) ([]sales.SaleRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []sales.SaleRecord
	for _, s := range m.sales {
		if s.EmployeeID != id {
			continue
		}
		if s.SaleDate.Before(from) || s.SaleDate.After(to) {
			continue
		}
		result = append(result, cloneSale(s))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SaleDate.Before(result[j].SaleDate) })
	return result, nil
}

func (m *Store) AppendAdminBonus(_ context.Context, saleID string, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sales[saleID]
	if !ok {
		return payroll.ErrNotFound
	}
	s.AdminBonuses = append(s.AdminBonuses, amount)
	m.sales[saleID] = s
	return nil
}

func cloneSale(s sales.SaleRecord) sales.SaleRecord {
	s.AdminBonuses = append([]decimal.Decimal(nil), s.AdminBonuses...)
	return s
}

// =============================================================================
// CUSTOMER REVIEWS (sales.ReviewStore)
// =============================================================================

func (m *Store) InsertReview(_ context.Context, r sales.ReviewRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.reviews[r.ID]; exists {
		return &payroll.ValidationError{Field: "id", Reason: "duplicate review id"}
	}
	m.reviews[r.ID] = r
	return nil
}

func (m *Store) ReviewsByEmployeeAndRange(_ context.Context, id payroll.EmployeeID, from, to time.Time) ([]sales.ReviewRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []sales.ReviewRecord
	for _, r := range m.reviews {
		if r.EmployeeID != id {
			continue
		}
		if r.ReviewDate.Before(from) || r.ReviewDate.After(to) {
			continue
		}
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ReviewDate.Before(result[j].ReviewDate) })
	return result, nil
}

// =============================================================================
// NOTIFICATIONS (review.NotificationStore)
// =============================================================================

func (m *Store) InsertNotification(_ context.Context, n review.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.notifications[n.ID]; exists {
		return &payroll.ValidationError{Field: "id", Reason: "duplicate notification id"}
	}
	m.notifications[n.ID] = n
	return nil
}

func (m *Store) UpdateNotification(_ context.Context, n review.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.notifications[n.ID]; !exists {
		return payroll.ErrNotFound
	}
	m.notifications[n.ID] = n
	return nil
}

func (m *Store) GetNotification(_ context.Context, id string) (*review.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.notifications[id]
	if !ok {
		return nil, nil
	}
	out := n
	return &out, nil
}

func (m *Store) NotificationsByStatus(_ context.Context, status review.Status) ([]review.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []review.Notification
	for _, n := range m.notifications {
		if n.Status == status {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (m *Store) NotificationsByEmployee(_ context.Context, id payroll.EmployeeID) ([]review.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []review.Notification
	for _, n := range m.notifications {
		if n.EmployeeID == id {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

// =============================================================================
// INTERFACE CHECKS
// =============================================================================

var (
	_ payroll.EmployeeStore    = (*Store)(nil)
	_ timeclock.Store          = (*Store)(nil)
	_ sales.SaleStore          = (*Store)(nil)
	_ sales.ReviewStore        = (*Store)(nil)
	_ review.NotificationStore = (*Store)(nil)
)
