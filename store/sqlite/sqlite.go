/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements every persistence interface (payroll.EmployeeStore,
  timeclock.Store, sales.SaleStore, sales.ReviewStore,
  review.NotificationStore) using SQLite. In production, the same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  employees:         HR records (id, name, hourly rate, overtime threshold)
  clock_segments:    One row per clock-in/out pair, nullable break columns
  sales:             Immutable sale records
  sale_admin_bonuses: Append-only admin overrides, ordered per sale
  employee_reviews:  Customer ratings
  notifications:     High-value review workflow records (the one mutable table)

APPEND-MOSTLY ENFORCEMENT:
  Sales and admin bonuses are never updated or deleted; overrides are
  appended as new rows. Only clock_segments (while open) and notifications
  see UPDATE statements.

INDEXES:
  - idx_segments_one_open: at most one open segment per employee,
    enforced by a partial unique index
  - idx_segments_employee_date: range reconstruction (hot path)
  - idx_sales_employee_date / idx_reviews_employee_date: payroll summary
  - idx_notifications_status: alert count queries

MONEY AND TIME ENCODING:
  Decimal amounts are stored as TEXT and parsed back with shopspring
  decimal so no precision is lost. Timestamps are normalized to UTC and
  stored as RFC3339 TEXT, which keeps lexicographic range comparisons in
  chronological order. Work-day dates are plain YYYY-MM-DD.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't block
  and crash recovery is cheap.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - store/memory: In-memory implementation with the same contracts
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/brokerage-engine/payroll"
	"github.com/warp/brokerage-engine/review"
	"github.com/warp/brokerage-engine/sales"
	"github.com/warp/brokerage-engine/timeclock"
)

const dateLayout = "2006-01-02"

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		hourly_rate TEXT NOT NULL,
		daily_overtime_hours REAL NOT NULL DEFAULT 8,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS clock_segments (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		work_date TEXT NOT NULL,
		clock_in TEXT NOT NULL,
		clock_out TEXT,
		break_start TEXT,
		break_end TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_segments_employee_date
		ON clock_segments(employee_id, work_date);

	-- At most one open segment per employee, enforced at the storage
	-- boundary as well as in the clock service.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_segments_one_open
		ON clock_segments(employee_id) WHERE clock_out IS NULL;

	CREATE TABLE IF NOT EXISTS sales (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		client_name TEXT NOT NULL DEFAULT '',
		amount TEXT NOT NULL,
		broker_fee TEXT NOT NULL,
		policy_type TEXT NOT NULL,
		cross_sold_type TEXT NOT NULL DEFAULT '',
		is_cross_sold BOOLEAN NOT NULL DEFAULT FALSE,
		sale_date TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sales_employee_date
		ON sales(employee_id, sale_date);

	-- Append-only: overrides are new rows, never updates.
	CREATE TABLE IF NOT EXISTS sale_admin_bonuses (
		sale_id TEXT NOT NULL REFERENCES sales(id),
		seq INTEGER NOT NULL,
		amount TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (sale_id, seq)
	);

	CREATE TABLE IF NOT EXISTS employee_reviews (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		rating INTEGER NOT NULL,
		review_date TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reviews_employee_date
		ON employee_reviews(employee_id, review_date);

	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		sale_id TEXT NOT NULL REFERENCES sales(id),
		employee_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		admin_bonus TEXT NOT NULL DEFAULT '0',
		admin_notes TEXT NOT NULL DEFAULT '',
		period_index INTEGER NOT NULL,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		created_at TEXT NOT NULL,
		reviewed_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_notifications_status
		ON notifications(status);
	CREATE INDEX IF NOT EXISTS idx_notifications_employee
		ON notifications(employee_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES (payroll.EmployeeStore)
// =============================================================================

// SaveEmployee upserts an HR record. The engine itself never writes
// employees; this exists for seeding and admin tooling.
func (s *Store) SaveEmployee(ctx context.Context, e payroll.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, name, hourly_rate, daily_overtime_hours, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			hourly_rate = excluded.hourly_rate,
			daily_overtime_hours = excluded.daily_overtime_hours
	`

	_, err := s.db.ExecContext(ctx, query,
		string(e.ID), e.Name, e.HourlyRate.String(), e.DailyOvertimeHours,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *Store) GetEmployee(ctx context.Context, id payroll.EmployeeID) (*payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var e payroll.Employee
	var rate string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, hourly_rate, daily_overtime_hours FROM employees WHERE id = ?",
		string(id),
	).Scan(&e.ID, &e.Name, &rate, &e.DailyOvertimeHours)

	if err == sql.ErrNoRows {
		return nil, payroll.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	e.HourlyRate, err = parseDecimal(rate, "hourly_rate")
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, hourly_rate, daily_overtime_hours FROM employees ORDER BY id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []payroll.Employee
	for rows.Next() {
		var e payroll.Employee
		var rate string
		if err := rows.Scan(&e.ID, &e.Name, &rate, &e.DailyOvertimeHours); err != nil {
			return nil, err
		}
		if e.HourlyRate, err = parseDecimal(rate, "hourly_rate"); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// =============================================================================
// CLOCK SEGMENTS (timeclock.Store)
// =============================================================================

func (s *Store) InsertSegment(ctx context.Context, seg timeclock.Segment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO clock_segments
		(id, employee_id, work_date, clock_in, clock_out, break_start, break_end)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		seg.ID, string(seg.EmployeeID),
		seg.Date.Format(dateLayout),
		seg.ClockIn.UTC().Format(time.RFC3339),
		nullTime(seg.ClockOut), nullTime(seg.BreakStart), nullTime(seg.BreakEnd),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			if strings.Contains(err.Error(), "idx_segments_one_open") {
				return &payroll.ValidationError{Field: "employeeId", Reason: "employee already has an open segment"}
			}
			return &payroll.ValidationError{Field: "id", Reason: "duplicate segment id"}
		}
		return fmt.Errorf("failed to insert segment: %w", err)
	}
	return nil
}

func (s *Store) UpdateSegment(ctx context.Context, seg timeclock.Segment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		UPDATE clock_segments
		SET clock_out = ?, break_start = ?, break_end = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		nullTime(seg.ClockOut), nullTime(seg.BreakStart), nullTime(seg.BreakEnd), seg.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update segment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return payroll.ErrNotFound
	}
	return nil
}

func (s *Store) SegmentsByEmployeeAndRange(ctx context.Context, id payroll.EmployeeID, from, to time.Time) ([]timeclock.Segment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, work_date, clock_in, clock_out, break_start, break_end
		FROM clock_segments
		WHERE employee_id = ? AND work_date >= ? AND work_date <= ?
		ORDER BY clock_in ASC
	`

	rows, err := s.db.QueryContext(ctx, query,
		string(id), from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	var segments []timeclock.Segment
	for rows.Next() {
		seg, err := scanSegment(rows)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}

func (s *Store) OpenSegment(ctx context.Context, id payroll.EmployeeID) (*timeclock.Segment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, work_date, clock_in, clock_out, break_start, break_end
		FROM clock_segments
		WHERE employee_id = ? AND clock_out IS NULL
		LIMIT 1
	`

	rows, err := s.db.QueryContext(ctx, query, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	seg, err := scanSegment(rows)
	if err != nil {
		return nil, err
	}
	return &seg, nil
}

func scanSegment(rows *sql.Rows) (timeclock.Segment, error) {
	var seg timeclock.Segment
	var workDate, clockIn string
	var clockOut, breakStart, breakEnd sql.NullString

	err := rows.Scan(&seg.ID, &seg.EmployeeID, &workDate, &clockIn, &clockOut, &breakStart, &breakEnd)
	if err != nil {
		return seg, fmt.Errorf("failed to scan segment: %w", err)
	}

	seg.Date, _ = time.Parse(dateLayout, workDate)
	seg.ClockIn, _ = time.Parse(time.RFC3339, clockIn)
	seg.ClockOut = parseNullTime(clockOut)
	seg.BreakStart = parseNullTime(breakStart)
	seg.BreakEnd = parseNullTime(breakEnd)
	return seg, nil
}

// =============================================================================
// SALES (sales.SaleStore)
// =============================================================================

func (s *Store) InsertSale(ctx context.Context, rec sales.SaleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO sales
		(id, employee_id, client_name, amount, broker_fee, policy_type, cross_sold_type, is_cross_sold, sale_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, string(rec.EmployeeID), rec.ClientName,
		rec.Amount.String(), rec.BrokerFee.String(),
		rec.PolicyType, rec.CrossSoldType, rec.IsCrossSold,
		rec.SaleDate.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return &payroll.ValidationError{Field: "id", Reason: "duplicate sale id"}
		}
		return fmt.Errorf("failed to insert sale: %w", err)
	}
	return nil
}

func (s *Store) GetSale(ctx context.Context, id string) (*sales.SaleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, saleSelect+" WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, payroll.ErrNotFound
	}
	rec, err := scanSale(rows)
	if err != nil {
		return nil, err
	}
	if rec.AdminBonuses, err = s.adminBonuses(ctx, rec.ID); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) SalesByEmployeeAndRange(ctx context.Context, id payroll.EmployeeID, from, to time.Time) ([]sales.SaleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := saleSelect + `
		WHERE employee_id = ? AND sale_date >= ? AND sale_date <= ?
		ORDER BY sale_date ASC
	`

	rows, err := s.db.QueryContext(ctx, query,
		string(id), from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var records []sales.SaleRecord
	for rows.Next() {
		rec, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].AdminBonuses, err = s.adminBonuses(ctx, records[i].ID); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *Store) AppendAdminBonus(ctx context.Context, saleID string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sales WHERE id = ?", saleID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return payroll.ErrNotFound
	}

	query := `
		INSERT INTO sale_admin_bonuses (sale_id, seq, amount, created_at)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM sale_admin_bonuses WHERE sale_id = ?), ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		saleID, saleID, amount.String(), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to append admin bonus: %w", err)
	}
	return nil
}

const saleSelect = `
	SELECT id, employee_id, client_name, amount, broker_fee, policy_type, cross_sold_type, is_cross_sold, sale_date
	FROM sales`

func scanSale(rows *sql.Rows) (sales.SaleRecord, error) {
	var rec sales.SaleRecord
	var amount, brokerFee, saleDate string

	err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.ClientName, &amount, &brokerFee,
		&rec.PolicyType, &rec.CrossSoldType, &rec.IsCrossSold, &saleDate)
	if err != nil {
		return rec, fmt.Errorf("failed to scan sale: %w", err)
	}

	if rec.Amount, err = parseDecimal(amount, "amount"); err != nil {
		return rec, err
	}
	if rec.BrokerFee, err = parseDecimal(brokerFee, "broker_fee"); err != nil {
		return rec, err
	}
	rec.SaleDate, _ = time.Parse(time.RFC3339, saleDate)
	return rec, nil
}

func (s *Store) adminBonuses(ctx context.Context, saleID string) ([]decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT amount FROM sale_admin_bonuses WHERE sale_id = ? ORDER BY seq ASC", saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bonuses []decimal.Decimal
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		amount, err := parseDecimal(raw, "admin_bonus")
		if err != nil {
			return nil, err
		}
		bonuses = append(bonuses, amount)
	}
	return bonuses, rows.Err()
}

// =============================================================================
// CUSTOMER REVIEWS (sales.ReviewStore)
// =============================================================================

func (s *Store) InsertReview(ctx context.Context, r sales.ReviewRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO employee_reviews (id, employee_id, rating, review_date) VALUES (?, ?, ?, ?)",
		r.ID, string(r.EmployeeID), r.Rating, r.ReviewDate.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return &payroll.ValidationError{Field: "id", Reason: "duplicate review id"}
		}
		return fmt.Errorf("failed to insert review: %w", err)
	}
	return nil
}

func (s *Store) ReviewsByEmployeeAndRange(ctx context.Context, id payroll.EmployeeID, from, to time.Time) ([]sales.ReviewRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, rating, review_date
		FROM employee_reviews
		WHERE employee_id = ? AND review_date >= ? AND review_date <= ?
		ORDER BY review_date ASC
	`

	rows, err := s.db.QueryContext(ctx, query,
		string(id), from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []sales.ReviewRecord
	for rows.Next() {
		var r sales.ReviewRecord
		var reviewDate string
		if err := rows.Scan(&r.ID, &r.EmployeeID, &r.Rating, &reviewDate); err != nil {
			return nil, err
		}
		r.ReviewDate, _ = time.Parse(time.RFC3339, reviewDate)
		records = append(records, r)
	}
	return records, rows.Err()
}

// =============================================================================
// NOTIFICATIONS (review.NotificationStore)
// =============================================================================

func (s *Store) InsertNotification(ctx context.Context, n review.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO notifications
		(id, sale_id, employee_id, status, admin_bonus, admin_notes,
		 period_index, period_start, period_end, created_at, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		n.ID, n.SaleID, string(n.EmployeeID), string(n.Status),
		n.AdminBonus.String(), n.AdminNotes,
		n.PeriodIndex,
		n.PeriodStart.UTC().Format(time.RFC3339), n.PeriodEnd.UTC().Format(time.RFC3339),
		n.CreatedAt.UTC().Format(time.RFC3339), nullTime(n.ReviewedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return &payroll.ValidationError{Field: "id", Reason: "duplicate notification id"}
		}
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (s *Store) UpdateNotification(ctx context.Context, n review.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		UPDATE notifications
		SET status = ?, admin_bonus = ?, admin_notes = ?, reviewed_at = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		string(n.Status), n.AdminBonus.String(), n.AdminNotes, nullTime(n.ReviewedAt), n.ID)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return payroll.ErrNotFound
	}
	return nil
}

func (s *Store) GetNotification(ctx context.Context, id string) (*review.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, notificationSelect+" WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	n, err := scanNotification(rows)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Store) NotificationsByStatus(ctx context.Context, status review.Status) ([]review.Notification, error) {
	return s.queryNotifications(ctx,
		notificationSelect+" WHERE status = ? ORDER BY created_at ASC", string(status))
}

func (s *Store) NotificationsByEmployee(ctx context.Context, id payroll.EmployeeID) ([]review.Notification, error) {
	return s.queryNotifications(ctx,
		notificationSelect+" WHERE employee_id = ? ORDER BY created_at ASC", string(id))
}

func (s *Store) queryNotifications(ctx context.Context, query string, args ...any) ([]review.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var list []review.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

const notificationSelect = `
	SELECT id, sale_id, employee_id, status, admin_bonus, admin_notes,
	       period_index, period_start, period_end, created_at, reviewed_at
	FROM notifications`

func scanNotification(rows *sql.Rows) (review.Notification, error) {
	var n review.Notification
	var status, adminBonus string
	var periodStart, periodEnd, createdAt string
	var reviewedAt sql.NullString

	err := rows.Scan(&n.ID, &n.SaleID, &n.EmployeeID, &status, &adminBonus, &n.AdminNotes,
		&n.PeriodIndex, &periodStart, &periodEnd, &createdAt, &reviewedAt)
	if err != nil {
		return n, fmt.Errorf("failed to scan notification: %w", err)
	}

	// The status column is parsed back through the closed enum so an
	// unmodeled tag surfaces as an error, never as a silent new state.
	if n.Status, err = review.ParseStatus(status); err != nil {
		return n, err
	}
	if n.AdminBonus, err = parseDecimal(adminBonus, "admin_bonus"); err != nil {
		return n, err
	}
	n.PeriodStart, _ = time.Parse(time.RFC3339, periodStart)
	n.PeriodEnd, _ = time.Parse(time.RFC3339, periodEnd)
	n.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	n.ReviewedAt = parseNullTime(reviewedAt)
	return n, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"sale_admin_bonuses", "notifications", "sales", "employee_reviews", "clock_segments", "employees"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func parseDecimal(raw, column string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt %s value %q: %w", column, raw, err)
	}
	return d, nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
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
