package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Store defines the persistence interface for CrimeSense data. All writes
// are serialized by the engine; identifiers are assigned by the store,
// unique per collection, and never reused.
type Store interface {
	AddReport(ctx context.Context, report *Report) (int64, error)
	GetAllReports(ctx context.Context) ([]Report, error)
	ListReports(ctx context.Context, filter ReportFilter) ([]Report, error)
	GetReportByID(ctx context.Context, id int64) (*Report, error)
	DeleteReport(ctx context.Context, id int64) error
	ClearReports(ctx context.Context) error

	AddRecord(ctx context.Context, record *Record) (int64, error)
	GetAllRecords(ctx context.Context) ([]Record, error)
	ListRecords(ctx context.Context, search string) ([]Record, error)
	DeleteRecord(ctx context.Context, id int64) error
	ClearRecords(ctx context.Context) error

	AddContact(ctx context.Context, contact *Contact) (int64, error)
	ClearContacts(ctx context.Context) error

	TypeDistribution(ctx context.Context) ([]TypeCount, error)
	LocationDistribution(ctx context.Context, limit int) ([]LocationCount, error)
	ReportsOverTime(ctx context.Context) ([]DateCount, error)
	GetStats(ctx context.Context) (*Stats, error)

	Close() error
}

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	// Prepared statements
	insertReport  *sql.Stmt
	insertRecord  *sql.Stmt
	insertContact *sql.Stmt
	getReport     *sql.Stmt
	deleteReport  *sql.Stmt
	deleteRecord  *sql.Stmt
}

// NewSQLiteStore creates a SQLiteStore from an already-opened and migrated
// database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.insertReport, err = s.db.Prepare(`
		INSERT INTO reports (name, contact, location, type, date, time, description, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}

	s.insertRecord, err = s.db.Prepare(`
		INSERT INTO records (name, alias, crime_type, risk_level, last_known_location, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}

	s.insertContact, err = s.db.Prepare(`
		INSERT INTO contacts (name, email, message, created_at)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}

	s.getReport, err = s.db.Prepare(`
		SELECT id, name, contact, location, type, date, time, description, status, created_at
		FROM reports WHERE id = ?
	`)
	if err != nil {
		return err
	}

	s.deleteReport, err = s.db.Prepare(`DELETE FROM reports WHERE id = ?`)
	if err != nil {
		return err
	}

	s.deleteRecord, err = s.db.Prepare(`DELETE FROM records WHERE id = ?`)
	if err != nil {
		return err
	}

	return nil
}

// parseTimestamp tries the common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}

// nullable converts a *string to its sql driver value.
func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNull converts a sql.NullString back to a *string.
func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

// AddReport inserts a report and returns its assigned identifier. The
// report's ID field is populated on success. A zero CreatedAt is stamped
// with the current time.
func (s *SQLiteStore) AddReport(ctx context.Context, report *Report) (int64, error) {
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}

	res, err := s.insertReport.ExecContext(ctx,
		report.Name, report.Contact, report.Location, report.Type,
		report.Date, report.Time, report.Description, report.Status,
		report.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, &WriteError{Collection: "reports", Op: "add", Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, &WriteError{Collection: "reports", Op: "add", Err: err}
	}
	report.ID = id

	return id, nil
}

// GetAllReports returns every report, unordered as stored. Ordering is a
// repository-level concern.
func (s *SQLiteStore) GetAllReports(ctx context.Context) ([]Report, error) {
	return s.scanReports(ctx, `
		SELECT id, name, contact, location, type, date, time, description, status, created_at
		FROM reports
	`)
}

// ListReports returns reports matching the filter, newest first.
func (s *SQLiteStore) ListReports(ctx context.Context, filter ReportFilter) ([]Report, error) {
	var clauses []string
	var args []interface{}

	if filter.Type != "" {
		clauses = append(clauses, "type = ?")
		args = append(args, filter.Type)
	}
	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		clauses = append(clauses, "(LOWER(location) LIKE ? OR LOWER(description) LIKE ? OR LOWER(type) LIKE ?)")
		args = append(args, term, term, term)
	}

	query := `
		SELECT id, name, contact, location, type, date, time, description, status, created_at
		FROM reports
	`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	return s.scanReports(ctx, query, args...)
}

// scanReports executes a query and scans the results into Report slices.
func (s *SQLiteStore) scanReports(ctx context.Context, query string, args ...interface{}) ([]Report, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &ReadError{Collection: "reports", Op: "query", Err: err}
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var r Report
		var createdAt string
		if err := rows.Scan(
			&r.ID, &r.Name, &r.Contact, &r.Location, &r.Type,
			&r.Date, &r.Time, &r.Description, &r.Status, &createdAt,
		); err != nil {
			return nil, &ReadError{Collection: "reports", Op: "scan", Err: err}
		}
		r.CreatedAt, _ = parseTimestamp(createdAt)
		reports = append(reports, r)
	}

	if err := rows.Err(); err != nil {
		return nil, &ReadError{Collection: "reports", Op: "scan", Err: err}
	}

	// Return empty slice rather than nil
	if reports == nil {
		reports = []Report{}
	}

	return reports, nil
}

// GetReportByID retrieves a single report. Returns ErrNotFound when absent,
// which callers must distinguish from an engine failure.
func (s *SQLiteStore) GetReportByID(ctx context.Context, id int64) (*Report, error) {
	var r Report
	var createdAt string

	err := s.getReport.QueryRowContext(ctx, id).Scan(
		&r.ID, &r.Name, &r.Contact, &r.Location, &r.Type,
		&r.Date, &r.Time, &r.Description, &r.Status, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, &ReadError{Collection: "reports", Op: "get", Err: err}
	}
	r.CreatedAt, _ = parseTimestamp(createdAt)

	return &r, nil
}

// DeleteReport removes a report if present. Deleting an absent id is a
// no-op, not an error.
func (s *SQLiteStore) DeleteReport(ctx context.Context, id int64) error {
	if _, err := s.deleteReport.ExecContext(ctx, id); err != nil {
		return &WriteError{Collection: "reports", Op: "delete", Err: err}
	}
	return nil
}

// ClearReports removes every report. Used only by the bulk reset.
func (s *SQLiteStore) ClearReports(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM reports"); err != nil {
		return &WriteError{Collection: "reports", Op: "clear", Err: err}
	}
	return nil
}

// AddRecord inserts a record and returns its assigned identifier.
func (s *SQLiteStore) AddRecord(ctx context.Context, record *Record) (int64, error) {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	res, err := s.insertRecord.ExecContext(ctx,
		record.Name, nullable(record.Alias), record.CrimeType, record.RiskLevel,
		nullable(record.LastKnownLocation), nullable(record.Notes),
		record.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, &WriteError{Collection: "records", Op: "add", Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, &WriteError{Collection: "records", Op: "add", Err: err}
	}
	record.ID = id

	return id, nil
}

// GetAllRecords returns every record, unordered as stored.
func (s *SQLiteStore) GetAllRecords(ctx context.Context) ([]Record, error) {
	return s.scanRecords(ctx, `
		SELECT id, name, alias, crime_type, risk_level, last_known_location, notes, created_at
		FROM records
	`)
}

// ListRecords returns records matching the search term, newest first. The
// term matches name, alias, crime type, and last known location.
func (s *SQLiteStore) ListRecords(ctx context.Context, search string) ([]Record, error) {
	query := `
		SELECT id, name, alias, crime_type, risk_level, last_known_location, notes, created_at
		FROM records
	`
	var args []interface{}
	if search != "" {
		term := "%" + strings.ToLower(search) + "%"
		query += ` WHERE LOWER(name) LIKE ? OR LOWER(IFNULL(alias, '')) LIKE ?
			OR LOWER(crime_type) LIKE ? OR LOWER(IFNULL(last_known_location, '')) LIKE ?`
		args = append(args, term, term, term, term)
	}
	query += " ORDER BY created_at DESC, id DESC"

	return s.scanRecords(ctx, query, args...)
}

func (s *SQLiteStore) scanRecords(ctx context.Context, query string, args ...interface{}) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &ReadError{Collection: "records", Op: "query", Err: err}
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var alias, lastLoc, notes sql.NullString
		var createdAt string
		if err := rows.Scan(
			&r.ID, &r.Name, &alias, &r.CrimeType, &r.RiskLevel,
			&lastLoc, &notes, &createdAt,
		); err != nil {
			return nil, &ReadError{Collection: "records", Op: "scan", Err: err}
		}
		r.Alias = fromNull(alias)
		r.LastKnownLocation = fromNull(lastLoc)
		r.Notes = fromNull(notes)
		r.CreatedAt, _ = parseTimestamp(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, &ReadError{Collection: "records", Op: "scan", Err: err}
	}

	if records == nil {
		records = []Record{}
	}

	return records, nil
}

// DeleteRecord removes a record if present. Idempotent like DeleteReport.
func (s *SQLiteStore) DeleteRecord(ctx context.Context, id int64) error {
	if _, err := s.deleteRecord.ExecContext(ctx, id); err != nil {
		return &WriteError{Collection: "records", Op: "delete", Err: err}
	}
	return nil
}

// ClearRecords removes every record.
func (s *SQLiteStore) ClearRecords(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM records"); err != nil {
		return &WriteError{Collection: "records", Op: "clear", Err: err}
	}
	return nil
}

// AddContact inserts a contact message and returns its assigned identifier.
func (s *SQLiteStore) AddContact(ctx context.Context, contact *Contact) (int64, error) {
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = time.Now()
	}

	res, err := s.insertContact.ExecContext(ctx,
		contact.Name, contact.Email, contact.Message,
		contact.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, &WriteError{Collection: "contacts", Op: "add", Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, &WriteError{Collection: "contacts", Op: "add", Err: err}
	}
	contact.ID = id

	return id, nil
}

// ClearContacts removes every contact message.
func (s *SQLiteStore) ClearContacts(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM contacts"); err != nil {
		return &WriteError{Collection: "contacts", Op: "clear", Err: err}
	}
	return nil
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{
		s.insertReport, s.insertRecord, s.insertContact,
		s.getReport, s.deleteReport, s.deleteRecord,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
