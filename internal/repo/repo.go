// Package repo is the typed CRUD surface over the local store: it fills
// defaults, normalizes dates, and publishes a change notification after
// every mutation.
package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/crimesense/crimesense/internal/dates"
	"github.com/crimesense/crimesense/internal/notify"
	"github.com/crimesense/crimesense/internal/storage"
)

// ReportInput is the caller-supplied shape of a new report. Required fields
// (location, type, description) are validated by the caller; the repository
// substitutes defaults for anything missing rather than failing.
type ReportInput struct {
	Name        string
	Contact     string
	Location    string
	Type        string
	Date        string
	Time        string
	Description string
}

// RecordInput is the caller-supplied shape of a new police record.
type RecordInput struct {
	Name              string
	Alias             string
	CrimeType         string
	RiskLevel         string
	LastKnownLocation string
	Notes             string
}

// ContactInput is the caller-supplied shape of a contact message.
type ContactInput struct {
	Name    string
	Email   string
	Message string
}

// Repository owns no durable state beyond a handle to the store. The store
// opens lazily on first use; the open is memoized so concurrent first calls
// cannot race the migration step.
type Repository struct {
	dbPath   string
	notifier *notify.Notifier
	log      *logrus.Logger

	openOnce sync.Once
	db       *sql.DB
	store    *storage.SQLiteStore
	openErr  error
}

// New creates a Repository for the database at dbPath. Nothing is opened
// until the first operation.
func New(dbPath string, notifier *notify.Notifier, log *logrus.Logger) *Repository {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if notifier == nil {
		notifier = notify.NewNotifier(notify.NewBus(), nil, log)
	}
	return &Repository{dbPath: dbPath, notifier: notifier, log: log}
}

// Notifier exposes the change notification channel so views can subscribe.
func (r *Repository) Notifier() *notify.Notifier { return r.notifier }

// open returns the ready store, opening and migrating the database exactly
// once per Repository.
func (r *Repository) open() (*storage.SQLiteStore, error) {
	r.openOnce.Do(func() {
		dir := filepath.Dir(r.dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			r.openErr = &storage.StorageUnavailableError{Err: fmt.Errorf("create database directory: %w", err)}
			return
		}

		db, err := sql.Open("sqlite3", r.dbPath+"?_foreign_keys=on")
		if err != nil {
			r.openErr = &storage.StorageUnavailableError{Err: fmt.Errorf("open database: %w", err)}
			return
		}

		runner := storage.NewMigrationRunner(db, r.log)
		if err := runner.Run(); err != nil {
			db.Close()
			r.openErr = err
			return
		}

		store, err := storage.NewSQLiteStore(db)
		if err != nil {
			db.Close()
			r.openErr = &storage.StorageUnavailableError{Err: err}
			return
		}

		r.db = db
		r.store = store
	})

	store, err := r.store, r.openErr
	if store == nil && err == nil {
		// Close won the once before any operation ran.
		err = &storage.StorageUnavailableError{Err: errors.New("repository closed")}
	}
	return store, err
}

// Close releases the store and the underlying database handle. Safe against
// a concurrent first operation: it synchronizes on the same once as open, so
// it never observes a half-initialized store.
func (r *Repository) Close() error {
	r.openOnce.Do(func() {})

	if r.store != nil {
		r.store.Close()
	}
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// NewReportFromInput fills defaults, normalizes the date, and stamps the
// creation time. Shared with the in-memory HTTP backend so both stores
// persist identical shapes.
func NewReportFromInput(in ReportInput, now time.Time) storage.Report {
	return storage.Report{
		Name:        orDefault(in.Name, "Anonymous"),
		Contact:     orDefault(in.Contact, "Not provided"),
		Location:    orDefault(in.Location, "Unknown"),
		Type:        orDefault(in.Type, "Other"),
		Date:        dates.NormalizeAt(in.Date, now),
		Time:        orDefault(in.Time, "00:00"),
		Description: orDefault(in.Description, "No description"),
		Status:      storage.StatusPending,
		CreatedAt:   now.UTC(),
	}
}

// NewRecordFromInput fills record defaults. Optional fields stay nil when
// absent.
func NewRecordFromInput(in RecordInput, now time.Time) storage.Record {
	return storage.Record{
		Name:              orDefault(in.Name, "Unknown"),
		Alias:             orNil(in.Alias),
		CrimeType:         orDefault(in.CrimeType, "Other"),
		RiskLevel:         orDefault(in.RiskLevel, storage.RiskMedium),
		LastKnownLocation: orNil(in.LastKnownLocation),
		Notes:             orNil(in.Notes),
		CreatedAt:         now.UTC(),
	}
}

// NewContactFromInput fills contact defaults.
func NewContactFromInput(in ContactInput, now time.Time) storage.Contact {
	return storage.Contact{
		Name:      orDefault(in.Name, "Anonymous"),
		Email:     orDefault(in.Email, "No email"),
		Message:   orDefault(in.Message, "No message"),
		CreatedAt: now.UTC(),
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func orNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// SaveReport persists a new report and returns its identifier. Subscribers
// registered on the reports topic at call time are notified before or
// concurrently with the return.
func (r *Repository) SaveReport(ctx context.Context, in ReportInput) (int64, error) {
	store, err := r.open()
	if err != nil {
		return 0, err
	}

	report := NewReportFromInput(in, time.Now())
	id, err := store.AddReport(ctx, &report)
	if err != nil {
		return 0, err
	}

	r.notifier.Publish(notify.TopicReports)
	return id, nil
}

// GetAllReports returns every report. Read failures are logged and coalesce
// into an empty slice, so an empty result means "no data or recoverable
// read failure", not proof of an empty collection.
func (r *Repository) GetAllReports(ctx context.Context) []storage.Report {
	store, err := r.open()
	if err != nil {
		r.log.WithError(err).Error("get all reports")
		return []storage.Report{}
	}

	reports, err := store.GetAllReports(ctx)
	if err != nil {
		r.log.WithError(err).Error("get all reports")
		return []storage.Report{}
	}
	return reports
}

// ListReports returns filtered reports, newest first, with the same
// empty-on-failure contract as GetAllReports.
func (r *Repository) ListReports(ctx context.Context, filter storage.ReportFilter) []storage.Report {
	store, err := r.open()
	if err != nil {
		r.log.WithError(err).Error("list reports")
		return []storage.Report{}
	}

	reports, err := store.ListReports(ctx, filter)
	if err != nil {
		r.log.WithError(err).Error("list reports")
		return []storage.Report{}
	}
	return reports
}

// GetReportByID returns the report or nil when absent. Engine failures are
// returned as errors; absence is not one.
func (r *Repository) GetReportByID(ctx context.Context, id int64) (*storage.Report, error) {
	store, err := r.open()
	if err != nil {
		return nil, err
	}

	report, err := store.GetReportByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return report, err
}

// DeleteReport removes a report unconditionally; authorization is the
// caller's concern. Publishes the reports topic on success, including when
// the id was already absent.
func (r *Repository) DeleteReport(ctx context.Context, id int64) error {
	store, err := r.open()
	if err != nil {
		return err
	}

	if err := store.DeleteReport(ctx, id); err != nil {
		return err
	}

	r.notifier.Publish(notify.TopicReports)
	return nil
}

// SaveRecord persists a new police record. Publishes only the records
// topic; collections do not cross-talk.
func (r *Repository) SaveRecord(ctx context.Context, in RecordInput) (int64, error) {
	store, err := r.open()
	if err != nil {
		return 0, err
	}

	record := NewRecordFromInput(in, time.Now())
	id, err := store.AddRecord(ctx, &record)
	if err != nil {
		return 0, err
	}

	r.notifier.Publish(notify.TopicRecords)
	return id, nil
}

// GetAllRecords returns every record with the empty-on-failure contract.
func (r *Repository) GetAllRecords(ctx context.Context) []storage.Record {
	store, err := r.open()
	if err != nil {
		r.log.WithError(err).Error("get all records")
		return []storage.Record{}
	}

	records, err := store.GetAllRecords(ctx)
	if err != nil {
		r.log.WithError(err).Error("get all records")
		return []storage.Record{}
	}
	return records
}

// ListRecords returns records matching the search term, newest first.
func (r *Repository) ListRecords(ctx context.Context, search string) []storage.Record {
	store, err := r.open()
	if err != nil {
		r.log.WithError(err).Error("list records")
		return []storage.Record{}
	}

	records, err := store.ListRecords(ctx, search)
	if err != nil {
		r.log.WithError(err).Error("list records")
		return []storage.Record{}
	}
	return records
}

// DeleteRecord removes a record and publishes the records topic.
func (r *Repository) DeleteRecord(ctx context.Context, id int64) error {
	store, err := r.open()
	if err != nil {
		return err
	}

	if err := store.DeleteRecord(ctx, id); err != nil {
		return err
	}

	r.notifier.Publish(notify.TopicRecords)
	return nil
}

// SaveContact persists a contact message and publishes the contacts topic.
func (r *Repository) SaveContact(ctx context.Context, in ContactInput) (int64, error) {
	store, err := r.open()
	if err != nil {
		return 0, err
	}

	contact := NewContactFromInput(in, time.Now())
	id, err := store.AddContact(ctx, &contact)
	if err != nil {
		return 0, err
	}

	r.notifier.Publish(notify.TopicContacts)
	return id, nil
}

// ClearAllData clears all three collections, then publishes a single
// reports-topic notification covering the reset.
func (r *Repository) ClearAllData(ctx context.Context) error {
	store, err := r.open()
	if err != nil {
		return err
	}

	if err := store.ClearReports(ctx); err != nil {
		return err
	}
	if err := store.ClearRecords(ctx); err != nil {
		return err
	}
	if err := store.ClearContacts(ctx); err != nil {
		return err
	}

	r.notifier.Publish(notify.TopicReports)
	return nil
}

// TypeDistribution returns report counts per incident type.
func (r *Repository) TypeDistribution(ctx context.Context) ([]storage.TypeCount, error) {
	store, err := r.open()
	if err != nil {
		return nil, err
	}
	return store.TypeDistribution(ctx)
}

// LocationDistribution returns the top locations by report count.
func (r *Repository) LocationDistribution(ctx context.Context, limit int) ([]storage.LocationCount, error) {
	store, err := r.open()
	if err != nil {
		return nil, err
	}
	return store.LocationDistribution(ctx, limit)
}

// ReportsOverTime returns report counts per date, ascending.
func (r *Repository) ReportsOverTime(ctx context.Context) ([]storage.DateCount, error) {
	store, err := r.open()
	if err != nil {
		return nil, err
	}
	return store.ReportsOverTime(ctx)
}

// Stats returns aggregate totals.
func (r *Repository) Stats(ctx context.Context) (*storage.Stats, error) {
	store, err := r.open()
	if err != nil {
		return nil, err
	}
	return store.GetStats(ctx)
}
