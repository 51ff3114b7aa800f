package server

import (
	"context"

	"github.com/crimesense/crimesense/internal/repo"
	"github.com/crimesense/crimesense/internal/storage"
)

// Backend is the data surface the HTTP handlers run against. The SQLite
// repository and the in-memory mirror both satisfy it, so either store can
// serve the same consumer logic.
type Backend interface {
	SaveReport(ctx context.Context, in repo.ReportInput) (int64, error)
	ListReports(ctx context.Context, filter storage.ReportFilter) []storage.Report
	GetReportByID(ctx context.Context, id int64) (*storage.Report, error)
	DeleteReport(ctx context.Context, id int64) error

	SaveRecord(ctx context.Context, in repo.RecordInput) (int64, error)
	ListRecords(ctx context.Context, search string) []storage.Record
	DeleteRecord(ctx context.Context, id int64) error

	SaveContact(ctx context.Context, in repo.ContactInput) (int64, error)

	TypeDistribution(ctx context.Context) ([]storage.TypeCount, error)
	LocationDistribution(ctx context.Context, limit int) ([]storage.LocationCount, error)
	ReportsOverTime(ctx context.Context) ([]storage.DateCount, error)

	ClearAllData(ctx context.Context) error
}
