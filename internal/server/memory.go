package server

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/crimesense/crimesense/internal/notify"
	"github.com/crimesense/crimesense/internal/repo"
	"github.com/crimesense/crimesense/internal/storage"
)

// MemoryBackend is the in-memory mirror backend: plain arrays guarded by a
// mutex, with the same default-filling, filtering, and notification
// semantics as the SQLite repository. State does not survive a restart.
type MemoryBackend struct {
	mu       sync.Mutex
	reports  []storage.Report
	records  []storage.Record
	contacts []storage.Contact

	nextReportID  int64
	nextRecordID  int64
	nextContactID int64

	notifier *notify.Notifier
}

// NewMemoryBackend creates an empty in-memory backend. The notifier may be
// nil when no view needs change signals.
func NewMemoryBackend(notifier *notify.Notifier) *MemoryBackend {
	return &MemoryBackend{
		nextReportID:  1,
		nextRecordID:  1,
		nextContactID: 1,
		notifier:      notifier,
	}
}

func (m *MemoryBackend) publish(topic notify.Topic) {
	if m.notifier != nil {
		m.notifier.Publish(topic)
	}
}

// SaveReport appends a default-filled report and returns its identifier.
func (m *MemoryBackend) SaveReport(_ context.Context, in repo.ReportInput) (int64, error) {
	m.mu.Lock()
	report := repo.NewReportFromInput(in, time.Now())
	report.ID = m.nextReportID
	m.nextReportID++
	m.reports = append(m.reports, report)
	m.mu.Unlock()

	m.publish(notify.TopicReports)
	return report.ID, nil
}

// ListReports returns filtered reports, newest first.
func (m *MemoryBackend) ListReports(_ context.Context, filter storage.ReportFilter) []storage.Report {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]storage.Report, 0, len(m.reports))
	term := strings.ToLower(filter.Search)
	for _, r := range m.reports {
		if filter.Type != "" && r.Type != filter.Type {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(r.Location), term) &&
			!strings.Contains(strings.ToLower(r.Description), term) &&
			!strings.Contains(strings.ToLower(r.Type), term) {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// GetReportByID returns the report or nil when absent.
func (m *MemoryBackend) GetReportByID(_ context.Context, id int64) (*storage.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.reports {
		if m.reports[i].ID == id {
			r := m.reports[i]
			return &r, nil
		}
	}
	return nil, nil
}

// DeleteReport removes a report if present; deleting an absent id is a
// no-op.
func (m *MemoryBackend) DeleteReport(_ context.Context, id int64) error {
	m.mu.Lock()
	for i := range m.reports {
		if m.reports[i].ID == id {
			m.reports = append(m.reports[:i], m.reports[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	m.publish(notify.TopicReports)
	return nil
}

// SaveRecord appends a default-filled record.
func (m *MemoryBackend) SaveRecord(_ context.Context, in repo.RecordInput) (int64, error) {
	m.mu.Lock()
	record := repo.NewRecordFromInput(in, time.Now())
	record.ID = m.nextRecordID
	m.nextRecordID++
	m.records = append(m.records, record)
	m.mu.Unlock()

	m.publish(notify.TopicRecords)
	return record.ID, nil
}

// ListRecords returns records matching the search term, newest first.
func (m *MemoryBackend) ListRecords(_ context.Context, search string) []storage.Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	term := strings.ToLower(search)
	out := make([]storage.Record, 0, len(m.records))
	for _, r := range m.records {
		if term != "" && !recordMatches(r, term) {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func recordMatches(r storage.Record, term string) bool {
	if strings.Contains(strings.ToLower(r.Name), term) {
		return true
	}
	if r.Alias != nil && strings.Contains(strings.ToLower(*r.Alias), term) {
		return true
	}
	if strings.Contains(strings.ToLower(r.CrimeType), term) {
		return true
	}
	if r.LastKnownLocation != nil && strings.Contains(strings.ToLower(*r.LastKnownLocation), term) {
		return true
	}
	return false
}

// DeleteRecord removes a record if present.
func (m *MemoryBackend) DeleteRecord(_ context.Context, id int64) error {
	m.mu.Lock()
	for i := range m.records {
		if m.records[i].ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	m.publish(notify.TopicRecords)
	return nil
}

// SaveContact appends a contact message.
func (m *MemoryBackend) SaveContact(_ context.Context, in repo.ContactInput) (int64, error) {
	m.mu.Lock()
	contact := repo.NewContactFromInput(in, time.Now())
	contact.ID = m.nextContactID
	m.nextContactID++
	m.contacts = append(m.contacts, contact)
	m.mu.Unlock()

	m.publish(notify.TopicContacts)
	return contact.ID, nil
}

// TypeDistribution counts reports per incident type.
func (m *MemoryBackend) TypeDistribution(_ context.Context) ([]storage.TypeCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := make(map[string]int64)
	for _, r := range m.reports {
		counts[r.Type]++
	}

	out := make([]storage.TypeCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, storage.TypeCount{Type: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Type < out[j].Type
		}
		return out[i].Count > out[j].Count
	})
	return out, nil
}

// LocationDistribution counts reports per location, top N by count.
func (m *MemoryBackend) LocationDistribution(_ context.Context, limit int) ([]storage.LocationCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit <= 0 {
		limit = topLocations
	}

	counts := make(map[string]int64)
	for _, r := range m.reports {
		counts[r.Location]++
	}

	out := make([]storage.LocationCount, 0, len(counts))
	for l, n := range counts {
		out = append(out, storage.LocationCount{Location: l, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Location < out[j].Location
		}
		return out[i].Count > out[j].Count
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ReportsOverTime counts reports per date, ascending.
func (m *MemoryBackend) ReportsOverTime(_ context.Context) ([]storage.DateCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := make(map[string]int64)
	for _, r := range m.reports {
		counts[r.Date]++
	}

	out := make([]storage.DateCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, storage.DateCount{Date: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// ClearAllData resets every collection. Identifier counters keep advancing
// so ids are never reused.
func (m *MemoryBackend) ClearAllData(_ context.Context) error {
	m.mu.Lock()
	m.reports = nil
	m.records = nil
	m.contacts = nil
	m.mu.Unlock()

	m.publish(notify.TopicReports)
	return nil
}
