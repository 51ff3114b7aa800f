package storage

import "context"

// TypeDistribution returns the report count per incident type. Ties break
// alphabetically so ordering matches the in-memory backend.
func (s *SQLiteStore) TypeDistribution(ctx context.Context) ([]TypeCount, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT type, COUNT(*) AS cnt FROM reports GROUP BY type ORDER BY cnt DESC, type",
	)
	if err != nil {
		return nil, &ReadError{Collection: "reports", Op: "type distribution", Err: err}
	}
	defer rows.Close()

	var counts []TypeCount
	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.Type, &tc.Count); err != nil {
			return nil, &ReadError{Collection: "reports", Op: "type distribution", Err: err}
		}
		counts = append(counts, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, &ReadError{Collection: "reports", Op: "type distribution", Err: err}
	}

	if counts == nil {
		counts = []TypeCount{}
	}
	return counts, nil
}

// LocationDistribution returns the top locations by report count.
func (s *SQLiteStore) LocationDistribution(ctx context.Context, limit int) ([]LocationCount, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT location, COUNT(*) AS cnt FROM reports GROUP BY location ORDER BY cnt DESC, location LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, &ReadError{Collection: "reports", Op: "location distribution", Err: err}
	}
	defer rows.Close()

	var counts []LocationCount
	for rows.Next() {
		var lc LocationCount
		if err := rows.Scan(&lc.Location, &lc.Count); err != nil {
			return nil, &ReadError{Collection: "reports", Op: "location distribution", Err: err}
		}
		counts = append(counts, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, &ReadError{Collection: "reports", Op: "location distribution", Err: err}
	}

	if counts == nil {
		counts = []LocationCount{}
	}
	return counts, nil
}

// ReportsOverTime returns the report count per calendar date, ascending.
func (s *SQLiteStore) ReportsOverTime(ctx context.Context) ([]DateCount, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT date, COUNT(*) AS cnt FROM reports GROUP BY date ORDER BY date ASC",
	)
	if err != nil {
		return nil, &ReadError{Collection: "reports", Op: "reports over time", Err: err}
	}
	defer rows.Close()

	var counts []DateCount
	for rows.Next() {
		var dc DateCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, &ReadError{Collection: "reports", Op: "reports over time", Err: err}
		}
		counts = append(counts, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, &ReadError{Collection: "reports", Op: "reports over time", Err: err}
	}

	if counts == nil {
		counts = []DateCount{}
	}
	return counts, nil
}

// GetStats returns aggregate totals for the status view.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	counts := []struct {
		query string
		dest  *int64
	}{
		{"SELECT COUNT(*) FROM reports", &stats.TotalReports},
		{"SELECT COUNT(*) FROM records", &stats.TotalRecords},
		{"SELECT COUNT(*) FROM contacts", &stats.TotalContacts},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, &ReadError{Collection: "all", Op: "stats", Err: err}
		}
	}

	// Oldest and newest (handle empty DB)
	if stats.TotalReports > 0 {
		var oldest, newest string
		err := s.db.QueryRowContext(ctx,
			"SELECT MIN(created_at), MAX(created_at) FROM reports",
		).Scan(&oldest, &newest)
		if err != nil {
			return nil, &ReadError{Collection: "reports", Op: "stats", Err: err}
		}
		stats.OldestReport, _ = parseTimestamp(oldest)
		stats.NewestReport, _ = parseTimestamp(newest)
	}

	return stats, nil
}
