package storage

import "time"

// Report statuses. New reports always start as Pending.
const (
	StatusPending            = "Pending"
	StatusUnderInvestigation = "Under Investigation"
	StatusResolved           = "Resolved"
)

// Record risk levels.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// Report is a single incident report submitted by a user.
type Report struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Contact     string    `json:"contact"`
	Location    string    `json:"location"`
	Type        string    `json:"type"`
	Date        string    `json:"date"` // canonical yyyy-mm-dd
	Time        string    `json:"time"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Record is a person-of-interest entry in the police records list.
type Record struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Alias             *string   `json:"alias"`
	CrimeType         string    `json:"crime_type"`
	RiskLevel         string    `json:"risk_level"`
	LastKnownLocation *string   `json:"last_known_location"`
	Notes             *string   `json:"notes"`
	CreatedAt         time.Time `json:"created_at"`
}

// Contact is a message submitted through the contact form. Write-only from
// the application's perspective.
type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ReportFilter narrows ListReports. Type matches exactly; Search is a
// case-insensitive substring match over location, description, and type.
type ReportFilter struct {
	Type   string
	Search string
}

// TypeCount pairs an incident type with its report count.
type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// LocationCount pairs a location with its report count.
type LocationCount struct {
	Location string `json:"location"`
	Count    int64  `json:"count"`
}

// DateCount pairs a calendar date with its report count.
type DateCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Stats holds aggregate totals about the database.
type Stats struct {
	TotalReports  int64
	TotalRecords  int64
	TotalContacts int64
	OldestReport  time.Time
	NewestReport  time.Time
}
