package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/crimesense/crimesense/internal/config"
	"github.com/crimesense/crimesense/internal/notify"
	"github.com/crimesense/crimesense/internal/repo"
	"github.com/crimesense/crimesense/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string `json:"version"`
	DatabasePath      string `json:"database_path"`
	DatabaseSizeBytes int64  `json:"database_size_bytes"`
	SchemaVersion     int    `json:"schema_version"`
	TotalReports      int64  `json:"total_reports"`
	TotalRecords      int64  `json:"total_records"`
	TotalContacts     int64  `json:"total_contacts"`
	OldestReport      string `json:"oldest_report,omitempty"`
	NewestReport      string `json:"newest_report,omitempty"`
	LastChange        string `json:"last_change,omitempty"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	r, err := newRepository(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	return c.executeWithRepo(r, cfg)
}

// executeWithRepo runs status against a provided repository (used by tests).
func (c *StatusCommand) executeWithRepo(r *repo.Repository, cfg *config.Config) error {
	stats, err := r.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return err
	}
	var dbSize int64
	if info, statErr := os.Stat(dbPath); statErr == nil {
		dbSize = info.Size()
	}

	markerPath, err := cfg.MarkerPath()
	if err != nil {
		return err
	}
	lastChange, _ := notify.NewMarker(markerPath).Last()

	if c.globals != nil && c.globals.JSON {
		return c.printStatusJSON(stats, dbPath, dbSize, lastChange)
	}
	return c.printStatusHuman(stats, dbPath, dbSize, lastChange)
}

func (c *StatusCommand) printStatusHuman(stats *storage.Stats, dbPath string, dbSize int64, lastChange time.Time) error {
	fmt.Println("CrimeSense Status")
	fmt.Println("=================")
	fmt.Printf("Version:   %s\n", c.version)
	fmt.Printf("Database:  %s (%s)\n", dbPath, formatBytes(dbSize))
	fmt.Printf("Schema:    v%d\n", storage.SchemaVersion)
	fmt.Printf("Reports:   %d\n", stats.TotalReports)
	fmt.Printf("Records:   %d\n", stats.TotalRecords)
	fmt.Printf("Contacts:  %d\n", stats.TotalContacts)

	if stats.TotalReports > 0 {
		fmt.Printf("Oldest:    %s\n", stats.OldestReport.Local().Format("2006-01-02"))
		fmt.Printf("Newest:    %s\n", stats.NewestReport.Local().Format("2006-01-02"))
	}

	if lastChange.IsZero() {
		fmt.Println("Changes:   none recorded")
	} else {
		fmt.Printf("Changes:   last at %s\n", lastChange.Local().Format("2006-01-02 15:04:05"))
	}

	return nil
}

func (c *StatusCommand) printStatusJSON(stats *storage.Stats, dbPath string, dbSize int64, lastChange time.Time) error {
	out := statusJSON{
		Version:           c.version,
		DatabasePath:      dbPath,
		DatabaseSizeBytes: dbSize,
		SchemaVersion:     storage.SchemaVersion,
		TotalReports:      stats.TotalReports,
		TotalRecords:      stats.TotalRecords,
		TotalContacts:     stats.TotalContacts,
	}

	if stats.TotalReports > 0 {
		out.OldestReport = stats.OldestReport.UTC().Format(time.RFC3339)
		out.NewestReport = stats.NewestReport.UTC().Format(time.RFC3339)
	}
	if !lastChange.IsZero() {
		out.LastChange = lastChange.UTC().Format(time.RFC3339)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
