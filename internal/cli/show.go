package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/crimesense/crimesense/internal/repo"
)

// Execute implements the go-flags Commander interface for ShowCommand.
func (c *ShowCommand) Execute(args []string) error {
	if c.ID == 0 {
		return fmt.Errorf("--id is required for show command")
	}

	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	r, err := newRepository(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	return c.executeWithRepo(r)
}

// executeWithRepo runs the lookup against a provided repository (used by tests).
func (c *ShowCommand) executeWithRepo(r *repo.Repository) error {
	report, err := r.GetReportByID(context.Background(), c.ID)
	if err != nil {
		return fmt.Errorf("get report: %w", err)
	}
	if report == nil {
		return fmt.Errorf("report %d not found", c.ID)
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Printf("Report #%d\n", report.ID)
	fmt.Printf("  Reporter:    %s (%s)\n", report.Name, report.Contact)
	fmt.Printf("  Location:    %s\n", report.Location)
	fmt.Printf("  Type:        %s\n", report.Type)
	fmt.Printf("  When:        %s %s\n", report.Date, report.Time)
	fmt.Printf("  Status:      %s\n", report.Status)
	fmt.Printf("  Submitted:   %s\n", report.CreatedAt.Local().Format(time.RFC3339))
	fmt.Printf("  Description: %s\n", report.Description)

	return nil
}
