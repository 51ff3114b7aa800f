package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/crimesense/crimesense/internal/repo"
)

// Execute implements the go-flags Commander interface for ReportCommand.
func (c *ReportCommand) Execute(args []string) error {
	if c.Location == "" {
		return fmt.Errorf("--location is required for report command")
	}
	if c.Type == "" {
		return fmt.Errorf("--type is required for report command")
	}
	if c.Description == "" {
		return fmt.Errorf("--description is required for report command")
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

// executeWithRepo runs the submit logic against a provided repository (used by tests).
func (c *ReportCommand) executeWithRepo(r *repo.Repository) error {
	ctx := context.Background()

	id, err := r.SaveReport(ctx, repo.ReportInput{
		Name:        c.Name,
		Contact:     c.Contact,
		Location:    c.Location,
		Type:        c.Type,
		Date:        c.Date,
		Time:        c.Time,
		Description: c.Description,
	})
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	saved, err := r.GetReportByID(ctx, id)
	if err != nil {
		return fmt.Errorf("read back report: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(saved)
	}

	fmt.Printf("Submitted report #%d\n", id)
	fmt.Printf("  Location: %s\n", saved.Location)
	fmt.Printf("  Type:     %s\n", saved.Type)
	fmt.Printf("  Date:     %s %s\n", saved.Date, saved.Time)
	fmt.Printf("  Status:   %s\n", saved.Status)

	return nil
}
