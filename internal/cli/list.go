package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/crimesense/crimesense/internal/repo"
	"github.com/crimesense/crimesense/internal/storage"
)

// Execute implements the go-flags Commander interface for ListCommand.
func (c *ListCommand) Execute(args []string) error {
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

// executeWithRepo runs the listing against a provided repository (used by tests).
func (c *ListCommand) executeWithRepo(r *repo.Repository) error {
	ctx := context.Background()

	if c.Records {
		return c.printRecords(r.ListRecords(ctx, c.Search))
	}

	reports := r.ListReports(ctx, storage.ReportFilter{Type: c.Type, Search: c.Search})
	return c.printReports(reports)
}

func (c *ListCommand) printReports(reports []storage.Report) error {
	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	if len(reports) == 0 {
		fmt.Println("No reports found")
		return nil
	}

	resultWord := "reports"
	if len(reports) == 1 {
		resultWord = "report"
	}
	fmt.Printf("Found %d %s\n\n", len(reports), resultWord)

	for i, r := range reports {
		fmt.Printf("#%d %s - %s\n", r.ID, r.Type, r.Location)
		fmt.Printf("   %s %s · %s\n", r.Date, r.Time, r.Status)
		fmt.Printf("   %s\n", truncate(r.Description, 72))
		if i < len(reports)-1 {
			fmt.Println()
		}
	}

	return nil
}

func (c *ListCommand) printRecords(records []storage.Record) error {
	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No records found")
		return nil
	}

	resultWord := "records"
	if len(records) == 1 {
		resultWord = "record"
	}
	fmt.Printf("Found %d %s\n\n", len(records), resultWord)

	for i, r := range records {
		fmt.Printf("#%d %s", r.ID, r.Name)
		if r.Alias != nil {
			fmt.Printf(" (%q)", *r.Alias)
		}
		fmt.Println()
		fmt.Printf("   %s · %s risk · %s\n", r.CrimeType, r.RiskLevel, deref(r.LastKnownLocation, "location unknown"))
		if r.Notes != nil {
			fmt.Printf("   %s\n", truncate(*r.Notes, 72))
		}
		if i < len(records)-1 {
			fmt.Println()
		}
	}

	return nil
}
