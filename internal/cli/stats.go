package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/crimesense/crimesense/internal/repo"
	"github.com/crimesense/crimesense/internal/storage"
)

// statsJSON is the JSON output structure for the stats command.
type statsJSON struct {
	ByType     []storage.TypeCount     `json:"by_type"`
	ByLocation []storage.LocationCount `json:"by_location"`
	OverTime   []storage.DateCount     `json:"over_time"`
}

// Execute implements the go-flags Commander interface for StatsCommand.
func (c *StatsCommand) Execute(args []string) error {
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

// executeWithRepo runs the aggregation against a provided repository (used by tests).
func (c *StatsCommand) executeWithRepo(r *repo.Repository) error {
	ctx := context.Background()

	byType, err := r.TypeDistribution(ctx)
	if err != nil {
		return fmt.Errorf("type distribution: %w", err)
	}
	byLocation, err := r.LocationDistribution(ctx, 10)
	if err != nil {
		return fmt.Errorf("location distribution: %w", err)
	}
	overTime, err := r.ReportsOverTime(ctx)
	if err != nil {
		return fmt.Errorf("reports over time: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(statsJSON{ByType: byType, ByLocation: byLocation, OverTime: overTime})
	}

	if len(byType) == 0 {
		fmt.Println("No reports yet; nothing to chart")
		return nil
	}

	fmt.Println("Reports by type:")
	for _, tc := range byType {
		fmt.Printf("  %-20s %d\n", tc.Type, tc.Count)
	}

	fmt.Println()
	fmt.Println("Top locations:")
	for _, lc := range byLocation {
		fmt.Printf("  %-20s %d\n", lc.Location, lc.Count)
	}

	fmt.Println()
	fmt.Println("Reports over time:")
	for _, dc := range overTime {
		fmt.Printf("  %s  %d\n", dc.Date, dc.Count)
	}

	return nil
}
