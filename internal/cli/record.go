package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/crimesense/crimesense/internal/repo"
)

// Execute implements the go-flags Commander interface for RecordCommand.
func (c *RecordCommand) Execute(args []string) error {
	if c.Name == "" {
		return fmt.Errorf("--name is required for record command")
	}
	if c.CrimeType == "" {
		return fmt.Errorf("--crime-type is required for record command")
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

// executeWithRepo runs the add logic against a provided repository (used by tests).
func (c *RecordCommand) executeWithRepo(r *repo.Repository) error {
	id, err := r.SaveRecord(context.Background(), repo.RecordInput{
		Name:              c.Name,
		Alias:             c.Alias,
		CrimeType:         c.CrimeType,
		RiskLevel:         c.RiskLevel,
		LastKnownLocation: c.LastKnownLocation,
		Notes:             c.Notes,
	})
	if err != nil {
		return fmt.Errorf("save record: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{"id": id, "name": c.Name}
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(out)
	}

	fmt.Printf("Added record #%d (%s)\n", id, c.Name)
	return nil
}
