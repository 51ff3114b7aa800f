package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/crimesense/crimesense/internal/repo"
)

// Execute implements the go-flags Commander interface for DeleteCommand.
// Deletion is a privileged operation; running it from the local CLI is the
// authorization.
func (c *DeleteCommand) Execute(args []string) error {
	if c.ID == 0 {
		return fmt.Errorf("--id is required for delete command")
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

// executeWithRepo runs the deletion against a provided repository (used by tests).
func (c *DeleteCommand) executeWithRepo(r *repo.Repository) error {
	ctx := context.Background()

	kind := "report"
	var err error
	if c.Record {
		kind = "record"
		err = r.DeleteRecord(ctx, c.ID)
	} else {
		err = r.DeleteReport(ctx, c.ID)
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(map[string]interface{}{"deleted": true, "id": c.ID})
	}

	fmt.Printf("Deleted %s #%d\n", kind, c.ID)
	return nil
}
