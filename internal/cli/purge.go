package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/crimesense/crimesense/internal/repo"
)

// Execute implements the go-flags Commander interface for PurgeCommand.
func (c *PurgeCommand) Execute(args []string) error {
	if !c.All {
		return fmt.Errorf("purge requires --all flag for safety")
	}

	// Confirmation prompt unless --force
	if !c.Force {
		fmt.Println("⚠ WARNING: This will permanently delete ALL CrimeSense data.")
		fmt.Println("  - All incident reports")
		fmt.Println("  - All police records")
		fmt.Println("  - All contact messages")
		fmt.Println()
		fmt.Println("This action cannot be undone.")
		fmt.Println()
		fmt.Print(`Type "PURGE" to confirm: `)

		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			return fmt.Errorf("aborted: no input received")
		}
		input := strings.TrimSpace(scanner.Text())
		if input != "PURGE" {
			return fmt.Errorf("aborted: confirmation text did not match")
		}
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

// executeWithRepo runs the reset against a provided repository (used by tests).
func (c *PurgeCommand) executeWithRepo(r *repo.Repository) error {
	if err := r.ClearAllData(context.Background()); err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{
			"purged":  true,
			"message": "all data deleted",
		}
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(out)
	}

	fmt.Println("Purged all data. CrimeSense is empty.")
	return nil
}
