package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/crimesense/crimesense/internal/repo"
)

// Execute implements the go-flags Commander interface for ContactCommand.
func (c *ContactCommand) Execute(args []string) error {
	if c.Message == "" {
		return fmt.Errorf("--message is required for contact command")
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

// executeWithRepo runs the send logic against a provided repository (used by tests).
func (c *ContactCommand) executeWithRepo(r *repo.Repository) error {
	id, err := r.SaveContact(context.Background(), repo.ContactInput{
		Name:    c.Name,
		Email:   c.Email,
		Message: c.Message,
	})
	if err != nil {
		return fmt.Errorf("save contact: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(map[string]interface{}{"id": id})
	}

	fmt.Printf("Message sent (#%d)\n", id)
	return nil
}
