package cli

import (
	"fmt"
	"strings"

	"github.com/crimesense/crimesense/internal/config"
	"github.com/crimesense/crimesense/internal/logging"
	"github.com/crimesense/crimesense/internal/notify"
	"github.com/crimesense/crimesense/internal/repo"
)

// loadConfig resolves the config file from the global flag or the default
// location, creating defaults on first run, and applies the logging setup.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if globals != nil && globals.Config != "" {
		cfg, err = config.LoadOrCreateAt(globals.Config)
	} else {
		cfg, err = config.LoadOrCreate()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Logging.Level
	if globals != nil && globals.Verbose {
		level = "debug"
	}
	if err := logging.Setup(level, cfg.Logging.File); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newRepository builds a repository wired to the configured database and
// change marker. The store opens lazily on first use.
func newRepository(cfg *config.Config) (*repo.Repository, error) {
	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return nil, err
	}
	markerPath, err := cfg.MarkerPath()
	if err != nil {
		return nil, err
	}

	notifier := notify.NewNotifier(notify.NewBus(), notify.NewMarker(markerPath), logging.Log)
	return repo.New(dbPath, notifier, logging.Log), nil
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// deref returns the string behind p, or fallback when p is nil.
func deref(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}

// truncate shortens s to max runes, appending an ellipsis when cut.
func truncate(s string, max int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= max {
		return string(runes)
	}
	return string(runes[:max-1]) + "…"
}
