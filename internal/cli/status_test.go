package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimesense/crimesense/internal/config"
	"github.com/crimesense/crimesense/internal/repo"
)

func TestStatusCommand_EmptyDatabase(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Path = t.TempDir()

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	dbPath, err := cfg.DatabasePath()
	require.NoError(t, err)
	r := repo.New(dbPath, nil, log)
	t.Cleanup(func() { r.Close() })

	cmd := &StatusCommand{globals: &GlobalFlags{}, version: "test"}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithRepo(r, cfg))
	})

	assert.Contains(t, output, "CrimeSense Status")
	assert.Contains(t, output, "Version:   test")
	assert.Contains(t, output, "Reports:   0")
	assert.Contains(t, output, "Changes:   none recorded")
}

func TestStatusCommand_WithData(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Path = t.TempDir()

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	dbPath, err := cfg.DatabasePath()
	require.NoError(t, err)
	r := repo.New(dbPath, nil, log)
	t.Cleanup(func() { r.Close() })

	_, err = r.SaveReport(context.Background(), repo.ReportInput{
		Location: "Main St", Type: "Theft", Description: "x",
	})
	require.NoError(t, err)

	cmd := &StatusCommand{globals: &GlobalFlags{}, version: "test"}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithRepo(r, cfg))
	})

	assert.Contains(t, output, "Reports:   1")
	assert.Contains(t, output, "Oldest:")
	assert.Contains(t, output, filepath.Base(dbPath))
}
