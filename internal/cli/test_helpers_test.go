package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/crimesense/crimesense/internal/repo"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// testRepo creates a repository over a temporary database.
func testRepo(t *testing.T) *repo.Repository {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	r := repo.New(filepath.Join(t.TempDir(), "test.db"), nil, log)
	t.Cleanup(func() { r.Close() })
	return r
}
