package notify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Marker is the durable last-write signal: a single well-known file holding
// the timestamp of the most recent mutation. Other processes poll it or
// watch it to learn that a collection changed, without knowing which one.
type Marker struct {
	path string
}

// NewMarker creates a Marker backed by the given file path.
func NewMarker(path string) *Marker {
	return &Marker{path: path}
}

// Path returns the marker file location.
func (m *Marker) Path() string { return m.path }

// Touch records the current instant as the last mutation time. The write is
// atomic (temp file + rename) so watchers never observe a partial value.
func (m *Marker) Touch() error {
	return m.touchAt(time.Now())
}

func (m *Marker) touchAt(t time.Time) error {
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create marker directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".marker-*")
	if err != nil {
		return fmt.Errorf("create marker temp file: %w", err)
	}
	if _, err := tmp.WriteString(strconv.FormatInt(t.UnixNano(), 10)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write marker: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close marker temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), m.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace marker: %w", err)
	}

	return nil
}

// Last returns the recorded last mutation time. A missing marker yields the
// zero time with no error.
func (m *Marker) Last() (time.Time, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("read marker: %w", err)
	}

	nanos, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse marker: %w", err)
	}

	return time.Unix(0, nanos), nil
}

// Watch invokes fn with the new marker value each time another process
// touches it, until the context is cancelled. Repeated notifications for an
// unchanged value are suppressed.
func (m *Marker) Watch(ctx context.Context, fn func(time.Time)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: the atomic rename in Touch replaces the file,
	// so a watch on the file itself would be dropped after the first write.
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create marker directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	lastSeen, _ := m.Last()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != m.path {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			ts, err := m.Last()
			if err != nil || ts.IsZero() || ts.Equal(lastSeen) {
				continue
			}
			lastSeen = ts
			fn(ts)
		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}
