package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/crimesense/crimesense/internal/notify"
)

// Execute implements the go-flags Commander interface for WatchCommand. It
// follows the durable change marker the way another open page would: every
// mutation performed by any process shows up here as one line.
func (c *WatchCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	markerPath, err := cfg.MarkerPath()
	if err != nil {
		return err
	}
	marker := notify.NewMarker(markerPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching %s (Ctrl-C to stop)\n", markerPath)

	err = marker.Watch(ctx, func(ts time.Time) {
		fmt.Printf("%s  data changed\n", ts.Local().Format("2006-01-02 15:04:05"))
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
