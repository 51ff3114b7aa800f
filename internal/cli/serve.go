package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/crimesense/crimesense/internal/auth"
	"github.com/crimesense/crimesense/internal/logging"
	"github.com/crimesense/crimesense/internal/notify"
	"github.com/crimesense/crimesense/internal/server"
)

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	host := cfg.Server.Host
	if c.Host != "" {
		host = c.Host
	}
	port := cfg.Server.Port
	if c.Port != 0 {
		port = c.Port
	}

	var backend server.Backend
	if c.Memory {
		markerPath, err := cfg.MarkerPath()
		if err != nil {
			return err
		}
		notifier := notify.NewNotifier(notify.NewBus(), notify.NewMarker(markerPath), logging.Log)
		backend = server.NewMemoryBackend(notifier)
		logging.Log.Warn("serving from memory: data will not survive a restart")
	} else {
		r, err := newRepository(cfg)
		if err != nil {
			return err
		}
		defer r.Close()
		backend = r
	}

	authSvc := auth.NewService(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	handler := server.NewHandler(backend, authSvc, server.AdminAccount{
		Email:    cfg.Auth.AdminEmail,
		Password: cfg.Auth.AdminPassword,
	}, logging.Log)

	srv := server.New(host, port, handler, logging.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return <-errCh
}
