package config

// DefaultConfig returns a Config populated with all default values. The
// admin account mirrors the application's seeded administrator; deployments
// are expected to override it along with the JWT secret.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:       "~/.config/crimesense",
			SQLiteFile: "crimesense.db",
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 5000,
		},
		Auth: AuthConfig{
			JWTSecret:       "change-me",
			TokenTTLMinutes: 24 * 60,
			AdminEmail:      "admin@crimesense.com",
			AdminPassword:   "admin123",
		},
		Notify: NotifyConfig{
			MarkerFile: "last-update",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}
