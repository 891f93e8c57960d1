package config

import "time"

// applyDefaults fills the fields that have a sensible default when no
// source provided a value.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = "0.0.0.0:8080"
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 30 * time.Second
	}
	if cfg.Storage.DB.Driver == "" {
		cfg.Storage.DB.Driver = "pgx"
	}
	if cfg.App.TokenDuration == 0 {
		cfg.App.TokenDuration = 7 * 24 * time.Hour
	}
	if cfg.App.RefreshDuration == 0 {
		cfg.App.RefreshDuration = 30 * 24 * time.Hour
	}
	if cfg.Workers.AuditBufferSize == 0 {
		cfg.Workers.AuditBufferSize = 256
	}
	if cfg.AI.RequestTimeout == 0 {
		cfg.AI.RequestTimeout = time.Minute
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error
// otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Storage.DB.Driver != "pgx" && cfg.Storage.DB.Driver != "sqlite3" {
		return ErrInvalidStorageConfigs
	}

	if cfg.App.TokenSignKey == "" || cfg.App.RefreshSignKey == "" || cfg.App.TokenIssuer == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}
