package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    NetAddress
		wantErr bool
	}{
		{
			name:  "valid localhost address",
			input: "localhost:8080",
			want:  NetAddress{Host: "localhost", Port: 8080},
		},
		{
			name:  "valid IP address",
			input: "127.0.0.1:9090",
			want:  NetAddress{Host: "127.0.0.1", Port: 9090},
		},
		{
			name:  "empty host",
			input: ":8080",
			want:  NetAddress{Host: "", Port: 8080},
		},
		{
			name:    "missing port",
			input:   "localhost",
			wantErr: true,
		},
		{
			name:    "non-numeric port",
			input:   "localhost:http",
			wantErr: true,
		},
		{
			name:    "negative port",
			input:   "localhost:-1",
			wantErr: true,
		},
		{
			name:    "bogus host",
			input:   "not-an-ip:8080",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var addr NetAddress
			err := addr.Set(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, addr)
		})
	}
}

func TestNetAddress_String(t *testing.T) {
	empty := NetAddress{}
	assert.Equal(t, "", empty.String())

	addr := NetAddress{Host: "localhost", Port: 8080}
	assert.Equal(t, "localhost:8080", addr.String())
}

func TestStructuredConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     StructuredConfig
		wantErr error
	}{
		{
			name: "valid config",
			cfg: StructuredConfig{
				App: App{
					TokenSignKey:   "access-key",
					RefreshSignKey: "refresh-key",
					TokenIssuer:    "ocean",
				},
				Storage: Storage{DB: DB{DSN: "postgres://localhost/ocean", Driver: "pgx"}},
			},
		},
		{
			name: "missing DSN",
			cfg: StructuredConfig{
				App:     App{TokenSignKey: "k", RefreshSignKey: "r", TokenIssuer: "i"},
				Storage: Storage{DB: DB{Driver: "pgx"}},
			},
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name: "unknown driver",
			cfg: StructuredConfig{
				App:     App{TokenSignKey: "k", RefreshSignKey: "r", TokenIssuer: "i"},
				Storage: Storage{DB: DB{DSN: "dsn", Driver: "mysql"}},
			},
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name: "missing sign keys",
			cfg: StructuredConfig{
				Storage: Storage{DB: DB{DSN: "dsn", Driver: "sqlite3"}},
			},
			wantErr: ErrInvalidAppConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestStructuredConfig_ApplyDefaults(t *testing.T) {
	cfg := &StructuredConfig{}
	cfg.applyDefaults()

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "pgx", cfg.Storage.DB.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, 30*24*time.Hour, cfg.App.RefreshDuration)
	assert.Equal(t, 256, cfg.Workers.AuditBufferSize)
}

func TestStructuredConfig_ApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &StructuredConfig{
		Server:  Server{HTTPAddress: "localhost:9000", RequestTimeout: time.Minute},
		Storage: Storage{DB: DB{Driver: "sqlite3"}},
	}
	cfg.applyDefaults()

	assert.Equal(t, "localhost:9000", cfg.Server.HTTPAddress)
	assert.Equal(t, time.Minute, cfg.Server.RequestTimeout)
	assert.Equal(t, "sqlite3", cfg.Storage.DB.Driver)
}

func TestParseJSON(t *testing.T) {
	raw := map[string]any{
		"app": map[string]any{
			"token_sign_key":   "json-key",
			"refresh_sign_key": "json-refresh",
			"token_issuer":     "ocean",
			"token_duration":   "168h",
		},
		"storage": map[string]any{
			"db": map[string]any{
				"dsn":    "postgres://localhost/ocean",
				"driver": "pgx",
			},
		},
		"server": map[string]any{
			"http_address":    "localhost:8081",
			"request_timeout": "45s",
		},
	}

	data, err := json.Marshal(raw)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "json-key", cfg.App.TokenSignKey)
	assert.Equal(t, "ocean", cfg.App.TokenIssuer)
	assert.Equal(t, 168*time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, "postgres://localhost/ocean", cfg.Storage.DB.DSN)
	assert.Equal(t, "localhost:8081", cfg.Server.HTTPAddress)
	assert.Equal(t, 45*time.Second, cfg.Server.RequestTimeout)
}

func TestParseJSON_FileNotFound(t *testing.T) {
	_, err := parseJSON("/nonexistent/config.json")
	assert.Error(t, err)
}
