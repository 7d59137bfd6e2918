package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  host: mail.example.org
  port: 2465
  security: tls
  insecure-skip-verify: false
account:
  username: alarm@example.org
  keyring-service: alarm-trials
message:
  subject: "Alarm {{ .Index }}"
burst:
  candidates:
    - examples/emergency_simple.txt
  count: 3
  seed: 42
  pace: 0.5
single:
  file: examples/emergency_obj.txt
metrics:
  pushgateway: http://pushgateway:9091
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alarmctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "mail.example.org", cfg.Server.Host)
	assert.Equal(t, 2465, cfg.Server.Port)
	assert.Equal(t, SecurityTLS, cfg.Server.Security)
	require.NotNil(t, cfg.Server.InsecureSkipVerify)
	assert.False(t, cfg.Server.SkipVerify())
	assert.Equal(t, "alarm-trials", cfg.Account.KeyringService)
	assert.Equal(t, "Alarm {{ .Index }}", cfg.Message.Subject)
	assert.Equal(t, []string{"examples/emergency_simple.txt"}, cfg.Burst.Candidates)
	assert.Equal(t, 3, cfg.Burst.Alarms())
	assert.Equal(t, uint64(42), cfg.Burst.Seed)
	assert.InDelta(t, 0.5, cfg.Burst.Pace, 1e-9)
	assert.Equal(t, "examples/emergency_obj.txt", cfg.Single.File)
	assert.Equal(t, "http://pushgateway:9091", cfg.Metrics.PushGateway)
	assert.Equal(t, DefaultJob, cfg.Metrics.Job, "defaults survive a partial file")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadEmptyPath(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoadIfExists(t *testing.T) {
	cfg, err := LoadIfExists(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSubject, cfg.Message.Subject)

	cfg, err = LoadIfExists("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)

	cfg, err = LoadIfExists(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, "mail.example.org", cfg.Server.Host)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty credentials are accepted", mutate: func(c *Config) {
			c.Server.Host = ""
			c.Account = Account{}
		}},
		{name: "unknown security", mutate: func(c *Config) { c.Server.Security = "ssl3" }, wantErr: "unknown security mode"},
		{name: "port too large", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "out of range"},
		{name: "zero count", mutate: func(c *Config) { c.Burst.Count = intPtr(0) }},
		{name: "negative count", mutate: func(c *Config) { c.Burst.Count = intPtr(-1) }, wantErr: "count"},
		{name: "negative pace", mutate: func(c *Config) { c.Burst.Pace = -2 }, wantErr: "pace"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Apply(BurstProfile, func(string) (string, bool) { return "", false })
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestServerAddress(t *testing.T) {
	assert.Equal(t, "smtp.example.com:587", Server{Host: "smtp.example.com", Port: 587}.Address())
}

func intPtr(n int) *int {
	return &n
}
