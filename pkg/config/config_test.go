package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DefaultsAndEnv(t *testing.T) {
	t.Setenv("PLENTY_PASSWORD", "s3cret")

	raw := []byte(`
plenty:
  base_url: https://shop.plentymarkets-cloud01.com
  username: rest-user
  password: ${PLENTY_PASSWORD}
cache:
  enabled: true
`)

	cfg, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Plenty.Password)
	assert.Equal(t, 60, cfg.Plenty.RateLimit)
	assert.Equal(t, 5, cfg.Plenty.BurstLimit)
	assert.Equal(t, 3, cfg.Plenty.RetryAttempts)
	assert.Equal(t, "30s", cfg.Plenty.Timeout)
	assert.Equal(t, 250, cfg.Plenty.PageSize)
	assert.Equal(t, "plenty-cache.db", cfg.Cache.Path)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.S3.Configured())
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing base url",
			yaml:    "plenty:\n  token: abc\n",
			wantErr: "plenty.base_url is required",
		},
		{
			name:    "missing credentials",
			yaml:    "plenty:\n  base_url: https://a.plentymarkets-cloud01.com\n",
			wantErr: "plenty.token or plenty.username/password is required",
		},
		{
			name:    "bad timeout",
			yaml:    "plenty:\n  base_url: https://a.plentymarkets-cloud01.com\n  token: abc\n  timeout: soon\n",
			wantErr: "invalid plenty.timeout",
		},
		{
			name:    "bad timezone",
			yaml:    "plenty:\n  base_url: https://a.plentymarkets-cloud01.com\n  token: abc\n  timezone: Mars/Olympus\n",
			wantErr: "invalid plenty.timezone",
		},
		{
			name:    "bucket without endpoint",
			yaml:    "plenty:\n  base_url: https://a.plentymarkets-cloud01.com\n  token: abc\ns3:\n  bucket: exports\n",
			wantErr: "s3.endpoint is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "plenty:\n  base_url: https://a.plentymarkets-cloud01.com\n  token: abc\n  timezone: Europe/Berlin\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.Plenty.Token)

	loc, err := cfg.Plenty.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "config file not found")
}
