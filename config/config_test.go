package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/api/config"
)

func lookup(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := config.FromEnv(lookup(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.ClickHouse.Enabled)
	assert.Equal(t, 30, cfg.Analytics.DefaultDays)
	assert.Equal(t, 10, cfg.Analytics.TopPages)
	assert.Equal(t, "/essays/", cfg.Analytics.ContentPrefix)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, time.Second, cfg.Ingest.FlushInterval)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := config.FromEnv(lookup(map[string]string{
		"PORT":                   "9000",
		"EVENT_STORE":            "ClickHouse",
		"CLICKHOUSE_NATIVE_PORT": "9440",
		"TOKEN_TTL":              "30m",
		"DEFAULT_DAYS":           "7",
		"INGEST_FLUSH_INTERVAL":  "250ms",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.True(t, cfg.ClickHouse.Enabled)
	assert.Equal(t, 9440, cfg.ClickHouse.NativePort)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 7, cfg.Analytics.DefaultDays)
	assert.Equal(t, 250*time.Millisecond, cfg.Ingest.FlushInterval)
}

func TestFromEnv_BadNumber(t *testing.T) {
	_, err := config.FromEnv(lookup(map[string]string{"DEFAULT_DAYS": "thirty"}))
	assert.ErrorContains(t, err, "DEFAULT_DAYS")
}

func validEnv() map[string]string {
	return map[string]string{
		"SERVICE_DATABASE_URL": "postgres://service@localhost/folio",
		"JWT_SECRET_KEY":       "secret",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string]string)
		wantErr string
	}{
		{"valid", func(map[string]string) {}, ""},
		{"missing service url", func(m map[string]string) { delete(m, "SERVICE_DATABASE_URL") }, "SERVICE_DATABASE_URL"},
		{"missing secret", func(m map[string]string) { delete(m, "JWT_SECRET_KEY") }, "JWT_SECRET_KEY"},
		{"clickhouse incomplete", func(m map[string]string) { m["EVENT_STORE"] = "clickhouse" }, "CLICKHOUSE_HOST"},
		{"zero days", func(m map[string]string) { m["DEFAULT_DAYS"] = "0" }, "DEFAULT_DAYS"},
		{"negative interval", func(m map[string]string) { m["INGEST_FLUSH_INTERVAL"] = "-1s" }, "INGEST_FLUSH_INTERVAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := validEnv()
			tt.mutate(env)
			cfg, err := config.FromEnv(lookup(env))
			require.NoError(t, err)

			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var verr *config.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Field, tt.wantErr)
		})
	}
}
