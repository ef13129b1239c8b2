package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jsonpattern.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, int64(1<<20), cfg.HTTP.MaxBodyBytes)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "memory", cfg.Store.Kind)
	assert.Equal(t, "localhost:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 10, cfg.AMQP.Prefetch)
	assert.Equal(t, 30*time.Second, cfg.AMQP.Timeout)
	assert.Equal(t, 32, cfg.Matcher.MaxDepth)
	assert.False(t, cfg.Matcher.SkipAbsent, "absent optional branches are descended by default")
	assert.Empty(t, cfg.Rules)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
http:
  port: 9000
  shutdown_timeout: 2s
store:
  kind: redis
  redis:
    addr: redis:6379
    db: 2
schema_dir: ./schemas
matcher:
  skip_absent: true
rules:
  - name: iban
    pattern: "^[A-Z]{2}[0-9]{2}[A-Z0-9]{1,30}$"
  - name: positive
    expression: "float(value) > 0"
  - name: cuit
    builtin: cuit
  - name: birthdate
    builtin: date
    layout: "2006-01-02"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, 2*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "redis", cfg.Store.Kind)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, "./schemas", cfg.SchemaDir)
	assert.True(t, cfg.Matcher.SkipAbsent)

	require.Len(t, cfg.Rules, 4)
	assert.Equal(t, RuleConfig{Name: "iban", Pattern: "^[A-Z]{2}[0-9]{2}[A-Z0-9]{1,30}$"}, cfg.Rules[0])
	assert.Equal(t, "float(value) > 0", cfg.Rules[1].Expression)
	assert.Equal(t, "2006-01-02", cfg.Rules[3].Layout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "http:\n  port: 9000\n")
	t.Setenv("JSONPATTERN_HTTP_PORT", "9191")
	t.Setenv("JSONPATTERN_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.HTTP.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "unknown log level",
			content: "log:\n  level: verbose\n",
			want:    `Log.Level: "verbose" is not one of [debug info warn error]`,
		},
		{
			name:    "unknown store",
			content: "store:\n  kind: etcd\n",
			want:    "Store.Kind",
		},
		{
			name:    "port out of range",
			content: "http:\n  port: 70000\n",
			want:    "HTTP.Port failed max=65535",
		},
		{
			name:    "rule without body",
			content: "rules:\n  - name: iban\n",
			want:    "Rules[0]: exactly one of pattern, expression or builtin is required",
		},
		{
			name:    "rule with two bodies",
			content: "rules:\n  - name: iban\n    pattern: x\n    expression: \"true\"\n",
			want:    "Rules[0]: exactly one of",
		},
		{
			name:    "rule without name",
			content: "rules:\n  - pattern: x\n",
			want:    "Rules[0].Name is required",
		},
		{
			name:    "date rule without layout",
			content: "rules:\n  - name: d\n    builtin: date\n",
			want:    "Rules[0].Layout is required",
		},
		{
			name:    "bad duration",
			content: "amqp:\n  timeout: soon\n",
			want:    "failed to decode config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
