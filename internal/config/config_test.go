package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "regexfa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load("", noEnv)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
normalize: nfc
enumerate:
  max_len: 3
  limit: 10
trace:
  delay: 250ms
  color: false
server:
  addr: 127.0.0.1:9000
cache:
  redis_addr: localhost:6379
  ttl: 10m
`)
	cfg, err := load(path, noEnv)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3, cfg.Enumerate.MaxLen)
	assert.Equal(t, 10, cfg.Enumerate.Limit)
	assert.Equal(t, 250*time.Millisecond, cfg.Trace.Delay)
	assert.False(t, cfg.Trace.Color)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 12, cfg.Server.MaxEnumerate, "untouched keys keep defaults")
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "regexfa:dfa:", cfg.Cache.Prefix)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: :9000\n")
	env := map[string]string{
		"REGEXFA_SERVER_ADDR":       ":7000",
		"REGEXFA_ENUMERATE_MAX_LEN": "4",
		"REGEXFA_TRACE_DELAY":       "0s",
		"REGEXFA_TRACE_COLOR":       "false",
		"REGEXFA_CACHE_DB":          "2",
	}
	cfg, err := load(path, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, 4, cfg.Enumerate.MaxLen)
	assert.Equal(t, time.Duration(0), cfg.Trace.Delay)
	assert.False(t, cfg.Trace.Color)
	assert.Equal(t, 2, cfg.Cache.DB)
}

func TestLoadErrors(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "missing.yaml"), noEnv)
	assert.Error(t, err)

	_, err = load(writeConfig(t, "enumerate: [1, 2"), noEnv)
	assert.Error(t, err)

	_, err = load(writeConfig(t, "enumrate:\n  max_len: 2\n"), noEnv)
	assert.ErrorContains(t, err, "enumrate")

	_, err = load(writeConfig(t, "enumerate:\n  max_len: -1\n"), noEnv)
	assert.ErrorContains(t, err, "enumerate.max_len")

	_, err = load(writeConfig(t, "server:\n  max_enumerate: 0\n"), noEnv)
	assert.ErrorContains(t, err, "server.max_enumerate must be >= 1")

	_, err = load(writeConfig(t, "normalize: nfd\n"), noEnv)
	assert.ErrorContains(t, err, "normalize")
}

func TestNormalizer(t *testing.T) {
	decomposed := "e\u0301"
	assert.Equal(t, decomposed, Default().Normalizer()(decomposed))

	cfg := Default()
	cfg.Normalize = "NFC"
	assert.Equal(t, "\u00e9", cfg.Normalizer()(decomposed))
}
