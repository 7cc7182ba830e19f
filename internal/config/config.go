package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the regexfa tools.
type Config struct {
	LogLevel string `mapstructure:"log_level"`
	// Normalize selects a Unicode normal form applied to patterns and
	// inputs before they reach the automaton: "", "nfc" or "nfkc".
	Normalize string          `mapstructure:"normalize"`
	Enumerate EnumerateConfig `mapstructure:"enumerate"`
	Trace     TraceConfig     `mapstructure:"trace"`
	Server    ServerConfig    `mapstructure:"server"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

type EnumerateConfig struct {
	// MaxLen is the length used when a command or request names none.
	MaxLen int `mapstructure:"max_len"`
	// Limit rejects longer enumerate statements in scripts. Zero means none.
	Limit int `mapstructure:"limit"`
}

type TraceConfig struct {
	Delay time.Duration `mapstructure:"delay"`
	Color bool          `mapstructure:"color"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// MaxEnumerate caps max_len on the HTTP API; enumeration is exponential.
	MaxEnumerate    int           `mapstructure:"max_enumerate"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CacheConfig configures the Redis DFA cache. An empty RedisAddr disables it.
type CacheConfig struct {
	RedisAddr string        `mapstructure:"redis_addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	TTL       time.Duration `mapstructure:"ttl"`
	Prefix    string        `mapstructure:"prefix"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		LogLevel:  "info",
		Enumerate: EnumerateConfig{MaxLen: 6},
		Trace:     TraceConfig{Delay: 400 * time.Millisecond, Color: true},
		Server: ServerConfig{
			Addr:            ":8080",
			MaxEnumerate:    12,
			ShutdownTimeout: 5 * time.Second,
		},
		Cache: CacheConfig{TTL: time.Hour, Prefix: "regexfa:dfa:"},
	}
}

// envKeys maps environment variables onto configuration keys.
var envKeys = []struct {
	name string
	path []string
}{
	{"REGEXFA_LOG_LEVEL", []string{"log_level"}},
	{"REGEXFA_NORMALIZE", []string{"normalize"}},
	{"REGEXFA_ENUMERATE_MAX_LEN", []string{"enumerate", "max_len"}},
	{"REGEXFA_ENUMERATE_LIMIT", []string{"enumerate", "limit"}},
	{"REGEXFA_TRACE_DELAY", []string{"trace", "delay"}},
	{"REGEXFA_TRACE_COLOR", []string{"trace", "color"}},
	{"REGEXFA_SERVER_ADDR", []string{"server", "addr"}},
	{"REGEXFA_SERVER_MAX_ENUMERATE", []string{"server", "max_enumerate"}},
	{"REGEXFA_SERVER_SHUTDOWN_TIMEOUT", []string{"server", "shutdown_timeout"}},
	{"REGEXFA_CACHE_REDIS_ADDR", []string{"cache", "redis_addr"}},
	{"REGEXFA_CACHE_PASSWORD", []string{"cache", "password"}},
	{"REGEXFA_CACHE_DB", []string{"cache", "db"}},
	{"REGEXFA_CACHE_TTL", []string{"cache", "ttl"}},
	{"REGEXFA_CACHE_PREFIX", []string{"cache", "prefix"}},
}

// Load reads the YAML file at path (skipped when path is empty), applies
// REGEXFA_* environment overrides on top and validates the result.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookupEnv func(string) (string, bool)) (Config, error) {
	raw := map[string]interface{}{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]interface{}{}
		}
	}
	for _, k := range envKeys {
		if v, ok := lookupEnv(k.name); ok {
			setPath(raw, k.path, v)
		}
	}

	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setPath(m map[string]interface{}, path []string, v string) {
	for _, p := range path[:len(path)-1] {
		child, ok := m[p].(map[string]interface{})
		if !ok {
			child = map[string]interface{}{}
			m[p] = child
		}
		m = child
	}
	m[path[len(path)-1]] = v
}

// Validate rejects values no component can work with.
func (c Config) Validate() error {
	var errs []error
	if c.Enumerate.MaxLen < 0 {
		errs = append(errs, fmt.Errorf("enumerate.max_len must be >= 0, got %d", c.Enumerate.MaxLen))
	}
	if c.Enumerate.Limit < 0 {
		errs = append(errs, fmt.Errorf("enumerate.limit must be >= 0, got %d", c.Enumerate.Limit))
	}
	if c.Server.MaxEnumerate < 1 {
		errs = append(errs, fmt.Errorf("server.max_enumerate must be >= 1, got %d", c.Server.MaxEnumerate))
	}
	if c.Trace.Delay < 0 {
		errs = append(errs, fmt.Errorf("trace.delay must be >= 0, got %s", c.Trace.Delay))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must be >= 0, got %s", c.Cache.TTL))
	}
	switch strings.ToLower(c.Normalize) {
	case "", "none", "nfc", "nfkc":
	default:
		errs = append(errs, fmt.Errorf("normalize must be one of none, nfc, nfkc, got %q", c.Normalize))
	}
	return errors.Join(errs...)
}

// Normalizer returns the string transform selected by Normalize.
func (c Config) Normalizer() func(string) string {
	switch strings.ToLower(c.Normalize) {
	case "nfc":
		return norm.NFC.String
	case "nfkc":
		return norm.NFKC.String
	}
	return func(s string) string { return s }
}
