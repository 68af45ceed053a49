package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Engine and record store drivers.
const (
	DriverElasticsearch = "elasticsearch"
	DriverBleve         = "bleve"
	DriverRedis         = "redis"
	DriverSQLite        = "sqlite"
)

// Config holds the searchable service configuration.
type Config struct {
	HTTP     HTTPConfig              `yaml:"http"`
	Auth     AuthConfig              `yaml:"auth"`
	Engine   EngineConfig            `yaml:"engine"`
	Records  RecordsConfig           `yaml:"records"`
	Search   SearchConfig            `yaml:"search"`
	Indexing IndexingConfig          `yaml:"indexing"`
	Entities map[string]EntityConfig `yaml:"entities"`
	Logging  LoggingConfig           `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// EngineConfig selects and configures the index engine.
type EngineConfig struct {
	Driver     string   `yaml:"driver"` // elasticsearch, bleve (default: elasticsearch)
	Hosts      HostList `yaml:"hosts"`
	Username   string   `yaml:"username"`
	Password   string   `yaml:"password"`
	Sniff      bool     `yaml:"sniff"`
	TimeoutSec int      `yaml:"timeout_sec"`
	Path       string   `yaml:"path"`  // bleve only; empty keeps indexes in memory
	Index      string   `yaml:"index"` // default index for entities without one
}

// RecordsConfig selects and configures the record store.
type RecordsConfig struct {
	Driver           string   `yaml:"driver"` // redis, sqlite (default: redis)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	DSN              string   `yaml:"dsn"` // sqlite file or ":memory:"
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds fuzzy matching defaults shared by all entities.
type SearchConfig struct {
	Fuzziness     *int  `yaml:"fuzziness"`
	PrefixLength  *int  `yaml:"prefix_length"`
	MaxExpansions *int  `yaml:"max_expansions"`
	Lenient       *bool `yaml:"lenient"`
}

// IndexingConfig toggles lifecycle indexing and tunes reindex.
type IndexingConfig struct {
	Enabled          *bool `yaml:"enabled"`
	OnCreate         *bool `yaml:"on_create"`
	OnUpdate         *bool `yaml:"on_update"`
	OnDelete         *bool `yaml:"on_delete"`
	ReindexWorkers   int   `yaml:"reindex_workers"`
	ReindexBatchSize int   `yaml:"reindex_batch_size"`
}

// EntityConfig is the search configuration of one entity type. Unset fuzzy
// parameters fall back to the search section.
type EntityConfig struct {
	Type          string    `yaml:"type"`
	Index         string    `yaml:"index"`
	Size          *int      `yaml:"size"`
	Fuzziness     *int      `yaml:"fuzziness"`
	PrefixLength  *int      `yaml:"prefix_length"`
	MaxExpansions *int      `yaml:"max_expansions"`
	Lenient       *bool     `yaml:"lenient"`
	Fields        FieldList `yaml:"fields"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, expanding ${VAR} references, applying
// defaults and validating the result.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Engine.Driver == "" {
		c.Engine.Driver = DriverElasticsearch
	}
	if c.Engine.TimeoutSec <= 0 {
		c.Engine.TimeoutSec = 10
	}
	if c.Engine.Index == "" {
		c.Engine.Index = "index"
	}
	if c.Records.Driver == "" {
		c.Records.Driver = DriverRedis
	}
	if c.Records.ReadinessTimeout <= 0 {
		c.Records.ReadinessTimeout = 10
	}
	if c.Records.KeyPrefix == "" {
		c.Records.KeyPrefix = "searchable:"
	}
	defaultInt(&c.Search.Fuzziness, 2)
	defaultInt(&c.Search.PrefixLength, 2)
	defaultInt(&c.Search.MaxExpansions, 100)
	defaultBool(&c.Search.Lenient, true)
	defaultBool(&c.Indexing.Enabled, true)
	defaultBool(&c.Indexing.OnCreate, true)
	defaultBool(&c.Indexing.OnUpdate, true)
	defaultBool(&c.Indexing.OnDelete, true)
	if c.Indexing.ReindexWorkers <= 0 {
		c.Indexing.ReindexWorkers = 4
	}
	if c.Indexing.ReindexBatchSize <= 0 {
		c.Indexing.ReindexBatchSize = 100
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Engine.Driver {
	case DriverElasticsearch, DriverBleve:
	default:
		return fmt.Errorf("engine.driver must be %q or %q, got %q",
			DriverElasticsearch, DriverBleve, c.Engine.Driver)
	}
	switch c.Records.Driver {
	case DriverRedis:
		if len(c.Records.Addrs) == 0 {
			return fmt.Errorf("records.addrs is required for the redis driver")
		}
	case DriverSQLite:
		if c.Records.DSN == "" {
			return fmt.Errorf("records.dsn is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("records.driver must be %q or %q, got %q",
			DriverRedis, DriverSQLite, c.Records.Driver)
	}
	for name, e := range c.Entities {
		if e.Size != nil && *e.Size <= 0 {
			return fmt.Errorf("entities.%s.size must be positive, got %d", name, *e.Size)
		}
	}
	return nil
}

func defaultInt(p **int, v int) {
	if *p == nil {
		*p = &v
	}
}

func defaultBool(p **bool, v bool) {
	if *p == nil {
		*p = &v
	}
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
