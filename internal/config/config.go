package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Graph   GraphConfig   `yaml:"graph"`
	Logging LoggingConfig `yaml:"logging"`
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string        `yaml:"host"`
	Port              int           `yaml:"port" validate:"min=1,max=65535"`
	ReadTimeout       time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout      time.Duration `yaml:"write_timeout" validate:"gt=0"`
	IdleTimeout       time.Duration `yaml:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	MetricsEnabled    bool          `yaml:"metrics_enabled"`
	AllowedOriginsCSV string        `yaml:"allowed_origins"`
	AllowCredentials  bool          `yaml:"allow_credentials"`
	RateLimit         float64       `yaml:"rate_limit" validate:"gte=0"`
	RateBurst         int           `yaml:"rate_burst" validate:"gte=1"`
	StaticDir         string        `yaml:"static_dir"`
}

// GraphConfig selects where node and edge tables are loaded from.
type GraphConfig struct {
	Source         string `yaml:"source" validate:"oneof=csv sqlite neo4j"`
	NodesPath      string `yaml:"nodes_path" validate:"required_if=Source csv"`
	EdgesPath      string `yaml:"edges_path" validate:"required_if=Source csv"`
	SQLitePath     string `yaml:"sqlite_path" validate:"required_if=Source sqlite"`
	URI            string `yaml:"uri" validate:"required_if=Source neo4j"`
	Database       string `yaml:"database"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	MaxConnections int    `yaml:"max_connections" validate:"gte=0"`
	Watch          bool   `yaml:"watch"`
	BatchWorkers   int    `yaml:"batch_workers" validate:"min=1,max=256"`
	BatchMaxPairs  int    `yaml:"batch_max_pairs" validate:"min=1"`
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format        string `yaml:"format" validate:"omitempty,oneof=text json"`
	Colored       bool   `yaml:"colored"`
	IncludeCaller bool   `yaml:"include_caller"`
}

const (
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
	SourceNeo4j  = "neo4j"
)

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 5001
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 15 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultAllowedOrigins   = "*"
	defaultRateBurst        = 20
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultGraphSource      = SourceCSV
	defaultNodesPath        = "nodes.csv"
	defaultEdgesPath        = "edges.csv"
	defaultSQLitePath       = "graph.db"
	defaultGraphMaxSessions = 10
	defaultBatchWorkers     = 4
	defaultBatchMaxPairs    = 1000
)

var validate = validator.New()

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Host:              defaultHost,
			Port:              defaultPort,
			ReadTimeout:       defaultReadTimeout,
			WriteTimeout:      defaultWriteTimeout,
			IdleTimeout:       defaultIdleTimeout,
			ShutdownTimeout:   defaultShutdownTimeout,
			AllowedOriginsCSV: defaultAllowedOrigins,
			RateBurst:         defaultRateBurst,
		},
		Graph: GraphConfig{
			Source:         defaultGraphSource,
			NodesPath:      defaultNodesPath,
			EdgesPath:      defaultEdgesPath,
			SQLitePath:     defaultSQLitePath,
			MaxConnections: defaultGraphMaxSessions,
			BatchWorkers:   defaultBatchWorkers,
			BatchMaxPairs:  defaultBatchMaxPairs,
		},
		Logging: LoggingConfig{
			Level:  defaultLoggingLevel,
			Format: defaultLoggingFormat,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables, and validates the result.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field and range constraints.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config %s: failed %q constraint", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.HTTP.Host = valueOrDefault("SERVER_HOST", cfg.HTTP.Host)

	port, err := parsePort("SERVER_PORT", cfg.HTTP.Port)
	if err != nil {
		return err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout},
	}
	for _, d := range durations {
		if v := os.Getenv(d.key); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", d.key, err)
			}
			*d.dst = parsed
		}
	}

	cfg.HTTP.MetricsEnabled = parseBoolWithDefault("SERVER_METRICS_ENABLED", cfg.HTTP.MetricsEnabled)
	cfg.HTTP.AllowedOriginsCSV = valueOrDefault("SERVER_ALLOWED_ORIGINS", cfg.HTTP.AllowedOriginsCSV)
	cfg.HTTP.AllowCredentials = parseBoolWithDefault("SERVER_ALLOW_CREDENTIALS", cfg.HTTP.AllowCredentials)
	cfg.HTTP.RateLimit = parseFloatWithDefault("SERVER_RATE_LIMIT", cfg.HTTP.RateLimit)
	cfg.HTTP.RateBurst = parseIntWithDefault("SERVER_RATE_BURST", cfg.HTTP.RateBurst)
	cfg.HTTP.StaticDir = valueOrDefault("SERVER_STATIC_DIR", cfg.HTTP.StaticDir)

	cfg.Graph.Source = valueOrDefault("GRAPH_SOURCE", cfg.Graph.Source)
	cfg.Graph.NodesPath = valueOrDefault("GRAPH_NODES_PATH", cfg.Graph.NodesPath)
	cfg.Graph.EdgesPath = valueOrDefault("GRAPH_EDGES_PATH", cfg.Graph.EdgesPath)
	cfg.Graph.SQLitePath = valueOrDefault("GRAPH_SQLITE_PATH", cfg.Graph.SQLitePath)
	cfg.Graph.URI = valueOrDefault("GRAPH_URI", cfg.Graph.URI)
	cfg.Graph.Database = valueOrDefault("GRAPH_DATABASE", cfg.Graph.Database)
	cfg.Graph.Username = valueOrDefault("GRAPH_USERNAME", cfg.Graph.Username)
	cfg.Graph.Password = valueOrDefault("GRAPH_PASSWORD", cfg.Graph.Password)
	cfg.Graph.MaxConnections = parseIntWithDefault("GRAPH_MAX_CONNECTIONS", cfg.Graph.MaxConnections)
	cfg.Graph.Watch = parseBoolWithDefault("GRAPH_WATCH", cfg.Graph.Watch)
	cfg.Graph.BatchWorkers = parseIntWithDefault("GRAPH_BATCH_WORKERS", cfg.Graph.BatchWorkers)
	cfg.Graph.BatchMaxPairs = parseIntWithDefault("GRAPH_BATCH_MAX_PAIRS", cfg.Graph.BatchMaxPairs)

	cfg.Logging.Level = valueOrDefault("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = valueOrDefault("LOG_FORMAT", cfg.Logging.Format)
	cfg.Logging.Colored = parseBoolWithDefault("LOG_COLOR", cfg.Logging.Colored)
	cfg.Logging.IncludeCaller = parseBoolWithDefault("LOG_INCLUDE_CALLER", cfg.Logging.IncludeCaller)

	return nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parseFloatWithDefault(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil {
			return val
		}
	}
	return fallback
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
