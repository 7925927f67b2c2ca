package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/mailgraph/internal/platform/envutil"
)

const (
	SourceSynthetic = "synthetic"
	SourceExchange  = "exchange"
	SourceIMAP      = "imap"
	SourceEML       = "eml"
)

type Neo4jConfig struct {
	URI            string `yaml:"uri"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	Database       string `yaml:"database"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxPoolSize    int    `yaml:"max_pool_size"`
}

type IMAPConfig struct {
	Server     string `yaml:"server"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Mailbox    string `yaml:"mailbox"`
	SinceHours int    `yaml:"since_hours"`
}

type Config struct {
	LogMode     string      `yaml:"log_mode"`
	Source      string      `yaml:"source"`
	Count       int         `yaml:"count"`
	DryRun      bool        `yaml:"dry_run"`
	MetricsFile string      `yaml:"metrics_file"`
	EMLDir      string      `yaml:"eml_dir"`
	Neo4j       Neo4jConfig `yaml:"neo4j"`
	IMAP        IMAPConfig  `yaml:"imap"`
}

func Defaults() Config {
	return Config{
		LogMode: "development",
		Source:  SourceSynthetic,
		Count:   100,
		Neo4j: Neo4jConfig{
			URI:            "bolt://localhost:7687",
			User:           "neo4j",
			TimeoutSeconds: 10,
			MaxPoolSize:    50,
		},
		IMAP: IMAPConfig{
			Mailbox: "INBOX",
		},
	}
}

// Load layers defaults, an optional YAML file, then the environment (.env
// included). Flags are applied by the caller before Validate.
func Load(path string) (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := Defaults()
	if path == "" {
		path = strings.TrimSpace(os.Getenv("MAILGRAPH_CONFIG"))
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return &ConfigError{Code: ConfigErrorInvalidFile, Value: path, Cause: err}
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return &ConfigError{Code: ConfigErrorInvalidFile, Value: path, Cause: err}
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.Source = strings.ToLower(envutil.String("MAILGRAPH_SOURCE", cfg.Source))
	if raw := strings.TrimSpace(os.Getenv("MAILGRAPH_COUNT")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return &ConfigError{Code: ConfigErrorInvalidCount, Value: raw, Cause: err}
		}
		cfg.Count = n
	}
	cfg.DryRun = envutil.Bool("MAILGRAPH_DRY_RUN", cfg.DryRun)
	cfg.MetricsFile = envutil.String("MAILGRAPH_METRICS_FILE", cfg.MetricsFile)
	cfg.EMLDir = envutil.String("EML_DIR", cfg.EMLDir)

	cfg.Neo4j.URI = envutil.String("NEO4J_URI", cfg.Neo4j.URI)
	cfg.Neo4j.User = envutil.String("NEO4J_USER", cfg.Neo4j.User)
	cfg.Neo4j.Password = envutil.String("NEO4J_PASSWORD", cfg.Neo4j.Password)
	cfg.Neo4j.Database = envutil.String("NEO4J_DATABASE", cfg.Neo4j.Database)
	if v := envutil.Int("NEO4J_TIMEOUT_SECONDS", 0); v > 0 {
		cfg.Neo4j.TimeoutSeconds = v
	}
	if v := envutil.Int("NEO4J_MAX_POOL_SIZE", 0); v > 0 {
		cfg.Neo4j.MaxPoolSize = v
	}

	cfg.IMAP.Server = envutil.String("IMAP_SERVER", cfg.IMAP.Server)
	cfg.IMAP.User = envutil.String("IMAP_USER", cfg.IMAP.User)
	cfg.IMAP.Password = envutil.String("IMAP_PASSWORD", cfg.IMAP.Password)
	cfg.IMAP.Mailbox = envutil.String("IMAP_MAILBOX", cfg.IMAP.Mailbox)
	cfg.IMAP.SinceHours = envutil.Int("IMAP_SINCE_HOURS", cfg.IMAP.SinceHours)
	return nil
}

func (c Config) Validate() error {
	if c.Count < 0 {
		return &ConfigError{Code: ConfigErrorInvalidCount, Value: strconv.Itoa(c.Count)}
	}
	switch c.Source {
	case SourceSynthetic, SourceExchange:
	case SourceIMAP:
		if strings.TrimSpace(c.IMAP.Server) == "" {
			return &ConfigError{Code: ConfigErrorMissingIMAP, Value: "IMAP_SERVER"}
		}
		if strings.TrimSpace(c.IMAP.User) == "" {
			return &ConfigError{Code: ConfigErrorMissingIMAP, Value: "IMAP_USER"}
		}
	case SourceEML:
		if strings.TrimSpace(c.EMLDir) == "" {
			return &ConfigError{Code: ConfigErrorMissingEMLDir}
		}
	default:
		return &ConfigError{Code: ConfigErrorUnknownSource, Value: c.Source}
	}
	if c.DryRun {
		return nil
	}
	return validateNeo4jURI(c.Neo4j.URI)
}

func validateNeo4jURI(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return &ConfigError{Code: ConfigErrorMissingNeo4jURI}
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return &ConfigError{Code: ConfigErrorInvalidNeo4jURI, Value: raw, Cause: err}
	}
	switch parsed.Scheme {
	case "bolt", "bolt+s", "bolt+ssc", "neo4j", "neo4j+s", "neo4j+ssc":
		return nil
	default:
		return &ConfigError{Code: ConfigErrorInvalidNeo4jURI, Value: raw}
	}
}
