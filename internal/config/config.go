package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverOracle   = "oracle"
)

type Config struct {
	Server      ServerConfig
	DB          DBConfig
	Redis       RedisConfig
	Logger      LoggerConfig
	JWT         JWTConfig
	Auth        AuthConfig
	Assessment  AssessmentConfig
	Cache       CacheConfig
	Embedding   EmbeddingConfig
	VectorStore VectorStoreConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DBConfig struct {
	Driver       string
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type LoggerConfig struct {
	Env   string
	Level string
}

type JWTConfig struct {
	SecretKey string
}

// AuthConfig maps token roles to the capabilities they grant.
type AuthConfig struct {
	RoleCapabilities map[string][]string
}

type AssessmentConfig struct {
	MaxRetries   int
	RetryBackoff time.Duration
}

type CacheConfig struct {
	QuestionBankTTL  time.Duration
	OperationTimeout time.Duration
}

type EmbeddingConfig struct {
	Source string // "ollama" or "openai"
	Ollama OllamaConfig
	OpenAI OpenAIConfig
}

type OllamaConfig struct {
	ServerURL string
	Model     string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type VectorStoreConfig struct {
	Prefix string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "20s")
	v.SetDefault("server.write_timeout", "20s")
	v.SetDefault("server.idle_timeout", "20s")

	v.SetDefault("db.driver", DriverPostgres)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "compass")
	v.SetDefault("db.password", "compass")
	v.SetDefault("db.name", "career_compass")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.level", "info")

	v.SetDefault("jwt.secret_key", "")
	v.SetDefault("auth.role_capabilities", map[string][]string{
		"learner": {"assessment:submit", "profile:write"},
		"editor":  {"assessment:submit", "profile:write", "content:write"},
		"admin":   {"assessment:submit", "profile:write", "content:write", "admin:reconcile"},
	})

	v.SetDefault("assessment.max_retries", 3)
	v.SetDefault("assessment.retry_backoff", "50ms")

	v.SetDefault("cache.question_bank_ttl", "10m")
	v.SetDefault("cache.operation_timeout", "250ms")

	v.SetDefault("embedding.source", "ollama")
	v.SetDefault("embedding.ollama.server_url", "http://localhost:11434")
	v.SetDefault("embedding.ollama.model", "nomic-embed-text")
	v.SetDefault("embedding.openai.api_key", "")
	v.SetDefault("embedding.openai.model", "text-embedding-3-small")

	v.SetDefault("vector_store.prefix", "knowledge")
}

// LoadConfig reads config.yaml (if present) and overlays environment variables,
// e.g. DB_HOST overrides db.host.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../configs")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			IdleTimeout:  v.GetDuration("server.idle_timeout"),
		},
		DB: DBConfig{
			Driver:       strings.ToLower(v.GetString("db.driver")),
			Host:         v.GetString("db.host"),
			Port:         v.GetInt("db.port"),
			User:         v.GetString("db.user"),
			Password:     v.GetString("db.password"),
			DBName:       v.GetString("db.name"),
			SSLMode:      v.GetString("db.sslmode"),
			MaxOpenConns: v.GetInt("db.max_open_conns"),
			MaxIdleConns: v.GetInt("db.max_idle_conns"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Env:   v.GetString("logger.env"),
			Level: v.GetString("logger.level"),
		},
		JWT: JWTConfig{
			SecretKey: v.GetString("jwt.secret_key"),
		},
		Auth: AuthConfig{
			RoleCapabilities: v.GetStringMapStringSlice("auth.role_capabilities"),
		},
		Assessment: AssessmentConfig{
			MaxRetries:   v.GetInt("assessment.max_retries"),
			RetryBackoff: v.GetDuration("assessment.retry_backoff"),
		},
		Cache: CacheConfig{
			QuestionBankTTL:  v.GetDuration("cache.question_bank_ttl"),
			OperationTimeout: v.GetDuration("cache.operation_timeout"),
		},
		Embedding: EmbeddingConfig{
			Source: v.GetString("embedding.source"),
			Ollama: OllamaConfig{
				ServerURL: v.GetString("embedding.ollama.server_url"),
				Model:     v.GetString("embedding.ollama.model"),
			},
			OpenAI: OpenAIConfig{
				APIKey: v.GetString("embedding.openai.api_key"),
				Model:  v.GetString("embedding.openai.model"),
			},
		},
		VectorStore: VectorStoreConfig{
			Prefix: v.GetString("vector_store.prefix"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverOracle:
	default:
		return fmt.Errorf("unsupported db driver %q", c.DB.Driver)
	}
	if c.Assessment.MaxRetries < 0 {
		return fmt.Errorf("assessment.max_retries must not be negative")
	}
	return nil
}

// GetDSN builds the connection string for the configured driver.
func (c *Config) GetDSN() string {
	scheme := "postgres"
	if c.DB.Driver == DriverOracle {
		scheme = "oracle"
	}
	dsn := url.URL{
		Scheme: scheme,
		User:   url.UserPassword(c.DB.User, c.DB.Password),
		Host:   fmt.Sprintf("%s:%d", c.DB.Host, c.DB.Port),
		Path:   "/" + c.DB.DBName,
	}
	if c.DB.Driver == DriverPostgres && c.DB.SSLMode != "" {
		dsn.RawQuery = "sslmode=" + url.QueryEscape(c.DB.SSLMode)
	}
	return dsn.String()
}

// CapabilitiesFor resolves the union of capabilities granted by roles.
func (a AuthConfig) CapabilitiesFor(roles []string) map[string]struct{} {
	caps := make(map[string]struct{})
	for _, role := range roles {
		for _, capability := range a.RoleCapabilities[strings.ToLower(role)] {
			caps[capability] = struct{}{}
		}
	}
	return caps
}
