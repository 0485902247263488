package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Security SecurityConfig `mapstructure:"security"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name         string `mapstructure:"name"`
	Version      string `mapstructure:"version"`
	Environment  string `mapstructure:"environment"`
	Debug        bool   `mapstructure:"debug"`
	SeedExamples bool   `mapstructure:"seed_examples"`
}

// ServerConfig holds bridge server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// StorageConfig selects and configures the persistence backend. Backend
// "auto" picks the file backend when the desktop shell bridge is present
// and the key-value backend otherwise.
type StorageConfig struct {
	Backend  string      `mapstructure:"backend"`
	DataDir  string      `mapstructure:"data_dir"`
	FileName string      `mapstructure:"file_name"`
	Redis    RedisConfig `mapstructure:"redis"`
}

// RedisConfig holds key-value backend configuration
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	CORSAllowedOrigins string        `mapstructure:"cors_allowed_origins"`
	RateLimitRequests  int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow    time.Duration `mapstructure:"rate_limit_window"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load loads configuration from various sources
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()
	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Storage.DataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = "."
		}
		cfg.Storage.DataDir = filepath.Join(base, "daybook")
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	// App defaults
	viper.SetDefault("app.name", "Daybook")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.seed_examples", false)

	// Server defaults
	viper.SetDefault("server.port", 8173)
	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// Storage defaults
	viper.SetDefault("storage.backend", "auto")
	viper.SetDefault("storage.data_dir", "")
	viper.SetDefault("storage.file_name", "daybook.json")
	viper.SetDefault("storage.redis.host", "localhost")
	viper.SetDefault("storage.redis.port", 6379)
	viper.SetDefault("storage.redis.password", "")
	viper.SetDefault("storage.redis.db", 0)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "json")
	viper.SetDefault("logger.output", "stdout")
	viper.SetDefault("logger.filename", "")

	// Security defaults
	viper.SetDefault("security.cors_allowed_origins", "*")
	viper.SetDefault("security.rate_limit_requests", 100)
	viper.SetDefault("security.rate_limit_window", "1m")

	// Metrics defaults
	viper.SetDefault("metrics.enabled", true)
}

func bindEnvVars() {
	// App
	viper.BindEnv("app.name", "DAYBOOK_APP_NAME")
	viper.BindEnv("app.version", "DAYBOOK_APP_VERSION")
	viper.BindEnv("app.environment", "DAYBOOK_ENVIRONMENT")
	viper.BindEnv("app.debug", "DAYBOOK_DEBUG")
	viper.BindEnv("app.seed_examples", "DAYBOOK_SEED_EXAMPLES")

	// Server
	viper.BindEnv("server.port", "DAYBOOK_SERVER_PORT")
	viper.BindEnv("server.host", "DAYBOOK_SERVER_HOST")
	viper.BindEnv("server.read_timeout", "DAYBOOK_SERVER_READ_TIMEOUT")
	viper.BindEnv("server.write_timeout", "DAYBOOK_SERVER_WRITE_TIMEOUT")
	viper.BindEnv("server.idle_timeout", "DAYBOOK_SERVER_IDLE_TIMEOUT")

	// Storage
	viper.BindEnv("storage.backend", "DAYBOOK_STORAGE_BACKEND")
	viper.BindEnv("storage.data_dir", "DAYBOOK_DATA_DIR")
	viper.BindEnv("storage.file_name", "DAYBOOK_FILE_NAME")
	viper.BindEnv("storage.redis.host", "DAYBOOK_REDIS_HOST")
	viper.BindEnv("storage.redis.port", "DAYBOOK_REDIS_PORT")
	viper.BindEnv("storage.redis.password", "DAYBOOK_REDIS_PASSWORD")
	viper.BindEnv("storage.redis.db", "DAYBOOK_REDIS_DB")

	// Logger
	viper.BindEnv("logger.level", "DAYBOOK_LOG_LEVEL")
	viper.BindEnv("logger.format", "DAYBOOK_LOG_FORMAT")
	viper.BindEnv("logger.output", "DAYBOOK_LOG_OUTPUT")
	viper.BindEnv("logger.filename", "DAYBOOK_LOG_FILENAME")

	// Security
	viper.BindEnv("security.cors_allowed_origins", "DAYBOOK_CORS_ALLOWED_ORIGINS")
	viper.BindEnv("security.rate_limit_requests", "DAYBOOK_RATE_LIMIT_REQUESTS")
	viper.BindEnv("security.rate_limit_window", "DAYBOOK_RATE_LIMIT_WINDOW")

	// Metrics
	viper.BindEnv("metrics.enabled", "DAYBOOK_ENABLE_METRICS")
}

func validateConfig(cfg *Config) error {
	switch cfg.Storage.Backend {
	case "auto", "file", "kv":
	default:
		return fmt.Errorf("storage backend must be one of auto, file, kv")
	}

	if cfg.Storage.FileName == "" {
		return fmt.Errorf("storage file name is required")
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	return nil
}

// FilePath returns the full path of the desktop document.
func (cfg *StorageConfig) FilePath() string {
	return filepath.Join(cfg.DataDir, cfg.FileName)
}

// GetAddr returns the key-value server address
func (cfg *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// IsDevelopment returns true if the environment is development
func (cfg *AppConfig) IsDevelopment() bool {
	return cfg.Environment == "development"
}

// IsProduction returns true if the environment is production
func (cfg *AppConfig) IsProduction() bool {
	return cfg.Environment == "production"
}
