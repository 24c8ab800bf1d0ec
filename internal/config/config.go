package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/baigrayyan/music-recommender/internal/logger"
)

const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"

	defaultJWTSecret = "default-jwt-secret-change-in-production"
)

type Config struct {
	Env        string `yaml:"env"`
	ServerPort string `yaml:"server_port"`
	CORSOrigin string `yaml:"cors_origin"`

	DatasetSource string `yaml:"dataset_source"`
	DatasetPath   string `yaml:"dataset_path"`

	DefaultRecommendations int `yaml:"default_recommendations"`
	MaxRecommendations     int `yaml:"max_recommendations"`

	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`
	DBSSLMode  string `yaml:"db_sslmode"`

	JWTSecret         string `yaml:"jwt_secret"`
	AdminUsername     string `yaml:"admin_username"`
	AdminPasswordHash string `yaml:"admin_password_hash"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
}

// Default returns the development defaults.
func Default() *Config {
	return &Config{
		Env:                    "development",
		ServerPort:             "8080",
		DatasetSource:          SourceCSV,
		DatasetPath:            "clustered_df.csv",
		DefaultRecommendations: 5,
		MaxRecommendations:     50,
		DBHost:                 "localhost",
		DBPort:                 "5432",
		DBUser:                 "postgres",
		DBPassword:             "password",
		DBName:                 "music_app",
		DBSSLMode:              "disable",
		JWTSecret:              defaultJWTSecret,
		AdminUsername:          "admin",
		LogLevel:               "info",
		LogFormat:              "console",
		RateLimitRPS:           10,
		RateLimitBurst:         20,
	}
}

// LoadConfig builds the configuration. Precedence, lowest first:
// defaults, the YAML file named by CONFIG_FILE, environment (including .env).
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Env = getEnv("ENV", c.Env)

	// Local development defaults are never valid in production.
	if c.IsProduction() {
		dev := Default()
		c.DBHost = clearIfEqual(c.DBHost, dev.DBHost)
		c.DBUser = clearIfEqual(c.DBUser, dev.DBUser)
		c.DBPassword = clearIfEqual(c.DBPassword, dev.DBPassword)
		c.DBName = clearIfEqual(c.DBName, dev.DBName)
		if c.DBSSLMode == dev.DBSSLMode {
			c.DBSSLMode = "require"
		}
		if c.LogFormat == dev.LogFormat {
			c.LogFormat = "json"
		}
	}

	c.ServerPort = getEnv("SERVER_PORT", c.ServerPort)
	c.ServerPort = getEnv("PORT", c.ServerPort)
	c.CORSOrigin = getEnv("CORS_ORIGIN", c.CORSOrigin)

	c.DatasetSource = strings.ToLower(getEnv("DATASET_SOURCE", c.DatasetSource))
	c.DatasetPath = getEnv("DATASET_PATH", c.DatasetPath)
	c.DefaultRecommendations = getEnvInt("DEFAULT_RECOMMENDATIONS", c.DefaultRecommendations)
	c.MaxRecommendations = getEnvInt("MAX_RECOMMENDATIONS", c.MaxRecommendations)

	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPassword = getEnv("DB_PASSWORD", c.DBPassword)
	c.DBName = getEnv("DB_NAME", c.DBName)
	c.DBSSLMode = getEnv("DB_SSLMODE", c.DBSSLMode)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.AdminUsername = getEnv("ADMIN_USERNAME", c.AdminUsername)
	c.AdminPasswordHash = getEnv("ADMIN_PASSWORD_HASH", c.AdminPasswordHash)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)

	c.RateLimitRPS = getEnvFloat("RATE_LIMIT_RPS", c.RateLimitRPS)
	c.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", c.RateLimitBurst)
}

// Validate rejects combinations the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	switch c.DatasetSource {
	case SourceCSV:
		if c.DatasetPath == "" {
			errs = append(errs, errors.New("DATASET_PATH is required for the csv source"))
		}
	case SourcePostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown DATASET_SOURCE %q (want %s or %s)", c.DatasetSource, SourceCSV, SourcePostgres))
	}

	if c.DefaultRecommendations <= 0 {
		errs = append(errs, errors.New("DEFAULT_RECOMMENDATIONS must be positive"))
	}
	if c.MaxRecommendations < c.DefaultRecommendations {
		errs = append(errs, errors.New("MAX_RECOMMENDATIONS must not be below DEFAULT_RECOMMENDATIONS"))
	}
	if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		errs = append(errs, errors.New("rate limit settings must not be negative"))
	}

	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// DatabaseConfigured reports whether enough settings exist to dial Postgres.
func (c *Config) DatabaseConfigured() bool {
	return c.DBHost != "" && c.DBUser != "" && c.DBName != ""
}

// DSN is the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// AdminEnabled reports whether admin login is possible.
func (c *Config) AdminEnabled() bool {
	return c.AdminUsername != "" && c.AdminPasswordHash != ""
}

func clearIfEqual(value, devDefault string) string {
	if value == devDefault {
		return ""
	}
	return value
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		logger.Warn().Str("key", key).Str("value", raw).Msg("invalid integer, using default")
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logger.Warn().Str("key", key).Str("value", raw).Msg("invalid number, using default")
		return defaultValue
	}
	return v
}
