package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Identity resolution modes.
const (
	AuthModeHeader = "header"
	AuthModeJWT    = "jwt"
)

// Config holds the application configuration.
type Config struct {
	ServerPort     int      `yaml:"port"`
	DatabasePath   string   `yaml:"database_path"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	LogLevel       string   `yaml:"log_level"`
	LogFile        string   `yaml:"log_file"` // Empty disables the rotating file sink
	AuthMode       string   `yaml:"auth_mode"`
	JWTSecret      string   `yaml:"jwt_secret"`
	SecureCookies  bool     `yaml:"secure_cookies"`
	BcryptCost     int      `yaml:"bcrypt_cost"`
	ReminderCron   string   `yaml:"reminder_cron"` // Empty disables daily reminders
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		ServerPort:     3000,
		DatabasePath:   "./habit_tracker.db",
		AllowedOrigins: []string{"*"},
		LogLevel:       "info",
		AuthMode:       AuthModeHeader,
		BcryptCost:     10,
		ReminderCron:   "0 20 * * *",
	}
}

// Load builds the configuration from defaults, an optional YAML file, a .env
// file and finally the process environment. Later sources win.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.ServerPort = port
	}
	if v, ok := os.LookupEnv("BCRYPT_COST"); ok {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BCRYPT_COST %q: %w", v, err)
		}
		c.BcryptCost = cost
	}
	if v, ok := os.LookupEnv("SECURE_COOKIES"); ok {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SECURE_COOKIES %q: %w", v, err)
		}
		c.SecureCookies = secure
	}
	if v, ok := os.LookupEnv("ALLOWED_ORIGINS"); ok {
		c.AllowedOrigins = splitList(v)
	}

	c.DatabasePath = getEnv("DATABASE_PATH", c.DatabasePath)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)
	c.AuthMode = getEnv("AUTH_MODE", c.AuthMode)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.ReminderCron = getEnv("REMINDER_CRON", c.ReminderCron)
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.ServerPort)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	switch c.AuthMode {
	case AuthModeHeader:
	case AuthModeJWT:
		if c.JWTSecret == "" {
			return fmt.Errorf("jwt_secret is required when auth_mode is %q", AuthModeJWT)
		}
	default:
		return fmt.Errorf("unknown auth_mode %q", c.AuthMode)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("bcrypt_cost must be between 4 and 31, got %d", c.BcryptCost)
	}
	if c.ReminderCron != "" {
		if _, err := cron.ParseStandard(c.ReminderCron); err != nil {
			return fmt.Errorf("invalid reminder_cron: %w", err)
		}
	}
	return nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
