package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oatsaysai/lend-reminder/internal/reminder"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	DiscordBot DiscordBotConfig
	Server     ServerConfig
	Auth       AuthConfig
	Storage    StorageConfig
	PostgreSQL PostgreSQLConfig
	SQLite     SQLiteConfig
	Reminder   ReminderConfig
	PromptPay  PromptPayConfig
	Log        LogConfig
}

// DiscordBotConfig holds Discord bot configuration
type DiscordBotConfig struct {
	Token           string
	DefaultCurrency string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Enabled bool
	Port    string
}

// AuthConfig holds the HMAC secret used to verify API bearer tokens
type AuthConfig struct {
	JWTSecret string
}

// StorageConfig selects the loan store
type StorageConfig struct {
	Driver string // "postgres" or "sqlite"
}

// PostgreSQLConfig holds database configuration
type PostgreSQLConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	Schema       string
	SSLMode      string
	PoolMaxConns int
}

// SQLiteConfig holds the local database path
type SQLiteConfig struct {
	Path string
}

// ReminderConfig holds the reminder timing policy
type ReminderConfig struct {
	GraceDays    int
	CooldownDays int
	MaxReminders int
}

// Policy converts the reminder settings into a reminder.Policy
func (c ReminderConfig) Policy() reminder.Policy {
	return reminder.Policy{
		GraceDays:    c.GraceDays,
		CooldownDays: c.CooldownDays,
		MaxReminders: c.MaxReminders,
	}.WithDefaults()
}

// PromptPayConfig holds the lender's PromptPay ID for THB payment QR codes
type PromptPayConfig struct {
	ID string
}

// LogConfig holds logger options
type LogConfig struct {
	Development bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DiscordBot.Token", "")
	v.SetDefault("DiscordBot.DefaultCurrency", "INR")

	v.SetDefault("Server.Enabled", true)
	v.SetDefault("Server.Port", "8080")
	v.SetDefault("Auth.JWTSecret", "")

	v.SetDefault("Storage.Driver", "postgres")

	v.SetDefault("PostgreSQL.Host", "localhost")
	v.SetDefault("PostgreSQL.Port", 5432)
	v.SetDefault("PostgreSQL.User", "postgres")
	v.SetDefault("PostgreSQL.Password", "")
	v.SetDefault("PostgreSQL.DBName", "lend-reminder")
	v.SetDefault("PostgreSQL.Schema", "public")
	v.SetDefault("PostgreSQL.SSLMode", "disable")
	v.SetDefault("PostgreSQL.PoolMaxConns", 10)

	v.SetDefault("SQLite.Path", "lend-reminder.db")

	v.SetDefault("Reminder.GraceDays", reminder.DefaultPolicy.GraceDays)
	v.SetDefault("Reminder.CooldownDays", reminder.DefaultPolicy.CooldownDays)
	v.SetDefault("Reminder.MaxReminders", reminder.DefaultPolicy.MaxReminders)

	v.SetDefault("PromptPay.ID", "")
	v.SetDefault("Log.Development", false)
}

// Load loads configuration from file and environment variables. An empty
// configPath looks for an optional config.yaml in the working directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the selected components have what they need
func (c *Config) Validate() error {
	if c.DiscordBot.Token == "" && !c.Server.Enabled {
		return fmt.Errorf("nothing to run: set DiscordBot.Token or enable Server")
	}
	if c.Server.Enabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth JWT secret is required when the HTTP server is enabled")
	}

	switch strings.ToLower(c.Storage.Driver) {
	case "postgres":
		if c.PostgreSQL.Host == "" || c.PostgreSQL.DBName == "" {
			return fmt.Errorf("database configuration is incomplete")
		}
	case "sqlite":
		if c.SQLite.Path == "" {
			return fmt.Errorf("sqlite path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	c.Storage.Driver = strings.ToLower(c.Storage.Driver)
	return nil
}
