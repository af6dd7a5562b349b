// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig             `mapstructure:"app"`
	Database DatabaseConfig        `mapstructure:"database"`
	Workers  map[string]TaskConfig `mapstructure:"workers"`
	Risk     RiskConfig            `mapstructure:"risk"`
	Ledger   LedgerConfig          `mapstructure:"ledger"`
	Metrics  MetricsConfig         `mapstructure:"metrics"`
	Logging  LoggingConfig         `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	AuditIndex string   `mapstructure:"audit_index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// TaskConfig holds the core settings applicable to every periodic worker task.
type TaskConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalSeconds int  `mapstructure:"interval_seconds"`
	Timeout         int  `mapstructure:"timeout"` // milliseconds
	MaxRetries      int  `mapstructure:"max_retries"`
}

// RiskConfig holds settings for the rescore-loans worker.
type RiskConfig struct {
	BatchSize int `mapstructure:"batch_size"`
	// StaleAfterSeconds selects loans whose last scoring run is older
	// than this when building a rescore batch.
	StaleAfterSeconds int `mapstructure:"stale_after_seconds"`
}

// LedgerConfig holds settings for the refresh-bankbook worker.
type LedgerConfig struct {
	SummaryTTLSeconds int `mapstructure:"summary_ttl_seconds"`
}

// MetricsConfig holds the /metrics endpoint settings.
type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
