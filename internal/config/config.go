// Package config loads planops settings from an optional YAML file, a .env
// file and PLANOPS_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/planops/internal/logging"
	"github.com/alexanderramin/planops/internal/planrules"
)

type Config struct {
	DB     DBConfig     `koanf:"db"`
	Server ServerConfig `koanf:"server"`
	Auth   AuthConfig   `koanf:"auth"`
	Plan   PlanConfig   `koanf:"plan"`
	Log    LogConfig    `koanf:"log"`
}

type DBConfig struct {
	Path string `koanf:"path"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type AuthConfig struct {
	JWTSecret Secret `koanf:"jwt_secret"`
	// CLIActor is recorded as the editor for changes made from the command line.
	CLIActor string `koanf:"cli_actor"`
}

type PlanConfig struct {
	MonthlyDuePolicy string `koanf:"monthly_due_policy"`
	BatchSize        int    `koanf:"batch_size"`
	ReadConcurrency  int    `koanf:"read_concurrency"`
}

// DuePolicy returns the parsed monthly due-date policy. Validate has already
// rejected unknown values.
func (p PlanConfig) DuePolicy() planrules.MonthlyDuePolicy {
	policy, err := planrules.ParseMonthlyDuePolicy(p.MonthlyDuePolicy)
	if err != nil {
		return planrules.DueCurrentMonth
	}
	return policy
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Logging converts to the logger's own config type.
func (l LogConfig) Logging() logging.Config {
	return logging.Config{Level: l.Level, Format: l.Format}
}

// Secret is a string that prints redacted.
type Secret string

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

func (s Secret) GoString() string {
	return "Secret([REDACTED])"
}

// Value returns the secret itself.
func (s Secret) Value() string {
	return string(s)
}

const (
	DefaultDBPath          = "data/planops.db"
	DefaultHost            = "127.0.0.1"
	DefaultPort            = 8080
	DefaultShutdownTimeout = 10 * time.Second
	DefaultCLIActor        = "cli"
	DefaultBatchSize       = 500
	DefaultReadConcurrency = 8
)

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.DB.Path == "" {
		cfg.DB.Path = DefaultDBPath
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Auth.CLIActor == "" {
		cfg.Auth.CLIActor = DefaultCLIActor
	}
	if cfg.Plan.MonthlyDuePolicy == "" {
		cfg.Plan.MonthlyDuePolicy = string(planrules.DueCurrentMonth)
	}
	if cfg.Plan.BatchSize == 0 {
		cfg.Plan.BatchSize = DefaultBatchSize
	}
	if cfg.Plan.ReadConcurrency == 0 {
		cfg.Plan.ReadConcurrency = DefaultReadConcurrency
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}

// Validate checks values after defaults are applied.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.DB.Path) == "" {
		problems = append(problems, "db.path is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.ShutdownTimeout < 0 {
		problems = append(problems, "server.shutdown_timeout must not be negative")
	}
	if _, err := planrules.ParseMonthlyDuePolicy(c.Plan.MonthlyDuePolicy); err != nil {
		problems = append(problems, "plan."+err.Error())
	}
	if c.Plan.BatchSize < 1 {
		problems = append(problems, "plan.batch_size must be positive")
	}
	if c.Plan.ReadConcurrency < 1 {
		problems = append(problems, "plan.read_concurrency must be positive")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, err.Error())
	}
	if f := strings.ToLower(c.Log.Format); f != "json" && f != "console" {
		problems = append(problems, fmt.Sprintf("log.format %q must be json or console", c.Log.Format))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
