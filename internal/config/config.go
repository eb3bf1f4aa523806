package config

import (
	"os"
	"strconv"
	"time"

	"qbench/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Simulator SimulatorConfig
	Sweep     SweepConfig
	Database  DatabaseConfig
	Output    OutputConfig
	Server    ServerConfig
}

// SimulatorConfig holds simulation engine limits
type SimulatorConfig struct {
	MaxQubits int
}

// SweepConfig holds batch execution settings
type SweepConfig struct {
	Workers    int
	RunTimeout time.Duration
}

// DatabaseConfig holds result storage settings. An empty URL disables
// persistence.
type DatabaseConfig struct {
	URL string
}

// OutputConfig holds export paths; empty paths disable the corresponding
// export.
type OutputConfig struct {
	ExcelFile  string
	ReportFile string
}

// ServerConfig holds the results API settings
type ServerConfig struct {
	Port string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Simulator: SimulatorConfig{
			MaxQubits: getEnvIntOrDefault("QBENCH_MAX_QUBITS", 12),
		},
		Sweep: SweepConfig{
			Workers:    getEnvIntOrDefault("QBENCH_WORKERS", 4),
			RunTimeout: getEnvDurationOrDefault("QBENCH_RUN_TIMEOUT", 2*time.Minute),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("QBENCH_DATABASE_URL", ""),
		},
		Output: OutputConfig{
			ExcelFile:  getEnvOrDefault("QBENCH_EXCEL_FILE", ""),
			ReportFile: getEnvOrDefault("QBENCH_REPORT_FILE", ""),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Simulator.MaxQubits < 1 {
		return errors.ConfigInvalid("QBENCH_MAX_QUBITS must be at least 1")
	}
	if config.Sweep.Workers < 1 {
		return errors.ConfigInvalid("QBENCH_WORKERS must be at least 1")
	}
	if config.Sweep.RunTimeout <= 0 {
		return errors.ConfigInvalid("QBENCH_RUN_TIMEOUT must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
