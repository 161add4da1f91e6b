package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"invoice-transformer/internal/logger"
)

type Config struct {
	// Directory layout
	InputDir   string
	OutputDir  string
	ArchiveDir string
	ErrorDir   string

	// Processing behavior
	ArchiveProcessed bool          // move processed sources to ArchiveDir instead of deleting
	PollInterval     time.Duration // input directory re-scan period
	SettleDelay      time.Duration // debounce for watch events
	LockRetryMax     int           // lock-check attempts per discovery
	LockRetryBase    time.Duration // linear retry delay unit (attempt × base)

	// Notification Configuration
	NotifyEnabled bool
	SummaryAt     string // daily summary time, "HH:MM" local
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	MailFrom      string
	MailTo        []string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		InputDir:   getEnv("INPUT_DIR", "./input"),
		OutputDir:  getEnv("OUTPUT_DIR", "./output"),
		ArchiveDir: getEnv("ARCHIVE_DIR", "./archive"),
		ErrorDir:   getEnv("ERROR_DIR", "./error"),

		ArchiveProcessed: getEnvBool("ARCHIVE_PROCESSED", true),
		PollInterval:     time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 60)) * time.Second,
		SettleDelay:      time.Duration(getEnvInt("SETTLE_DELAY_MS", 500)) * time.Millisecond,
		LockRetryMax:     getEnvInt("LOCK_RETRY_MAX", 5),
		LockRetryBase:    time.Duration(getEnvInt("LOCK_RETRY_BASE_MS", 1000)) * time.Millisecond,

		NotifyEnabled: getEnvBool("NOTIFY_ENABLED", false),
		SummaryAt:     getEnv("SUMMARY_AT", "18:00"),
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		MailFrom:      getEnv("MAIL_FROM", ""),
		MailTo:        splitList(getEnv("MAIL_TO", "")),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:     getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("INPUT_DIR is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}
	if c.ErrorDir == "" {
		return fmt.Errorf("ERROR_DIR is required")
	}
	if c.ArchiveProcessed && c.ArchiveDir == "" {
		return fmt.Errorf("ARCHIVE_DIR is required when ARCHIVE_PROCESSED is set")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL_SECONDS must be positive")
	}
	if c.LockRetryMax < 1 {
		return fmt.Errorf("LOCK_RETRY_MAX must be at least 1")
	}
	if c.NotifyEnabled {
		if c.SMTPHost == "" {
			return fmt.Errorf("SMTP_HOST is required when NOTIFY_ENABLED is set")
		}
		if c.MailFrom == "" {
			return fmt.Errorf("MAIL_FROM is required when NOTIFY_ENABLED is set")
		}
		if len(c.MailTo) == 0 {
			return fmt.Errorf("MAIL_TO is required when NOTIFY_ENABLED is set")
		}
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// splitList parses a comma-separated env value into trimmed entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
