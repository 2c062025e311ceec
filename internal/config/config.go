package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// On-disk stores (legacy-compatible JSON formats)
	CacheDir       string
	HistoryFile    string
	OptionsFile    string
	SettingsFile   string
	AccessKeysFile string

	// Store backend selection
	StoreBackend string
	SQLiteDBPath string

	// AMQP (optional; enables async Google Sheets export)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export
	GoogleCredentialsFile string
	GoogleCredentialsJSON string

	// Sessions
	SessionTTL time.Duration
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		CacheDir:       getEnv("CACHE_DIR", "cache_data"),
		HistoryFile:    getEnv("HISTORY_FILE", "upload_history.json"),
		OptionsFile:    getEnv("OPTIONS_FILE", "options.json"),
		SettingsFile:   getEnv("SETTINGS_FILE", "settings.json"),
		AccessKeysFile: getEnv("ACCESS_KEYS_FILE", "access_keys.txt"),

		StoreBackend: getEnv("STORE_BACKEND", "json"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/contabil.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "contabil"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "export_tables"),

		GoogleCredentialsFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", "credentials.json"),
		GoogleCredentialsJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),

		SessionTTL: getEnvDuration("SESSION_TTL", 4*time.Hour),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.CacheDir == "" {
		errors = append(errors, "cache directory cannot be empty")
	}
	if c.HistoryFile == "" {
		errors = append(errors, "history file path cannot be empty")
	}
	if c.OptionsFile == "" {
		errors = append(errors, "options file path cannot be empty")
	}
	if c.SettingsFile == "" {
		errors = append(errors, "settings file path cannot be empty")
	}
	if c.AccessKeysFile == "" {
		errors = append(errors, "access keys file path cannot be empty")
	}

	switch c.StoreBackend {
	case "json":
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid store backend '%s': must be one of [json sqlite]", c.StoreBackend))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
