package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	History  HistoryConfig
	Server   ServerConfig
	OCR      OCRConfig
	Detector DetectorConfig
	Watch    WatchConfig
}

// HistoryConfig holds client-history persistence configuration.
// SQLitePath is the default local mode; a non-empty DSN switches the
// history store to the remote Postgres table.
type HistoryConfig struct {
	SQLitePath       string
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxUploadMB  int
	QueueWorkers int
	QueueBuffer  int
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Tesseract        string
	Pdftoppm         string
	Languages        string
	TessdataDir      string
	ArtifactCacheDir string
}

// DetectorConfig holds face-detection service configuration
type DetectorConfig struct {
	BaseURL string
	Timeout time.Duration
}

// WatchConfig holds drop-folder watching configuration. Empty Dirs
// disables watching.
type WatchConfig struct {
	Dirs     []string
	Debounce time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		History: HistoryConfig{
			SQLitePath:       getEnv("HISTORY_SQLITE_PATH", "./visaflow.db"),
			DSN:              getEnv("HISTORY_DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
			ReadTimeout:  getEnvAsDuration("HTTP_READ_TIMEOUT", 60*time.Second),
			WriteTimeout: getEnvAsDuration("HTTP_WRITE_TIMEOUT", 120*time.Second),
			MaxUploadMB:  getEnvAsInt("HTTP_MAX_UPLOAD_MB", 25),
			QueueWorkers: getEnvAsInt("EXTRACT_WORKERS", 2),
			QueueBuffer:  getEnvAsInt("EXTRACT_QUEUE_SIZE", 64),
		},
		OCR: OCRConfig{
			Tesseract:        getEnv("TESSERACT_BIN", ""),
			Pdftoppm:         getEnv("PDFTOPPM_BIN", ""),
			Languages:        getEnv("OCR_LANGUAGES", "ara+eng"),
			TessdataDir:      getEnv("TESSDATA_PREFIX", ""),
			ArtifactCacheDir: getEnv("ARTIFACT_CACHE_DIR", "./tmp"),
		},
		Detector: DetectorConfig{
			BaseURL: getEnv("FACE_DETECTOR_URL", ""),
			Timeout: getEnvAsDuration("FACE_DETECTOR_TIMEOUT", 30*time.Second),
		},
		Watch: WatchConfig{
			Dirs:     getEnvAsList("WATCH_DIRS"),
			Debounce: getEnvAsDuration("WATCH_DEBOUNCE", 2*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.History.SQLitePath == "" && c.History.DSN == "" {
		return NewAppError("CONFIG_ERROR", "one of HISTORY_SQLITE_PATH or HISTORY_DB_URL is required", ErrInvalidInput)
	}
	if c.OCR.Languages == "" {
		return NewAppError("CONFIG_ERROR", "OCR_LANGUAGES is required", ErrInvalidInput)
	}
	return nil
}
