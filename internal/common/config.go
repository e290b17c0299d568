package common

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	OCR      OCRConfig
	LLM      LLMConfig
	Parser   ParserConfig
}

// DatabaseConfig holds database-related configuration. PostgresDSN selects
// the pgx store; when it is empty the daemon falls back to the SQLite file.
type DatabaseConfig struct {
	PostgresDSN     string
	SQLitePath      string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr string
}

// OCRConfig holds OCR adapter configuration
type OCRConfig struct {
	Tesseract     string
	TesseractLang string
	PSM           int
	HeaderShare   float64 // fraction of fragments treated as header region
}

// LLMConfig holds vision-fallback configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// ParserConfig holds line-parser thresholds
type ParserConfig struct {
	MinConfidence float64
	AdvisoryBelow float64 // avg OCR confidence below this raises the advisory
}

// LoadConfig loads configuration from the environment (and a .env file when
// present).
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Database: DatabaseConfig{
			PostgresDSN:     getEnv("DB_URL", ""),
			SQLitePath:      getEnv("SQLITE_PATH", "data/receipts.db"),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		OCR: OCRConfig{
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			PSM:           getEnvAsInt("TESSERACT_PSM", 6),
			HeaderShare:   getEnvAsFloat64("OCR_HEADER_SHARE", 0.25),
		},
		LLM: LLMConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		Parser: ParserConfig{
			MinConfidence: getEnvAsFloat64("PARSER_MIN_CONFIDENCE", 0.30),
			AdvisoryBelow: getEnvAsFloat64("PARSER_ADVISORY_BELOW", 0.90),
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

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
