package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	ShutdownTimeout time.Duration

	StorageDriver string
	StorageKey    string
	BoltPath      string

	RedisURL      string
	RedisPassword string
	RedisDB       int

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	AzureConnectionString string
	AzureTableName        string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	OpenAITimeout time.Duration

	AuthSecret   string
	AuthTokenTTL time.Duration

	LogLevel    string
	LogEncoding string
}

// Storage drivers accepted in STORAGE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverBolt     = "bolt"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverAzure    = "azure"
)

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 5*time.Second),

		StorageDriver: getEnv("STORAGE_DRIVER", DriverBolt),
		StorageKey:    getEnv("STORAGE_KEY", "kanban-board"),
		BoltPath:      getEnv("BOLT_PATH", "./data/board.db"),

		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "kanban_user"),
		DBPassword: getEnv("DB_PASSWORD", "kanban_pass"),
		DBName:     getEnv("DB_NAME", "kanban_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		AzureConnectionString: getEnv("AZURE_TABLES_CONNECTION_STRING", ""),
		AzureTableName:        getEnv("AZURE_TABLE_NAME", "boardsnapshots"),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAITimeout: getDuration("OPENAI_TIMEOUT", 60*time.Second),

		AuthSecret:   getEnv("AUTH_SECRET", ""),
		AuthTokenTTL: getDuration("AUTH_TOKEN_TTL", 30*24*time.Hour),

		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogEncoding: getEnv("LOG_ENCODING", "json"),
	}
}

// PostgresDSN builds the gorm DSN from the DB_* settings.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getDuration accepts Go duration strings or a plain number of seconds.
func getDuration(key string, defaultVal time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultVal
}
