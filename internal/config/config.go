package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DBConfig holds the MySQL connection settings.
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the go-sql-driver connection string.
// parseTime=true so DATETIME columns scan into time.Time.
func (c *DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string
	AllowedOrigin  string
	TrustedProxies []string
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret        string
	ExpirationHrs int
}

// UploadConfig holds the file storage layout.
type UploadConfig struct {
	Root     string
	StageDir string

	// StageMaxAge is how long a staged file may sit in the temp
	// directory before the startup sweep removes it as an orphan.
	StageMaxAge time.Duration
}

// Config is the full application configuration, loaded once at startup.
type Config struct {
	Env    string
	DB     DBConfig
	Server ServerConfig
	JWT    JWTConfig
	Upload UploadConfig
}

// Load reads configuration from the environment. A .env file is loaded
// first if present. The JWT secret is mandatory: the process must not
// boot with a guessable default.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env: getEnv("APP_ENV", "development"),
		DB: DBConfig{
			Host:            getEnv("DB_HOST", "127.0.0.1"),
			Port:            getEnv("DB_PORT", "3306"),
			User:            getEnv("DB_USER", "root"),
			Password:        getEnv("DB_PASSWORD", ""),
			DBName:          getEnv("DB_NAME", "vendormart"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Server: ServerConfig{
			Port:          getEnv("SERVER_PORT", "8080"),
			AllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:5173"),
		},
		JWT: JWTConfig{
			Secret:        os.Getenv("JWT_SECRET"),
			ExpirationHrs: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		},
		Upload: UploadConfig{
			Root:        getEnv("UPLOAD_ROOT", "uploads"),
			StageDir:    getEnv("UPLOAD_STAGE_DIR", "uploads/tmp"),
			StageMaxAge: getEnvAsDuration("UPLOAD_STAGE_MAX_AGE", 24*time.Hour),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is not set; refusing to start with no signing secret")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
