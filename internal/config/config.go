package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	JWT      JWTConfig
	S3       S3Config
	Log      LogConfig
	Analyzer AnalyzerConfig
	Books    BooksConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AnalyzerConfig holds document analyzer settings.
type AnalyzerConfig struct {
	Provider    string `mapstructure:"provider"`
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	MaxRetries  int    `mapstructure:"max_retries"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// BooksConfig holds cloud accounting sync settings.
type BooksConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	OrganizationID string `mapstructure:"organization_id"`
	ClientID       string `mapstructure:"client_id"`
	ClientSecret   string `mapstructure:"client_secret"`
	RefreshToken   string `mapstructure:"refresh_token"`
	TokenURL       string `mapstructure:"token_url"`
	TimeoutSecs    int    `mapstructure:"timeout_secs"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the BM_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "billmunshi")
	v.SetDefault("db.password", "billmunshi_secret")
	v.SetDefault("db.name", "billmunshi_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "billmunshi")

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "billmunshi-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 50)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Analyzer defaults
	v.SetDefault("analyzer.provider", "openai")
	v.SetDefault("analyzer.api_key", "")
	v.SetDefault("analyzer.model", "gpt-4o")
	v.SetDefault("analyzer.max_retries", 2)
	v.SetDefault("analyzer.timeout_secs", 120)

	// Books defaults
	v.SetDefault("books.base_url", "https://www.zohoapis.in/books/v3")
	v.SetDefault("books.token_url", "https://accounts.zoho.in/oauth/v2/token")
	v.SetDefault("books.organization_id", "")
	v.SetDefault("books.client_id", "")
	v.SetDefault("books.client_secret", "")
	v.SetDefault("books.refresh_token", "")
	v.SetDefault("books.timeout_secs", 30)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "BM_SERVER_PORT",
		"server.read_timeout":     "BM_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "BM_SERVER_WRITE_TIMEOUT",
		"server.environment":      "BM_SERVER_ENVIRONMENT",
		"db.host":                 "BM_DB_HOST",
		"db.port":                 "BM_DB_PORT",
		"db.user":                 "BM_DB_USER",
		"db.password":             "BM_DB_PASSWORD",
		"db.name":                 "BM_DB_NAME",
		"db.sslmode":              "BM_DB_SSLMODE",
		"db.max_open":             "BM_DB_MAX_OPEN",
		"db.max_idle":             "BM_DB_MAX_IDLE",
		"jwt.secret":              "BM_JWT_SECRET",
		"jwt.access_expiry":       "BM_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":      "BM_JWT_REFRESH_EXPIRY",
		"jwt.issuer":              "BM_JWT_ISSUER",
		"s3.region":               "BM_S3_REGION",
		"s3.bucket":               "BM_S3_BUCKET",
		"s3.endpoint":             "BM_S3_ENDPOINT",
		"s3.access_key":           "BM_S3_ACCESS_KEY",
		"s3.secret_key":           "BM_S3_SECRET_KEY",
		"s3.max_file_size_mb":     "BM_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":       "BM_S3_PRESIGN_EXPIRY",
		"log.level":               "BM_LOG_LEVEL",
		"log.format":              "BM_LOG_FORMAT",
		"analyzer.provider":       "BM_ANALYZER_PROVIDER",
		"analyzer.api_key":        "BM_ANALYZER_API_KEY",
		"analyzer.model":          "BM_ANALYZER_MODEL",
		"analyzer.max_retries":    "BM_ANALYZER_MAX_RETRIES",
		"analyzer.timeout_secs":   "BM_ANALYZER_TIMEOUT_SECS",
		"books.base_url":          "BM_BOOKS_BASE_URL",
		"books.token_url":         "BM_BOOKS_TOKEN_URL",
		"books.organization_id":   "BM_BOOKS_ORGANIZATION_ID",
		"books.client_id":         "BM_BOOKS_CLIENT_ID",
		"books.client_secret":     "BM_BOOKS_CLIENT_SECRET",
		"books.refresh_token":     "BM_BOOKS_REFRESH_TOKEN",
		"books.timeout_secs":      "BM_BOOKS_TIMEOUT_SECS",
		"cors.allowed_origins":    "BM_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if BM_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("BM_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Analyzer = AnalyzerConfig{
		Provider:    v.GetString("analyzer.provider"),
		APIKey:      v.GetString("analyzer.api_key"),
		Model:       v.GetString("analyzer.model"),
		MaxRetries:  v.GetInt("analyzer.max_retries"),
		TimeoutSecs: v.GetInt("analyzer.timeout_secs"),
	}
	cfg.Books = BooksConfig{
		BaseURL:        v.GetString("books.base_url"),
		TokenURL:       v.GetString("books.token_url"),
		OrganizationID: v.GetString("books.organization_id"),
		ClientID:       v.GetString("books.client_id"),
		ClientSecret:   v.GetString("books.client_secret"),
		RefreshToken:   v.GetString("books.refresh_token"),
		TimeoutSecs:    v.GetInt("books.timeout_secs"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}
