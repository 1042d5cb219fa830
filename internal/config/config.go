package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Security
	JWTSecret string

	// Application
	AppEnv             string
	AppPort            string
	LogLevel           string
	CORSAllowedOrigins []string

	// Content
	PIDPrefix       string
	GIDPrefix       string
	RIDPrefix       string
	Languages       []string
	DefaultLanguage string
	PageSize        int
	RandomPageCount int

	// Rate Limiting
	RateLimitPerIP      int
	ReportLimitPerEmail int

	// Moderation bot (optional)
	BotToken    string
	StaffChatID int64

	Site SiteSettings
}

// SiteSettings is the site-wide presentation config handed to the HTTP
// layer and notifiers. Values stored in website_settings override these.
type SiteSettings struct {
	Title             string `json:"site_title"`
	ContactEmail      string `json:"contact_email"`
	GoogleAnalyticsID string `json:"google_analytics_id"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "laum"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "laum_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET_KEY", ""),

		AppEnv:             getEnv("APP_ENV", "development"),
		AppPort:            getEnv("APP_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		PIDPrefix:       getEnv("PID_PREFIX", "P"),
		GIDPrefix:       getEnv("GID_PREFIX", "G"),
		RIDPrefix:       getEnv("RID_PREFIX", "R"),
		Languages:       getEnvList("LANGUAGES", []string{"fa", "en"}),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "fa"),
		PageSize:        getEnvInt("PAGE_SIZE", 8),
		RandomPageCount: getEnvInt("RANDOM_PAGE_COUNT", 3),

		RateLimitPerIP:      getEnvInt("RATE_LIMIT_PER_IP", 60),
		ReportLimitPerEmail: getEnvInt("REPORT_LIMIT_PER_EMAIL", 5),

		BotToken: getEnv("BOT_TOKEN", ""),

		Site: SiteSettings{
			Title:             getEnv("SITE_TITLE", "Laum"),
			ContactEmail:      getEnv("CONTACT_EMAIL", ""),
			GoogleAnalyticsID: getEnv("GOOGLE_ANALYTICS_ID", ""),
		},
	}

	staffChatStr := getEnv("STAFF_CHAT_ID", "")
	if staffChatStr != "" {
		id, err := strconv.ParseInt(staffChatStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid STAFF_CHAT_ID: %w", err)
		}
		cfg.StaffChatID = id
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET_KEY must be at least 32 characters")
	}
	if c.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be positive")
	}
	if !c.IsSupportedLanguage(c.DefaultLanguage) {
		return fmt.Errorf("DEFAULT_LANGUAGE %q is not in LANGUAGES", c.DefaultLanguage)
	}
	if c.BotToken != "" && c.StaffChatID == 0 {
		return fmt.Errorf("STAFF_CHAT_ID is required when BOT_TOKEN is set")
	}
	return nil
}

func (c *Config) ValidateProductionSecurity() error {
	if c.AppEnv != "production" {
		return nil
	}

	if c.DBSSLMode != "require" {
		return fmt.Errorf("DB_SSLMODE must be 'require' in production")
	}
	if c.JWTSecret == "your_jwt_secret_minimum_32_chars_here_change_this" {
		return fmt.Errorf("JWT_SECRET_KEY must be changed from default in production")
	}
	for _, origin := range c.CORSAllowedOrigins {
		if origin == "*" {
			return fmt.Errorf("CORS_ALLOWED_ORIGINS can't be '*' in production")
		}
	}
	if c.Site.ContactEmail == "" {
		return fmt.Errorf("CONTACT_EMAIL must be set in production")
	}

	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// IsSupportedLanguage reports whether lang is one of LANGUAGES.
func (c *Config) IsSupportedLanguage(lang string) bool {
	for _, l := range c.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// BotEnabled reports whether the staff moderation bot should start.
func (c *Config) BotEnabled() bool {
	return c.BotToken != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
