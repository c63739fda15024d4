package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for our application
type Config struct {
	Port                      string
	Origin                    string
	Environment               string
	JWTSecret                 string
	JWTRefreshSecret          string
	Database                  DatabaseConfig
	LLM                       LLMConfig
	Payment                   PaymentConfig
	RateLimit                 RateLimitConfig
	AMQPURL                   string
	JWTExpirationMinutes      int
	JWTRefreshExpirationHours int
	CacheTTL                  time.Duration
	CachePurgeInterval        time.Duration
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// LLMConfig holds settings for the hosted model API.
type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	ChatModel   string
	Timeout     time.Duration
	MaxAttempts int
}

// PaymentConfig holds settings for the hosted checkout provider.
type PaymentConfig struct {
	SecretKey       string
	BaseURL         string
	CallbackURL     string
	PayPerChatPrice int // smallest currency unit
	UnlimitedPrice  int
	CreditBundle    int // chats granted per pay_per_chat purchase
	UnlimitedDays   int
}

// RateLimitConfig controls the Redis token bucket on /api/v1.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load database configuration
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "symptom_checker"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	llmTimeout, err := time.ParseDuration(getEnv("LLM_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_TIMEOUT: %w", err)
	}
	llmAttempts, err := strconv.Atoi(getEnv("LLM_MAX_ATTEMPTS", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_MAX_ATTEMPTS: %w", err)
	}

	llmConfig := LLMConfig{
		APIKey:      getEnv("LLM_API_KEY", ""),
		BaseURL:     getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		Model:       getEnv("LLM_MODEL", "gpt-4o-mini"),
		ChatModel:   getEnv("LLM_CHAT_MODEL", "gpt-4o-mini"),
		Timeout:     llmTimeout,
		MaxAttempts: llmAttempts,
	}

	paymentConfig := PaymentConfig{
		SecretKey:       getEnv("PAYMENT_SECRET_KEY", ""),
		BaseURL:         getEnv("PAYMENT_BASE_URL", "https://api.paystack.co"),
		CallbackURL:     getEnv("PAYMENT_CALLBACK_URL", "http://localhost:3001/api/v1/payments/verify"),
		PayPerChatPrice: atoiEnv("PAYMENT_PAY_PER_CHAT_PRICE", 50000),
		UnlimitedPrice:  atoiEnv("PAYMENT_UNLIMITED_PRICE", 200000),
		CreditBundle:    atoiEnv("PAYMENT_CREDIT_BUNDLE", 10),
		UnlimitedDays:   atoiEnv("PAYMENT_UNLIMITED_DAYS", 30),
	}

	rateLimitConfig := RateLimitConfig{
		Enabled:        getEnv("RATE_LIMIT_ENABLED", "true") == "true",
		Capacity:       atoiEnv("RATE_LIMIT_CAPACITY", 60),
		RefillTokens:   atoiEnv("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: durEnv("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:            durEnv("RATE_LIMIT_TTL", 10*time.Minute),
		Prefix:         getEnv("RATE_LIMIT_PREFIX", "rl"),
	}

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	jwtRefreshExpHours, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168")) // 7 days
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_HOURS: %w", err)
	}

	// Return complete configuration
	return &Config{
		Port:                      getEnv("PORT", "3001"),
		Origin:                    getEnv("ORIGIN", "http://localhost:5173"),
		Environment:               getEnv("APP_ENV", "development"),
		JWTSecret:                 getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTRefreshSecret:          getEnv("JWT_REFRESH_SECRET", "default_refresh_secret"),
		Database:                  dbConfig,
		LLM:                       llmConfig,
		Payment:                   paymentConfig,
		RateLimit:                 rateLimitConfig,
		AMQPURL:                   getEnv("RABBITMQ_URL", ""),
		JWTExpirationMinutes:      jwtExpMinutes,
		JWTRefreshExpirationHours: jwtRefreshExpHours,
		CacheTTL:                  durEnv("REPORT_CACHE_TTL", 24*time.Hour),
		CachePurgeInterval:        durEnv("REPORT_CACHE_PURGE_INTERVAL", time.Hour),
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func atoiEnv(key string, defaultValue int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return n
	}
	return defaultValue
}

func durEnv(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return d
	}
	return defaultValue
}
