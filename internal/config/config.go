package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Telegram
	BotToken string

	// LeakOSINT API
	LeakOSINTToken string
	LeakOSINTURL   string
	SearchLimit    int
	SearchLang     string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Ledger
	NewUserCoins   int64
	ReferralReward int64
	SearchCost     int64
	AdminIDs       []int64

	// Payments
	UPIID string

	// Application
	AppEnv   string
	LogLevel string

	// Rate Limiting
	RateLimitPerUser int
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		BotToken: getEnv("BOT_TOKEN", ""),

		LeakOSINTToken: getEnv("LEAKOSINT_API_TOKEN", ""),
		LeakOSINTURL:   getEnv("LEAKOSINT_API_URL", "https://leakosintapi.com/"),
		SearchLimit:    getEnvInt("LEAKOSINT_RESULT_LIMIT", 100),
		SearchLang:     getEnv("LEAKOSINT_LANG", "en"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "leakscan"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "leakscan_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		NewUserCoins:   getEnvInt64("NEW_USER_COINS", 1),
		ReferralReward: getEnvInt64("REFERRAL_REWARD", 1),
		SearchCost:     getEnvInt64("COIN_COST_PER_SEARCH", 1),

		UPIID: getEnv("UPI_ID", "your-upi@bank"),

		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		RateLimitPerUser: getEnvInt("RATE_LIMIT_PER_USER", 20),
	}

	admins, err := parseAdminIDs(getEnv("ADMIN_IDS", ""))
	if err != nil {
		return nil, err
	}
	cfg.AdminIDs = admins

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.LeakOSINTToken == "" {
		return fmt.Errorf("LEAKOSINT_API_TOKEN is required")
	}
	if c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.NewUserCoins < 0 {
		return fmt.Errorf("NEW_USER_COINS must not be negative")
	}
	if c.ReferralReward < 0 {
		return fmt.Errorf("REFERRAL_REWARD must not be negative")
	}
	if c.SearchCost < 1 {
		return fmt.Errorf("COIN_COST_PER_SEARCH must be at least 1")
	}
	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func parseAdminIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_IDS entry %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
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

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}
