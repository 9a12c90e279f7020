package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the binaries read from the environment.
type Config struct {
	Port      string
	HooksPort string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	RedisAddr string
	RedisPass string
	RedisDB   int

	JWTSecret      string
	HookSecret     string
	DownloadSecret string

	DownloadBaseURL string
	MockPaymentURL  string

	// Referral commission in percent of the purchase amount.
	ReferralCommissionPct int

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	MailProvider string
	PlunkAPIKey  string
}

// Load reads configuration from the environment, honouring a local .env file.
func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	cfg := &Config{
		Port:                  getenv("PORT", "8080"),
		HooksPort:             getenv("HOOKS_PORT", "8090"),
		DBUser:                os.Getenv("DB_USER"),
		DBPassword:            os.Getenv("DB_PASSWORD"),
		DBHost:                getenv("DB_HOST", "localhost"),
		DBPort:                getenv("DB_PORT", "5432"),
		DBName:                os.Getenv("DB_NAME"),
		RedisAddr:             getenv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPass:             os.Getenv("REDIS_PASS"),
		RedisDB:               redisDB,
		JWTSecret:             os.Getenv("JWT_SECRET"),
		HookSecret:            os.Getenv("HOOK_SECRET"),
		DownloadSecret:        os.Getenv("DOWNLOAD_SECRET"),
		DownloadBaseURL:       getenv("DOWNLOAD_BASE_URL", "https://cdn.learnhub.dev/assets"),
		MockPaymentURL:        os.Getenv("MOCK_PAYMENT_URL"),
		ReferralCommissionPct: 10,
		SMTPHost:              os.Getenv("SMTP_HOST"),
		SMTPPort:              os.Getenv("SMTP_PORT"),
		SMTPUsername:          os.Getenv("SMTP_USERNAME"),
		SMTPPassword:          os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:              os.Getenv("SMTP_FROM"),
		MailProvider:          os.Getenv("MAIL_PROVIDER"),
		PlunkAPIKey:           os.Getenv("PLUNK_API_KEY"),
	}

	if pct := os.Getenv("REFERRAL_COMMISSION_PCT"); pct != "" {
		if n, err := strconv.Atoi(pct); err == nil && n >= 0 && n <= 100 {
			cfg.ReferralCommissionPct = n
		}
	}

	return cfg
}

// DSN builds the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
