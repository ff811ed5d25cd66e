package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Redis     RedisConfig
	Payment   PaymentConfig
	Cart      CartConfig
	Scheduler SchedulerConfig
	WebSocket WebSocketConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type PaymentConfig struct {
	VNPay VNPayConfig
}

type VNPayConfig struct {
	TmnCode            string
	HashSecret         string
	PayURL             string
	ReturnURL          string
	Locale             string
	OrderType          string
	Timezone           string
	FrontendSuccessURL string
}

type CartConfig struct {
	LockTimeout time.Duration // how long a request waits for the user's cart lock
	LockTTL     time.Duration // redis lock expiry
}

type SchedulerConfig struct {
	Enabled         bool
	OrderExpirySpec string
	UnpaidOrderTTL  time.Duration
}

type WebSocketConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ct250"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key"),
			AccessTokenExpiry:  parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRY", "15m"), 15*time.Minute),
			RefreshTokenExpiry: parseDuration(getEnv("JWT_REFRESH_TOKEN_EXPIRY", "168h"), 168*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Payment: PaymentConfig{
			VNPay: VNPayConfig{
				TmnCode:            getEnv("VNP_TMN_CODE", ""),
				HashSecret:         getEnv("VNP_HASH_SECRET", ""),
				PayURL:             getEnv("VNP_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"),
				ReturnURL:          getEnv("VNP_RETURN_URL", "http://localhost:8080/api/v1/payments/vnpay/return"),
				Locale:             getEnv("VNP_LOCALE", "vn"),
				OrderType:          getEnv("VNP_ORDER_TYPE", "other"),
				Timezone:           getEnv("VNP_TIMEZONE", "Asia/Ho_Chi_Minh"),
				FrontendSuccessURL: getEnv("FRONTEND_PAYMENT_SUCCESS_URL", "http://localhost:5173/thank-you"),
			},
		},
		Cart: CartConfig{
			LockTimeout: parseDuration(getEnv("CART_LOCK_TIMEOUT", "5s"), 5*time.Second),
			LockTTL:     parseDuration(getEnv("CART_LOCK_TTL", "10s"), 10*time.Second),
		},
		Scheduler: SchedulerConfig{
			Enabled:         getEnvBool("SCHEDULER_ENABLED", true),
			OrderExpirySpec: getEnv("ORDER_EXPIRY_SPEC", "*/15 * * * *"),
			UnpaidOrderTTL:  parseDuration(getEnv("UNPAID_ORDER_TTL", "24h"), 24*time.Hour),
		},
		WebSocket: WebSocketConfig{
			AllowedOrigins: parseSlice(getEnv("WS_ALLOWED_ORIGINS", "http://localhost:5173")),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects configurations that cannot run in production.
func (c *Config) Validate() error {
	if c.Server.Environment != "production" {
		return nil
	}
	if c.Payment.VNPay.TmnCode == "" || c.Payment.VNPay.HashSecret == "" {
		return fmt.Errorf("VNP_TMN_CODE and VNP_HASH_SECRET are required in production")
	}
	if c.JWT.Secret == "your-secret-key" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Invalid integer %s=%s, using default %d", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Invalid boolean %s=%s, using default %t", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseSlice(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	if result == nil {
		return []string{}
	}
	return result
}
