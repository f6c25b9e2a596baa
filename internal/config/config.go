package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	PaymentProviderRazorpay = "razorpay"
	PaymentProviderMidtrans = "midtrans"
)

type Config struct {
	Environment string `validate:"required,oneof=development production test"`
	DBDSN       string `validate:"required"`
	HTTPAddr    string `validate:"required"`
	JWTSecret   string `validate:"required,min=16"`
	CORSOrigins []string

	// Пустой токен отключает Telegram уведомления
	TelegramToken string

	PaymentProvider       string `validate:"omitempty,oneof=razorpay midtrans"`
	RazorpayKeyID         string `validate:"required_if=PaymentProvider razorpay"`
	RazorpayKeySecret     string `validate:"required_if=PaymentProvider razorpay"`
	RazorpayWebhookSecret string
	MidtransServerKey     string `validate:"required_if=PaymentProvider midtrans"`
	MidtransProduction    bool

	// Пустой ключ отключает создание видеокомнат
	WherebyAPIKey     string
	WherebyBaseURL    string        `validate:"required,url"`
	RoomRetryInterval time.Duration `validate:"min=1m"`

	Location *time.Location `validate:"required"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Environment:           getEnv("ENV", "development"),
		DBDSN:                 os.Getenv("DB_DSN"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		CORSOrigins:           splitList(os.Getenv("CORS_ORIGINS")),
		TelegramToken:         os.Getenv("TELEGRAM_TOKEN"),
		PaymentProvider:       strings.ToLower(os.Getenv("PAYMENT_PROVIDER")),
		RazorpayKeyID:         os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:     os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayWebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),
		MidtransServerKey:     os.Getenv("MIDTRANS_SERVER_KEY"),
		WherebyAPIKey:         os.Getenv("WHEREBY_API_KEY"),
		WherebyBaseURL:        getEnv("WHEREBY_BASE_URL", "https://api.whereby.dev"),
	}

	var err error
	if cfg.MidtransProduction, err = parseBool(os.Getenv("MIDTRANS_PRODUCTION")); err != nil {
		return nil, fmt.Errorf("MIDTRANS_PRODUCTION: %w", err)
	}

	if cfg.RoomRetryInterval, err = time.ParseDuration(getEnv("ROOM_RETRY_INTERVAL", "10m")); err != nil {
		return nil, fmt.Errorf("ROOM_RETRY_INTERVAL: %w", err)
	}

	if cfg.Location, err = loadLocation(os.Getenv("TIMEZONE")); err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные поля и согласованность настроек оплаты
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

// loadLocation пустое значение означает локальный пояс сервера
func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
