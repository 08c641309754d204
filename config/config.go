package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	AdminToken        string `mapstructure:"ADMIN_TOKEN"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Notification queue (asynq) and push delivery (FCM).
	NotificationQueue       string `mapstructure:"NOTIFICATION_QUEUE"`
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	// Realtime broadcast to client apps.
	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`

	// Payments.
	StripeKey           string `mapstructure:"STRIPE_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	PaymentCurrency     string `mapstructure:"PAYMENT_CURRENCY"`

	// Pickup photo storage.
	CloudinaryURL string `mapstructure:"CLOUDINARY_URL"`

	// OTP attempt limiting. Zero attempts means unlimited.
	OTPMaxAttempts   int           `mapstructure:"OTP_MAX_ATTEMPTS"`
	OTPAttemptWindow time.Duration `mapstructure:"OTP_ATTEMPT_WINDOW"`
}

// Load reads .env (if present), config.yaml from "." or "./config", and the
// process environment, in increasing order of precedence.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, continuing")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	cfg, err := decode(v)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "ziyonstar")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ADMIN_TOKEN", "")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 3)
	v.SetDefault("NOTIFICATION_QUEUE", "notifications")
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("STRIPE_KEY", "")
	v.SetDefault("STRIPE_WEBHOOK_SECRET", "")
	v.SetDefault("PAYMENT_CURRENCY", "inr")
	v.SetDefault("CLOUDINARY_URL", "")
	v.SetDefault("OTP_MAX_ATTEMPTS", 0)
	v.SetDefault("OTP_ATTEMPT_WINDOW", "15m")
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
