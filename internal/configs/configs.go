package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppURL                 string
	DatabaseDSN            string
	RateLimit              int
	ShutdownTimeoutSeconds int
	Timezone               string

	LogLevel  string
	LogFormat string
	LogFile   string

	JWTSecret       string
	TokenTTLMinutes int

	RedisAddr string

	QueueDriver      string
	QueueSize        int
	NotifyWorkers    int
	RedisQueueKey    string
	RabbitMQURL      string
	RabbitMQQueue    string
	RevocationPrefix string

	StorageDriver  string
	UploadDir      string
	MaxUploadBytes int64
	Minio          MinioConfig

	MailerSendAPIKey string
	MailFrom         string
	MailFromName     string
	AdminEmails      []string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Load reads configuration from the optional file at path and from the
// environment. Environment variables win over the file.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", v.GetString("APP_HOST"), v.GetString("APP_PORT")),
		DatabaseDSN:            v.GetString("DATABASE_DSN"),
		RateLimit:              v.GetInt("RATE_LIMIT_PER_MINUTE"),
		ShutdownTimeoutSeconds: v.GetInt("SHUTDOWN_TIMEOUT_SECONDS"),
		Timezone:               v.GetString("APP_TIMEZONE"),
		LogLevel:               v.GetString("LOG_LEVEL"),
		LogFormat:              v.GetString("LOG_FORMAT"),
		LogFile:                v.GetString("LOG_FILE"),
		JWTSecret:              v.GetString("JWT_SECRET"),
		TokenTTLMinutes:        v.GetInt("TOKEN_TTL_MINUTES"),
		RedisAddr:              v.GetString("REDIS_ADDR"),
		QueueDriver:            v.GetString("NOTIFY_QUEUE_DRIVER"),
		QueueSize:              v.GetInt("NOTIFY_QUEUE_SIZE"),
		NotifyWorkers:          v.GetInt("NOTIFY_WORKERS"),
		RedisQueueKey:          v.GetString("REDIS_QUEUE_KEY"),
		RabbitMQURL:            v.GetString("RABBITMQ_URL"),
		RabbitMQQueue:          v.GetString("RABBITMQ_QUEUE"),
		RevocationPrefix:       v.GetString("REDIS_REVOCATION_PREFIX"),
		StorageDriver:          v.GetString("STORAGE_DRIVER"),
		UploadDir:              v.GetString("UPLOAD_DIR"),
		MaxUploadBytes:         v.GetInt64("MAX_UPLOAD_BYTES"),
		Minio: MinioConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
		},
		MailerSendAPIKey: v.GetString("MAILERSEND_API_KEY"),
		MailFrom:         v.GetString("MAIL_FROM"),
		MailFromName:     v.GetString("MAIL_FROM_NAME"),
		AdminEmails:      splitList(v.GetString("ADMIN_EMAILS")),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_HOST", "127.0.0.1")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("DATABASE_DSN", "tasks.db")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 20)
	v.SetDefault("APP_TIMEZONE", "Local")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("TOKEN_TTL_MINUTES", 12*60)
	v.SetDefault("NOTIFY_QUEUE_DRIVER", "memory")
	v.SetDefault("NOTIFY_QUEUE_SIZE", 100)
	v.SetDefault("NOTIFY_WORKERS", 2)
	v.SetDefault("REDIS_QUEUE_KEY", "task_notifications")
	v.SetDefault("RABBITMQ_QUEUE", "task_notifications")
	v.SetDefault("REDIS_REVOCATION_PREFIX", "revoked_token:")
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("MAX_UPLOAD_BYTES", int64(1<<30))
	v.SetDefault("MINIO_USE_SSL", true)
	v.SetDefault("MAIL_FROM_NAME", "Task Management System")
}

func (c Config) Validate() error {
	if c.AppURL == "" || c.AppURL == ":" {
		return fmt.Errorf("APP_HOST/APP_PORT must not be empty (e.g. 127.0.0.1:8080)")
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN must not be empty")
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.TokenTTLMinutes <= 0 {
		return fmt.Errorf("TOKEN_TTL_MINUTES must be greater than 0")
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("NOTIFY_QUEUE_SIZE must be greater than 0")
	}
	if c.NotifyWorkers <= 0 {
		return fmt.Errorf("NOTIFY_WORKERS must be greater than 0")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be greater than 0")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("APP_TIMEZONE is invalid: %w", err)
	}

	switch c.QueueDriver {
	case "memory":
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when NOTIFY_QUEUE_DRIVER=redis")
		}
	case "rabbitmq":
		if c.RabbitMQURL == "" {
			return fmt.Errorf("RABBITMQ_URL is required when NOTIFY_QUEUE_DRIVER=rabbitmq")
		}
	default:
		return fmt.Errorf("NOTIFY_QUEUE_DRIVER must be one of memory, redis, rabbitmq")
	}

	switch c.StorageDriver {
	case "local":
		if c.UploadDir == "" {
			return fmt.Errorf("UPLOAD_DIR must not be empty")
		}
	case "minio":
		if c.Minio.Endpoint == "" || c.Minio.Bucket == "" {
			return fmt.Errorf("MINIO_ENDPOINT and MINIO_BUCKET are required when STORAGE_DRIVER=minio")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of local, minio")
	}
	return nil
}

// Location is the zone used to decide what "today" is for reports and filters.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
