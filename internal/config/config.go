package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds relational database settings. When DSN starts
// with "sqlite://" (or Driver is "sqlite") the sqlite driver is used,
// which is the development default.
type DatabaseConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds cache settings. Caching is disabled when Address
// is empty.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret        string
	ExpireMinutes int
}

// S3Config holds object storage settings. UseS3 false means files land
// in the local uploads directory instead.
type S3Config struct {
	UseS3     bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// UploadConfig restricts file uploads.
type UploadConfig struct {
	Dir              string
	MaxFileSize      int64
	MaxImageSize     int64
	AllowedFileTypes []string
}

// NotifyConfig holds outbound notification settings. Both channels are
// optional and disabled when their endpoints are empty.
type NotifyConfig struct {
	TelegramWebhookURL   string
	TelegramAdminChatIDs []int64
	SMTPServer           string
	SMTPPort             int
	SMTPUsername         string
	SMTPPassword         string
	FromEmail            string
	AdminEmails          []string
	EmailEnabled         bool
}

// Config is the application configuration.
type Config struct {
	Environment    string
	LogLevel       string
	AllowedOrigins []string
	HTTP           HTTPConfig
	Database       DatabaseConfig
	Redis          RedisConfig
	JWT            JWTConfig
	S3             S3Config
	Upload         UploadConfig
	Notify         NotifyConfig
}

// IsDevelopment reports whether the app runs outside production.
func (c *Config) IsDevelopment() bool {
	return c.Environment != "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("allowed_origins", "http://localhost:3000,http://localhost:5173")

	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", 8000)
	v.SetDefault("server_read_timeout", "30s")
	v.SetDefault("server_write_timeout", "30s")
	v.SetDefault("server_idle_timeout", "120s")
	v.SetDefault("server_shutdown_timeout", "15s")

	v.SetDefault("database_driver", "")
	v.SetDefault("database_url", "sqlite://printing_platform.db")
	v.SetDefault("database_max_open_conns", 25)
	v.SetDefault("database_max_idle_conns", 5)
	v.SetDefault("database_conn_max_lifetime", "1h")

	v.SetDefault("redis_url", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)

	v.SetDefault("secret_key", "change-me-in-production")
	v.SetDefault("access_token_expire_minutes", 30)

	v.SetDefault("use_s3", false)
	v.SetDefault("s3_endpoint_url", "storage.yandexcloud.net")
	v.SetDefault("s3_access_key", "")
	v.SetDefault("s3_secret_key", "")
	v.SetDefault("s3_bucket_name", "3d-printing-platform")
	v.SetDefault("s3_region", "ru-central1")
	v.SetDefault("s3_use_ssl", true)

	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("max_file_size", 50*1024*1024)
	v.SetDefault("max_image_size", 10*1024*1024)
	v.SetDefault("allowed_file_types", ".stl,.obj,.3mf,.jpg,.jpeg,.png")

	v.SetDefault("telegram_bot_webhook_url", "")
	v.SetDefault("telegram_admin_chat_ids", "")
	v.SetDefault("email_notifications_enabled", false)
	v.SetDefault("smtp_server", "smtp.gmail.com")
	v.SetDefault("smtp_port", 587)
	v.SetDefault("smtp_username", "")
	v.SetDefault("smtp_password", "")
	v.SetDefault("from_email", "noreply@nordlayer.com")
	v.SetDefault("admin_emails", "")
}

// Load builds the configuration from environment variables with sane
// development defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Environment:    v.GetString("environment"),
		LogLevel:       v.GetString("log_level"),
		AllowedOrigins: splitList(v.GetString("allowed_origins")),
		HTTP: HTTPConfig{
			Host:            v.GetString("server_host"),
			Port:            v.GetInt("server_port"),
			ReadTimeout:     v.GetDuration("server_read_timeout"),
			WriteTimeout:    v.GetDuration("server_write_timeout"),
			IdleTimeout:     v.GetDuration("server_idle_timeout"),
			ShutdownTimeout: v.GetDuration("server_shutdown_timeout"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database_driver"),
			DSN:             v.GetString("database_url"),
			MaxOpenConns:    v.GetInt("database_max_open_conns"),
			MaxIdleConns:    v.GetInt("database_max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database_conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis_url"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("secret_key"),
			ExpireMinutes: v.GetInt("access_token_expire_minutes"),
		},
		S3: S3Config{
			UseS3:     v.GetBool("use_s3"),
			Endpoint:  v.GetString("s3_endpoint_url"),
			AccessKey: v.GetString("s3_access_key"),
			SecretKey: v.GetString("s3_secret_key"),
			Bucket:    v.GetString("s3_bucket_name"),
			Region:    v.GetString("s3_region"),
			UseSSL:    v.GetBool("s3_use_ssl"),
		},
		Upload: UploadConfig{
			Dir:              v.GetString("upload_dir"),
			MaxFileSize:      v.GetInt64("max_file_size"),
			MaxImageSize:     v.GetInt64("max_image_size"),
			AllowedFileTypes: splitList(v.GetString("allowed_file_types")),
		},
		Notify: NotifyConfig{
			TelegramWebhookURL:   v.GetString("telegram_bot_webhook_url"),
			TelegramAdminChatIDs: parseChatIDs(v.GetString("telegram_admin_chat_ids")),
			SMTPServer:           v.GetString("smtp_server"),
			SMTPPort:             v.GetInt("smtp_port"),
			SMTPUsername:         v.GetString("smtp_username"),
			SMTPPassword:         v.GetString("smtp_password"),
			FromEmail:            v.GetString("from_email"),
			AdminEmails:          splitList(v.GetString("admin_emails")),
			EmailEnabled:         v.GetBool("email_notifications_enabled"),
		},
	}

	// The redis URL may carry the redis:// scheme; the client wants host:port.
	cfg.Redis.Address = strings.TrimPrefix(cfg.Redis.Address, "redis://")

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("secret_key must not be empty")
	}
	if cfg.JWT.ExpireMinutes <= 0 {
		return nil, fmt.Errorf("access_token_expire_minutes must be positive, got %d", cfg.JWT.ExpireMinutes)
	}
	if cfg.S3.UseS3 && (cfg.S3.AccessKey == "" || cfg.S3.SecretKey == "" || cfg.S3.Bucket == "") {
		return nil, fmt.Errorf("use_s3 is enabled but s3 credentials are incomplete")
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseChatIDs(s string) []int64 {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		var id int64
		if _, err := fmt.Sscanf(p, "%d", &id); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
