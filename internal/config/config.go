package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Service  string `envconfig:"SERVICE_NAME" default:"marketplace"`
	Port     string `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DB     DBConfig
	JWT    JWTConfig
	OTP    OTPConfig
	SMTP   SMTPConfig
	SMS    SMSConfig
	Redis  RedisConfig
	Kafka  KafkaConfig
	ES     ESConfig
	Upload UploadConfig
}

type DBConfig struct {
	Driver string `envconfig:"DB_DRIVER" default:"postgres"`
	DSN    string `envconfig:"DATABASE_URL"`

	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
	ConnMaxIdleTime time.Duration `envconfig:"DB_CONN_MAX_IDLE_TIME" default:"5m"`
}

type JWTConfig struct {
	AccessSecret  string        `envconfig:"JWT_SECRET" required:"true"`
	RefreshSecret string        `envconfig:"JWT_REFRESH_SECRET" required:"true"`
	AccessTTL     time.Duration `envconfig:"TOKEN_EXPIRY" default:"15m"`
	RefreshTTL    time.Duration `envconfig:"REFRESH_TOKEN_EXPIRY" default:"168h"`
}

type OTPConfig struct {
	Secret     string        `envconfig:"OTP_SECRET" required:"true"`
	Step       time.Duration `envconfig:"OTP_STEP" default:"1000s"`
	SMSEnabled bool          `envconfig:"OTP_SMS_ENABLED" default:"false"`
	RateLimit  int64         `envconfig:"OTP_RATE_LIMIT" default:"5"`
	RateWindow time.Duration `envconfig:"OTP_RATE_WINDOW" default:"10m"`
}

type SMTPConfig struct {
	Host     string `envconfig:"SMTP_HOST"`
	Port     string `envconfig:"SMTP_PORT" default:"587"`
	User     string `envconfig:"SMTP_USER"`
	Password string `envconfig:"SMTP_PASSWORD"`
	From     string `envconfig:"SMTP_FROM"`
}

type SMSConfig struct {
	URL   string `envconfig:"SMS_URL" default:"https://notify.eskiz.uz/api/message/sms/send"`
	Token string `envconfig:"SMS_TOKEN"`
	From  string `envconfig:"SMS_FROM" default:"4546"`
}

type RedisConfig struct {
	URL string `envconfig:"REDIS_URL"`
}

type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS"`
}

type ESConfig struct {
	URL      string `envconfig:"ES_URL"`
	User     string `envconfig:"ES_USER"`
	Password string `envconfig:"ES_PASSWORD"`
	Index    string `envconfig:"ES_INDEX" default:"products"`
}

type UploadConfig struct {
	Dir     string `envconfig:"UPLOAD_DIR" default:"uploads"`
	BaseURL string `envconfig:"UPLOAD_BASE_URL" default:"http://localhost:8080/image"`
	MaxSize int64  `envconfig:"UPLOAD_MAX_BYTES" default:"5242880"`
}

// Load reads .env (if any) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v. Using system environment variables", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.DB.Driver) {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return fmt.Errorf("JWT_SECRET and JWT_REFRESH_SECRET must not be empty")
	}
	if c.OTP.Step <= 0 {
		return fmt.Errorf("OTP_STEP must be positive")
	}
	return nil
}

// DatabaseURL returns DATABASE_URL or builds a postgres DSN from the DB_* parts.
func (d DBConfig) DatabaseURL() string {
	if d.DSN != "" {
		return d.DSN
	}
	if strings.EqualFold(d.Driver, "sqlite") {
		return "marketplace.db"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}
