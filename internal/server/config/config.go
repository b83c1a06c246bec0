// Package config handles configuration for the server component: defaults,
// environment, an optional JSON file and command-line flags, applied in that
// order.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Mail drivers understood by the mail package.
const (
	MailDriverLog     = "log"
	MailDriverSMTP    = "smtp"
	MailDriverMailjet = "mailjet"
	MailDriverKafka   = "kafka"
)

// Config holds runtime settings for the directory server.
//
// An empty DatabaseDSN selects the in-memory store, an empty RecaptchaSecret
// disables the bot check and an empty RedisAddr keeps the signin cooldown in
// process memory.
type Config struct {
	HTTPAddr        string
	DatabaseDSN     string
	SecretKey       string
	SessionTTL      time.Duration
	VerificationTTL time.Duration
	Production      bool
	BaseURL         string
	ShutdownTimeout time.Duration

	MailDriver       string
	MailFrom         string
	MailFromName     string
	SMTPHost         string
	SMTPPort         int
	SMTPUser         string
	SMTPPassword     string
	MailjetAPIKey    string
	MailjetSecretKey string
	KafkaBrokers     []string
	KafkaTopic       string
	KafkaUser        string
	KafkaPassword    string

	RecaptchaSecret   string
	RecaptchaMinScore float64
	RecaptchaEndpoint string

	RedisAddr      string
	RedisPassword  string
	SigninCooldown time.Duration

	AdminPasswordHash string
	AdminSecretKey    string
	AdminTokenTTL     time.Duration
}

// Development-only signing secrets. Validate rejects them in production.
const (
	defaultSecretKey      = "secretKey"
	defaultAdminSecretKey = "adminSecretKey"
)

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = defaultSecretKey
	c.SessionTTL = 7 * 24 * time.Hour
	c.VerificationTTL = 24 * time.Hour
	c.Production = false
	c.BaseURL = "http://localhost:8080"
	c.ShutdownTimeout = 10 * time.Second

	c.MailDriver = MailDriverLog
	c.MailFrom = "noreply@dir.nahar.tv"
	c.MailFromName = "unusual-directory"
	c.SMTPPort = 587
	c.KafkaTopic = "emails"

	c.RecaptchaMinScore = 0.5
	c.RecaptchaEndpoint = "https://www.google.com/recaptcha/api/siteverify"

	c.SigninCooldown = time.Minute

	c.AdminSecretKey = defaultAdminSecretKey
	c.AdminTokenTTL = time.Hour
}

// Validate reports settings that would make the server misbehave at runtime.
func (c *Config) Validate() error {
	if c.SecretKey == "" || c.AdminSecretKey == "" {
		return errors.New("secret key must not be empty")
	}
	if c.Production && (c.SecretKey == defaultSecretKey || c.AdminSecretKey == defaultAdminSecretKey) {
		return errors.New("production requires JWT_SECRET and ADMIN_SECRET_KEY to be set")
	}
	if c.SessionTTL <= 0 || c.VerificationTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	switch c.MailDriver {
	case MailDriverLog:
	case MailDriverSMTP:
		if c.SMTPHost == "" {
			return errors.New("smtp mail driver requires SMTP_HOST")
		}
	case MailDriverMailjet:
		if c.MailjetAPIKey == "" || c.MailjetSecretKey == "" {
			return errors.New("mailjet mail driver requires MAILJET_API_KEY and MAILJET_SECRET_KEY")
		}
	case MailDriverKafka:
		if len(c.KafkaBrokers) == 0 {
			return errors.New("kafka mail driver requires KAFKA_BROKERS")
		}
	default:
		return fmt.Errorf("unknown mail driver %q", c.MailDriver)
	}
	if c.RecaptchaMinScore < 0 || c.RecaptchaMinScore > 1 {
		return fmt.Errorf("recaptcha min score %v out of range [0,1]", c.RecaptchaMinScore)
	}
	return nil
}

// LoadConfig builds a Config from defaults, then overlays a .env file and the
// process environment, an optional JSON file and finally command-line flags.
func LoadConfig(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
