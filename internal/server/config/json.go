package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/linkdir/internal/flagx"
	"github.com/dmitrijs2005/linkdir/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Interval fields use
// timex.Duration so both "24h" and integer nanoseconds are accepted.
type JsonConfig struct {
	HTTPAddr        string         `json:"http_addr"`
	DatabaseDSN     string         `json:"database_dsn"`
	SecretKey       string         `json:"secret_key"`
	SessionTTL      timex.Duration `json:"session_ttl"`
	VerificationTTL timex.Duration `json:"verification_ttl"`
	Production      bool           `json:"production"`
	BaseURL         string         `json:"base_url"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`

	MailDriver       string   `json:"mail_driver"`
	MailFrom         string   `json:"mail_from"`
	MailFromName     string   `json:"mail_from_name"`
	SMTPHost         string   `json:"smtp_host"`
	SMTPPort         int      `json:"smtp_port"`
	SMTPUser         string   `json:"smtp_user"`
	SMTPPassword     string   `json:"smtp_password"`
	MailjetAPIKey    string   `json:"mailjet_api_key"`
	MailjetSecretKey string   `json:"mailjet_secret_key"`
	KafkaBrokers     []string `json:"kafka_brokers"`
	KafkaTopic       string   `json:"kafka_topic"`
	KafkaUser        string   `json:"kafka_user"`
	KafkaPassword    string   `json:"kafka_password"`

	RecaptchaSecret   string  `json:"recaptcha_secret"`
	RecaptchaMinScore float64 `json:"recaptcha_min_score"`
	RecaptchaEndpoint string  `json:"recaptcha_endpoint"`

	RedisAddr      string         `json:"redis_addr"`
	RedisPassword  string         `json:"redis_password"`
	SigninCooldown timex.Duration `json:"signin_cooldown"`

	AdminPasswordHash string         `json:"admin_password_hash"`
	AdminSecretKey    string         `json:"admin_secret_key"`
	AdminTokenTTL     timex.Duration `json:"admin_token_ttl"`
}

// parseJson overlays the file named by -c/-config, if any. The DTO is seeded
// from the current config so keys missing from the file keep their values.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := fromConfig(config)
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	c.apply(config)
	return nil
}

func fromConfig(config *Config) *JsonConfig {
	return &JsonConfig{
		HTTPAddr:          config.HTTPAddr,
		DatabaseDSN:       config.DatabaseDSN,
		SecretKey:         config.SecretKey,
		SessionTTL:        timex.Duration{Duration: config.SessionTTL},
		VerificationTTL:   timex.Duration{Duration: config.VerificationTTL},
		Production:        config.Production,
		BaseURL:           config.BaseURL,
		ShutdownTimeout:   timex.Duration{Duration: config.ShutdownTimeout},
		MailDriver:        config.MailDriver,
		MailFrom:          config.MailFrom,
		MailFromName:      config.MailFromName,
		SMTPHost:          config.SMTPHost,
		SMTPPort:          config.SMTPPort,
		SMTPUser:          config.SMTPUser,
		SMTPPassword:      config.SMTPPassword,
		MailjetAPIKey:     config.MailjetAPIKey,
		MailjetSecretKey:  config.MailjetSecretKey,
		KafkaBrokers:      config.KafkaBrokers,
		KafkaTopic:        config.KafkaTopic,
		KafkaUser:         config.KafkaUser,
		KafkaPassword:     config.KafkaPassword,
		RecaptchaSecret:   config.RecaptchaSecret,
		RecaptchaMinScore: config.RecaptchaMinScore,
		RecaptchaEndpoint: config.RecaptchaEndpoint,
		RedisAddr:         config.RedisAddr,
		RedisPassword:     config.RedisPassword,
		SigninCooldown:    timex.Duration{Duration: config.SigninCooldown},
		AdminPasswordHash: config.AdminPasswordHash,
		AdminSecretKey:    config.AdminSecretKey,
		AdminTokenTTL:     timex.Duration{Duration: config.AdminTokenTTL},
	}
}

func (c *JsonConfig) apply(config *Config) {
	config.HTTPAddr = c.HTTPAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.SessionTTL = c.SessionTTL.Duration
	config.VerificationTTL = c.VerificationTTL.Duration
	config.Production = c.Production
	config.BaseURL = c.BaseURL
	config.ShutdownTimeout = c.ShutdownTimeout.Duration
	config.MailDriver = c.MailDriver
	config.MailFrom = c.MailFrom
	config.MailFromName = c.MailFromName
	config.SMTPHost = c.SMTPHost
	config.SMTPPort = c.SMTPPort
	config.SMTPUser = c.SMTPUser
	config.SMTPPassword = c.SMTPPassword
	config.MailjetAPIKey = c.MailjetAPIKey
	config.MailjetSecretKey = c.MailjetSecretKey
	config.KafkaBrokers = c.KafkaBrokers
	config.KafkaTopic = c.KafkaTopic
	config.KafkaUser = c.KafkaUser
	config.KafkaPassword = c.KafkaPassword
	config.RecaptchaSecret = c.RecaptchaSecret
	config.RecaptchaMinScore = c.RecaptchaMinScore
	config.RecaptchaEndpoint = c.RecaptchaEndpoint
	config.RedisAddr = c.RedisAddr
	config.RedisPassword = c.RedisPassword
	config.SigninCooldown = c.SigninCooldown.Duration
	config.AdminPasswordHash = c.AdminPasswordHash
	config.AdminSecretKey = c.AdminSecretKey
	config.AdminTokenTTL = c.AdminTokenTTL.Duration
}
