package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type lookupFunc func(key string) (string, bool)

// parseEnv overlays values from environment variables. Unset variables leave
// the current value untouched.
func parseEnv(config *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str("HTTP_ADDR", &config.HTTPAddr)
	str("DATABASE_URL", &config.DatabaseDSN)
	str("JWT_SECRET", &config.SecretKey)
	str("BASE_URL", &config.BaseURL)
	if v, ok := lookup("APP_ENV"); ok {
		config.Production = strings.EqualFold(v, "production")
	}

	str("MAIL_DRIVER", &config.MailDriver)
	str("MAIL_FROM", &config.MailFrom)
	str("MAIL_FROM_NAME", &config.MailFromName)
	str("SMTP_HOST", &config.SMTPHost)
	str("SMTP_USER", &config.SMTPUser)
	str("SMTP_PASSWORD", &config.SMTPPassword)
	if v, ok := lookup("SMTP_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SMTP_PORT: %w", err)
		}
		config.SMTPPort = port
	}
	str("MAILJET_API_KEY", &config.MailjetAPIKey)
	str("MAILJET_SECRET_KEY", &config.MailjetSecretKey)
	if v, ok := lookup("KAFKA_BROKERS"); ok {
		config.KafkaBrokers = splitList(v)
	}
	str("KAFKA_TOPIC", &config.KafkaTopic)
	str("KAFKA_USER", &config.KafkaUser)
	str("KAFKA_PASSWORD", &config.KafkaPassword)

	str("RECAPTCHA_SECRET_KEY", &config.RecaptchaSecret)
	str("RECAPTCHA_ENDPOINT", &config.RecaptchaEndpoint)
	if v, ok := lookup("RECAPTCHA_MIN_SCORE"); ok {
		score, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RECAPTCHA_MIN_SCORE: %w", err)
		}
		config.RecaptchaMinScore = score
	}

	str("REDIS_ADDR", &config.RedisAddr)
	str("REDIS_PASSWORD", &config.RedisPassword)

	str("ADMIN_PASSWORD_HASH", &config.AdminPasswordHash)
	str("ADMIN_SECRET_KEY", &config.AdminSecretKey)

	for key, dst := range map[string]*time.Duration{
		"SESSION_TTL":      &config.SessionTTL,
		"VERIFICATION_TTL": &config.VerificationTTL,
		"SHUTDOWN_TIMEOUT": &config.ShutdownTimeout,
		"SIGNIN_COOLDOWN":  &config.SigninCooldown,
		"ADMIN_TOKEN_TTL":  &config.AdminTokenTTL,
	} {
		if err := dur(key, dst); err != nil {
			return err
		}
	}

	return nil
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
