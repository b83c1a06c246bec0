package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Empty(t, c.DatabaseDSN)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 7*24*time.Hour, c.SessionTTL)
	assert.Equal(t, 24*time.Hour, c.VerificationTTL)
	assert.False(t, c.Production)
	assert.Equal(t, MailDriverLog, c.MailDriver)
	assert.Equal(t, 587, c.SMTPPort)
	assert.InDelta(t, 0.5, c.RecaptchaMinScore, 1e-9)
	assert.Equal(t, "https://www.google.com/recaptcha/api/siteverify", c.RecaptchaEndpoint)
	assert.Equal(t, time.Minute, c.SigninCooldown)
	assert.Equal(t, time.Hour, c.AdminTokenTTL)
	require.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults ok", mutate: func(c *Config) {}},
		{name: "empty secret", mutate: func(c *Config) { c.SecretKey = "" }, wantErr: "secret key"},
		{name: "empty admin secret", mutate: func(c *Config) { c.AdminSecretKey = "" }, wantErr: "secret key"},
		{name: "production with default secret", mutate: func(c *Config) {
			c.Production = true
			c.AdminSecretKey = "a-real-admin-secret"
		}, wantErr: "JWT_SECRET"},
		{name: "production with default admin secret", mutate: func(c *Config) {
			c.Production = true
			c.SecretKey = "a-real-session-secret"
		}, wantErr: "ADMIN_SECRET_KEY"},
		{name: "production with own secrets", mutate: func(c *Config) {
			c.Production = true
			c.SecretKey = "a-real-session-secret"
			c.AdminSecretKey = "a-real-admin-secret"
		}},
		{name: "zero session ttl", mutate: func(c *Config) { c.SessionTTL = 0 }, wantErr: "lifetimes"},
		{name: "unknown driver", mutate: func(c *Config) { c.MailDriver = "pigeon" }, wantErr: "unknown mail driver"},
		{name: "smtp without host", mutate: func(c *Config) { c.MailDriver = MailDriverSMTP }, wantErr: "SMTP_HOST"},
		{name: "smtp with host", mutate: func(c *Config) { c.MailDriver = MailDriverSMTP; c.SMTPHost = "mail.local" }},
		{name: "mailjet without keys", mutate: func(c *Config) { c.MailDriver = MailDriverMailjet }, wantErr: "MAILJET_API_KEY"},
		{name: "kafka without brokers", mutate: func(c *Config) { c.MailDriver = MailDriverKafka }, wantErr: "KAFKA_BROKERS"},
		{name: "score out of range", mutate: func(c *Config) { c.RecaptchaMinScore = 1.5 }, wantErr: "min score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)

			err := c.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig_FlagsWinOverJSON(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"http_addr":   ":7000",
		"base_url":    "https://dir.example",
		"session_ttl": "48h",
	})

	c, err := LoadConfig([]string{"-c", path, "-a", ":9000"})
	require.NoError(t, err)

	assert.Equal(t, ":9000", c.HTTPAddr)
	assert.Equal(t, "https://dir.example", c.BaseURL)
	assert.Equal(t, 48*time.Hour, c.SessionTTL)
}

func TestLoadConfig_InvalidResultIsRejected(t *testing.T) {
	_, err := LoadConfig([]string{"-m", "pigeon"})
	require.Error(t, err)
}
