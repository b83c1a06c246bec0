package server

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/linkdir/internal/server/config"
	"github.com/dmitrijs2005/linkdir/internal/server/throttle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.HTTPAddr = "127.0.0.1:0"
	return cfg
}

func TestNewApp_InMemory(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)
	defer app.close(context.Background())

	assert.NotNil(t, app.http)
	assert.NotNil(t, app.repo)
	assert.IsType(t, &throttle.Memory{}, app.limiter)
}

func TestNewApp_CooldownDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.SigninCooldown = 0

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	defer app.close(context.Background())

	assert.IsType(t, throttle.Disabled{}, app.limiter)
}

func TestNewApp_BadDSN(t *testing.T) {
	cfg := testConfig()
	cfg.DatabaseDSN = "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := NewApp(ctx, cfg)
	assert.Error(t, err)
}

func TestNewApp_UnknownMailDriver(t *testing.T) {
	cfg := testConfig()
	cfg.MailDriver = "pigeon"

	_, err := NewApp(context.Background(), cfg)
	assert.Error(t, err)
}
