package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Defaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := decode(v)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "ziyonstar", cfg.DatabaseName)
	assert.Equal(t, "inr", cfg.PaymentCurrency)
	assert.Equal(t, 0, cfg.OTPMaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.OTPAttemptWindow)
	assert.False(t, cfg.IsProduction())
}

func TestDecode_EnvOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("OTP_MAX_ATTEMPTS", "5")
	t.Setenv("DATABASE_NAME", "repairs")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg, err := decode(v)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 5, cfg.OTPMaxAttempts)
	assert.Equal(t, "repairs", cfg.DatabaseName)
}
