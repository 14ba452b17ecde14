package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
	t.Setenv("OTP_SECRET", "otp")
}

func TestFromEnv_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, 1000*time.Second, cfg.OTP.Step)
	assert.False(t, cfg.OTP.SMSEnabled)
	assert.Equal(t, "postgres", cfg.DB.Driver)
}

func TestFromEnv_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
	t.Setenv("OTP_SECRET", "otp")

	_, err := FromEnv()
	require.Error(t, err)
}

func TestFromEnv_UnknownDriver(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_DRIVER", "mysql")

	_, err := FromEnv()
	require.Error(t, err)
}

func TestDatabaseURL(t *testing.T) {
	d := DBConfig{Driver: "postgres", User: "u", Password: "p", Host: "h", Port: "5432", Name: "shop", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/shop?sslmode=disable", d.DatabaseURL())

	d.DSN = "postgres://custom"
	assert.Equal(t, "postgres://custom", d.DatabaseURL())
}

func TestFromEnv_KafkaBrokersList(t *testing.T) {
	setRequired(t)
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
}
