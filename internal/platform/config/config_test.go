package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadClean(t *testing.T) (*Config, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	return LoadConfig()
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadClean(t)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageFile, cfg.StorageBackend)
	assert.Equal(t, 12*time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, 60*time.Second, cfg.IntakeTimeout)
	assert.Equal(t, 30*time.Minute, cfg.IntakeSessionTTL)
	assert.True(t, cfg.DefaultHourlyRate.Equal(decimal.NewFromInt(350)))
	assert.Empty(t, cfg.LawyerRates)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "SQLite")
	t.Setenv("INTAKE_TIMEOUT", "15s")
	t.Setenv("JWT_EXPIRY_DURATION", "not-a-duration")
	t.Setenv("LAWYER_RATES", "Ruth Sasingian=500, Peter Kaupa=420.50")
	t.Setenv("CORS_ORIGINS", "https://legalos.example, ,https://admin.example")

	cfg, err := loadClean(t)
	require.NoError(t, err)

	assert.Equal(t, StorageSQLite, cfg.StorageBackend)
	assert.Equal(t, 15*time.Second, cfg.IntakeTimeout)
	assert.Equal(t, 12*time.Hour, cfg.JWTExpiryDuration)
	assert.True(t, cfg.LawyerRates["Peter Kaupa"].Equal(decimal.RequireFromString("420.5")))
	assert.Equal(t, []string{"https://legalos.example", "https://admin.example"}, cfg.CORSOrigins)
}

func TestLoadConfig_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown backend", env: map[string]string{"STORAGE_BACKEND": "redis"}},
		{name: "postgres without url", env: map[string]string{"STORAGE_BACKEND": "postgres"}},
		{name: "negative rate", env: map[string]string{"DEFAULT_HOURLY_RATE": "-1"}},
		{name: "bad lawyer rates", env: map[string]string{"LAWYER_RATES": "Ruth"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := loadClean(t)
			assert.Error(t, err)
		})
	}
}

func TestParseLawyerRates(t *testing.T) {
	rates, err := ParseLawyerRates(" Ruth Sasingian = 500 ,,Clerk=0")
	require.NoError(t, err)
	assert.Len(t, rates, 2)
	assert.True(t, rates["Ruth Sasingian"].Equal(decimal.NewFromInt(500)))
	assert.True(t, rates["Clerk"].IsZero())

	_, err = ParseLawyerRates("=100")
	assert.Error(t, err)
	_, err = ParseLawyerRates("Ruth=abc")
	assert.Error(t, err)
	_, err = ParseLawyerRates("Ruth=-5")
	assert.Error(t, err)
}
