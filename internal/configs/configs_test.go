package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENVIRONMENT", "API_BASE_URL", "HTTP_TIMEOUT", "SESSION_FILE", "TOKEN_REFRESH_ENABLED",
		"PORT", "ALLOWED_ORIGINS", "JWT_SECRET", "ASSET_BASE_URL",
		"S3_BUCKET_NAME", "S3_ENDPOINT", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("ENV_FILE", t.TempDir()+"/missing.env")
}

func TestLoadClientConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadClientConfig()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.RefreshEnabled)
	assert.Empty(t, cfg.SessionFile)
}

func TestLoadClientConfig_ProductionRequiresBaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", EnvProduction)

	_, err := LoadClientConfig()
	require.Error(t, err)

	t.Setenv("API_BASE_URL", "https://api.example.com/")
	cfg, err := LoadClientConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
}

func TestLoadClientConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad timeout", "HTTP_TIMEOUT", "soon"},
		{"negative timeout", "HTTP_TIMEOUT", "-1s"},
		{"bad refresh flag", "TOKEN_REFRESH_ENABLED", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := LoadClientConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadServerConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := LoadServerConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.False(t, cfg.HasObjectStorage())
}

func TestLoadServerConfig_Validation(t *testing.T) {
	t.Run("privileged port", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "80")
		_, err := LoadServerConfig()
		assert.Error(t, err)
	})

	t.Run("production secret", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ENVIRONMENT", EnvProduction)
		_, err := LoadServerConfig()
		assert.Error(t, err)
	})

	t.Run("partial s3", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("S3_BUCKET_NAME", "assets")
		_, err := LoadServerConfig()
		assert.Error(t, err)
	})
}
