package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:   "Valid configuration",
			config: Config{DatabaseURL: "postgresql://localhost/factrix", JWTSecret: "secret"},
		},
		{
			name:    "Missing database URL",
			config:  Config{JWTSecret: "secret"},
			wantErr: "DATABASE_URL",
		},
		{
			name:    "Missing JWT secret",
			config:  Config{DatabaseURL: "postgresql://localhost/factrix"},
			wantErr: "JWT_SECRET_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvironmentPredicates(t *testing.T) {
	assert.True(t, (&Config{GoEnv: "production"}).IsProduction())
	assert.False(t, (&Config{GoEnv: "production"}).IsDevelopment())
	assert.True(t, (&Config{GoEnv: "test"}).IsTest())
	assert.True(t, (&Config{GoEnv: "development"}).IsDevelopment())
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("FACTRIX_TEST_STR", "value")
	assert.Equal(t, "value", getEnv("FACTRIX_TEST_STR", "fallback"))
	assert.Equal(t, "fallback", getEnv("FACTRIX_TEST_UNSET", "fallback"))

	t.Setenv("FACTRIX_TEST_BOOL", "true")
	assert.True(t, getEnvBool("FACTRIX_TEST_BOOL", false))

	t.Setenv("FACTRIX_TEST_BOOL", "not-a-bool")
	assert.False(t, getEnvBool("FACTRIX_TEST_BOOL", false))

	assert.True(t, getEnvBool("FACTRIX_TEST_UNSET_BOOL", true))
}

func TestSetAndGetConfig(t *testing.T) {
	original := GetConfig()
	defer SetConfig(original)

	cfg := &Config{DatabaseURL: "x", JWTSecret: "y"}
	SetConfig(cfg)
	assert.Same(t, cfg, GetConfig())
}
