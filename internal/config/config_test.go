package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseConfig() *Config {
	return &Config{
		Port:      "8640",
		JWTSecret: "secure-secret-at-least-32-chars-long!",
		DBDriver:  "postgres",
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid development config", func(t *testing.T) {
		assert.NoError(t, baseConfig().Validate())
	})

	t.Run("missing port", func(t *testing.T) {
		c := baseConfig()
		c.Port = ""
		assert.Error(t, c.Validate())
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		c := baseConfig()
		c.JWTSecret = ""
		assert.Error(t, c.Validate())
	})

	t.Run("unknown driver", func(t *testing.T) {
		c := baseConfig()
		c.DBDriver = "oracle"
		assert.Error(t, c.Validate())
	})

	t.Run("sqlite allowed in development", func(t *testing.T) {
		c := baseConfig()
		c.DBDriver = "sqlite"
		c.DBName = "pawhaven.db"
		assert.NoError(t, c.Validate())
	})
}

func TestConfig_ValidateProduction(t *testing.T) {
	prod := func() *Config {
		c := baseConfig()
		c.Env = "production"
		c.DBPassword = "an-actually-strong-password"
		c.DBSSLMode = "require"
		return c
	}

	t.Run("valid production config", func(t *testing.T) {
		assert.NoError(t, prod().Validate())
	})

	t.Run("default jwt secret rejected", func(t *testing.T) {
		c := prod()
		c.JWTSecret = "your-secret-key-change-in-production"
		assert.Error(t, c.Validate())
	})

	t.Run("short jwt secret rejected", func(t *testing.T) {
		c := prod()
		c.JWTSecret = "short"
		assert.Error(t, c.Validate())
	})

	t.Run("sqlite rejected", func(t *testing.T) {
		c := prod()
		c.DBDriver = "sqlite"
		assert.Error(t, c.Validate())
	})

	t.Run("weak db password rejected", func(t *testing.T) {
		c := prod()
		c.DBPassword = "password"
		assert.Error(t, c.Validate())
	})
}
