package internal

import (
	"os"
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	req := require.New(t)
	t.Setenv("ADMIN_SECRET", "s3cret")

	var config Config
	_, err := env.UnmarshalFromEnviron(&config)
	req.NoError(err)
	req.NoError(config.Validate())

	req.Equal("0.0.0.0:8080", config.Address())
	req.Equal("/", config.WSPath)
	req.Equal("chat.log", config.AuditLogPath)
	req.Equal(100*time.Millisecond, config.KickGracePeriod)
	req.Empty(config.ClearLogSecret)
	req.Empty(config.BadgerFilepath)
	req.False(config.ModerationEnabled)
}

func TestConfig_AdminSecretIsRequired(t *testing.T) {
	// Setenv restores the variable once the test ends
	t.Setenv("ADMIN_SECRET", "unused")
	require.NoError(t, os.Unsetenv("ADMIN_SECRET"))

	var config Config
	_, err := env.UnmarshalFromEnviron(&config)
	require.Error(t, err)
}

func TestConfig_Overrides(t *testing.T) {
	req := require.New(t)
	t.Setenv("ADMIN_SECRET", "s3cret")
	t.Setenv("CLEAR_LOG_SECRET", "wipe")
	t.Setenv("PORT", "9000")
	t.Setenv("KICK_GRACE_PERIOD", "250ms")
	t.Setenv("LIMIT_RECORDS", "50")

	var config Config
	_, err := env.UnmarshalFromEnviron(&config)
	req.NoError(err)

	req.Equal(9000, config.Port)
	req.Equal("wipe", config.ClearLogSecret)
	req.Equal(250*time.Millisecond, config.KickGracePeriod)
	req.NotNil(config.LimitRecords)
	req.Equal(50, *config.LimitRecords)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		EventBufferSize:      1,
		ConnectionBufferSize: 1,
		MaxMessageSize:       1,
		StatsInterval:        time.Second,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Event buffer", func(c *Config) { c.EventBufferSize = 0 }},
		{"Connection buffer", func(c *Config) { c.ConnectionBufferSize = -1 }},
		{"Message size", func(c *Config) { c.MaxMessageSize = 0 }},
		{"Kick grace", func(c *Config) { c.KickGracePeriod = -time.Millisecond }},
		{"Stats interval", func(c *Config) { c.StatsInterval = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			tt.mutate(&config)
			require.Error(t, config.Validate())
		})
	}
}

func TestCharacterRune(t *testing.T) {
	req := require.New(t)

	r, err := CharacterRune("#")
	req.NoError(err)
	req.Equal('#', r)

	r, err = CharacterRune("€")
	req.NoError(err)
	req.Equal('€', r)

	_, err = CharacterRune("**")
	req.Error(err)
	_, err = CharacterRune("")
	req.Error(err)
}
