package internal

import (
	"fmt"
	"time"
)

type Config struct {
	Host     string `env:"HOST,default=0.0.0.0"`
	Port     int    `env:"PORT,default=8080"`
	WSPath   string `env:"WS_PATH,default=/"`
	LogLevel string `env:"LOG_LEVEL,default=INFO"`

	AuditLogPath   string `env:"AUDIT_LOG_PATH,default=chat.log"`
	AdminSecret    string `env:"ADMIN_SECRET,required=true"`
	ClearLogSecret string `env:"CLEAR_LOG_SECRET"`

	KickGracePeriod      time.Duration `env:"KICK_GRACE_PERIOD,default=100ms"`
	EventBufferSize      int           `env:"EVENT_BUFFER_SIZE,default=256"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	MaxMessageSize       int           `env:"MAX_MESSAGE_SIZE,default=8192"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	StatsInterval        time.Duration `env:"STATS_INTERVAL,default=1m"`

	BadgerFilepath string `env:"BADGER_FILEPATH"`
	LimitRecords   *int   `env:"LIMIT_RECORDS"`
	HealthPort     int    `env:"HEALTH_PORT,default=0"`
	DebugPort      int    `env:"DEBUG_PORT,default=0"`

	ModerationEnabled bool   `env:"MODERATION_ENABLED,default=false"`
	CharReplacement   string `env:"CHARACTER_REPLACEMENT,default=*"`
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate rejects values that would only fail once connections are accepted.
func (c Config) Validate() error {
	if c.EventBufferSize <= 0 {
		return fmt.Errorf("EVENT_BUFFER_SIZE must be positive, got %d", c.EventBufferSize)
	}
	if c.ConnectionBufferSize <= 0 {
		return fmt.Errorf("CONNECTION_BUFFER_SIZE must be positive, got %d", c.ConnectionBufferSize)
	}
	if c.MaxMessageSize <= 0 {
		return fmt.Errorf("MAX_MESSAGE_SIZE must be positive, got %d", c.MaxMessageSize)
	}
	if c.KickGracePeriod < 0 {
		return fmt.Errorf("KICK_GRACE_PERIOD must not be negative, got %s", c.KickGracePeriod)
	}
	if c.StatsInterval <= 0 {
		return fmt.Errorf("STATS_INTERVAL must be positive, got %s", c.StatsInterval)
	}
	return nil
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
