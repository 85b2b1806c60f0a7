package util

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/exp/slices"
)

type Config struct {
	Port           string   `envconfig:"PORT" default:"3000" validate:"required,number"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*" validate:"min=1,dive,required"`
	LogLevel       string   `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn error"`

	// Redis is optional; rooms are only mirrored there when an address is set.
	RedisAddress  string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PW"`
	RedisRoomTTL  time.Duration `envconfig:"REDIS_ROOM_TTL" default:"12h" validate:"gt=0"`
	MirrorBuffer  int           `envconfig:"MIRROR_BUFFER" default:"256" validate:"gt=0"`

	PongWait          time.Duration `envconfig:"PONG_WAIT" default:"10s" validate:"gt=0"`
	MaxMessageSize    int64         `envconfig:"MAX_MESSAGE_SIZE" default:"512" validate:"gt=0"`
	EgressBuffer      int           `envconfig:"EGRESS_BUFFER" default:"32" validate:"gt=0"`
	MessagesPerSecond float64       `envconfig:"MESSAGES_PER_SECOND" default:"10" validate:"gt=0"`
	MessageBurst      int           `envconfig:"MESSAGE_BURST" default:"20" validate:"gt=0"`
}

// PingInterval is how often the server pings a connection. It must stay below
// PongWait so a healthy peer always answers in time.
func (c *Config) PingInterval() time.Duration {
	return (c.PongWait * 9) / 10
}

func (c *Config) AllowsAnyOrigin() bool {
	return slices.Contains(c.AllowedOrigins, "*")
}

func LoadConfig() (*Config, error) {
	// a missing .env file is fine, the environment may already be set
	godotenv.Load()

	config := &Config{}

	if err := envconfig.Process("", config); err != nil {
		return nil, err
	}

	if err := Validate.Struct(config); err != nil {
		return nil, err
	}

	return config, nil
}
