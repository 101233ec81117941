package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env           string        `envconfig:"ENV" default:"development"`
	Addr          string        `envconfig:"ADDR" default:":8080"`
	DatabaseURL   string        `envconfig:"DATABASE_URL" required:"true"`
	SecretKey     string        `envconfig:"SECRET_KEY" required:"true"`
	TokenTTL      time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"30m"`
	AdminPassword string        `envconfig:"ADMIN_PASSWORD"`
	Domain        string        `envconfig:"DOMAIN" default:"http://localhost:8080"`

	Mail MailConfig
}

type MailConfig struct {
	Host     string `envconfig:"MAIL_SERVER"`
	Port     int    `envconfig:"MAIL_PORT" default:"587"`
	Username string `envconfig:"MAIL_USERNAME"`
	Password string `envconfig:"MAIL_PASSWORD"`
	From     string `envconfig:"MAIL_FROM"`
	FromName string `envconfig:"MAIL_FROM_NAME" default:"Bookstore"`
}

// Enabled reports whether an SMTP server was configured.
func (c MailConfig) Enabled() bool {
	return c.Host != ""
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
