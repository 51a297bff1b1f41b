// Package config reads service settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/Wyydra/meet/internal/core/domain"
)

type Log struct {
	Level  string `env:"MEET_LOG_LEVEL" envDefault:"info"`
	Pretty bool   `env:"MEET_LOG_PRETTY" envDefault:"true"`
}

type Server struct {
	Addr         string `env:"MEET_ADDR" envDefault:":8080"`
	DBPath       string `env:"MEET_DB_PATH" envDefault:"meet.db"`
	ProviderURL  string `env:"MEET_PROVIDER_URL" envDefault:"https://g.co/meet"`
	NamingScheme string `env:"MEET_NAMING_SCHEME" envDefault:"channel"`
	AMQPURL      string `env:"MEET_AMQP_URL"`
	AMQPExchange string `env:"MEET_AMQP_EXCHANGE" envDefault:"meet.events"`
	Log          Log
}

type Client struct {
	ServerURL   string `env:"MEET_SERVER_URL" envDefault:"http://localhost:8080"`
	UserID      string `env:"MEET_USER_ID,required,notEmpty"`
	Username    string `env:"MEET_USERNAME"`
	Locale      string `env:"MEET_LOCALE" envDefault:"en"`
	ProviderURL string `env:"MEET_PROVIDER_URL" envDefault:"https://g.co/meet"`
	Log         Log
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func LoadServer() (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	if !domain.NamingScheme(cfg.NamingScheme).Valid() {
		return Server{}, fmt.Errorf("MEET_NAMING_SCHEME: unknown scheme %q", cfg.NamingScheme)
	}
	return cfg, nil
}

func LoadClient() (Client, error) {
	var cfg Client
	if err := ParseEnv(&cfg); err != nil {
		return Client{}, err
	}
	return cfg, nil
}
