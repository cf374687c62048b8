package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

type (
	Config struct {
		Port         string `env:"PORT" envDefault:"8080"`
		PlacesAPIKey string `env:"API_KEY"`

		Database DatabaseConfig `envPrefix:"DATABASE_"`
		S3       S3Config       `envPrefix:"S3_"`
	}

	DatabaseConfig struct {
		Host     string `env:"HOST" envDefault:"localhost"`
		User     string `env:"USER"`
		Password string `env:"PASSWORD"`
		Name     string `env:"NAME"`
		Port     int    `env:"PORT" envDefault:"5432"`
		SSLMode  string `env:"SSLMODE" envDefault:"disable"`
	}

	S3Config struct {
		Endpoint        string `env:"ENDPOINT"`
		Region          string `env:"REGION" envDefault:"auto"`
		AccessKeyID     string `env:"ACCESS_KEY_ID"`
		SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
		Bucket          string `env:"BUCKET" envDefault:"images-storage-bucket"`
		// PublicHost is the host images are served from; object addresses
		// are built as https://<PublicHost>/<Bucket>/<key>.
		PublicHost string `env:"PUBLIC_HOST" envDefault:"storage.googleapis.com"`
	}
)

func Read() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

// DSN renders the Postgres connection string for gorm.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}
