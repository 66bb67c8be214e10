package config

import (
	"fmt"
)

// DatabaseConfig holds PostgreSQL database configuration
// This is shared across all services to avoid duplication
type DatabaseConfig struct {
	Host     string `env:"TTRACK_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"TTRACK_PG_PORT" env-default:"5432"`
	Database string `env:"TTRACK_PG_DATABASE" env-default:"tailors_db"`
	User     string `env:"TTRACK_PG_USER" env-default:"tailors"`
	Password string `env:"TTRACK_PG_PASSWORD" env-default:"pwd"`
	Schema   string `env:"TTRACK_PG_SCHEMA" env-default:"public"`
}

// ToDatabaseURL converts the config to a PostgreSQL connection URL
func (d DatabaseConfig) ToDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s,public",
		d.User, d.Password, d.Host, d.Port, d.Database, d.Schema)
}
