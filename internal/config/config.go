package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration. Values come from an
// optional YAML file and can be overridden per-field via environment
// variables, so containerized deployments need no file at all.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	CORS     CORSConfig     `yaml:"cors"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
	SSLMode    string `yaml:"sslmode"`
	SchemaPath string `yaml:"schema_path"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DSN builds the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080"},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "kiosco",
			Password: "kiosco",
			Name:     "kiosco_pos",
			SSLMode:  "disable",
		},
		CORS: CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

// Load reads configuration from path (if it exists) on top of the defaults,
// then applies environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Server.Port, "PORT")
	overrideString(&cfg.Database.Host, "DB_HOST")
	overrideString(&cfg.Database.Port, "DB_PORT")
	overrideString(&cfg.Database.User, "DB_USER")
	overrideString(&cfg.Database.Password, "DB_PASSWORD")
	overrideString(&cfg.Database.Name, "DB_NAME")
	overrideString(&cfg.Database.SSLMode, "DB_SSLMODE")
	overrideString(&cfg.Database.SchemaPath, "DB_SCHEMA_PATH")
}

func overrideString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}
