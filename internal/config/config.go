package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Storage     StorageConfig     `yaml:"storage"`
	Auth        AuthConfig        `yaml:"auth"`
	Recognition RecognitionConfig `yaml:"recognition"`
	Images      ImagesConfig      `yaml:"images"`
	Tailscale   TailscaleConfig   `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig selects the document store. Driver is "sqlite" (default) or
// "postgres".
type StorageConfig struct {
	Driver    string         `yaml:"driver"`
	SQLiteDir string         `yaml:"sqlite_dir"`
	Postgres  DatabaseConfig `yaml:"postgres"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type RecognitionConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// ImagesConfig selects where food photos are uploaded. Provider is "local"
// (default) or "minio".
type ImagesConfig struct {
	Provider       string `yaml:"provider"`
	LocalDir       string `yaml:"local_dir"`
	MinioEndpoint  string `yaml:"minio_endpoint"`
	MinioAccessKey string `yaml:"minio_access_key"`
	MinioSecretKey string `yaml:"minio_secret_key"`
	MinioBucket    string `yaml:"minio_bucket"`
	MinioSecure    bool   `yaml:"minio_secure"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix FITTRACK_ and underscore-separated paths:
//
//	FITTRACK_SERVER_HOST, FITTRACK_SERVER_PORT,
//	FITTRACK_STORAGE_DRIVER, FITTRACK_SQLITE_DIR,
//	FITTRACK_DB_HOST, FITTRACK_DB_PORT, FITTRACK_DB_NAME,
//	FITTRACK_DB_USER, FITTRACK_DB_PASSWORD, FITTRACK_DB_SSLMODE,
//	FITTRACK_AUTH_API_KEY, FITTRACK_RECOGNITION_ENDPOINT,
//	FITTRACK_MINIO_ACCESS_KEY, FITTRACK_MINIO_SECRET_KEY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FITTRACK_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("FITTRACK_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("FITTRACK_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("FITTRACK_SQLITE_DIR"); v != "" {
		cfg.Storage.SQLiteDir = v
	}
	if v := os.Getenv("FITTRACK_DB_HOST"); v != "" {
		cfg.Storage.Postgres.Host = v
	}
	if v := os.Getenv("FITTRACK_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Storage.Postgres.Port = port
		}
	}
	if v := os.Getenv("FITTRACK_DB_NAME"); v != "" {
		cfg.Storage.Postgres.Name = v
	}
	if v := os.Getenv("FITTRACK_DB_USER"); v != "" {
		cfg.Storage.Postgres.User = v
	}
	if v := os.Getenv("FITTRACK_DB_PASSWORD"); v != "" {
		cfg.Storage.Postgres.Password = v
	}
	if v := os.Getenv("FITTRACK_DB_SSLMODE"); v != "" {
		cfg.Storage.Postgres.SSLMode = v
	}
	if v := os.Getenv("FITTRACK_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("FITTRACK_RECOGNITION_ENDPOINT"); v != "" {
		cfg.Recognition.Endpoint = v
	}
	if v := os.Getenv("FITTRACK_MINIO_ACCESS_KEY"); v != "" {
		cfg.Images.MinioAccessKey = v
	}
	if v := os.Getenv("FITTRACK_MINIO_SECRET_KEY"); v != "" {
		cfg.Images.MinioSecretKey = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "sqlite"
	}
	if cfg.Storage.SQLiteDir == "" {
		cfg.Storage.SQLiteDir = "data"
	}
	if cfg.Recognition.Timeout == 0 {
		cfg.Recognition.Timeout = 30 * time.Second
	}
	if cfg.Images.Provider == "" {
		cfg.Images.Provider = "local"
	}
	if cfg.Images.LocalDir == "" {
		cfg.Images.LocalDir = "uploads"
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "fittrack"
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	switch c.Storage.Driver {
	case "sqlite":
	case "postgres":
		db := c.Storage.Postgres
		if db.Host == "" {
			return fmt.Errorf("storage.postgres.host is required")
		}
		if db.Port == 0 {
			return fmt.Errorf("storage.postgres.port is required")
		}
		if db.Name == "" {
			return fmt.Errorf("storage.postgres.name is required")
		}
		if db.User == "" {
			return fmt.Errorf("storage.postgres.user is required")
		}
	default:
		return fmt.Errorf("storage.driver %q is not supported", c.Storage.Driver)
	}
	if c.Recognition.Endpoint == "" {
		return fmt.Errorf("recognition.endpoint is required")
	}
	switch c.Images.Provider {
	case "local":
	case "minio":
		if c.Images.MinioEndpoint == "" || c.Images.MinioBucket == "" {
			return fmt.Errorf("images.minio_endpoint and images.minio_bucket are required")
		}
	default:
		return fmt.Errorf("images.provider %q is not supported", c.Images.Provider)
	}
	return nil
}
